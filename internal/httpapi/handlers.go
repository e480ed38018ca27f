package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jensholdgaard/eventdesk/internal/event"
)

type handlers struct {
	catalog Catalog
	logger  *slog.Logger
}

// eventRequest is the body accepted by create and update. Omitted fields are
// stored as empty strings and a zero price.
type eventRequest struct {
	Title    string  `json:"title"`
	Date     string  `json:"date"`
	Location string  `json:"location"`
	Price    float64 `json:"price"`
}

func (r eventRequest) fields() event.Fields {
	return event.Fields{Title: r.Title, Date: r.Date, Location: r.Location, Price: r.Price}
}

func (h *handlers) listEvents(c *gin.Context) {
	events, err := h.catalog.ListEvents(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *handlers) createEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, codeInvalidEvent, "malformed request body")
		return
	}
	e, err := h.catalog.CreateEvent(c.Request.Context(), req.fields())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Location", "/api/v1/events/"+strconv.FormatInt(e.ID, 10))
	c.JSON(http.StatusCreated, e)
}

func (h *handlers) getEvent(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	e, err := h.catalog.GetEvent(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *handlers) updateEvent(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, codeInvalidEvent, "malformed request body")
		return
	}
	e, err := h.catalog.UpdateEvent(c.Request.Context(), id, req.fields())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *handlers) deleteEvent(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteEvent(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) report(c *gin.Context) {
	r, err := h.catalog.Report(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *handlers) feed(c *gin.Context) {
	entries, err := h.catalog.Feed(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// eventID parses the :id path parameter, writing a 400 when it is not a
// positive integer.
func eventID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, http.StatusBadRequest, codeInvalidID, "event id must be a positive integer")
		return 0, false
	}
	return id, true
}
