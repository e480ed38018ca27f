// Package commands implements the Discord slash commands over the catalog.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jensholdgaard/eventdesk/internal/catalog"
	"github.com/jensholdgaard/eventdesk/internal/event"
)

// Command names.
const (
	CmdEvents = "events"
	CmdReport = "event-report"
	CmdAdd    = "event-add"
)

// Catalog is the subset of catalog.Manager the commands use.
type Catalog interface {
	ListEvents(ctx context.Context) ([]event.Event, error)
	CreateEvent(ctx context.Context, f event.Fields) (*event.Event, error)
	Report(ctx context.Context) (*catalog.Report, error)
}

// Handlers process Discord interactions.
type Handlers struct {
	catalog Catalog
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewHandlers creates new command handlers.
func NewHandlers(c Catalog, logger *slog.Logger, tp trace.TracerProvider) *Handlers {
	return &Handlers{
		catalog: c,
		logger:  logger,
		tracer:  tp.Tracer("github.com/jensholdgaard/eventdesk/internal/bot/commands"),
	}
}

var zeroPrice = 0.0

// SlashCommands returns the slash command definitions.
func SlashCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        CmdEvents,
			Description: "List stored events",
		},
		{
			Name:        CmdReport,
			Description: "Average ticket price per event and events per venue",
		},
		{
			Name:        CmdAdd,
			Description: "Add an event",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "title",
					Description: "Event title",
					Required:    true,
					MaxLength:   event.MaxTitleLen,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "date",
					Description: "Event date, e.g. 2025-11-15",
					MaxLength:   event.MaxDateLen,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "location",
					Description: "Venue",
					MaxLength:   event.MaxLocationLen,
				},
				{
					Type:        discordgo.ApplicationCommandOptionNumber,
					Name:        "price",
					Description: "Ticket price",
					MinValue:    &zeroPrice,
				},
			},
		},
	}
}

// InteractionCreate handles incoming slash command interactions.
func (h *Handlers) InteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	respond(s, i, h.Handle(context.Background(), data.Name, data.Options))
}

// Handle runs the named command and returns the reply text.
func (h *Handlers) Handle(ctx context.Context, name string, opts []*discordgo.ApplicationCommandInteractionDataOption) string {
	ctx, span := h.tracer.Start(ctx, "InteractionCreate",
		trace.WithAttributes(attribute.String("command", name)),
	)
	defer span.End()

	var (
		msg string
		err error
	)
	switch name {
	case CmdEvents:
		msg, err = h.handleEvents(ctx)
	case CmdReport:
		msg, err = h.handleReport(ctx)
	case CmdAdd:
		msg, err = h.handleAdd(ctx, opts)
	default:
		return "Unknown command"
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		var ve *event.ValidationError
		if errors.As(err, &ve) {
			return fmt.Sprintf("Could not add event: %s %s.", ve.Field, ve.Reason)
		}
		h.logger.ErrorContext(ctx, "command failed", slog.String("command", name), slog.Any("error", err))
		return "Something went wrong, please try again later."
	}
	return msg
}

func (h *Handlers) handleEvents(ctx context.Context) (string, error) {
	events, err := h.catalog.ListEvents(ctx)
	if err != nil {
		return "", err
	}
	return FormatEventList(events), nil
}

func (h *Handlers) handleReport(ctx context.Context) (string, error) {
	r, err := h.catalog.Report(ctx)
	if err != nil {
		return "", err
	}
	return FormatReport(r), nil
}

func (h *Handlers) handleAdd(ctx context.Context, opts []*discordgo.ApplicationCommandInteractionDataOption) (string, error) {
	var f event.Fields
	for _, opt := range opts {
		switch opt.Name {
		case "title":
			f.Title = opt.StringValue()
		case "date":
			f.Date = opt.StringValue()
		case "location":
			f.Location = opt.StringValue()
		case "price":
			f.Price = opt.FloatValue()
		}
	}
	e, err := h.catalog.CreateEvent(ctx, f)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Added **%s** (ID: `%d`, %s)", e.Title, e.ID, catalog.FormatPrice(e.Price)), nil
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, msg string) {
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
		},
	})
}
