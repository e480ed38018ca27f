package commands

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/jensholdgaard/eventdesk/internal/catalog"
	"github.com/jensholdgaard/eventdesk/internal/event"
)

// MaxMessageLen is Discord's message content limit.
const MaxMessageLen = 2000

// FormatEventList renders stored events, one per line, within MaxMessageLen.
func FormatEventList(events []event.Event) string {
	if len(events) == 0 {
		return "No events stored yet. Use `/event-add` to add one."
	}
	var b strings.Builder
	b.WriteString("**Events:**\n")
	for idx, e := range events {
		line := fmt.Sprintf("`%d` %s, %s @ %s, %s\n",
			e.ID, e.Title, orDash(e.Date), orDash(e.Location), catalog.FormatPrice(e.Price))
		more := fmt.Sprintf("…and %d more", len(events)-idx)
		if b.Len()+len(line)+len(more) > MaxMessageLen {
			b.WriteString(more)
			break
		}
		b.WriteString(line)
	}
	return b.String()
}

// FormatReport renders the average price per title (by title) and the venue
// counts (busiest first), within MaxMessageLen.
func FormatReport(r *catalog.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Report over %d events**\n", r.EventCount)

	b.WriteString("__Average price__\n")
	for _, title := range slices.Sorted(maps.Keys(r.AveragePriceByTitle)) {
		fmt.Fprintf(&b, "%s: %s\n", title, catalog.FormatPrice(r.AveragePriceByTitle[title]))
	}

	b.WriteString("__Venues__\n")
	venues := slices.SortedFunc(maps.Keys(r.CountByLocation), func(a, c string) int {
		if n := cmp.Compare(r.CountByLocation[c], r.CountByLocation[a]); n != 0 {
			return n
		}
		return strings.Compare(a, c)
	})
	for _, v := range venues {
		fmt.Fprintf(&b, "%s: %d\n", orDash(v), r.CountByLocation[v])
	}

	if n := len(r.DateSeries); n > 0 {
		fmt.Fprintf(&b, "Dates span %s to %s", orDash(r.DateSeries[0].Date), orDash(r.DateSeries[n-1].Date))
	}

	out := b.String()
	if len(out) > MaxMessageLen {
		cut := strings.LastIndexByte(out[:MaxMessageLen-len("…")], '\n')
		out = out[:cut+1] + "…"
	}
	return out
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
