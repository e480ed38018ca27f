package report

import "github.com/jensholdgaard/eventdesk/internal/event"

// ReferenceEvents returns a fresh copy of the built-in Tampa Bay fixtures that
// are merged ahead of stored events in every report. They carry no id.
func ReferenceEvents() []event.Event {
	return []event.Event{
		{Title: "USF Bulls vs UCF Knights", Date: "2025-10-25", Location: "USF Stadium", Price: 30},
		{Title: "Buccaneers vs Saints", Date: "2025-11-02", Location: "Raymond James Stadium", Price: 80},
		{Title: "Lightning vs Hurricanes", Date: "2025-11-06", Location: "Amalie Arena", Price: 60},
		{Title: "Rowdies vs Orlando City", Date: "2025-11-14", Location: "Al Lang Stadium", Price: 35},
		{Title: "USF Volleyball vs Miami", Date: "2025-11-10", Location: "Yuengling Center", Price: 22},
		{Title: "USF Basketball vs Florida Gators", Date: "2025-12-05", Location: "Yuengling Center", Price: 35},
		{Title: "Buccaneers vs Falcons", Date: "2025-11-16", Location: "Raymond James Stadium", Price: 85},
		{Title: "Lightning vs Panthers", Date: "2025-11-15", Location: "Amalie Arena", Price: 70},
		{Title: "Rowdies vs Miami FC", Date: "2025-11-25", Location: "Al Lang Stadium", Price: 38},
		{Title: "USF Soccer vs FIU", Date: "2026-01-08", Location: "Corbett Stadium", Price: 18},
	}
}
