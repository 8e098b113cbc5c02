// Package notify tells people that a reviewed import is finished.
package notify

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// ImportSummary describes one completed review session.
type ImportSummary struct {
	SessionID       string   `json:"sessionId"`
	Files           []string `json:"files"`
	RejectedFiles   []string `json:"rejectedFiles"`
	Records         int      `json:"records"`
	RecordsRemoved  int      `json:"recordsRemoved"`
	TicketsDecided  int      `json:"ticketsDecided"`
	TicketsRejected int      `json:"ticketsRejected"`
	AutoResolved    int      `json:"autoResolved"`
}

// Text renders the summary as a short plain-text message.
func (s ImportSummary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Import %s complete: %d records from %d file(s)", s.SessionID, s.Records, len(s.Files))
	if len(s.Files) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(s.Files, ", "))
	}
	fmt.Fprintf(&b, ".\nTickets decided: %d, rejected: %d. Records removed: %d. Age classes auto-resolved: %d.",
		s.TicketsDecided, s.TicketsRejected, s.RecordsRemoved, s.AutoResolved)
	if len(s.RejectedFiles) > 0 {
		fmt.Fprintf(&b, "\nRejected files: %s", strings.Join(s.RejectedFiles, ", "))
	}
	return b.String()
}

type Notifier interface {
	Notify(ctx context.Context, summary ImportSummary) error
}

// Multi sends to every notifier in turn. Failures are logged, not returned,
// so one broken channel does not hide the others.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, summary ImportSummary) error {
	for _, n := range m {
		if err := n.Notify(ctx, summary); err != nil {
			log.Printf("notify %T: %v", n, err)
		}
	}
	return nil
}
