package review

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"archery-results/models"
	"archery-results/results"
)

type Phase string

const (
	PhaseImport      Phase = "import-review"
	PhaseConsistency Phase = "consistency-review"
	PhaseComplete    Phase = "complete"
)

var (
	ErrSessionNotFound = errors.New("review session not found")
	ErrUnknownTicket   = errors.New("ticket not found in the active phase")
	ErrWrongPhase      = errors.New("operation not allowed in this phase")
	ErrInvalidDecision = errors.New("decision action must be approve or reject")
)

// Stats counts what happened to a batch across both phases.
type Stats struct {
	ImportTickets      int `json:"importTickets"`
	ConsistencyTickets int `json:"consistencyTickets"`
	Approved           int `json:"approved"`
	Rejected           int `json:"rejected"`
	RecordsRemoved     int `json:"recordsRemoved"`
	AutoResolved       int `json:"autoResolved"`
}

// Session walks one imported batch through import review, age-class
// auto-resolution, and consistency review. Each phase builds its tickets
// once; decisions are kept beside them and applied on Advance.
type Session struct {
	mu sync.Mutex

	id        string
	files     []string
	rejected  []results.FileError
	phase     Phase
	records   []models.CompetitionRecord
	tickets   []models.IssueTicket
	decisions models.Decisions
	cursor    int
	stats     Stats
	policy    AgeClassPolicy
	createdAt time.Time
	updatedAt time.Time
}

// View is a point-in-time copy of a session, safe to serialize.
type View struct {
	ID        string                     `json:"id"`
	Phase     Phase                      `json:"phase"`
	Files     []string                   `json:"files"`
	Rejected  []results.FileError        `json:"rejected"`
	Records   []models.CompetitionRecord `json:"records"`
	Tickets   []models.IssueTicket       `json:"tickets"`
	Decisions models.Decisions           `json:"decisions"`
	Cursor    int                        `json:"cursor"`
	Stats     Stats                      `json:"stats"`
	CreatedAt time.Time                  `json:"createdAt"`
	UpdatedAt time.Time                  `json:"updatedAt"`
}

func NewSession(id string, imported *results.ImportResult, policy AgeClassPolicy) *Session {
	now := time.Now().UTC()
	s := &Session{
		id:        id,
		files:     append([]string(nil), imported.Files...),
		rejected:  append([]results.FileError(nil), imported.Rejected...),
		phase:     PhaseImport,
		records:   models.CloneRecords(imported.Records),
		decisions: models.Decisions{},
		policy:    policy,
		createdAt: now,
		updatedAt: now,
	}
	s.tickets = BuildImportTickets(s.records)
	s.stats.ImportTickets = len(s.tickets)
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	decisions := make(models.Decisions, len(s.decisions))
	for k, v := range s.decisions {
		decisions[k] = v
	}
	return View{
		ID:        s.id,
		Phase:     s.phase,
		Files:     append([]string(nil), s.files...),
		Rejected:  append([]results.FileError(nil), s.rejected...),
		Records:   models.CloneRecords(s.records),
		Tickets:   append([]models.IssueTicket(nil), s.tickets...),
		Decisions: decisions,
		Cursor:    s.cursor,
		Stats:     s.stats,
		CreatedAt: s.createdAt,
		UpdatedAt: s.updatedAt,
	}
}

// Records returns a copy of the current record set.
func (s *Session) Records() []models.CompetitionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneRecords(s.records)
}

func (s *Session) lastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

func (s *Session) touch() {
	s.updatedAt = time.Now().UTC()
}

// Decide records the decision for one ticket of the active phase and moves
// the cursor past it.
func (s *Session) Decide(ticketID string, d models.Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseComplete {
		return ErrWrongPhase
	}
	if d.Action != models.ActionApprove && d.Action != models.ActionReject {
		return ErrInvalidDecision
	}
	idx := -1
	for i, t := range s.tickets {
		if t.ID == ticketID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownTicket, ticketID)
	}
	if d.Action == models.ActionApprove && d.Value == "" {
		d.Value = s.tickets[idx].Suggested
	}
	if d.Action == models.ActionReject {
		d.Value = ""
	}
	s.decisions[ticketID] = d
	if idx+1 > s.cursor {
		s.cursor = idx + 1
	}
	s.touch()
	return nil
}

// BatchDecide applies action to every undecided ticket from index from on.
func (s *Session) BatchDecide(from int, action models.DecisionAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseComplete {
		return ErrWrongPhase
	}
	if action != models.ActionApprove && action != models.ActionReject {
		return ErrInvalidDecision
	}
	s.decisions = BatchDecide(s.tickets, s.decisions, from, action)
	s.cursor = len(s.tickets)
	s.touch()
	return nil
}

// Advance applies the active phase's decisions and moves to the next phase.
// Leaving import review runs the age-class resolver and builds the
// consistency tickets.
func (s *Session) Advance() (Phase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.countDecisions()
	switch s.phase {
	case PhaseImport:
		records, removed := ApplyImportDecisions(s.records, s.tickets, s.decisions)
		records, resolved := AutoResolveAgeClasses(records, s.policy)
		s.records = records
		s.stats.RecordsRemoved += removed
		s.stats.AutoResolved += resolved
		s.tickets = BuildConsistencyTickets(s.records, s.policy)
		s.stats.ConsistencyTickets = len(s.tickets)
		s.phase = PhaseConsistency
	case PhaseConsistency:
		s.records = ApplyConsistencyDecisions(s.records, s.tickets, s.decisions)
		s.tickets = nil
		s.phase = PhaseComplete
	default:
		return s.phase, ErrWrongPhase
	}
	s.decisions = models.Decisions{}
	s.cursor = 0
	s.touch()
	return s.phase, nil
}

func (s *Session) countDecisions() {
	if s.phase == PhaseComplete {
		return
	}
	for _, t := range s.tickets {
		d, ok := s.decisions[t.ID]
		if !ok {
			continue
		}
		if d.Action == models.ActionApprove {
			s.stats.Approved++
		} else {
			s.stats.Rejected++
		}
	}
}
