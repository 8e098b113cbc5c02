package models

// TicketKind separates the two review phases.
type TicketKind string

const (
	TicketImport      TicketKind = "import"
	TicketConsistency TicketKind = "consistency"
)

// IssueTicket batches one defect shared by one or more records.
// Tickets are not mutated once built; decisions live in a separate map.
type IssueTicket struct {
	ID         string           `json:"id"`
	Kind       TicketKind       `json:"kind"`
	Field      Field            `json:"field"`
	Original   string           `json:"original"`
	Suggested  string           `json:"suggested"`
	Confidence int              `json:"confidence"`
	Method     CorrectionMethod `json:"method"`
	RecordIDs  []int            `json:"recordIds"`
	Athlete    string           `json:"athlete,omitempty"`
	Year       string           `json:"year,omitempty"`
}

type DecisionAction string

const (
	ActionApprove DecisionAction = "approve"
	ActionReject  DecisionAction = "reject"
)

// Decision records what a reviewer chose for one ticket.
type Decision struct {
	Action DecisionAction `json:"action"`
	Value  string         `json:"value,omitempty"`
}

// Decisions maps ticket id to decision.
type Decisions map[string]Decision
