package review

import (
	"archery-results/models"
)

// decidedValue is the value an approval writes: the reviewer's value, or the
// ticket's suggestion when none was given.
func decidedValue(t models.IssueTicket, d models.Decision) string {
	if d.Value != "" {
		return d.Value
	}
	return t.Suggested
}

// ApplyImportDecisions applies import-phase decisions in ticket order.
// Approval overwrites the field on every affected record; rejection drops
// the affected records. A record stays flagged for review unless every
// ticket touching it was approved. Undecided tickets change nothing.
func ApplyImportDecisions(records []models.CompetitionRecord, tickets []models.IssueTicket, decisions models.Decisions) (out []models.CompetitionRecord, removed int) {
	work := models.CloneRecords(records)
	byID := make(map[int]int, len(work))
	for i, r := range work {
		byID[r.ID] = i
	}

	dropped := map[int]bool{}
	unresolved := map[int]bool{}
	for _, t := range tickets {
		d, ok := decisions[t.ID]
		if !ok {
			for _, id := range t.RecordIDs {
				unresolved[id] = true
			}
			continue
		}
		switch d.Action {
		case models.ActionReject:
			for _, id := range t.RecordIDs {
				dropped[id] = true
			}
		case models.ActionApprove:
			value := decidedValue(t, d)
			for _, id := range t.RecordIDs {
				i, ok := byID[id]
				if !ok || dropped[id] {
					continue
				}
				rec := &work[i]
				before := rec.Get(t.Field)
				rec.Set(t.Field, value)
				rec.AddCorrection(models.Correction{
					Field:      t.Field,
					Original:   before,
					Corrected:  rec.Get(t.Field),
					Method:     t.Method,
					Confidence: 100,
				})
				if t.Field == models.FieldClub {
					rec.Confidence = 100
				}
			}
		}
	}

	out = make([]models.CompetitionRecord, 0, len(work))
	for _, r := range work {
		if dropped[r.ID] {
			removed++
			continue
		}
		if r.NeedsReview && !unresolved[r.ID] {
			r.NeedsReview = false
		}
		out = append(out, r)
	}
	return out, removed
}

// ApplyConsistencyDecisions applies consistency-phase approvals. Rejection
// leaves the records as they are.
func ApplyConsistencyDecisions(records []models.CompetitionRecord, tickets []models.IssueTicket, decisions models.Decisions) []models.CompetitionRecord {
	out := models.CloneRecords(records)
	byID := make(map[int]int, len(out))
	for i, r := range out {
		byID[r.ID] = i
	}

	for _, t := range tickets {
		d, ok := decisions[t.ID]
		if !ok || d.Action != models.ActionApprove {
			continue
		}
		value := decidedValue(t, d)
		for _, id := range t.RecordIDs {
			i, ok := byID[id]
			if !ok {
				continue
			}
			rec := &out[i]
			before := rec.Get(t.Field)
			if before == value {
				continue
			}
			rec.Set(t.Field, value)
			rec.AddCorrection(models.Correction{
				Field:      t.Field,
				Original:   before,
				Corrected:  rec.Get(t.Field),
				Method:     models.MethodConsistency,
				Confidence: 100,
			})
		}
	}
	return out
}

// BatchDecide fills every undecided ticket from index from onward with
// action: approvals take the ticket's suggestion. Existing decisions are
// kept. The input map is not modified.
func BatchDecide(tickets []models.IssueTicket, decisions models.Decisions, from int, action models.DecisionAction) models.Decisions {
	out := make(models.Decisions, len(decisions)+len(tickets))
	for k, v := range decisions {
		out[k] = v
	}
	if from < 0 {
		from = 0
	}
	for i := from; i < len(tickets); i++ {
		t := tickets[i]
		if _, ok := out[t.ID]; ok {
			continue
		}
		switch action {
		case models.ActionApprove:
			out[t.ID] = models.Decision{Action: models.ActionApprove, Value: t.Suggested}
		case models.ActionReject:
			out[t.ID] = models.Decision{Action: models.ActionReject}
		}
	}
	return out
}
