package review

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"archery-results/models"
)

func importTicketID(f models.Field, original string) string {
	return "import:" + string(f) + ":" + original
}

// BuildImportTickets groups the corrections of every record that needs
// review by (field, original value). A flagged record without corrections
// still gets a Club ticket. Least certain tickets come first.
func BuildImportTickets(records []models.CompetitionRecord) []models.IssueTicket {
	var tickets []models.IssueTicket
	pos := map[string]int{}

	add := func(id string, t models.IssueTicket, recordID int) {
		idx, ok := pos[id]
		if !ok {
			t.ID = id
			t.Kind = models.TicketImport
			pos[id] = len(tickets)
			tickets = append(tickets, t)
			idx = len(tickets) - 1
		}
		ids := tickets[idx].RecordIDs
		if len(ids) == 0 || ids[len(ids)-1] != recordID {
			tickets[idx].RecordIDs = append(ids, recordID)
		}
	}

	for _, r := range records {
		if !r.NeedsReview {
			continue
		}
		if len(r.Corrections) == 0 {
			add(importTicketID(models.FieldClub, r.Club), models.IssueTicket{
				Field:      models.FieldClub,
				Original:   r.Club,
				Suggested:  r.Club,
				Confidence: r.Confidence,
				Method:     models.MethodFuzzy,
			}, r.ID)
			continue
		}
		for _, c := range r.Corrections {
			add(importTicketID(c.Field, c.Original), models.IssueTicket{
				Field:      c.Field,
				Original:   c.Original,
				Suggested:  c.Corrected,
				Confidence: c.Confidence,
				Method:     c.Method,
			}, r.ID)
		}
	}

	sort.SliceStable(tickets, func(i, j int) bool {
		return tickets[i].Confidence < tickets[j].Confidence
	})
	return tickets
}

type variant struct {
	value string
	count int
}

// tally counts f across g, most frequent first; ties keep first-seen order.
func tally(records []models.CompetitionRecord, indexes []int, f models.Field) []variant {
	pos := map[string]int{}
	var out []variant
	for _, i := range indexes {
		v := records[i].Get(f)
		if idx, ok := pos[v]; ok {
			out[idx].count++
			continue
		}
		pos[v] = len(out)
		out = append(out, variant{value: v, count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].count > out[j].count })
	return out
}

func summarize(variants []variant) string {
	parts := make([]string, len(variants))
	for i, v := range variants {
		parts[i] = fmt.Sprintf("%s (%d)", v.value, v.count)
	}
	return strings.Join(parts, ", ")
}

func share(variants []variant, value string) int {
	total, hits := 0, 0
	for _, v := range variants {
		total += v.count
		if v.value == value {
			hits = v.count
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(hits) / float64(total) * 100))
}

func recordIDs(records []models.CompetitionRecord, indexes []int) []int {
	ids := make([]int, len(indexes))
	for i, idx := range indexes {
		ids[i] = records[idx].ID
	}
	return ids
}

// BuildConsistencyTickets looks for athletes whose records disagree on name
// spelling, gender, bow type, or age class within a year. The most
// confident tickets come first.
func BuildConsistencyTickets(records []models.CompetitionRecord, policy AgeClassPolicy) []models.IssueTicket {
	var tickets []models.IssueTicket

	athletes := groupBy(records, func(r models.CompetitionRecord) string {
		return normalizedName(r.Athlete)
	})
	for _, g := range athletes {
		if len(g.indexes) < 2 {
			continue
		}
		names := tally(records, g.indexes, models.FieldAthlete)
		athlete := names[0].value

		for _, f := range []models.Field{models.FieldAthlete, models.FieldGender, models.FieldBowType} {
			variants := names
			if f != models.FieldAthlete {
				variants = tally(records, g.indexes, f)
			}
			if len(variants) < 2 {
				continue
			}
			tickets = append(tickets, models.IssueTicket{
				ID:         "consistency:" + string(f) + ":" + g.key,
				Kind:       models.TicketConsistency,
				Field:      f,
				Original:   summarize(variants),
				Suggested:  variants[0].value,
				Confidence: share(variants, variants[0].value),
				Method:     models.MethodConsistency,
				RecordIDs:  recordIDs(records, g.indexes),
				Athlete:    athlete,
			})
		}

		years := groupBy(subset(records, g.indexes), func(r models.CompetitionRecord) string {
			return competitionYear(r.Date)
		})
		for _, y := range years {
			indexes := make([]int, len(y.indexes))
			for i, local := range y.indexes {
				indexes[i] = g.indexes[local]
			}
			variants := tally(records, indexes, models.FieldAgeClass)
			if len(variants) < 2 {
				continue
			}
			values := make([]string, len(variants))
			for i, v := range variants {
				values[i] = v.value
			}
			suggested, ok := policy.Resolve(values)
			if !ok {
				suggested = variants[0].value
			}
			tickets = append(tickets, models.IssueTicket{
				ID:         "consistency:" + string(models.FieldAgeClass) + ":" + g.key + ":" + y.key,
				Kind:       models.TicketConsistency,
				Field:      models.FieldAgeClass,
				Original:   summarize(variants),
				Suggested:  suggested,
				Confidence: share(variants, suggested),
				Method:     models.MethodConsistency,
				RecordIDs:  recordIDs(records, indexes),
				Athlete:    athlete,
				Year:       y.key,
			})
		}
	}

	sort.SliceStable(tickets, func(i, j int) bool {
		return tickets[i].Confidence > tickets[j].Confidence
	})
	return tickets
}

func subset(records []models.CompetitionRecord, indexes []int) []models.CompetitionRecord {
	out := make([]models.CompetitionRecord, len(indexes))
	for i, idx := range indexes {
		out[i] = records[idx]
	}
	return out
}
