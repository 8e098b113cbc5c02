package review

import (
	"regexp"
	"strings"

	"archery-results/models"
)

// Ladder directions for the age-class resolver.
const (
	SeniorHighest = "highest"
	SeniorLowest  = "lowest"

	YouthMostSpecific  = "most_specific"
	YouthLeastSpecific = "least_specific"
)

const autoResolveConfidence = 95

// seniorRank orders the senior ladder from youngest to oldest.
var seniorRank = map[string]int{"+50": 1, "+60": 2, "+70": 3}

// youthRank orders the youth ladder from most generic to most specific.
var youthRank = map[string]int{"U21": 1, "U18": 2, "U15": 3, "U13": 4}

// AgeClassPolicy picks the winning value when an athlete has several
// classes on one ladder within a year.
type AgeClassPolicy struct {
	Senior string
	Youth  string
}

func DefaultPolicy() AgeClassPolicy {
	return AgeClassPolicy{Senior: SeniorHighest, Youth: YouthMostSpecific}
}

// Resolve returns the single class values collapse to. It reports false
// when values mix ladders or include a class on neither ladder.
func (p AgeClassPolicy) Resolve(values []string) (string, bool) {
	if len(values) == 0 {
		return "", false
	}
	allSenior, allYouth := true, true
	for _, v := range values {
		if _, ok := seniorRank[v]; !ok {
			allSenior = false
		}
		if _, ok := youthRank[v]; !ok {
			allYouth = false
		}
	}
	switch {
	case allSenior:
		return pick(values, seniorRank, p.Senior != SeniorLowest), true
	case allYouth:
		return pick(values, youthRank, p.Youth != YouthLeastSpecific), true
	}
	return "", false
}

func pick(values []string, rank map[string]int, highest bool) string {
	best := values[0]
	for _, v := range values[1:] {
		if (highest && rank[v] > rank[best]) || (!highest && rank[v] < rank[best]) {
			best = v
		}
	}
	return best
}

var (
	reDottedYear = regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.(\d{4})$`)
	reISOYear    = regexp.MustCompile(`^(\d{4})-\d{2}-\d{2}$`)
)

// competitionYear extracts the year from DD.MM.YYYY or YYYY-MM-DD.
func competitionYear(date string) string {
	date = strings.TrimSpace(date)
	if m := reDottedYear.FindStringSubmatch(date); m != nil {
		return m[1]
	}
	if m := reISOYear.FindStringSubmatch(date); m != nil {
		return m[1]
	}
	return "unknown"
}

func normalizedName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// group is a set of record indexes sharing a key, kept in first-seen order.
type group struct {
	key     string
	indexes []int
}

func groupBy(records []models.CompetitionRecord, key func(models.CompetitionRecord) string) []group {
	pos := map[string]int{}
	var groups []group
	for i, r := range records {
		k := key(r)
		idx, ok := pos[k]
		if !ok {
			idx = len(groups)
			pos[k] = idx
			groups = append(groups, group{key: k})
		}
		groups[idx].indexes = append(groups[idx].indexes, i)
	}
	return groups
}

// distinct returns the distinct values of f within g, in first-seen order.
func distinct(records []models.CompetitionRecord, g group, f models.Field) []string {
	seen := map[string]bool{}
	var out []string
	for _, i := range g.indexes {
		v := records[i].Get(f)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// AutoResolveAgeClasses collapses an athlete's age classes within one year
// when they all sit on one ladder. Changed records gain an extraction
// correction but are not flagged for review.
func AutoResolveAgeClasses(records []models.CompetitionRecord, policy AgeClassPolicy) ([]models.CompetitionRecord, int) {
	out := models.CloneRecords(records)
	changed := 0
	groups := groupBy(out, func(r models.CompetitionRecord) string {
		return normalizedName(r.Athlete) + "\x00" + competitionYear(r.Date)
	})
	for _, g := range groups {
		values := distinct(out, g, models.FieldAgeClass)
		if len(values) < 2 {
			continue
		}
		resolved, ok := policy.Resolve(values)
		if !ok {
			continue
		}
		for _, i := range g.indexes {
			rec := &out[i]
			if rec.AgeClass == resolved {
				continue
			}
			rec.AddCorrection(models.Correction{
				Field:      models.FieldAgeClass,
				Original:   rec.AgeClass,
				Corrected:  resolved,
				Method:     models.MethodExtraction,
				Confidence: autoResolveConfidence,
			})
			rec.AgeClass = resolved
			changed++
		}
	}
	return out, changed
}
