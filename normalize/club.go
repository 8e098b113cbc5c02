package normalize

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"archery-results/matching"
	"archery-results/models"
)

const (
	MatchExactCode     = "exact-code"
	MatchExactName     = "exact-name"
	MatchShortCode     = "short-code"
	MatchFuzzyStripped = "fuzzy-stripped"
	MatchFuzzyRaw      = "fuzzy-raw"
	MatchUnknown       = "unknown"

	shortCodeConfidence = 95
)

// noiseWords are standalone organizational words that say nothing about
// which club is meant. They are removed before fuzzy comparison of longer
// inputs. Compounds such as "vibuklubi" or "spordikool" name a discipline
// and are kept.
var noiseWords = map[string]bool{
	"klubi": true, "selts": true, "seltsing": true, "ühing": true,
	"kool": true, "mtü": true, "mtu": true, "sk": true, "sc": true,
	"club": true, "society": true, "school": true, "team": true, "ry": true,
}

// Vocabulary is the read side of the club store. The matcher reads it on
// every call so vocabulary changes apply immediately.
type Vocabulary interface {
	All() []models.Club
}

type ClubMatch struct {
	Code       string `json:"code"`
	Confidence int    `json:"confidence"`
	Method     string `json:"method"`
}

type ClubMatcher struct {
	vocab Vocabulary
}

func NewClubMatcher(vocab Vocabulary) *ClubMatcher {
	return &ClubMatcher{vocab: vocab}
}

// Match resolves free club text to a vocabulary code.
func (m *ClubMatcher) Match(raw string) ClubMatch {
	input := strings.TrimSpace(raw)
	clubs := m.vocab.All()
	if input == "" || len(clubs) == 0 {
		return ClubMatch{Code: input, Confidence: 0, Method: MatchUnknown}
	}

	for _, c := range clubs {
		if strings.EqualFold(c.Code, input) {
			return ClubMatch{Code: c.Code, Confidence: 100, Method: MatchExactCode}
		}
	}
	for _, c := range clubs {
		if strings.EqualFold(c.Name, input) {
			return ClubMatch{Code: c.Code, Confidence: 100, Method: MatchExactName}
		}
	}

	inputLen := utf8.RuneCountInString(input)
	if inputLen >= 2 && inputLen <= 5 {
		upper := strings.ToUpper(input)
		found := ""
		hits := 0
		for _, c := range clubs {
			if strings.HasPrefix(strings.ToUpper(c.Code), upper) {
				found = c.Code
				hits++
			}
		}
		if hits == 1 {
			return ClubMatch{Code: found, Confidence: shortCodeConfidence, Method: MatchShortCode}
		}
	}

	strippedInput, changed := input, false
	if inputLen > 5 {
		strippedInput, changed = stripNoise(input)
	}

	best := -1
	bestDist := math.MaxInt
	for i, c := range clubs {
		name := c.Name
		if inputLen > 5 {
			name, _ = stripNoise(c.Name)
		}
		d := min(
			matching.Distance(strippedInput, c.Code),
			matching.Distance(strippedInput, name),
			matching.Distance(input, c.Code),
			matching.Distance(input, c.Name),
		)
		if d < bestDist {
			best, bestDist = i, d
		}
	}

	denom := max(utf8.RuneCountInString(strippedInput), utf8.RuneCountInString(clubs[best].Code), 1)
	confidence := int(math.Round((1 - float64(bestDist)/float64(denom)) * 100))
	if confidence < 0 {
		confidence = 0
	}
	method := MatchFuzzyRaw
	if changed {
		method = MatchFuzzyStripped
	}
	return ClubMatch{Code: clubs[best].Code, Confidence: confidence, Method: method}
}

// stripNoise lowercases s, splits it into words and drops noise words.
// It reports whether any word was dropped.
func stripNoise(s string) (string, bool) {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	kept := words[:0:0]
	for _, w := range words {
		if !noiseWords[w] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " "), len(kept) != len(words)
}
