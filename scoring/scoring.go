// Package scoring checks competition results against the maximum a distance allows.
package scoring

import (
	"regexp"
	"strconv"
	"strings"
)

// RoundMaximum is the most points obtainable in one round: 36 arrows of 10.
const RoundMaximum = 360

// SuspiciousShare is the fraction of the maximum above which a valid score
// is still worth a second look.
const SuspiciousShare = 0.9

const (
	KindNegative       = "negative"
	KindExceedsMaximum = "exceeds-maximum"
)

var reMultiplier = regexp.MustCompile(`(?i)^(\d+)\s*[x×]\s*\d+\s*m?$`)

// ParseDistanceCount returns how many rounds a distance string describes.
// "2x70m" is two rounds, "90m+70m+50m+30m" four, "2x90m+2x70m" four.
// Anything it cannot read counts as one round.
func ParseDistanceCount(distance string) int {
	total := 0
	for _, seg := range strings.Split(distance, "+") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if m := reMultiplier.FindStringSubmatch(seg); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil && n > 0 {
				total += n
				continue
			}
		}
		total++
	}
	if total < 1 {
		return 1
	}
	return total
}

func MaxScore(distance string) int {
	return ParseDistanceCount(distance) * RoundMaximum
}

// Validation is the outcome of ValidateScore. Kind is empty when Valid.
type Validation struct {
	Valid bool   `json:"valid"`
	Kind  string `json:"kind,omitempty"`
	Max   int    `json:"max"`
}

func ValidateScore(score int, distance string) Validation {
	max := MaxScore(distance)
	switch {
	case score < 0:
		return Validation{Kind: KindNegative, Max: max}
	case score > max:
		return Validation{Kind: KindExceedsMaximum, Max: max}
	}
	return Validation{Valid: true, Max: max}
}

// IsSuspiciouslyHigh reports a valid score above 90% of the maximum.
func IsSuspiciouslyHigh(score int, distance string) bool {
	v := ValidateScore(score, distance)
	return v.Valid && float64(score) > float64(v.Max)*SuspiciousShare
}
