package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Canonical values and the defaults used when raw text cannot be read.
const (
	BowRecurve  = "Recurve"
	BowCompound = "Compound"
	BowBarebow  = "Barebow"
	BowLongbow  = "Longbow"

	AgeAdult = "Adult"

	GenderMen     = "Men"
	GenderWomen   = "Women"
	GenderUnknown = "Unknown"

	DefaultBowType  = BowRecurve
	DefaultAgeClass = AgeAdult
)

// AgeClasses is the canonical age-class enumeration.
var AgeClasses = []string{AgeAdult, "U21", "U18", "U15", "U13", "+50", "+60", "+70"}

var bowTypes = map[string]string{
	"recurve":     BowRecurve,
	"sportvibu":   BowRecurve,
	"olümpiavibu": BowRecurve,
	"olympic":     BowRecurve,
	"compound":    BowCompound,
	"plokkvibu":   BowCompound,
	"barebow":     BowBarebow,
	"vaistuvibu":  BowBarebow,
	"paljasvibu":  BowBarebow,
	"longbow":     BowLongbow,
	"pikkvibu":    BowLongbow,
}

// BowType translates the first word of raw into the canonical bow type.
// Unknown or empty text resolves to Recurve, the most common type; known is
// false in that case so callers can surface the default.
func BowType(raw string) (canonical string, known bool) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return DefaultBowType, false
	}
	if bow, ok := bowTypes[strings.ToLower(fields[0])]; ok {
		return bow, true
	}
	return DefaultBowType, false
}

// FirstToken returns the first whitespace-delimited word of s.
func FirstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

var reAgeClass = regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])(u\d+|\+\d+)`)

// AgeClass finds the first U<n> or +<n> token in the combined age and class
// text, defaulting to Adult.
func AgeClass(age, class string) (value string, found bool) {
	m := reAgeClass.FindStringSubmatch(age + " " + class)
	if m == nil {
		return DefaultAgeClass, false
	}
	return strings.ToUpper(m[1]), true
}

var (
	womenWords = map[string]bool{
		"n": true, "w": true, "f": true, "naised": true, "naine": true, "naiste": true,
		"tüdrukud": true, "neiud": true, "women": true, "woman": true, "female": true,
		"ladies": true, "girls": true,
	}
	menWords = map[string]bool{
		"m": true, "mehed": true, "mees": true, "meeste": true, "poisid": true,
		"men": true, "man": true, "male": true, "boys": true,
	}
)

// Gender reads the explicit gender cell, then falls back to the class
// description. When neither names a gender the configured default is used.
func Gender(explicit, class, fallback string) (value string, found bool) {
	if g := genderOf(explicit, true); g != "" {
		return g, true
	}
	if g := genderOf(class, false); g != "" {
		return g, true
	}
	if fallback == "" {
		fallback = GenderMen
	}
	return fallback, false
}

func genderOf(s string, allowLetters bool) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, w := range words {
		if utf8.RuneCountInString(w) == 1 && !allowLetters {
			continue
		}
		if womenWords[w] {
			return GenderWomen
		}
	}
	for _, w := range words {
		if utf8.RuneCountInString(w) == 1 && !allowLetters {
			continue
		}
		if menWords[w] {
			return GenderMen
		}
	}
	return ""
}

var (
	reBareDistance  = regexp.MustCompile(`^(\d+)$`)
	reMetreDistance = regexp.MustCompile(`(?i)^(\d+)\s*m$`)
	reMultiDistance = regexp.MustCompile(`(?i)^(\d+)\s*[x×]\s*(\d+)\s*m?$`)
)

// Distance canonicalizes a distance notation. Composite rounds such as
// "90m+70m+50m+30m" are already canonical and pass through.
func Distance(raw string) string {
	s := strings.TrimSpace(raw)
	if m := reBareDistance.FindStringSubmatch(s); m != nil {
		return m[1] + "m"
	}
	if m := reMetreDistance.FindStringSubmatch(s); m != nil {
		return m[1] + "m"
	}
	if m := reMultiDistance.FindStringSubmatch(s); m != nil {
		return m[1] + "x" + m[2] + "m"
	}
	return s
}

// Name capitalizes each word and hyphenated part of an athlete name.
func Name(raw string) string {
	words := strings.Fields(raw)
	for i, w := range words {
		parts := strings.Split(w, "-")
		for j, p := range parts {
			parts[j] = capitalize(p)
		}
		words[i] = strings.Join(parts, "-")
	}
	return strings.Join(words, " ")
}

func capitalize(s string) string {
	r := []rune(strings.ToLower(s))
	if len(r) == 0 {
		return ""
	}
	r[0] = unicode.ToUpper(r[0])
	switch {
	case len(r) > 2 && r[0] == 'M' && r[1] == 'c':
		r[2] = unicode.ToUpper(r[2])
	case len(r) > 4 && r[0] == 'M' && r[1] == 'a' && r[2] == 'c':
		r[3] = unicode.ToUpper(r[3])
	case len(r) > 2 && r[0] == 'O' && r[1] == '\'':
		r[2] = unicode.ToUpper(r[2])
	}
	return string(r)
}

var reDottedDate = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})$`)

// Date converts DD.MM.YYYY to YYYY-MM-DD; other formats pass through.
func Date(raw string) string {
	s := strings.TrimSpace(raw)
	m := reDottedDate.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[1])
	return fmt.Sprintf("%s-%02d-%02d", m[3], month, day)
}
