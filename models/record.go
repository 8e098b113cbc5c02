package models

import (
	"strconv"
	"strings"
	"time"
)

// Field names a canonical CompetitionRecord field. Tickets and corrections
// target records through this closed set rather than free-form keys.
type Field string

const (
	FieldDate        Field = "Date"
	FieldAthlete     Field = "Athlete"
	FieldClub        Field = "Club"
	FieldBowType     Field = "BowType"
	FieldAgeClass    Field = "AgeClass"
	FieldGender      Field = "Gender"
	FieldDistance    Field = "Distance"
	FieldResult      Field = "Result"
	FieldCompetition Field = "Competition"
)

// Fields lists every field in export order.
var Fields = []Field{
	FieldDate, FieldAthlete, FieldClub, FieldBowType, FieldAgeClass,
	FieldGender, FieldDistance, FieldResult, FieldCompetition,
}

// Valid reports whether f is one of the known record fields.
func (f Field) Valid() bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}

type CorrectionMethod string

const (
	MethodExact       CorrectionMethod = "exact"
	MethodFuzzy       CorrectionMethod = "fuzzy"
	MethodTranslation CorrectionMethod = "translation"
	MethodExtraction  CorrectionMethod = "extraction"
	MethodValidation  CorrectionMethod = "validation"
	MethodConsistency CorrectionMethod = "consistency"
)

// Correction is one change applied to, or proposed for, a record field.
// Corrections are appended to a record's trail and never edited.
type Correction struct {
	Field      Field            `json:"field"`
	Original   string           `json:"original"`
	Corrected  string           `json:"corrected"`
	Method     CorrectionMethod `json:"method"`
	Confidence int              `json:"confidence"`
	CreatedAt  time.Time        `json:"createdAt"`
}

type CompetitionRecord struct {
	ID          int    `json:"id"`
	Date        string `json:"date"`
	Athlete     string `json:"athlete"`
	Club        string `json:"club"`
	BowType     string `json:"bowType"`
	AgeClass    string `json:"ageClass"`
	Gender      string `json:"gender"`
	Distance    string `json:"distance"`
	Result      int    `json:"result"`
	Competition string `json:"competition"`
	SourceFile  string `json:"sourceFile"`

	Corrections []Correction      `json:"corrections"`
	NeedsReview bool              `json:"needsReview"`
	Confidence  int               `json:"confidence"`
	Warnings    []string          `json:"warnings,omitempty"`
	RawRow      map[string]string `json:"rawRow,omitempty"`
}

// Get returns the text form of a field value.
func (r *CompetitionRecord) Get(f Field) string {
	switch f {
	case FieldDate:
		return r.Date
	case FieldAthlete:
		return r.Athlete
	case FieldClub:
		return r.Club
	case FieldBowType:
		return r.BowType
	case FieldAgeClass:
		return r.AgeClass
	case FieldGender:
		return r.Gender
	case FieldDistance:
		return r.Distance
	case FieldResult:
		return strconv.Itoa(r.Result)
	case FieldCompetition:
		return r.Competition
	default:
		return ""
	}
}

// Set overwrites a field from its text form. Result keeps its current value
// when the text is not an integer. Set reports whether the field was known.
func (r *CompetitionRecord) Set(f Field, value string) bool {
	switch f {
	case FieldDate:
		r.Date = value
	case FieldAthlete:
		r.Athlete = value
	case FieldClub:
		r.Club = value
	case FieldBowType:
		r.BowType = value
	case FieldAgeClass:
		r.AgeClass = value
	case FieldGender:
		r.Gender = value
	case FieldDistance:
		r.Distance = value
	case FieldResult:
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			r.Result = n
		}
	case FieldCompetition:
		r.Competition = value
	default:
		return false
	}
	return true
}

// AddCorrection appends to the audit trail.
func (r *CompetitionRecord) AddCorrection(c Correction) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	r.Corrections = append(r.Corrections, c)
}

// Clone returns a deep copy so pipeline phases never share audit slices.
func (r CompetitionRecord) Clone() CompetitionRecord {
	out := r
	if r.Corrections != nil {
		out.Corrections = make([]Correction, len(r.Corrections))
		copy(out.Corrections, r.Corrections)
	}
	if r.Warnings != nil {
		out.Warnings = append([]string(nil), r.Warnings...)
	}
	if r.RawRow != nil {
		out.RawRow = make(map[string]string, len(r.RawRow))
		for k, v := range r.RawRow {
			out.RawRow[k] = v
		}
	}
	return out
}

// CloneRecords deep-copies a record set.
func CloneRecords(records []CompetitionRecord) []CompetitionRecord {
	out := make([]CompetitionRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
