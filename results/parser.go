package results

import (
	"fmt"
	"strconv"
	"strings"

	"archery-results/models"
	"archery-results/normalize"
	"archery-results/scoring"
)

// ReviewThreshold is the club confidence below which a record needs review.
const ReviewThreshold = 90

const ageExtractionConfidence = 90

// Parser turns raw rows into CompetitionRecords with an audit trail.
type Parser struct {
	clubs         *normalize.ClubMatcher
	genderDefault string
}

// NewParser matches clubs against vocab. genderDefault is used when a row
// names no gender; empty means Men.
func NewParser(vocab normalize.Vocabulary, genderDefault string) *Parser {
	if genderDefault == "" {
		genderDefault = normalize.GenderMen
	}
	return &Parser{clubs: normalize.NewClubMatcher(vocab), genderDefault: genderDefault}
}

// ParseRows parses one file's rows and numbers them from 1.
func (p *Parser) ParseRows(rows []map[string]string, sourceFile string) []models.CompetitionRecord {
	out := make([]models.CompetitionRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, p.ParseRow(row, sourceFile))
	}
	Resequence(out)
	return out
}

// Resequence assigns contiguous ids starting at 1.
func Resequence(records []models.CompetitionRecord) {
	for i := range records {
		records[i].ID = i + 1
	}
}

func (p *Parser) ParseRow(raw map[string]string, sourceFile string) models.CompetitionRecord {
	mapped := MapRow(raw)
	clean := make(map[string]string, len(mapped))
	for k, v := range mapped {
		clean[k] = normalize.Sanitize(v)
	}

	rawCopy := make(map[string]string, len(raw))
	for k, v := range raw {
		rawCopy[k] = v
	}

	rec := models.CompetitionRecord{
		Date:        normalize.Date(clean[ColumnDate]),
		Athlete:     normalize.Name(clean[ColumnAthlete]),
		Distance:    normalize.Distance(clean[ColumnDistance]),
		Competition: clean[ColumnCompetition],
		SourceFile:  sourceFile,
		RawRow:      rawCopy,
	}

	p.parseClub(&rec, clean[ColumnClub])
	parseBowType(&rec, clean[ColumnBowType], clean[ColumnClass])
	parseAgeClass(&rec, clean[ColumnAgeClass], clean[ColumnClass])
	p.parseGender(&rec, clean[ColumnGender], clean[ColumnClass])
	scoreIssue := parseResult(&rec, clean[ColumnResult])

	rec.NeedsReview = rec.Confidence < ReviewThreshold || scoreIssue
	return rec
}

func (p *Parser) parseClub(rec *models.CompetitionRecord, text string) {
	match := p.clubs.Match(text)
	rec.Club = match.Code
	rec.Confidence = match.Confidence
	if match.Method == normalize.MatchUnknown || match.Code == text {
		return
	}

	method := models.MethodFuzzy
	if match.Method == normalize.MatchExactCode || match.Method == normalize.MatchExactName {
		method = models.MethodExact
	}
	rec.AddCorrection(models.Correction{
		Field:      models.FieldClub,
		Original:   text,
		Corrected:  match.Code,
		Method:     method,
		Confidence: match.Confidence,
	})
}

func parseBowType(rec *models.CompetitionRecord, bow, class string) {
	source := bow
	if source == "" {
		source = class
	}
	canonical, known := normalize.BowType(source)
	rec.BowType = canonical

	token := normalize.FirstToken(source)
	if token == canonical {
		return
	}
	confidence := 0
	if known {
		confidence = 100
	}
	rec.AddCorrection(models.Correction{
		Field:      models.FieldBowType,
		Original:   token,
		Corrected:  canonical,
		Method:     models.MethodTranslation,
		Confidence: confidence,
	})
}

func parseAgeClass(rec *models.CompetitionRecord, age, class string) {
	value, found := normalize.AgeClass(age, class)
	rec.AgeClass = value

	switch {
	case found && value != age:
		rec.AddCorrection(models.Correction{
			Field:      models.FieldAgeClass,
			Original:   strings.TrimSpace(age + " " + class),
			Corrected:  value,
			Method:     models.MethodExtraction,
			Confidence: ageExtractionConfidence,
		})
	case !found && age != "" && age != value:
		rec.AddCorrection(models.Correction{
			Field:      models.FieldAgeClass,
			Original:   age,
			Corrected:  value,
			Method:     models.MethodExtraction,
			Confidence: 0,
		})
	}
}

func (p *Parser) parseGender(rec *models.CompetitionRecord, explicit, class string) {
	value, found := normalize.Gender(explicit, class, p.genderDefault)
	rec.Gender = value

	switch {
	case explicit != "" && value != explicit:
		confidence := 0
		if found {
			confidence = 100
		}
		rec.AddCorrection(models.Correction{
			Field:      models.FieldGender,
			Original:   explicit,
			Corrected:  value,
			Method:     models.MethodTranslation,
			Confidence: confidence,
		})
	case explicit == "" && !found:
		rec.AddCorrection(models.Correction{
			Field:      models.FieldGender,
			Corrected:  value,
			Method:     models.MethodExtraction,
			Confidence: 0,
		})
	}
}

// parseResult reports whether the score needs review. Out-of-range scores
// are kept as entered; suspiciously high ones only add a warning.
func parseResult(rec *models.CompetitionRecord, text string) bool {
	n, err := strconv.Atoi(strings.ReplaceAll(text, " ", ""))
	if err != nil {
		rec.Result = 0
		rec.AddCorrection(models.Correction{
			Field:      models.FieldResult,
			Original:   text,
			Corrected:  "0",
			Method:     models.MethodValidation,
			Confidence: 0,
		})
		return true
	}
	rec.Result = n

	v := scoring.ValidateScore(n, rec.Distance)
	if !v.Valid {
		rec.AddCorrection(models.Correction{
			Field:      models.FieldResult,
			Original:   text,
			Corrected:  strconv.Itoa(n),
			Method:     models.MethodValidation,
			Confidence: 0,
		})
		return true
	}
	if scoring.IsSuspiciouslyHigh(n, rec.Distance) {
		rec.Warnings = append(rec.Warnings,
			fmt.Sprintf("result %d is above 90%% of the %d maximum for %s", n, v.Max, rec.Distance))
	}
	return false
}
