// Package export writes a reviewed record set as CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"archery-results/models"
)

// Header is the CSV column order. Its names map back to canonical columns
// when the file is imported again.
var Header = []string{
	"id", "date", "athlete", "club", "bowType", "ageClass",
	"gender", "distance", "result", "competition", "sourceFile",
}

func WriteCSV(w io.Writer, records []models.CompetitionRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.ID), r.Date, r.Athlete, r.Club, r.BowType, r.AgeClass,
			r.Gender, r.Distance, strconv.Itoa(r.Result), r.Competition, r.SourceFile,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", r.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// PublicRecord is a record without its audit fields.
type PublicRecord struct {
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
}

func Public(records []models.CompetitionRecord) []PublicRecord {
	out := make([]PublicRecord, len(records))
	for i, r := range records {
		out[i] = PublicRecord{
			ID: r.ID, Date: r.Date, Athlete: r.Athlete, Club: r.Club,
			BowType: r.BowType, AgeClass: r.AgeClass, Gender: r.Gender,
			Distance: r.Distance, Result: r.Result, Competition: r.Competition,
			SourceFile: r.SourceFile,
		}
	}
	return out
}

// WriteJSON writes indented JSON. The public view drops corrections, the
// review flag, confidence, warnings and the raw row.
func WriteJSON(w io.Writer, records []models.CompetitionRecord, public bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	var v any = records
	if public {
		v = Public(records)
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
