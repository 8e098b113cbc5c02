package results

import (
	"sort"
	"strings"

	"archery-results/models"
)

// Canonical column names. Most are record fields; Class is the free-text
// competition class ("Sportvibu naised U18") several normalizers read.
const (
	ColumnDate        = string(models.FieldDate)
	ColumnAthlete     = string(models.FieldAthlete)
	ColumnClub        = string(models.FieldClub)
	ColumnBowType     = string(models.FieldBowType)
	ColumnClass       = "Class"
	ColumnAgeClass    = string(models.FieldAgeClass)
	ColumnGender      = string(models.FieldGender)
	ColumnDistance    = string(models.FieldDistance)
	ColumnResult      = string(models.FieldResult)
	ColumnCompetition = string(models.FieldCompetition)
)

// HeaderMappings maps normalized header names to canonical columns.
var HeaderMappings = map[string]string{
	// Date
	"kuupäev": ColumnDate,
	"kuupaev": ColumnDate,
	"kp":      ColumnDate,
	"date":    ColumnDate,

	// Athlete
	"nimi":        ColumnAthlete,
	"sportlane":   ColumnAthlete,
	"võistleja":   ColumnAthlete,
	"voistleja":   ColumnAthlete,
	"laskur":      ColumnAthlete,
	"name":        ColumnAthlete,
	"fullname":    ColumnAthlete,
	"athlete":     ColumnAthlete,
	"athletename": ColumnAthlete,
	"archer":      ColumnAthlete,

	// Club
	"klubi":     ColumnClub,
	"klubinimi": ColumnClub,
	"club":      ColumnClub,
	"clubname":  ColumnClub,
	"clubcode":  ColumnClub,

	// Bow type
	"vibu":     ColumnBowType,
	"vibuliik": ColumnBowType,
	"vibutüüp": ColumnBowType,
	"vibutuup": ColumnBowType,
	"bow":      ColumnBowType,
	"bowtype":  ColumnBowType,

	// Class description
	"klass":         ColumnClass,
	"võistlusklass": ColumnClass,
	"voistlusklass": ColumnClass,
	"arvestus":      ColumnClass,
	"class":         ColumnClass,
	"division":      ColumnClass,
	"category":      ColumnClass,

	// Age class
	"vanus":       ColumnAgeClass,
	"vanuseklass": ColumnAgeClass,
	"vanuserühm":  ColumnAgeClass,
	"vanuseruhm":  ColumnAgeClass,
	"vanusegrupp": ColumnAgeClass,
	"age":         ColumnAgeClass,
	"ageclass":    ColumnAgeClass,
	"agegroup":    ColumnAgeClass,

	// Gender
	"sugu":   ColumnGender,
	"gender": ColumnGender,
	"sex":    ColumnGender,

	// Distance
	"distants": ColumnDistance,
	"harjutus": ColumnDistance,
	"distance": ColumnDistance,
	"round":    ColumnDistance,

	// Result
	"tulemus": ColumnResult,
	"punktid": ColumnResult,
	"summa":   ColumnResult,
	"skoor":   ColumnResult,
	"result":  ColumnResult,
	"score":   ColumnResult,
	"points":  ColumnResult,
	"total":   ColumnResult,

	// Competition
	"võistlus":      ColumnCompetition,
	"voistlus":      ColumnCompetition,
	"võistlusenimi": ColumnCompetition,
	"voistlusenimi": ColumnCompetition,
	"üritus":        ColumnCompetition,
	"competition":   ColumnCompetition,
	"event":         ColumnCompetition,
	"tournament":    ColumnCompetition,
}

func normalizeHeader(header string) string {
	s := strings.ToLower(strings.TrimSpace(header))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}

// CanonicalHeader returns the canonical column for header, or header itself
// when it is not a known variant.
func CanonicalHeader(header string) string {
	if target, ok := HeaderMappings[normalizeHeader(header)]; ok {
		return target
	}
	return strings.TrimSpace(header)
}

// MapRow re-keys a raw row by canonical column. When two source columns map
// to the same canonical column, source headers are taken in sorted order and
// the first non-empty value wins.
func MapRow(row map[string]string) map[string]string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]string, len(row))
	for _, k := range keys {
		target := CanonicalHeader(k)
		if existing, ok := out[target]; ok && strings.TrimSpace(existing) != "" {
			continue
		}
		out[target] = row[k]
	}
	return out
}
