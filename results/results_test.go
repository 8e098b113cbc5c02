package results

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"archery-results/clubs"
	"archery-results/models"

	"golang.org/x/text/encoding/unicode"
)

func testParser() *Parser {
	return NewParser(clubs.NewStore(nil, clubs.Builtins()), "")
}

func parseOne(t *testing.T, csvText string) models.CompetitionRecord {
	t.Helper()
	table, err := ReadCSV(strings.NewReader(csvText))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	records := testParser().ParseRows(table.Rows, "test.csv")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	return records[0]
}

func correctionsFor(rec models.CompetitionRecord, f models.Field) []models.Correction {
	var out []models.Correction
	for _, c := range rec.Corrections {
		if c.Field == f {
			out = append(out, c)
		}
	}
	return out
}

func TestParseEstonianRow(t *testing.T) {
	rec := parseOne(t, "Kuupäev,Nimi,Klubi,Klass,Vanuseklass,Distants,Tulemus,Võistlus\n"+
		"15.12.2024,Mari Mägi,TLVK,Sportvibu naised,U21,2x18m,580,Tallinn Open 2024\n")

	if rec.ID != 1 {
		t.Fatalf("expected id 1, got %d", rec.ID)
	}
	if rec.Date != "2024-12-15" || rec.Athlete != "Mari Mägi" || rec.Club != "TLVK" {
		t.Fatalf("unexpected identity fields: %+v", rec)
	}
	if rec.Confidence != 100 {
		t.Fatalf("expected club confidence 100, got %d", rec.Confidence)
	}
	if rec.BowType != "Recurve" || rec.AgeClass != "U21" || rec.Gender != "Women" {
		t.Fatalf("unexpected categorical fields: bow=%s age=%s gender=%s", rec.BowType, rec.AgeClass, rec.Gender)
	}
	if rec.Distance != "2x18m" || rec.Result != 580 || rec.Competition != "Tallinn Open 2024" {
		t.Fatalf("unexpected score fields: %+v", rec)
	}
	if rec.NeedsReview {
		t.Fatalf("expected needsReview false, corrections: %+v", rec.Corrections)
	}
	if rec.SourceFile != "test.csv" || rec.RawRow["Nimi"] != "Mari Mägi" {
		t.Fatalf("raw row not kept: %+v", rec.RawRow)
	}
	bow := correctionsFor(rec, models.FieldBowType)
	if len(bow) != 1 || bow[0].Original != "Sportvibu" || bow[0].Method != models.MethodTranslation {
		t.Fatalf("expected bow translation correction, got %+v", bow)
	}
}

func TestParseFuzzyClubNeedsReview(t *testing.T) {
	rec := parseOne(t, "Name,Club,Distance,Result\nJaan Tamm,Tallinna Laskeklubi,18m,290\n")

	if rec.Club != "TLVK" {
		t.Fatalf("expected TLVK, got %s", rec.Club)
	}
	if rec.Confidence < 80 || rec.Confidence >= 90 {
		t.Fatalf("expected confidence in 80..89, got %d", rec.Confidence)
	}
	if !rec.NeedsReview {
		t.Fatal("expected fuzzy club to need review")
	}
	club := correctionsFor(rec, models.FieldClub)
	if len(club) != 1 || club[0].Method != models.MethodFuzzy || club[0].Original != "Tallinna Laskeklubi" {
		t.Fatalf("unexpected club corrections: %+v", club)
	}
}

func TestParseScoreValidation(t *testing.T) {
	over := parseOne(t, "Name,Club,Distance,Result\nJaan Tamm,TVK,70m,800\n")
	res := correctionsFor(over, models.FieldResult)
	if len(res) != 1 || res[0].Method != models.MethodValidation || res[0].Confidence != 0 {
		t.Fatalf("expected validation correction, got %+v", res)
	}
	if over.Result != 800 {
		t.Fatalf("out-of-range score must not be clamped, got %d", over.Result)
	}
	if !over.NeedsReview {
		t.Fatal("expected over-maximum score to need review")
	}

	ok := parseOne(t, "Name,Club,Distance,Result\nJaan Tamm,TVK,2x70m,700\n")
	if res := correctionsFor(ok, models.FieldResult); len(res) != 0 {
		t.Fatalf("expected no result correction, got %+v", res)
	}
	if ok.NeedsReview {
		t.Fatal("valid score must not flag review")
	}
	if len(ok.Warnings) != 1 {
		t.Fatalf("expected suspicious-score warning, got %v", ok.Warnings)
	}

	bad := parseOne(t, "Name,Club,Distance,Result\nJaan Tamm,TVK,18m,DNF\n")
	if bad.Result != 0 || !bad.NeedsReview {
		t.Fatalf("unparseable score should default to 0 and need review: %+v", bad)
	}
}

func TestParseDefaultsAreVisible(t *testing.T) {
	rec := parseOne(t, "Name,Club,Bow,Result\nJaan Tamm,TVK,Crossbow,100\n")
	if rec.BowType != "Recurve" || rec.Gender != "Men" || rec.AgeClass != "Adult" {
		t.Fatalf("unexpected defaults: %+v", rec)
	}
	bow := correctionsFor(rec, models.FieldBowType)
	if len(bow) != 1 || bow[0].Confidence != 0 {
		t.Fatalf("expected zero-confidence bow correction, got %+v", bow)
	}
	gender := correctionsFor(rec, models.FieldGender)
	if len(gender) != 1 || gender[0].Confidence != 0 {
		t.Fatalf("expected zero-confidence gender correction, got %+v", gender)
	}
}

func TestParseGenderDefaultUnknown(t *testing.T) {
	p := NewParser(clubs.NewStore(nil, []models.Club{{Code: "TVK", Name: "Tartu Vibuklubi"}}), "Unknown")
	rec := p.ParseRow(map[string]string{"Name": "Jaan Tamm", "Club": "TVK"}, "a.csv")
	if rec.Gender != "Unknown" {
		t.Fatalf("expected Unknown gender, got %s", rec.Gender)
	}
}

func TestParseCanonicalRecordIsIdempotent(t *testing.T) {
	first := parseOne(t, "Kuupäev,Nimi,Klubi,Klass,Vanuseklass,Distants,Tulemus,Võistlus\n"+
		"15.12.2024,mari MÄGI,tlvk,Sportvibu naised,U21,2 X 18,580,Tallinn Open 2024\n")

	row := map[string]string{}
	for _, f := range models.Fields {
		row[string(f)] = first.Get(f)
	}
	second := testParser().ParseRow(row, "export.csv")

	if len(second.Corrections) != 0 {
		t.Fatalf("expected no corrections on canonical input, got %+v", second.Corrections)
	}
	for _, f := range models.Fields {
		if first.Get(f) != second.Get(f) {
			t.Fatalf("%s changed on re-run: %q -> %q", f, first.Get(f), second.Get(f))
		}
	}
}

func TestMapRow(t *testing.T) {
	got := MapRow(map[string]string{
		"Kuupäev":    "15.12.2024",
		"Bow_Type":   "Compound",
		"Age Class":  "U18",
		"Tulemus":    "500",
		"Märkused":   "DNS",
		"Võistlus ":  "Cup",
		"Competition": "",
	})
	want := map[string]string{
		ColumnDate:        "15.12.2024",
		ColumnBowType:     "Compound",
		ColumnAgeClass:    "U18",
		ColumnResult:      "500",
		"Märkused":        "DNS",
		ColumnCompetition: "Cup",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("MapRow[%s] = %q, want %q", k, got[k], v)
		}
	}
}

func TestMapRowDuplicateColumnsAreDeterministic(t *testing.T) {
	row := map[string]string{"Tournament": "Cup B", "Event": "Cup A", "Võistlus": ""}
	for i := 0; i < 20; i++ {
		if got := MapRow(row)[ColumnCompetition]; got != "Cup A" {
			t.Fatalf("MapRow picked %q, want the first sorted non-empty header", got)
		}
	}
}

func TestParseAgeClassCorrectionKeepsSourceText(t *testing.T) {
	rec := parseOne(t, "Name,Club,Class,Distance,Result\nLiis Kask,TVK,Sportvibu naised U15,18m,280\n")
	age := correctionsFor(rec, models.FieldAgeClass)
	if len(age) != 1 || age[0].Original != "Sportvibu naised U15" || age[0].Corrected != "U15" {
		t.Fatalf("unexpected age class correction: %+v", age)
	}
}

func TestReadCSVEncodingsAndDelimiters(t *testing.T) {
	cases := []struct {
		name     string
		data     string
		encoding string
	}{
		{"utf8", "Nimi;Tulemus\nMari Mägi;580\n", "utf-8"},
		{"bom", "\xEF\xBB\xBFNimi,Tulemus\nMari Mägi,580\n", "utf-8-bom"},
		{"windows-1257", "Nimi,Tulemus\nMari M\xe4gi,580\n", "windows-1257"},
	}
	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String("Nimi,Tulemus\nMari Mägi,580\n")
	if err != nil {
		t.Fatal(err)
	}
	cases = append(cases, struct {
		name     string
		data     string
		encoding string
	}{"utf16", utf16, "utf-16"})

	for _, tc := range cases {
		table, err := ReadCSV(strings.NewReader(tc.data))
		if err != nil {
			t.Fatalf("%s: ReadCSV failed: %v", tc.name, err)
		}
		if table.Encoding != tc.encoding {
			t.Errorf("%s: encoding %q, want %q", tc.name, table.Encoding, tc.encoding)
		}
		if len(table.Rows) != 1 || table.Rows[0]["Nimi"] != "Mari Mägi" || table.Rows[0]["Tulemus"] != "580" {
			t.Errorf("%s: unexpected rows %+v", tc.name, table.Rows)
		}
	}
}

func TestReadCSVRaggedAndBlankRows(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("a,b,c\n1,2\n,,\n4,5,6,7\n"))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %+v", table.Rows)
	}
	if table.Rows[0]["c"] != "" || table.Rows[1]["c"] != "6" {
		t.Fatalf("unexpected padding/truncation: %+v", table.Rows)
	}
}

func TestReadCSVMalformed(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("Nimi,Tulemus\n\"Mari,580\n")); err == nil {
		t.Fatal("expected error for unterminated quote")
	}
	if _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestValidateFile(t *testing.T) {
	cases := []struct {
		name   string
		size   int64
		reason string
	}{
		{"results.csv", 100, ""},
		{"RESULTS.CSV", MaxFileSize, ""},
		{"results.xlsx", 100, ReasonExtension},
		{"big.csv", MaxFileSize + 1, ReasonTooLarge},
		{"empty.csv", 0, ReasonEmpty},
	}
	for _, tc := range cases {
		err := ValidateFile(tc.name, tc.size)
		switch {
		case tc.reason == "" && err != nil:
			t.Errorf("%s: unexpected error %v", tc.name, err)
		case tc.reason != "" && (err == nil || err.Reason != tc.reason):
			t.Errorf("%s: expected reason %q, got %v", tc.name, tc.reason, err)
		}
	}
}

func memFile(name, content string) File {
	return File{
		Name: name,
		Size: int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func TestImportFilesSequencesAcrossFiles(t *testing.T) {
	files := []File{
		memFile("a.csv", "Name,Club,Result\nMari Mägi,TLVK,500\nJaan Tamm,TVK,480\n"),
		memFile("notes.txt", "not a csv"),
		memFile("b.csv", "Name,Club,Result\nAnna Kask,PVK,510\n"),
	}

	var progress [][2]int
	result, err := ImportFiles(context.Background(), testParser(), files, func(done, total int) {
		progress = append(progress, [2]int{done, total})
	})
	if err != nil {
		t.Fatalf("ImportFiles failed: %v", err)
	}
	if len(result.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(result.Records))
	}
	for i, rec := range result.Records {
		if rec.ID != i+1 {
			t.Fatalf("record %d has id %d", i, rec.ID)
		}
	}
	if result.Records[2].SourceFile != "b.csv" {
		t.Fatalf("unexpected source file %q", result.Records[2].SourceFile)
	}
	if len(result.Rejected) != 1 || result.Rejected[0].Reason != ReasonExtension {
		t.Fatalf("unexpected rejected files: %+v", result.Rejected)
	}
	if len(progress) != 3 || progress[2] != [2]int{3, 3} {
		t.Fatalf("unexpected progress calls: %v", progress)
	}
}

func TestImportFilesMalformedFails(t *testing.T) {
	files := []File{memFile("bad.csv", "Name,Result\n\"Mari,500\n")}
	if _, err := ImportFiles(context.Background(), testParser(), files, nil); err == nil {
		t.Fatal("expected malformed csv to fail the batch")
	}
}

func TestImportFilesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	files := []File{memFile("a.csv", "Name,Result\nMari,500\n")}
	if _, err := ImportFiles(ctx, testParser(), files, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
