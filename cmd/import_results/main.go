package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"archery-results/clubs"
	"archery-results/config"
	"archery-results/export"
	"archery-results/models"
	"archery-results/results"
	"archery-results/review"

	"github.com/google/uuid"
)

// fileList collects -csv values. The flag may be repeated and each value
// may hold a comma-separated list.
type fileList []string

func (f *fileList) String() string { return strings.Join(*f, ",") }

func (f *fileList) Set(value string) error {
	*f = append(*f, splitList(value)...)
	return nil
}

var csvFiles fileList

func init() {
	flag.Var(&csvFiles, "csv", "Competition CSV file; repeat the flag or pass a comma-separated list")
}

var (
	outDir  = flag.String("out", "out", "Directory for exported results and the summary report")
	approve = flag.Bool("approve", false, "Approve every suggested fix in both review phases")
	clubsDB = flag.String("clubs-db", "", "SQLite file holding the club vocabulary (defaults to sqlite_path from config)")
)

type report struct {
	StartedAt  time.Time            `json:"startedAt"`
	FinishedAt time.Time            `json:"finishedAt"`
	SessionID  string               `json:"sessionId"`
	Phase      review.Phase         `json:"phase"`
	Files      []string             `json:"files"`
	Rejected   []results.FileError  `json:"rejected"`
	Records    int                  `json:"records"`
	Flagged    int                  `json:"flagged"`
	Stats      review.Stats         `json:"stats"`
	Undecided  []models.IssueTicket `json:"undecided"`
	Outputs    []string             `json:"outputs"`
}

func main() {
	flag.Parse()

	if err := validateFlags(); err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	dbPath := *clubsDB
	if dbPath == "" {
		dbPath = cfg.SQLitePath
	}

	ctx := context.Background()
	startedAt := time.Now().UTC()

	storage, err := clubs.OpenSQLiteStorage(dbPath)
	if err != nil {
		log.Fatalf("open club vocabulary: %v", err)
	}
	defer storage.Close()

	store := clubs.NewStore(storage, clubs.Builtins())
	if err := store.Load(ctx); err != nil {
		log.Fatalf("load club vocabulary: %v", err)
	}

	var files []results.File
	for _, path := range csvFiles {
		info, err := os.Stat(path)
		if err != nil {
			log.Fatalf("stat %s: %v", path, err)
		}
		p := path
		files = append(files, results.File{
			Name: filepath.Base(p),
			Size: info.Size(),
			Open: func() (io.ReadCloser, error) { return os.Open(p) },
		})
	}

	parser := results.NewParser(store, cfg.GenderDefault)
	imported, err := results.ImportFiles(ctx, parser, files, func(done, total int) {
		fmt.Printf("Parsed %d/%d files\n", done, total)
	})
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}
	for _, rej := range imported.Rejected {
		fmt.Printf("Rejected %s\n", rej.Error())
	}
	if len(imported.Files) == 0 {
		log.Fatal("no valid CSV files to import")
	}

	policy := review.AgeClassPolicy{Senior: cfg.SeniorResolution, Youth: cfg.YouthResolution}
	session := review.NewSession(uuid.NewString(), imported, policy)

	if *approve {
		for session.Phase() != review.PhaseComplete {
			if err := session.BatchDecide(0, models.ActionApprove); err != nil {
				log.Fatalf("approve %s: %v", session.Phase(), err)
			}
			phase, err := session.Advance()
			if err != nil {
				log.Fatalf("advance review: %v", err)
			}
			fmt.Printf("Review advanced to %s\n", phase)
		}
	}

	view := session.View()
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}

	outputs, err := writeExports(*outDir, view.Records)
	if err != nil {
		log.Fatal(err)
	}

	flagged := 0
	for _, r := range view.Records {
		if r.NeedsReview {
			flagged++
		}
	}

	var undecided []models.IssueTicket
	for _, t := range view.Tickets {
		if _, ok := view.Decisions[t.ID]; !ok {
			undecided = append(undecided, t)
		}
	}

	rep := report{
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
		SessionID:  view.ID,
		Phase:      view.Phase,
		Files:      view.Files,
		Rejected:   view.Rejected,
		Records:    len(view.Records),
		Flagged:    flagged,
		Stats:      view.Stats,
		Undecided:  undecided,
		Outputs:    outputs,
	}

	fmt.Println("Import complete.")
	fmt.Printf("Files: %d accepted, %d rejected\n", len(view.Files), len(view.Rejected))
	fmt.Printf("Records: %d (%d flagged for review)\n", rep.Records, rep.Flagged)
	fmt.Printf("Tickets: %d import, %d consistency, %d undecided\n",
		view.Stats.ImportTickets, view.Stats.ConsistencyTickets, len(undecided))

	reportPath, err := writeReport(*outDir, rep)
	if err != nil {
		log.Printf("warning: failed to write summary report: %v", err)
		return
	}
	fmt.Printf("Summary report: %s\n", reportPath)
}

func validateFlags() error {
	if len(csvFiles) == 0 {
		return fmt.Errorf("--csv is required")
	}
	if strings.TrimSpace(*outDir) == "" {
		return fmt.Errorf("--out must not be empty")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func writeExports(dir string, records []models.CompetitionRecord) ([]string, error) {
	type output struct {
		name  string
		write func(io.Writer) error
	}
	outputs := []output{
		{"results.csv", func(w io.Writer) error { return export.WriteCSV(w, records) }},
		{"results.json", func(w io.Writer) error { return export.WriteJSON(w, records, true) }},
		{"results_audit.json", func(w io.Writer) error { return export.WriteJSON(w, records, false) }},
	}

	var written []string
	for _, o := range outputs {
		path := filepath.Join(dir, o.name)
		f, err := os.Create(path)
		if err != nil {
			return written, fmt.Errorf("create %s: %w", path, err)
		}
		if err := o.write(f); err != nil {
			f.Close()
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return written, fmt.Errorf("close %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func writeReport(dir string, rep report) (string, error) {
	stamp := rep.StartedAt.Format("20060102_150405")
	path := filepath.Join(dir, "import_summary_"+stamp+".json")
	payload, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
