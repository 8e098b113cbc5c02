package results

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"archery-results/models"
)

// MaxFileSize caps a single upload.
const MaxFileSize = 10 << 20

const (
	ReasonExtension = "file must have a .csv extension"
	ReasonTooLarge  = "file exceeds the 10 MiB size limit"
	ReasonEmpty     = "file is empty"
)

// FileError reports a file that was not imported and why.
type FileError struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Reason)
}

// ValidateFile checks the name and size of a candidate file.
func ValidateFile(name string, size int64) *FileError {
	switch {
	case !strings.HasSuffix(strings.ToLower(name), ".csv"):
		return &FileError{Name: name, Reason: ReasonExtension}
	case size > MaxFileSize:
		return &FileError{Name: name, Reason: ReasonTooLarge}
	case size == 0:
		return &FileError{Name: name, Reason: ReasonEmpty}
	}
	return nil
}

// File is one input to a batch import. Open is called only for files that
// pass validation.
type File struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

type ImportResult struct {
	Records  []models.CompetitionRecord `json:"records"`
	Files    []string                   `json:"files"`
	Rejected []FileError                `json:"rejected"`
}

// ProgressFunc receives the number of files finished out of total.
type ProgressFunc func(done, total int)

// ImportFiles parses files one after another so record ids are contiguous
// across the whole batch. Invalid files are listed in Rejected; a file that
// cannot be read as CSV at all fails the batch.
func ImportFiles(ctx context.Context, p *Parser, files []File, progress ProgressFunc) (*ImportResult, error) {
	result := &ImportResult{}
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if ferr := ValidateFile(f.Name, f.Size); ferr != nil {
			log.Printf("rejecting %s: %s", f.Name, ferr.Reason)
			result.Rejected = append(result.Rejected, *ferr)
		} else {
			records, err := importFile(p, f)
			if err != nil {
				return nil, err
			}
			result.Records = append(result.Records, records...)
			result.Files = append(result.Files, f.Name)
		}

		if progress != nil {
			progress(i+1, len(files))
		}
	}
	Resequence(result.Records)
	return result, nil
}

func importFile(p *Parser, f File) ([]models.CompetitionRecord, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	table, err := ReadCSV(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name, err)
	}
	return p.ParseRows(table.Rows, f.Name), nil
}
