package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"

	"archery-results/export"
	"archery-results/models"
	"archery-results/notify"
	"archery-results/results"
	"archery-results/review"

	"github.com/gofiber/fiber/v2"
)

type ImportController struct {
	Sessions *review.SessionStore
	Parser   *results.Parser
	Notifier notify.Notifier
}

type BatchDecisionRequest struct {
	From   int                   `json:"from"`
	Action models.DecisionAction `json:"action"`
}

// Create parses the uploaded "files" and opens a review session on them.
func (ic *ImportController) Create(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Expected multipart form with files"})
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No files uploaded"})
	}

	files := make([]results.File, 0, len(headers))
	for _, fh := range headers {
		fh := fh
		files = append(files, results.File{
			Name: fh.Filename,
			Size: fh.Size,
			Open: func() (io.ReadCloser, error) { return fh.Open() },
		})
	}

	imported, err := results.ImportFiles(c.UserContext(), ic.Parser, files, func(done, total int) {
		log.Printf("import progress: %d/%d files", done, total)
	})
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	if len(imported.Files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":    "No valid files",
			"rejected": imported.Rejected,
		})
	}

	session := ic.Sessions.Create(imported)
	return c.Status(fiber.StatusCreated).JSON(session.View())
}

func (ic *ImportController) session(c *fiber.Ctx) (*review.Session, error) {
	return ic.Sessions.Get(c.Params("id"))
}

func (ic *ImportController) Get(c *fiber.Ctx) error {
	s, err := ic.session(c)
	if err != nil {
		return reviewError(c, err)
	}
	return c.JSON(s.View())
}

func (ic *ImportController) Tickets(c *fiber.Ctx) error {
	s, err := ic.session(c)
	if err != nil {
		return reviewError(c, err)
	}
	v := s.View()
	return c.JSON(fiber.Map{
		"phase":     v.Phase,
		"cursor":    v.Cursor,
		"tickets":   v.Tickets,
		"decisions": v.Decisions,
	})
}

func (ic *ImportController) Decide(c *fiber.Ctx) error {
	s, err := ic.session(c)
	if err != nil {
		return reviewError(c, err)
	}
	// Ticket ids carry raw cell text, so clients percent-encode them.
	ticketID, err := url.PathUnescape(c.Params("ticketId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ticket id"})
	}
	var d models.Decision
	if err := c.BodyParser(&d); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := s.Decide(ticketID, d); err != nil {
		return reviewError(c, err)
	}
	return c.JSON(s.View())
}

func (ic *ImportController) Batch(c *fiber.Ctx) error {
	s, err := ic.session(c)
	if err != nil {
		return reviewError(c, err)
	}
	var req BatchDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := s.BatchDecide(req.From, req.Action); err != nil {
		return reviewError(c, err)
	}
	return c.JSON(s.View())
}

// Advance applies the active phase. Finishing the last phase sends the
// import summary to the configured notifiers.
func (ic *ImportController) Advance(c *fiber.Ctx) error {
	s, err := ic.session(c)
	if err != nil {
		return reviewError(c, err)
	}
	phase, err := s.Advance()
	if err != nil {
		return reviewError(c, err)
	}
	v := s.View()
	if phase == review.PhaseComplete && ic.Notifier != nil {
		if err := ic.Notifier.Notify(c.UserContext(), Summary(v)); err != nil {
			log.Printf("notify import %s: %v", v.ID, err)
		}
	}
	return c.JSON(v)
}

func (ic *ImportController) Export(c *fiber.Ctx) error {
	s, err := ic.session(c)
	if err != nil {
		return reviewError(c, err)
	}
	records := s.Records()

	var buf bytes.Buffer
	switch format := c.Query("format", "csv"); format {
	case "csv":
		if err := export.WriteCSV(&buf, records); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to export"})
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="results-%s.csv"`, s.ID()))
	case "json":
		view := c.Query("view", "public")
		if view != "public" && view != "full" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "view must be public or full"})
		}
		if err := export.WriteJSON(&buf, records, view == "public"); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to export"})
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "format must be csv or json"})
	}
	return c.Send(buf.Bytes())
}

func (ic *ImportController) Delete(c *fiber.Ctx) error {
	if err := ic.Sessions.Delete(c.Params("id")); err != nil {
		return reviewError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Summary condenses a finished session for notifiers.
func Summary(v review.View) notify.ImportSummary {
	rejected := make([]string, len(v.Rejected))
	for i, r := range v.Rejected {
		rejected[i] = fmt.Sprintf("%s (%s)", r.Name, r.Reason)
	}
	return notify.ImportSummary{
		SessionID:       v.ID,
		Files:           v.Files,
		RejectedFiles:   rejected,
		Records:         len(v.Records),
		RecordsRemoved:  v.Stats.RecordsRemoved,
		TicketsDecided:  v.Stats.Approved + v.Stats.Rejected,
		TicketsRejected: v.Stats.Rejected,
		AutoResolved:    v.Stats.AutoResolved,
	}
}

func reviewError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, review.ErrSessionNotFound), errors.Is(err, review.ErrUnknownTicket):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, review.ErrWrongPhase):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, review.ErrInvalidDecision):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	log.Printf("review: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal error"})
}
