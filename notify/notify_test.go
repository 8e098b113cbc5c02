package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/slack-go/slack"
)

func sampleSummary() ImportSummary {
	return ImportSummary{
		SessionID:       "abc",
		Files:           []string{"a.csv", "b.csv"},
		RejectedFiles:   []string{"notes.txt"},
		Records:         42,
		TicketsDecided:  5,
		TicketsRejected: 1,
	}
}

func TestSummaryText(t *testing.T) {
	text := sampleSummary().Text()
	for _, want := range []string{"Import abc complete", "42 records from 2 file(s)", "a.csv, b.csv", "Rejected files: notes.txt"} {
		if !strings.Contains(text, want) {
			t.Fatalf("summary %q missing %q", text, want)
		}
	}
}

func TestSlackNotifierPostsMessage(t *testing.T) {
	var gotChannel, gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimPrefix(r.URL.Path, "/api/") == "chat.postMessage" {
			_ = r.ParseForm()
			gotChannel = r.FormValue("channel")
			gotText = r.FormValue("text")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "channel": "C123", "ts": "1"})
	}))
	t.Cleanup(server.Close)

	api := slack.New("xoxb-test", slack.OptionAPIURL(server.URL+"/api/"))
	if err := NewSlackNotifier(api, "C123").Notify(context.Background(), sampleSummary()); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if gotChannel != "C123" || !strings.Contains(gotText, "Import abc complete") {
		t.Fatalf("unexpected post: channel=%q text=%q", gotChannel, gotText)
	}
}

type recordingNotifier struct {
	calls int
	err   error
}

func (r *recordingNotifier) Notify(context.Context, ImportSummary) error {
	r.calls++
	return r.err
}

func TestMultiContinuesPastFailures(t *testing.T) {
	failing := &recordingNotifier{err: errors.New("boom")}
	ok := &recordingNotifier{}
	if err := (Multi{failing, ok}).Notify(context.Background(), sampleSummary()); err != nil {
		t.Fatalf("Multi returned error: %v", err)
	}
	if failing.calls != 1 || ok.calls != 1 {
		t.Fatalf("expected both notifiers called, got %d and %d", failing.calls, ok.calls)
	}
}
