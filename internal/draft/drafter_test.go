package draft

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/leavesync/leavesync/internal/config"
	"go.uber.org/zap"
)

func fallbackInput() Input {
	return Input{
		RequesterName: "Alice",
		LeaveType:     "Casual Leave",
		StartDate:     time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
		Days:          3,
		Reason:        "family visit",
	}
}

func TestFallbackIsDeterministic(t *testing.T) {
	first := Fallback(fallbackInput())
	second := Fallback(fallbackInput())
	if first != second {
		t.Fatalf("fallback draft must be deterministic")
	}
}

func TestFallbackContent(t *testing.T) {
	out := Fallback(fallbackInput())

	for _, want := range []string{
		"Dear Manager,",
		"Casual Leave leave from June 09, 2025 to June 11, 2025 (3 days)",
		"Reason: Family visit.",
		"Best regards,\nAlice",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("draft missing %q:\n%s", want, out)
		}
	}
}

func TestFallbackSingleDay(t *testing.T) {
	in := fallbackInput()
	in.EndDate = in.StartDate
	in.Days = 1

	out := Fallback(in)
	if !strings.Contains(out, "(1 day)") {
		t.Fatalf("expected singular day, got:\n%s", out)
	}
}

func TestEnhanceReason(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "Personal reasons."},
		{"   ", "Personal reasons."},
		{"family visit", "Family visit."},
		{"i need rest", "I need rest."},
		{"Doctor appointment.", "Doctor appointment."},
		{"can I leave early?", "Can I leave early?"},
	}
	for _, c := range cases {
		if got := enhanceReason(c.in); got != c.want {
			t.Fatalf("enhanceReason(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNewWithoutEndpointUsesFallback(t *testing.T) {
	d := New(config.Config{}, zap.NewNop())

	out, err := d.Draft(context.Background(), fallbackInput())
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if out != Fallback(fallbackInput()) {
		t.Fatalf("expected fallback draft without a remote endpoint")
	}
}

func TestRemoteDrafterResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("expected bearer auth, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"Polished draft."}}]}`))
	}))
	defer srv.Close()

	cfg := config.Config{}
	cfg.Draft.Endpoint = srv.URL
	cfg.Draft.APIKey = "secret"
	d := New(cfg, zap.NewNop())

	out, err := d.Draft(context.Background(), fallbackInput())
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if out != "Polished draft." {
		t.Fatalf("expected remote draft, got %q", out)
	}
}

func TestRemoteFailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := config.Config{}
	cfg.Draft.Endpoint = srv.URL
	d := New(cfg, zap.NewNop())

	out, err := d.Draft(context.Background(), fallbackInput())
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if out != Fallback(fallbackInput()) {
		t.Fatalf("expected fallback after remote failure")
	}
}
