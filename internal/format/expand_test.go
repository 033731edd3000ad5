package format

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/joshuadavidthomas/stravabar/internal/models"
)

func testSnapshot() *models.ActivitySnapshot {
	march := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	return &models.ActivitySnapshot{
		Sport: "run",
		Current: models.Aggregate{
			Name:     "6 Runs",
			Date:     march,
			Distance: 42.0,
			Count:    6,
			Elapsed:  3*time.Hour + 30*time.Minute,
		},
		Period: models.Aggregate{
			Name:     "20 Runs",
			Date:     time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			Distance: 180.25,
			Count:    20,
			Elapsed:  15 * time.Hour,
		},
		AllTime: models.Aggregate{
			Name:     "All Runs",
			Distance: 12345.6,
			Count:    1500,
			Elapsed:  1100 * time.Hour,
		},
	}
}

func TestExpand_DefaultTemplate(t *testing.T) {
	got, err := Expand("{CA:%b} {CD:.1f}km", testSnapshot())
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if got != "Mar 42.0km" {
		t.Errorf("Expand() = %q, want %q", got, "Mar 42.0km")
	}
}

func TestExpand_AllKinds(t *testing.T) {
	got, err := Expand("{CC} runs, {CT} @ {CP}/km | {YD:,.0f} | {AD:,.1f} | {AN}", testSnapshot())
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	want := "6 runs, 3:30:00 @ 5:00/km | 180 | 12,345.6 | All Runs"
	if got != want {
		t.Errorf("Expand() = %q, want %q", got, want)
	}
}

func TestExpand_NilSnapshot(t *testing.T) {
	for _, tmpl := range []string{"{CA:%b} {CD:.1f}km", "{ZZ}", "{", "plain"} {
		got, err := Expand(tmpl, nil)
		if err != nil {
			t.Errorf("Expand(%q, nil) error = %v", tmpl, err)
		}
		if got != "" {
			t.Errorf("Expand(%q, nil) = %q, want empty", tmpl, got)
		}
	}
}

func TestExpand_Idempotent(t *testing.T) {
	snap := testSnapshot()
	tmpl := "{CA:%B %Y}: {CD:>8,.2f} {CP}"
	first, err := Expand(tmpl, snap)
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	second, err := Expand(tmpl, snap)
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if first != second {
		t.Errorf("Expand() not idempotent: %q vs %q", first, second)
	}
}

func TestExpand_LiteralBraces(t *testing.T) {
	got, err := Expand("{{CD}} = {CD:.0f}}}", testSnapshot())
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if got != "{CD} = 42}" {
		t.Errorf("Expand() = %q", got)
	}
}

func TestExpand_Errors(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		want error
	}{
		{"unknown token", "{ZZ}", ErrFieldNotFound},
		{"unclosed", "{CD", ErrTemplateSyntax},
		{"single close", "CD}", ErrTemplateSyntax},
		{"empty placeholder", "{}", ErrTemplateSyntax},
		{"empty token with spec", "{:.1f}", ErrTemplateSyntax},
		{"nested", "{C{D}}", ErrTemplateSyntax},
		{"bad spec", "{CD:.x}", ErrTemplateSyntax},
		{"spec mismatch", "{CN:.1f}", ErrFormat},
		{"width overflows int", "{CD:99999999999999999999}", ErrTemplateSyntax},
		{"width too large", "{CD:>5000}", ErrTemplateSyntax},
		{"precision overflows int", "{CD:.99999999999999999999f}", ErrTemplateSyntax},
		{"precision too large", "{CD:.500f}", ErrTemplateSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(tt.tmpl, testSnapshot())
			if !errors.Is(err, tt.want) {
				t.Fatalf("Expand(%q) error = %v, want %v", tt.tmpl, err, tt.want)
			}
			if got != "" {
				t.Errorf("Expand(%q) = %q on error, want empty", tt.tmpl, got)
			}
		})
	}
}

func TestRender_FallbackOnError(t *testing.T) {
	var buf bytes.Buffer
	l := log.NewWithOptions(&buf, log.Options{Level: log.WarnLevel})

	got := Render(l, "{ZZ}", testSnapshot())
	if got != Fallback {
		t.Errorf("Render() = %q, want %q", got, Fallback)
	}
	if !strings.Contains(buf.String(), "ZZ") {
		t.Errorf("expected warning mentioning the token, got %q", buf.String())
	}
}

func TestRender_OversizedSpecFallsBack(t *testing.T) {
	for _, tmpl := range []string{"{CD:99999999999999999999}", "{CD:.99999999999999999999f}"} {
		if got := Render(nil, tmpl, testSnapshot()); got != Fallback {
			t.Errorf("Render(%q) = %q, want %q", tmpl, got, Fallback)
		}
		if err := Validate(tmpl); !errors.Is(err, ErrTemplateSyntax) {
			t.Errorf("Validate(%q) = %v, want a syntax error", tmpl, err)
		}
	}
	if got, err := Expand("{CD:>1000.100f}", testSnapshot()); err != nil || len(got) != 1000 {
		t.Errorf("Expand at the bounds = %d chars, %v", len(got), err)
	}
}

func TestRender_NilLogger(t *testing.T) {
	if got := Render(nil, "{", testSnapshot()); got != Fallback {
		t.Errorf("Render() = %q, want %q", got, Fallback)
	}
	if got := Render(nil, "{CC}", testSnapshot()); got != "6" {
		t.Errorf("Render() = %q, want 6", got)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate("{CA:%b} {CD:.1f}km"); err != nil {
		t.Errorf("Validate(default) = %v", err)
	}
	if err := Validate("{ZZ}"); !errors.Is(err, ErrFieldNotFound) {
		t.Errorf("Validate({ZZ}) = %v, want ErrFieldNotFound", err)
	}
	if err := Validate("{CD"); !errors.Is(err, ErrTemplateSyntax) {
		t.Errorf("Validate({CD) = %v, want ErrTemplateSyntax", err)
	}
}
