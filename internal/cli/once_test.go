package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/joshuadavidthomas/stravabar/internal/config"
	"github.com/joshuadavidthomas/stravabar/internal/display"
	"gopkg.in/yaml.v3"
)

func TestOnce_PrintsBarLine(t *testing.T) {
	isolate(t)
	buf := captureOutput(t)
	setFlag(t, &jsonOutput, false)
	stubProvider(t, okProvider(testSnapshot()), nil)

	if err := runCmd(t, onceCmd, nil); err != nil {
		t.Fatalf("once error: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "Mar 42.0km" {
		t.Errorf("once output = %q, want %q", got, "Mar 42.0km")
	}
}

func TestOnce_SavesCache(t *testing.T) {
	isolate(t)
	captureOutput(t)
	stubProvider(t, okProvider(testSnapshot()), nil)

	if err := runCmd(t, onceCmd, nil); err != nil {
		t.Fatalf("once error: %v", err)
	}
	if cached := config.LoadCachedSnapshot(); cached == nil || cached.Current.Distance != 42.0 {
		t.Errorf("cached snapshot = %+v, want the fetched one", cached)
	}
}

func TestOnce_JSONIsWaybarObject(t *testing.T) {
	isolate(t)
	buf := captureOutput(t)
	setFlag(t, &jsonOutput, true)
	stubProvider(t, okProvider(testSnapshot()), nil)

	if err := runCmd(t, onceCmd, nil); err != nil {
		t.Fatalf("once --json error: %v", err)
	}

	var wb display.Waybar
	if err := json.Unmarshal(buf.Bytes(), &wb); err != nil {
		t.Fatalf("output is not a waybar object: %v\n%s", err, buf.String())
	}
	if wb.Text != "Mar 42.0km" || wb.Class != display.ClassOK {
		t.Errorf("waybar = %+v", wb)
	}
	if !strings.Contains(wb.Tooltip, "310 Runs") {
		t.Errorf("tooltip should hold the report, got:\n%s", wb.Tooltip)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("waybar output must be a single line, got %q", buf.String())
	}
}

func TestOnce_FailureFallsBackToCache(t *testing.T) {
	isolate(t)
	buf := captureOutput(t)
	setFlag(t, &jsonOutput, true)
	setFlag(t, &refresh, false)
	if err := config.CacheSnapshot(*testSnapshot()); err != nil {
		t.Fatal(err)
	}
	stubProvider(t, failProvider("rate limited"), nil)

	var logs bytes.Buffer
	if err := runCmd(t, onceCmd, &logs); err != nil {
		t.Fatalf("once error: %v", err)
	}

	var wb display.Waybar
	if err := json.Unmarshal(buf.Bytes(), &wb); err != nil {
		t.Fatal(err)
	}
	if wb.Class != display.ClassStale {
		t.Errorf("class = %q, want %q", wb.Class, display.ClassStale)
	}
	if !strings.Contains(logs.String(), "rate limited") {
		t.Errorf("expected the fetch error to be logged, got %q", logs.String())
	}
}

func TestOnce_RefreshSkipsCache(t *testing.T) {
	isolate(t)
	captureOutput(t)
	setFlag(t, &refresh, true)
	if err := config.CacheSnapshot(*testSnapshot()); err != nil {
		t.Fatal(err)
	}
	stubProvider(t, failProvider("rate limited"), nil)

	err := runCmd(t, onceCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("once --refresh error = %v, want the fetch error", err)
	}
}

func TestOnce_NoCredentialsNoCache(t *testing.T) {
	isolate(t)
	captureOutput(t)
	stubProvider(t, nil, errors.New("no Strava token found"))

	if err := runCmd(t, onceCmd, nil); err == nil {
		t.Error("expected an error with no token and no cache")
	}
}

func TestOnce_NoCredentialsServesCache(t *testing.T) {
	isolate(t)
	buf := captureOutput(t)
	setFlag(t, &jsonOutput, false)
	setFlag(t, &refresh, false)
	if err := config.CacheSnapshot(*testSnapshot()); err != nil {
		t.Fatal(err)
	}
	stubProvider(t, nil, errors.New("no Strava token found"))

	if err := runCmd(t, onceCmd, nil); err != nil {
		t.Fatalf("once error: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "Mar 42.0km" {
		t.Errorf("once output = %q", got)
	}
}

func TestOnce_BadTemplatePrintsFallback(t *testing.T) {
	isolate(t)
	buf := captureOutput(t)
	setFlag(t, &jsonOutput, false)
	config.Override(t, func(c *config.Config) { c.Widget.Text = "{ZZ}" })
	stubProvider(t, okProvider(testSnapshot()), nil)

	if err := runCmd(t, onceCmd, nil); err != nil {
		t.Fatalf("once error: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "Error" {
		t.Errorf("once output = %q, want the fallback", got)
	}
}

func TestReport_PrintsDetail(t *testing.T) {
	isolate(t)
	buf := captureOutput(t)
	setFlag(t, &jsonOutput, false)
	stubProvider(t, okProvider(testSnapshot()), nil)

	if err := runCmd(t, reportCmd, nil); err != nil {
		t.Fatalf("report error: %v", err)
	}
	for _, want := range []string{"6 Runs", "20 Runs", "310 Runs"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("report missing %q:\n%s", want, buf.String())
		}
	}
}

func TestDump_JSON(t *testing.T) {
	isolate(t)
	buf := captureOutput(t)
	stubProvider(t, okProvider(testSnapshot()), nil)

	if err := runCmd(t, dumpCmd, nil); err != nil {
		t.Fatalf("dump error: %v", err)
	}
	var got struct {
		Success  bool `json:"success"`
		Snapshot struct {
			Athlete string `json:"athlete"`
		} `json:"snapshot"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("dump output is not JSON: %v", err)
	}
	if !got.Success || got.Snapshot.Athlete != "Jo Bloggs" {
		t.Errorf("dump = %+v", got)
	}
}

func TestDump_YAML(t *testing.T) {
	isolate(t)
	buf := captureOutput(t)
	stubProvider(t, okProvider(testSnapshot()), nil)

	_ = dumpCmd.Flags().Set("yaml", "true")
	t.Cleanup(func() { _ = dumpCmd.Flags().Set("yaml", "false") })

	if err := runCmd(t, dumpCmd, nil); err != nil {
		t.Fatalf("dump --yaml error: %v", err)
	}
	var got map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("dump output is not YAML: %v", err)
	}
	if got["sport"] != "run" {
		t.Errorf("sport = %v, want run", got["sport"])
	}
}
