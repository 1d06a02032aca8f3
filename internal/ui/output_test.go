package ui

import (
	"bytes"
	"strings"
	"testing"
)

func newTestOutput() (*Output, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	o := NewOutputTo(&stdout, &stderr)
	o.SetNoColor(true)
	return o, &stdout, &stderr
}

func TestOutputStreams(t *testing.T) {
	o, stdout, stderr := newTestOutput()

	o.Success("added %s", "useDebounce")
	o.Step("Installing %s...", "hook/useDebounce")
	o.Warning("registry unreachable")
	o.Error("boom")

	if got := stdout.String(); got != "OK added useDebounce\n> Installing hook/useDebounce...\n" {
		t.Errorf("stdout = %q", got)
	}
	if got := stderr.String(); got != "WARN registry unreachable\nFAIL boom\n" {
		t.Errorf("stderr = %q", got)
	}
}

func TestOutputDebugGated(t *testing.T) {
	o, _, stderr := newTestOutput()

	o.Debug("hidden")
	if stderr.Len() != 0 {
		t.Errorf("debug printed while disabled: %q", stderr.String())
	}

	o.SetDebug(true)
	o.Debug("shown %d", 1)
	if got := stderr.String(); got != "DEBUG shown 1\n" {
		t.Errorf("stderr = %q", got)
	}
}

func TestOutputNoColorHelpers(t *testing.T) {
	o, _, _ := newTestOutput()
	for _, got := range []string{o.Bold("x"), o.Dim("x"), o.Accent("x"), o.Green("x")} {
		if got != "x" {
			t.Errorf("styled text = %q, want plain", got)
		}
	}
}

func TestOutputTable(t *testing.T) {
	o, stdout, _ := newTestOutput()

	o.Table([]string{"NAME", "VERSION"}, [][]string{
		{"useLocalStorage", "1.0.0"},
		{"isBrowser", "1.10.0"},
	})

	lines := strings.Split(strings.TrimRight(stdout.String(), "\n"), "\n")
	want := []string{
		"NAME             VERSION",
		"useLocalStorage  1.0.0",
		"isBrowser        1.10.0",
	}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestOutputTableEmpty(t *testing.T) {
	o, stdout, _ := newTestOutput()
	o.Table([]string{"NAME"}, nil)
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
}

func TestDefaultInitAnswers(t *testing.T) {
	ts := DefaultInitAnswers(true)
	if ts.HooksDir != "src/hooks" || ts.UtilsDir != "src/lib/utils" {
		t.Errorf("typescript defaults = %+v", ts)
	}
	js := DefaultInitAnswers(false)
	if js.HooksDir != "hooks" || js.UtilsDir != "utils" || js.UtilsAlias != "@/lib/utils" {
		t.Errorf("javascript defaults = %+v", js)
	}
}

func TestIsCI(t *testing.T) {
	for _, k := range []string{"CI", "DEV_TOOLKIT_CI", "GITHUB_ACTIONS", "GITLAB_CI"} {
		t.Setenv(k, "")
	}
	if IsCI() {
		t.Error("IsCI() = true with no CI variables")
	}
	t.Setenv("GITLAB_CI", "false")
	if IsCI() {
		t.Error("GITLAB_CI=false should not count as CI")
	}
	t.Setenv("CI", "true")
	if !IsCI() {
		t.Error("IsCI() = false with CI=true")
	}
}
