package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// capture routes command output into a buffer for the duration of the test.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevErr, prevDir := stdout, stderr, workDir
	stdout, stderr = &buf, io.Discard
	t.Cleanup(func() { stdout, stderr, workDir = prevOut, prevErr, prevDir })
	return &buf
}

func newModule(t *testing.T, composeYAML string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/app\n\ngo 1.24\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if composeYAML != "" {
		if err := os.WriteFile(filepath.Join(root, "compose.yaml"), []byte(composeYAML), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"simple path", []string{"parse", "name"}, []string{"kind: simple", "- name"}},
		{"optional chain", []string{"parse", "address?.city"}, []string{"kind: nested", "optional:", "- address"}},
		{"format with target", []string{"parse", "--target", "Label", "{upper(name)} ({age})"},
			[]string{"kind: format", "property: text", "source: upper(name)", "- age"}},
		{"explicit property", []string{"parse", "--target", "LineEdit", "--prop", "placeholder", "hint"},
			[]string{"property: placeholder"}},
		{"render format", []string{"parse", "--set", "total=1234.5", "{total:,.2f} EUR"}, []string{"rendered: 1,234.50 EUR"}},
		{"render nested path", []string{"parse", "--set", "address={city: Paris}", "address.city"}, []string{"rendered: Paris"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := capture(t)
			if err := run(tt.args); err != nil {
				t.Fatal(err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no expression", []string{"parse"}, "exactly one expression"},
		{"unknown target", []string{"parse", "--target", "Slider", "x"}, "LineEdit"},
		{"bad set", []string{"parse", "--set", "novalue", "x"}, "NAME=VALUE"},
		{"missing flag value", []string{"parse", "x", "--target"}, "requires a value"},
		{"malformed template", []string{"parse", "{name"}, "unclosed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capture(t)
			err := run(tt.args)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	root := newModule(t, `layout: form
binds:
  - expr: "{upper(name)} ({age})"
    target: Label
  - expr: address?.city
    target: LineEdit
`)
	out := capture(t)
	if err := run([]string{"--dir", root, "check"}); err != nil {
		t.Fatalf("check failed: %v\n%s", err, out)
	}
	if !strings.Contains(out.String(), "format -> Label.text") || !strings.Contains(out.String(), "2 binds ok") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCheckReportsFailures(t *testing.T) {
	root := newModule(t, `binds:
  - expr: name
    target: LineEdit
  - expr: "{name"
`)
	out := capture(t)
	err := run([]string{"-C", root, "check"})
	if err == nil || !strings.Contains(err.Error(), "1 of 2 binds failed") {
		t.Fatalf("got %v", err)
	}
	if !strings.Contains(out.String(), `FAIL "{name"`) {
		t.Errorf("missing failure line:\n%s", out)
	}
}

func TestCheckRejectsBadLayout(t *testing.T) {
	root := newModule(t, "layout: diagonal\n")
	capture(t)
	if err := run([]string{"--dir=" + root, "check"}); err == nil || !strings.Contains(err.Error(), "diagonal") {
		t.Errorf("got %v", err)
	}
}

func TestConfigAppliesEnv(t *testing.T) {
	root := newModule(t, "undo: true\n")
	t.Setenv("COMPOSE_LAYOUT", "grid")
	out := capture(t)
	if err := run([]string{"--dir", root, "config"}); err != nil {
		t.Fatal(err)
	}
	for _, w := range []string{"# module example.com/app", "layout: grid", "undo: true", "undo_depth: 100"} {
		if !strings.Contains(out.String(), w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestInit(t *testing.T) {
	root := newModule(t, "")
	out := capture(t)
	if err := run([]string{"--dir", root, "init"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "wrote ") {
		t.Errorf("output = %s", out)
	}
	data, err := os.ReadFile(filepath.Join(root, "compose.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "layout: vertical") {
		t.Errorf("compose.yaml = %s", data)
	}

	if err := run([]string{"--dir", root, "init"}); err == nil {
		t.Error("expected init to refuse overwriting")
	}
	if err := run([]string{"--dir", root, "init", "--force"}); err != nil {
		t.Errorf("init --force: %v", err)
	}
	if err := run([]string{"--dir", root, "check"}); err != nil {
		t.Errorf("generated compose.yaml does not check: %v", err)
	}
}

func TestFunctions(t *testing.T) {
	out := capture(t)
	if err := run([]string{"functions"}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Fields(out.String())
	for _, w := range []string{"upper", "round", "try"} {
		found := false
		for _, l := range lines {
			if l == w {
				found = true
			}
		}
		if !found {
			t.Errorf("functions missing %q", w)
		}
	}
}

func TestRootDispatch(t *testing.T) {
	out := capture(t)
	if err := run([]string{"--version"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "compose CLI version "+Version) {
		t.Errorf("version output = %q", out)
	}

	out.Reset()
	if err := run(nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Commands:") || !strings.Contains(out.String(), "parse") {
		t.Errorf("help output = %q", out)
	}

	out.Reset()
	if err := run([]string{"check", "--help"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "compose check") {
		t.Errorf("command help = %q", out)
	}

	if err := run([]string{"frobnicate"}); err == nil {
		t.Error("expected an unknown command error")
	}
	if err := run([]string{"--dir"}); err == nil {
		t.Error("expected --dir without a value to fail")
	}
}
