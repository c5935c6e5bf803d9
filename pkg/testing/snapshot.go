package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/compose/pkg/toolkit"
)

// UpdateSnapshotsEnv names the variable that makes MatchesFile rewrite
// golden files instead of comparing.
const UpdateSnapshotsEnv = "COMPOSE_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the structure and visible state of a composed tree.
type Snapshot struct {
	Root *Node `json:"root"`
}

// Node is one component in a snapshot.
type Node struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Name       string         `json:"name,omitempty"`
	Properties map[string]any `json:"props,omitempty"`
	Children   []*Node        `json:"children,omitempty"`
}

// snapshotProps lists the properties recorded for components that expose
// them. Empty strings are left out.
var snapshotProps = []string{"text", "placeholder", "value", "checked", "current_text", "tooltip", "enabled"}

// Capture snapshots the tree under root.
func Capture(root toolkit.Component) *Snapshot {
	if root == nil {
		return &Snapshot{}
	}
	return &Snapshot{Root: captureNode(root, &typeCounter{})}
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When
// COMPOSE_UPDATE_SNAPSHOTS=1 is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateSnapshotsEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateSnapshotsEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s (-expected +actual)\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateSnapshotsEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to path, creating directories as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a line diff from other to this snapshot, or "" when both
// serialize identically.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := marshalSnapshot(s)
	b, _ := marshalSnapshot(other)
	if bytes.Equal(a, b) {
		return ""
	}
	return cmp.Diff(strings.Split(string(b), "\n"), strings.Split(string(a), "\n"))
}

// typeCounter assigns stable IDs like "LineEdit#0", "LineEdit#1".
type typeCounter struct {
	counts map[string]int
}

func (c *typeCounter) next(typeName string) string {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	n := c.counts[typeName]
	c.counts[typeName] = n + 1
	return fmt.Sprintf("%s#%d", typeName, n)
}

func captureNode(c toolkit.Component, counter *typeCounter) *Node {
	typeName := componentTypeName(c)
	n := &Node{
		ID:         counter.next(typeName),
		Type:       typeName,
		Name:       c.ObjectName(),
		Properties: captureProperties(c),
	}
	for _, child := range childrenOf(c) {
		n.Children = append(n.Children, captureNode(child, counter))
	}
	return n
}

// componentTypeName prefers the class name of composed instances.
func componentTypeName(c toolkit.Component) string {
	if cl, ok := c.(interface{ Class() string }); ok && cl.Class() != "" {
		return cl.Class()
	}
	t := reflect.TypeOf(c)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

func captureProperties(c toolkit.Component) map[string]any {
	g, ok := c.(toolkit.PropertyGetter)
	if !ok {
		return nil
	}
	m := make(map[string]any)
	for _, name := range snapshotProps {
		v, ok := g.Property(name)
		if !ok {
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			continue
		}
		m[name] = v
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
