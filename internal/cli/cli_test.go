package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/zonesmith/pkg/errors"
	"github.com/matzehuels/zonesmith/pkg/zone"
	"github.com/matzehuels/zonesmith/pkg/zonefile"
)

// isolate points every config, cache and store location at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("ZONESMITH_STORE_BACKEND", "file")
	t.Setenv("ZONESMITH_STORE_DIR", filepath.Join(dir, "layouts"))
	t.Setenv("ZONESMITH_CACHE_DIR", filepath.Join(dir, "render-cache"))
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeZones(t *testing.T, path string, zones []zone.Zone) {
	t.Helper()
	if err := zonefile.Export(&zone.Layout{Zones: zones}, path); err != nil {
		t.Fatalf("Export(%s): %v", path, err)
	}
}

func readZones(t *testing.T, path string) []zone.Zone {
	t.Helper()
	l, err := zonefile.Import(path)
	if err != nil {
		t.Fatalf("Import(%s): %v", path, err)
	}
	return l.Zones
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{
		"validate", "show", "edges", "split", "move", "delete-edge", "render",
		"template", "store", "cache", "edit", "serve", "config", "completion",
	}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("verbose") == nil {
		t.Error("missing --verbose flag")
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing --config flag")
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,dot,json", []string{"svg", "dot", "json"}},
		{"spaces trimmed", "svg, png", []string{"svg", "png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name                 string
		output, input, lname string
		want                 string
	}{
		{"from input", "", "layouts/desk.toml", "desk", "layouts/desk"},
		{"from template name", "", "", "thirds", "thirds"},
		{"plain output", "out/desk", "desk.json", "desk", "out/desk"},
		{"strips format extension", "out/desk.svg", "desk.json", "desk", "out/desk"},
		{"strips adjacency extension", "out/desk.adjacency.svg", "desk.json", "desk", "out/desk"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input, tt.lname); got != tt.want {
				t.Errorf("basePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	if got := outputPath("x.svg", "x", "svg", 1); got != "x.svg" {
		t.Errorf("single format = %q, want x.svg", got)
	}
	if got := outputPath("x.svg", "x", "adjacency", 2); got != "x.adjacency.svg" {
		t.Errorf("adjacency = %q, want x.adjacency.svg", got)
	}
	if got := outputPath("", "desk", "json", 1); got != "desk.json" {
		t.Errorf("derived = %q, want desk.json", got)
	}
}

func TestValidateCommand(t *testing.T) {
	dir := isolate(t)

	good := filepath.Join(dir, "good.json")
	writeZones(t, good, zone.Default())
	if _, err := run(t, "validate", good); err != nil {
		t.Errorf("validate good: %v", err)
	}
	if _, err := run(t, "validate", "-t", "grid-3x2"); err != nil {
		t.Errorf("validate template: %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	writeZones(t, bad, []zone.Zone{
		{Name: "A", X: 0, Y: 0, W: 1, H: 1},
		{Name: "B", X: 0, Y: 0, W: 0.5, H: 1},
	})
	_, err := run(t, "validate", bad)
	if !errors.Is(err, errors.ErrCodeValidation) {
		t.Errorf("validate bad = %v, want VALIDATION_FAILED", err)
	}

	if _, err := run(t, "validate"); err == nil {
		t.Error("validate without a file should fail")
	}
}

func TestShowCommand(t *testing.T) {
	isolate(t)
	out, err := run(t, "show", "-t", "halves", "--plain", "--cols", "11", "--rows", "5")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	want := strings.Join([]string{
		"┌────┬────┐",
		"│    │    │",
		"│Left│Rig…│",
		"│    │    │",
		"└────┴────┘",
	}, "\n") + "\n"
	if out != want {
		t.Errorf("show =\n%s\nwant\n%s", out, want)
	}

	if _, err := run(t, "show", "-t", "halves", "--edge", "v9"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("show unknown edge = %v, want INVALID_INPUT", err)
	}
}

func TestEdgesCommand(t *testing.T) {
	isolate(t)
	out, err := run(t, "edges", "-t", "halves")
	if err != nil {
		t.Fatalf("edges: %v", err)
	}
	for _, want := range []string{"v1", "vertical", "0.100..0.900", "fixed", "true"} {
		if !strings.Contains(out, want) {
			t.Errorf("edges output missing %q:\n%s", want, out)
		}
	}
}

func TestEditCommands(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "desk.json")
	writeZones(t, path, zone.Default())

	if _, err := run(t, "split", path, "--region", "0", "--at", "0.25"); err != nil {
		t.Fatalf("split: %v", err)
	}
	zones := readZones(t, path)
	if len(zones) != 3 || zones[0].W != 0.25 {
		t.Fatalf("after split = %+v, want 3 zones with a 0.25 wide first zone", zones)
	}

	// Reloading numbers the dividers left to right: v1 at 0.25, v2 at 0.5.
	if _, err := run(t, "move", path, "--edge", "v2", "--to", "0.95"); err != nil {
		t.Fatalf("move: %v", err)
	}
	zones = readZones(t, path)
	if got := zones[2].X; got < 0.9-1e-9 || got > 0.9+1e-9 {
		t.Errorf("after move last zone starts at %v, want 0.9", got)
	}

	if _, err := run(t, "delete-edge", path, "--edge", "v1"); err != nil {
		t.Fatalf("delete-edge: %v", err)
	}
	if zones = readZones(t, path); len(zones) != 2 {
		t.Errorf("after delete = %d zones, want 2", len(zones))
	}

	out := filepath.Join(dir, "copy.toml")
	if _, err := run(t, "split", path, "-d", "vertical", "-o", out); err != nil {
		t.Fatalf("split -o: %v", err)
	}
	if len(readZones(t, path)) != 2 || len(readZones(t, out)) != 3 {
		t.Error("split -o must leave the input untouched")
	}

	if _, err := run(t, "delete-edge", path, "--edge", "left"); !errors.Is(err, errors.ErrCodeInvalidOperation) {
		t.Errorf("delete fixed edge = %v, want INVALID_OPERATION", err)
	}
	if _, err := run(t, "split", path, "-d", "diagonal"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad direction = %v, want INVALID_INPUT", err)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := isolate(t)
	base := filepath.Join(dir, "out")
	if _, err := run(t, "render", "-t", "thirds", "-f", "svg,json,dot", "-o", base); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, ext := range []string{"svg", "json", "dot"} {
		data, err := os.ReadFile(base + "." + ext)
		if err != nil {
			t.Errorf("missing %s output: %v", ext, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("%s output is empty", ext)
		}
	}

	// A second run is served from the file cache.
	if _, err := run(t, "render", "-t", "thirds", "-f", "svg", "-o", base+"-again.svg"); err != nil {
		t.Fatalf("render again: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(dir, "render-cache"))
	if err != nil || len(entries) == 0 {
		t.Errorf("render cache is empty: %v", err)
	}

	if _, err := run(t, "render", "-t", "thirds", "-f", "gif"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad format = %v, want INVALID_INPUT", err)
	}
}

func TestTemplateExport(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "q.yaml")
	if _, err := run(t, "template", "export", "quarters", "-o", path); err != nil {
		t.Fatalf("export: %v", err)
	}
	if zones := readZones(t, path); len(zones) != 4 {
		t.Errorf("exported %d zones, want 4", len(zones))
	}

	out, err := run(t, "template", "export", "halves", "--format", "toml")
	if err != nil {
		t.Fatalf("export to stdout: %v", err)
	}
	if !strings.Contains(out, `name = "halves"`) {
		t.Errorf("toml output missing name:\n%s", out)
	}
}

func TestStoreCommands(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "desk.json")
	writeZones(t, path, zone.Default())

	if _, err := run(t, "store", "put", path); err != nil {
		t.Fatalf("store put: %v", err)
	}
	out, err := run(t, "store", "list")
	if err != nil {
		t.Fatalf("store list: %v", err)
	}
	if strings.TrimSpace(out) != "desk" {
		t.Errorf("store list = %q, want desk", out)
	}

	out, err = run(t, "store", "get", "desk", "--format", "yaml")
	if err != nil {
		t.Fatalf("store get: %v", err)
	}
	if !strings.Contains(out, "name: desk") {
		t.Errorf("store get output:\n%s", out)
	}

	if _, err := run(t, "store", "delete", "desk"); err != nil {
		t.Fatalf("store delete: %v", err)
	}
	if _, err := run(t, "store", "get", "desk"); !errors.IsNotFound(err) {
		t.Errorf("get after delete = %v, want not found", err)
	}
}

func TestConfigFlag(t *testing.T) {
	dir := isolate(t)
	if _, err := run(t, "--config", filepath.Join(dir, "missing.toml"), "config"); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("missing config = %v, want INVALID_PATH", err)
	}

	path := filepath.Join(dir, "zonesmith.toml")
	if err := os.WriteFile(path, []byte("[render]\nstyle = \"blueprint\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "--config", path, "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if !strings.Contains(out, "render.style = blueprint") {
		t.Errorf("config output:\n%s", out)
	}
}
