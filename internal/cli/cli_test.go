package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/circuitgraph/pkg/buildinfo"
	apperr "github.com/matzehuels/circuitgraph/pkg/errors"
	"github.com/matzehuels/circuitgraph/pkg/io"
)

const dividerTOML = `
name = "divider"
rows = 4
cols = 6

[[device]]
id = "V1"
kind = "voltage_source"
from = [0, 0]
to = [3, 0]

[[device]]
id = "R1"
kind = "resistor"
from = [0, 0]
to = [0, 4]

[[wire]]
from = [0, 4]
to = [3, 4]

[[wire]]
from = [3, 4]
to = [3, 0]
`

const looseTOML = `
rows = 3
cols = 3

[[device]]
id = "R1"
kind = "resistor"
from = [0, 0]
to = [2, 2]
loose = "to"
`

// testEnv isolates the config and cache directories and returns the path of
// a config file selecting backend.
func testEnv(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("CIRCUITGRAPH_REDIS_ADDR", "")

	cfg := filepath.Join(dir, "circuitgraph.toml")
	body := "[cache]\nbackend = \"" + backend + "\"\ndir = \"" + filepath.Join(dir, "cache") + "\"\n"
	if err := os.WriteFile(cfg, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func writeInput(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command with args and returns what it wrote to
// its output stream.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var logs, out bytes.Buffer
	root := New(&logs, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestReduceCommandWritesGraph(t *testing.T) {
	cfg := testEnv(t, "file")
	input := writeInput(t, "divider.toml", dividerTOML)
	output := filepath.Join(t.TempDir(), "out", "divider.graph.json")

	if _, err := execute(t, "--config", cfg, "reduce", input, "-o", output); err != nil {
		t.Fatalf("reduce: %v", err)
	}

	gf, err := io.ImportGraph(output)
	if err != nil {
		t.Fatalf("ImportGraph: %v", err)
	}
	if gf.Name != "divider" {
		t.Errorf("Name = %q, want divider", gf.Name)
	}
	if len(gf.Nodes) != 2 || len(gf.Edges) != 2 {
		t.Errorf("got %d nodes, %d edges, want 2 and 2", len(gf.Nodes), len(gf.Edges))
	}
}

func TestReduceCommandStdout(t *testing.T) {
	cfg := testEnv(t, "none")
	input := writeInput(t, "divider.toml", dividerTOML)

	out, err := execute(t, "--config", cfg, "reduce", input, "-o", "-")
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	gf, err := io.ReadGraph(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ReadGraph: %v\n%s", err, out)
	}
	if len(gf.Edges) != 2 {
		t.Errorf("edges = %d, want 2", len(gf.Edges))
	}
}

func TestReduceCommandStrict(t *testing.T) {
	cfg := testEnv(t, "none")
	input := writeInput(t, "loose.toml", looseTOML)

	if _, err := execute(t, "--config", cfg, "reduce", input, "-o", "-"); err != nil {
		t.Fatalf("non-strict reduce: %v", err)
	}
	_, err := execute(t, "--config", cfg, "reduce", input, "-o", "-", "--strict")
	if !apperr.Is(err, apperr.ErrCodeDegenerateLink) {
		t.Fatalf("strict reduce error = %v, want %s", err, apperr.ErrCodeDegenerateLink)
	}
}

func TestReduceCommandMissingFile(t *testing.T) {
	cfg := testEnv(t, "none")
	_, err := execute(t, "--config", cfg, "reduce", filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatal("expected error for a missing input")
	}
}

func TestRenderCommandDOT(t *testing.T) {
	cfg := testEnv(t, "none")
	input := writeInput(t, "divider.toml", dividerTOML)

	out, err := execute(t, "--config", cfg, "render", input, "-f", "dot", "-o", "-")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"graph G {", `[label="V1"]`, `[label="R1"]`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCommandFiles(t *testing.T) {
	cfg := testEnv(t, "file")
	input := writeInput(t, "divider.toml", dividerTOML)
	base := filepath.Join(t.TempDir(), "divider")

	if _, err := execute(t, "--config", cfg, "render", input, "-f", "dot,json", "-o", base); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, ext := range []string{".dot", ".json"} {
		if _, err := os.Stat(base + ext); err != nil {
			t.Errorf("missing %s: %v", base+ext, err)
		}
	}
}

func TestRenderCommandInvalidFormat(t *testing.T) {
	cfg := testEnv(t, "none")
	input := writeInput(t, "divider.toml", dividerTOML)

	_, err := execute(t, "--config", cfg, "render", input, "-f", "gif")
	if !apperr.Is(err, apperr.ErrCodeInvalidFormat) {
		t.Fatalf("error = %v, want %s", err, apperr.ErrCodeInvalidFormat)
	}
}

func TestRenderCommandStdoutNeedsOneFormat(t *testing.T) {
	cfg := testEnv(t, "none")
	input := writeInput(t, "divider.toml", dividerTOML)

	if _, err := execute(t, "--config", cfg, "render", input, "-f", "dot,json", "-o", "-"); err == nil {
		t.Fatal("expected error for two formats on stdout")
	}
}

func TestCacheCommands(t *testing.T) {
	cfg := testEnv(t, "file")
	input := writeInput(t, "divider.toml", dividerTOML)

	if _, err := execute(t, "--config", cfg, "reduce", input, "-o", "-"); err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if _, err := execute(t, "--config", cfg, "cache", "info"); err != nil {
		t.Fatalf("cache info: %v", err)
	}
	if _, err := execute(t, "--config", cfg, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
}

func TestConfigErrors(t *testing.T) {
	testEnv(t, "none")
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "nope.toml"), "version")
	if !apperr.Is(err, apperr.ErrCodeFileNotFound) {
		t.Fatalf("error = %v, want %s", err, apperr.ErrCodeFileNotFound)
	}
}

func TestVersionCommand(t *testing.T) {
	cfg := testEnv(t, "none")
	out, err := execute(t, "--config", cfg, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, buildinfo.Version) {
		t.Errorf("output %q missing version %q", out, buildinfo.Version)
	}
}

func TestCompletionCommand(t *testing.T) {
	cfg := testEnv(t, "none")
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := execute(t, "--config", cfg, "completion", shell)
			if err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(out, "circuitgraph") {
				t.Errorf("completion script does not mention circuitgraph")
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"dot", []string{"dot"}},
		{"svg, png ,pdf", []string{"svg", "png", "pdf"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.in, "svg")
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		input   string
		formats []string
		want    map[string]string
	}{
		{"single explicit", "out.svg", "a.toml", []string{"svg"}, map[string]string{"svg": "out.svg"}},
		{"from input", "", "dir/a.toml", []string{"svg", "dot"}, map[string]string{"svg": "dir/a.svg", "dot": "dir/a.dot"}},
		{"base with extension", "out/b.svg", "a.toml", []string{"svg", "png"}, map[string]string{"svg": "out/b.svg", "png": "out/b.png"}},
		{"json next to json input", "", "a.json", []string{"json"}, map[string]string{"json": "a.graph.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.output, tt.input, tt.formats)
			for f, want := range tt.want {
				if got[f] != want {
					t.Errorf("path[%s] = %q, want %q", f, got[f], want)
				}
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{3 << 20, "3.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
