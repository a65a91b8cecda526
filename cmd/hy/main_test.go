package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVersionCmd(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "hy dev") {
		t.Errorf("expected output to contain 'hy dev', got: %s", out)
	}
	if !strings.Contains(out, "commit: none") {
		t.Errorf("expected output to contain 'commit: none', got: %s", out)
	}
}

func TestVersionCmdWithCustomValues(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, Date
	Version, Commit, Date = "1.0.0", "abc123", "2026-01-01"
	defer func() { Version, Commit, Date = origVersion, origCommit, origDate }()

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if out := buf.String(); !strings.Contains(out, "hy 1.0.0 (commit: abc123, built: 2026-01-01)") {
		t.Errorf("unexpected version output: %s", out)
	}
}

func TestRootCmd_ListsSubcommands(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("--help failed: %v", err)
	}
	out := buf.String()
	for _, sub := range []string{"version", "db", "submit", "render", "refresh", "report", "pages", "prune", "restore", "serve"} {
		if !strings.Contains(out, sub) {
			t.Errorf("help does not list %q:\n%s", sub, out)
		}
	}
}

func TestSubcommandHelp(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"db", "init", "--help"}, []string{"migrates all tables", "haulyard.yaml"}},
		{[]string{"submit", "--help"}, []string{"--values", "--file", "--live", "--notify"}},
		{[]string{"render", "--help"}, []string{"--truck", "--format"}},
		{[]string{"refresh", "--help"}, []string{"--company", "--all"}},
		{[]string{"report", "--help"}, []string{"--company", "--xlsx"}},
		{[]string{"prune", "--help"}, []string{"--yes", "--dry-run", "soft-deleted", "hy restore"}},
		{[]string{"restore", "--help"}, []string{"record ids", "--config"}},
		{[]string{"serve", "--help"}, []string{"--port", "--no-schedule"}},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			cmd := newRootCmd()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)
			if err := cmd.Execute(); err != nil {
				t.Fatalf("help failed: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("help missing %q:\n%s", w, buf.String())
				}
			}
		})
	}
}

func TestExecute(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"version"})
	if code := execute(cmd); code != 0 {
		t.Errorf("execute = %d, want 0", code)
	}

	cmd = newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"no-such-command"})
	if code := execute(cmd); code != 1 {
		t.Errorf("execute = %d, want 1", code)
	}
}

// --- helpers shared by the command tests ---

// writeConfig writes a sqlite-backed config into a temp dir.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := fmt.Sprintf(`timezone: UTC
base_url: https://dispatch.example.com
database:
  driver: sqlite
  path: %s
retention:
  display_days: 18
  delete_days: 100
companies:
  - name: Acme Haul
    trucks: [RT03, RT12]
  - name: Gema Trucking
    trucks: [GEMA1]
`, filepath.Join(dir, "hy.db"))
	path := filepath.Join(dir, "haulyard.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the root command with args and returns combined output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

const testValues = `9/20/2025 18:02:11,9/21/2099,6:00:00 AM,Acme Haul,4411,7:15:00 AM,Route 9 yard,Haul fill,Bring chains,"RT03, RT12",None,,,,,`
