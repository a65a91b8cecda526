package main

import (
	"strings"
	"testing"
)

func TestPruneCmd_RefusesNonInteractive(t *testing.T) {
	_, err := run(t, "prune", "--config", writeConfig(t))
	if err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Errorf("err = %v", err)
	}
}

func TestPruneCmd_DryRunThenPrune(t *testing.T) {
	cfg := writeConfig(t)
	// Dispatches from 2001 are far outside the 100-day window.
	old := strings.Replace(testValues, "9/21/2099", "1/2/2001", 1)
	if out, err := run(t, "submit", "--config", cfg, "--values", old); err != nil {
		t.Fatalf("submit: %v\n%s", err, out)
	}

	out, err := run(t, "prune", "--config", cfg, "--dry-run")
	if err != nil {
		t.Fatalf("dry run: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Would trash 2 dispatch records") {
		t.Errorf("dry run output:\n%s", out)
	}

	out, err = run(t, "prune", "--config", cfg, "--yes")
	if err != nil {
		t.Fatalf("prune: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Trashed 2 dispatch records") {
		t.Errorf("prune output:\n%s", out)
	}

	out, err = run(t, "prune", "--config", cfg, "--yes")
	if err != nil {
		t.Fatalf("second prune: %v", err)
	}
	if !strings.Contains(out, "Trashed 0 dispatch records") {
		t.Errorf("second prune output:\n%s", out)
	}
}

func TestRestoreCmd_UndoesPrune(t *testing.T) {
	cfg := writeConfig(t)
	old := strings.Replace(testValues, "9/21/2099", "1/2/2001", 1)
	if out, err := run(t, "submit", "--config", cfg, "--values", old); err != nil {
		t.Fatalf("submit: %v\n%s", err, out)
	}
	out, err := run(t, "prune", "--config", cfg, "--yes")
	if err != nil {
		t.Fatalf("prune: %v\n%s", err, out)
	}
	if !strings.Contains(out, "#1 RT03/2001-01-02_0715_Dispatch_RT03_4411") {
		t.Fatalf("prune output does not list record ids:\n%s", out)
	}

	out, err = run(t, "restore", "--config", cfg, "1")
	if err != nil {
		t.Fatalf("restore: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Restored #1") {
		t.Errorf("restore output:\n%s", out)
	}

	// The restored record is due again; the other stays trashed.
	out, err = run(t, "prune", "--config", cfg, "--dry-run")
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !strings.Contains(out, "Would trash 1 dispatch records") {
		t.Errorf("dry run after restore:\n%s", out)
	}

	if _, err := run(t, "restore", "--config", cfg, "1"); err == nil {
		t.Error("expected error restoring an active record")
	}
	if _, err := run(t, "restore", "--config", cfg, "abc"); err == nil {
		t.Error("expected error for a non-numeric id")
	}
}
