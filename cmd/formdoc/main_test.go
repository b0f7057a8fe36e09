package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goliatone/go-formdoc/internal/cli"
)

func TestVersionCommand(t *testing.T) {
	root := cli.NewRootCmd("1.2.3", "2026-01-02")
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "formdoc 1.2.3 (2026-01-02)\n"; got != want {
		t.Fatalf("unexpected version output: %q", got)
	}
}

func TestUnknownCommand(t *testing.T) {
	root := cli.NewRootCmd("dev", "unknown")
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"nope"})
	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}
