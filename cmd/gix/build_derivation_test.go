package gix

import (
	"testing"

	"github.com/conneroisu/gix/internal/deps"
)

func TestRuntimeDepsOracleDefaultsToEmptyFixedTable(t *testing.T) {
	prev := cfg
	defer func() { cfg = prev }()

	cfg.ClosureQueryCmd = ""

	oracle, err := runtimeDepsOracle()
	if err != nil {
		t.Fatalf("runtimeDepsOracle: %v", err)
	}
	if _, ok := oracle.(deps.Fixed); !ok {
		t.Errorf("expected a deps.Fixed oracle, got %T", oracle)
	}
}

func TestRuntimeDepsOracleUsesConfiguredShellOut(t *testing.T) {
	prev := cfg
	defer func() { cfg = prev }()

	cfg.ClosureQueryCmd = "nix-store-closure"

	oracle, err := runtimeDepsOracle()
	if err != nil {
		t.Fatalf("runtimeDepsOracle: %v", err)
	}
	shellOut, ok := oracle.(deps.ShellOut)
	if !ok {
		t.Fatalf("expected a deps.ShellOut oracle, got %T", oracle)
	}
	if shellOut.Command != "nix-store-closure" {
		t.Errorf("got command %q, want nix-store-closure", shellOut.Command)
	}
}
