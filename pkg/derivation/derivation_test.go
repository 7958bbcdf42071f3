package derivation

import (
	"strings"
	"testing"

	"github.com/conneroisu/gix/internal/value"
)

func TestFromAttrsRequiresNameAndBuilder(t *testing.T) {
	attrs := value.NewAttrs()
	attrs.Set("name", value.String("hello"))

	if _, err := FromAttrs(attrs); err == nil {
		t.Fatal("expected an error when 'builder' is missing")
	}
}

func TestFromAttrsDefaultsAndEnv(t *testing.T) {
	attrs := value.NewAttrs()
	attrs.Set("name", value.String("hello"))
	attrs.Set("builder", value.String("/bin/sh"))
	attrs.Set("greeting", value.String("hi"))

	drv, err := FromAttrs(attrs)
	if err != nil {
		t.Fatalf("FromAttrs: %v", err)
	}

	if drv.System != "x86_64-linux" {
		t.Errorf("expected default system, got %q", drv.System)
	}
	if drv.Env["greeting"] != "hi" {
		t.Errorf("expected extra string attribute to become an env var")
	}
	if !strings.HasPrefix(drv.StorePath, "/nix/store/") {
		t.Errorf("expected a /nix/store path, got %q", drv.StorePath)
	}
	if drv.Outputs["out"].Path != drv.StorePath {
		t.Errorf("default output path must equal the store path")
	}
}

func TestFromAttrsCoercesNonStringEnvEntries(t *testing.T) {
	attrs := value.NewAttrs()
	attrs.Set("name", value.String("hello"))
	attrs.Set("builder", value.String("/bin/sh"))
	attrs.Set("FOO", value.Int(1))
	attrs.Set("ENABLED", value.Bool(true))
	attrs.Set("EMPTY", value.Null{})
	attrs.Set("SRC", value.Path("/nix/store/abc-src"))

	drv, err := FromAttrs(attrs)
	if err != nil {
		t.Fatalf("FromAttrs: %v", err)
	}

	if drv.Env["FOO"] != "1" {
		t.Errorf("expected int attribute to coerce to env var, got %q", drv.Env["FOO"])
	}
	if drv.Env["ENABLED"] != "true" {
		t.Errorf("expected bool attribute to coerce to env var, got %q", drv.Env["ENABLED"])
	}
	if drv.Env["EMPTY"] != "null" {
		t.Errorf("expected null attribute to coerce to env var, got %q", drv.Env["EMPTY"])
	}
	if drv.Env["SRC"] != "/nix/store/abc-src" {
		t.Errorf("expected path attribute to coerce to env var, got %q", drv.Env["SRC"])
	}
}

func TestFromAttrsMultipleOutputs(t *testing.T) {
	attrs := value.NewAttrs()
	attrs.Set("name", value.String("hello"))
	attrs.Set("builder", value.String("/bin/sh"))
	attrs.Set("outputs", value.NewList(value.String("out"), value.String("dev")))

	drv, err := FromAttrs(attrs)
	if err != nil {
		t.Fatalf("FromAttrs: %v", err)
	}

	if len(drv.Outputs) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(drv.Outputs))
	}
	if drv.Outputs["dev"].Path == drv.Outputs["out"].Path {
		t.Error("dev output must have a distinct path from out")
	}
}

func TestToAttrsRoundTripsOutputs(t *testing.T) {
	attrs := value.NewAttrs()
	attrs.Set("name", value.String("hello"))
	attrs.Set("builder", value.String("/bin/sh"))

	drv, err := FromAttrs(attrs)
	if err != nil {
		t.Fatalf("FromAttrs: %v", err)
	}

	out := drv.ToAttrs()
	outVal, ok := out.Get("out")
	if !ok {
		t.Fatal("expected 'out' attribute on ToAttrs result")
	}
	if outVal.(value.String) != value.String(drv.Outputs["out"].Path) {
		t.Errorf("ToAttrs 'out' path mismatch: got %v want %v", outVal, drv.Outputs["out"].Path)
	}
}
