package sandbox

import "testing"

func TestMountPathRejectsRelativeSource(t *testing.T) {
	if err := mountPath("relative/path", t.TempDir()); err == nil {
		t.Fatal("expected an error for a non-absolute mount source")
	}
}

func TestMountPathRejectsMissingSource(t *testing.T) {
	if err := mountPath("/does/not/exist/gix-test", t.TempDir()); err == nil {
		t.Fatal("expected an error for a source that does not exist")
	}
}
