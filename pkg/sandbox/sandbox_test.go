package sandbox

import (
	"reflect"
	"testing"
)

func TestSortedCopyDoesNotMutateInput(t *testing.T) {
	input := []string{"/c", "/a", "/b"}
	got := sortedCopy(input)

	if !reflect.DeepEqual(got, []string{"/a", "/b", "/c"}) {
		t.Errorf("got %v, want sorted copy", got)
	}
	if !reflect.DeepEqual(input, []string{"/c", "/a", "/b"}) {
		t.Errorf("sortedCopy mutated its input: %v", input)
	}
}

func TestInitIsNoopWithoutSentinelEnv(t *testing.T) {
	t.Setenv(childEnvVar, "")

	// Init must return rather than calling os.Exit when the sandbox
	// sentinel env var is unset, so an ordinary CLI invocation can
	// continue past it.
	Init()
}
