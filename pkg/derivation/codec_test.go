package derivation

import "testing"

func sampleDerivation() *Derivation {
	return &Derivation{
		Name:    "hello",
		System:  "x86_64-linux",
		Builder: "/bash",
		Args:    []string{"-e", "/builder.sh"},
		Env: map[string]string{
			"ENV1": "val1",
			"ENV2": "val2",
		},
		Outputs: map[string]*Output{
			"out": {Path: "/foo", HashAlgo: "sha256", Hash: "abc"},
		},
		InputDrvs: map[string]*InputDrvOutputs{
			"/drv1": {OutputNames: []string{"out"}},
			"/drv2": {OutputNames: []string{"dev"}},
		},
		InputSrcs: []string{"/builder.sh"},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := sampleDerivation()

	encoded := Encode(original)
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	reencoded := Encode(decoded)
	if string(reencoded) != string(encoded) {
		t.Fatalf("round trip mismatch:\n got=%s\nwant=%s", reencoded, encoded)
	}
}

func TestEncodeKeyOrdering(t *testing.T) {
	drv := &Derivation{
		Name:    "x",
		System:  "x86_64-linux",
		Builder: "/bin/sh",
		Env: map[string]string{
			"zzz": "1",
			"aaa": "2",
		},
		Outputs: map[string]*Output{
			"zout": {Path: "/z"},
			"aout": {Path: "/a"},
		},
		InputDrvs: map[string]*InputDrvOutputs{},
	}

	encoded := string(Encode(drv))

	if idx := indexAfter(encoded, "aout", "zout"); !idx {
		t.Fatalf("expected outputs sorted lexicographically, got %s", encoded)
	}
	if idx := indexAfter(encoded, "aaa", "zzz"); !idx {
		t.Fatalf("expected env sorted lexicographically, got %s", encoded)
	}
}

// indexAfter reports whether first appears before second in s.
func indexAfter(s, first, second string) bool {
	fi, si := indexOf(s, first), indexOf(s, second)

	return fi >= 0 && si >= 0 && fi < si
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}

	return -1
}

func TestDecodeRejectsTruncatedInput(t *testing.T) {
	if _, err := Decode([]byte("Derive([")); err == nil {
		t.Fatal("expected an error decoding truncated input")
	}
}

func TestEncodeEscapesSpecialCharacters(t *testing.T) {
	drv := sampleDerivation()
	drv.Env["WEIRD"] = "a\\b\"c\nd\re\tf"

	encoded := Encode(drv)
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if decoded.Env["WEIRD"] != drv.Env["WEIRD"] {
		t.Fatalf("escaped round trip mismatch: got=%q want=%q", decoded.Env["WEIRD"], drv.Env["WEIRD"])
	}
}

func TestCanonicalHashIsDeterministic(t *testing.T) {
	a := sampleDerivation()
	b := sampleDerivation()

	if a.canonicalHash() != b.canonicalHash() {
		t.Fatal("identical derivations must hash identically")
	}

	b.Env["ENV1"] = "different"
	if a.canonicalHash() == b.canonicalHash() {
		t.Fatal("differing derivations must hash differently")
	}
}
