package content

import "testing"

func TestDigest_StableAcrossKeyOrder(t *testing.T) {
	a := Dimensions{"language": {"de"}, "country": {"at"}}
	b := Dimensions{"country": {"at"}, "language": {"de"}}
	if a.Digest() != b.Digest() {
		t.Errorf("digests differ: %s vs %s", a.Digest(), b.Digest())
	}
}

func TestDigest_DistinguishesCombinations(t *testing.T) {
	de := Dimensions{"language": {"de"}}
	en := Dimensions{"language": {"en"}}
	if de.Digest() == en.Digest() {
		t.Error("expected different digests for different combinations")
	}
}

func TestDigest_EmptyEqualsNil(t *testing.T) {
	if (Dimensions{}).Digest() != Dimensions(nil).Digest() {
		t.Error("empty and nil combinations must share a digest")
	}
}

func TestScopeKey(t *testing.T) {
	d := Dimensions{"language": {"de"}}
	if got, want := ScopeKey("abc", d), "abc-"+d.Digest(); got != want {
		t.Errorf("ScopeKey() = %q, want %q", got, want)
	}
}

func TestParseDimensions(t *testing.T) {
	d, err := ParseDimensions(`{"language":["en_US","en"]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.First("language") != "en_US" {
		t.Errorf("First() = %q", d.First("language"))
	}

	empty, err := ParseDimensions("")
	if err != nil || empty != nil {
		t.Errorf("ParseDimensions(\"\") = %v, %v", empty, err)
	}

	if _, err := ParseDimensions(`{"language":`); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
