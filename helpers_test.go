package x12claims

import (
	"os"
	"strings"
	"testing"
)

func assertEqual[V comparable](t *testing.T, val V, expected V) {
	t.Helper()
	if val != expected {
		t.Errorf("expected:\n%#v\n\ngot:\n%#v", expected, val)
	}
}

func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func assertErrorNotNil(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func assertSliceContains[V comparable](t *testing.T, row []V, expected V) {
	t.Helper()
	if !sliceContains(row, expected) {
		t.Errorf("expected %v to be in slice %v", expected, row)
	}
}

// claimMessage is a small but complete 837P interchange: one billing
// provider loop, one subscriber loop, and one claim with a single
// service line.
func claimMessage(t *testing.T) []byte {
	t.Helper()
	file, err := os.ReadFile("testdata/837p.txt")
	assertNoError(t, err)
	return file
}

// modifyClaimMessage returns the fixture with one occurrence of old
// replaced by new, failing the test if old isn't present.
func modifyClaimMessage(t *testing.T, old, new string) []byte {
	t.Helper()
	text := string(claimMessage(t))
	if !strings.Contains(text, old) {
		t.Fatalf("fixture does not contain %q", old)
	}
	return []byte(strings.Replace(text, old, new, 1))
}

// dropSegmentLine returns the fixture with the given segment line (and
// its trailing newline) removed.
func dropSegmentLine(t *testing.T, line string) []byte {
	t.Helper()
	return modifyClaimMessage(t, line+"\n", "")
}

// readMessage parses the given bytes and fails the test on error.
func readMessage(t *testing.T, data []byte) *RawMessage {
	t.Helper()
	msg, err := Read(data)
	assertNoError(t, err)
	return msg
}
