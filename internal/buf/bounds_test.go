package buf

import (
	"math"
	"testing"
)

func Test_AddOverflowSafe_Basic(t *testing.T) {
	if v, ok := AddOverflowSafe(3, 4); !ok || v != 7 {
		t.Fatalf("expected 7, got %d ok=%v", v, ok)
	}
	if _, ok := AddOverflowSafe(math.MaxInt, 1); ok {
		t.Fatal("expected overflow")
	}
	if _, ok := AddOverflowSafe(math.MinInt, -1); ok {
		t.Fatal("expected underflow")
	}
}

func Test_Slice_Bounds(t *testing.T) {
	b := make([]byte, 16)

	if s, ok := Slice(b, 0, 16); !ok || len(s) != 16 {
		t.Fatalf("full slice failed: ok=%v len=%d", ok, len(s))
	}
	if s, ok := Slice(b, 12, 4); !ok || len(s) != 4 {
		t.Fatalf("tail slice failed: ok=%v len=%d", ok, len(s))
	}
	if _, ok := Slice(b, 12, 5); ok {
		t.Fatal("expected out of bounds")
	}
	if _, ok := Slice(b, -1, 4); ok {
		t.Fatal("expected negative offset rejection")
	}
	if _, ok := Slice(b, 0, -1); ok {
		t.Fatal("expected negative length rejection")
	}
	if _, ok := Slice(b, 8, math.MaxInt); ok {
		t.Fatal("expected overflow rejection")
	}
	// Zero-length slice at the end is in bounds.
	if _, ok := Slice(b, 16, 0); !ok {
		t.Fatal("expected empty tail slice to be valid")
	}
}

func Test_Has_MirrorsSlice(t *testing.T) {
	b := make([]byte, 8)
	if !Has(b, 4, 4) {
		t.Fatal("expected in bounds")
	}
	if Has(b, 4, 5) {
		t.Fatal("expected out of bounds")
	}
}
