package buf

import (
	"math"
	"testing"
)

func TestAddOverflowSafe(t *testing.T) {
	if sum, ok := AddOverflowSafe(10, 5); !ok || sum != 15 {
		t.Fatalf("AddOverflowSafe(10,5)=%d,%v want 15,true", sum, ok)
	}
	if sum, ok := AddOverflowSafe(7, -9); !ok || sum != -2 {
		t.Fatalf("AddOverflowSafe(7,-9)=%d,%v want -2,true", sum, ok)
	}
	if _, ok := AddOverflowSafe(math.MaxInt, 1); ok {
		t.Fatalf("expected overflow when adding to MaxInt")
	}
	if _, ok := AddOverflowSafe(math.MinInt, -1); ok {
		t.Fatalf("expected underflow when subtracting from MinInt")
	}
}

func TestMulOverflowSafe(t *testing.T) {
	cases := []struct {
		a, b   int
		want   int
		wantOK bool
	}{
		{0, math.MaxInt, 0, true},
		{math.MaxInt, 0, 0, true},
		{16, 64, 1024, true},
		{-3, 7, -21, true},
		{-3, -7, 21, true},
		{math.MaxInt, 2, 0, false},
		{2, math.MaxInt, 0, false},
		{math.MinInt, -1, 0, false},
		{math.MaxInt/2 + 1, 2, 0, false},
		{math.MinInt / 2, 3, 0, false},
	}
	for _, tc := range cases {
		got, ok := MulOverflowSafe(tc.a, tc.b)
		if ok != tc.wantOK {
			t.Fatalf("MulOverflowSafe(%d,%d) ok=%v want %v", tc.a, tc.b, ok, tc.wantOK)
		}
		if ok && got != tc.want {
			t.Fatalf("MulOverflowSafe(%d,%d)=%d want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSliceAndHas(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4}
	if got, ok := Slice(data, 1, 3); !ok || len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("Slice returned unexpected result: %v, %v", got, ok)
	}
	if _, ok := Slice(data, 4, 2); ok {
		t.Fatalf("Slice should fail when extending beyond len")
	}
	if Has(data, 2, 4) {
		t.Fatalf("Has should be false for out-of-bounds range")
	}
	if !Has(data, 2, 1) {
		t.Fatalf("Has should be true for valid range")
	}

	if _, ok := Slice(data, -1, 1); ok {
		t.Fatalf("Slice should reject negative offset")
	}
	if _, ok := Slice(data, 1, -1); ok {
		t.Fatalf("Slice should reject negative length")
	}
}
