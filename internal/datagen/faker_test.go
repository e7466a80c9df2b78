//-------------------------------------------------------------------------
//
// mfgetl - Manufacturing Analytics Warehouse
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"math"
	"testing"
)

func TestNewFakerWithSeed(t *testing.T) {
	seed := uint64(12345)
	f1 := NewFakerWithSeed(seed)
	f2 := NewFakerWithSeed(seed)

	// Same seed should produce same sequence
	for i := 0; i < 10; i++ {
		v1 := f1.Int(0, 1000)
		v2 := f2.Int(0, 1000)
		if v1 != v2 {
			t.Errorf("Same seed produced different values: %d != %d", v1, v2)
		}
	}
}

func TestFakerInt(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		v := f.Int(5, 20)
		if v < 5 || v > 20 {
			t.Errorf("Int(5, 20) returned %d", v)
		}
	}
}

func TestFakerFloat64(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		v := f.Float64(0.85, 0.95)
		if v < 0.85 || v > 0.95 {
			t.Errorf("Float64(0.85, 0.95) returned %f", v)
		}
	}
}

func TestFakerWeightedBool(t *testing.T) {
	f := NewFaker()
	if f.WeightedBool(0) {
		t.Error("WeightedBool(0) returned true")
	}
	if !f.WeightedBool(1.01) {
		t.Error("WeightedBool(>1) returned false")
	}
}

func TestChoose(t *testing.T) {
	f := NewFaker()
	items := []string{"M001", "M002", "M003"}
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		v := Choose(f, items)
		seen[v] = true
	}
	for _, item := range items {
		if !seen[item] {
			t.Errorf("Choose never returned %s in 100 draws", item)
		}
	}
}

func TestChooseEmpty(t *testing.T) {
	f := NewFaker()
	if v := Choose(f, []string{}); v != "" {
		t.Errorf("Choose on empty slice should return zero value, got %q", v)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.005, 1.0}, // 1.005 is just below 1.005 in binary
		{82.4567, 82.46},
		{100.0, 100.0},
		{0.0, 0.0},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
