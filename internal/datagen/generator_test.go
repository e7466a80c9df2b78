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
	"reflect"
	"regexp"
	"testing"
	"time"
)

var (
	testMachines = []string{"M001", "M002", "M003", "M004", "M005"}
	testProducts = []string{"P001", "P002", "P003", "P004", "P005"}
)

func testDates(days int) []DateKey {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dates := make([]DateKey, days)
	for i := range dates {
		dates[i] = DateKey{ID: int32(i + 1), Date: base.AddDate(0, 0, i)}
	}
	return dates
}

func testGenerator(seed uint64) *Generator {
	return NewGenerator(NewFakerWithSeed(seed), DefaultConfig())
}

var operatorPattern = regexp.MustCompile(`^OP\d{3}$`)

func TestGenerateInvariants(t *testing.T) {
	dates := testDates(90)
	records, err := testGenerator(42).Generate(dates, testMachines, testProducts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	machineSet := make(map[string]bool)
	for _, m := range testMachines {
		machineSet[m] = true
	}
	productSet := make(map[string]bool)
	for _, p := range testProducts {
		productSet[p] = true
	}

	for i, r := range records {
		if r.QuantityProduced < 100 || r.QuantityProduced > 1000 {
			t.Errorf("record %d: quantity %d outside [100, 1000]", i, r.QuantityProduced)
		}
		// Defect cap: at most 5% of quantity.
		if r.Defects < 0 || float64(r.Defects) > 0.05*float64(r.QuantityProduced) {
			t.Errorf("record %d: defects %d exceed 5%% of quantity %d",
				i, r.Defects, r.QuantityProduced)
		}
		if r.Defects > r.QuantityProduced {
			t.Errorf("record %d: defects %d exceed quantity %d",
				i, r.Defects, r.QuantityProduced)
		}
		if r.ShiftNumber < 1 || r.ShiftNumber > 3 {
			t.Errorf("record %d: shift %d outside {1,2,3}", i, r.ShiftNumber)
		}
		if !operatorPattern.MatchString(r.OperatorID) {
			t.Errorf("record %d: operator id %q malformed", i, r.OperatorID)
		}
		if !machineSet[r.MachineID] {
			t.Errorf("record %d: machine %s not in dimension set", i, r.MachineID)
		}
		if !productSet[r.ProductID] {
			t.Errorf("record %d: product %s not in dimension set", i, r.ProductID)
		}
		if !r.EndTime.After(r.StartTime) {
			t.Errorf("record %d: end %s not after start %s", i, r.EndTime, r.StartTime)
		}
		if r.DowntimeMinutes < 0 || r.DowntimeMinutes > 120 {
			t.Errorf("record %d: downtime %d outside [0, 120]", i, r.DowntimeMinutes)
		}
		if r.SetupTimeMinutes < 10 || r.SetupTimeMinutes > 30 {
			t.Errorf("record %d: setup time %d outside [10, 30]", i, r.SetupTimeMinutes)
		}
		if err := r.Validate(); err != nil {
			t.Errorf("record %d: Validate rejected generator output: %v", i, err)
		}
	}
}

func TestGenerateOEEFormula(t *testing.T) {
	records, err := testGenerator(7).Generate(testDates(30), testMachines, testProducts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for i, r := range records {
		if r.AvailabilityPercentage < 84.99 || r.AvailabilityPercentage > 95.01 {
			t.Errorf("record %d: availability %.2f outside band", i, r.AvailabilityPercentage)
		}
		if r.PerformancePercentage < 87.99 || r.PerformancePercentage > 98.01 {
			t.Errorf("record %d: performance %.2f outside band", i, r.PerformancePercentage)
		}

		// quality derives exactly from the defect ratio
		wantQuality := Round2((1 - float64(r.Defects)/float64(r.QuantityProduced)) * 100)
		if math.Abs(r.QualityPercentage-wantQuality) > 1e-9 {
			t.Errorf("record %d: quality %.2f, want %.2f", i, r.QualityPercentage, wantQuality)
		}
		if math.Abs(r.QualityScore-wantQuality) > 1e-9 {
			t.Errorf("record %d: quality score %.2f, want %.2f", i, r.QualityScore, wantQuality)
		}

		// OEE is the product of its components. The stored components are
		// rounded, so allow a small tolerance.
		wantOEE := r.AvailabilityPercentage / 100 *
			(r.PerformancePercentage / 100) *
			(r.QualityPercentage / 100) * 100
		if math.Abs(r.OEEPercentage-wantOEE) > 0.05 {
			t.Errorf("record %d: oee %.2f, want about %.2f", i, r.OEEPercentage, wantOEE)
		}
		if r.OEEPercentage < 0 || r.OEEPercentage > 100 {
			t.Errorf("record %d: oee %.2f outside [0, 100]", i, r.OEEPercentage)
		}
	}
}

func TestGenerateRecordsPerDay(t *testing.T) {
	dates := testDates(60)
	records, err := testGenerator(99).Generate(dates, testMachines, testProducts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	perDay := make(map[int32]int)
	for _, r := range records {
		perDay[r.DateID] = perDay[r.DateID] + 1
	}

	if len(perDay) != len(dates) {
		t.Errorf("expected records for %d days, got %d", len(dates), len(perDay))
	}
	for dateID, count := range perDay {
		if count < 5 || count > 20 {
			t.Errorf("day %d: %d records outside [5, 20]", dateID, count)
		}
	}
}

func TestGenerateStartTimeWindow(t *testing.T) {
	dates := testDates(10)
	records, err := testGenerator(3).Generate(dates, testMachines, testProducts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for i, r := range records {
		hour := r.StartTime.Hour()
		if hour < 8 || hour > 15 {
			t.Errorf("record %d: start hour %d outside shift window [8, 15]", i, hour)
		}
		dur := r.EndTime.Sub(r.StartTime)
		if dur < time.Hour || dur > 4*time.Hour {
			t.Errorf("record %d: duration %s outside [1h, 4h]", i, dur)
		}
	}
}

func TestGenerateReproducible(t *testing.T) {
	dates := testDates(14)

	r1, err := testGenerator(1234).Generate(dates, testMachines, testProducts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	r2, err := testGenerator(1234).Generate(dates, testMachines, testProducts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !reflect.DeepEqual(r1, r2) {
		t.Error("same seed produced different batches")
	}

	r3, err := testGenerator(5678).Generate(dates, testMachines, testProducts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if reflect.DeepEqual(r1, r3) {
		t.Error("different seeds produced identical batches")
	}
}

func TestGenerateRejectsEmptyDimensions(t *testing.T) {
	g := testGenerator(1)
	dates := testDates(5)

	if _, err := g.Generate(nil, testMachines, testProducts); err == nil {
		t.Error("expected error for empty date set")
	}
	if _, err := g.Generate(dates, nil, testProducts); err == nil {
		t.Error("expected error for empty machine set")
	}
	if _, err := g.Generate(dates, testMachines, nil); err == nil {
		t.Error("expected error for empty product set")
	}
}

func TestGenerateRejectsBadRange(t *testing.T) {
	g := NewGenerator(NewFakerWithSeed(1), Config{MinRecordsPerDay: 10, MaxRecordsPerDay: 5})
	if _, err := g.Generate(testDates(5), testMachines, testProducts); err == nil {
		t.Error("expected error for inverted records-per-day range")
	}
}
