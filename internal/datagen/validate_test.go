package datagen

import (
	"strings"
	"testing"
	"time"
)

func validRecord() ProductionRecord {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return ProductionRecord{
		DateID:                 1,
		MachineID:              "M001",
		ProductID:              "P001",
		ShiftNumber:            2,
		OperatorID:             "OP123",
		QuantityProduced:       500,
		Defects:                10,
		ReworkCount:            2,
		DowntimeMinutes:        15,
		SetupTimeMinutes:       20,
		QualityScore:           98.0,
		InspectionPassed:       true,
		EnergyConsumptionKWh:   120.5,
		RawMaterialUsedKg:      300.0,
		ScrapWeightKg:          2.1,
		OEEPercentage:          81.5,
		AvailabilityPercentage: 90.0,
		PerformancePercentage:  92.5,
		QualityPercentage:      98.0,
		StartTime:              start,
		EndTime:                start.Add(2 * time.Hour),
	}
}

func TestValidateAcceptsGoodRecord(t *testing.T) {
	if err := validRecord().Validate(); err != nil {
		t.Errorf("valid record rejected: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ProductionRecord)
	}{
		{"defects exceed quantity", func(r *ProductionRecord) { r.Defects = r.QuantityProduced + 1 }},
		{"negative defects", func(r *ProductionRecord) { r.Defects = -1 }},
		{"negative quantity", func(r *ProductionRecord) { r.QuantityProduced = -5; r.Defects = -5 }},
		{"shift out of range", func(r *ProductionRecord) { r.ShiftNumber = 4 }},
		{"oee above 100", func(r *ProductionRecord) { r.OEEPercentage = 100.01 }},
		{"negative availability", func(r *ProductionRecord) { r.AvailabilityPercentage = -0.01 }},
		{"quality score above 100", func(r *ProductionRecord) { r.QualityScore = 101 }},
		{"end equals start", func(r *ProductionRecord) { r.EndTime = r.StartTime }},
		{"end before start", func(r *ProductionRecord) { r.EndTime = r.StartTime.Add(-time.Minute) }},
		{"missing machine", func(r *ProductionRecord) { r.MachineID = "" }},
		{"missing product", func(r *ProductionRecord) { r.ProductID = "" }},
		{"missing date key", func(r *ProductionRecord) { r.DateID = 0 }},
		{"negative energy", func(r *ProductionRecord) { r.EnergyConsumptionKWh = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecord()
			tt.mutate(&r)
			if err := r.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestValidateBatch(t *testing.T) {
	machines := []string{"M001"}
	products := []string{"P001"}

	good := validRecord()
	if err := ValidateBatch([]ProductionRecord{good, good}, machines, products); err != nil {
		t.Errorf("valid batch rejected: %v", err)
	}
}

func TestValidateBatchRejectsInvalidRecord(t *testing.T) {
	bad := validRecord()
	bad.Defects = bad.QuantityProduced + 1

	err := ValidateBatch([]ProductionRecord{validRecord(), bad},
		[]string{"M001"}, []string{"P001"})
	if err == nil {
		t.Fatal("expected batch rejection")
	}
	if !strings.Contains(err.Error(), "record 1") {
		t.Errorf("error should identify the offending record, got: %v", err)
	}
}

func TestValidateBatchRejectsUnknownKeys(t *testing.T) {
	r := validRecord()

	if err := ValidateBatch([]ProductionRecord{r},
		[]string{"M999"}, []string{"P001"}); err == nil {
		t.Error("expected rejection for unknown machine")
	}
	if err := ValidateBatch([]ProductionRecord{r},
		[]string{"M001"}, []string{"P999"}); err == nil {
		t.Error("expected rejection for unknown product")
	}
}
