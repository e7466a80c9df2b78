package datagen

import "fmt"

// Validate rejects a record that violates a fact invariant. The generator
// cannot produce such a record; this is the last line of defense before a
// batch reaches the loader.
func (r ProductionRecord) Validate() error {
	if r.MachineID == "" {
		return fmt.Errorf("missing machine id")
	}
	if r.ProductID == "" {
		return fmt.Errorf("missing product id")
	}
	if r.DateID <= 0 {
		return fmt.Errorf("missing date key")
	}
	if r.ShiftNumber < 1 || r.ShiftNumber > 3 {
		return fmt.Errorf("shift %d out of range", r.ShiftNumber)
	}
	if r.QuantityProduced < 0 {
		return fmt.Errorf("negative quantity %d", r.QuantityProduced)
	}
	if r.Defects < 0 || r.Defects > r.QuantityProduced {
		return fmt.Errorf("defects %d outside [0, %d]", r.Defects, r.QuantityProduced)
	}
	if r.ReworkCount < 0 || r.DowntimeMinutes < 0 || r.SetupTimeMinutes < 0 {
		return fmt.Errorf("negative duration or count")
	}
	for _, pct := range []struct {
		name  string
		value float64
	}{
		{"oee_percentage", r.OEEPercentage},
		{"availability_percentage", r.AvailabilityPercentage},
		{"performance_percentage", r.PerformancePercentage},
		{"quality_percentage", r.QualityPercentage},
		{"quality_score", r.QualityScore},
	} {
		if pct.value < 0 || pct.value > 100 {
			return fmt.Errorf("%s %.2f outside [0, 100]", pct.name, pct.value)
		}
	}
	if r.EnergyConsumptionKWh < 0 || r.RawMaterialUsedKg < 0 || r.ScrapWeightKg < 0 {
		return fmt.Errorf("negative consumption value")
	}
	if !r.EndTime.After(r.StartTime) {
		return fmt.Errorf("end time %s not after start time %s", r.EndTime, r.StartTime)
	}
	return nil
}

// ValidateBatch checks every record's invariants and its dimension key
// membership. The whole batch is rejected on the first violation so invalid
// rows can never be persisted.
func ValidateBatch(records []ProductionRecord, machines, products []string) error {
	machineSet := make(map[string]struct{}, len(machines))
	for _, id := range machines {
		machineSet[id] = struct{}{}
	}
	productSet := make(map[string]struct{}, len(products))
	for _, id := range products {
		productSet[id] = struct{}{}
	}

	for i, r := range records {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("record %d invalid: %w", i, err)
		}
		if _, ok := machineSet[r.MachineID]; !ok {
			return fmt.Errorf("record %d references unknown machine %s", i, r.MachineID)
		}
		if _, ok := productSet[r.ProductID]; !ok {
			return fmt.Errorf("record %d references unknown product %s", i, r.ProductID)
		}
	}
	return nil
}
