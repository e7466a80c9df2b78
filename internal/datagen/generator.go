//-------------------------------------------------------------------------
//
// mfgetl - Manufacturing Analytics Warehouse
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"fmt"
	"time"

	"github.com/mfgstack/mfgetl/internal/logging"
)

// DateKey pairs a date dimension surrogate key with its calendar date.
type DateKey struct {
	ID   int32
	Date time.Time
}

// ProductionRecord is one synthetic production event, matching the
// fact_production columns.
type ProductionRecord struct {
	DateID      int32
	MachineID   string
	ProductID   string
	ShiftNumber int
	OperatorID  string

	QuantityProduced int
	Defects          int
	ReworkCount      int
	DowntimeMinutes  int
	SetupTimeMinutes int

	QualityScore     float64
	InspectionPassed bool

	EnergyConsumptionKWh float64
	RawMaterialUsedKg    float64
	ScrapWeightKg        float64

	OEEPercentage          float64
	AvailabilityPercentage float64
	PerformancePercentage  float64
	QualityPercentage      float64

	StartTime time.Time
	EndTime   time.Time
}

// Config bounds the per-day record count.
type Config struct {
	MinRecordsPerDay int
	MaxRecordsPerDay int
}

// DefaultConfig returns the standard 5-20 records per day.
func DefaultConfig() Config {
	return Config{
		MinRecordsPerDay: 5,
		MaxRecordsPerDay: 20,
	}
}

// Generator produces schema-consistent production records. It is a pure
// function of its Faker and inputs: same seed, same dimensions, same output.
// It never touches the database.
type Generator struct {
	faker *Faker
	cfg   Config
}

// NewGenerator creates a production record generator.
func NewGenerator(faker *Faker, cfg Config) *Generator {
	return &Generator{faker: faker, cfg: cfg}
}

var shifts = []int{1, 2, 3}

// Generate builds one batch of production records covering the given days.
// Machine and product ids are sampled uniformly from the supplied dimension
// key sets, so referential integrity holds by construction.
func (g *Generator) Generate(dates []DateKey, machines, products []string) ([]ProductionRecord, error) {
	if len(dates) == 0 {
		return nil, fmt.Errorf("no dates to generate for")
	}
	if len(machines) == 0 {
		return nil, fmt.Errorf("no active machines in dimension")
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("no products in dimension")
	}
	if g.cfg.MinRecordsPerDay < 1 || g.cfg.MaxRecordsPerDay < g.cfg.MinRecordsPerDay {
		return nil, fmt.Errorf("invalid records-per-day range [%d, %d]",
			g.cfg.MinRecordsPerDay, g.cfg.MaxRecordsPerDay)
	}

	records := make([]ProductionRecord, 0, len(dates)*g.cfg.MaxRecordsPerDay)
	for _, day := range dates {
		count := g.faker.Int(g.cfg.MinRecordsPerDay, g.cfg.MaxRecordsPerDay)
		for i := 0; i < count; i++ {
			records = append(records, g.record(day, machines, products))
		}
	}

	logging.Info().
		Int("days", len(dates)).
		Int("records", len(records)).
		Msg("Generated production records")

	return records, nil
}

func (g *Generator) record(day DateKey, machines, products []string) ProductionRecord {
	quantity := g.faker.Int(100, 1000)
	// Defect cap: at most 5% of the quantity.
	defects := g.faker.Int(0, quantity/20)
	rework := g.faker.Int(0, defects*3/10)

	availability := g.faker.Float64(0.85, 0.95)
	performance := g.faker.Float64(0.88, 0.98)
	quality := 1 - float64(defects)/float64(quantity)
	oee := availability * performance * quality

	midnight := time.Date(day.Date.Year(), day.Date.Month(), day.Date.Day(),
		0, 0, 0, 0, day.Date.Location())
	start := midnight.Add(time.Duration(g.faker.Int(8, 15)) * time.Hour)
	end := start.Add(time.Duration(g.faker.Float64(1, 4) * float64(time.Hour)))

	return ProductionRecord{
		DateID:      day.ID,
		MachineID:   Choose(g.faker, machines),
		ProductID:   Choose(g.faker, products),
		ShiftNumber: Choose(g.faker, shifts),
		OperatorID:  fmt.Sprintf("OP%03d", g.faker.Int(100, 999)),

		QuantityProduced: quantity,
		Defects:          defects,
		ReworkCount:      rework,
		DowntimeMinutes:  g.faker.Int(0, 120),
		SetupTimeMinutes: g.faker.Int(10, 30),

		QualityScore:     Round2(quality * 100),
		InspectionPassed: g.faker.WeightedBool(0.95),

		EnergyConsumptionKWh: Round2(float64(quantity) * g.faker.Float64(0.1, 0.5)),
		RawMaterialUsedKg:    Round2(float64(quantity) * g.faker.Float64(0.2, 1.0)),
		ScrapWeightKg:        Round2(float64(defects) * g.faker.Float64(0.1, 0.3)),

		OEEPercentage:          Round2(oee * 100),
		AvailabilityPercentage: Round2(availability * 100),
		PerformancePercentage:  Round2(performance * 100),
		QualityPercentage:      Round2(quality * 100),

		StartTime: start,
		EndTime:   end,
	}
}
