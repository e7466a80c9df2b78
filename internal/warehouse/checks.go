package warehouse

import (
	"context"
	"fmt"

	"github.com/mfgstack/mfgetl/internal/db"
	"github.com/mfgstack/mfgetl/internal/logging"
)

// Check is a data-quality rule over the loaded facts. Query must return a
// single bigint: the number of violating rows (zero means the check passes).
type Check struct {
	Name        string
	Description string
	Query       string
}

// CheckResult is the outcome of one quality check.
type CheckResult struct {
	Name       string
	Violations int64
	Passed     bool
}

// Checks is the catalog run after each pipeline load.
var Checks = []Check{
	{
		Name:        "defect_cap",
		Description: "defects must never exceed quantity produced",
		Query: `SELECT COUNT(*) FROM fact_production
                WHERE defects > quantity_produced`,
	},
	{
		Name:        "percentage_bounds",
		Description: "OEE and its components must lie in [0, 100]",
		Query: `SELECT COUNT(*) FROM fact_production
                WHERE oee_percentage NOT BETWEEN 0 AND 100
                   OR availability_percentage NOT BETWEEN 0 AND 100
                   OR performance_percentage NOT BETWEEN 0 AND 100
                   OR quality_percentage NOT BETWEEN 0 AND 100
                   OR quality_score NOT BETWEEN 0 AND 100`,
	},
	{
		Name:        "orphaned_keys",
		Description: "every fact row must reference existing dimension rows",
		Query: `SELECT COUNT(*) FROM fact_production f
                LEFT JOIN dim_date d ON f.date_id = d.date_id
                LEFT JOIN dim_machine m ON f.machine_id = m.machine_id
                LEFT JOIN dim_product p ON f.product_id = p.product_id
                WHERE d.date_id IS NULL OR m.machine_id IS NULL OR p.product_id IS NULL`,
	},
	{
		Name:        "production_window",
		Description: "every production window must end after it starts",
		Query: `SELECT COUNT(*) FROM fact_production
                WHERE end_time <= start_time`,
	},
	{
		Name:        "facts_present",
		Description: "the production fact table must not be empty",
		Query: `SELECT CASE WHEN COUNT(*) = 0 THEN 1 ELSE 0 END
                FROM fact_production`,
	},
}

// RunChecks executes the quality-check catalog and returns one result per
// check. A query error aborts the whole run; a failed check does not.
func RunChecks(ctx context.Context, q db.Querier) ([]CheckResult, error) {
	results := make([]CheckResult, 0, len(Checks))
	for _, check := range Checks {
		var violations int64
		if err := q.QueryRow(ctx, check.Query).Scan(&violations); err != nil {
			return nil, fmt.Errorf("quality check %s failed to execute: %w", check.Name, err)
		}

		result := CheckResult{
			Name:       check.Name,
			Violations: violations,
			Passed:     violations == 0,
		}
		results = append(results, result)

		event := logging.Info()
		if !result.Passed {
			event = logging.Error()
		}
		event.
			Str("check", check.Name).
			Int64("violations", violations).
			Bool("passed", result.Passed).
			Msg("Quality check")
	}
	return results, nil
}

// FailedChecks filters results down to the failures.
func FailedChecks(results []CheckResult) []CheckResult {
	var failed []CheckResult
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
