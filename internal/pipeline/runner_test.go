package pipeline

import (
	"context"
	"testing"
)

func TestRunRejectsInvalidWindow(t *testing.T) {
	r := &Runner{Connection: "postgres://u:p@localhost:5432/db", Days: 0}
	if _, err := r.Run(context.Background()); err == nil {
		t.Error("expected error for zero-day window")
	}
}

func TestRunFailsCleanlyOnBadConnectionString(t *testing.T) {
	r := &Runner{
		Connection:       "://not-a-connection-string",
		Days:             90,
		MinRecordsPerDay: 5,
		MaxRecordsPerDay: 20,
	}

	summary, err := r.Run(context.Background())
	if err == nil {
		t.Fatal("expected connection error")
	}
	if summary != nil {
		t.Error("summary should be nil on failure")
	}
}
