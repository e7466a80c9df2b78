package loader

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestLoadRejectsEmptyBatch(t *testing.T) {
	l := New(nil, 500)
	if _, err := l.Load(context.Background(), nil); err == nil {
		t.Error("expected error for empty batch")
	}
}

func TestNewClampsBatchSize(t *testing.T) {
	l := New(nil, 0)
	if l.batchSize != 500 {
		t.Errorf("expected default batch size 500, got %d", l.batchSize)
	}
	l = New(nil, -3)
	if l.batchSize != 500 {
		t.Errorf("expected default batch size 500, got %d", l.batchSize)
	}
}

func TestSummaryFormat(t *testing.T) {
	s := &Summary{
		TotalRecords:    1125,
		EarliestStart:   time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
		LatestStart:     time.Date(2024, 3, 30, 15, 0, 0, 0, time.UTC),
		TotalProduction: 612340,
		AverageOEE:      81.37,
	}

	out := s.Format()
	for _, want := range []string{
		"ETL SUCCESS SUMMARY",
		"Total records: 1125",
		"2024-01-01 08:00",
		"2024-03-30 15:00",
		"Total production: 612340 units",
		"Average OEE: 81.37%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestFactColumnsMatchRecordLayout(t *testing.T) {
	// CopyFrom row construction must line up with the column list.
	if len(factColumns) != 21 {
		t.Errorf("expected 21 fact columns, got %d", len(factColumns))
	}
	if factColumns[0] != "date_id" {
		t.Errorf("first column should be date_id, got %s", factColumns[0])
	}
	if factColumns[len(factColumns)-1] != "end_time" {
		t.Errorf("last column should be end_time, got %s", factColumns[len(factColumns)-1])
	}
}
