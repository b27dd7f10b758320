package db

import "testing"

func TestDefaultBatchConfig(t *testing.T) {
	cfg := DefaultBatchConfig()
	if cfg.BatchSize != 1000 {
		t.Errorf("Expected batch size 1000, got %d", cfg.BatchSize)
	}
	if cfg.ProgressInterval != 100000 {
		t.Errorf("Expected progress interval 100000, got %d", cfg.ProgressInterval)
	}
}

func TestBatchEnd(t *testing.T) {
	tests := []struct {
		start, size, total int
		want               int
	}{
		{0, 1000, 2500, 1000},
		{1000, 1000, 2500, 2000},
		{2000, 1000, 2500, 2500},
		{0, 1000, 400, 400},
		{0, 1000, 1000, 1000},
	}
	for _, tt := range tests {
		if got := batchEnd(tt.start, tt.size, tt.total); got != tt.want {
			t.Errorf("batchEnd(%d, %d, %d) = %d, want %d",
				tt.start, tt.size, tt.total, got, tt.want)
		}
	}
}

func TestProgressReporterCounts(t *testing.T) {
	p := NewProgressReporter("warehouse.fact_order_line", 2500, 1000)
	p.Update(1000)
	p.Update(1000)
	p.Update(500)
	if p.currentRow != 2500 {
		t.Errorf("Expected 2500 rows counted, got %d", p.currentRow)
	}
}
