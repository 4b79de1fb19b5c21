package pipeline

import (
	"testing"
	"time"
)

func TestStatsSnapshotPercentiles(t *testing.T) {
	stats := NewStats(time.Hour)
	stats.Record(PhaseParse, 100*time.Millisecond)
	stats.Record(PhaseParse, 200*time.Millisecond)
	stats.Record(PhaseParse, 300*time.Millisecond)
	stats.Record(PhaseParse, 400*time.Millisecond)
	stats.Record(PhaseParse, 500*time.Millisecond)

	snap, ok := stats.Snapshot()[PhaseParse]
	if !ok {
		t.Fatal("expected a parse phase snapshot")
	}
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 {
		t.Fatalf("expected min=100, got %d", snap.MinMs)
	}
	if snap.MaxMs != 500 {
		t.Fatalf("expected max=500, got %d", snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
}

func TestStatsPhasesAreIndependent(t *testing.T) {
	stats := NewStats(time.Hour)
	stats.Record(PhaseParse, 100*time.Millisecond)
	stats.Record(PhaseScore, 20*time.Millisecond)
	stats.Record(PhaseScore, 40*time.Millisecond)

	snaps := stats.Snapshot()
	if len(snaps) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(snaps))
	}
	if snaps[PhaseParse].Count != 1 {
		t.Errorf("expected parse count=1, got %d", snaps[PhaseParse].Count)
	}
	if snaps[PhaseScore].Count != 2 {
		t.Errorf("expected score count=2, got %d", snaps[PhaseScore].Count)
	}
	if snaps[PhaseScore].MaxMs != 40 {
		t.Errorf("expected score max=40, got %d", snaps[PhaseScore].MaxMs)
	}
}

func TestStatsEmptyPhasesOmitted(t *testing.T) {
	stats := NewStats(time.Hour)
	snaps := stats.Snapshot()
	if len(snaps) != 0 {
		t.Fatalf("expected empty snapshot map, got %d phases", len(snaps))
	}
}

func TestStatsPrunesExpiredSamples(t *testing.T) {
	stats := NewStats(10 * time.Millisecond)
	stats.Record(PhaseRefine, 100*time.Millisecond)
	time.Sleep(25 * time.Millisecond)

	if _, ok := stats.Snapshot()[PhaseRefine]; ok {
		t.Fatal("expected expired phase to be omitted")
	}

	stats.Record(PhaseRefine, 200*time.Millisecond)
	snap := stats.Snapshot()[PhaseRefine]
	if snap.Count != 1 {
		t.Fatalf("expected count=1 for fresh sample, got %d", snap.Count)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected min=max=200, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestStatsRecordClampsNegativeDuration(t *testing.T) {
	stats := NewStats(time.Hour)
	stats.Record(PhaseProfile, -10*time.Millisecond)
	snap := stats.Snapshot()[PhaseProfile]
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}
