package scroll

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testOptions() Options {
	return Options{
		Overlap:         15,
		PollInterval:    time.Millisecond,
		MaxPolls:        5,
		BottomTolerance: 5,
	}
}

func TestDriver_AdvanceStepsByVisibleHeightMinusOverlap(t *testing.T) {
	vp := NewSimulatedViewport(100, 10, 100)
	d := NewDriver(vp, testOptions())
	ctx := context.Background()

	if _, err := d.Advance(ctx); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	m, _ := vp.Metrics(ctx)
	if m.ScrollTop != 85 {
		t.Errorf("Expected scrollTop 85, got %v", m.ScrollTop)
	}

	if err := d.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	m, _ = vp.Metrics(ctx)
	if m.ScrollTop != 0 {
		t.Errorf("Expected scrollTop 0 after reset, got %v", m.ScrollTop)
	}
}

func TestDriver_AtBottom(t *testing.T) {
	vp := NewSimulatedViewport(20, 10, 100)
	d := NewDriver(vp, testOptions())
	ctx := context.Background()

	if bottom, _ := d.AtBottom(ctx); bottom {
		t.Fatal("Expected not at bottom at top of list")
	}
	if err := vp.ScrollTo(ctx, 96); err != nil {
		t.Fatal(err)
	}
	if bottom, _ := d.AtBottom(ctx); !bottom {
		t.Error("Expected at bottom within tolerance")
	}
}

func TestDriver_WaitForNewExitsEarly(t *testing.T) {
	vp := NewSimulatedViewport(100, 10, 100)
	vp.LagPolls = 2
	d := NewDriver(vp, testOptions())
	ctx := context.Background()

	if _, err := d.Advance(ctx); err != nil {
		t.Fatal(err)
	}
	loaded, err := d.WaitForNew(ctx, 10)
	if err != nil {
		t.Fatalf("WaitForNew failed: %v", err)
	}
	if !loaded {
		t.Error("Expected new rows once the lag elapsed")
	}
}

func TestDriver_WaitForNewGivesUp(t *testing.T) {
	vp := NewSimulatedViewport(10, 10, 100)
	opts := testOptions()
	opts.PollInterval = 2 * time.Millisecond
	d := NewDriver(vp, opts)

	start := time.Now()
	loaded, err := d.WaitForNew(context.Background(), 10)
	if err != nil {
		t.Fatalf("WaitForNew failed: %v", err)
	}
	if loaded {
		t.Error("Expected no new rows beyond the last index")
	}
	if elapsed := time.Since(start); elapsed < 8*time.Millisecond {
		t.Errorf("Expected the full poll budget to be spent, took %v", elapsed)
	}
}

func TestDriver_WaitForNewHonoursContext(t *testing.T) {
	vp := NewSimulatedViewport(10, 10, 100)
	opts := testOptions()
	opts.PollInterval = time.Second
	d := NewDriver(vp, opts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := d.WaitForNew(ctx, 10); err == nil {
		t.Error("Expected error from cancelled context")
	}
}

func TestDriver_LocateMissingGrid(t *testing.T) {
	vp := NewSimulatedViewport(0, 10, 100)
	vp.NoGrid = true
	d := NewDriver(vp, testOptions())

	_, err := d.Locate(context.Background())
	if !errors.Is(err, ErrGridNotFound) {
		t.Errorf("Expected ErrGridNotFound, got %v", err)
	}
}

func TestMetrics_MaxScrollTop(t *testing.T) {
	if got := (Metrics{ClientHeight: 100, ScrollHeight: 80}).MaxScrollTop(); got != 0 {
		t.Errorf("Expected 0 for short content, got %v", got)
	}
	if got := (Metrics{ClientHeight: 100, ScrollHeight: 350}).MaxScrollTop(); got != 250 {
		t.Errorf("Expected 250, got %v", got)
	}
}
