package assembly

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nd2array/pkg/axes"
)

func TestOdometerOrder(t *testing.T) {
	odo, err := NewOdometer([]axes.Axis{axes.Position, axes.Channel, axes.Time}, []int{2, 2, 3})
	if err != nil {
		t.Fatalf("NewOdometer returned error: %v", err)
	}

	var visited [][]int
	for !odo.Done() {
		visited = append(visited, odo.Index())
		odo.Advance()
	}

	want := [][]int{
		{0, 0, 0}, {0, 0, 1}, {0, 0, 2},
		{0, 1, 0}, {0, 1, 1}, {0, 1, 2},
		{1, 0, 0}, {1, 0, 1}, {1, 0, 2},
		{1, 1, 0}, {1, 1, 1}, {1, 1, 2},
	}
	if diff := cmp.Diff(want, visited); diff != "" {
		t.Errorf("Visit order mismatch (-want +got):\n%s", diff)
	}
	if odo.Steps() != len(want) {
		t.Errorf("Expected %d steps, got %d", len(want), odo.Steps())
	}
}

func TestOdometerCarry(t *testing.T) {
	odo, err := NewOdometer([]axes.Axis{axes.Channel, axes.Time}, []int{2, 2})
	if err != nil {
		t.Fatalf("NewOdometer returned error: %v", err)
	}

	// t0->t1 no carry, t1->c1 carry into channel, then no carry, then wrap
	want := []int{1, 0, 1, -1}
	for i, w := range want {
		if got := odo.Advance(); got != w {
			t.Errorf("Advance %d: expected level %d, got %d", i, w, got)
		}
	}
	if !odo.Done() {
		t.Error("Odometer should be done after wrapping")
	}
	if got := odo.Advance(); got != -1 {
		t.Errorf("Advance after done should return -1, got %d", got)
	}

	odo.Reset()
	if odo.Done() || odo.At(axes.Channel) != 0 || odo.At(axes.Time) != 0 {
		t.Errorf("Reset should return to the zero index, got %v", odo.Index())
	}
}

func TestOdometerStatic(t *testing.T) {
	odo, err := NewOdometer(nil, nil)
	if err != nil {
		t.Fatalf("NewOdometer returned error: %v", err)
	}
	if odo.Steps() != 1 {
		t.Errorf("Expected 1 step, got %d", odo.Steps())
	}
	if odo.Done() {
		t.Fatal("Static odometer should start on its only position")
	}
	if got := odo.Advance(); got != -1 || !odo.Done() {
		t.Errorf("Expected static odometer to finish after one advance, got level %d", got)
	}
}

func TestOdometerAt(t *testing.T) {
	odo, err := NewOdometer([]axes.Axis{axes.Position, axes.Time}, []int{3, 2})
	if err != nil {
		t.Fatalf("NewOdometer returned error: %v", err)
	}
	odo.Advance()
	odo.Advance()
	odo.Advance()
	if odo.At(axes.Position) != 1 || odo.At(axes.Time) != 1 {
		t.Errorf("Expected index [1 1], got %v", odo.Index())
	}
	if odo.At(axes.Channel) != -1 {
		t.Errorf("Expected -1 for an uncounted axis, got %d", odo.At(axes.Channel))
	}
	if odo.Levels() != 2 || odo.Axis(1) != axes.Time {
		t.Errorf("Unexpected levels %d / inner axis %s", odo.Levels(), odo.Axis(1))
	}
}

func TestOdometerInvalidExtent(t *testing.T) {
	if _, err := NewOdometer([]axes.Axis{axes.Time}, []int{0}); !errors.Is(err, ErrInvalidExtent) {
		t.Errorf("Expected ErrInvalidExtent, got %v", err)
	}
	if _, err := NewOdometer([]axes.Axis{axes.Time}, nil); !errors.Is(err, ErrInvalidExtent) {
		t.Errorf("Expected ErrInvalidExtent for length mismatch, got %v", err)
	}
}
