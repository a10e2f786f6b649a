package testfixtures

import (
	"testing"
	"time"
)

func TestNewRoomFixture(t *testing.T) {
	t.Parallel()

	first := NewRoomFixture()
	second := NewRoomFixture(WithRoomName("Auditorium"), WithRoomCapacity(80))

	if first.ID == second.ID {
		t.Fatalf("expected unique ids, got %q twice", first.ID)
	}
	if second.Name != "Auditorium" {
		t.Fatalf("expected override to apply, got %q", second.Name)
	}
	if second.Capacity == nil || *second.Capacity != 80 {
		t.Fatalf("expected capacity 80, got %v", second.Capacity)
	}
}

func TestNewBookingFixture(t *testing.T) {
	t.Parallel()

	first := NewBookingFixture()
	second := NewBookingFixture()

	if !first.End.After(first.Start) {
		t.Fatalf("fixture interval inverted: %v..%v", first.Start, first.End)
	}
	if first.Engine().Interval().Overlaps(second.Engine().Interval()) {
		t.Fatal("successive fixtures must not overlap")
	}

	record := first.Persistence()
	if record.ID != first.ID || !record.Start.Equal(first.Start) {
		t.Fatalf("persistence conversion mismatch: %+v", record)
	}
}

func TestClock(t *testing.T) {
	t.Parallel()

	clock := NewClock(time.Time{})
	if !clock.Now().Equal(ReferenceTime()) {
		t.Fatalf("expected reference start, got %v", clock.Now())
	}

	moved := clock.Advance(45 * time.Minute)
	if !moved.Equal(ReferenceTime().Add(45 * time.Minute)) {
		t.Fatalf("unexpected time after advance: %v", moved)
	}
}

func TestIDGenerator(t *testing.T) {
	t.Parallel()

	gen := NewIDGenerator("bk")
	if got := gen.Next(); got != "bk-1" {
		t.Fatalf("expected bk-1, got %q", got)
	}
	if got := gen.Next(); got != "bk-2" {
		t.Fatalf("expected bk-2, got %q", got)
	}

	gen.SetCounter(0)
	if got := gen.Next(); got != "bk-1" {
		t.Fatalf("expected reset to bk-1, got %q", got)
	}
}
