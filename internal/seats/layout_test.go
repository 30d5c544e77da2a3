package seats

import (
	"reflect"
	"testing"
)

func TestDefaultLayoutOrder(t *testing.T) {
	order := DefaultLayout().Order()
	if len(order) != 24 {
		t.Fatalf("expected 24 seats, got %d", len(order))
	}
	want := []string{"1A", "1B", "1C", "1D", "2A"}
	if !reflect.DeepEqual(order[:5], want) {
		t.Fatalf("unexpected order prefix %v", order[:5])
	}
}

func TestDefaultLayoutSeatTypes(t *testing.T) {
	layout := DefaultLayout()
	if got := layout.Seat("2D").Type; got != SeatTypeVIP {
		t.Fatalf("expected 2D to be vip, got %s", got)
	}
	if got := layout.Seat("3C").Type; got != SeatTypeStandard {
		t.Fatalf("expected 3C to be standard, got %s", got)
	}
	if got := layout.Seat("1A").Type; got != SeatTypeStandard {
		t.Fatalf("expected 1A to be standard, got %s", got)
	}
	if !reflect.DeepEqual(layout.ReservedIDs(), []string{"1B", "2C", "5D"}) {
		t.Fatalf("unexpected static reservations %v", layout.ReservedIDs())
	}
}

func TestOverlayIsUnion(t *testing.T) {
	layout := DefaultLayout()
	overlaid := layout.Overlay([]string{"3A"})

	if !overlaid.Seat("3A").IsReserved() {
		t.Fatalf("live reservation not applied")
	}
	// 1B is statically reserved and absent from the live set
	if !overlaid.Seat("1B").IsReserved() {
		t.Fatalf("static reservation downgraded to available")
	}
	if layout.Seat("3A").IsReserved() {
		t.Fatalf("overlay mutated the source layout")
	}
	if overlaid[0][2] != nil {
		t.Fatalf("aisle gap not preserved")
	}
}

func TestFreeSeats(t *testing.T) {
	free := DefaultLayout().FreeSeats([]string{"1A"})
	if len(free) != 20 {
		t.Fatalf("expected 20 free seats, got %d", len(free))
	}
	if free[0] != "1C" {
		t.Fatalf("expected first free seat 1C, got %s", free[0])
	}
}
