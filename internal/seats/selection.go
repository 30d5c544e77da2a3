package seats

import "sort"

// ToggleOutcome describes what a seat click did
type ToggleOutcome string

const (
	ToggleAdded      ToggleOutcome = "added"
	ToggleRemoved    ToggleOutcome = "removed"
	ToggleReserved   ToggleOutcome = "reserved"
	ToggleAtCapacity ToggleOutcome = "at_capacity"
	ToggleUnknown    ToggleOutcome = "unknown_seat"
)

// Changed reports whether the selection was mutated
func (o ToggleOutcome) Changed() bool {
	return o == ToggleAdded || o == ToggleRemoved
}

// SortSeats orders seat ids by physical layout order, not click order.
// Ids missing from the layout keep their relative order at the end.
func SortSeats(layout Layout, ids []string) []string {
	index := layout.orderIndex()
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.SliceStable(sorted, func(i, j int) bool {
		return position(index, sorted[i]) < position(index, sorted[j])
	})
	return sorted
}

// ToggleSeat applies a click on seatID to the current selection.
// reserved is the live reserved set; static reservations come from the layout.
// Rejected clicks return the selection unchanged.
func ToggleSeat(layout Layout, selected, reserved []string, maxSelectable int, seatID string) ([]string, ToggleOutcome) {
	seat := layout.Overlay(reserved).Seat(seatID)
	if seat == nil {
		return selected, ToggleUnknown
	}

	isSelected := contains(selected, seatID)
	if seat.IsReserved() && !isSelected {
		return selected, ToggleReserved
	}

	if isSelected {
		next := make([]string, 0, len(selected)-1)
		for _, id := range selected {
			if id != seatID {
				next = append(next, id)
			}
		}
		return SortSeats(layout, next), ToggleRemoved
	}

	if len(selected) >= maxSelectable {
		return selected, ToggleAtCapacity
	}

	next := append(append([]string{}, selected...), seatID)
	return SortSeats(layout, next), ToggleAdded
}

// Reconcile drops every selected seat that appears in the reserved set.
// It is pure: the same inputs always give the same split, and a second pass
// with the same reserved set removes nothing.
func Reconcile(selected, reserved []string) (kept, removed []string) {
	taken := toSet(reserved)
	kept = make([]string, 0, len(selected))
	for _, id := range selected {
		if taken[id] {
			removed = append(removed, id)
			continue
		}
		kept = append(kept, id)
	}
	return kept, removed
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
