package seats

import (
	"fmt"
	"math"
)

type SeatType string

const (
	SeatTypeStandard SeatType = "standard"
	SeatTypeVIP      SeatType = "vip"
	SeatTypeSleeper  SeatType = "sleeper"
)

// IsValid checks if the seat type is known
func (t SeatType) IsValid() bool {
	switch t {
	case SeatTypeStandard, SeatTypeVIP, SeatTypeSleeper:
		return true
	}
	return false
}

// DisplayName returns the label shown under a seat
func (t SeatType) DisplayName() string {
	switch t {
	case SeatTypeVIP:
		return "VIP"
	case SeatTypeSleeper:
		return "Sleeper"
	default:
		return "Standard"
	}
}

type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusReserved  SeatStatus = "reserved"
)

// SeatDefinition is one physical seat of a coach
type SeatDefinition struct {
	ID     string     `json:"id"`
	Label  string     `json:"label"`
	Type   SeatType   `json:"type"`
	Status SeatStatus `json:"status,omitempty"`
}

// IsReserved reports whether the seat is marked reserved
func (s *SeatDefinition) IsReserved() bool {
	return s != nil && s.Status == SeatStatusReserved
}

// LayoutRow is a single row of the coach; nil entries are aisle gaps.
type LayoutRow []*SeatDefinition

// Layout is the static description of a coach, front to back.
type Layout []LayoutRow

func baseRow(row int, reserved ...string) LayoutRow {
	status := func(col string) SeatStatus {
		for _, r := range reserved {
			if r == col {
				return SeatStatusReserved
			}
		}
		return ""
	}
	frontType := SeatTypeStandard
	if row <= 2 {
		frontType = SeatTypeVIP
	}
	seat := func(col string, t SeatType) *SeatDefinition {
		id := fmt.Sprintf("%d%s", row, col)
		return &SeatDefinition{ID: id, Label: id, Type: t, Status: status(col)}
	}
	return LayoutRow{
		seat("A", SeatTypeStandard),
		seat("B", SeatTypeStandard),
		nil,
		seat("C", frontType),
		seat("D", frontType),
	}
}

// DefaultLayout returns the standard 24-seat coach used when no layout is
// stored for a bus.
func DefaultLayout() Layout {
	return Layout{
		baseRow(1, "B"),
		baseRow(2, "C"),
		baseRow(3),
		baseRow(4),
		baseRow(5, "D"),
		baseRow(6),
	}
}

// Order returns seat ids in physical order, gaps skipped
func (l Layout) Order() []string {
	var order []string
	for _, row := range l {
		for _, seat := range row {
			if seat != nil {
				order = append(order, seat.ID)
			}
		}
	}
	return order
}

// orderIndex maps seat id to its physical position
func (l Layout) orderIndex() map[string]int {
	index := make(map[string]int)
	for i, id := range l.Order() {
		index[id] = i
	}
	return index
}

// position returns the seat's physical position, unknown seats sort last
func position(index map[string]int, id string) int {
	if p, ok := index[id]; ok {
		return p
	}
	return math.MaxInt
}

// Seat finds a seat definition by id
func (l Layout) Seat(id string) *SeatDefinition {
	for _, row := range l {
		for _, seat := range row {
			if seat != nil && seat.ID == id {
				return seat
			}
		}
	}
	return nil
}

// Has reports whether the layout contains the seat
func (l Layout) Has(id string) bool {
	return l.Seat(id) != nil
}

// Capacity counts seats in the layout
func (l Layout) Capacity() int {
	return len(l.Order())
}

// ReservedIDs returns the statically reserved seats in layout order
func (l Layout) ReservedIDs() []string {
	var ids []string
	for _, row := range l {
		for _, seat := range row {
			if seat.IsReserved() {
				ids = append(ids, seat.ID)
			}
		}
	}
	return ids
}

// Overlay returns a copy of the layout with the live reserved set applied.
// The overlay is a union: a statically reserved seat is never shown as
// available even if the live set omits it.
func (l Layout) Overlay(reserved []string) Layout {
	live := toSet(reserved)
	out := make(Layout, len(l))
	for i, row := range l {
		out[i] = make(LayoutRow, len(row))
		for j, seat := range row {
			if seat == nil {
				continue
			}
			copied := *seat
			if live[seat.ID] || seat.IsReserved() {
				copied.Status = SeatStatusReserved
			}
			out[i][j] = &copied
		}
	}
	return out
}

// FreeSeats returns the ids not reserved after overlaying the live set
func (l Layout) FreeSeats(reserved []string) []string {
	var free []string
	for _, row := range l.Overlay(reserved) {
		for _, seat := range row {
			if seat != nil && !seat.IsReserved() {
				free = append(free, seat.ID)
			}
		}
	}
	return free
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
