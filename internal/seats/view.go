package seats

// SeatCell is one rendered position of the seat map; gaps have no seat.
type SeatCell struct {
	Gap       bool     `json:"gap"`
	SeatID    string   `json:"seat_id,omitempty"`
	Label     string   `json:"label,omitempty"`
	Type      SeatType `json:"type,omitempty"`
	TypeLabel string   `json:"type_label,omitempty"`
	Selected  bool     `json:"selected"`
	Reserved  bool     `json:"reserved"`
	Disabled  bool     `json:"disabled"`
}

// SeatMapView is what a client needs to draw the coach
type SeatMapView struct {
	Rows          [][]SeatCell `json:"rows"`
	Selected      []string     `json:"selected"`
	SelectedCount int          `json:"selected_count"`
	MaxSelectable int          `json:"max_selectable"`
}

// BuildSeatMap overlays the live reserved set on the layout and marks each
// seat's state. A seat the user currently holds renders as selected, never
// as reserved.
func BuildSeatMap(layout Layout, selected, reserved []string, maxSelectable int) SeatMapView {
	chosen := toSet(selected)
	atCapacity := len(selected) >= maxSelectable

	rows := make([][]SeatCell, 0, len(layout))
	for _, row := range layout.Overlay(reserved) {
		cells := make([]SeatCell, 0, len(row))
		for _, seat := range row {
			if seat == nil {
				cells = append(cells, SeatCell{Gap: true})
				continue
			}
			isSelected := chosen[seat.ID]
			isReserved := seat.IsReserved() && !isSelected
			cells = append(cells, SeatCell{
				SeatID:    seat.ID,
				Label:     seat.Label,
				Type:      seat.Type,
				TypeLabel: seat.Type.DisplayName(),
				Selected:  isSelected,
				Reserved:  isReserved,
				Disabled:  isReserved || (!isSelected && atCapacity),
			})
		}
		rows = append(rows, cells)
	}

	return SeatMapView{
		Rows:          rows,
		Selected:      append([]string{}, selected...),
		SelectedCount: len(selected),
		MaxSelectable: maxSelectable,
	}
}
