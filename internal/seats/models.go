package seats

import (
	"time"

	"github.com/google/uuid"
)

// CoachLayout is a stored seat layout for one bus (and optionally one seat class)
type CoachLayout struct {
	ID        uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BusPlate  string       `gorm:"type:varchar(32);not null;uniqueIndex:idx_layout_bus_type" json:"bus_plate"`
	SeatType  string       `gorm:"type:varchar(20);not null;default:'';uniqueIndex:idx_layout_bus_type" json:"seat_type"`
	Name      string       `gorm:"type:varchar(100)" json:"name"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Seats     []LayoutSeat `json:"seats,omitempty" gorm:"foreignKey:LayoutID;constraint:OnDelete:CASCADE;"`
}

// LayoutSeat is one cell of a stored layout; gaps have no row
type LayoutSeat struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LayoutID    uuid.UUID `gorm:"type:uuid;index;not null" json:"layout_id"`
	RowIndex    int       `gorm:"not null" json:"row_index"`
	ColumnIndex int       `gorm:"not null" json:"column_index"`
	SeatID      string    `gorm:"type:varchar(16);not null" json:"seat_id"`
	Label       string    `gorm:"type:varchar(16);not null" json:"label"`
	Type        string    `gorm:"type:varchar(20);check:type IN ('standard', 'vip', 'sleeper');default:'standard'" json:"type"`
	Status      string    `gorm:"type:varchar(20);default:''" json:"status"`
}

// TableName sets the table name for CoachLayout
func (CoachLayout) TableName() string {
	return "coach_layouts"
}

// TableName sets the table name for LayoutSeat
func (LayoutSeat) TableName() string {
	return "layout_seats"
}

// ToLayout expands stored cells into rows, filling missing columns with gaps
func (c *CoachLayout) ToLayout() Layout {
	rowCount := 0
	widths := map[int]int{}
	for _, s := range c.Seats {
		if !s.placed() {
			continue
		}
		if s.RowIndex+1 > rowCount {
			rowCount = s.RowIndex + 1
		}
		if s.ColumnIndex+1 > widths[s.RowIndex] {
			widths[s.RowIndex] = s.ColumnIndex + 1
		}
	}

	layout := make(Layout, rowCount)
	for r := 0; r < rowCount; r++ {
		layout[r] = make(LayoutRow, widths[r])
	}
	for _, s := range c.Seats {
		if !s.placed() {
			continue
		}
		seatType := SeatType(s.Type)
		if !seatType.IsValid() {
			seatType = SeatTypeStandard
		}
		layout[s.RowIndex][s.ColumnIndex] = &SeatDefinition{
			ID:     s.SeatID,
			Label:  s.Label,
			Type:   seatType,
			Status: SeatStatus(s.Status),
		}
	}
	return layout
}

// placed reports whether the cell has a usable grid position
func (s LayoutSeat) placed() bool {
	return s.RowIndex >= 0 && s.ColumnIndex >= 0
}

// NewCoachLayout flattens a layout into storable cells
func NewCoachLayout(busPlate, seatType, name string, layout Layout) *CoachLayout {
	coach := &CoachLayout{
		ID:       uuid.New(),
		BusPlate: busPlate,
		SeatType: seatType,
		Name:     name,
	}
	for r, row := range layout {
		for c, seat := range row {
			if seat == nil {
				continue
			}
			coach.Seats = append(coach.Seats, LayoutSeat{
				ID:          uuid.New(),
				LayoutID:    coach.ID,
				RowIndex:    r,
				ColumnIndex: c,
				SeatID:      seat.ID,
				Label:       seat.Label,
				Type:        string(seat.Type),
				Status:      string(seat.Status),
			})
		}
	}
	return coach
}
