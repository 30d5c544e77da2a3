package availability

import "time"

type LockStatus string

const (
	LockStatusLocked    LockStatus = "locked"
	LockStatusConfirmed LockStatus = "confirmed"
)

// Query identifies the trip whose seat locks are requested
type Query struct {
	Route      string `form:"route" json:"route" binding:"required"`
	TravelDate string `form:"travelDate" json:"travelDate" binding:"required"`
	BusPlate   string `form:"busPlate" json:"busPlate,omitempty"`
	SeatType   string `form:"seatType" json:"seatType,omitempty"`
}

// SeatLock is one seat held by some booking upstream
type SeatLock struct {
	SeatLabel        string     `json:"seatLabel" validate:"required"`
	Status           LockStatus `json:"status" validate:"required,oneof=locked confirmed"`
	BookingReference string     `json:"bookingReference"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty"`
}

// Snapshot is one availability answer for a trip. It is replaced
// wholesale on every successful fetch, never merged.
type Snapshot struct {
	Route           string     `json:"route" validate:"required"`
	TravelDate      string     `json:"travelDate" validate:"required"`
	BusPlate        string     `json:"busPlate,omitempty"`
	SeatType        string     `json:"seatType,omitempty"`
	Seats           []SeatLock `json:"seats" validate:"dive"`
	ReservedSeatIDs []string   `json:"reservedSeatIds" validate:"required,dive,required"`
}

// ReservedExcept returns the reserved ids, minus the seats locked by the
// caller's own booking reference.
func (s *Snapshot) ReservedExcept(bookingReference string) []string {
	if s == nil {
		return nil
	}
	if bookingReference == "" {
		return append([]string{}, s.ReservedSeatIDs...)
	}

	own := make(map[string]bool)
	for _, lock := range s.Seats {
		if lock.BookingReference == bookingReference {
			own[lock.SeatLabel] = true
		}
	}

	reserved := make([]string, 0, len(s.ReservedSeatIDs))
	for _, id := range s.ReservedSeatIDs {
		if !own[id] {
			reserved = append(reserved, id)
		}
	}
	return reserved
}
