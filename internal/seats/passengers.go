package seats

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// passengerNamespace seeds deterministic ids for blank passenger entries
var passengerNamespace = uuid.MustParse("6f1c2d9e-4b7a-5c3e-9a21-0d8e7f6b5a43")

// PassengerFormState is the passenger card bound to one selected seat
type PassengerFormState struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IDNumber  string `json:"idNumber"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	SeatLabel string `json:"seatLabel"`
}

// ContactInfo is the single contact record for the whole booking
type ContactInfo struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// NewPassenger returns a blank entry keyed to the seat
func NewPassenger(seatLabel string) PassengerFormState {
	return PassengerFormState{
		ID:        uuid.NewSHA1(passengerNamespace, []byte(seatLabel)).String(),
		SeatLabel: seatLabel,
	}
}

// BuildPassengersFromSeats derives one passenger entry per seat, in seat
// order. Entries already bound to a seat label are reused as-is so typed
// data survives reselection elsewhere; entries for dropped seats disappear.
func BuildPassengersFromSeats(seatIDs []string, existing []PassengerFormState) []PassengerFormState {
	if len(seatIDs) == 0 {
		return []PassengerFormState{}
	}

	bySeat := make(map[string]PassengerFormState, len(existing))
	for _, p := range existing {
		if _, seen := bySeat[p.SeatLabel]; !seen {
			bySeat[p.SeatLabel] = p
		}
	}

	passengers := make([]PassengerFormState, 0, len(seatIDs))
	for i, seatLabel := range seatIDs {
		if p, ok := bySeat[seatLabel]; ok {
			if p.ID == "" {
				p.ID = fmt.Sprintf("%s-%d", seatLabel, i)
			}
			passengers = append(passengers, p)
			continue
		}
		passengers = append(passengers, NewPassenger(seatLabel))
	}
	return passengers
}

// ValidationError names the first missing field category
type ValidationError struct {
	Field     string `json:"field"`
	SeatLabel string `json:"seat_label,omitempty"`
	Message   string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateForm checks the draft before it can move to review.
// The first failure wins: seats, then per passenger name/id/phone, then
// the contact phone.
func ValidateForm(passengers []PassengerFormState, contact ContactInfo) *ValidationError {
	if len(passengers) == 0 {
		return &ValidationError{Field: "seats", Message: "Please select at least one seat."}
	}
	for _, p := range passengers {
		if strings.TrimSpace(p.Name) == "" {
			return &ValidationError{Field: "name", SeatLabel: p.SeatLabel, Message: "Please enter the passenger's full name."}
		}
		if strings.TrimSpace(p.IDNumber) == "" {
			return &ValidationError{Field: "id_number", SeatLabel: p.SeatLabel, Message: "Please enter the passenger's ID number."}
		}
		if strings.TrimSpace(p.Phone) == "" {
			return &ValidationError{Field: "phone", SeatLabel: p.SeatLabel, Message: "Please enter the passenger's phone number."}
		}
	}
	if strings.TrimSpace(contact.Phone) == "" {
		return &ValidationError{Field: "contact_phone", Message: "Please enter a contact phone number."}
	}
	return nil
}
