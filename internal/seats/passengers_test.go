package seats

import (
	"reflect"
	"testing"
)

func TestBuildPassengersOnePerSeat(t *testing.T) {
	passengers := BuildPassengersFromSeats([]string{"1A", "1C"}, nil)
	if len(passengers) != 2 {
		t.Fatalf("expected 2 passengers, got %d", len(passengers))
	}
	for i, label := range []string{"1A", "1C"} {
		if passengers[i].SeatLabel != label {
			t.Fatalf("passenger %d bound to %s, want %s", i, passengers[i].SeatLabel, label)
		}
		if passengers[i].ID == "" {
			t.Fatalf("passenger %d has no id", i)
		}
	}
	if passengers[0].ID == passengers[1].ID {
		t.Fatalf("passengers share id %s", passengers[0].ID)
	}
}

func TestBuildPassengersIdempotent(t *testing.T) {
	seats := []string{"1A", "3D"}
	once := BuildPassengersFromSeats(seats, nil)
	twice := BuildPassengersFromSeats(seats, once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second build changed entries:\n%+v\n%+v", once, twice)
	}

	fresh := BuildPassengersFromSeats(seats, nil)
	if !reflect.DeepEqual(once, fresh) {
		t.Fatalf("blank entries are not deterministic")
	}
}

func TestBuildPassengersKeepsTypedData(t *testing.T) {
	existing := []PassengerFormState{
		{ID: "p1", Name: "Ana", IDNumber: "X1", Phone: "555", SeatLabel: "1A"},
		{ID: "p2", Name: "Ben", IDNumber: "X2", Phone: "556", SeatLabel: "1B"},
	}

	// server took 1B; the user still holds 1A
	kept, removed := Reconcile([]string{"1A", "1B"}, []string{"1B"})
	if !reflect.DeepEqual(removed, []string{"1B"}) {
		t.Fatalf("unexpected removed %v", removed)
	}
	passengers := BuildPassengersFromSeats(kept, existing)
	if len(passengers) != 1 {
		t.Fatalf("expected one passenger, got %d", len(passengers))
	}
	if passengers[0] != existing[0] {
		t.Fatalf("1A data lost: %+v", passengers[0])
	}
}

func TestBuildPassengersFillsMissingID(t *testing.T) {
	existing := []PassengerFormState{{Name: "Ana", SeatLabel: "2A"}}
	passengers := BuildPassengersFromSeats([]string{"1A", "2A"}, existing)
	if passengers[1].ID != "2A-1" {
		t.Fatalf("expected fallback id 2A-1, got %q", passengers[1].ID)
	}
	if passengers[1].Name != "Ana" {
		t.Fatalf("name not preserved")
	}
}

func TestBuildPassengersEmptySelection(t *testing.T) {
	passengers := BuildPassengersFromSeats(nil, []PassengerFormState{{ID: "p1", SeatLabel: "1A"}})
	if passengers == nil || len(passengers) != 0 {
		t.Fatalf("expected empty list, got %v", passengers)
	}
}

func TestValidateFormOrder(t *testing.T) {
	full := PassengerFormState{Name: "Ana", IDNumber: "X1", Phone: "555", SeatLabel: "1A"}
	contact := ContactInfo{Phone: "555"}

	cases := []struct {
		name       string
		passengers []PassengerFormState
		contact    ContactInfo
		field      string
		seat       string
	}{
		{"no seats", nil, contact, "seats", ""},
		{"missing name wins", []PassengerFormState{{SeatLabel: "1A"}}, ContactInfo{}, "name", "1A"},
		{"blank name", []PassengerFormState{{Name: "   ", IDNumber: "X", Phone: "1", SeatLabel: "1A"}}, contact, "name", "1A"},
		{"missing id number", []PassengerFormState{{Name: "Ana", SeatLabel: "1A"}}, contact, "id_number", "1A"},
		{"missing phone", []PassengerFormState{{Name: "Ana", IDNumber: "X", SeatLabel: "1A"}}, contact, "phone", "1A"},
		{"second passenger", []PassengerFormState{full, {Name: "Ben", SeatLabel: "1C"}}, contact, "id_number", "1C"},
		{"missing contact phone", []PassengerFormState{full}, ContactInfo{Email: "a@b.c"}, "contact_phone", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verr := ValidateForm(tc.passengers, tc.contact)
			if verr == nil {
				t.Fatalf("expected %s failure", tc.field)
			}
			if verr.Field != tc.field || verr.SeatLabel != tc.seat {
				t.Fatalf("expected %s/%s, got %s/%s", tc.field, tc.seat, verr.Field, verr.SeatLabel)
			}
			if verr.Message == "" {
				t.Fatalf("empty message")
			}
		})
	}

	if verr := ValidateForm([]PassengerFormState{full}, contact); verr != nil {
		t.Fatalf("valid form rejected: %v", verr)
	}
}
