package bookings

type GuestConfirmRequest struct {
	Phone string `json:"phone" binding:"required_without=Email"`
	Email string `json:"email" binding:"omitempty,email"`
}

type LookupRequest struct {
	BookingReference string `json:"bookingReference" binding:"required"`
	Phone            string `json:"phone" binding:"required_without=Email"`
	Email            string `json:"email" binding:"omitempty,email"`
}
