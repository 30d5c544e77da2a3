package payments

type CreateSessionRequest struct {
	BookingReference string `json:"bookingReference" binding:"required"`
	SuccessURL       string `json:"successUrl" binding:"required,url"`
	CancelURL        string `json:"cancelUrl" binding:"omitempty,url"`
}

type GuestSessionRequest struct {
	BookingReference string `json:"bookingReference" binding:"required"`
	SuccessURL       string `json:"successUrl" binding:"required,url"`
	CancelURL        string `json:"cancelUrl" binding:"omitempty,url"`
	Phone            string `json:"phone" binding:"required_without=Email"`
	Email            string `json:"email" binding:"omitempty,email"`
}
