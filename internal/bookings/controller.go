package bookings

import (
	"errors"
	"net/http"

	"busdesk/internal/shared/middleware"
	"busdesk/internal/shared/utils/response"
	"busdesk/internal/upstream"
	"busdesk/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// ListBookings handles GET /api/v1/bookings
func (c *Controller) ListBookings(ctx *gin.Context) {
	records, err := c.service.ListBookings(ctx.Request.Context(), middleware.Credentials(ctx))
	if err != nil {
		respondError(ctx, "Failed to list bookings", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", records, nil)
}

// ConfirmBooking handles PATCH /api/v1/bookings/:reference/confirm
func (c *Controller) ConfirmBooking(ctx *gin.Context) {
	record, err := c.service.ConfirmBooking(ctx.Request.Context(), middleware.Credentials(ctx), ctx.Param("reference"))
	if err != nil {
		respondError(ctx, "Failed to confirm booking", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking confirmed successfully", record, nil)
}

// ConfirmGuestBooking handles PATCH /api/v1/bookings/:reference/guest-confirm
func (c *Controller) ConfirmGuestBooking(ctx *gin.Context) {
	var req GuestConfirmRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	record, err := c.service.ConfirmGuestBooking(ctx.Request.Context(), ctx.Param("reference"), ContactVerification{
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		respondError(ctx, "Failed to confirm booking", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking confirmed successfully", record, nil)
}

// CancelBooking handles PATCH /api/v1/bookings/:reference/cancel
func (c *Controller) CancelBooking(ctx *gin.Context) {
	record, err := c.service.CancelBooking(ctx.Request.Context(), middleware.Credentials(ctx), ctx.Param("reference"))
	if err != nil {
		respondError(ctx, "Failed to cancel booking", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled successfully", record, nil)
}

// LookupGuestBooking handles POST /api/v1/bookings/lookup
func (c *Controller) LookupGuestBooking(ctx *gin.Context) {
	var req LookupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	record, err := c.service.LookupGuestBooking(ctx.Request.Context(), GuestLookupPayload{
		BookingReference: req.BookingReference,
		Contact:          ContactVerification{Phone: req.Phone, Email: req.Email},
	})
	if err != nil {
		respondError(ctx, "Booking not found", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", record, nil)
}

func respondError(ctx *gin.Context, message string, err error) {
	if errors.Is(err, ErrMissingReference) {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, message, nil, err.Error())
		return
	}
	status := upstream.HTTPStatus(err)
	logger.GetDefault().LogHTTPError(ctx, err, status)
	response.RespondJSON(ctx, "error", status, message, nil, upstream.Message(err, err.Error()))
}
