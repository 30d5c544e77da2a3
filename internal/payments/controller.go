package payments

import (
	"errors"
	"net/http"

	"busdesk/internal/bookings"
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

// CreateSession handles POST /api/v1/payments/session
func (c *Controller) CreateSession(ctx *gin.Context) {
	var req CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	session, err := c.service.CreateSession(ctx.Request.Context(), middleware.Credentials(ctx), CreateSessionPayload{
		BookingReference: req.BookingReference,
		SuccessURL:       req.SuccessURL,
		CancelURL:        req.CancelURL,
	})
	if err != nil {
		respondError(ctx, "Failed to start payment", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Payment session created", session, nil)
}

// CreateGuestSession handles POST /api/v1/payments/session/guest
func (c *Controller) CreateGuestSession(ctx *gin.Context) {
	var req GuestSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	session, err := c.service.CreateGuestSession(ctx.Request.Context(), CreateSessionPayload{
		BookingReference: req.BookingReference,
		SuccessURL:       req.SuccessURL,
		CancelURL:        req.CancelURL,
		Contact:          &bookings.ContactVerification{Phone: req.Phone, Email: req.Email},
	})
	if err != nil {
		respondError(ctx, "Failed to start payment", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Payment session created", session, nil)
}

// GetStatus handles GET /api/v1/payments/:id
func (c *Controller) GetStatus(ctx *gin.Context) {
	session, err := c.service.GetStatus(ctx.Request.Context(), middleware.Credentials(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, "Failed to get payment status", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Payment status retrieved", session, nil)
}

func respondError(ctx *gin.Context, message string, err error) {
	if errors.Is(err, ErrMissingReference) || errors.Is(err, ErrMissingPaymentID) || errors.Is(err, ErrMissingContact) {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, message, nil, err.Error())
		return
	}
	status := upstream.HTTPStatus(err)
	logger.GetDefault().LogHTTPError(ctx, err, status)
	response.RespondJSON(ctx, "error", status, message, nil, upstream.Message(err, err.Error()))
}
