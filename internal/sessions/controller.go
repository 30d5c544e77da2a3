package sessions

import (
	"errors"
	"net/http"

	"busdesk/internal/seats"
	"busdesk/internal/shared/middleware"
	"busdesk/internal/shared/utils/response"
	"busdesk/internal/upstream"
	"busdesk/pkg/cache"
	"busdesk/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	manager *Manager
}

func NewController(manager *Manager) *Controller {
	return &Controller{manager: manager}
}

// OpenSession handles POST /api/v1/sessions
func (c *Controller) OpenSession(ctx *gin.Context) {
	var req OpenSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	session, err := c.manager.Open(ctx.Request.Context(), Options{
		Trip:             req.Trip,
		SeatCount:        req.SeatCount,
		Passengers:       req.Passengers,
		Contact:          req.Contact,
		Credentials:      middleware.Credentials(ctx),
		BookingReference: req.BookingReference,
	})
	if err != nil {
		respondError(ctx, "Failed to open booking session", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking session opened", session.View(), nil)
}

// GetSession handles GET /api/v1/sessions/:id
func (c *Controller) GetSession(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking session retrieved", session.View(), nil)
}

// CloseSession handles DELETE /api/v1/sessions/:id
func (c *Controller) CloseSession(ctx *gin.Context) {
	if err := c.manager.Close(ctx.Request.Context(), ctx.Param("id"), "client"); err != nil {
		respondError(ctx, "Failed to close booking session", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking session closed", nil, nil)
}

// ToggleSeat handles POST /api/v1/sessions/:id/seats/:seatId/toggle
func (c *Controller) ToggleSeat(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}

	outcome, err := session.ToggleSeat(ctx.Param("seatId"))
	if err != nil {
		respondError(ctx, "Failed to update seat selection", err)
		return
	}

	// rejected clicks are normal interactions, not errors
	response.RespondJSON(ctx, "success", http.StatusOK, "Seat selection updated", ToggleSeatResponse{
		Outcome: outcome,
		Session: session.View(),
	}, nil)
}

// UpdatePassenger handles PATCH /api/v1/sessions/:id/passengers/:passengerId
func (c *Controller) UpdatePassenger(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}

	var req PassengerUpdate
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	passenger, err := session.UpdatePassenger(ctx.Param("passengerId"), req)
	if err != nil {
		respondError(ctx, "Failed to update passenger", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Passenger updated", UpdatePassengerResponse{
		Passenger: passenger,
		Session:   session.View(),
	}, nil)
}

// RemovePassenger handles DELETE /api/v1/sessions/:id/passengers/seat/:seatLabel
func (c *Controller) RemovePassenger(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}
	if err := session.RemovePassenger(ctx.Param("seatLabel")); err != nil {
		respondError(ctx, "Failed to remove passenger", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Passenger removed", session.View(), nil)
}

// SetContact handles PUT /api/v1/sessions/:id/contact
func (c *Controller) SetContact(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}

	var req ContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	if err := session.SetContact(seats.ContactInfo{Phone: req.Phone, Email: req.Email}); err != nil {
		respondError(ctx, "Failed to update contact", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Contact updated", session.View(), nil)
}

// ChangeTrip handles PUT /api/v1/sessions/:id/trip
func (c *Controller) ChangeTrip(ctx *gin.Context) {
	var trip Trip
	if err := ctx.ShouldBindJSON(&trip); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	view, err := c.manager.ChangeTrip(ctx.Request.Context(), ctx.Param("id"), trip)
	if err != nil {
		respondError(ctx, "Failed to change trip", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Trip changed", view, nil)
}

// Refresh handles POST /api/v1/sessions/:id/refresh. A failed fetch is
// still a 200: the error is part of the view.
func (c *Controller) Refresh(ctx *gin.Context) {
	if session, err := c.manager.Get(ctx.Param("id")); err == nil {
		c.forwardCredentials(ctx, session)
	}

	view, err := c.manager.Refresh(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, "Failed to refresh seat availability", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Seat availability refreshed", view, nil)
}

// Continue handles POST /api/v1/sessions/:id/continue
func (c *Controller) Continue(ctx *gin.Context) {
	session, ok := c.session(ctx)
	if !ok {
		return
	}

	if verr := session.Validate(); verr != nil {
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, verr.Message, nil, verr)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking ready for review", session.View(), nil)
}

// Submit handles POST /api/v1/sessions/:id/submit
func (c *Controller) Submit(ctx *gin.Context) {
	if _, ok := c.session(ctx); !ok {
		return
	}

	result, err := c.manager.Submit(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, "Failed to submit booking", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking submitted", result, nil)
}

// GetPaymentContext handles GET /api/v1/payment-context/:reference.
// Only the signed-in user who submitted the booking may read it; guests use
// VerifyPaymentContext.
func (c *Controller) GetPaymentContext(ctx *gin.Context) {
	userID := middleware.UserID(ctx)
	if userID == "" {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Sign in or verify the booking contact", nil, nil)
		return
	}

	paymentCtx, ok := c.paymentContext(ctx)
	if !ok {
		return
	}
	if !paymentCtx.OwnedBy(userID) {
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Payment context not found", nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Payment context retrieved", paymentCtx, nil)
}

// VerifyPaymentContext handles POST /api/v1/payment-context/:reference
func (c *Controller) VerifyPaymentContext(ctx *gin.Context) {
	var req PaymentContextLookupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	paymentCtx, ok := c.paymentContext(ctx)
	if !ok {
		return
	}
	if !paymentCtx.OwnedBy(middleware.UserID(ctx)) && !paymentCtx.MatchesContact(req.Phone, req.Email) {
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Payment context not found", nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Payment context retrieved", paymentCtx, nil)
}

func (c *Controller) paymentContext(ctx *gin.Context) (*PaymentContext, bool) {
	paymentCtx, err := c.manager.PaymentContext(ctx.Request.Context(), ctx.Param("reference"))
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Payment context not found", nil, nil)
			return nil, false
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to load payment context", nil, err.Error())
		return nil, false
	}
	return paymentCtx, true
}

// session loads the session named in the path or writes the error response
func (c *Controller) session(ctx *gin.Context) (*Session, bool) {
	session, err := c.manager.Get(ctx.Param("id"))
	if err != nil {
		respondError(ctx, "Booking session not available", err)
		return nil, false
	}
	c.forwardCredentials(ctx, session)
	return session, true
}

func (c *Controller) forwardCredentials(ctx *gin.Context, session *Session) {
	if creds := middleware.Credentials(ctx); !creds.IsGuest() {
		session.SetCredentials(creds)
	}
}

func respondError(ctx *gin.Context, message string, err error) {
	if verr, ok := IsValidationError(err); ok {
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, verr.Message, nil, verr)
		return
	}

	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrPassengerUnknown):
		response.RespondJSON(ctx, "error", http.StatusNotFound, message, nil, err.Error())
	case errors.Is(err, ErrSessionClosed):
		response.RespondJSON(ctx, "error", http.StatusGone, message, nil, err.Error())
	case errors.Is(err, ErrAlreadySubmitted):
		response.RespondJSON(ctx, "error", http.StatusConflict, message, nil, err.Error())
	default:
		status := upstream.HTTPStatus(err)
		logger.GetDefault().LogHTTPError(ctx, err, status)
		response.RespondJSON(ctx, "error", status, message, nil, upstream.Message(err, err.Error()))
	}
}
