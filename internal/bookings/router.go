package bookings

import (
	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures the booking proxy routes. The booking service
// stays the authority on ownership; busdesk only forwards the caller's token.
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, auth, optionalAuth gin.HandlerFunc) {
	bookings := rg.Group("/bookings")
	{
		bookings.GET("", auth, controller.ListBookings)                                           // GET /api/v1/bookings
		bookings.PATCH("/:reference/confirm", auth, controller.ConfirmBooking)                    // PATCH /api/v1/bookings/:reference/confirm
		bookings.PATCH("/:reference/cancel", auth, controller.CancelBooking)                      // PATCH /api/v1/bookings/:reference/cancel
		bookings.PATCH("/:reference/guest-confirm", optionalAuth, controller.ConfirmGuestBooking) // PATCH /api/v1/bookings/:reference/guest-confirm
		bookings.POST("/lookup", optionalAuth, controller.LookupGuestBooking)                     // POST /api/v1/bookings/lookup
	}
}
