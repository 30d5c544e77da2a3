package sessions

import (
	"github.com/gin-gonic/gin"
)

// SetupSessionRoutes configures booking session routes. Sessions work for
// guests too; a bearer token is forwarded upstream when present.
func SetupSessionRoutes(rg *gin.RouterGroup, controller *Controller, optionalAuth gin.HandlerFunc) {
	sessions := rg.Group("/sessions")
	sessions.Use(optionalAuth)
	{
		sessions.POST("", controller.OpenSession)                                      // POST /api/v1/sessions
		sessions.GET("/:id", controller.GetSession)                                    // GET /api/v1/sessions/:id
		sessions.DELETE("/:id", controller.CloseSession)                               // DELETE /api/v1/sessions/:id
		sessions.POST("/:id/seats/:seatId/toggle", controller.ToggleSeat)              // POST /api/v1/sessions/:id/seats/:seatId/toggle
		sessions.PATCH("/:id/passengers/:passengerId", controller.UpdatePassenger)     // PATCH /api/v1/sessions/:id/passengers/:passengerId
		sessions.DELETE("/:id/passengers/seat/:seatLabel", controller.RemovePassenger) // DELETE /api/v1/sessions/:id/passengers/seat/:seatLabel
		sessions.PUT("/:id/contact", controller.SetContact)                            // PUT /api/v1/sessions/:id/contact
		sessions.PUT("/:id/trip", controller.ChangeTrip)                               // PUT /api/v1/sessions/:id/trip
		sessions.POST("/:id/refresh", controller.Refresh)                              // POST /api/v1/sessions/:id/refresh
		sessions.POST("/:id/continue", controller.Continue)                            // POST /api/v1/sessions/:id/continue
		sessions.POST("/:id/submit", controller.Submit)                                // POST /api/v1/sessions/:id/submit
	}

	paymentContext := rg.Group("/payment-context")
	paymentContext.Use(optionalAuth)
	{
		paymentContext.GET("/:reference", controller.GetPaymentContext)     // GET /api/v1/payment-context/:reference
		paymentContext.POST("/:reference", controller.VerifyPaymentContext) // POST /api/v1/payment-context/:reference
	}
}

// Route definitions for reference:
//
// Booking session flow:
// 1. Client opens a session with POST /sessions and gets the seat map
// 2. The session polls seat locks every few seconds; seats taken by others
//    are dropped from the selection and reported once as a notice
// 3. Client toggles seats and fills passenger cards
// 4. POST /sessions/:id/continue checks the form (422 names the first gap)
// 5. POST /sessions/:id/submit creates the booking upstream and mirrors the
//    payment context under /payment-context/:reference. The submitting user
//    reads it with GET; guests POST the booking phone or email to see it.
