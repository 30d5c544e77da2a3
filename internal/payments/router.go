package payments

import (
	"github.com/gin-gonic/gin"
)

// SetupPaymentRoutes configures the payment handoff routes. Signed-in users
// pay through their token; guests prove the booking with its contact.
func SetupPaymentRoutes(rg *gin.RouterGroup, controller *Controller, auth, optionalAuth gin.HandlerFunc) {
	payments := rg.Group("/payments")
	{
		payments.POST("/session", auth, controller.CreateSession)                    // POST /api/v1/payments/session
		payments.POST("/session/guest", optionalAuth, controller.CreateGuestSession) // POST /api/v1/payments/session/guest
		payments.GET("/:id", optionalAuth, controller.GetStatus)                     // GET /api/v1/payments/:id
	}
}
