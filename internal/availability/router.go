package availability

import "github.com/gin-gonic/gin"

func SetupAvailabilityRoutes(rg *gin.RouterGroup, controller *Controller, optionalAuth gin.HandlerFunc) {
	rg.GET("/availability", optionalAuth, controller.GetAvailability) // GET /api/v1/availability?route=&travelDate=&busPlate=&seatType=
}
