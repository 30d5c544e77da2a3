package availability

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
	client Client
}

func NewController(client Client) *Controller {
	return &Controller{client: client}
}

// GetAvailability handles GET /api/v1/availability
func (c *Controller) GetAvailability(ctx *gin.Context) {
	var q Query
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	snapshot, err := c.client.GetSeatAvailability(ctx.Request.Context(), middleware.Credentials(ctx), q)
	if err != nil {
		if errors.Is(err, ErrMissingTrip) {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
			return
		}
		status := upstream.HTTPStatus(err)
		logger.GetDefault().LogHTTPError(ctx, err, status)
		response.RespondJSON(ctx, "error", status, "Failed to fetch seat availability", nil, upstream.Message(err, err.Error()))
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat availability retrieved", snapshot, nil)
}
