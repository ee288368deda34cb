package expiry

import (
	"errors"
	"net/http"

	"venuehub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	scheduler *Scheduler
}

func NewHandler(scheduler *Scheduler) *Handler {
	return &Handler{scheduler: scheduler}
}

// RegisterInternalRoutes mounts the manual trigger; internal must run middleware.InternalTokenAuth.
func (h *Handler) RegisterInternalRoutes(internal *gin.RouterGroup) {
	internal.POST("/expiry-check", h.RunCheck)
}

// RunCheck
// @Summary  Run the booking expiry check now
// @Tags     Internal
// @Success  200 {object} Report
// @Failure  409 {object} map[string]interface{}
// @Router   /internal/expiry-check [POST]
func (h *Handler) RunCheck(c *gin.Context) {
	report, err := h.scheduler.RunOnce(c.Request.Context())
	if err != nil {
		if errors.Is(err, ErrAlreadyRunning) {
			response.Error(c, http.StatusConflict, "ALREADY_RUNNING", "An expiry check is already running")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Expiry check failed")
		return
	}
	response.Success(c, http.StatusOK, report)
}
