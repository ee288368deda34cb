package booking

import (
	"errors"
	"net/http"
	"strconv"

	"venuehub/internal/domain"
	"venuehub/internal/middleware"
	"venuehub/internal/pkg/response"
	"venuehub/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public availability route and the authenticated booking routes.
// protected must already run middleware.JWTAuth.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/halls/:id/availability", h.GetHallAvailability)

	ownerOrAdmin := middleware.RequireRole(domain.RoleVenueHolder, domain.RoleAdmin)

	protected.POST("/bookings", middleware.RequireRole(domain.RolePlanner), h.CreateBooking)
	protected.GET("/bookings/:id", h.GetBooking)
	protected.PATCH("/bookings/:id/status", h.UpdateStatus)
	protected.GET("/bookings/:id/messages", h.ListMessages)
	protected.GET("/users/me/bookings", middleware.RequireRole(domain.RolePlanner), h.ListMyBookings)
	protected.GET("/venues/:id/bookings", ownerOrAdmin, h.ListVenueBookings)
	protected.POST("/halls/:id/blocked-dates", ownerOrAdmin, h.BlockDate)
	protected.DELETE("/halls/:id/blocked-dates/:blockId", ownerOrAdmin, h.UnblockDate)
}

// RegisterInternalRoutes mounts system callbacks; internal must run middleware.InternalTokenAuth.
func (h *Handler) RegisterInternalRoutes(internal *gin.RouterGroup) {
	internal.POST("/payments", h.RecordPayment)
}

// CreateBooking
// @Summary  Request a booking
// @Tags     Bookings
// @Security BearerAuth
// @Param    body body CreateBookingRequest true "hall and dates"
// @Success  201 {object} BookingResponse
// @Failure  400,404,409 {object} map[string]interface{}
// @Router   /bookings [POST]
func (h *Handler) CreateBooking(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if !bindAndValidate(c, &req) {
		return
	}

	in := CreateBookingInput{PlannerID: actor.UserID, HallID: req.HallID}
	in.StartDate, _ = domain.ParseDate(req.StartDate)
	if req.EndDate != "" {
		end, _ := domain.ParseDate(req.EndDate)
		in.EndDate = &end
	}

	b, err := h.service.CreateBooking(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, toBookingResponse(b, h.service.PaymentWindow()))
}

func (h *Handler) GetBooking(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toBookingResponse(b, h.service.PaymentWindow()))
}

// UpdateStatus
// @Summary     Change booking status
// @Description Planner: cancelled, cancellation_requested. Venue owner or admin: accepted, cancelled, confirmed, completed.
// @Tags        Bookings
// @Security    BearerAuth
// @Param       id   path int                 true "booking id"
// @Param       body body UpdateStatusRequest true "target status"
// @Success     200 {object} TransitionResponse
// @Failure     400,403,404,409 {object} map[string]interface{}
// @Router      /bookings/{id}/status [PATCH]
func (h *Handler) UpdateStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}

	res, err := h.service.TransitionStatus(c.Request.Context(), TransitionInput{
		BookingID:          id,
		Actor:              actor,
		TargetStatus:       req.Status,
		CancellationReason: req.CancellationReason,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, TransitionResponse{
		Booking:          toBookingResponse(res.Booking, h.service.PaymentWindow()),
		AutoCancelledIDs: res.AutoCancelledIDs,
	})
}

func (h *Handler) ListMessages(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	msgs, err := h.service.ListMessages(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, err)
		return
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	response.Success(c, http.StatusOK, gin.H{"messages": msgs})
}

func (h *Handler) ListMyBookings(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	limit, offset := pageParams(c)

	list, err := h.service.ListPlannerBookings(c.Request.Context(), actor, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": toBookingResponses(list, h.service.PaymentWindow())})
}

func (h *Handler) ListVenueBookings(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	venueID, ok := paramID(c, "id")
	if !ok {
		return
	}
	limit, offset := pageParams(c)

	list, err := h.service.ListVenueBookings(c.Request.Context(), actor, venueID, c.Query("status"), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": toBookingResponses(list, h.service.PaymentWindow())})
}

// GetHallAvailability
// @Summary Booked and blocked dates of a hall
// @Tags    Availability
// @Param   id path int true "hall id"
// @Success 200 {object} Availability
// @Failure 404 {object} map[string]interface{}
// @Router  /halls/{id}/availability [GET]
func (h *Handler) GetHallAvailability(c *gin.Context) {
	hallID, ok := paramID(c, "id")
	if !ok {
		return
	}

	av, err := h.service.GetHallAvailability(c.Request.Context(), hallID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, av)
}

func (h *Handler) BlockDate(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	hallID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req BlockDateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	date, _ := domain.ParseDate(req.Date)

	block, err := h.service.BlockDate(c.Request.Context(), actor, hallID, date, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, block)
}

func (h *Handler) UnblockDate(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	hallID, ok := paramID(c, "id")
	if !ok {
		return
	}
	blockID, ok := paramID(c, "blockId")
	if !ok {
		return
	}

	if err := h.service.UnblockDate(c.Request.Context(), actor, hallID, blockID); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "unblocked"})
}

// RecordPayment is called by the payment provider integration once money has settled.
func (h *Handler) RecordPayment(c *gin.Context) {
	var req RecordPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	b, err := h.service.RecordPayment(c.Request.Context(), req.BookingID, PaymentKind(req.Kind))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toBookingResponse(b, h.service.PaymentWindow()))
}

func (h *Handler) actor(c *gin.Context) (Actor, bool) {
	userID, role, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return Actor{}, false
	}
	actor, err := ActorFromRole(role, userID)
	if err != nil {
		writeError(c, err)
		return Actor{}, false
	}
	return actor, true
}

func bindAndValidate(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", errs)
		return false
	}
	return true
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}

func pageParams(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}

// writeError maps service errors onto the response envelope.
func writeError(c *gin.Context, err error) {
	message := ""
	var rule *RuleError
	if errors.As(err, &rule) {
		message = rule.Message
	}
	pick := func(fallback string) string {
		if message != "" {
			return message
		}
		return fallback
	}

	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", pick("Not found"))
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", pick("Access denied"))
	case errors.Is(err, ErrInvalidStatus):
		response.Error(c, http.StatusBadRequest, "INVALID_STATUS", pick("Invalid status"))
	case errors.Is(err, ErrInvalidStatusTransition):
		response.Error(c, http.StatusBadRequest, "INVALID_STATUS_TRANSITION", pick("Invalid status transition"))
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", pick("Invalid request"))
	case errors.Is(err, ErrNotAvailable):
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", pick("Hall is not available for the selected dates"))
	case errors.Is(err, ErrAlreadyBlocked):
		response.Error(c, http.StatusConflict, "ALREADY_BLOCKED", pick("Date is already blocked"))
	case errors.Is(err, ErrConcurrentUpdate):
		response.Error(c, http.StatusConflict, "CONCURRENT_UPDATE", pick("Booking was changed concurrently"))
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
