package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/property_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/property_management_app/internal/core/ports/services"
	"github.com/SscSPs/property_management_app/internal/dto"
	"github.com/SscSPs/property_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// stayHandler handles HTTP requests for reservations and rooms.
type stayHandler struct {
	stayService  portssvc.StaySvcFacade
	folioService portssvc.FolioReaderSvc
}

func newStayHandler(ss portssvc.StaySvcFacade, fs portssvc.FolioReaderSvc) *stayHandler {
	return &stayHandler{stayService: ss, folioService: fs}
}

// registerStayRoutes registers reservation and room routes under a property group.
func registerStayRoutes(property *gin.RouterGroup, stayService portssvc.StaySvcFacade, folioService portssvc.FolioReaderSvc) {
	h := newStayHandler(stayService, folioService)

	reservations := property.Group("/reservations")
	{
		reservations.POST("", h.createReservation)
		reservations.GET("/:reservation_id", h.getReservation)
		reservations.GET("/:reservation_id/folio", h.getReservationFolio)
		reservations.POST("/:reservation_id/check-in", h.checkIn)
		reservations.POST("/:reservation_id/check-out", h.checkOut)
		reservations.POST("/:reservation_id/cancel", h.cancel)
		reservations.POST("/:reservation_id/no-show", h.markNoShow)
		reservations.POST("/:reservation_id/extend", h.extendStay)
	}

	rooms := property.Group("/rooms")
	{
		rooms.GET("", h.listRooms)
		rooms.PUT("/:room_id/status", h.updateRoomStatus)
	}
}

// createReservation godoc
// @Summary Create a reservation
// @Description Books a stay of one or more rooms. Rates default to the room type's base rate.
// @Tags reservations
// @Accept  json
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   reservation body dto.CreateReservationRequest true "Reservation details"
// @Success 201 {object} domain.Reservation
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Property or room type not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to create reservation"
// @Security BearerAuth
// @Router /properties/{property_id}/reservations [post]
func (h *stayHandler) createReservation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "CreateReservation body")
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	reservation, err := h.stayService.CreateReservation(c.Request.Context(), c.Param("property_id"), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create reservation")
		return
	}
	c.JSON(http.StatusCreated, reservation)
}

// getReservation godoc
// @Summary Get a reservation
// @Tags reservations
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   reservation_id path string true "Reservation ID"
// @Success 200 {object} domain.Reservation
// @Failure 404 {object} dto.ErrorResponse "Reservation not found"
// @Security BearerAuth
// @Router /properties/{property_id}/reservations/{reservation_id} [get]
func (h *stayHandler) getReservation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reservation, err := h.stayService.GetReservation(c.Request.Context(), c.Param("property_id"), c.Param("reservation_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve reservation")
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// getReservationFolio godoc
// @Summary Get the folio of a reservation
// @Tags reservations
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   reservation_id path string true "Reservation ID"
// @Success 200 {object} domain.Folio
// @Failure 404 {object} dto.ErrorResponse "Reservation has no folio"
// @Security BearerAuth
// @Router /properties/{property_id}/reservations/{reservation_id}/folio [get]
func (h *stayHandler) getReservationFolio(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	folio, err := h.folioService.GetFolioByReservation(c.Request.Context(), c.Param("property_id"), c.Param("reservation_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve folio")
		return
	}
	c.JSON(http.StatusOK, folio)
}

// checkIn godoc
// @Summary Check a reservation in
// @Description Assigns a vacant room to every reservation room, marks them occupied and opens the folio.
// @Tags reservations
// @Accept  json
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   reservation_id path string true "Reservation ID"
// @Param   assignments body dto.CheckInRequest true "Room assignments"
// @Success 200 {object} dto.CheckInResult
// @Failure 400 {object} dto.ErrorResponse "Invalid or incomplete assignments"
// @Failure 404 {object} dto.ErrorResponse "Reservation or room not found"
// @Failure 409 {object} dto.ErrorResponse "Reservation not confirmed or room unavailable"
// @Security BearerAuth
// @Router /properties/{property_id}/reservations/{reservation_id}/check-in [post]
func (h *stayHandler) checkIn(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "CheckIn body")
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	result, err := h.stayService.CheckIn(c.Request.Context(), c.Param("property_id"), c.Param("reservation_id"), req.Assignments, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to check in")
		return
	}
	c.JSON(http.StatusOK, result)
}

// checkOut godoc
// @Summary Check a reservation out
// @Description Requires a zero folio balance unless force is set with an override reason.
// @Tags reservations
// @Accept  json
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   reservation_id path string true "Reservation ID"
// @Param   request body dto.CheckOutRequest false "Override options"
// @Success 200 {object} dto.CheckOutResult
// @Failure 409 {object} dto.ErrorResponse "Outstanding balance or reservation not checked in"
// @Security BearerAuth
// @Router /properties/{property_id}/reservations/{reservation_id}/check-out [post]
func (h *stayHandler) checkOut(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CheckOutRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondBindError(c, logger, err, "CheckOut body")
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	result, err := h.stayService.CheckOut(c.Request.Context(), c.Param("property_id"), c.Param("reservation_id"), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to check out")
		return
	}
	c.JSON(http.StatusOK, result)
}

// cancel godoc
// @Summary Cancel a confirmed reservation
// @Tags reservations
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   reservation_id path string true "Reservation ID"
// @Success 200 {object} domain.Reservation
// @Failure 409 {object} dto.ErrorResponse "Reservation not confirmed"
// @Security BearerAuth
// @Router /properties/{property_id}/reservations/{reservation_id}/cancel [post]
func (h *stayHandler) cancel(c *gin.Context) {
	h.transition(c, h.stayService.Cancel, "Failed to cancel reservation")
}

// markNoShow godoc
// @Summary Mark a confirmed reservation as no-show
// @Tags reservations
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   reservation_id path string true "Reservation ID"
// @Success 200 {object} domain.Reservation
// @Failure 409 {object} dto.ErrorResponse "Reservation not confirmed"
// @Security BearerAuth
// @Router /properties/{property_id}/reservations/{reservation_id}/no-show [post]
func (h *stayHandler) markNoShow(c *gin.Context) {
	h.transition(c, h.stayService.MarkNoShow, "Failed to mark reservation as no-show")
}

func (h *stayHandler) transition(c *gin.Context, op func(ctx context.Context, propertyID, reservationID, actor string) (*domain.Reservation, error), fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	reservation, err := op(c.Request.Context(), c.Param("property_id"), c.Param("reservation_id"), actor)
	if err != nil {
		respondError(c, logger, err, fallback)
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// extendStay godoc
// @Summary Move a reservation's check-out date
// @Tags reservations
// @Accept  json
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   reservation_id path string true "Reservation ID"
// @Param   request body dto.ExtendStayRequest true "New check-out date"
// @Success 200 {object} domain.Reservation
// @Failure 400 {object} dto.ErrorResponse "Check-out not after check-in"
// @Failure 409 {object} dto.ErrorResponse "Reservation already finished"
// @Security BearerAuth
// @Router /properties/{property_id}/reservations/{reservation_id}/extend [post]
func (h *stayHandler) extendStay(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ExtendStayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "ExtendStay body")
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	// The binding tag already validated the layout.
	newCheckOut, _ := time.Parse(domain.DateLayout, req.CheckOutDate)

	reservation, err := h.stayService.ExtendStay(c.Request.Context(), c.Param("property_id"), c.Param("reservation_id"), newCheckOut, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to extend stay")
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// listRooms godoc
// @Summary List the rooms of a property
// @Tags rooms
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Success 200 {object} dto.ListRoomsResponse
// @Security BearerAuth
// @Router /properties/{property_id}/rooms [get]
func (h *stayHandler) listRooms(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	rooms, err := h.stayService.ListRooms(c.Request.Context(), c.Param("property_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list rooms")
		return
	}
	c.JSON(http.StatusOK, dto.ListRoomsResponse{Rooms: rooms})
}

// updateRoomStatus godoc
// @Summary Set a room's housekeeping or maintenance status
// @Description Occupancy is owned by check-in and check-out and cannot be set here.
// @Tags rooms
// @Accept  json
// @Produce  json
// @Param   property_id path string true "Property ID"
// @Param   room_id path string true "Room ID"
// @Param   request body dto.UpdateRoomStatusRequest true "New status"
// @Success 200 {object} domain.Room
// @Failure 409 {object} dto.ErrorResponse "Room is occupied"
// @Security BearerAuth
// @Router /properties/{property_id}/rooms/{room_id}/status [put]
func (h *stayHandler) updateRoomStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateRoomStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "UpdateRoomStatus body")
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	room, err := h.stayService.UpdateRoomStatus(c.Request.Context(), c.Param("property_id"), c.Param("room_id"), req.Status, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to update room status")
		return
	}
	logger.Info("Room status updated", slog.String("room_id", room.RoomID), slog.String("status", string(room.Status)))
	c.JSON(http.StatusOK, room)
}
