package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/roomhub/internal/domain/reservation"
	"github.com/geocoder89/roomhub/internal/dto"
	"github.com/geocoder89/roomhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type RoomsHandler struct {
	svc     ReservationService
	metrics OutcomeRecorder
}

func NewRoomsHandler(svc ReservationService, metrics OutcomeRecorder) *RoomsHandler {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &RoomsHandler{svc: svc, metrics: metrics}
}

func (h *RoomsHandler) ListRooms(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	rooms, err := h.svc.Rooms(cctx)
	if err != nil {
		RespondInternal(ctx, "Could not list rooms")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, dto.ToRooms(rooms))
}

func (h *RoomsHandler) CreateReservation(ctx *gin.Context) {
	owner, ok := middlewares.CurrentUser(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing user in context")
		return
	}

	roomID, err := strconv.ParseInt(ctx.Param("room_id"), 10, 64)
	if err != nil || roomID < 1 {
		RespondBadRequest(ctx, "Invalid room id", gin.H{"room_id": ctx.Param("room_id")})
		return
	}

	var req dto.CreateReservationRequest
	if !BindJSON(ctx, &req) {
		return
	}

	start, end, ok := parseRange(ctx, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	created, err := h.svc.Book(cctx, owner, roomID, start, end)
	if err != nil {
		result := respondReservationError(ctx, err, "Could not create reservation")
		h.metrics.ObserveReservation("book", result)
		return
	}

	h.metrics.ObserveReservation("book", "created")
	ctx.JSON(http.StatusCreated, dto.ToReservation(created))
}

// AllRoomsReservations lists every room with the reservations overlapping
// the queried range.
func (h *RoomsHandler) AllRoomsReservations(ctx *gin.Context) {
	var q dto.DateRangeQuery
	if !BindQuery(ctx, &q) {
		return
	}

	start, end, ok := parseRange(ctx, q.StartDate, q.EndDate)
	if !ok {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	summaries, err := h.svc.Summaries(cctx, start.UTC(), end.UTC())
	if err != nil {
		RespondInternal(ctx, "Could not list reservations")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, dto.ToRoomSummaries(summaries))
}

func (h *RoomsHandler) AvailableRooms(ctx *gin.Context) {
	var q dto.DateRangeQuery
	if !BindQuery(ctx, &q) {
		return
	}

	start, end, ok := parseRange(ctx, q.StartDate, q.EndDate)
	if !ok {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	rooms, err := h.svc.AvailableRooms(cctx, start.UTC(), end.UTC())
	if err != nil {
		RespondInternal(ctx, "Could not list available rooms")
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRooms(rooms))
}

// parseRange reads both timestamps, answering 400 on the first unreadable one.
func parseRange(ctx *gin.Context, rawStart, rawEnd string) (start, end reservation.Timestamp, ok bool) {
	start, err := reservation.ParseTimestamp(rawStart)
	if err != nil {
		RespondBadRequest(ctx, "Invalid start_date", gin.H{"start_date": rawStart})
		return start, end, false
	}

	end, err = reservation.ParseTimestamp(rawEnd)
	if err != nil {
		RespondBadRequest(ctx, "Invalid end_date", gin.H{"end_date": rawEnd})
		return start, end, false
	}

	return start, end, true
}
