package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/roomhub/internal/dto"
	"github.com/geocoder89/roomhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type ReservationsHandler struct {
	svc     ReservationService
	metrics OutcomeRecorder
}

func NewReservationsHandler(svc ReservationService, metrics OutcomeRecorder) *ReservationsHandler {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &ReservationsHandler{svc: svc, metrics: metrics}
}

func (h *ReservationsHandler) Delete(ctx *gin.Context) {
	requester, ok := middlewares.CurrentUser(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing user in context")
		return
	}

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id < 1 {
		RespondBadRequest(ctx, "Invalid reservation id", gin.H{"id": ctx.Param("id")})
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.svc.Cancel(cctx, requester, id); err != nil {
		result := respondReservationError(ctx, err, "Could not delete reservation")
		h.metrics.ObserveReservation("cancel", result)
		return
	}

	h.metrics.ObserveReservation("cancel", "deleted")
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: MsgReservationDeleted})
}
