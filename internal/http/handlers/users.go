package handlers

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/geocoder89/roomhub/internal/dto"
	"github.com/geocoder89/roomhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type UsersHandler struct {
	svc ReservationService
}

func NewUsersHandler(svc ReservationService) *UsersHandler {
	return &UsersHandler{svc: svc}
}

// MyReservations pages through the caller's reservations, newest first.
func (h *UsersHandler) MyReservations(ctx *gin.Context) {
	me, ok := middlewares.CurrentUser(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing user in context")
		return
	}

	var q dto.PaginationQuery
	if !BindQuery(ctx, &q) {
		return
	}
	limit, page := q.Values()

	// page*limit is the store offset and must not overflow
	if page > math.MaxInt/limit {
		RespondBadRequest(ctx, "Page is out of range", gin.H{"field": "page", "max": math.MaxInt / limit})
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	p, err := h.svc.ListForUser(cctx, me.ID, limit, page)
	if err != nil {
		RespondInternal(ctx, "Could not list reservations")
		return
	}

	ctx.JSON(http.StatusOK, dto.ToReservationsPage(p))
}
