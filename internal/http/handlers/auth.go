package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/roomhub/internal/auth"
	"github.com/geocoder89/roomhub/internal/domain/user"
	"github.com/geocoder89/roomhub/internal/dto"
	"github.com/geocoder89/roomhub/internal/security"
	"github.com/gin-gonic/gin"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type TokenIssuer interface {
	GenerateAccessToken(userID int64, email string) (auth.Token, error)
}

type AuthHandler struct {
	users UserReader
	jwt   TokenIssuer
}

func NewAuthHandler(users UserReader, jwt TokenIssuer) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwt,
	}
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req dto.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}
	// short timeout for DB lookup
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	token, err := h.jwt.GenerateAccessToken(foundUser.ID, foundUser.Email)

	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	ctx.JSON(http.StatusOK, token)
}
