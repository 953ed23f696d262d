package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/roomhub/internal/auth"
	"github.com/geocoder89/roomhub/internal/domain/user"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type fakeVerifier struct {
	verifyFn func(token string) (*auth.Claims, error)
}

func (f *fakeVerifier) VerifyAccessToken(token string) (*auth.Claims, error) {
	return f.verifyFn(token)
}

type fakeUserLoader struct {
	getByEmailFn func(ctx context.Context, email string) (user.User, error)
}

func (f *fakeUserLoader) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return f.getByEmailFn(ctx, email)
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	verifier := &fakeVerifier{
		verifyFn: func(token string) (*auth.Claims, error) {
			switch token {
			case "good":
				return &auth.Claims{UserID: 7, RegisteredClaims: jwt.RegisteredClaims{Subject: "user_07@test.com"}}, nil
			case "orphan":
				return &auth.Claims{UserID: 8, RegisteredClaims: jwt.RegisteredClaims{Subject: "gone@test.com"}}, nil
			case "broken-store":
				return &auth.Claims{UserID: 9, RegisteredClaims: jwt.RegisteredClaims{Subject: "err@test.com"}}, nil
			}
			return nil, auth.ErrInvalidToken
		},
	}
	users := &fakeUserLoader{
		getByEmailFn: func(_ context.Context, email string) (user.User, error) {
			switch email {
			case "user_07@test.com":
				return user.User{ID: 7, Email: email}, nil
			case "err@test.com":
				return user.User{}, errors.New("db down")
			}
			return user.User{}, user.ErrNotFound
		},
	}

	r := gin.New()
	r.GET("/me", NewAuthMiddleware(verifier, users).RequireAuth(), func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		id, _ := UserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"email": u.Email, "id": id})
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid", header: "Bearer good", wantStatus: http.StatusOK},
		{name: "no header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good", wantStatus: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer bad", wantStatus: http.StatusUnauthorized},
		{name: "user deleted", header: "Bearer orphan", wantStatus: http.StatusUnauthorized},
		{name: "store failure", header: "Bearer broken-store", wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body=%s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus == http.StatusUnauthorized && w.Header().Get("WWW-Authenticate") != "Bearer" {
				t.Fatal("missing WWW-Authenticate header")
			}
			if tt.wantStatus == http.StatusOK && w.Body.String() != `{"email":"user_07@test.com","id":7}` {
				t.Fatalf("body = %s", w.Body.String())
			}
		})
	}
}
