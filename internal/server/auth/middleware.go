package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"bookapp/internal/handlers"
	"bookapp/internal/server/respond"

	"github.com/dgrijalva/jwt-go"
	"github.com/julienschmidt/httprouter"
)

type contextKey string

const (
	userIDKey   contextKey = "user_id"
	usernameKey contextKey = "username"
)

func unauthorized(w http.ResponseWriter, message string) {
	respond.JSON(w, http.StatusUnauthorized, map[string]string{"error": message})
}

// Middleware requires a valid bearer credential and puts the verified user
// id into the request context. Handlers never read a user id from the
// request itself.
func Middleware(secret string) handlers.Middleware {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, "Token is required")
				return
			}
			if !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w, "Invalid or malformed token")
				return
			}

			claims, err := verify(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				var validationErr *jwt.ValidationError
				switch {
				case errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0:
					unauthorized(w, "Token has expired")
				case errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorSignatureInvalid != 0:
					unauthorized(w, "Invalid token signature")
				case errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorMalformed != 0:
					unauthorized(w, "Invalid or malformed token")
				default:
					unauthorized(w, "Invalid token or unknown error")
				}
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			ctx = context.WithValue(ctx, usernameKey, claims.Username)
			next(w, r.WithContext(ctx), params)
		}
	}
}

// UserID returns the verified user id placed by Middleware, or 0 on an
// unauthenticated request.
func UserID(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}

// Username returns the verified username placed by Middleware.
func Username(ctx context.Context) string {
	name, _ := ctx.Value(usernameKey).(string)
	return name
}
