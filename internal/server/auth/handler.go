package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"bookapp/internal/handlers"
	"bookapp/internal/server/respond"
	"bookapp/internal/server/storage"
	"bookapp/package/logger"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/crypto/bcrypt"
)

const loginUrl = "/api/v1/auth/login"

type handler struct {
	storage storage.Storage
	secret  string
	ttl     time.Duration
}

func NewHandler(st storage.Storage, secret string, ttl time.Duration) handlers.Handler {
	return &handler{storage: st, secret: secret, ttl: ttl}
}

func (h *handler) Register(router *httprouter.Router) {
	router.POST(loginUrl, h.LoginUser)
}

func (h *handler) LoginUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Log.Info("Bad login request: ", err)
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.storage.UserByEmail(r.Context(), request.Email)
	if errors.Is(err, storage.ErrNotFound) {
		respond.Error(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		logger.Log.Error("Login lookup failed: ", err)
		respond.Error(w, http.StatusServiceUnavailable, "Storage unavailable")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)) != nil {
		respond.Error(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	tok, err := IssueToken(h.secret, h.ttl, user, time.Now())
	if err != nil {
		logger.Log.Error("Token signing failed: ", err)
		respond.Error(w, http.StatusInternalServerError, "Could not issue token")
		return
	}

	respond.JSON(w, http.StatusOK, LoginResponse{Token: tok})
}
