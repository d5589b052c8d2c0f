package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"bookapp/internal/handlers"
	"bookapp/internal/server/respond"
	"bookapp/internal/server/storage"
	"bookapp/internal/validate"
	"bookapp/package/logger"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/crypto/bcrypt"
)

const registerUrl = "/api/v1/users/register"

type handler struct {
	storage storage.Storage
}

func NewHandler(st storage.Storage) handlers.Handler {
	return &handler{storage: st}
}

func (h *handler) Register(router *httprouter.Router) {
	router.POST(registerUrl, h.RegisterUser)
}

func (h *handler) RegisterUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Log.Info("Bad register request: ", err)
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validate.Register(request.Username, request.Email, request.Password); errs != nil {
		respond.Fields(w, errs)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("Password hashing failed: ", err)
		respond.Error(w, http.StatusInternalServerError, "Could not register user")
		return
	}

	created, err := h.storage.CreateUser(r.Context(), storage.User{
		Username:     request.Username,
		Email:        request.Email,
		PasswordHash: string(hash),
	})
	if errors.Is(err, storage.ErrAlreadyExists) {
		respond.Error(w, http.StatusConflict, "email already exists")
		return
	}
	if err != nil {
		logger.Log.Error("User creation failed: ", err)
		respond.Error(w, http.StatusServiceUnavailable, "Storage unavailable")
		return
	}

	respond.JSON(w, http.StatusCreated, RegisterResponse{
		ID:       created.ID,
		Username: created.Username,
		Email:    created.Email,
	})
}
