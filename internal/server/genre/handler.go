package genre

import (
	"encoding/json"
	"errors"
	"net/http"

	"bookapp/internal/handlers"
	"bookapp/internal/server/auth"
	"bookapp/internal/server/respond"
	"bookapp/internal/server/storage"
	"bookapp/internal/validate"
	"bookapp/package/logger"

	"github.com/julienschmidt/httprouter"
)

const genresUrl = "/api/v1/genres"

type handler struct {
	storage storage.Storage
	secured handlers.Middleware
}

func NewHandler(st storage.Storage, secured handlers.Middleware) handlers.Handler {
	return &handler{storage: st, secured: secured}
}

func (h *handler) Register(router *httprouter.Router) {
	router.POST(genresUrl, h.secured(h.CreateGenre))
	router.GET(genresUrl, h.secured(h.ListGenres))
}

func (h *handler) CreateGenre(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request GenreRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Log.Info("Bad genre request: ", err)
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validate.GenreName(request.Name); errs != nil {
		respond.Fields(w, errs)
		return
	}

	created, err := h.storage.CreateGenre(r.Context(), storage.Genre{
		UserID: auth.UserID(r.Context()),
		Name:   request.Name,
	})
	if errors.Is(err, storage.ErrAlreadyExists) {
		respond.Error(w, http.StatusConflict, "A genre with that name already exists for this user")
		return
	}
	if err != nil {
		logger.Log.Error("Genre creation failed: ", err)
		respond.Error(w, http.StatusServiceUnavailable, "Storage unavailable")
		return
	}

	respond.JSON(w, http.StatusCreated, GenreResponse{ID: created.ID, Name: created.Name})
}

func (h *handler) ListGenres(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	genres, err := h.storage.GenresByUser(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		logger.Log.Error("Genre listing failed: ", err)
		respond.Error(w, http.StatusServiceUnavailable, "Storage unavailable")
		return
	}

	result := make([]GenreResponse, 0, len(genres))
	for _, genre := range genres {
		result = append(result, GenreResponse{ID: genre.ID, Name: genre.Name})
	}
	respond.JSON(w, http.StatusOK, result)
}
