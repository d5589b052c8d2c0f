package book

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"bookapp/internal/handlers"
	"bookapp/internal/server/auth"
	"bookapp/internal/server/cover"
	"bookapp/internal/server/respond"
	"bookapp/internal/server/storage"
	"bookapp/internal/validate"
	"bookapp/package/logger"

	"github.com/julienschmidt/httprouter"
)

const (
	booksUrl     = "/api/v1/books"
	bookIsbnUrl  = "/api/v1/books/:isbn"
	bookCoverUrl = "/api/v1/books/:isbn/cover"

	notFoundMessage = "Book not found for the user"
)

type handler struct {
	storage storage.Storage
	covers  *cover.Store
	secured handlers.Middleware
}

func NewHandler(st storage.Storage, covers *cover.Store, secured handlers.Middleware) handlers.Handler {
	return &handler{storage: st, covers: covers, secured: secured}
}

func (h *handler) Register(router *httprouter.Router) {
	router.POST(booksUrl, h.secured(h.CreateBook))
	router.PATCH(booksUrl, h.secured(h.UpdateBook))
	router.GET(booksUrl, h.secured(h.ListBooks))
	// httprouter cannot mix a static /books/cover route with /books/:isbn,
	// so GetBook dispatches the reserved "cover" segment itself.
	router.GET(bookIsbnUrl, h.secured(h.GetBook))
	router.DELETE(bookIsbnUrl, h.secured(h.DeleteBook))
	router.PATCH(bookCoverUrl, h.secured(h.UpdateCover))
}

func (h *handler) toResponse(r *http.Request, book storage.Book) BookResponse {
	genreName := ""
	if genre, err := h.storage.GenreByID(r.Context(), book.GenreID); err == nil {
		genreName = genre.Name
	}
	return BookResponse{
		Isbn:           book.Isbn,
		Title:          book.Title,
		GenreID:        book.GenreID,
		Genre:          genreName,
		PublishedDate:  book.PublishedDate,
		Synopsis:       book.Synopsis,
		UserID:         book.UserID,
		CreatedAt:      book.CreatedAt.UTC().Format(time.RFC3339),
		CoverImagePath: book.CoverImagePath,
	}
}

// ownedGenre resolves genreID and checks it belongs to userID. Foreign
// genres are indistinguishable from missing ones.
func (h *handler) ownedGenre(r *http.Request, genreID, userID int64) (storage.Genre, error) {
	genre, err := h.storage.GenreByID(r.Context(), genreID)
	if err != nil {
		return storage.Genre{}, err
	}
	if genre.UserID != userID {
		return storage.Genre{}, storage.ErrNotFound
	}
	return genre, nil
}

func (h *handler) CreateBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request BookRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Log.Info("Bad book request: ", err)
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validate.Book(validate.BookForm{
		Isbn:          request.Isbn,
		Title:         request.Title,
		GenreID:       request.GenreID,
		PublishedDate: request.PublishedDate,
		Synopsis:      request.Synopsis,
	}); errs != nil {
		respond.Fields(w, errs)
		return
	}

	userID := auth.UserID(r.Context())
	if _, err := h.ownedGenre(r, request.GenreID, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Genre not found")
			return
		}
		logger.Log.Error("Genre lookup failed: ", err)
		respond.Error(w, http.StatusServiceUnavailable, "Storage unavailable")
		return
	}

	created, err := h.storage.CreateBook(r.Context(), storage.Book{
		Isbn:          request.Isbn,
		Title:         request.Title,
		GenreID:       request.GenreID,
		PublishedDate: request.PublishedDate,
		Synopsis:      request.Synopsis,
		UserID:        userID,
		CreatedAt:     time.Now().UTC(),
	})
	if errors.Is(err, storage.ErrAlreadyExists) {
		respond.Error(w, http.StatusConflict, "A book with that ISBN already exists")
		return
	}
	if err != nil {
		logger.Log.Error("Book creation failed: ", err)
		respond.Error(w, http.StatusServiceUnavailable, "Storage unavailable")
		return
	}

	respond.JSON(w, http.StatusCreated, h.toResponse(r, created))
}

func (h *handler) UpdateBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request BookUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Log.Info("Bad book update: ", err)
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.Isbn == "" {
		respond.Fields(w, map[string]string{"isbn": "The ISBN is required."})
		return
	}

	userID := auth.UserID(r.Context())
	book, err := h.storage.BookByIsbn(r.Context(), userID, request.Isbn)
	if errors.Is(err, storage.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, notFoundMessage)
		return
	}
	if err != nil {
		logger.Log.Error("Book lookup failed: ", err)
		respond.Error(w, http.StatusServiceUnavailable, "Storage unavailable")
		return
	}

	if request.Title != nil {
		book.Title = *request.Title
	}
	if request.PublishedDate != nil {
		book.PublishedDate = *request.PublishedDate
	}
	if request.Synopsis != nil {
		book.Synopsis = *request.Synopsis
	}
	if request.GenreID != nil {
		if _, err := h.ownedGenre(r, *request.GenreID, userID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				respond.Error(w, http.StatusNotFound, "Genre not found")
				return
			}
			logger.Log.Error("Genre lookup failed: ", err)
			respond.Error(w, http.StatusServiceUnavailable, "Storage unavailable")
			return
		}
		book.GenreID = *request.GenreID
	}

	if errs := validate.Book(validate.BookForm{
		Isbn:          book.Isbn,
		Title:         book.Title,
		GenreID:       book.GenreID,
		PublishedDate: book.PublishedDate,
		Synopsis:      book.Synopsis,
	}); errs != nil {
		respond.Fields(w, errs)
		return
	}

	updated, err := h.storage.UpdateBook(r.Context(), book)
	if err != nil {
		logger.Log.Error("Book update failed: ", err)
		respond.Error(w, http.StatusServiceUnavailable, "Storage unavailable")
		return
	}

	respond.JSON(w, http.StatusOK, h.toResponse(r, updated))
}

func (h *handler) ListBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page := queryInt(r, "page", 0)
	size := queryInt(r, "size", 5)
	if page < 0 || size < 1 {
		respond.Error(w, http.StatusBadRequest, "Invalid pagination parameters")
		return
	}
	genreID := int64(queryInt(r, "genreId", 0))
	if genreID < 0 {
		respond.Error(w, http.StatusBadRequest, "Invalid genre filter")
		return
	}

	userID := auth.UserID(r.Context())
	if genreID > 0 {
		if _, err := h.ownedGenre(r, genreID, userID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				respond.Error(w, http.StatusNotFound, "Genre not found")
				return
			}
			logger.Log.Error("Genre lookup failed: ", err)
			respond.Error(w, http.StatusServiceUnavailable, "Storage unavailable")
			return
		}
	}

	result, err := h.storage.BooksByUser(r.Context(), userID, genreID, page, size)
	if err != nil {
		logger.Log.Error("Book listing failed: ", err)
		respond.Error(w, http.StatusServiceUnavailable, "Storage unavailable")
		return
	}

	content := make([]BookResponse, 0, len(result.Content))
	for _, book := range result.Content {
		content = append(content, h.toResponse(r, book))
	}
	totalPages := int((result.TotalElements + int64(size) - 1) / int64(size))

	respond.JSON(w, http.StatusOK, PageResponse{
		Content:       content,
		TotalElements: result.TotalElements,
		TotalPages:    totalPages,
		Size:          size,
		Number:        page,
	})
}

func (h *handler) GetBook(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	isbn := params.ByName("isbn")
	if isbn == "cover" {
		h.GetCover(w, r)
		return
	}

	book, err := h.storage.BookByIsbn(r.Context(), auth.UserID(r.Context()), isbn)
	if errors.Is(err, storage.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, notFoundMessage)
		return
	}
	if err != nil {
		logger.Log.Error("Book lookup failed: ", err)
		respond.Error(w, http.StatusServiceUnavailable, "Storage unavailable")
		return
	}

	respond.JSON(w, http.StatusOK, h.toResponse(r, book))
}

func (h *handler) DeleteBook(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	err := h.storage.DeleteBook(r.Context(), auth.UserID(r.Context()), params.ByName("isbn"))
	if errors.Is(err, storage.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, notFoundMessage)
		return
	}
	if err != nil {
		logger.Log.Error("Book deletion failed: ", err)
		respond.Error(w, http.StatusServiceUnavailable, "Storage unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) UpdateCover(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	userID := auth.UserID(r.Context())
	book, err := h.storage.BookByIsbn(r.Context(), userID, params.ByName("isbn"))
	if errors.Is(err, storage.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, notFoundMessage)
		return
	}
	if err != nil {
		logger.Log.Error("Book lookup failed: ", err)
		respond.Error(w, http.StatusServiceUnavailable, "Storage unavailable")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, cover.MaxBytes+(1<<20))
	file, header, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "The file is empty")
		return
	}
	defer file.Close()

	if header.Size == 0 {
		respond.Error(w, http.StatusBadRequest, "The file is empty")
		return
	}
	if header.Size > cover.MaxBytes {
		respond.Error(w, http.StatusBadRequest, "Maximum allowed file size is 5MB")
		return
	}

	path, err := h.covers.Save(book.Isbn, header.Header.Get("Content-Type"), file)
	if errors.Is(err, cover.ErrUnsupportedType) {
		respond.Error(w, http.StatusBadRequest, "Only JPG or PNG images are allowed")
		return
	}
	if errors.Is(err, cover.ErrTooLarge) {
		respond.Error(w, http.StatusBadRequest, "Maximum allowed file size is 5MB")
		return
	}
	if err != nil {
		logger.Log.Error("Cover storage failed: ", err)
		respond.Error(w, http.StatusInternalServerError, "Error saving the image")
		return
	}

	book.CoverImagePath = path
	updated, err := h.storage.UpdateBook(r.Context(), book)
	if err != nil {
		logger.Log.Error("Book update failed: ", err)
		respond.Error(w, http.StatusServiceUnavailable, "Storage unavailable")
		return
	}

	respond.JSON(w, http.StatusOK, h.toResponse(r, updated))
}

func (h *handler) GetCover(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	isbn, err := cover.Isbn(path)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid cover path")
		return
	}

	// The cover is only served to the owner of the matching book.
	if _, err := h.storage.BookByIsbn(r.Context(), auth.UserID(r.Context()), isbn); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusForbidden, "Not allowed to view this image")
			return
		}
		logger.Log.Error("Book lookup failed: ", err)
		respond.Error(w, http.StatusServiceUnavailable, "Storage unavailable")
		return
	}

	file, contentType, err := h.covers.Open(path)
	if errors.Is(err, cover.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Image not found")
		return
	}
	if err != nil {
		logger.Log.Error("Cover read failed: ", err)
		respond.Error(w, http.StatusInternalServerError, "Error reading the image")
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "inline; filename=\"cover\"")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, file); err != nil {
		logger.Log.Error("Cover write failed: ", err)
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return value
}
