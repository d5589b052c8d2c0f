// Package server assembles the reference backend: router, handlers, and the
// bearer middleware guarding everything except register and login.
package server

import (
	"time"

	"bookapp/internal/handlers"
	"bookapp/internal/server/auth"
	"bookapp/internal/server/book"
	"bookapp/internal/server/cover"
	"bookapp/internal/server/genre"
	"bookapp/internal/server/storage"
	"bookapp/internal/server/user"

	"github.com/julienschmidt/httprouter"
)

func NewRouter(st storage.Storage, covers *cover.Store, secret string, ttl time.Duration) *httprouter.Router {
	router := httprouter.New()
	secured := auth.Middleware(secret)

	for _, handler := range []handlers.Handler{
		user.NewHandler(st),
		auth.NewHandler(st, secret, ttl),
		book.NewHandler(st, covers, secured),
		genre.NewHandler(st, secured),
	} {
		handler.Register(router)
	}
	return router
}
