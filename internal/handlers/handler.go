package handlers

import "github.com/julienschmidt/httprouter"

type Handler interface {
	Register(router *httprouter.Router)
}

// Middleware wraps a route, typically to require a bearer credential.
type Middleware func(httprouter.Handle) httprouter.Handle
