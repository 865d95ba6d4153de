package server

import (
	"github.com/eternalApril/moonresp/internal/resp"
	"github.com/eternalApril/moonresp/internal/store"
)

// request carries the arguments of one command, without the command name
type request struct {
	args  []resp.Value
	store *store.MapStore
}

type command interface {
	execute(req *request) resp.Value
}

type commandFunc func(req *request) resp.Value

func (c commandFunc) execute(req *request) resp.Value {
	return c(req)
}
