package server

import (
	"strings"

	"github.com/eternalApril/moonresp/internal/resp"
)

// ping replies PONG, or echoes its single argument
func ping(req *request) resp.Value {
	if len(req.args) > 1 {
		return resp.MakeErrorWrongNumberOfArguments("ping")
	}
	if len(req.args) == 1 {
		return resp.MakeBulkBytes(req.args[0].String)
	}
	return resp.MakeSimpleString("PONG")
}

func echo(req *request) resp.Value {
	return resp.MakeBulkBytes(req.args[0].String)
}

func get(req *request) resp.Value {
	val, ok := req.store.Get(req.args[0].Text())
	if !ok {
		return resp.MakeNullBulkString()
	}
	return resp.MakeBulkString(val)
}

func set(req *request) resp.Value {
	req.store.Set(req.args[0].Text(), req.args[1].Text())
	return resp.MakeSimpleString("OK")
}

func del(req *request) resp.Value {
	var n int64
	for _, key := range req.args {
		if req.store.Delete(key.Text()) {
			n++
		}
	}
	return resp.MakeInteger(n)
}

// cmd implements COMMAND, COMMAND COUNT and COMMAND DOCS
func cmd(req *request) resp.Value {
	if len(req.args) == 0 {
		return getAllCommands()
	}

	switch strings.ToUpper(req.args[0].Text()) {
	case "COUNT":
		return resp.MakeInteger(int64(len(commandRegistry)))
	case "DOCS":
		return getCommandsDocs(req.args[1:])
	}

	return resp.MakeErrorf("ERR unknown subcommand '%s'. Try COMMAND HELP.", sanitize(req.args[0].Text()))
}

// sanitize makes client supplied text safe to embed in an error reply
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\r' || r == '\n' {
			return ' '
		}
		return r
	}, s)
}
