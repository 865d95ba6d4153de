package server

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eternalApril/moonresp/internal/metrics"
	"github.com/eternalApril/moonresp/internal/resp"
	"github.com/eternalApril/moonresp/internal/store"
)

// unknownCommandLabel keeps metric cardinality bounded for names clients make up
const unknownCommandLabel = "unknown"

// Engine interprets decoded requests and produces reply values
type Engine struct {
	commands map[string]command // Registry of available commands (the key is the command name in uppercase)
	store    *store.MapStore
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewEngine initializes the engine and registers the basic commands
func NewEngine(s *store.MapStore, m *metrics.Metrics, logger *zap.Logger) *Engine {
	engine := Engine{
		commands: make(map[string]command),
		store:    s,
		metrics:  m,
		logger:   logger,
	}
	engine.registerBasicCommand()

	return &engine
}

// register adds a new command to the engine. The command name is uppercase
func (e *Engine) register(name string, cmd command) {
	e.commands[strings.ToUpper(name)] = cmd
}

// registerBasicCommand fills the registry with standard commands
func (e *Engine) registerBasicCommand() {
	e.register("PING", commandFunc(ping))
	e.register("ECHO", commandFunc(echo))
	e.register("GET", commandFunc(get))
	e.register("SET", commandFunc(set))
	e.register("DEL", commandFunc(del))
	e.register("COMMAND", commandFunc(cmd))
}

// Dispatch validates that req is a client command, an array of bulk strings, and executes it
func (e *Engine) Dispatch(req resp.Value) resp.Value {
	if req.Type != resp.TypeArray || req.IsNull || len(req.Array) == 0 {
		return resp.MakeErrorf("ERR Protocol error: expected a non-empty array of bulk strings, got %s", req.Kind())
	}
	for _, arg := range req.Array {
		if arg.Type != resp.TypeBulkString || arg.IsNull {
			return resp.MakeErrorf("ERR Protocol error: expected bulk string arguments, got %s", arg.Kind())
		}
	}

	return e.Execute(strings.ToUpper(req.Array[0].Text()), req.Array[1:])
}

// Execute finds the command by name and executes it with the passed arguments.
// If the command is not found, returns an error in the RESP format
func (e *Engine) Execute(name string, args []resp.Value) resp.Value {
	if e.logger.Core().Enabled(zap.DebugLevel) {
		// Log the command name and number of args
		e.logger.Debug("executing command",
			zap.String("cmd", name),
			zap.Int("args_count", len(args)),
		)
	}

	cmd, ok := e.commands[name]
	if !ok {
		e.metrics.CommandCalls.WithLabelValues(unknownCommandLabel).Inc()
		return resp.MakeErrorf("ERR unknown command '%s'", sanitize(name))
	}
	e.metrics.CommandCalls.WithLabelValues(name).Inc()

	if meta, ok := commandRegistry[name]; ok && !meta.arityOK(1+len(args)) {
		return resp.MakeErrorWrongNumberOfArguments(strings.ToLower(name))
	}

	start := time.Now()
	res := cmd.execute(&request{
		args:  args,
		store: e.store,
	})
	e.metrics.CommandDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	e.metrics.Keys.Set(float64(e.store.Len()))

	return res
}
