package xhttp

import (
	"slices"
	"time"

	"github.com/nimasrn/inbox-ledger/pkg/logger"
	"github.com/valyala/fasthttp"
)

var DefaultServerOption = ServerOption{
	IdleTimeout:        10 * time.Second,
	ReadTimeout:        2500 * time.Millisecond,
	WriteTimeout:       2500 * time.Millisecond,
	RequestTimeout:     5 * time.Second,
	MaxRequestBodySize: 1 * 1024 * 1024,
	Concurrency:        1024,
	Name:               "inbox-ledger",
}

type Server = fasthttp.Server

type ServerOption struct {
	// idle keep-alive connections are closed after this long
	IdleTimeout        time.Duration
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	RequestTimeout     time.Duration
	MaxRequestBodySize int
	Concurrency        int
	Name               string
}

// Engine is a fasthttp server with a router and a middleware chain.
type Engine struct {
	*Router
	*Server
	option ServerOption
	middle []MiddlewareFunc
}

func NewServer(options ServerOption) *Engine {
	return &Engine{
		Server: &fasthttp.Server{
			Name:                  options.Name,
			IdleTimeout:           options.IdleTimeout,
			ReadTimeout:           options.ReadTimeout,
			WriteTimeout:          options.WriteTimeout,
			MaxRequestBodySize:    options.MaxRequestBodySize,
			Concurrency:           options.Concurrency,
			NoDefaultServerHeader: true,
			CloseOnShutdown:       true,
			Logger:                logger.GetLogger(),
		},
		Router: CreateDefaultRouter(),
		option: options,
	}
}

// CreateServer returns an engine with the default options, panic recovery,
// request logging and a request timeout.
func CreateServer() *Engine {
	s := NewServer(DefaultServerOption)
	s.Use(RecoverMiddleware)
	s.Use(RequestLoggerMiddleware)
	if DefaultServerOption.RequestTimeout > 0 {
		s.Use(TimeoutMiddleware(DefaultServerOption.RequestTimeout))
	}
	return s
}

// Use appends middleware; the first registered runs outermost.
func (e *Engine) Use(middleware MiddlewareFunc) {
	e.middle = append(e.middle, middleware)
}

// DoRouting builds the final handler from the router and middleware chain.
func (e *Engine) DoRouting() {
	for method, routes := range e.Router.List() {
		for _, r := range routes {
			logger.Debug("[xhttp] route", "method", method, "path", r)
		}
	}
	h := e.Router.Handler
	chain := slices.Clone(e.middle)
	slices.Reverse(chain)
	for _, m := range chain {
		h = m(h)
	}
	e.Server.Handler = h
}

func (e *Engine) ListenAndServe(addr string) error {
	e.DoRouting()
	logger.Info("[xhttp] server is listening", "addr", addr)
	return e.Server.ListenAndServe(addr)
}

// Shutdown gracefully stops the server without interrupting active requests.
func (e *Engine) Shutdown() {
	logger.Info("[xhttp] server is shutting down")
	if err := e.Server.Shutdown(); err != nil {
		logger.Warn("[xhttp] error while shutting down", "error", err)
	}
}
