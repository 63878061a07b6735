package httpapi

import (
	"context"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/park285/checkers-link/internal/adapter/checkerspresenter"
	"github.com/park285/checkers-link/internal/checkersbuilder"
	"github.com/park285/checkers-link/internal/config"
	"github.com/park285/checkers-link/internal/obslog"
)

const requestTimeout = 10 * time.Second

// Server exposes link play, board images and PvP lobbies over HTTP.
type Server struct {
	cfg  *config.AppConfig
	deps *checkersbuilder.Deps
	fmt  *checkerspresenter.Formatter
	log  *zap.Logger

	// renderSlots bounds PNG renders in flight.
	renderSlots chan struct{}
	routes      map[string]route
	srv         *fasthttp.Server
}

func New(cfg *config.AppConfig, deps *checkersbuilder.Deps) *Server {
	slots := cfg.MaxConcurrentGames
	if slots <= 0 {
		slots = 1
	}
	s := &Server{
		cfg:         cfg,
		deps:        deps,
		fmt:         deps.Formatter,
		log:         obslog.Named("http"),
		renderSlots: make(chan struct{}, slots),
	}
	s.routes = s.buildRoutes()
	s.srv = &fasthttp.Server{
		Handler:      s.Handler(),
		Name:         "checkers-link",
		ReadTimeout:  requestTimeout,
		WriteTimeout: requestTimeout,
	}
	return s
}

// Handler returns the routed handler wrapped with request logging.
func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		s.route(ctx)
		s.log.Info("http_request",
			zap.String("method", string(ctx.Method())),
			zap.String("path", string(ctx.Path())),
			zap.Int("status", ctx.Response.StatusCode()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

type route struct {
	post bool
	h    fasthttp.RequestHandler
}

func (s *Server) buildRoutes() map[string]route {
	return map[string]route{
		"/healthz":                  {h: s.health},
		"/v1/link/new":              {h: s.linkNew},
		"/v1/link/move":             {post: true, h: s.linkMove},
		"/v1/link/board.png":        {h: s.linkBoardPNG},
		"/v1/link/text":             {h: s.linkText},
		"/v1/link/destinations":     {h: s.linkDestinations},
		"/v1/pvp/lobby":             {h: s.lobby},
		"/v1/pvp/lobby/join":        {post: true, h: s.lobbyJoin},
		"/v1/pvp/challenge":         {h: s.challenge},
		"/v1/pvp/challenge/accept":  {post: true, h: s.challengeAccept},
		"/v1/pvp/challenge/decline": {post: true, h: s.challengeDecline},
		"/v1/pvp/game":              {h: s.pvpGame},
		"/v1/pvp/board.png":         {h: s.pvpBoardPNG},
		"/v1/pvp/move":              {post: true, h: s.pvpMove},
		"/v1/pvp/resign":            {post: true, h: s.pvpResign},
		"/v1/pvp/history":           {h: s.pvpHistory},
	}
}

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	r, ok := s.routes[string(ctx.Path())]
	if !ok {
		ctx.Error("not found", fasthttp.StatusNotFound)
		return
	}
	if r.post && !ctx.IsPost() {
		ctx.Response.Header.Set("Allow", fasthttp.MethodPost)
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}
	if !r.post && !ctx.IsGet() && !ctx.IsPost() {
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}
	r.h(ctx)
}

func (s *Server) ListenAndServe() error {
	s.log.Info("http_listen", zap.String("addr", s.cfg.HTTPAddr))
	return s.srv.ListenAndServe(s.cfg.HTTPAddr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.ShutdownWithContext(ctx)
}

func (s *Server) health(ctx *fasthttp.RequestCtx) {
	if s.deps.Redis != nil {
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.deps.Redis.Ping(rctx).Err(); err != nil {
			ctx.Error("redis unavailable", fasthttp.StatusServiceUnavailable)
			return
		}
	}
	ctx.SetContentType("text/plain; charset=utf-8")
	ctx.SetBodyString("ok")
}

// acquireRender takes a render slot or reports false when all are busy.
func (s *Server) acquireRender() (release func(), ok bool) {
	select {
	case s.renderSlots <- struct{}{}:
		return func() { <-s.renderSlots }, true
	default:
		return nil, false
	}
}
