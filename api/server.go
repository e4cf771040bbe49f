// Package api exposes the analytics pipeline over HTTP. Handlers are thin:
// parse query params, call the pipeline, map errors. Insufficient history is
// a normal answer for a freshly started collector, so it comes back as a 200
// with an error field rather than a failure status.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pairs-analytics-go/analytics"
	"pairs-analytics-go/market"
	"pairs-analytics-go/pipeline"
)

// Server serves the analytics API.
type Server struct {
	pipe    *pipeline.Pipeline
	buffers *market.Registry
	log     *zap.Logger
	engine  *gin.Engine
}

// New builds the server and registers all routes.
func New(pipe *pipeline.Pipeline, buffers *market.Registry, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{pipe: pipe, buffers: buffers, log: log, engine: engine}

	engine.GET("/healthz", s.health)
	engine.GET("/alert/zscore", handle(s, (*pipeline.Pipeline).ZScoreAlert))
	engine.GET("/analytics/spread", handle(s, (*pipeline.Pipeline).SpreadZScore))
	engine.GET("/analytics/adf", handle(s, (*pipeline.Pipeline).ADF))
	engine.GET("/analytics/hedge_ratio", handle(s, (*pipeline.Pipeline).HedgeRatioSeries))
	engine.GET("/analytics/signal-quality", handle(s, (*pipeline.Pipeline).SignalQuality))
	engine.GET("/analytics/signal-confidence", handle(s, (*pipeline.Pipeline).SignalConfidence))
	engine.GET("/analytics/trade-permission", handle(s, (*pipeline.Pipeline).TradePermission))
	engine.GET("/analytics/backtest", handle(s, (*pipeline.Pipeline).Backtest))

	return s
}

// Handler returns the http.Handler for mounting.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until the listener fails.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// handle adapts one pipeline method into a gin handler with the shared
// param parsing and error mapping.
func handle[T any](s *Server, fn func(*pipeline.Pipeline, pipeline.Params) (T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		params, err := parseParams(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := fn(s.pipe, params)
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func parseParams(c *gin.Context) (pipeline.Params, error) {
	params := pipeline.Params{
		SymbolY: c.Query("symbol_y"),
		SymbolX: c.Query("symbol_x"),
	}
	if params.SymbolY == "" || params.SymbolX == "" {
		return params, errors.New("symbol_y and symbol_x are required")
	}
	if v := c.Query("window"); v != "" {
		w, err := strconv.Atoi(v)
		if err != nil || w < 2 {
			return params, errors.New("window must be an integer >= 2")
		}
		params.Window = w
	}
	if v := c.Query("threshold"); v != "" {
		th, err := strconv.ParseFloat(v, 64)
		if err != nil || th <= 0 {
			return params, errors.New("threshold must be a positive number")
		}
		params.Threshold = th
	}
	return params, nil
}

func (s *Server) writeError(c *gin.Context, err error) {
	if errors.Is(err, analytics.ErrInsufficientData) {
		c.JSON(http.StatusOK, gin.H{"error": "Not enough data yet"})
		return
	}
	s.log.Error("analytics request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

type symbolHealth struct {
	Ticks       int     `json:"ticks"`
	LastTickAge float64 `json:"last_tick_age_seconds"`
}

// health reports per-symbol buffer depth and staleness.
func (s *Server) health(c *gin.Context) {
	now := time.Now()
	symbols := make(map[string]symbolHealth)
	for _, sym := range s.buffers.Symbols() {
		b := s.buffers.Buffer(sym)
		h := symbolHealth{Ticks: b.Len(), LastTickAge: -1}
		if last, ok := b.LastTime(); ok {
			h.LastTickAge = now.Sub(last).Seconds()
		}
		symbols[sym] = h
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"symbols": symbols,
	})
}
