package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"promptbridge/internal/config"
	"promptbridge/internal/models"
	"promptbridge/internal/observability"
	"promptbridge/internal/provider"
	"promptbridge/internal/router"
	"promptbridge/internal/translator"
)

const (
	maxBodyBytes        = 4 << 20 // 4 MiB
	shutdownGracePeriod = 10 * time.Second
	readTimeout         = 30 * time.Second
	writeTimeout        = 30 * time.Second
	idleTimeout         = 120 * time.Second
)

type Server struct {
	cfg     config.Config
	router  *router.Router
	app     *echo.Echo
	address string
}

// New constructs an HTTP server wired with routing and middleware.
func New(cfg config.Config, rt *router.Router) (*Server, error) {
	if rt == nil {
		return nil, errors.New("router must not be nil")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = jsonErrorHandler

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogLatency: true,
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"error", v.Error,
			)
			observability.RequestsTotal.WithLabelValues(v.Method, c.Path(), observability.StatusClass(v.Status)).Inc()
			return nil
		},
	}))
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'; form-action 'none'",
	}))

	srv := &Server{
		cfg:     cfg,
		router:  rt,
		app:     e,
		address: fmt.Sprintf(":%d", cfg.Server.Port),
	}

	srv.registerRoutes()

	return srv, nil
}

// Handler exposes the routed echo instance.
func (s *Server) Handler() http.Handler {
	return s.app
}

// Run starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	printStartupBanner(s.cfg.Server.Port, s.router.Providers())
	slog.Info("starting server", "addr", s.address)

	httpServer := &http.Server{
		Addr:         s.address,
		Handler:      s.app,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.app.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		if err := s.app.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		slog.Info("server shutdown complete")
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) registerRoutes() {
	s.app.GET("/health", s.handleHealth)
	s.app.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.app.POST("/v1/providers/:provider/requests", s.handleBuildRequest)
	s.app.POST("/v1/providers/:provider/responses", s.handleExtractText)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "ok",
		"providers": s.router.Providers(),
	})
}

func (s *Server) handleBuildRequest(c echo.Context) error {
	var prompt models.Prompt
	if err := decodeRequestBody(c, &prompt); err != nil {
		return err
	}

	translation, err := s.router.BuildRequest(c.Param("provider"), prompt)
	if err != nil {
		return toHTTPError(err)
	}

	c.Response().Header().Set("X-Provider", translation.Provider)
	return c.JSONBlob(http.StatusOK, translation.Body)
}

type extractResponse struct {
	Provider string `json:"provider"`
	Text     string `json:"text"`
}

func (s *Server) handleExtractText(c echo.Context) error {
	body, err := readRawBody(c)
	if err != nil {
		return err
	}

	repair := false
	if raw := c.QueryParam("repair"); raw != "" {
		repair, err = strconv.ParseBool(raw)
		if err != nil {
			return requestError{
				Status:  http.StatusBadRequest,
				Message: fmt.Sprintf("repair must be a boolean, got %q", raw),
				Type:    "invalid_request_error",
			}
		}
	}

	extraction, err := s.router.ExtractText(c.Param("provider"), body, repair)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, extractResponse{
		Provider: extraction.Provider,
		Text:     extraction.Text,
	})
}

func decodeRequestBody[T any](c echo.Context, target *T) error {
	req := c.Request()
	defer req.Body.Close()

	req.Body = http.MaxBytesReader(c.Response(), req.Body, maxBodyBytes)

	decoder := json.NewDecoder(req.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return requestError{
				Status:  http.StatusBadRequest,
				Message: "request body is required",
				Type:    "invalid_request_error",
			}
		}
		return requestError{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("invalid JSON payload: %v", err),
			Type:    "invalid_request_error",
		}
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return requestError{
			Status:  http.StatusBadRequest,
			Message: "request body must contain a single JSON object",
			Type:    "invalid_request_error",
		}
	}
	return nil
}

func readRawBody(c echo.Context) ([]byte, error) {
	req := c.Request()
	defer req.Body.Close()

	body, err := io.ReadAll(http.MaxBytesReader(c.Response(), req.Body, maxBodyBytes))
	if err != nil {
		return nil, requestError{
			Status:  http.StatusRequestEntityTooLarge,
			Message: fmt.Sprintf("read request body: %v", err),
			Type:    "invalid_request_error",
		}
	}
	if len(body) == 0 {
		return nil, requestError{
			Status:  http.StatusBadRequest,
			Message: "request body is required",
			Type:    "invalid_request_error",
		}
	}
	return body, nil
}

type requestError struct {
	Status  int
	Message string
	Type    string
	Code    string
}

func (e requestError) Error() string {
	return e.Message
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code,omitempty"`
	} `json:"error"`
}

func writeError(c echo.Context, status int, message, errType, code string) error {
	var payload errorBody
	payload.Error.Message = message
	payload.Error.Type = errType
	payload.Error.Code = code
	return c.JSON(status, payload)
}

func jsonErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var reqErr requestError
	if errors.As(err, &reqErr) {
		_ = writeError(c, reqErr.Status, reqErr.Message, reqErr.Type, reqErr.Code)
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		_ = writeError(c, he.Code, http.StatusText(he.Code), "invalid_request_error", "")
		return
	}

	_ = writeError(c, http.StatusInternalServerError, "internal server error", "server_error", "")
}

func toHTTPError(err error) error {
	var reqErr requestError
	if errors.As(err, &reqErr) {
		return reqErr
	}

	switch {
	case errors.Is(err, translator.ErrMissingModel):
		return requestError{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
			Type:    "invalid_request_error",
			Code:    "model_missing",
		}
	case errors.Is(err, provider.ErrUnknownProvider):
		return requestError{
			Status:  http.StatusNotFound,
			Message: err.Error(),
			Type:    "not_found_error",
		}
	case errors.Is(err, provider.ErrUnsupportedOperation):
		return requestError{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
			Type:    "invalid_request_error",
			Code:    "unsupported_operation",
		}
	case errors.Is(err, translator.ErrEmptyResponse):
		return requestError{
			Status:  http.StatusUnprocessableEntity,
			Message: err.Error(),
			Type:    "upstream_error",
			Code:    "empty_response",
		}
	case errors.Is(err, translator.ErrDecode):
		return requestError{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
			Type:    "invalid_request_error",
			Code:    "invalid_provider_response",
		}
	}

	slog.Error("translation failed", "err", err)
	return requestError{
		Status:  http.StatusInternalServerError,
		Message: "internal server error",
		Type:    "server_error",
	}
}

func printStartupBanner(port int, providers []string) {
	host := "127.0.0.1"
	fmt.Println()
	fmt.Println("promptbridge ready")
	fmt.Printf("Listening on http://%s:%d\n", host, port)
	fmt.Printf("Providers: %v\n", providers)
	fmt.Println("Endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /metrics")
	fmt.Println("  POST /v1/providers/{provider}/requests")
	fmt.Println("  POST /v1/providers/{provider}/responses")
	fmt.Printf("Example:\n  curl http://%s:%d/v1/providers/anthropic/requests -H 'Content-Type: application/json' -d '{\"model\":\"claude-sonnet-4\",\"messages\":[{\"role\":\"user\",\"content\":\"hello\"}]}'\n\n", host, port)
}
