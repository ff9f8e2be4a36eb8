package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/totegamma/brandproof"
	"github.com/totegamma/brandproof/internal/domain"
	"github.com/totegamma/brandproof/internal/present/rest/middleware"
	"github.com/totegamma/brandproof/internal/present/rest/presenter"
	"github.com/totegamma/brandproof/internal/service"
	"github.com/totegamma/brandproof/internal/usecase"
	"github.com/totegamma/brandproof/policy"
)

// Realtime streams proof events of the given brands into output.
type Realtime interface {
	Realtime(ctx context.Context, brands []string, output chan<- brandproof.ProofEvent)
}

// Invalidator drops cached configuration of a brand.
type Invalidator interface {
	Invalidate(ctx context.Context, brand string)
}

type Handler struct {
	validate *usecase.ValidateUsecase
	auth     *middleware.AuthMiddleware
	signal   Realtime
	cache    Invalidator
}

// NewHandler builds the REST handler. signal and cache may be nil when
// no realtime feed or configuration cache is set up.
func NewHandler(
	validate *usecase.ValidateUsecase,
	auth *service.AuthService,
	signal Realtime,
	cache Invalidator,
) *Handler {
	return &Handler{
		validate: validate,
		auth:     middleware.NewAuthMiddleware(auth),
		signal:   signal,
		cache:    cache,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.handleHealth)

	g := e.Group("", h.auth.RequireToken)
	g.GET("/rules", h.handleRules)
	g.GET("/banks/:brand", h.handleBanks)
	g.DELETE("/banks/:brand/cache", h.handleInvalidate)
	g.POST("/validate", h.handleValidate)
	g.GET("/proofs/:brand/:week", h.handleLedger)
	g.POST("/verify", h.handleVerify)
	g.GET("/realtime", h.handleRealtime)
}

func (h *Handler) handleHealth(c echo.Context) error {
	return presenter.OK(c, echo.Map{"ok": true})
}

func (h *Handler) handleRules(c echo.Context) error {
	return presenter.OK(c, echo.Map{"rules": policy.RuleNames()})
}

func (h *Handler) handleInvalidate(c echo.Context) error {
	if h.cache == nil {
		return presenter.Unavailable(c, "configuration cache not configured")
	}
	brand := c.Param("brand")
	h.cache.Invalidate(c.Request().Context(), brand)
	return presenter.OK(c, echo.Map{"brand": brand, "invalidated": true})
}

func (h *Handler) handleBanks(c echo.Context) error {
	ctx := c.Request().Context()
	brand := c.Param("brand")

	cfg, err := h.validate.Brand(ctx, brand)
	if err != nil {
		if errors.Is(err, domain.ErrConfigNotFound) {
			return presenter.NotFound(c, err.Error())
		}
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, echo.Map{"brand": brand, "keys": cfg.Keys()})
}

func (h *Handler) handleValidate(c echo.Context) error {
	ctx := c.Request().Context()

	var bundle brandproof.Bundle
	if err := c.Bind(&bundle); err != nil {
		return presenter.BadRequest(c, err)
	}
	if err := bundle.Validate(); err != nil {
		return presenter.BadRequest(c, err)
	}

	result, err := h.validate.Validate(ctx, bundle)
	if err != nil {
		if errors.Is(err, domain.ErrConfigNotFound) {
			return presenter.NotFound(c, err.Error())
		}
		return presenter.InternalError(c, err)
	}

	if !result.Valid {
		return presenter.OK(c, echo.Map{
			"valid":       false,
			"errors":      result.Errors,
			"suggestions": echo.Map{},
		})
	}
	return presenter.OK(c, echo.Map{
		"valid":             true,
		"sha256":            result.SHA256,
		"proof_file":        result.ProofFile,
		"normalized_bundle": result.NormalizedBundle,
	})
}

func (h *Handler) handleLedger(c echo.Context) error {
	ctx := c.Request().Context()

	ledger, err := h.validate.Ledger(ctx, c.Param("brand"), c.Param("week"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConfigNotFound), errors.Is(err, domain.ErrLedgerNotFound):
			return presenter.NotFound(c, err.Error())
		case errors.Is(err, domain.ErrInvalidWeek):
			return presenter.BadRequest(c, err)
		default:
			return presenter.InternalError(c, err)
		}
	}
	return presenter.OK(c, ledger)
}

type verifyRequest struct {
	Brand  string `json:"brand"`
	Week   string `json:"week"`
	SHA256 string `json:"sha256"`
}

func (h *Handler) handleVerify(c echo.Context) error {
	ctx := c.Request().Context()

	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}
	if req.Brand == "" || req.Week == "" || req.SHA256 == "" {
		return presenter.BadRequest(c, fmt.Errorf("brand, week and sha256 are required"))
	}

	recorded, err := h.validate.Verify(ctx, req.Brand, req.Week, req.SHA256)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConfigNotFound):
			return presenter.NotFound(c, err.Error())
		case errors.Is(err, domain.ErrInvalidWeek):
			return presenter.BadRequest(c, err)
		default:
			return presenter.InternalError(c, err)
		}
	}
	return presenter.OK(c, echo.Map{"recorded": recorded})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) handleRealtime(c echo.Context) error {
	if h.signal == nil {
		return presenter.Unavailable(c, "realtime feed not configured")
	}
	brands := c.QueryParams()["brand"]
	if len(brands) == 0 {
		return presenter.BadRequest(c, fmt.Errorf("at least one brand is required"))
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	events := make(chan brandproof.ProofEvent)
	go h.signal.Realtime(ctx, brands, events)

	// The client never sends anything meaningful; reading detects close.
	go func() {
		defer cancel()
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				var closeErr *websocket.CloseError
				if errors.As(err, &closeErr) && (closeErr.Code == websocket.CloseNormalClosure || closeErr.Code == websocket.CloseGoingAway) {
					return
				}
				slog.DebugContext(ctx, "WebSocket closed", slog.String("error", err.Error()), slog.String("module", "socket"))
				return
			}
		}
	}()

	for event := range events {
		if err := ws.WriteJSON(event); err != nil {
			slog.ErrorContext(
				ctx, "Error writing message",
				slog.String("error", err.Error()),
				slog.String("module", "socket"),
			)
			return nil
		}
	}
	return nil
}
