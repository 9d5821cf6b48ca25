package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/totegamma/fantalega/internal/domain"
	"github.com/totegamma/fantalega/internal/present/rest/middleware"
	"github.com/totegamma/fantalega/internal/present/rest/presenter"
	"github.com/totegamma/fantalega/internal/service"
	"github.com/totegamma/fantalega/internal/usecase"
)

// ViewRenderer serves rendered views through the view cache.
type ViewRenderer interface {
	Fetch(ctx context.Context, path string, fill func() ([]byte, error)) ([]byte, error)
}

// EventSource streams view events until ctx is done.
type EventSource interface {
	Realtime(ctx context.Context, output chan<- domain.ViewEvent)
}

type Handler struct {
	sessions *service.SessionStore
	auth     *middleware.AuthMiddleware
	admin    *usecase.AdminUsecase
	team     *usecase.TeamUsecase
	push     *usecase.PushUsecase
	users    usecase.UserSessionSource
	views    ViewRenderer
	signal   EventSource
}

func NewHandler(
	sessions *service.SessionStore,
	auth *middleware.AuthMiddleware,
	admin *usecase.AdminUsecase,
	team *usecase.TeamUsecase,
	push *usecase.PushUsecase,
	users usecase.UserSessionSource,
	views ViewRenderer,
	signal EventSource,
) *Handler {
	return &Handler{
		sessions: sessions,
		auth:     auth,
		admin:    admin,
		team:     team,
		push:     push,
		users:    users,
		views:    views,
		signal:   signal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.handleHealthz)
	e.GET("/realtime", h.handleRealtime)

	e.POST("/admin/login", h.handleAdminLogin)
	e.POST("/admin/logout", h.handleAdminLogout)
	e.POST("/logout", h.handleLogout)

	e.GET("/admin", h.handleAdminHome, h.auth.IdentifyIdentity, h.auth.RequireAdminPage)

	api := e.Group("/api")
	api.GET("/teams", h.handleTeams, h.auth.IdentifyIdentity, h.auth.RequireIdentity)
	api.GET("/teams/:id", h.handleTeam, h.auth.IdentifyIdentity, h.auth.RequireIdentity)
	api.GET("/me/team", h.handleMyTeam, h.auth.IdentifyIdentity, h.auth.RequireIdentity)
	api.POST("/teams/:id/logo", h.handleUpdateLogo, h.auth.IdentifyIdentity)
	api.POST("/push/subscribe", h.handlePushSubscribe, h.auth.IdentifyIdentity)
	api.GET("/push/subscriptions", h.handlePushSubscriptions, h.auth.IdentifyIdentity)
}

func (h *Handler) handleHealthz(c echo.Context) error {
	return presenter.OK(c, echo.Map{"status": "ok"})
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (h *Handler) handleAdminLogin(c echo.Context) error {
	ctx := c.Request().Context()

	var req loginRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid login request")
	}

	token, err := h.admin.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return presenter.Unauthorized(c, domain.ErrInvalidCredentials.Error())
		}
		return presenter.InternalError(c, err)
	}

	h.sessions.SetAdmin(c.Response(), token)
	return presenter.SeeOther(c, domain.RedirectAdminHome)
}

func (h *Handler) handleAdminLogout(c echo.Context) error {
	h.sessions.ClearAdmin(c.Response())
	return presenter.SeeOther(c, domain.RedirectAdminLogin)
}

// handleLogout ends the end-user session. The cookie is cleared even when
// the backend revocation fails.
func (h *Handler) handleLogout(c echo.Context) error {
	ctx := c.Request().Context()

	tokens := h.sessions.Tokens(c.Request())
	if tokens.User != "" && h.users != nil {
		err := h.users.Revoke(ctx, tokens.User)
		if err != nil {
			slog.WarnContext(
				ctx, "failed to revoke user session",
				slog.String("error", err.Error()),
				slog.String("module", "session"),
			)
		}
	}

	h.sessions.ClearUser(c.Response())
	return presenter.SeeOther(c, domain.RedirectUserLogin)
}

func (h *Handler) handleAdminHome(c echo.Context) error {
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleTeams(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := h.views.Fetch(ctx, domain.ViewHome, func() ([]byte, error) {
		teams, err := h.team.List(ctx)
		if err != nil {
			return nil, err
		}
		if teams == nil {
			teams = []domain.Team{}
		}
		return json.Marshal(teams)
	})
	if err != nil {
		return presenter.Error(c, err)
	}

	return presenter.JSONBlob(c, body)
}

func (h *Handler) handleTeam(c echo.Context) error {
	ctx := c.Request().Context()

	team, err := h.team.Get(ctx, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, team)
}

func (h *Handler) handleMyTeam(c echo.Context) error {
	ctx := c.Request().Context()

	team, err := h.team.Mine(ctx, domain.IdentityFromContext(ctx))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, team)
}

type logoRequest struct {
	LogoURL    *string         `json:"logoUrl"`
	LogoConfig json.RawMessage `json:"logoConfig"`
}

func (h *Handler) handleUpdateLogo(c echo.Context) error {
	ctx := c.Request().Context()

	var req logoRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.Failure(c, &domain.ValidationError{Field: "body", Msg: "must be a JSON object with logoUrl and logoConfig"})
	}

	err = h.team.UpdateLogo(ctx, domain.IdentityFromContext(ctx), domain.TeamLogoUpdate{
		TeamID:     c.Param("id"),
		LogoURL:    req.LogoURL,
		LogoConfig: req.LogoConfig,
	})
	if err != nil {
		return presenter.Failure(c, err)
	}

	return presenter.Success(c)
}

func (h *Handler) handlePushSubscribe(c echo.Context) error {
	ctx := c.Request().Context()

	// one byte past the limit is enough for Register to reject it
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, usecase.MaxSubscriptionBytes+1))
	if err != nil {
		return presenter.BadRequestMessage(c, "failed to read request body")
	}

	err = h.push.Register(ctx, domain.IdentityFromContext(ctx), body)
	if err != nil {
		return presenter.Error(c, err)
	}

	return presenter.Success(c)
}

func (h *Handler) handlePushSubscriptions(c echo.Context) error {
	ctx := c.Request().Context()

	subs, err := h.push.List(ctx, domain.IdentityFromContext(ctx))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, subs)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleRealtime pushes a ViewEvent to the client whenever a view goes
// stale. Client messages are read only to notice the close.
func (h *Handler) handleRealtime(c echo.Context) error {
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

	output := make(chan domain.ViewEvent)
	go h.signal.Realtime(ctx, output)

	quit := make(chan struct{}, 1)

	go func() {
		for {
			_, _, err := ws.ReadMessage()
			if err != nil {
				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else if ctx.Err() == nil {
					slog.DebugContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}
				quit <- struct{}{}
				return
			}
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case <-ctx.Done():
			return nil
		case event := <-output:
			err := ws.WriteJSON(event)
			if err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}
