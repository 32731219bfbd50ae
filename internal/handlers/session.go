package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"shopfront/internal/events"
	"shopfront/internal/logging"
	"shopfront/internal/prompt"
	"shopfront/internal/session"
	"shopfront/internal/shopapi"
)

type SessionHandler struct {
	Sessions *session.Manager
	API      *shopapi.Client
	Prompts  *prompt.Recorder
	Producer *events.Producer
}

func (h *SessionHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "session.login")

	var req struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "error.invalidBody"})
	}
	if req.Login == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "error.credentialsRequired"})
	}

	pair, err := h.API.Authenticate(ctx, req.Login, req.Password)
	if err != nil {
		l.Warn("login_error", "error", err)
		return apiError(c, err)
	}

	h.Sessions.SetTokens(pair)
	h.Sessions.ScheduleExpiredPrompt()
	h.Sessions.ScheduleExtendPrompt()

	publish(c, h.Producer, req.Login, map[string]any{
		"type":  "user_signed_in",
		"login": req.Login,
	})

	l.Info("signed in", "login", req.Login)
	return c.JSON(http.StatusOK, echo.Map{
		"token":        pair.Token,
		"refreshToken": pair.RefreshToken,
		"login":        h.Sessions.Login(),
		"roles":        h.Sessions.Roles(),
	})
}

func (h *SessionHandler) Logout(c echo.Context) error {
	login := h.Sessions.Login()
	h.Sessions.Logout()

	publish(c, h.Producer, login, map[string]any{
		"type":  "user_signed_out",
		"login": login,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *SessionHandler) Extend(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "session.extend")

	pair, err := h.Sessions.ExtendSession(ctx)
	if err != nil {
		if errors.Is(err, session.ErrSessionReplaced) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "error.sessionReplaced"})
		}
		// Old token may still be valid until its original expiry; the
		// expired-prompt timer stays armed as the backstop.
		return apiError(c, err)
	}

	publish(c, h.Producer, h.Sessions.Login(), map[string]any{
		"type":  "session_extended",
		"login": h.Sessions.Login(),
	})

	l.Info("session extended")
	return c.JSON(http.StatusOK, pair)
}

// State is what page-level components poll: who is signed in, how long
// the token lasts, and any pending prompts.
func (h *SessionHandler) State(c echo.Context) error {
	signedIn := h.Sessions.IsUserSignedIn()
	resp := echo.Map{
		"signedIn": signedIn,
		"login":    h.Sessions.Login(),
		"locale":   h.Sessions.Locale(),
		"prompts":  h.Prompts.Snapshot(),
	}
	if signedIn {
		resp["roles"] = h.Sessions.Roles()
		resp["expiresIn"] = int64(h.Sessions.ExpiredDelay().Seconds())
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *SessionHandler) AcknowledgePrompts(c echo.Context) error {
	h.Prompts.Acknowledge()
	return c.NoContent(http.StatusNoContent)
}
