package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mediconnect/mediconnect/internal/auth"
	"github.com/mediconnect/mediconnect/internal/handler/dto"
	"github.com/mediconnect/mediconnect/internal/middleware"
	"github.com/mediconnect/mediconnect/internal/service"
)

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name string
	// Secure marks the cookie HTTPS-only and allows it cross-site
	// (SameSite=None), which credentialed CORS needs.
	Secure bool
}

// AccountHandler handles registration, login and session endpoints.
type AccountHandler struct {
	accounts *service.AccountService
	sessions *service.SessionService
	cookie   CookieConfig
	logger   *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts *service.AccountService, sessions *service.SessionService, cookie CookieConfig, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		sessions: sessions,
		cookie:   cookie,
		logger:   logger,
	}
}

// Register handles POST /register.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := h.accounts.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("user_registered", "user_id", id)

	writeJSON(w, http.StatusCreated, dto.MessageResponse{
		Message: "User registered successfully!",
		ID:      id,
	})
}

// Login handles POST /login.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	token, session, err := h.sessions.Start(r.Context(), *user)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.setCookie(w, token, session.ExpiresAt)
	h.logger.Info("user_logged_in", "user_id", user.ID, "session_id", session.ID)

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Message:   "Login successful!",
		User:      *user,
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	})
}

// Logout handles POST /logout. It succeeds with or without a session.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r, h.cookie.Name); token != "" {
		if err := h.sessions.End(r.Context(), token); err != nil {
			handleServiceError(w, r, h.logger, err)
			return
		}
	}

	if ac := auth.AuthFromContext(r.Context()); ac != nil {
		h.logger.Info("user_logged_out", "user_id", ac.User.ID, "session_id", ac.SessionID)
	}

	h.clearCookie(w)
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}

// Me handles GET /me. The summary is re-read so role changes show up
// without a new login.
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	current, err := h.accounts.Profile(r.Context(), user.ID)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MeResponse{User: *current})
}

func (h *AccountHandler) setCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, h.baseCookie(token, expires, int(time.Until(expires).Seconds())))
}

func (h *AccountHandler) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, h.baseCookie("", time.Unix(0, 0), -1))
}

func (h *AccountHandler) baseCookie(value string, expires time.Time, maxAge int) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if h.cookie.Secure {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: sameSite,
	}
}
