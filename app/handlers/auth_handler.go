package handlers

import (
	"net/http"

	"github.com/Rakhulsr/catalog-api/app/helpers"
	"github.com/Rakhulsr/catalog-api/app/repositories"
	"github.com/Rakhulsr/catalog-api/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

const (
	MsgNoRefreshToken = "No refresh token provided"
	MsgUserGone       = "User no longer exists"
	MsgInvalidToken   = "Invalid or expired token"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

type CookieSettings struct {
	Secure      bool
	RefreshPath string
}

type AuthHandler struct {
	verifier  *services.CredentialVerifier
	tokens    *services.TokenService
	users     repositories.AdminUserRepositoryImpl
	resp      *helpers.Responder
	validator *validator.Validate
	cookies   CookieSettings
	log       zerolog.Logger
}

func NewAuthHandler(
	verifier *services.CredentialVerifier,
	tokens *services.TokenService,
	users repositories.AdminUserRepositoryImpl,
	resp *helpers.Responder,
	validate *validator.Validate,
	cookies CookieSettings,
	log zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		verifier:  verifier,
		tokens:    tokens,
		users:     users,
		resp:      resp,
		validator: validate,
		cookies:   cookies,
		log:       log,
	}
}

func (h *AuthHandler) setSessionCookies(w http.ResponseWriter, id helpers.Identity) error {
	access, err := h.tokens.IssueAccessToken(id)
	if err != nil {
		return err
	}
	refresh, err := h.tokens.IssueRefreshToken(id)
	if err != nil {
		return err
	}

	helpers.SetCookie(w, helpers.AccessTokenCookie, access, h.tokens.TTL(services.AccessToken),
		helpers.CookieOptions{Path: "/", Secure: h.cookies.Secure})
	helpers.SetCookie(w, helpers.RefreshTokenCookie, refresh, h.tokens.TTL(services.RefreshToken),
		helpers.CookieOptions{Path: h.cookies.RefreshPath, Secure: h.cookies.Secure})
	return nil
}

func (h *AuthHandler) clearSessionCookies(w http.ResponseWriter) {
	helpers.ClearCookie(w, helpers.AccessTokenCookie, helpers.CookieOptions{Path: "/", Secure: h.cookies.Secure})
	helpers.ClearCookie(w, helpers.RefreshTokenCookie, helpers.CookieOptions{Path: h.cookies.RefreshPath, Secure: h.cookies.Secure})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) error {
	var req LoginRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		return err
	}
	if err := helpers.ValidateStruct(h.validator, &req); err != nil {
		return err
	}

	user, err := h.verifier.Verify(r.Context(), req.Username, req.Password)
	if err != nil {
		if helpers.IsStatus(err, http.StatusUnauthorized) {
			h.log.Warn().Str("username", req.Username).Str("remote", r.RemoteAddr).Msg("failed login")
		}
		return err
	}

	identity := helpers.Identity{UserID: user.ID, Username: user.Username}
	if err := h.setSessionCookies(w, identity); err != nil {
		return err
	}

	h.log.Info().Uint("user_id", user.ID).Msg("admin logged in")
	h.resp.OK(w, identity, "Login successful")
	return nil
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) error {
	h.clearSessionCookies(w)
	h.resp.Message(w, "Logged out successfully")
	return nil
}

// Refresh re-checks that the admin still exists before rotating both tokens.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) error {
	token, err := helpers.GetCookie(r, helpers.RefreshTokenCookie)
	if err != nil || token == "" {
		return helpers.NewUnauthorized(MsgNoRefreshToken)
	}

	claims, err := h.tokens.Verify(token, services.RefreshToken)
	if err != nil {
		return helpers.NewUnauthorized(MsgInvalidToken)
	}

	user, err := h.users.FindByID(r.Context(), claims.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		h.clearSessionCookies(w)
		return helpers.NewUnauthorized(MsgUserGone)
	}

	if err := h.setSessionCookies(w, helpers.Identity{UserID: user.ID, Username: user.Username}); err != nil {
		return err
	}
	h.resp.Message(w, "Token refreshed")
	return nil
}
