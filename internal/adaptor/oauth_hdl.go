package adaptor

import (
	"fmt"
	"net/http"
	"net/url"

	"goride/internal/usecase"
	"goride/pkg/oauth"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// GoogleHandler drives the Google sign-in redirect and callback. Success
// hands a token back to the frontend via query string, every failure lands
// on the frontend login page.
type GoogleHandler struct {
	service     usecase.AuthService
	oauthConfig *oauth2.Config
	frontendURL string
	log         *zap.Logger
}

func NewGoogleHandler(service usecase.AuthService, oauthConfig *oauth2.Config, frontendURL string, log *zap.Logger) *GoogleHandler {
	return &GoogleHandler{
		service:     service,
		oauthConfig: oauthConfig,
		frontendURL: frontendURL,
		log:         log,
	}
}

// Redirect handles GET /api/auth/google
func (h *GoogleHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	state := oauth.SetStateCookie(w)
	http.Redirect(w, r, h.oauthConfig.AuthCodeURL(state), http.StatusFound)
}

// Callback handles GET /api/auth/google/callback
func (h *GoogleHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if !oauth.VerifyState(r) {
		h.log.Warn("OAuth state mismatch", zap.String("ip", r.RemoteAddr))
		h.redirectFailure(w, r)
		return
	}

	profile, err := oauth.FetchProfile(r.Context(), h.oauthConfig, r.FormValue("code"))
	if err != nil {
		h.log.Error("Failed to fetch google profile", zap.Error(err))
		h.redirectFailure(w, r)
		return
	}

	response, err := h.service.LoginWithGoogle(r.Context(), profile)
	if err != nil {
		h.log.Warn("Google login rejected", zap.Error(err))
		h.redirectFailure(w, r)
		return
	}

	target := fmt.Sprintf("%s/login?token=%s", h.frontendURL, url.QueryEscape(response.Token))
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *GoogleHandler) redirectFailure(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.frontendURL+"/login", http.StatusFound)
}
