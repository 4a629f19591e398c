package handlers

import (
	"net/http"
	"time"

	"travelplanner/internal/domain/models"
	"travelplanner/internal/http/middleware"
	"travelplanner/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const oauthStateCookie = "oauth_state"

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

type sessionResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Account   models.Account `json:"account"`
}

// POST /api/auth/signup
func (h *Handler) SignUp(c *gin.Context) {
	var req signUpRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	id, err := h.accountService(c).SignUp(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// POST /api/auth/signin
func (h *Handler) SignIn(c *gin.Context) {
	var req signInRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	acc, err := h.accountService(c).SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	resp, ok := h.startSession(c, acc, req.Remember)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/auth/signout
func (h *Handler) SignOut(c *gin.Context) {
	h.setCookie(c, middleware.SessionCookie, "", -1)
	c.Status(http.StatusNoContent)
}

// GET /api/auth/oauth/:provider
func (h *Handler) OAuthRedirect(c *gin.Context) {
	p, ok := h.OAuth.Get(c.Param("provider"))
	if !ok {
		respondError(c, http.StatusNotFound, "unknown_provider", "oauth provider not configured", nil)
		return
	}
	state := uuid.NewString()
	h.setCookie(c, oauthStateCookie, state, int((10 * time.Minute).Seconds()))
	c.Redirect(http.StatusFound, p.AuthCodeURL(state))
}

// GET /api/auth/oauth/:provider/callback
func (h *Handler) OAuthCallback(c *gin.Context) {
	p, ok := h.OAuth.Get(c.Param("provider"))
	if !ok {
		respondError(c, http.StatusNotFound, "unknown_provider", "oauth provider not configured", nil)
		return
	}
	want, err := c.Cookie(oauthStateCookie)
	if err != nil || want == "" || c.Query("state") != want {
		respondError(c, http.StatusBadRequest, "invalid_state", "oauth state mismatch", nil)
		return
	}
	h.setCookie(c, oauthStateCookie, "", -1)

	code := c.Query("code")
	if code == "" {
		respondError(c, http.StatusBadRequest, "missing_code", "authorization code missing", nil)
		return
	}
	profile, err := p.Exchange(c.Request.Context(), code)
	if err != nil {
		utils.LogError(middleware.GetRequestID(c), "oauth", "exchange_"+p.Name(), err)
		respondError(c, http.StatusBadGateway, "oauth_exchange_failed", "could not sign in with "+p.Name(), nil)
		return
	}
	acc, err := h.accountService(c).SignInOAuth(c.Request.Context(), profile)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if _, ok := h.startSession(c, acc, false); !ok {
		return
	}
	target := h.AfterLoginURL
	if target == "" {
		target = "/"
	}
	c.Redirect(http.StatusFound, target)
}

// GET /api/auth/me
func (h *Handler) Me(c *gin.Context) {
	acc, err := h.accountService(c).GetAccount(c.Request.Context(), middleware.GetCallerID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, acc)
}

func (h *Handler) startSession(c *gin.Context, acc models.Account, remember bool) (sessionResponse, bool) {
	token, expires, err := h.Sessions.Issue(acc.ID, remember)
	if err != nil {
		utils.LogError(middleware.GetRequestID(c), "auth", "issue_session", err)
		respondError(c, http.StatusInternalServerError, "internal_error", "internal server error", nil)
		return sessionResponse{}, false
	}
	maxAge := 0
	if remember {
		maxAge = int(time.Until(expires).Seconds())
	}
	h.setCookie(c, middleware.SessionCookie, token, maxAge)
	return sessionResponse{Token: token, ExpiresAt: expires, Account: acc}, true
}

func (h *Handler) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", h.CookieSecure, true)
}
