package oidc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mikepea/teamhome/pkg/teamhome/auth"
	"github.com/mikepea/teamhome/pkg/teamhome/models"
	"github.com/mikepea/teamhome/pkg/teamhome/store"
	"go.uber.org/zap"
)

// Handler handles Auth0 login requests
type Handler struct {
	users         *store.UserStore
	authn         Authenticator
	returnOrigins map[string]bool
	logger        *zap.Logger
}

var errEmailUnverified = errors.New("email not verified")

// StateData round-trips through the provider in the state parameter
type StateData struct {
	ReturnURL string `json:"return_url"`
	Nonce     string `json:"nonce"`
}

// NewHandler creates a new OIDC handler. A login may only redirect to a
// URL on one of returnOrigins ("https://app.example.com").
func NewHandler(users *store.UserStore, authn Authenticator, returnOrigins []string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	allowed := make(map[string]bool, len(returnOrigins))
	for _, o := range returnOrigins {
		allowed[strings.ToLower(strings.TrimRight(o, "/"))] = true
	}
	return &Handler{users: users, authn: authn, returnOrigins: allowed, logger: logger}
}

// returnURL parses raw and checks it points at an allowed origin
func (h *Handler) returnURL(raw string) (*url.URL, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.User != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return nil, false
	}
	return u, h.returnOrigins[strings.ToLower(u.Scheme+"://"+u.Host)]
}

// AuthURLRequest represents a request for an auth URL
type AuthURLRequest struct {
	ReturnURL string `json:"return_url"`
}

// GetAuthURL returns the Auth0 authorization URL
func (h *Handler) GetAuthURL(c *gin.Context) {
	var req AuthURLRequest
	c.ShouldBindJSON(&req)
	if req.ReturnURL != "" {
		if _, ok := h.returnURL(req.ReturnURL); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid return URL"})
			return
		}
	}

	stateData := StateData{
		ReturnURL: req.ReturnURL,
		Nonce:     uuid.NewString(),
	}
	stateJSON, _ := json.Marshal(stateData)
	state := base64.URLEncoding.EncodeToString(stateJSON)

	c.JSON(http.StatusOK, gin.H{"auth_url": h.authn.AuthCodeURL(state, stateData.Nonce)})
}

// Callback handles the Auth0 redirect back to us
func (h *Handler) Callback(c *gin.Context) {
	stateJSON, err := base64.URLEncoding.DecodeString(c.Query("state"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid state"})
		return
	}

	var stateData StateData
	if err := json.Unmarshal(stateJSON, &stateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid state"})
		return
	}

	var returnTo *url.URL
	if stateData.ReturnURL != "" {
		u, ok := h.returnURL(stateData.ReturnURL)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid return URL"})
			return
		}
		returnTo = u
	}

	code := c.Query("code")
	if code == "" {
		errorDesc := c.Query("error_description")
		if errorDesc == "" {
			errorDesc = c.Query("error")
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authentication failed: " + errorDesc})
		return
	}

	identity, err := h.authn.Exchange(c.Request.Context(), code)
	if err != nil {
		h.logger.Warn("auth0 code exchange failed", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to verify identity"})
		return
	}

	if identity.Nonce != stateData.Nonce {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid nonce"})
		return
	}

	if identity.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email not provided by identity provider"})
		return
	}

	user, err := h.findOrCreateUser(c.Request.Context(), identity)
	if errors.Is(err, errEmailUnverified) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Email address is not verified"})
		return
	}
	if err != nil {
		h.logger.Error("failed to provision auth0 user", zap.String("subject", identity.Subject), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process user"})
		return
	}

	if !user.Active {
		c.JSON(http.StatusForbidden, gin.H{"error": "User account is deactivated"})
		return
	}

	resp, err := auth.IssueToken(*user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	if returnTo != nil {
		q := returnTo.Query()
		q.Set("token", resp.Token)
		returnTo.RawQuery = q.Encode()
		c.Redirect(http.StatusFound, returnTo.String())
		return
	}

	c.JSON(http.StatusOK, resp)
}

// findOrCreateUser resolves the Auth0 subject to a user, linking an
// existing account by email before creating a new one. Only a verified
// email links an account.
func (h *Handler) findOrCreateUser(ctx context.Context, identity *Identity) (*models.User, error) {
	user, err := h.users.FindByAuth0Subject(ctx, identity.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	user, err = h.users.FindByEmail(ctx, identity.Email)
	if err == nil {
		if !identity.EmailVerified {
			return nil, errEmailUnverified
		}
		user.Auth0Subject = identity.Subject
		if user.AvatarURL == "" {
			user.AvatarURL = identity.Picture
		}
		if err := h.users.Save(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	first, last := identity.GivenName, identity.FamilyName
	if first == "" && last == "" {
		first = identity.Name
	}
	if first == "" {
		first = strings.Split(identity.Email, "@")[0]
	}

	user = &models.User{
		Email:        identity.Email,
		FirstName:    first,
		LastName:     last,
		AvatarURL:    identity.Picture,
		Auth0Subject: identity.Subject,
		Active:       true,
	}
	if err := h.users.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// RegisterRoutes registers public Auth0 routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth0/auth", h.GetAuthURL)
	rg.GET("/callback", h.Callback)
}
