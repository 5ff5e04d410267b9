package teams

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/teamhome/pkg/teamhome/apperr"
	"github.com/mikepea/teamhome/pkg/teamhome/auth"
	"github.com/mikepea/teamhome/pkg/teamhome/billing"
)

// Handler handles team-related requests
type Handler struct {
	service *Service
}

// NewHandler creates a new teams handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateTeamRequest represents the request to create a team
type CreateTeamRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateTeamRequest represents the request to update a team
type UpdateTeamRequest struct {
	Name *string `json:"name"`
}

// InviteRequest represents the request to invite a user by email or phone
type InviteRequest struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// PremiumRequest represents the request to upgrade a team to premium
type PremiumRequest struct {
	Source         string `json:"source" binding:"required"`
	Charge         int64  `json:"charge" binding:"required"`
	IdempotencyKey string `json:"idempotency_key"`
}

func parseID(c *gin.Context, name, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + label})
		return 0, false
	}
	return uint(id), true
}

// List returns the teams the current user is on
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	teams, err := h.service.FindByUser(c.Request.Context(), userID)
	if err != nil {
		apperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, teams)
}

// ListAll returns every team
func (h *Handler) ListAll(c *gin.Context) {
	teams, err := h.service.List(c.Request.Context())
	if err != nil {
		apperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, teams)
}

// Get returns a single team
func (h *Handler) Get(c *gin.Context) {
	teamID, ok := parseID(c, "id", "team ID")
	if !ok {
		return
	}

	team, err := h.service.Find(c.Request.Context(), teamID)
	if err != nil {
		apperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// Create creates a new team with the current user as admin
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, err := h.service.Create(c.Request.Context(), userID, CreateInput{Name: req.Name})
	if err != nil {
		apperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusCreated, team)
}

// Update updates a team (admin only)
func (h *Handler) Update(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	teamID, ok := parseID(c, "id", "team ID")
	if !ok {
		return
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, err := h.service.Update(c.Request.Context(), teamID, userID, UpdateInput{Name: req.Name})
	if err != nil {
		apperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// Delete deletes a team and everything in it (admin only)
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	teamID, ok := parseID(c, "id", "team ID")
	if !ok {
		return
	}

	team, err := h.service.Delete(c.Request.Context(), teamID, userID)
	if err != nil {
		apperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// Invite adds users matching an email or phone number to the team
func (h *Handler) Invite(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	teamID, ok := parseID(c, "id", "team ID")
	if !ok {
		return
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, err := h.service.Invite(c.Request.Context(), teamID, userID, InviteInput{
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		apperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// Kick removes a member from the team (admin only)
func (h *Handler) Kick(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	teamID, ok := parseID(c, "id", "team ID")
	if !ok {
		return
	}
	memberID, ok := parseID(c, "userId", "user ID")
	if !ok {
		return
	}

	team, err := h.service.Kick(c.Request.Context(), teamID, userID, memberID)
	if err != nil {
		apperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// Leave removes the current user from the team
func (h *Handler) Leave(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	teamID, ok := parseID(c, "id", "team ID")
	if !ok {
		return
	}

	team, err := h.service.Leave(c.Request.Context(), teamID, userID)
	if err != nil {
		apperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// Premium charges the payment source and upgrades the team
func (h *Handler) Premium(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	teamID, ok := parseID(c, "id", "team ID")
	if !ok {
		return
	}

	var req PremiumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key := req.IdempotencyKey
	if key == "" {
		key = c.GetHeader("Idempotency-Key")
	}

	team, err := h.service.UpgradeToPremium(c.Request.Context(), teamID, userID, billing.UpgradeInput{
		Source:         req.Source,
		Amount:         req.Charge,
		IdempotencyKey: key,
	})
	if err != nil {
		apperr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// RegisterRoutes registers team routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/all", h.ListAll)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/invite", h.Invite)
	rg.POST("/:id/leave", h.Leave)
	rg.POST("/:id/premium", h.Premium)
	rg.DELETE("/:id/members/:userId", h.Kick)
}
