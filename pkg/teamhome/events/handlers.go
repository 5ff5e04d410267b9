package events

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/teamhome/pkg/teamhome/apperr"
	"github.com/mikepea/teamhome/pkg/teamhome/auth"
	"github.com/mikepea/teamhome/pkg/teamhome/models"
)

// Handler handles event feed requests
type Handler struct {
	service *Service
}

// NewHandler creates a new events handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// AddEventRequest represents the request to add an event
type AddEventRequest struct {
	TeamID        uint   `json:"team_id" binding:"required"`
	ActionString  string `json:"action_string" binding:"required"`
	ObjectString  string `json:"object_string" binding:"required"`
	EventTargetID uint   `json:"event_target_id"`
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		apperr.JSON(c, apperr.New(apperr.InvalidInput, "Invalid "+name))
		return 0, false
	}
	return uint(id), true
}

func respond(c *gin.Context, status int, body interface{}, err error) {
	if err != nil {
		apperr.JSON(c, err)
		return
	}
	c.JSON(status, body)
}

// List returns the events of the current user's teams, newest first
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	events, err := h.service.List(c.Request.Context(), userID)
	respond(c, http.StatusOK, events, err)
}

// Get returns one event
func (h *Handler) Get(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	event, err := h.service.Get(c.Request.Context(), id, userID)
	respond(c, http.StatusOK, event, err)
}

// ListByTeam returns a team's events
func (h *Handler) ListByTeam(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	teamID, ok := parseID(c, "teamId")
	if !ok {
		return
	}
	events, err := h.service.ListByTeam(c.Request.Context(), teamID, userID)
	respond(c, http.StatusOK, events, err)
}

// ListByUser returns the events a user performed in teams shared with the caller
func (h *Handler) ListByUser(c *gin.Context) {
	viewerID, _ := auth.GetUserID(c)
	actorID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	events, err := h.service.ListByUser(c.Request.Context(), actorID, viewerID)
	respond(c, http.StatusOK, events, err)
}

// Add appends an event performed by the current user
func (h *Handler) Add(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req AddEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.JSON(c, apperr.New(apperr.InvalidInput, err.Error()))
		return
	}

	event, err := h.service.Add(c.Request.Context(), userID, RecordInput{
		TeamID:   req.TeamID,
		Action:   models.EventAction(req.ActionString),
		Object:   models.EventObject(req.ObjectString),
		TargetID: req.EventTargetID,
	})
	respond(c, http.StatusCreated, event, err)
}

// Delete removes an event and returns it
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	event, err := h.service.Delete(c.Request.Context(), id, userID)
	respond(c, http.StatusOK, event, err)
}

// RegisterRoutes registers event routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Add)
	rg.GET("/:id", h.Get)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/team/:teamId", h.ListByTeam)
	rg.GET("/user/:userId", h.ListByUser)
}
