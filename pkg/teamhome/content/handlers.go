package content

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/teamhome/pkg/teamhome/apperr"
	"github.com/mikepea/teamhome/pkg/teamhome/auth"
)

// Handler handles team content requests
type Handler struct {
	service *Service
}

// NewHandler creates a new content handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateMessageRequest represents the request to post a message
type CreateMessageRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

// CreateDocumentRequest represents the request to add a document
type CreateDocumentRequest struct {
	Title    string `json:"title" binding:"required"`
	DocURL   string `json:"doc_url"`
	Content  string `json:"content"`
	FolderID *uint  `json:"folder_id"`
}

// CreateFolderRequest represents the request to add a folder
type CreateFolderRequest struct {
	Title string `json:"title" binding:"required"`
}

// CommentRequest represents the request to comment on a message or document
type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

func parseID(c *gin.Context, name, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + label})
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

// ListMessages returns the team's messages
func (h *Handler) ListMessages(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	teamID, ok := parseID(c, "id", "team ID")
	if !ok {
		return
	}
	messages, err := h.service.ListMessages(c.Request.Context(), teamID, userID)
	respond(c, http.StatusOK, messages, err)
}

// CreateMessage posts a message
func (h *Handler) CreateMessage(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	teamID, ok := parseID(c, "id", "team ID")
	if !ok {
		return
	}

	var req CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.service.CreateMessage(c.Request.Context(), teamID, userID, MessageInput{
		Title:   req.Title,
		Content: req.Content,
	})
	respond(c, http.StatusCreated, message, err)
}

// ListMessageComments returns the comments on a message
func (h *Handler) ListMessageComments(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	teamID, ok := parseID(c, "id", "team ID")
	if !ok {
		return
	}
	messageID, ok := parseID(c, "messageId", "message ID")
	if !ok {
		return
	}
	comments, err := h.service.ListMessageComments(c.Request.Context(), teamID, messageID, userID)
	respond(c, http.StatusOK, comments, err)
}

// CommentOnMessage adds a comment to a message
func (h *Handler) CommentOnMessage(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	teamID, ok := parseID(c, "id", "team ID")
	if !ok {
		return
	}
	messageID, ok := parseID(c, "messageId", "message ID")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.service.CommentOnMessage(c.Request.Context(), teamID, messageID, userID, req.Content)
	respond(c, http.StatusCreated, comment, err)
}

// ListDocuments returns the team's documents
func (h *Handler) ListDocuments(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	teamID, ok := parseID(c, "id", "team ID")
	if !ok {
		return
	}
	documents, err := h.service.ListDocuments(c.Request.Context(), teamID, userID)
	respond(c, http.StatusOK, documents, err)
}

// CreateDocument adds a document
func (h *Handler) CreateDocument(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	teamID, ok := parseID(c, "id", "team ID")
	if !ok {
		return
	}

	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	document, err := h.service.CreateDocument(c.Request.Context(), teamID, userID, DocumentInput{
		Title:    req.Title,
		DocURL:   req.DocURL,
		Content:  req.Content,
		FolderID: req.FolderID,
	})
	respond(c, http.StatusCreated, document, err)
}

// ListDocumentComments returns the comments on a document
func (h *Handler) ListDocumentComments(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	teamID, ok := parseID(c, "id", "team ID")
	if !ok {
		return
	}
	documentID, ok := parseID(c, "documentId", "document ID")
	if !ok {
		return
	}
	comments, err := h.service.ListDocumentComments(c.Request.Context(), teamID, documentID, userID)
	respond(c, http.StatusOK, comments, err)
}

// CommentOnDocument adds a comment to a document
func (h *Handler) CommentOnDocument(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	teamID, ok := parseID(c, "id", "team ID")
	if !ok {
		return
	}
	documentID, ok := parseID(c, "documentId", "document ID")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.service.CommentOnDocument(c.Request.Context(), teamID, documentID, userID, req.Content)
	respond(c, http.StatusCreated, comment, err)
}

// ListFolders returns the team's folders
func (h *Handler) ListFolders(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	teamID, ok := parseID(c, "id", "team ID")
	if !ok {
		return
	}
	folders, err := h.service.ListFolders(c.Request.Context(), teamID, userID)
	respond(c, http.StatusOK, folders, err)
}

// CreateFolder adds a folder
func (h *Handler) CreateFolder(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	teamID, ok := parseID(c, "id", "team ID")
	if !ok {
		return
	}

	var req CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	folder, err := h.service.CreateFolder(c.Request.Context(), teamID, userID, req.Title)
	respond(c, http.StatusCreated, folder, err)
}

// RegisterRoutes registers content routes on the teams router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/messages", h.ListMessages)
	rg.POST("/:id/messages", h.CreateMessage)
	rg.GET("/:id/messages/:messageId/comments", h.ListMessageComments)
	rg.POST("/:id/messages/:messageId/comments", h.CommentOnMessage)
	rg.GET("/:id/documents", h.ListDocuments)
	rg.POST("/:id/documents", h.CreateDocument)
	rg.GET("/:id/documents/:documentId/comments", h.ListDocumentComments)
	rg.POST("/:id/documents/:documentId/comments", h.CommentOnDocument)
	rg.GET("/:id/folders", h.ListFolders)
	rg.POST("/:id/folders", h.CreateFolder)
}
