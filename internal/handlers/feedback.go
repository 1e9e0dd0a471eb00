package handlers

import (
	"net/http"
	"strconv"

	"github.com/karlbohn/feedback-app/internal/auth"
	dom "github.com/karlbohn/feedback-app/internal/domain"
	"github.com/karlbohn/feedback-app/internal/dto"
	"github.com/karlbohn/feedback-app/internal/service"

	"github.com/gin-gonic/gin"
)

// FeedbackHandler handles feedback CRUD.
type FeedbackHandler struct {
	svc *service.FeedbackService
}

// NewFeedbackHandler returns a new FeedbackHandler.
func NewFeedbackHandler(svc *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

// Create godoc
// @Summary      Create feedback for a user
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        username  path  string  true  "Owner username"
// @Param        body  body      dto.CreateFeedbackRequest  true  "Feedback body"
// @Success      201   {object}  dto.FeedbackResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /users/{username}/feedback [post]
func (h *FeedbackHandler) Create(c *gin.Context) {
	owner := c.Param("username")
	var req dto.CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, err := h.svc.Create(c.Request.Context(), auth.IdentityFromContext(c), owner, req.Title, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, feedbackToResponse(f))
}

// GetByID godoc
// @Summary      Get feedback by ID
// @Tags         feedback
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Feedback ID"
// @Success      200  {object}  dto.FeedbackResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /feedback/{id} [get]
func (h *FeedbackHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	f, err := h.svc.Get(c.Request.Context(), auth.IdentityFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feedbackToResponse(f))
}

// Update godoc
// @Summary      Update feedback
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Feedback ID"
// @Param        body  body      dto.UpdateFeedbackRequest  true  "Partial update"
// @Success      200   {object}  dto.FeedbackResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /feedback/{id} [patch]
func (h *FeedbackHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, err := h.svc.Update(c.Request.Context(), auth.IdentityFromContext(c), id, req.Title, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feedbackToResponse(f))
}

// Delete godoc
// @Summary      Delete feedback
// @Tags         feedback
// @Security     CookieAuth
// @Param        id   path  int  true  "Feedback ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /feedback/{id} [delete]
func (h *FeedbackHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), auth.IdentityFromContext(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func feedbackToResponse(f dom.Feedback) dto.FeedbackResponse {
	return dto.FeedbackResponse{
		ID:        f.ID,
		Title:     f.Title,
		Content:   f.Content,
		Username:  f.Username,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func feedbacksToResponses(list []dom.Feedback) []dto.FeedbackResponse {
	out := make([]dto.FeedbackResponse, 0, len(list))
	for _, f := range list {
		out = append(out, feedbackToResponse(f))
	}
	return out
}
