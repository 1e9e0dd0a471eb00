package handlers

import (
	"errors"
	"net/http"

	"github.com/karlbohn/feedback-app/internal/auth"
	dom "github.com/karlbohn/feedback-app/internal/domain"
	"github.com/karlbohn/feedback-app/internal/dto"
	"github.com/karlbohn/feedback-app/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles the user page and account deletion.
type UserHandler struct {
	sessions    *auth.Store
	userSvc     *service.UserService
	feedbackSvc *service.FeedbackService
}

// NewUserHandler returns a new UserHandler.
func NewUserHandler(sessions *auth.Store, userSvc *service.UserService, feedbackSvc *service.FeedbackService) *UserHandler {
	return &UserHandler{sessions: sessions, userSvc: userSvc, feedbackSvc: feedbackSvc}
}

// GetPage godoc
// @Summary      Get a user's page with their feedback
// @Tags         users
// @Produce      json
// @Security     CookieAuth
// @Param        username  path  string  true  "Username"
// @Success      200  {object}  dto.UserPageResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /users/{username} [get]
func (h *UserHandler) GetPage(c *gin.Context) {
	username := c.Param("username")
	identity := auth.IdentityFromContext(c)

	user, err := h.userSvc.Get(c.Request.Context(), identity, username)
	if err != nil {
		respondError(c, err)
		return
	}
	list, err := h.feedbackSvc.ListByUser(c.Request.Context(), identity, username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UserPageResponse{
		User:     userToResponse(user),
		Feedback: feedbacksToResponses(list),
	})
}

// Delete godoc
// @Summary      Delete a user and all their feedback
// @Tags         users
// @Security     CookieAuth
// @Param        username  path  string  true  "Username"
// @Success      204
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /users/{username} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	username := c.Param("username")
	identity := auth.IdentityFromContext(c)

	if err := h.userSvc.Delete(c.Request.Context(), identity, username); err != nil {
		respondError(c, err)
		return
	}
	// The account is gone; its session goes with it.
	if sessionID, err := c.Cookie(auth.SessionCookieName); err == nil && sessionID != "" {
		_ = h.sessions.Delete(c.Request.Context(), sessionID)
	}
	c.SetCookie(auth.SessionCookieName, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

// respondError maps domain errors to HTTP status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, auth.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func userToResponse(u dom.User) dto.UserResponse {
	return dto.UserResponse{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
