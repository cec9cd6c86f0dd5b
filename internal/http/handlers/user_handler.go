package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-mood-journal/internal/services"
)

// IdentifyRequest is sent by the auth layer after a successful sign-in.
type IdentifyRequest struct {
	ExternalID string `json:"external_id" example:"google-oauth2|1093"`
	Email      string `json:"email" example:"ada@example.com"`
	Name       string `json:"name" example:"Ada"`
	AvatarURL  string `json:"avatar_url" example:"https://cdn.example.com/a.png"`
}

// IdentifyUser godoc
// @ID          identifyUser
// @Summary     Create or refresh a user
// @Description Upserts the user for an external identity and returns its numeric id, which later requests send as X-User-ID.
// @Tags        Users
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.IdentifyRequest  true  "Identity"
// @Success     200  {object}  domain.User
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /users/identify [post]
func (h *Handlers) IdentifyUser(c *gin.Context) {
	var req IdentifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	u, err := h.svc.Users.UpsertByExternalID(c.Request.Context(), services.UserInput{
		ExternalID: req.ExternalID,
		Email:      req.Email,
		Name:       req.Name,
		AvatarURL:  req.AvatarURL,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// CurrentUser godoc
// @ID          currentUser
// @Summary     Get the calling user
// @Tags        Users
// @Produce     json
// @Param       X-User-ID  header  int  true  "User ID"
// @Success     200  {object}  domain.User
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /users/me [get]
func (h *Handlers) CurrentUser(c *gin.Context) {
	uid, found := currentUser(c)
	if !found {
		return
	}
	u, err := h.svc.Users.Get(c.Request.Context(), uid)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}
