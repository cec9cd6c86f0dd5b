package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-mood-journal/internal/services"
)

// ListAchievementsResponse holds owned achievements, newest first.
type ListAchievementsResponse struct {
	Achievements []services.EarnedAchievement `json:"achievements"`
}

// CheckAchievementsResponse lists keys unlocked by this evaluation.
type CheckAchievementsResponse struct {
	NewAchievements []string `json:"new_achievements"`
}

// AchievementProgressResponse maps each achievement key to its progress.
type AchievementProgressResponse struct {
	Progress map[string]services.RuleProgress `json:"progress"`
}

// MintRequest annotates an achievement with its on-chain token.
type MintRequest struct {
	TokenID *int64 `json:"token_id" example:"17"`
	TxHash  string `json:"tx_hash" example:"0x5c50..."`
}

// ListAchievements godoc
// @ID          listAchievements
// @Summary     List earned achievements
// @Tags        Achievements
// @Produce     json
// @Param       X-User-ID  header  int  true  "User ID"
// @Success     200  {object}  handlers.ListAchievementsResponse
// @Router      /achievements [get]
func (h *Handlers) ListAchievements(c *gin.Context) {
	uid, found := currentUser(c)
	if !found {
		return
	}
	list, err := h.svc.Achievements.List(c.Request.Context(), uid)
	if err != nil {
		serviceError(c, err)
		return
	}
	if list == nil {
		list = []services.EarnedAchievement{}
	}
	ok(c, http.StatusOK, ListAchievementsResponse{Achievements: list})
}

// CheckAchievements godoc
// @ID          checkAchievements
// @Summary     Evaluate achievements now
// @Description Awards every achievement whose threshold is met. Calling it again awards nothing new.
// @Tags        Achievements
// @Produce     json
// @Param       X-User-ID  header  int  true  "User ID"
// @Success     200  {object}  handlers.CheckAchievementsResponse
// @Failure     503  {object}  handlers.ErrorResponse
// @Router      /achievements/check [post]
func (h *Handlers) CheckAchievements(c *gin.Context) {
	uid, found := currentUser(c)
	if !found {
		return
	}
	keys, err := h.svc.Achievements.CheckAndAward(c.Request.Context(), uid)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, CheckAchievementsResponse{NewAchievements: keys})
}

// AchievementProgress godoc
// @ID          achievementProgress
// @Summary     Progress towards each achievement
// @Tags        Achievements
// @Produce     json
// @Param       X-User-ID  header  int  true  "User ID"
// @Success     200  {object}  handlers.AchievementProgressResponse
// @Router      /achievements/progress [get]
func (h *Handlers) AchievementProgress(c *gin.Context) {
	uid, found := currentUser(c)
	if !found {
		return
	}
	p, err := h.svc.Achievements.Progress(c.Request.Context(), uid)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, AchievementProgressResponse{Progress: p})
}

// MintAchievement godoc
// @ID          mintAchievement
// @Summary     Annotate an achievement as minted
// @Description Used by the external minting collaborator to record the token it issued.
// @Tags        Achievements
// @Accept      json
// @Param       X-User-ID  header  int     true  "User ID"
// @Param       key        path    string  true  "Achievement key"  example(week_warrior)
// @Param       body       body    handlers.MintRequest  true  "Token"
// @Success     204
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /achievements/{key}/mint [put]
func (h *Handlers) MintAchievement(c *gin.Context) {
	uid, found := currentUser(c)
	if !found {
		return
	}
	var req MintRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TokenID == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "token_id and tx_hash are required")
		return
	}
	if err := h.svc.Achievements.AnnotateMint(c.Request.Context(), uid, c.Param("key"), *req.TokenID, req.TxHash); err != nil {
		serviceError(c, err)
		return
	}
	noContent(c)
}
