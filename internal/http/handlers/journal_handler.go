// Journal HTTP handlers: mood entries, statistics and the journal streak.
// Creating or deleting an entry re-runs the achievement evaluator and
// reports what it unlocked.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-mood-journal/internal/domain"
	"github.com/tbourn/go-mood-journal/internal/http/middleware"
	"github.com/tbourn/go-mood-journal/internal/services"
)

// CreateEntryRequest is the JSON payload for a mood entry. Date defaults to
// today; MM/DD/YYYY is accepted and stored as YYYY-MM-DD.
type CreateEntryRequest struct {
	Date    string `json:"date" example:"2024-03-09"`
	Mood    int    `json:"mood" example:"4"`
	Content string `json:"content" example:"Long walk, slept well."`
}

// CreateEntryResponse is returned after an entry is stored.
type CreateEntryResponse struct {
	Entry           *domain.MoodEntry `json:"entry"`
	NewAchievements []string          `json:"new_achievements"`
}

// ListEntriesResponse is one page of entries, newest first.
type ListEntriesResponse struct {
	Entries    []domain.MoodEntry `json:"entries"`
	Pagination Pagination         `json:"pagination"`
}

// StatisticsResponse is the journal summary plus anything the view unlocked.
type StatisticsResponse struct {
	Statistics      *services.Statistics `json:"statistics"`
	NewAchievements []string             `json:"new_achievements"`
}

// StreakResponse carries the journal streak in days.
type StreakResponse struct {
	Streak int `json:"streak"`
}

// CreateEntry godoc
// @ID          createEntry
// @Summary     Add a mood entry
// @Tags        Journal
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  int  true  "User ID"
// @Param       body       body    handlers.CreateEntryRequest  true  "Entry"
// @Success     201  {object}  handlers.CreateEntryResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /moods [post]
func (h *Handlers) CreateEntry(c *gin.Context) {
	uid, found := currentUser(c)
	if !found {
		return
	}
	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	e, err := h.svc.Journal.CreateEntry(c.Request.Context(), uid, services.EntryInput{
		Date:    req.Date,
		Mood:    req.Mood,
		Content: req.Content,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusCreated, CreateEntryResponse{Entry: e, NewAchievements: h.evaluate(c, uid)})
}

// ListEntries godoc
// @ID          listEntries
// @Summary     List mood entries (paginated)
// @Tags        Journal
// @Produce     json
// @Param       X-User-ID  header  int  true   "User ID"
// @Param       page       query   int  false  "Page number"     minimum(1) default(1)
// @Param       page_size  query   int  false  "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListEntriesResponse
// @Router      /moods [get]
func (h *Handlers) ListEntries(c *gin.Context) {
	uid, found := currentUser(c)
	if !found {
		return
	}
	page, pageSize := clampPagination(c)
	items, total, err := h.svc.Journal.ListEntries(c.Request.Context(), uid, page, pageSize)
	if err != nil {
		serviceError(c, err)
		return
	}
	if items == nil {
		items = []domain.MoodEntry{}
	}
	ok(c, http.StatusOK, ListEntriesResponse{Entries: items, Pagination: newPagination(page, pageSize, total)})
}

// DeleteEntry godoc
// @ID          deleteEntry
// @Summary     Delete a mood entry
// @Tags        Journal
// @Param       X-User-ID  header  int  true  "User ID"
// @Param       id         path    int  true  "Entry ID"
// @Success     204
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /moods/{id} [delete]
func (h *Handlers) DeleteEntry(c *gin.Context) {
	uid, found := currentUser(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.svc.Journal.DeleteEntry(c.Request.Context(), uid, id); err != nil {
		serviceError(c, err)
		return
	}
	// Nothing is revoked by a delete; evaluation only ever adds.
	_ = h.evaluate(c, uid)
	noContent(c)
}

// Statistics godoc
// @ID          statistics
// @Summary     Journal statistics
// @Description Counts the view, returns mood statistics and the current streak, then evaluates achievements.
// @Tags        Journal
// @Produce     json
// @Param       X-User-ID  header  int  true  "User ID"
// @Success     200  {object}  handlers.StatisticsResponse
// @Router      /statistics [get]
func (h *Handlers) Statistics(c *gin.Context) {
	uid, found := currentUser(c)
	if !found {
		return
	}
	ctx := c.Request.Context()
	if err := h.svc.Metrics.RecordStatsView(ctx, uid); err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("stats view not recorded")
	}
	st, err := h.svc.Journal.Statistics(ctx, uid)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, StatisticsResponse{Statistics: st, NewAchievements: h.evaluate(c, uid)})
}

// Streak godoc
// @ID          streak
// @Summary     Current journal streak
// @Tags        Journal
// @Produce     json
// @Param       X-User-ID  header  int  true  "User ID"
// @Success     200  {object}  handlers.StreakResponse
// @Router      /streak [get]
func (h *Handlers) Streak(c *gin.Context) {
	uid, found := currentUser(c)
	if !found {
		return
	}
	n, err := h.svc.Streaks.CurrentStreak(c.Request.Context(), uid)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, StreakResponse{Streak: n})
}
