// Goal HTTP handlers.
//
// This file exposes the weekly goal endpoints:
//   - POST   /goals                    (create, Idempotency-Key aware)
//   - GET    /goals                    (list with current-week counters)
//   - GET    /goals/{id}
//   - PUT    /goals/{id}, PATCH /goals/{id}
//   - DELETE /goals/{id}
//   - POST   /goals/{id}/progress      (record today's progress)
//   - GET    /goals/{id}/completions   (completion dates in a window)
//
// Every read goes through the core, which rolls the goal into the current
// week before returning it.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-mood-journal/internal/domain"
	"github.com/tbourn/go-mood-journal/internal/http/middleware"
	"github.com/tbourn/go-mood-journal/internal/services"
)

// CreateGoalRequest is the JSON payload for creating a goal.
type CreateGoalRequest struct {
	Title            string `json:"title" example:"Morning walk"`
	Description      string `json:"description" example:"At least 20 minutes outside"`
	FrequencyPerWeek int    `json:"frequency_per_week" example:"3"`
}

// UpdateGoalRequest is the JSON payload for PUT/PATCH. Omitted fields are
// left unchanged.
type UpdateGoalRequest struct {
	Title            *string `json:"title,omitempty" example:"Evening walk"`
	Description      *string `json:"description,omitempty"`
	FrequencyPerWeek *int    `json:"frequency_per_week,omitempty" example:"4"`
}

// ListGoalsResponse wraps the caller's goals.
type ListGoalsResponse struct {
	Goals []domain.Goal `json:"goals"`
}

// ProgressResponse is returned after recording progress.
type ProgressResponse struct {
	Goal            *domain.Goal `json:"goal"`
	NewAchievements []string     `json:"new_achievements"`
}

// CompletionsResponse lists the days a goal was progressed, ascending.
type CompletionsResponse struct {
	GoalID uint     `json:"goal_id"`
	Dates  []string `json:"dates"`
}

// CreateGoal godoc
// @ID          createGoal
// @Summary     Create a weekly goal
// @Description Creates a goal in the current week. With an Idempotency-Key, a retried request returns the goal created first.
// @Tags        Goals
// @Accept      json
// @Produce     json
// @Param       X-User-ID        header  int     true   "User ID"
// @Param       Idempotency-Key  header  string  false  "Idempotency key"
// @Param       body             body    handlers.CreateGoalRequest  true  "Goal"
// @Success     201  {object}  domain.Goal
// @Header      201  {string}  Idempotency-Replayed  "true when served from a previous request"
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     503  {object}  handlers.ErrorResponse
// @Router      /goals [post]
func (h *Handlers) CreateGoal(c *gin.Context) {
	uid, found := currentUser(c)
	if !found {
		return
	}
	if id, replay := middleware.ReplayResourceID(c); replay {
		h.replayGoal(c, uid, id)
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	ctx := c.Request.Context()
	g, err := h.svc.Goals.Create(ctx, uid, services.GoalInput{
		Title:            req.Title,
		Description:      req.Description,
		FrequencyPerWeek: req.FrequencyPerWeek,
	})
	if err != nil {
		serviceError(c, err)
		return
	}

	if key, has := middleware.GetIdempotencyKey(c); has && h.svc.Idempotency != nil {
		rec, created, err := h.svc.Idempotency.Remember(ctx, uid, middleware.IdempotencyScope(c), key, g.ID, http.StatusCreated)
		switch {
		case err != nil:
			middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency record not stored")
		case !created && rec.ResourceID != g.ID:
			// A concurrent request with the same key got there first.
			if err := h.svc.Goals.Delete(ctx, uid, g.ID); err != nil {
				middleware.LoggerFrom(c).Warn().Err(err).Uint("goal_id", g.ID).Msg("duplicate goal not removed")
			}
			h.replayGoal(c, uid, rec.ResourceID)
			return
		}
	}
	ok(c, http.StatusCreated, g)
}

func (h *Handlers) replayGoal(c *gin.Context, uid, goalID uint) {
	g, err := h.svc.Goals.Get(c.Request.Context(), uid, goalID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.Header(middleware.HeaderReplayed, "true")
	ok(c, http.StatusCreated, g)
}

// ListGoals godoc
// @ID          listGoals
// @Summary     List goals
// @Description Returns the caller's goals rolled into the current week.
// @Tags        Goals
// @Produce     json
// @Param       X-User-ID  header  int  true  "User ID"
// @Success     200  {object}  handlers.ListGoalsResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Router      /goals [get]
func (h *Handlers) ListGoals(c *gin.Context) {
	uid, found := currentUser(c)
	if !found {
		return
	}
	goals, err := h.svc.Goals.List(c.Request.Context(), uid)
	if err != nil {
		serviceError(c, err)
		return
	}
	if goals == nil {
		goals = []domain.Goal{}
	}
	ok(c, http.StatusOK, ListGoalsResponse{Goals: goals})
}

// GetGoal godoc
// @ID          getGoal
// @Summary     Get a goal
// @Tags        Goals
// @Produce     json
// @Param       X-User-ID  header  int  true  "User ID"
// @Param       id         path    int  true  "Goal ID"
// @Success     200  {object}  domain.Goal
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /goals/{id} [get]
func (h *Handlers) GetGoal(c *gin.Context) {
	uid, found := currentUser(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	g, err := h.svc.Goals.Get(c.Request.Context(), uid, id)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, g)
}

// UpdateGoal godoc
// @ID          updateGoal
// @Summary     Update a goal
// @Description Changes title, description or weekly frequency. Lowering the frequency clamps this week's count.
// @Tags        Goals
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  int  true  "User ID"
// @Param       id         path    int  true  "Goal ID"
// @Param       body       body    handlers.UpdateGoalRequest  true  "Changes"
// @Success     200  {object}  domain.Goal
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /goals/{id} [put]
// @Router      /goals/{id} [patch]
func (h *Handlers) UpdateGoal(c *gin.Context) {
	uid, found := currentUser(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	g, err := h.svc.Goals.Update(c.Request.Context(), uid, id, services.GoalPatch{
		Title:            req.Title,
		Description:      req.Description,
		FrequencyPerWeek: req.FrequencyPerWeek,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, g)
}

// DeleteGoal godoc
// @ID          deleteGoal
// @Summary     Delete a goal
// @Description Deletes the goal and its completion history.
// @Tags        Goals
// @Param       X-User-ID  header  int  true  "User ID"
// @Param       id         path    int  true  "Goal ID"
// @Success     204
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /goals/{id} [delete]
func (h *Handlers) DeleteGoal(c *gin.Context) {
	uid, found := currentUser(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.svc.Goals.Delete(c.Request.Context(), uid, id); err != nil {
		serviceError(c, err)
		return
	}
	noContent(c)
}

// IncrementGoal godoc
// @ID          incrementGoal
// @Summary     Record progress for today
// @Description Counts today towards the weekly target at most once. Repeating the call on the same day returns the goal unchanged.
// @Tags        Goals
// @Produce     json
// @Param       X-User-ID  header  int  true  "User ID"
// @Param       id         path    int  true  "Goal ID"
// @Success     200  {object}  handlers.ProgressResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     503  {object}  handlers.ErrorResponse
// @Router      /goals/{id}/progress [post]
func (h *Handlers) IncrementGoal(c *gin.Context) {
	uid, found := currentUser(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	g, err := h.svc.Progress.Increment(c.Request.Context(), uid, id)
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, ProgressResponse{Goal: g, NewAchievements: h.evaluate(c, uid)})
}

// GoalCompletions godoc
// @ID          goalCompletions
// @Summary     List completion dates
// @Description Dates (YYYY-MM-DD, ascending) in [start, end]. Without both bounds, the trailing default window ending today.
// @Tags        Goals
// @Produce     json
// @Param       X-User-ID  header  int     true   "User ID"
// @Param       id         path    int     true   "Goal ID"
// @Param       start      query   string  false  "First day"  format(date)
// @Param       end        query   string  false  "Last day"   format(date)
// @Success     200  {object}  handlers.CompletionsResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /goals/{id}/completions [get]
func (h *Handlers) GoalCompletions(c *gin.Context) {
	uid, found := currentUser(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	dates, err := h.svc.Goals.Completions(c.Request.Context(), uid, id, c.Query("start"), c.Query("end"))
	if err != nil {
		serviceError(c, err)
		return
	}
	if dates == nil {
		dates = []string{}
	}
	ok(c, http.StatusOK, CompletionsResponse{GoalID: id, Dates: dates})
}
