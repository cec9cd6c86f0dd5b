// Package domain defines the persistence models for the mood journal core:
// users, journal entries, recurring weekly goals with their completion audit
// trail, achievements, and per-user metrics. These types are mapped with GORM
// and are the only row shapes that cross the storage boundary.
package domain

import "time"

// DateLayout is the ISO calendar-date layout used for every stored date
// column (period_start, last_completed_date, completion dates, entry dates).
const DateLayout = "2006-01-02"

// User is the owner of every other record. ExternalID is the identity issued
// by the (external) authentication provider and is unique.
type User struct {
	ID         uint      `json:"id"          gorm:"primaryKey"`
	ExternalID string    `json:"external_id" gorm:"type:TEXT NOT NULL;uniqueIndex:ux_users_external_id"`
	Email      string    `json:"email"       gorm:"type:TEXT NOT NULL;default:''"`
	Name       string    `json:"name"        gorm:"type:TEXT NOT NULL;default:''"`
	AvatarURL  *string   `json:"avatar_url,omitempty" gorm:"type:TEXT"`
	CreatedAt  time.Time `json:"created_at"`
	LastLogin  time.Time `json:"last_login"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// MoodEntry is a single journal entry. Date is stored as text because legacy
// rows were written in more than one format (MM/DD/YYYY and YYYY-MM-DD).
type MoodEntry struct {
	ID        uint      `json:"id"         gorm:"primaryKey"`
	UserID    uint      `json:"user_id"    gorm:"not null;index:idx_mood_entries_user"`
	Date      string    `json:"date"       gorm:"type:TEXT NOT NULL;index:idx_mood_entries_date"`
	Mood      int       `json:"mood"       gorm:"not null;check:mood >= 1 AND mood <= 5"`
	Content   string    `json:"content"    gorm:"type:TEXT NOT NULL"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for MoodEntry.
func (MoodEntry) TableName() string { return "mood_entries" }

// Goal is a user-defined recurring weekly target ("do X N times per week").
//
// Counters apply to the week starting at PeriodStart (always a Monday).
// Completed stays within [0, FrequencyPerWeek]; Streak counts consecutive
// weekly periods whose target was met. LastCompletedDate is empty until the
// first recorded progress.
type Goal struct {
	ID                uint      `json:"id"                  gorm:"primaryKey"`
	UserID            uint      `json:"user_id"             gorm:"not null;index:idx_goals_user"`
	Title             string    `json:"title"               gorm:"type:TEXT NOT NULL"`
	Description       string    `json:"description"         gorm:"type:TEXT NOT NULL;default:''"`
	FrequencyPerWeek  int       `json:"frequency_per_week"  gorm:"not null;check:frequency_per_week >= 1 AND frequency_per_week <= 7"`
	Completed         int       `json:"completed"           gorm:"not null;default:0"`
	Streak            int       `json:"streak"              gorm:"not null;default:0"`
	PeriodStart       string    `json:"period_start"        gorm:"type:TEXT"`
	LastCompletedDate string    `json:"last_completed_date,omitempty" gorm:"type:TEXT"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// AlreadyCompletedToday is derived on every read and never persisted.
	AlreadyCompletedToday bool `json:"already_completed_today" gorm:"-"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Goal.
func (Goal) TableName() string { return "goals" }

// GoalCompletion is the append-only fact that a goal was progressed on a
// calendar day. (user_id, goal_id, date) is unique.
type GoalCompletion struct {
	ID        uint      `json:"id"      gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:ux_goal_completions_user_goal_date,priority:1;index:idx_goal_completions_user_goal,priority:1"`
	GoalID    uint      `json:"goal_id" gorm:"not null;uniqueIndex:ux_goal_completions_user_goal_date,priority:2;index:idx_goal_completions_user_goal,priority:2"`
	Date      string    `json:"date"    gorm:"type:TEXT NOT NULL;uniqueIndex:ux_goal_completions_user_goal_date,priority:3;index:idx_goal_completions_date"`
	CreatedAt time.Time `json:"created_at"`

	Goal Goal `json:"-" gorm:"foreignKey:GoalID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for GoalCompletion.
func (GoalCompletion) TableName() string { return "goal_completions" }

// Achievement is a one-time unlock; (user_id, achievement_type) is unique.
// The mint columns are an annotation written by an external collaborator.
type Achievement struct {
	ID              uint      `json:"id"               gorm:"primaryKey"`
	UserID          uint      `json:"user_id"          gorm:"not null;uniqueIndex:ux_achievements_user_type,priority:1"`
	AchievementType string    `json:"achievement_type" gorm:"type:TEXT NOT NULL;uniqueIndex:ux_achievements_user_type,priority:2"`
	EarnedAt        time.Time `json:"earned_at"        gorm:"autoCreateTime"`
	Minted          bool      `json:"minted"           gorm:"not null;default:false"`
	TokenID         *int64    `json:"token_id,omitempty"`
	TxHash          *string   `json:"tx_hash,omitempty" gorm:"type:TEXT"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Achievement.
func (Achievement) TableName() string { return "achievements" }

// UserMetric holds per-user counters consumed by the achievement rules.
type UserMetric struct {
	UserID     uint      `json:"user_id"     gorm:"primaryKey;autoIncrement:false"`
	StatsViews int       `json:"stats_views" gorm:"not null;default:0"`
	UpdatedAt  time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for UserMetric.
func (UserMetric) TableName() string { return "user_metrics" }
