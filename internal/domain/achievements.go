package domain

// Achievement keys. They are stored verbatim in achievements.achievement_type.
const (
	AchievementFirstEntry      = "first_entry"
	AchievementWeekWarrior     = "week_warrior"
	AchievementConsistencyKing = "consistency_king"
	AchievementDataLover       = "data_lover"
	AchievementMoodMaster      = "mood_master"
)

// Metric names an input consumed by achievement rules.
type Metric string

const (
	MetricTotalEntries  Metric = "total_entries"
	MetricCurrentStreak Metric = "current_streak"
	MetricStatsViews    Metric = "stats_views"
)

// AchievementMetrics is the snapshot of per-user inputs a rule is evaluated
// against.
type AchievementMetrics struct {
	TotalEntries  int `json:"total_entries"`
	CurrentStreak int `json:"current_streak"`
	StatsViews    int `json:"stats_views"`
}

// Value returns the metric named by m, or 0 for an unknown metric.
func (am AchievementMetrics) Value(m Metric) int {
	switch m {
	case MetricTotalEntries:
		return am.TotalEntries
	case MetricCurrentStreak:
		return am.CurrentStreak
	case MetricStatsViews:
		return am.StatsViews
	}
	return 0
}

// AchievementRule is a threshold predicate over one metric, plus the
// display metadata shown to the user.
type AchievementRule struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Rarity      string `json:"rarity"`
	Metric      Metric `json:"metric"`
	Threshold   int    `json:"threshold"`
}

// Met reports whether the rule's threshold is reached.
func (r AchievementRule) Met(m AchievementMetrics) bool {
	return m.Value(r.Metric) >= r.Threshold
}

// Progress returns the metric clamped to [0, Threshold] and the threshold.
func (r AchievementRule) Progress(m AchievementMetrics) (current, max int) {
	current = m.Value(r.Metric)
	if current > r.Threshold {
		current = r.Threshold
	}
	if current < 0 {
		current = 0
	}
	return current, r.Threshold
}

var achievementRules = []AchievementRule{
	{Key: AchievementFirstEntry, Name: "First Entry", Description: "Log your first mood entry", Icon: "Zap", Rarity: "common", Metric: MetricTotalEntries, Threshold: 1},
	{Key: AchievementWeekWarrior, Name: "Week Warrior", Description: "Maintain a 7-day streak", Icon: "Flame", Rarity: "uncommon", Metric: MetricCurrentStreak, Threshold: 7},
	{Key: AchievementConsistencyKing, Name: "Consistency King", Description: "Maintain a 30-day streak", Icon: "Target", Rarity: "rare", Metric: MetricCurrentStreak, Threshold: 30},
	{Key: AchievementDataLover, Name: "Data Lover", Description: "View statistics 10 times", Icon: "BarChart3", Rarity: "uncommon", Metric: MetricStatsViews, Threshold: 10},
	{Key: AchievementMoodMaster, Name: "Mood Master", Description: "Log 100 total entries", Icon: "Crown", Rarity: "legendary", Metric: MetricTotalEntries, Threshold: 100},
}

// AchievementRules returns the rule catalogue in evaluation order.
func AchievementRules() []AchievementRule {
	out := make([]AchievementRule, len(achievementRules))
	copy(out, achievementRules)
	return out
}

// LookupAchievement returns the rule for key.
func LookupAchievement(key string) (AchievementRule, bool) {
	for _, r := range achievementRules {
		if r.Key == key {
			return r, true
		}
	}
	return AchievementRule{}, false
}
