package observability

import "github.com/prometheus/client_golang/prometheus"

// Domain counters for the goal, achievement, and storage core. They are
// registered on the default registry and exposed by the /metrics route.
var (
	GoalRollovers = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "goal_rollovers_total",
			Help: "Weekly goal periods advanced and persisted.",
		},
	)

	GoalIncrements = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goal_increments_total",
			Help: "Goal progress requests by outcome (incremented, target_met, already_today).",
		},
		[]string{"outcome"},
	)

	AchievementsUnlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "achievements_unlocked_total",
			Help: "Achievements newly awarded, by type.",
		},
		[]string{"type"},
	)

	StorageRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_retries_total",
			Help: "Storage operations retried after lock contention, by operation.",
		},
		[]string{"op"},
	)

	MigrationSteps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "migration_steps_total",
			Help: "Schema migration steps applied, by step and result.",
		},
		[]string{"step", "ok"},
	)
)

func init() {
	prometheus.MustRegister(GoalRollovers, GoalIncrements, AchievementsUnlocked, StorageRetries, MigrationSteps)
}
