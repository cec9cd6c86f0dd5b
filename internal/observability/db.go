package observability

import (
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"
)

var newGormTracingPlugin = func() gorm.Plugin {
	return tracing.NewPlugin(tracing.WithoutMetrics())
}

// InstrumentDB attaches OpenTelemetry tracing to every query issued through
// db. It is a no-op when tracing is disabled.
func InstrumentDB(db *gorm.DB, enabled bool) error {
	if !enabled || db == nil {
		return nil
	}
	return db.Use(newGormTracingPlugin())
}
