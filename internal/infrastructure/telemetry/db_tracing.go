package telemetry

import (
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/silver-g8/furniture-api-sub000/internal/infrastructure/config"
)

// RegisterDBTracing registers the otelgorm plugin so every query shows up as
// a child span of the enclosing request. Query variables are always excluded
// from spans; statements alone are enough to find slow queries.
func RegisterDBTracing(db *gorm.DB, cfg config.TelemetryConfig, logger *zap.Logger) error {
	if !cfg.Enabled || !cfg.DBTraceEnabled {
		logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	plugin := otelgorm.NewPlugin(
		otelgorm.WithDBName("postgresql"),
		otelgorm.WithoutQueryVariables(),
	)
	if err := db.Use(plugin); err != nil {
		return err
	}

	logger.Info("Database tracing enabled")
	return nil
}
