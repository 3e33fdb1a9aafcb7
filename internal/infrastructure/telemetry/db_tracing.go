package telemetry

import (
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/gorm"
)

// RegisterDBTracing registers the otelgorm plugin so every query becomes a
// child span of the request trace. Query variables are excluded from the
// recorded statements.
func RegisterDBTracing(db *gorm.DB) error {
	plugin := otelgorm.NewPlugin(
		otelgorm.WithDBName("postgresql"),
		otelgorm.WithoutQueryVariables(),
	)
	return db.Use(plugin)
}
