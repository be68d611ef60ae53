package pagecontent

import (
	"context"
	"fmt"
	"log/slog"
)

// CurrentSchemaVersion is the schemaVersion every written block carries.
const CurrentSchemaVersion = 1

// Migration lifts documents below Version to Version by removing fields.
type Migration struct {
	Version int
	Name    string
	Unset   []string
}

var migrations = []Migration{
	{Version: 1, Name: "drop legacy content field", Unset: []string{"content"}},
}

// PendingUnsets lists the fields a document at version must lose to reach
// CurrentSchemaVersion.
func PendingUnsets(version int) []string {
	var fields []string
	for _, m := range migrations {
		if m.Version > version {
			fields = append(fields, m.Unset...)
		}
	}
	return fields
}

// Migrate applies every migration in order to all documents still below its
// version. Safe to run repeatedly.
func Migrate(ctx context.Context, store Store, log *slog.Logger) error {
	for _, m := range migrations {
		n, err := store.ApplyMigration(ctx, m)
		if err != nil {
			return fmt.Errorf("page content migration %d (%s): %w", m.Version, m.Name, err)
		}
		if n > 0 {
			log.InfoContext(ctx, "page content migrated", "version", m.Version, "migration", m.Name, "documents", n)
		}
	}
	return nil
}
