package postgres

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

const dailyUniqueIndexName = "attendance_entries_daily_unique"

// VerifyDailyIndexTimezone checks that the daily-uniqueness index on the
// attendance ledger folds timestamps into the same timezone the zone policy
// runs in. The index is created by schema.sql with a literal timezone, so a
// mismatched ATTENDANCE_TIMEZONE would silently shift the day boundary the
// database enforces away from the one the service computes.
func VerifyDailyIndexTimezone(db *sqlx.DB, timezone string) error {
	var indexDef string
	err := db.Get(&indexDef,
		`SELECT indexdef FROM pg_indexes WHERE indexname = $1`, dailyUniqueIndexName)
	if err != nil {
		return fmt.Errorf("failed to inspect index %s: %w", dailyUniqueIndexName, err)
	}

	if !indexDefUsesTimezone(indexDef, timezone) {
		return fmt.Errorf("index %s does not fold timestamps into %q: %s",
			dailyUniqueIndexName, timezone, indexDef)
	}

	return nil
}

func indexDefUsesTimezone(indexDef, timezone string) bool {
	return strings.Contains(indexDef, "'"+timezone+"'")
}
