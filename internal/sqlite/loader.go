package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mesh-intelligence/configurator/pkg/types"
)

// loadOverridesJSONL reads overrides.jsonl into the overrides table inside
// one transaction. Lines that do not decode into an override, or that lack
// a category or part, are skipped. When a part appears more than once the
// last line wins.
func loadOverridesJSONL(db *sql.DB, dataDir string) error {
	records, err := readJSONL(filepath.Join(dataDir, overridesJSONLName))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, rec := range records {
		var o types.TransformOverride
		if err := json.Unmarshal(rec, &o); err != nil {
			continue
		}
		if o.Category.IsNone() || o.PartID == "" {
			continue
		}
		if o.OverrideID == "" {
			o.OverrideID = generateUUID()
		}
		if err := upsertOverride(tx, o); err != nil {
			return fmt.Errorf("loading override %s/%s: %w", o.Category, o.PartID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}
