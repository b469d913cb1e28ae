package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mesh-intelligence/configurator/pkg/types"
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// SaveOverride stores o, replacing any earlier override of the same part,
// and persists the store to JSONL. An empty OverrideID gets a new UUID v7
// and a zero CreatedAt is set to now. It returns the stored override.
func (b *Backend) SaveOverride(o types.TransformOverride) (types.TransformOverride, error) {
	if o.Category.IsNone() {
		return types.TransformOverride{}, types.ErrUnknownCategory
	}
	if o.PartID == "" {
		return types.TransformOverride{}, types.ErrUnknownPart
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.TransformOverride{}, types.ErrStoreDetached
	}

	if o.OverrideID == "" {
		o.OverrideID = generateUUID()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	if err := upsertOverride(b.db, o); err != nil {
		return types.TransformOverride{}, fmt.Errorf("saving override: %w", err)
	}
	if err := b.persistLocked(); err != nil {
		return types.TransformOverride{}, err
	}
	return o, nil
}

// GetOverride returns the override of part id in category c.
// Returns ErrNotFound if the part has none.
func (b *Backend) GetOverride(c types.Category, partID string) (types.TransformOverride, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return types.TransformOverride{}, types.ErrStoreDetached
	}

	row := b.db.QueryRow(`SELECT `+overrideColumns+` FROM overrides WHERE category = ? AND part_id = ?`, string(c), partID)
	o, err := scanOverride(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.TransformOverride{}, types.ErrNotFound
	}
	if err != nil {
		return types.TransformOverride{}, fmt.Errorf("reading override: %w", err)
	}
	return o, nil
}

// ListOverrides returns every override ordered by category and part. A
// non-empty category restricts the list to that category.
func (b *Backend) ListOverrides(c types.Category) ([]types.TransformOverride, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.listLocked(c)
}

// DeleteOverride removes the override of part id in category c and
// persists the store. Returns ErrNotFound if the part has none.
func (b *Backend) DeleteOverride(c types.Category, partID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrStoreDetached
	}

	res, err := b.db.Exec(`DELETE FROM overrides WHERE category = ? AND part_id = ?`, string(c), partID)
	if err != nil {
		return fmt.Errorf("deleting override: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting override: %w", err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return b.persistLocked()
}

func (b *Backend) listLocked(c types.Category) ([]types.TransformOverride, error) {
	query := `SELECT ` + overrideColumns + ` FROM overrides`
	var args []any
	if !c.IsNone() {
		query += ` WHERE category = ?`
		args = append(args, string(c))
	}
	query += ` ORDER BY category, part_id`

	rows, err := b.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing overrides: %w", err)
	}
	defer rows.Close()

	var out []types.TransformOverride
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning override: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// persistLocked writes every override to overrides.jsonl.
// The caller must hold b.mu.
func (b *Backend) persistLocked() error {
	all, err := b.listLocked(types.CategoryNone)
	if err != nil {
		return err
	}
	records := make([]json.RawMessage, 0, len(all))
	for _, o := range all {
		rec, err := json.Marshal(o)
		if err != nil {
			return fmt.Errorf("encoding override %s: %w", o.OverrideID, err)
		}
		records = append(records, rec)
	}
	if err := writeJSONL(filepath.Join(b.dataDir, overridesJSONLName), records); err != nil {
		return fmt.Errorf("persisting overrides: %w", err)
	}
	return nil
}

func upsertOverride(db execer, o types.TransformOverride) error {
	d := o.Delta
	_, err := db.Exec(`INSERT INTO overrides (`+overrideColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (category, part_id) DO UPDATE SET
    override_id = excluded.override_id,
    offset_x = excluded.offset_x, offset_y = excluded.offset_y, offset_z = excluded.offset_z,
    rotation_x = excluded.rotation_x, rotation_y = excluded.rotation_y, rotation_z = excluded.rotation_z,
    scale_x = excluded.scale_x, scale_y = excluded.scale_y, scale_z = excluded.scale_z,
    created_at = excluded.created_at`,
		o.OverrideID, string(o.Category), o.PartID,
		d.Offset[0], d.Offset[1], d.Offset[2],
		d.Rotation[0], d.Rotation[1], d.Rotation[2],
		d.Scale[0], d.Scale[1], d.Scale[2],
		o.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

func scanOverride(row rowScanner) (types.TransformOverride, error) {
	var (
		o         types.TransformOverride
		category  string
		createdAt string
	)
	d := &o.Delta
	err := row.Scan(
		&o.OverrideID, &category, &o.PartID,
		&d.Offset[0], &d.Offset[1], &d.Offset[2],
		&d.Rotation[0], &d.Rotation[1], &d.Rotation[2],
		&d.Scale[0], &d.Scale[1], &d.Scale[2],
		&createdAt,
	)
	if err != nil {
		return types.TransformOverride{}, err
	}
	o.Category = types.Category(category)
	o.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return types.TransformOverride{}, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	return o, nil
}
