package sqlite

// schemaSQL creates the query tables. One override is kept per part; a
// later commit replaces the earlier one.
const schemaSQL = `CREATE TABLE overrides (
    override_id TEXT PRIMARY KEY,
    category TEXT NOT NULL,
    part_id TEXT NOT NULL,
    offset_x REAL NOT NULL,
    offset_y REAL NOT NULL,
    offset_z REAL NOT NULL,
    rotation_x REAL NOT NULL,
    rotation_y REAL NOT NULL,
    rotation_z REAL NOT NULL,
    scale_x REAL NOT NULL,
    scale_y REAL NOT NULL,
    scale_z REAL NOT NULL,
    created_at TEXT NOT NULL,
    UNIQUE (category, part_id)
);
CREATE INDEX idx_overrides_category ON overrides(category);`

// overrideColumns lists the columns in scan order.
const overrideColumns = `override_id, category, part_id,
    offset_x, offset_y, offset_z,
    rotation_x, rotation_y, rotation_z,
    scale_x, scale_y, scale_z,
    created_at`
