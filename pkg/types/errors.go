package types

import "errors"

// Storage errors.
var (
	ErrNotFound        = errors.New("entity not found")
	ErrStoreDetached   = errors.New("override store is detached")
	ErrAlreadyAttached = errors.New("override store is already attached")
)

// Catalog and input errors.
var (
	ErrInvalidCatalog   = errors.New("invalid catalog document")
	ErrDuplicatePartID  = errors.New("duplicate part id")
	ErrInvalidVector    = errors.New("vector must have exactly three numeric components")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrUnknownPart      = errors.New("unknown part")
	ErrInvalidColor     = errors.New("invalid color")
	ErrAssetUnavailable = errors.New("asset unavailable")
)
