package catalog

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/configurator/pkg/types"
)

func TestLoadPreservesDocumentOrder(t *testing.T) {
	cat, err := Load(filepath.Join("testdata", "parts.json"))
	require.NoError(t, err)

	assert.Equal(t, []types.Category{
		types.CategoryBarrel,
		types.CategoryHandguard,
		types.CategoryStock,
		types.CategoryGrip,
		types.CategoryOptic,
	}, cat.Categories())
	assert.Equal(t, 7, cat.PartCount())

	optics, ok := cat.Section(types.CategoryOptic)
	require.True(t, ok)
	assert.Equal(t, "Optics", optics.Name)
	require.Len(t, optics.Parts, 2)
	assert.Equal(t, "red-dot", optics.Parts[0].ID)
	assert.Equal(t, "lpvo", optics.Parts[1].ID)
}

func TestLoadReadsOverrideFields(t *testing.T) {
	cat, err := Load(filepath.Join("testdata", "parts.json"))
	require.NoError(t, err)

	plain, err := cat.Part(types.CategoryOptic, "red-dot")
	require.NoError(t, err)
	assert.False(t, plain.HasOverride())
	assert.Equal(t, "models/optic_red_dot.glb", plain.Model)

	lpvo, err := cat.Part(types.CategoryOptic, "lpvo")
	require.NoError(t, err)
	require.NotNil(t, lpvo.Offset)
	require.NotNil(t, lpvo.Scale)
	assert.Equal(t, mgl64.Vec3{0, 0.05, 0}, *lpvo.Offset)
	assert.Equal(t, mgl64.Vec3{1.2, 1.2, 1.2}, *lpvo.Scale)
}

func TestParseYAML(t *testing.T) {
	doc := `
categories:
  stock:
    name: Stocks
    parts:
      - id: ctr
        model: models/stock_ctr.glb
  barrel:
    parts:
      - id: b10
        model: models/barrel_10.glb
        rotation: [0, 1.5708, 0]
`
	cat, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, []types.Category{types.CategoryStock, types.CategoryBarrel}, cat.Categories())

	barrels, _ := cat.Section(types.CategoryBarrel)
	assert.Equal(t, "barrel", barrels.Name, "missing name falls back to the key")
	require.NotNil(t, barrels.Parts[0].Rotation)
	assert.Equal(t, mgl64.Vec3{0, 1.5708, 0}, *barrels.Parts[0].Rotation)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{"empty document", ``, types.ErrInvalidCatalog},
		{"categories not a mapping", `{"categories": []}`, types.ErrInvalidCatalog},
		{"malformed", `{"categories": {`, types.ErrInvalidCatalog},
		{"part without id", `{"categories": {"grip": {"parts": [{"model": "x"}]}}}`, types.ErrInvalidCatalog},
		{"duplicate part id", `{"categories": {"grip": {"parts": [{"id": "a2"}, {"id": "a2"}]}}}`, types.ErrDuplicatePartID},
		{"short vector", `{"categories": {"grip": {"parts": [{"id": "a2", "offset": [1, 2]}]}}}`, types.ErrInvalidVector},
		{"long vector", `{"categories": {"grip": {"parts": [{"id": "a2", "scale": [1, 1, 1, 1]}]}}}`, types.ErrInvalidVector},
		{"non numeric vector", `{"categories": {"grip": {"parts": [{"id": "a2", "offset": ["x", 0, 0]}]}}}`, types.ErrInvalidCatalog},
		{"nan vector", "categories:\n  grip:\n    parts:\n      - {id: a2, offset: [.nan, 0, 0]}\n", types.ErrInvalidVector},
		{"infinite vector", "categories:\n  grip:\n    parts:\n      - {id: a2, scale: [1, -.inf, 1]}\n", types.ErrInvalidVector},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSamePartIDInDifferentCategories(t *testing.T) {
	doc := `{"categories": {"grip": {"parts": [{"id": "std"}]}, "stock": {"parts": [{"id": "std"}]}}}`
	_, err := Parse([]byte(doc))
	assert.NoError(t, err)
}

func TestPartLookupErrors(t *testing.T) {
	cat, err := Load(filepath.Join("testdata", "parts.json"))
	require.NoError(t, err)

	_, err = cat.Part("muzzle", "brake")
	assert.ErrorIs(t, err, types.ErrUnknownCategory)

	_, err = cat.Part(types.CategoryOptic, "acog")
	assert.ErrorIs(t, err, types.ErrUnknownPart)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestWithOverrides(t *testing.T) {
	cat, err := Load(filepath.Join("testdata", "parts.json"))
	require.NoError(t, err)

	delta := types.TransformDelta{
		Offset:   mgl64.Vec3{0, 0.02, 0},
		Rotation: mgl64.Vec3{0, 0, 0},
		Scale:    mgl64.Vec3{1, 1, 1},
	}
	merged := cat.WithOverrides([]types.TransformOverride{
		{Category: types.CategoryOptic, PartID: "red-dot", Delta: delta},
		{Category: types.CategoryOptic, PartID: "missing", Delta: delta},
		{Category: "muzzle", PartID: "brake", Delta: delta},
	})

	got, err := merged.Part(types.CategoryOptic, "red-dot")
	require.NoError(t, err)
	require.NotNil(t, got.Offset)
	assert.Equal(t, delta.Offset, *got.Offset)

	orig, _ := cat.Part(types.CategoryOptic, "red-dot")
	assert.False(t, orig.HasOverride(), "source catalog must not change")
	assert.Equal(t, cat.Categories(), merged.Categories())
}
