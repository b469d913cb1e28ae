package build

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/configurator/pkg/types"
)

func redDot() types.PartDefinition {
	return types.PartDefinition{ID: "red-dot", Name: "Red Dot", Model: "models/optic_red_dot.glb"}
}

func holo() types.PartDefinition {
	return types.PartDefinition{ID: "holo", Name: "Holographic", Model: "models/optic_holo.glb"}
}

func TestSelectInsertsAndReplaces(t *testing.T) {
	s := NewStore()

	s.Select(types.CategoryOptic, redDot())
	got, ok := s.Get(types.CategoryOptic)
	require.True(t, ok)
	assert.Equal(t, "red-dot", got.ID)

	s.Select(types.CategoryOptic, holo())
	got, ok = s.Get(types.CategoryOptic)
	require.True(t, ok)
	assert.Equal(t, "holo", got.ID)
	assert.Equal(t, 1, s.Len())
}

func TestSelectSamePartIsIdempotent(t *testing.T) {
	once := NewStore()
	once.Select(types.CategoryOptic, redDot())

	twice := NewStore()
	var events []Event
	twice.Subscribe(func(ev Event) { events = append(events, ev) })
	twice.Select(types.CategoryOptic, redDot())
	twice.Select(types.CategoryOptic, redDot())

	assert.Equal(t, once.Entries(), twice.Entries())
	assert.Len(t, events, 1, "reselecting the same part must not publish")
}

func TestSelectPublishesPreviousAndCurrent(t *testing.T) {
	s := NewStore()
	var events []Event
	s.Subscribe(func(ev Event) { events = append(events, ev) })

	s.Select(types.CategoryOptic, redDot())
	s.Select(types.CategoryOptic, holo())

	require.Len(t, events, 2)
	assert.Equal(t, EventSelected, events[0].Kind)
	assert.Nil(t, events[0].Previous)
	assert.Equal(t, "red-dot", events[0].Current.ID)
	assert.Equal(t, "red-dot", events[1].Previous.ID)
	assert.Equal(t, "holo", events[1].Current.ID)
}

func TestOverrideDiscardedOnPartSwap(t *testing.T) {
	s := NewStore()
	s.Select(types.CategoryOptic, redDot())
	s.Override(types.CategoryOptic, types.TransformDelta{
		Offset: mgl64.Vec3{0.1, 0, 0},
		Scale:  types.IdentityScale,
	})

	got, _ := s.Get(types.CategoryOptic)
	require.True(t, got.HasOverride())

	// Reselecting the same part keeps the committed override.
	s.Select(types.CategoryOptic, redDot())
	got, _ = s.Get(types.CategoryOptic)
	assert.True(t, got.HasOverride())

	// A different part brings only its own override fields.
	s.Select(types.CategoryOptic, holo())
	got, _ = s.Get(types.CategoryOptic)
	assert.False(t, got.HasOverride())
}

func TestSwapKeepsNewPartsOwnOverride(t *testing.T) {
	s := NewStore()
	s.Select(types.CategoryOptic, redDot())

	offset := mgl64.Vec3{0, 0.05, 0}
	withOffset := holo()
	withOffset.Offset = &offset
	s.Select(types.CategoryOptic, withOffset)

	got, _ := s.Get(types.CategoryOptic)
	require.NotNil(t, got.Offset)
	assert.Equal(t, offset, *got.Offset)
}

func TestOverrideWithoutSelectionIsIgnored(t *testing.T) {
	s := NewStore()
	called := false
	s.Subscribe(func(Event) { called = true })

	s.Override(types.CategoryStock, types.TransformDelta{})
	assert.False(t, called)
	assert.False(t, s.Has(types.CategoryStock))
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.Select(types.CategoryGrip, types.PartDefinition{ID: "a2"})

	var events []Event
	s.Subscribe(func(ev Event) { events = append(events, ev) })

	s.Clear(types.CategoryGrip)
	s.Clear(types.CategoryGrip)

	assert.False(t, s.Has(types.CategoryGrip))
	require.Len(t, events, 1)
	assert.Equal(t, EventCleared, events[0].Kind)
	assert.Nil(t, events[0].Current)
}

func TestUnknownCategoryAccepted(t *testing.T) {
	s := NewStore()
	s.Select("muzzle", types.PartDefinition{ID: "brake"})
	assert.True(t, s.Has("muzzle"))
}

func TestUnsubscribe(t *testing.T) {
	s := NewStore()
	count := 0
	unsubscribe := s.Subscribe(func(Event) { count++ })

	s.Select(types.CategoryBarrel, types.PartDefinition{ID: "10.5"})
	unsubscribe()
	s.Select(types.CategoryBarrel, types.PartDefinition{ID: "14.5"})

	assert.Equal(t, 1, count)
}

func TestEntriesSorted(t *testing.T) {
	s := NewStore()
	s.Select(types.CategoryStock, types.PartDefinition{ID: "ctr"})
	s.Select(types.CategoryBarrel, types.PartDefinition{ID: "10.5"})
	s.Select(types.CategoryOptic, redDot())

	entries := s.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, types.CategoryBarrel, entries[0].Category)
	assert.Equal(t, types.CategoryOptic, entries[1].Category)
	assert.Equal(t, types.CategoryStock, entries[2].Category)
}
