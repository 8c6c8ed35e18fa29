package seed

import (
	"context"
	"testing"
	"time"

	"dayTracker/internal/models/category"
	"dayTracker/internal/models/habit"
	"dayTracker/internal/repository/inmemory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	d, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), d.CreatedAt)
	require.Len(t, d.Categories, 5)
	require.Len(t, d.Habits, 4)

	cats := d.CategoryModels()
	assert.Equal(t, uuid.MustParse("11111111-1111-1111-1111-111111111111"), cats[0].ID)
	assert.Equal(t, "İzlenecek Filmler", cats[0].Name)
	assert.True(t, cats[0].IsActive)
	assert.Nil(t, cats[0].UpdatedAt)

	habits, err := d.HabitModels()
	require.NoError(t, err)

	water := habits[0]
	assert.Equal(t, uuid.MustParse("a1111111-1111-1111-1111-111111111111"), water.ID)
	assert.Equal(t, habit.TypeNumeric, water.Type)
	require.NotNil(t, water.TargetValue)
	assert.Equal(t, 8, *water.TargetValue)
	require.NotNil(t, water.Unit)
	assert.Equal(t, "bardak", *water.Unit)

	exercise := habits[1]
	assert.Equal(t, habit.TypeBoolean, exercise.Type)
	assert.Nil(t, exercise.Unit)
	assert.Nil(t, exercise.TargetValue)
}

func TestParse_UnknownHabitType(t *testing.T) {
	d, err := Parse([]byte(`
habits:
  - id: a1111111-1111-1111-1111-111111111111
    name: Walk
    type: weekly
`))
	require.NoError(t, err)

	_, err = d.HabitModels()
	assert.ErrorContains(t, err, "unknown habit type")
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()

	d, err := Load()
	require.NoError(t, err)

	applied, err := Apply(ctx, d, store.Categories(), store.Habits())
	require.NoError(t, err)
	assert.True(t, applied)

	cats, err := store.Categories().List(ctx, category.Filter{})
	require.NoError(t, err)
	assert.Len(t, cats, 5)

	h, err := store.Habits().GetByID(ctx, uuid.MustParse("a4444444-4444-4444-4444-444444444444"))
	require.NoError(t, err)
	assert.Equal(t, "Meditasyon", h.Name)

	applied, err = Apply(ctx, d, store.Categories(), store.Habits())
	require.NoError(t, err)
	assert.False(t, applied)

	cats, err = store.Categories().List(ctx, category.Filter{})
	require.NoError(t, err)
	assert.Len(t, cats, 5)
}
