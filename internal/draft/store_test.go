package draft

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaport/portal-backend/internal/models"
)

func payload(key string) models.SectionPayload {
	return models.SectionPayload{key: "value"}
}

func completeSteps(ctx context.Context, s *Store, through int) {
	for i := 1; i <= through; i++ {
		s.UpdateFormData(ctx, models.StepIDForNumber(i), payload("step"))
		s.NextStep(ctx, true)
	}
}

func TestUpdateFormDataPersistsWhitelistedSubset(t *testing.T) {
	ctx := context.Background()
	persist := NewMemoryPersistence()
	store := NewStore("user-1", persist)

	store.UpdateFormData(ctx, models.StepPharmacyInfo, payload("legalBusinessName"))
	store.SetCredentials(models.Credentials{Email: "a@b.com", Password: "password123", ConfirmPassword: "password123"})

	saved, err := persist.Load(ctx, Namespace, "user-1")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, 1, saved.CurrentStep)
	assert.Contains(t, saved.Sections, models.StepPharmacyInfo)

	// Credentials must never reach durable storage, not even encoded.
	raw, err := json.Marshal(saved)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password123")
	assert.NotContains(t, string(raw), "a@b.com")
}

func TestResumability(t *testing.T) {
	ctx := context.Background()
	persist := NewMemoryPersistence()
	store := NewStore("user-1", persist)

	completeSteps(ctx, store, 3)
	store.SetCredentials(models.Credentials{Email: "x@y.com", Password: "supersecret", ConfirmPassword: "supersecret"})

	before := store.Snapshot()

	// Simulated reload: a brand new store hydrated from persistence alone.
	resumed := Resume(ctx, "user-1", persist)
	after := resumed.Snapshot()

	assert.Equal(t, before.CurrentStep, after.CurrentStep)
	assert.Equal(t, before.Sections, after.Sections)
	assert.Nil(t, after.Credentials)
}

func TestResumeWithNoSavedDraft(t *testing.T) {
	resumed := Resume(context.Background(), "nobody", NewMemoryPersistence())
	assert.Equal(t, models.FirstStep, resumed.CurrentStep())
	assert.Empty(t, resumed.Snapshot().Sections)
}

func TestNextStepRequiresValidAssertion(t *testing.T) {
	ctx := context.Background()
	store := NewStore("user-1", NewMemoryPersistence())

	assert.False(t, store.NextStep(ctx, false))
	assert.Equal(t, 1, store.CurrentStep())
}

func TestNextStepRefusesIncompleteStep(t *testing.T) {
	ctx := context.Background()
	store := NewStore("user-1", NewMemoryPersistence())

	// Current step has no saved section: even a stray "valid" assertion
	// cannot advance past it.
	assert.False(t, store.NextStep(ctx, true))
	assert.Equal(t, 1, store.CurrentStep())

	store.UpdateFormData(ctx, models.StepPharmacyInfo, payload("x"))
	assert.True(t, store.NextStep(ctx, true))
	assert.Equal(t, 2, store.CurrentStep())
}

func TestStepMonotonicity(t *testing.T) {
	ctx := context.Background()
	store := NewStore("user-1", NewMemoryPersistence())

	// prev at the lower boundary is a no-op
	store.PrevStep(ctx)
	assert.Equal(t, models.FirstStep, store.CurrentStep())

	completeSteps(ctx, store, 8)
	assert.Equal(t, models.LastStep, store.CurrentStep())

	// next at the upper boundary is a no-op
	assert.False(t, store.NextStep(ctx, true))
	assert.Equal(t, models.LastStep, store.CurrentStep())
}

func TestSetStepClamps(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		completed int
		jump      int
		want      int
	}{
		{"negative", 8, -5, 1},
		{"zero", 8, 0, 1},
		{"in range", 8, 4, 4},
		{"above range", 8, 99, 8},
		{"past highest completed", 2, 7, 3},
		{"nothing completed", 0, 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore("user-1", NewMemoryPersistence())
			for i := 1; i <= tt.completed; i++ {
				store.UpdateFormData(ctx, models.StepIDForNumber(i), payload("x"))
			}
			store.SetStep(ctx, tt.jump)
			assert.Equal(t, tt.want, store.CurrentStep())
		})
	}
}

func TestClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	persist := NewMemoryPersistence()
	store := NewStore("user-1", persist)

	completeSteps(ctx, store, 4)
	store.Clear(ctx)
	once := store.Snapshot()

	store.Clear(ctx)
	twice := store.Snapshot()

	assert.Equal(t, once, twice)
	assert.Equal(t, models.FirstStep, twice.CurrentStep)
	assert.Empty(t, twice.Sections)

	saved, err := persist.Load(ctx, Namespace, "user-1")
	require.NoError(t, err)
	assert.Nil(t, saved)
}

type failingPersistence struct{}

func (failingPersistence) Save(context.Context, models.PersistedDraft) error {
	return assert.AnError
}

func (failingPersistence) Load(context.Context, string, string) (*models.PersistedDraft, error) {
	return nil, assert.AnError
}

func (failingPersistence) Delete(context.Context, string, string) error {
	return assert.AnError
}

func TestPersistenceFailureDegradesToInMemory(t *testing.T) {
	ctx := context.Background()
	store := Resume(ctx, "user-1", failingPersistence{})

	// Mutations keep working against the in-memory draft.
	store.UpdateFormData(ctx, models.StepPharmacyInfo, payload("x"))
	assert.True(t, store.NextStep(ctx, true))
	assert.Equal(t, 2, store.CurrentStep())

	store.Clear(ctx)
	assert.Empty(t, store.Snapshot().Sections)
}
