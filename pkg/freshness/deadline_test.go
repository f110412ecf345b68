package freshness

import (
	"MeatSafe-Backend/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func TestComputeDeadlineBaselineDurations(t *testing.T) {
	tests := []struct {
		name  string
		level int
		env   domain.StorageEnvironment
		want  time.Duration
	}{
		{"fridge level 1", 1, domain.EnvironmentRefrigerated, 4 * 24 * time.Hour},
		{"fridge level 2", 2, domain.EnvironmentRefrigerated, 3 * 24 * time.Hour},
		{"fridge level 3", 3, domain.EnvironmentRefrigerated, 24 * time.Hour},
		{"freezer level 1", 1, domain.EnvironmentFrozen, 90 * 24 * time.Hour},
		{"freezer level 2", 2, domain.EnvironmentFrozen, 60 * 24 * time.Hour},
		{"freezer level 3", 3, domain.EnvironmentFrozen, 7 * 24 * time.Hour},
		{"ambient level 1", 1, domain.EnvironmentAmbient, 4 * time.Hour},
		{"ambient level 2", 2, domain.EnvironmentAmbient, 2 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deadline, err := ComputeDeadline(tt.level, tt.env, domain.ContainerBagOrWrap, start)
			require.NoError(t, err)
			assert.Equal(t, start.Add(tt.want), deadline)
		})
	}
}

func TestComputeDeadlineSpoiledLevelsHaveNoWindow(t *testing.T) {
	for _, env := range []domain.StorageEnvironment{
		domain.EnvironmentRefrigerated,
		domain.EnvironmentFrozen,
		domain.EnvironmentAmbient,
	} {
		for _, level := range []int{4, 5} {
			deadline, err := ComputeDeadline(level, env, domain.ContainerSealedBox, start)
			require.NoError(t, err)
			// No container upgrades a spoiled cut; the deadline is the scan.
			assert.Equal(t, start, deadline, "env=%s level=%d", env, level)
		}
	}

	// Ambient already closes at level 3.
	deadline, err := ComputeDeadline(3, domain.EnvironmentAmbient, domain.ContainerNone, start)
	require.NoError(t, err)
	assert.Equal(t, start, deadline)
}

func TestComputeDeadlineContainerModifiers(t *testing.T) {
	tests := []struct {
		name      string
		level     int
		env       domain.StorageEnvironment
		container domain.ContainerType
		want      time.Duration
	}{
		{"sealed box adds a flat hour at ambient", 1, domain.EnvironmentAmbient, domain.ContainerSealedBox, 5 * time.Hour},
		{"sealed box stretches fridge by 10 percent", 2, domain.EnvironmentRefrigerated, domain.ContainerSealedBox, 3*24*time.Hour + 3*24*time.Hour/10},
		{"no container halves freezer life", 1, domain.EnvironmentFrozen, domain.ContainerNone, 45 * 24 * time.Hour},
		{"no container cuts fridge to 80 percent", 1, domain.EnvironmentRefrigerated, domain.ContainerNone, 4 * 24 * time.Hour * 8 / 10},
		{"bag is the baseline", 1, domain.EnvironmentRefrigerated, domain.ContainerBagOrWrap, 4 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deadline, err := ComputeDeadline(tt.level, tt.env, tt.container, start)
			require.NoError(t, err)
			assert.Equal(t, start.Add(tt.want), deadline)
		})
	}
}

func TestComputeDeadlineRejectsInvalidInput(t *testing.T) {
	_, err := ComputeDeadline(0, domain.EnvironmentRefrigerated, domain.ContainerBagOrWrap, start)
	assert.ErrorIs(t, err, domain.ErrInvalidFreshnessLevel)

	_, err = ComputeDeadline(6, domain.EnvironmentRefrigerated, domain.ContainerBagOrWrap, start)
	assert.ErrorIs(t, err, domain.ErrInvalidFreshnessLevel)

	_, err = ComputeDeadline(1, "cellar", domain.ContainerBagOrWrap, start)
	assert.ErrorIs(t, err, domain.ErrInvalidStorageEnvironment)

	_, err = ComputeDeadline(1, domain.EnvironmentRefrigerated, "vacuum", start)
	assert.ErrorIs(t, err, domain.ErrInvalidContainerType)

	// Container is still validated even when the level has no window at all.
	_, err = ComputeDeadline(5, domain.EnvironmentRefrigerated, "vacuum", start)
	assert.ErrorIs(t, err, domain.ErrInvalidContainerType)
}

func TestComputeDeadlineFreezerUpgradeScenario(t *testing.T) {
	// A level 1 cut defaults to fridge+bag (4 days); moving it to a sealed box
	// in the freezer stretches the same scan anchor to 99 days.
	initial, err := ComputeDeadline(1, domain.EnvironmentRefrigerated, domain.ContainerBagOrWrap, start)
	require.NoError(t, err)
	assert.Equal(t, start.Add(4*24*time.Hour), initial)

	upgraded, err := ComputeDeadline(1, domain.EnvironmentFrozen, domain.ContainerSealedBox, start)
	require.NoError(t, err)
	assert.Equal(t, start.Add(99*24*time.Hour), upgraded)
}

func TestComputeDeadlineIsPure(t *testing.T) {
	first, err := ComputeDeadline(2, domain.EnvironmentFrozen, domain.ContainerSealedBox, start)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := ComputeDeadline(2, domain.EnvironmentFrozen, domain.ContainerSealedBox, start)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
