package freshness

import (
	"MeatSafe-Backend/domain"
	"fmt"
	"time"
)

// Base storage durations by environment and freshness level (index level-1).
// Level 4 and 5 have no safe storage window anywhere; ambient already closes
// at level 3.
var baseDurations = map[domain.StorageEnvironment][domain.MaxFreshnessLevel]time.Duration{
	domain.EnvironmentRefrigerated: {
		4 * 24 * time.Hour,
		3 * 24 * time.Hour,
		1 * 24 * time.Hour,
		0,
		0,
	},
	domain.EnvironmentFrozen: {
		90 * 24 * time.Hour,
		60 * 24 * time.Hour,
		7 * 24 * time.Hour,
		0,
		0,
	},
	domain.EnvironmentAmbient: {
		4 * time.Hour,
		2 * time.Hour,
		0,
		0,
		0,
	},
}

// ComputeDeadline maps a freshness level and storage conditions to the absolute
// timestamp after which the item counts as expired. Pure and idempotent: it is
// called at record creation and again on every storage edit, always anchored to
// the original scan time. Out-of-range input is rejected, never clamped.
func ComputeDeadline(level int, env domain.StorageEnvironment, container domain.ContainerType, startTime time.Time) (time.Time, error) {
	if level < domain.MinFreshnessLevel || level > domain.MaxFreshnessLevel {
		return time.Time{}, fmt.Errorf("%w: %d", domain.ErrInvalidFreshnessLevel, level)
	}

	durations, ok := baseDurations[env]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidStorageEnvironment, env)
	}

	duration := durations[level-1]
	if duration == 0 {
		// Past the safe-storage threshold nothing buys extra time, not even a
		// sealed container. The deadline is the scan itself.
		if _, err := domain.ParseContainerType(string(container)); err != nil {
			return time.Time{}, err
		}
		return startTime, nil
	}

	switch container {
	case domain.ContainerSealedBox:
		if env == domain.EnvironmentAmbient {
			duration += time.Hour
		} else {
			duration = duration * 11 / 10
		}
	case domain.ContainerNone:
		if env == domain.EnvironmentFrozen {
			// Unwrapped frozen meat freezer-burns quickly.
			duration = duration / 2
		} else {
			duration = duration * 8 / 10
		}
	case domain.ContainerBagOrWrap:
		// Baseline, no modifier.
	default:
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidContainerType, container)
	}

	return startTime.Add(duration), nil
}
