package freshness

import (
	"MeatSafe-Backend/domain"
)

// ApplyOverridePolicy validates a refined verdict against the sensory override
// contract and corrects it where the oracle strayed. The rules:
//
//  1. Smell or slime at/above the override threshold forces level 4 or 5, no
//     matter how clean the image looked.
//  2. When every sensory channel is unremarkable, the refinement may improve
//     on the visual level by at most one band, so touch input cannot make a
//     visually bad cut look pristine.
//
// The returned verdict is a value copy; prior and refined are never mutated.
func ApplyOverridePolicy(prior domain.Verdict, reading domain.SensoryReading, refined domain.Verdict) domain.Verdict {
	out := refined

	if reading.ForcesSpoilage() && out.FreshnessLevel < domain.SpoilageLevel {
		out.FreshnessLevel = domain.SpoilageLevel
		if out.FreshnessScore > 40 {
			out.FreshnessScore = 40
		}
	}

	if reading.AllLow() {
		floor := prior.FreshnessLevel - 1
		if floor < domain.MinFreshnessLevel {
			floor = domain.MinFreshnessLevel
		}
		if out.FreshnessLevel < floor {
			out.FreshnessLevel = floor
		}
	}

	if out.FreshnessLevel != refined.FreshnessLevel {
		out.SafetyStatus = domain.SafetyStatusForLevel(out.FreshnessLevel)
	}

	return out
}
