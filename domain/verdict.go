package domain

import (
	"fmt"
	"time"
)

// Enum values mirror what the Gemini response schema is allowed to return.
// Anything outside these sets is rejected during reconstruction, never stored.

type MeatType string

const (
	MeatTypePork    MeatType = "pork"
	MeatTypeBeef    MeatType = "beef"
	MeatTypeChicken MeatType = "chicken"
	MeatTypeUnknown MeatType = "unknown"
)

type SafetyStatus string

const (
	SafetyStatusSafe    SafetyStatus = "safe"
	SafetyStatusCaution SafetyStatus = "caution"
	SafetyStatusDanger  SafetyStatus = "danger"
	SafetyStatusUnknown SafetyStatus = "unknown"
)

type StorageEnvironment string

const (
	EnvironmentRefrigerated StorageEnvironment = "refrigerated"
	EnvironmentFrozen       StorageEnvironment = "frozen"
	EnvironmentAmbient      StorageEnvironment = "ambient"
)

type ContainerType string

const (
	ContainerSealedBox ContainerType = "sealed_box"
	ContainerBagOrWrap ContainerType = "bag_or_wrap"
	ContainerNone      ContainerType = "none"
)

type RecordStatus string

const (
	StatusStoring   RecordStatus = "storing"
	StatusCooked    RecordStatus = "cooked"
	StatusDiscarded RecordStatus = "discarded"
	StatusExpired   RecordStatus = "expired"
)

const (
	// Freshness level 4 and worse means no safe storage window remains.
	SpoilageLevel = 4

	MinFreshnessLevel = 1
	MaxFreshnessLevel = 5
)

func ParseMeatType(s string) (MeatType, error) {
	switch MeatType(s) {
	case MeatTypePork, MeatTypeBeef, MeatTypeChicken, MeatTypeUnknown:
		return MeatType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMeatType, s)
}

func ParseSafetyStatus(s string) (SafetyStatus, error) {
	switch SafetyStatus(s) {
	case SafetyStatusSafe, SafetyStatusCaution, SafetyStatusDanger, SafetyStatusUnknown:
		return SafetyStatus(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSafetyStatus, s)
}

func ParseStorageEnvironment(s string) (StorageEnvironment, error) {
	switch StorageEnvironment(s) {
	case EnvironmentRefrigerated, EnvironmentFrozen, EnvironmentAmbient:
		return StorageEnvironment(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStorageEnvironment, s)
}

func ParseContainerType(s string) (ContainerType, error) {
	switch ContainerType(s) {
	case ContainerSealedBox, ContainerBagOrWrap, ContainerNone:
		return ContainerType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidContainerType, s)
}

func ParseRecordStatus(s string) (RecordStatus, error) {
	switch RecordStatus(s) {
	case StatusStoring, StatusCooked, StatusDiscarded, StatusExpired:
		return RecordStatus(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRecordStatus, s)
}

// SafetyStatusForLevel keeps the displayed status consistent with the freshness
// level whenever the engine adjusts a level the oracle returned.
func SafetyStatusForLevel(level int) SafetyStatus {
	switch {
	case level <= 2:
		return SafetyStatusSafe
	case level == 3:
		return SafetyStatusCaution
	default:
		return SafetyStatusDanger
	}
}

// Verdict is an immutable freshness classification. Refinement produces a new
// Verdict that replaces the prior one wholesale; fields are never patched.
type Verdict struct {
	MeatType       MeatType     `json:"meat_type"`
	FreshnessScore int          `json:"freshness_score"`
	FreshnessLevel int          `json:"freshness_level"`
	SafetyStatus   SafetyStatus `json:"safety_status"`
	Observations   []string     `json:"observations"`
	Summary        string       `json:"summary"`
	CreatedAt      time.Time    `json:"created_at"`
}

func (v Verdict) Validate() error {
	if _, err := ParseMeatType(string(v.MeatType)); err != nil {
		return err
	}
	if _, err := ParseSafetyStatus(string(v.SafetyStatus)); err != nil {
		return err
	}
	if v.FreshnessLevel < MinFreshnessLevel || v.FreshnessLevel > MaxFreshnessLevel {
		return fmt.Errorf("%w: %d", ErrInvalidFreshnessLevel, v.FreshnessLevel)
	}
	if v.FreshnessScore < 0 || v.FreshnessScore > 100 {
		return fmt.Errorf("%w: score %d", ErrInvalidFreshnessScore, v.FreshnessScore)
	}
	return nil
}

// SensoryReading is user-supplied severity input, 0 = pristine, 100 = worst.
type SensoryReading struct {
	Odor      int `json:"odor" validate:"min=0,max=100"`
	Texture   int `json:"texture" validate:"min=0,max=100"`
	Sliminess int `json:"sliminess" validate:"min=0,max=100"`
	DripLoss  int `json:"drip_loss" validate:"min=0,max=100"`
}

const (
	// A smell or slime score at or above this forces a spoiled verdict,
	// regardless of how clean the image looked.
	SensoryOverrideThreshold = 60

	// Below this every channel counts as unremarkable, which caps how far a
	// refinement may improve on the visual verdict.
	SensoryLowThreshold = 40
)

func (r SensoryReading) Validate() error {
	for _, score := range []int{r.Odor, r.Texture, r.Sliminess, r.DripLoss} {
		if score < 0 || score > 100 {
			return fmt.Errorf("%w: %d", ErrInvalidSensoryScore, score)
		}
	}
	return nil
}

func (r SensoryReading) ForcesSpoilage() bool {
	return r.Odor >= SensoryOverrideThreshold || r.Sliminess >= SensoryOverrideThreshold
}

func (r SensoryReading) AllLow() bool {
	return r.Odor < SensoryLowThreshold &&
		r.Texture < SensoryLowThreshold &&
		r.Sliminess < SensoryLowThreshold &&
		r.DripLoss < SensoryLowThreshold
}

// StorageConfig describes where and how a scanned item is kept.
type StorageConfig struct {
	Environment StorageEnvironment `json:"environment"`
	Container   ContainerType      `json:"container"`
}

func (c StorageConfig) Validate() error {
	if _, err := ParseStorageEnvironment(string(c.Environment)); err != nil {
		return err
	}
	if _, err := ParseContainerType(string(c.Container)); err != nil {
		return err
	}
	return nil
}

// DefaultStorageConfig is assumed at record creation; the user adjusts it
// afterwards and the deadline is recomputed.
func DefaultStorageConfig() StorageConfig {
	return StorageConfig{
		Environment: EnvironmentRefrigerated,
		Container:   ContainerBagOrWrap,
	}
}
