package domain

import (
	"errors"
	"mime/multipart"
)

var (
	MessageSuccessStartScan  = "meat image analyzed successfully"
	MessageSuccessRefineScan = "analysis refined with sensory input"
	MessageSuccessResetScan  = "scan session reset"

	MessageFailedStartScan  = "failed to analyze meat image"
	MessageFailedRefineScan = "failed to refine analysis"
	MessageFailedResetScan  = "failed to reset scan session"

	// Transport-level oracle failures. The oracle itself never throws for bad
	// meat; it returns its own sentinel verdict instead.
	ErrClassificationFailed = errors.New("classification call failed")
	ErrRefinementFailed     = errors.New("refinement call failed")

	ErrMalformedOracleResponse = errors.New("malformed oracle response")

	ErrInvalidMeatType           = errors.New("invalid meat type")
	ErrInvalidSafetyStatus       = errors.New("invalid safety status")
	ErrInvalidFreshnessLevel     = errors.New("freshness level out of range")
	ErrInvalidFreshnessScore     = errors.New("freshness score out of range")
	ErrInvalidStorageEnvironment = errors.New("invalid storage environment")
	ErrInvalidContainerType      = errors.New("invalid container type")
	ErrInvalidSensoryScore       = errors.New("sensory score out of range")
	ErrInvalidRecordStatus       = errors.New("invalid record status")

	ErrNoActiveScan    = errors.New("no classified scan in this session")
	ErrScanInProgress  = errors.New("a classification is already in flight")
	ErrSessionNotFound = errors.New("scan session not found")
	ErrStaleScanResult = errors.New("scan result arrived after session reset")
)

type (
	StartScanRequest struct {
		Image *multipart.FileHeader `json:"image" form:"image" validate:"required"`
	}

	StartScanResponse struct {
		SessionID string          `json:"session_id"`
		Verdict   Verdict         `json:"verdict"`
		Tracked   bool            `json:"tracked"`
		Record    *RecordResponse `json:"record,omitempty"`
	}

	RefineScanRequest struct {
		SessionID string         `json:"session_id" validate:"required,uuid"`
		Sensory   SensoryReading `json:"sensory" validate:"required"`
	}

	RefineScanResponse struct {
		SessionID string          `json:"session_id"`
		Verdict   Verdict         `json:"verdict"`
		Tracked   bool            `json:"tracked"`
		Record    *RecordResponse `json:"record,omitempty"`
	}

	ResetScanRequest struct {
		SessionID string `json:"session_id" validate:"required,uuid"`
	}
)
