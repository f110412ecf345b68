package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetRecords    = "records retrieved successfully"
	MessageSuccessUpdateStorage = "storage configuration updated"
	MessageSuccessSetStatus     = "record status updated"
	MessageSuccessDeleteRecord  = "record deleted successfully"
	MessageSuccessClearRecords  = "all records cleared"
	MessageSuccessGetDashboard  = "dashboard statistics retrieved successfully"

	MessageFailedGetRecords    = "failed to retrieve records"
	MessageFailedUpdateStorage = "failed to update storage configuration"
	MessageFailedSetStatus     = "failed to update record status"
	MessageFailedDeleteRecord  = "failed to delete record"
	MessageFailedClearRecords  = "failed to clear records"
	MessageFailedGetDashboard  = "failed to retrieve dashboard statistics"

	ErrRecordNotFound      = errors.New("record not found")
	ErrUnauthorizedAccess  = errors.New("unauthorized access to record")
	ErrUntrackedMeatType   = errors.New("meat type is not tracked in storage")
	ErrCookSpoiledMeat     = errors.New("spoiled meat cannot be marked as cooked")
	ErrStatusNotTerminal   = errors.New("status can only be set to cooked or discarded")
	ErrEmptyStorageUpdate  = errors.New("storage update carries no changes")
)

type (
	UpdateStorageConfigRequest struct {
		Environment string `json:"environment" validate:"omitempty,oneof=refrigerated frozen ambient"`
		Container   string `json:"container" validate:"omitempty,oneof=sealed_box bag_or_wrap none"`
	}

	SetStatusRequest struct {
		Status string `json:"status" validate:"required,oneof=cooked discarded"`
	}

	RecordResponse struct {
		ID            string             `json:"id"`
		Verdict       Verdict            `json:"verdict"`
		ImageURL      string             `json:"image_url,omitempty"`
		Environment   StorageEnvironment `json:"environment"`
		Container     ContainerType      `json:"container"`
		ScanTime      time.Time          `json:"scan_time"`
		Deadline      time.Time          `json:"deadline"`
		Status        RecordStatus       `json:"status"`
		HoursLeft     int                `json:"hours_left"`
		LastChangedAt time.Time          `json:"last_changed_at"`
	}

	DashboardStatsResponse struct {
		TotalRecords     int `json:"total_records"`
		StoringRecords   int `json:"storing_records"`
		ExpiredRecords   int `json:"expired_records"`
		CookedRecords    int `json:"cooked_records"`
		DiscardedRecords int `json:"discarded_records"`
		ExpiringSoon     int `json:"expiring_soon"`
	}
)
