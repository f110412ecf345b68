package record

import (
	"MeatSafe-Backend/domain"
	"MeatSafe-Backend/entities"
	"MeatSafe-Backend/pkg/freshness"
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// RecordService is the single owner of the meat record collection. Every
	// read and write of persisted records goes through it; handlers never see
	// the repository directly.
	RecordService interface {
		Create(ctx context.Context, userID string, verdict domain.Verdict, imageURL string) (domain.RecordResponse, error)
		ApplyRefinement(ctx context.Context, id string, userID string, verdict domain.Verdict) (domain.RecordResponse, error)
		UpdateStorageConfig(ctx context.Context, id string, userID string, req domain.UpdateStorageConfigRequest) (domain.RecordResponse, error)
		SetStatus(ctx context.Context, id string, userID string, status domain.RecordStatus) error
		GetRecords(ctx context.Context, userID string, status string, page, limit int) ([]domain.RecordResponse, int64, error)
		GetRecordByID(ctx context.Context, id string, userID string) (domain.RecordResponse, error)
		Delete(ctx context.Context, id string, userID string) error
		ClearAll(ctx context.Context, userID string) error
		GetDashboardStats(ctx context.Context, userID string) (domain.DashboardStatsResponse, error)
		IsTracked(meatType domain.MeatType) bool
		Subscribe(fn func())
	}

	recordService struct {
		recordRepository RecordRepository
		untracked        map[domain.MeatType]bool

		mu          sync.Mutex
		subscribers []func()
	}
)

func NewRecordService(recordRepository RecordRepository, untracked []domain.MeatType) RecordService {
	set := make(map[domain.MeatType]bool, len(untracked)+1)
	// The oracle's failure sentinel is never worth tracking.
	set[domain.MeatTypeUnknown] = true
	for _, t := range untracked {
		set[t] = true
	}
	return &recordService{
		recordRepository: recordRepository,
		untracked:        set,
	}
}

// Subscribe registers a callback fired after every successful mutation of the
// record collection. This replaces ambient cross-screen broadcasts with an
// explicit observer seam.
func (s *recordService) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *recordService) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

func (s *recordService) IsTracked(meatType domain.MeatType) bool {
	return !s.untracked[meatType]
}

func (s *recordService) Create(ctx context.Context, userID string, verdict domain.Verdict, imageURL string) (domain.RecordResponse, error) {
	if err := verdict.Validate(); err != nil {
		return domain.RecordResponse{}, err
	}
	if !s.IsTracked(verdict.MeatType) {
		return domain.RecordResponse{}, domain.ErrUntrackedMeatType
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecordResponse{}, domain.ErrParseUUID
	}

	scanTime := time.Now()
	config := domain.DefaultStorageConfig()

	deadline, err := freshness.ComputeDeadline(verdict.FreshnessLevel, config.Environment, config.Container, scanTime)
	if err != nil {
		return domain.RecordResponse{}, err
	}

	// A visibly bad cut is never presented as safely storing.
	status := domain.StatusStoring
	if verdict.FreshnessLevel >= domain.SpoilageLevel {
		status = domain.StatusExpired
	}

	rec := &entities.MeatRecord{
		ID:             uuid.New(),
		UserID:         userUUID,
		MeatType:       string(verdict.MeatType),
		FreshnessScore: verdict.FreshnessScore,
		FreshnessLevel: verdict.FreshnessLevel,
		SafetyStatus:   string(verdict.SafetyStatus),
		Observations:   marshalObservations(verdict.Observations),
		Summary:        verdict.Summary,
		ImageURL:       imageURL,
		ScanTime:       scanTime,
		Deadline:       deadline,
		Environment:    string(config.Environment),
		Container:      string(config.Container),
		Status:         string(status),
	}

	if err := s.recordRepository.CreateRecord(ctx, rec); err != nil {
		return domain.RecordResponse{}, err
	}

	s.notify()
	return s.toResponse(rec, time.Now()), nil
}

func (s *recordService) ApplyRefinement(ctx context.Context, id string, userID string, verdict domain.Verdict) (domain.RecordResponse, error) {
	if err := verdict.Validate(); err != nil {
		return domain.RecordResponse{}, err
	}

	rec, err := s.getOwnedRecord(ctx, id, userID)
	if err != nil {
		return domain.RecordResponse{}, err
	}

	// The deadline stays anchored to the original scan; only the freshness
	// level feeding it changes.
	deadline, err := freshness.ComputeDeadline(
		verdict.FreshnessLevel,
		domain.StorageEnvironment(rec.Environment),
		domain.ContainerType(rec.Container),
		rec.ScanTime,
	)
	if err != nil {
		return domain.RecordResponse{}, err
	}

	rec.MeatType = string(verdict.MeatType)
	rec.FreshnessScore = verdict.FreshnessScore
	rec.FreshnessLevel = verdict.FreshnessLevel
	rec.SafetyStatus = string(verdict.SafetyStatus)
	rec.Observations = marshalObservations(verdict.Observations)
	rec.Summary = verdict.Summary
	rec.Deadline = deadline

	// Terminal statuses survive refinement; everything else is re-evaluated
	// against the new level.
	if rec.Status != string(domain.StatusCooked) && rec.Status != string(domain.StatusDiscarded) {
		if verdict.FreshnessLevel >= domain.SpoilageLevel {
			rec.Status = string(domain.StatusExpired)
		} else {
			rec.Status = string(domain.StatusStoring)
		}
	}

	if err := s.recordRepository.UpdateRecord(ctx, rec); err != nil {
		return domain.RecordResponse{}, err
	}

	s.notify()
	return s.toResponse(rec, time.Now()), nil
}

func (s *recordService) UpdateStorageConfig(ctx context.Context, id string, userID string, req domain.UpdateStorageConfigRequest) (domain.RecordResponse, error) {
	if req.Environment == "" && req.Container == "" {
		return domain.RecordResponse{}, domain.ErrEmptyStorageUpdate
	}

	rec, err := s.getOwnedRecord(ctx, id, userID)
	if err != nil {
		return domain.RecordResponse{}, err
	}

	env := domain.StorageEnvironment(rec.Environment)
	if req.Environment != "" {
		if env, err = domain.ParseStorageEnvironment(req.Environment); err != nil {
			return domain.RecordResponse{}, err
		}
	}

	container := domain.ContainerType(rec.Container)
	if req.Container != "" {
		if container, err = domain.ParseContainerType(req.Container); err != nil {
			return domain.RecordResponse{}, err
		}
	}

	deadline, err := freshness.ComputeDeadline(rec.FreshnessLevel, env, container, rec.ScanTime)
	if err != nil {
		return domain.RecordResponse{}, err
	}

	rec.Environment = string(env)
	rec.Container = string(container)
	rec.Deadline = deadline

	// Editing storage conditions on a cooked or discarded item means the user
	// is keeping it after all.
	if rec.Status == string(domain.StatusCooked) || rec.Status == string(domain.StatusDiscarded) {
		rec.Status = string(domain.StatusStoring)
	}

	if err := s.recordRepository.UpdateRecord(ctx, rec); err != nil {
		return domain.RecordResponse{}, err
	}

	s.notify()
	return s.toResponse(rec, time.Now()), nil
}

func (s *recordService) SetStatus(ctx context.Context, id string, userID string, status domain.RecordStatus) error {
	if status != domain.StatusCooked && status != domain.StatusDiscarded {
		return domain.ErrStatusNotTerminal
	}

	rec, err := s.getOwnedRecord(ctx, id, userID)
	if err != nil {
		return err
	}

	// The UI hides the cooked action for spoiled meat, but the store defends
	// the invariant on its own.
	if status == domain.StatusCooked && rec.FreshnessLevel >= domain.SpoilageLevel {
		return domain.ErrCookSpoiledMeat
	}

	rec.Status = string(status)
	if err := s.recordRepository.UpdateRecord(ctx, rec); err != nil {
		return err
	}

	s.notify()
	return nil
}

func (s *recordService) GetRecords(ctx context.Context, userID string, status string, page, limit int) ([]domain.RecordResponse, int64, error) {
	records, err := s.recordRepository.GetRecords(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	filtered := make([]domain.RecordResponse, 0, len(records))
	for _, rec := range records {
		resp := s.toResponse(rec, now)
		if status != "" && status != "all" && string(resp.Status) != status {
			continue
		}
		filtered = append(filtered, resp)
	}

	count := int64(len(filtered))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	start := (page - 1) * limit
	if start >= len(filtered) {
		return []domain.RecordResponse{}, count, nil
	}
	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}

	return filtered[start:end], count, nil
}

func (s *recordService) GetRecordByID(ctx context.Context, id string, userID string) (domain.RecordResponse, error) {
	rec, err := s.getOwnedRecord(ctx, id, userID)
	if err != nil {
		return domain.RecordResponse{}, err
	}
	return s.toResponse(rec, time.Now()), nil
}

func (s *recordService) Delete(ctx context.Context, id string, userID string) error {
	if _, err := s.getOwnedRecord(ctx, id, userID); err != nil {
		return err
	}
	if err := s.recordRepository.DeleteRecord(ctx, id); err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *recordService) ClearAll(ctx context.Context, userID string) error {
	if err := s.recordRepository.ClearRecords(ctx, userID); err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *recordService) GetDashboardStats(ctx context.Context, userID string) (domain.DashboardStatsResponse, error) {
	records, err := s.recordRepository.GetRecords(ctx, userID)
	if err != nil {
		return domain.DashboardStatsResponse{}, err
	}

	now := time.Now()
	soonThreshold := now.Add(3 * 24 * time.Hour)

	stats := domain.DashboardStatsResponse{TotalRecords: len(records)}
	for _, rec := range records {
		switch DeriveDisplayStatus(rec, now) {
		case domain.StatusStoring:
			stats.StoringRecords++
			if rec.Deadline.Before(soonThreshold) {
				stats.ExpiringSoon++
			}
		case domain.StatusExpired:
			stats.ExpiredRecords++
		case domain.StatusCooked:
			stats.CookedRecords++
		case domain.StatusDiscarded:
			stats.DiscardedRecords++
		}
	}

	return stats, nil
}

func (s *recordService) getOwnedRecord(ctx context.Context, id string, userID string) (*entities.MeatRecord, error) {
	rec, err := s.recordRepository.GetRecordByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	if rec.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedAccess
	}
	return rec, nil
}

// DeriveDisplayStatus reports what the record looks like right now. Terminal
// states stick; otherwise the clock decides. It is computed on every read and
// never cached, so no background timer is needed to keep statuses honest.
func DeriveDisplayStatus(rec *entities.MeatRecord, now time.Time) domain.RecordStatus {
	switch domain.RecordStatus(rec.Status) {
	case domain.StatusCooked:
		return domain.StatusCooked
	case domain.StatusDiscarded:
		return domain.StatusDiscarded
	case domain.StatusExpired:
		return domain.StatusExpired
	}
	if now.After(rec.Deadline) {
		return domain.StatusExpired
	}
	return domain.StatusStoring
}

func (s *recordService) toResponse(rec *entities.MeatRecord, now time.Time) domain.RecordResponse {
	hoursLeft := 0
	if diff := rec.Deadline.Sub(now); diff > 0 {
		hoursLeft = int(math.Ceil(diff.Hours()))
	}

	return domain.RecordResponse{
		ID: rec.ID.String(),
		Verdict: domain.Verdict{
			MeatType:       domain.MeatType(rec.MeatType),
			FreshnessScore: rec.FreshnessScore,
			FreshnessLevel: rec.FreshnessLevel,
			SafetyStatus:   domain.SafetyStatus(rec.SafetyStatus),
			Observations:   unmarshalObservations(rec.Observations),
			Summary:        rec.Summary,
			CreatedAt:      rec.ScanTime,
		},
		ImageURL:      rec.ImageURL,
		Environment:   domain.StorageEnvironment(rec.Environment),
		Container:     domain.ContainerType(rec.Container),
		ScanTime:      rec.ScanTime,
		Deadline:      rec.Deadline,
		Status:        DeriveDisplayStatus(rec, now),
		HoursLeft:     hoursLeft,
		LastChangedAt: rec.UpdatedAt,
	}
}

func marshalObservations(observations []string) string {
	if len(observations) == 0 {
		return ""
	}
	data, err := json.Marshal(observations)
	if err != nil {
		return ""
	}
	return string(data)
}

func unmarshalObservations(raw string) []string {
	if raw == "" {
		return nil
	}
	var observations []string
	if err := json.Unmarshal([]byte(raw), &observations); err != nil {
		return nil
	}
	return observations
}
