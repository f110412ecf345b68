package record

import (
	"MeatSafe-Backend/domain"
	"MeatSafe-Backend/entities"
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRecordRepository struct {
	records map[string]*entities.MeatRecord
	seq     int
}

func newFakeRecordRepository() *fakeRecordRepository {
	return &fakeRecordRepository{records: make(map[string]*entities.MeatRecord)}
}

func (f *fakeRecordRepository) touch(rec *entities.MeatRecord) {
	// Monotonic UpdatedAt so ordering is deterministic within a fast test.
	f.seq++
	rec.UpdatedAt = time.Now().Add(time.Duration(f.seq) * time.Millisecond)
}

func (f *fakeRecordRepository) CreateRecord(_ context.Context, rec *entities.MeatRecord) error {
	f.touch(rec)
	f.records[rec.ID.String()] = rec
	return nil
}

func (f *fakeRecordRepository) GetRecordByID(_ context.Context, id string) (*entities.MeatRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *rec
	return &clone, nil
}

func (f *fakeRecordRepository) UpdateRecord(_ context.Context, rec *entities.MeatRecord) error {
	if _, ok := f.records[rec.ID.String()]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.touch(rec)
	f.records[rec.ID.String()] = rec
	return nil
}

func (f *fakeRecordRepository) DeleteRecord(_ context.Context, id string) error {
	delete(f.records, id)
	return nil
}

func (f *fakeRecordRepository) GetRecords(_ context.Context, userID string) ([]*entities.MeatRecord, error) {
	var out []*entities.MeatRecord
	for _, rec := range f.records {
		if rec.UserID.String() == userID {
			clone := *rec
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (f *fakeRecordRepository) GetRecordsExpiringBetween(_ context.Context, start, end time.Time) ([]*entities.MeatRecord, error) {
	var out []*entities.MeatRecord
	for _, rec := range f.records {
		if rec.Status == string(domain.StatusStoring) && !rec.Deadline.Before(start) && !rec.Deadline.After(end) {
			clone := *rec
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeRecordRepository) ClearRecords(_ context.Context, userID string) error {
	for id, rec := range f.records {
		if rec.UserID.String() == userID {
			delete(f.records, id)
		}
	}
	return nil
}

func freshVerdict(meatType domain.MeatType, level int) domain.Verdict {
	return domain.Verdict{
		MeatType:       meatType,
		FreshnessScore: 100 - level*15,
		FreshnessLevel: level,
		SafetyStatus:   domain.SafetyStatusForLevel(level),
		Observations:   []string{"pink color", "white fat"},
		Summary:        "test verdict",
		CreatedAt:      time.Now(),
	}
}

func newTestService(repo RecordRepository) RecordService {
	return NewRecordService(repo, []domain.MeatType{domain.MeatTypeBeef, domain.MeatTypeChicken})
}

func TestCreateRecordDefaultsAndDeadline(t *testing.T) {
	repo := newFakeRecordRepository()
	svc := newTestService(repo)
	userID := uuid.New().String()

	res, err := svc.Create(context.Background(), userID, freshVerdict(domain.MeatTypePork, 1), "https://img")
	require.NoError(t, err)

	assert.Equal(t, domain.EnvironmentRefrigerated, res.Environment)
	assert.Equal(t, domain.ContainerBagOrWrap, res.Container)
	assert.Equal(t, domain.StatusStoring, res.Status)
	assert.Equal(t, res.ScanTime.Add(4*24*time.Hour), res.Deadline)
	assert.Equal(t, "https://img", res.ImageURL)
	assert.Equal(t, 4*24, res.HoursLeft)
}

func TestCreateRecordRejectsUntrackedTypes(t *testing.T) {
	svc := newTestService(newFakeRecordRepository())
	userID := uuid.New().String()

	for _, meatType := range []domain.MeatType{domain.MeatTypeBeef, domain.MeatTypeChicken, domain.MeatTypeUnknown} {
		_, err := svc.Create(context.Background(), userID, freshVerdict(meatType, 1), "")
		assert.ErrorIs(t, err, domain.ErrUntrackedMeatType, "meat type %s", meatType)
	}

	assert.False(t, svc.IsTracked(domain.MeatTypeUnknown))
	assert.True(t, svc.IsTracked(domain.MeatTypePork))
}

func TestCreateRecordSpoiledIsExpiredImmediately(t *testing.T) {
	svc := newTestService(newFakeRecordRepository())
	userID := uuid.New().String()

	res, err := svc.Create(context.Background(), userID, freshVerdict(domain.MeatTypePork, 4), "")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusExpired, res.Status)
	assert.Equal(t, res.ScanTime, res.Deadline)
	assert.Equal(t, 0, res.HoursLeft)
}

func TestApplyRefinementOverwritesInPlace(t *testing.T) {
	repo := newFakeRecordRepository()
	svc := newTestService(repo)
	userID := uuid.New().String()

	created, err := svc.Create(context.Background(), userID, freshVerdict(domain.MeatTypePork, 1), "")
	require.NoError(t, err)

	refined := freshVerdict(domain.MeatTypePork, 3)
	updated, err := svc.ApplyRefinement(context.Background(), created.ID, userID, refined)
	require.NoError(t, err)

	// Same record, new verdict, deadline still anchored to the original scan.
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 3, updated.Verdict.FreshnessLevel)
	assert.Equal(t, created.ScanTime, updated.ScanTime)
	assert.Equal(t, created.ScanTime.Add(24*time.Hour), updated.Deadline)
	assert.Len(t, repo.records, 1)
}

func TestApplyRefinementToSpoiledExpiresRecord(t *testing.T) {
	svc := newTestService(newFakeRecordRepository())
	userID := uuid.New().String()

	created, err := svc.Create(context.Background(), userID, freshVerdict(domain.MeatTypePork, 2), "")
	require.NoError(t, err)

	updated, err := svc.ApplyRefinement(context.Background(), created.ID, userID, freshVerdict(domain.MeatTypePork, 5))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusExpired, updated.Status)
	assert.Equal(t, created.ScanTime, updated.Deadline)
}

func TestApplyRefinementKeepsTerminalStatus(t *testing.T) {
	svc := newTestService(newFakeRecordRepository())
	userID := uuid.New().String()

	created, err := svc.Create(context.Background(), userID, freshVerdict(domain.MeatTypePork, 2), "")
	require.NoError(t, err)
	require.NoError(t, svc.SetStatus(context.Background(), created.ID, userID, domain.StatusCooked))

	updated, err := svc.ApplyRefinement(context.Background(), created.ID, userID, freshVerdict(domain.MeatTypePork, 1))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCooked, updated.Status)
}

func TestUpdateStorageConfigRecomputesFromScanTime(t *testing.T) {
	svc := newTestService(newFakeRecordRepository())
	userID := uuid.New().String()

	created, err := svc.Create(context.Background(), userID, freshVerdict(domain.MeatTypePork, 1), "")
	require.NoError(t, err)

	updated, err := svc.UpdateStorageConfig(context.Background(), created.ID, userID, domain.UpdateStorageConfigRequest{
		Environment: "frozen",
	})
	require.NoError(t, err)

	// Environment changed, container untouched, deadline from the original scan.
	assert.Equal(t, domain.EnvironmentFrozen, updated.Environment)
	assert.Equal(t, domain.ContainerBagOrWrap, updated.Container)
	assert.Equal(t, created.ScanTime.Add(90*24*time.Hour), updated.Deadline)
}

func TestUpdateStorageConfigRejectsEmptyUpdate(t *testing.T) {
	svc := newTestService(newFakeRecordRepository())
	userID := uuid.New().String()

	created, err := svc.Create(context.Background(), userID, freshVerdict(domain.MeatTypePork, 1), "")
	require.NoError(t, err)

	_, err = svc.UpdateStorageConfig(context.Background(), created.ID, userID, domain.UpdateStorageConfigRequest{})
	assert.ErrorIs(t, err, domain.ErrEmptyStorageUpdate)
}

func TestUpdateStorageConfigRevivesTerminalRecord(t *testing.T) {
	svc := newTestService(newFakeRecordRepository())
	userID := uuid.New().String()

	created, err := svc.Create(context.Background(), userID, freshVerdict(domain.MeatTypePork, 1), "")
	require.NoError(t, err)
	require.NoError(t, svc.SetStatus(context.Background(), created.ID, userID, domain.StatusDiscarded))

	// Editing storage on a discarded item means the user kept it after all.
	updated, err := svc.UpdateStorageConfig(context.Background(), created.ID, userID, domain.UpdateStorageConfigRequest{
		Container: "sealed_box",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusStoring, updated.Status)
}

func TestSetStatusRules(t *testing.T) {
	svc := newTestService(newFakeRecordRepository())
	userID := uuid.New().String()

	created, err := svc.Create(context.Background(), userID, freshVerdict(domain.MeatTypePork, 2), "")
	require.NoError(t, err)

	err = svc.SetStatus(context.Background(), created.ID, userID, domain.StatusStoring)
	assert.ErrorIs(t, err, domain.ErrStatusNotTerminal)

	err = svc.SetStatus(context.Background(), created.ID, userID, domain.StatusExpired)
	assert.ErrorIs(t, err, domain.ErrStatusNotTerminal)

	require.NoError(t, svc.SetStatus(context.Background(), created.ID, userID, domain.StatusCooked))

	got, err := svc.GetRecordByID(context.Background(), created.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCooked, got.Status)
}

func TestSetStatusCookedRejectedForSpoiledMeat(t *testing.T) {
	svc := newTestService(newFakeRecordRepository())
	userID := uuid.New().String()

	created, err := svc.Create(context.Background(), userID, freshVerdict(domain.MeatTypePork, 4), "")
	require.NoError(t, err)

	err = svc.SetStatus(context.Background(), created.ID, userID, domain.StatusCooked)
	assert.ErrorIs(t, err, domain.ErrCookSpoiledMeat)

	// Discarding spoiled meat is always allowed.
	assert.NoError(t, svc.SetStatus(context.Background(), created.ID, userID, domain.StatusDiscarded))
}

func TestDisplayStatusDerivedFromDeadlineOnRead(t *testing.T) {
	repo := newFakeRecordRepository()
	svc := newTestService(repo)
	userID := uuid.New().String()

	created, err := svc.Create(context.Background(), userID, freshVerdict(domain.MeatTypePork, 1), "")
	require.NoError(t, err)

	// Push the stored deadline into the past without touching the status
	// column; the read must still report expired.
	stored := repo.records[created.ID]
	stored.Deadline = time.Now().Add(-time.Hour)
	require.Equal(t, string(domain.StatusStoring), stored.Status)

	got, err := svc.GetRecordByID(context.Background(), created.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusExpired, got.Status)
	assert.Equal(t, 0, got.HoursLeft)
}

func TestGetRecordsFilterAndPagination(t *testing.T) {
	repo := newFakeRecordRepository()
	svc := newTestService(repo)
	userID := uuid.New().String()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(context.Background(), userID, freshVerdict(domain.MeatTypePork, 1), "")
		require.NoError(t, err)
	}
	cooked, err := svc.Create(context.Background(), userID, freshVerdict(domain.MeatTypePork, 2), "")
	require.NoError(t, err)
	require.NoError(t, svc.SetStatus(context.Background(), cooked.ID, userID, domain.StatusCooked))

	all, count, err := svc.GetRecords(context.Background(), userID, "all", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(6), count)
	assert.Len(t, all, 6)

	// Most recently touched first; the cooked record was mutated last.
	assert.Equal(t, cooked.ID, all[0].ID)

	storing, count, err := svc.GetRecords(context.Background(), userID, "storing", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
	for _, rec := range storing {
		assert.Equal(t, domain.StatusStoring, rec.Status)
	}

	page2, count, err := svc.GetRecords(context.Background(), userID, "all", 2, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(6), count)
	assert.Len(t, page2, 2)

	empty, _, err := svc.GetRecords(context.Background(), userID, "all", 9, 4)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRecordsAreScopedToOwner(t *testing.T) {
	svc := newTestService(newFakeRecordRepository())
	owner := uuid.New().String()
	intruder := uuid.New().String()

	created, err := svc.Create(context.Background(), owner, freshVerdict(domain.MeatTypePork, 1), "")
	require.NoError(t, err)

	_, err = svc.GetRecordByID(context.Background(), created.ID, intruder)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedAccess)

	err = svc.Delete(context.Background(), created.ID, intruder)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedAccess)

	_, err = svc.GetRecordByID(context.Background(), uuid.New().String(), owner)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestClearAllRemovesOnlyOwnRecords(t *testing.T) {
	repo := newFakeRecordRepository()
	svc := newTestService(repo)
	alice := uuid.New().String()
	bob := uuid.New().String()

	_, err := svc.Create(context.Background(), alice, freshVerdict(domain.MeatTypePork, 1), "")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), bob, freshVerdict(domain.MeatTypePork, 1), "")
	require.NoError(t, err)

	require.NoError(t, svc.ClearAll(context.Background(), alice))

	_, count, err := svc.GetRecords(context.Background(), alice, "all", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	_, count, err = svc.GetRecords(context.Background(), bob, "all", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSubscribersNotifiedOnEveryMutation(t *testing.T) {
	svc := newTestService(newFakeRecordRepository())
	userID := uuid.New().String()

	var notifications int
	svc.Subscribe(func() { notifications++ })

	created, err := svc.Create(context.Background(), userID, freshVerdict(domain.MeatTypePork, 1), "")
	require.NoError(t, err)
	require.NoError(t, svc.SetStatus(context.Background(), created.ID, userID, domain.StatusCooked))
	require.NoError(t, svc.Delete(context.Background(), created.ID, userID))

	assert.Equal(t, 3, notifications)

	// Reads never notify.
	_, _, err = svc.GetRecords(context.Background(), userID, "all", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 3, notifications)
}

func TestDashboardStats(t *testing.T) {
	repo := newFakeRecordRepository()
	svc := newTestService(repo)
	userID := uuid.New().String()

	_, err := svc.Create(context.Background(), userID, freshVerdict(domain.MeatTypePork, 1), "")
	require.NoError(t, err)

	cooked, err := svc.Create(context.Background(), userID, freshVerdict(domain.MeatTypePork, 2), "")
	require.NoError(t, err)
	require.NoError(t, svc.SetStatus(context.Background(), cooked.ID, userID, domain.StatusCooked))

	_, err = svc.Create(context.Background(), userID, freshVerdict(domain.MeatTypePork, 5), "")
	require.NoError(t, err)

	// Level 3 refrigerated expires within a day, so it counts as expiring soon.
	_, err = svc.Create(context.Background(), userID, freshVerdict(domain.MeatTypePork, 3), "")
	require.NoError(t, err)

	stats, err := svc.GetDashboardStats(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalRecords)
	assert.Equal(t, 2, stats.StoringRecords)
	assert.Equal(t, 1, stats.CookedRecords)
	assert.Equal(t, 1, stats.ExpiredRecords)
	assert.Equal(t, 1, stats.ExpiringSoon)
}
