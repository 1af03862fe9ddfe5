package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yasmngoncalves/PolarisApp/internal"
	"github.com/yasmngoncalves/PolarisApp/internal/aggregate"
	"github.com/yasmngoncalves/PolarisApp/internal/cache"
	"github.com/yasmngoncalves/PolarisApp/internal/storage"
)

func TestBuildDashboard(t *testing.T) {
	j, store, _ := setupJournal(t)
	ctx := context.Background()
	now := at("2024-07-17", 22)
	require.NoError(t, store.CreateProfile(ctx, &internal.UserProfile{ID: "u1", Email: "u1@example.com", WaterGoal: 2500, SleepGoal: 7}))

	_, err := j.SaveMood(ctx, "u1", "2024-07-15", &MoodRequest{Mood: "happy", Intensity: 8}, now)
	require.NoError(t, err)
	_, err = j.SaveSleep(ctx, "u1", "2024-07-16", &SleepRequest{Duration: ptr(7.5), Quality: "good"}, now)
	require.NoError(t, err)
	_, err = j.AddWater(ctx, "u1", &WaterRequest{Amount: 500, LoggedAt: ptr(at("2024-07-17", 9))}, now)
	require.NoError(t, err)
	meds, err := j.AddMedications(ctx, "u1", &AddMedicationsRequest{Medications: []MedicationInput{{Name: "A"}, {Name: "B"}}}, now)
	require.NoError(t, err)
	_, err = j.ToggleMedication(ctx, "u1", meds[0].ID, "2024-07-17", now)
	require.NoError(t, err)

	dash, err := j.BuildDashboard(ctx, "u1", 3, now)
	require.NoError(t, err)
	assert.False(t, dash.Cached)
	assert.Equal(t, 3, dash.Period)
	assert.Equal(t, 2500, dash.WaterGoal)
	assert.Equal(t, 7.0, dash.SleepGoal)

	require.Len(t, dash.Days, 3)
	assert.Equal(t, "2024-07-15", dash.Days[0].FullDate)
	assert.Equal(t, "Jul 15", dash.Days[0].Date)
	assert.Equal(t, "happy", dash.Days[0].Mood)
	assert.Equal(t, 7.5, dash.Days[1].Duration)
	assert.Equal(t, 500, dash.Days[2].Water)

	require.Len(t, dash.Adherence, 3)
	assert.Equal(t, aggregate.StatusMissed, dash.Adherence[0].Status)
	assert.Equal(t, aggregate.StatusPartial, dash.Adherence[2].Status)
	assert.Equal(t, 1, dash.Adherence[2].TakenCount)
	assert.Equal(t, 2, dash.Adherence[2].TotalCount)
}

func TestBuildDashboard_CachesUntilWrite(t *testing.T) {
	j, _, c := setupJournal(t)
	ctx := context.Background()
	now := at("2024-07-17", 22)

	first, err := j.BuildDashboard(ctx, "u1", 0, now)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, DefaultDashboardDays, first.Period)
	assert.Equal(t, internal.DefaultWaterGoal, first.WaterGoal)

	second, err := j.BuildDashboard(ctx, "u1", 0, now)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Result, second.Result)

	_, err = j.AddWater(ctx, "u1", &WaterRequest{Amount: 250}, now)
	require.NoError(t, err)
	assert.Equal(t, 1, c.invalidated)

	third, err := j.BuildDashboard(ctx, "u1", 0, now)
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.Equal(t, 250, third.Days[len(third.Days)-1].Water)
}

func TestBuildDashboard_DaysRange(t *testing.T) {
	j, _, _ := setupJournal(t)
	ctx := context.Background()
	now := at("2024-07-17", 22)

	for _, days := range []int{-1, MaxDashboardDays + 1} {
		_, err := j.BuildDashboard(ctx, "u1", days, now)
		assert.ErrorIs(t, err, internal.ErrInvalidInput, "days=%d", days)
	}
	month, err := j.BuildDashboard(ctx, "u1", 30, now)
	require.NoError(t, err)
	require.Len(t, month.Days, 30)
	assert.Equal(t, "17", month.Days[29].Date)
	assert.Equal(t, "Jul 17", month.Adherence[29].Date)
	assert.Equal(t, aggregate.StatusNoData, month.Adherence[29].Status)
}

// midBuildWriter runs onListMedications while a dashboard is being collected.
type midBuildWriter struct {
	storage.Store
	onListMedications func()
}

func (s *midBuildWriter) ListMedications(ctx context.Context, userID string) ([]internal.Medication, error) {
	if s.onListMedications != nil {
		hook := s.onListMedications
		s.onListMedications = nil
		hook()
	}
	return s.Store.ListMedications(ctx, userID)
}

func TestBuildDashboard_WriteDuringBuildIsNotMaskedByCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rc, err := cache.NewRedisCache(mr.Addr(), 5*time.Minute, internal.NopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	base, err := storage.NewFileStorage(t.TempDir(), internal.NopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = base.Close() })
	store := &midBuildWriter{Store: base}
	j := NewJournal(store, rc, brt, internal.NopLogger())
	ctx := context.Background()
	now := at("2024-07-17", 22)

	store.onListMedications = func() {
		_, err := j.AddWater(ctx, "u1", &WaterRequest{Amount: 700}, now)
		require.NoError(t, err)
	}
	first, err := j.BuildDashboard(ctx, "u1", 7, now)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Days[6].Water, "water was read before the write")

	second, err := j.BuildDashboard(ctx, "u1", 7, now)
	require.NoError(t, err)
	assert.False(t, second.Cached)
	assert.Equal(t, 700, second.Days[6].Water)

	third, err := j.BuildDashboard(ctx, "u1", 7, now)
	require.NoError(t, err)
	assert.True(t, third.Cached)
	assert.Equal(t, 700, third.Days[6].Water)
}
