package service

import (
	"context"
	"fmt"
	"time"

	"github.com/yasmngoncalves/PolarisApp/internal"
	"github.com/yasmngoncalves/PolarisApp/internal/aggregate"
)

const (
	DefaultDashboardDays = 7
	MaxDashboardDays     = 90
)

type Dashboard struct {
	aggregate.Result
	Period    int     `json:"period"`
	WaterGoal int     `json:"waterGoal"`
	SleepGoal float64 `json:"sleepGoal"`
	Cached    bool    `json:"cached"`
}

// BuildDashboard aggregates the last days days ending today. days == 0 means the default period.
func (j *Journal) BuildDashboard(ctx context.Context, userID string, days int, now time.Time) (*Dashboard, error) {
	if days == 0 {
		days = DefaultDashboardDays
	}
	if days < 1 || days > MaxDashboardDays {
		return nil, fmt.Errorf("%w: days must be between 1 and %d", internal.ErrInvalidInput, MaxDashboardDays)
	}

	goals, err := GetGoals(ctx, j.Store, userID)
	if err != nil {
		return nil, err
	}
	out := &Dashboard{Period: days, WaterGoal: goals.WaterGoal, SleepGoal: goals.SleepGoal}

	keys := aggregate.LastNDays(now, days, j.Location)
	cacheKey := fmt.Sprintf("%d:%s", days, keys[len(keys)-1])

	// The version is read before collecting so a write that lands mid-build invalidates the result.
	hit, version, err := j.Cache.Get(ctx, userID, cacheKey, &out.Result)
	cacheable := err == nil
	if err != nil {
		j.Logger.Warnf("cache: dashboard read failed for %s: %v", userID, err)
	}
	if hit {
		out.Cached = true
		return out, nil
	}

	res, err := j.collect(ctx, userID, keys)
	if err != nil {
		return nil, err
	}
	out.Result = res
	if cacheable {
		if err := j.Cache.Set(ctx, userID, cacheKey, version, res); err != nil {
			j.Logger.Warnf("cache: dashboard write failed for %s: %v", userID, err)
		}
	}
	return out, nil
}

func (j *Journal) collect(ctx context.Context, userID string, keys []string) (aggregate.Result, error) {
	start, end, err := aggregate.Bounds(keys, j.Location)
	if err != nil {
		return aggregate.Result{}, err
	}
	from, to := keys[0], keys[len(keys)-1]

	moods, err := j.Store.ListMoodLogs(ctx, userID, from, to)
	if err != nil {
		return aggregate.Result{}, err
	}
	sleeps, err := j.Store.ListSleepLogs(ctx, userID, from, to)
	if err != nil {
		return aggregate.Result{}, err
	}
	water, err := j.Store.ListWaterLogs(ctx, userID, start, end)
	if err != nil {
		return aggregate.Result{}, err
	}
	medLogs, err := j.Store.ListMedicationLogs(ctx, userID, start, end)
	if err != nil {
		return aggregate.Result{}, err
	}
	meds, err := j.Store.ListMedications(ctx, userID)
	if err != nil {
		return aggregate.Result{}, err
	}

	return aggregate.Daily(aggregate.Input{
		Days:           keys,
		Location:       j.Location,
		MoodLogs:       moods,
		SleepLogs:      sleeps,
		WaterLogs:      water,
		MedicationLogs: medLogs,
		Medications:    meds,
	}), nil
}
