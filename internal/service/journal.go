package service

import (
	"context"
	"errors"
	"time"

	"github.com/yasmngoncalves/PolarisApp/internal"
	"github.com/yasmngoncalves/PolarisApp/internal/aggregate"
	"github.com/yasmngoncalves/PolarisApp/internal/cache"
	"github.com/yasmngoncalves/PolarisApp/internal/storage"
)

// Journal groups the per-day logging operations of one deployment. Days are calendar days
// in Location.
type Journal struct {
	Store    storage.Store
	Cache    cache.DashboardCache
	Location *time.Location
	Logger   internal.Logger
}

func NewJournal(store storage.Store, c cache.DashboardCache, loc *time.Location, logger internal.Logger) *Journal {
	if c == nil {
		c = cache.Noop{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &Journal{Store: store, Cache: c, Location: loc, Logger: logger}
}

// changed drops cached dashboards after a write. Cache failures never fail the write.
func (j *Journal) changed(ctx context.Context, userID string) {
	if err := j.Cache.Invalidate(ctx, userID); err != nil {
		j.Logger.Warnf("cache: failed to invalidate dashboard for %s: %v", userID, err)
	}
}

func (j *Journal) Today(now time.Time) string {
	return aggregate.DayKey(now, j.Location)
}

type MedicationStatus struct {
	internal.Medication
	Taken bool `json:"taken"`
}

type Day struct {
	Date        string             `json:"date"`
	Mood        *internal.MoodLog  `json:"mood"`
	Sleep       *internal.SleepLog `json:"sleep"`
	Water       *WaterDay          `json:"water"`
	Medications []MedicationStatus `json:"medications"`
}

// JournalDay collects everything logged on one day.
func (j *Journal) JournalDay(ctx context.Context, userID, day string) (*Day, error) {
	if err := checkDay(day); err != nil {
		return nil, err
	}
	out := &Day{Date: day}

	mood, err := j.Store.GetMoodLog(ctx, userID, day)
	if err != nil && !errors.Is(err, internal.ErrNotFound) {
		return nil, err
	}
	out.Mood = mood

	sleep, err := j.Store.GetSleepLog(ctx, userID, day)
	if err != nil && !errors.Is(err, internal.ErrNotFound) {
		return nil, err
	}
	out.Sleep = sleep

	if out.Water, err = j.WaterForDay(ctx, userID, day); err != nil {
		return nil, err
	}

	meds, err := j.Store.ListMedications(ctx, userID)
	if err != nil {
		return nil, err
	}
	taken, err := j.takenOn(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	out.Medications = make([]MedicationStatus, 0, len(meds))
	for _, m := range meds {
		_, ok := taken[m.ID]
		out.Medications = append(out.Medications, MedicationStatus{Medication: m, Taken: ok})
	}
	return out, nil
}
