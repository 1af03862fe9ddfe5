package service

import (
	"context"
	"strings"
	"time"

	"github.com/yasmngoncalves/PolarisApp/internal"
)

type MoodRequest struct {
	Mood      string `json:"mood" validate:"required,mood"`
	Intensity int    `json:"intensity" validate:"required,gte=1,lte=10"`
	Notes     string `json:"notes,omitempty" validate:"max=1000"`
}

func (j *Journal) SaveMood(ctx context.Context, userID, day string, req *MoodRequest, now time.Time) (*internal.MoodLog, error) {
	if err := checkDay(day); err != nil {
		return nil, err
	}
	if err := check(req); err != nil {
		return nil, err
	}
	log := &internal.MoodLog{
		UserID:    userID,
		Date:      day,
		Mood:      req.Mood,
		Intensity: req.Intensity,
		Notes:     strings.TrimSpace(req.Notes),
		LoggedAt:  now,
	}
	if err := j.Store.UpsertMoodLog(ctx, log); err != nil {
		return nil, err
	}
	j.changed(ctx, userID)
	return log, nil
}

func (j *Journal) GetMood(ctx context.Context, userID, day string) (*internal.MoodLog, error) {
	if err := checkDay(day); err != nil {
		return nil, err
	}
	return j.Store.GetMoodLog(ctx, userID, day)
}

func (j *Journal) DeleteMood(ctx context.Context, userID, day string) error {
	if err := checkDay(day); err != nil {
		return err
	}
	if err := j.Store.DeleteMoodLog(ctx, userID, day); err != nil {
		return err
	}
	j.changed(ctx, userID)
	return nil
}

func (j *Journal) ListMoods(ctx context.Context, userID, from, to string, now time.Time) ([]internal.MoodLog, error) {
	from, to, err := j.dayRange(from, to, now)
	if err != nil {
		return nil, err
	}
	return j.Store.ListMoodLogs(ctx, userID, from, to)
}
