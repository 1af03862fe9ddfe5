package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/yasmngoncalves/PolarisApp/internal"
)

const clockLayout = "15:04"

// SleepRequest takes either bedtime and wake time, or an explicit duration. With neither,
// the duration of an existing log for the day is kept.
type SleepRequest struct {
	Duration *float64 `json:"duration,omitempty" validate:"omitempty,gt=0,lte=24"`
	Bedtime  string   `json:"bedtime,omitempty" validate:"omitempty,hhmm"`
	WakeTime string   `json:"wakeTime,omitempty" validate:"omitempty,hhmm"`
	Quality  string   `json:"quality" validate:"required,sleepquality"`
}

// SleepDuration returns the hours between two HH:mm clock times, wrapping past midnight
// when wake is earlier than bed.
func SleepDuration(bed, wake string) (float64, error) {
	b, err := time.Parse(clockLayout, bed)
	if err != nil {
		return 0, fmt.Errorf("%w: bedtime must be HH:mm", internal.ErrInvalidInput)
	}
	w, err := time.Parse(clockLayout, wake)
	if err != nil {
		return 0, fmt.Errorf("%w: wakeTime must be HH:mm", internal.ErrInvalidInput)
	}
	if w.Before(b) {
		w = w.Add(24 * time.Hour)
	}
	d := w.Sub(b)
	if d == 0 {
		return 0, fmt.Errorf("%w: bedtime and wakeTime are equal", internal.ErrInvalidInput)
	}
	return math.Round(d.Minutes()) / 60, nil
}

func (j *Journal) SaveSleep(ctx context.Context, userID, day string, req *SleepRequest, now time.Time) (*internal.SleepLog, error) {
	if err := checkDay(day); err != nil {
		return nil, err
	}
	if err := check(req); err != nil {
		return nil, err
	}
	if (req.Bedtime == "") != (req.WakeTime == "") {
		return nil, fmt.Errorf("%w: bedtime and wakeTime go together", internal.ErrInvalidInput)
	}

	var duration float64
	switch {
	case req.Bedtime != "" && req.WakeTime != "":
		d, err := SleepDuration(req.Bedtime, req.WakeTime)
		if err != nil {
			return nil, err
		}
		duration = d
	case req.Duration != nil:
		duration = *req.Duration
	default:
		existing, err := j.Store.GetSleepLog(ctx, userID, day)
		if errors.Is(err, internal.ErrNotFound) {
			return nil, fmt.Errorf("%w: duration or bedtime and wakeTime required", internal.ErrInvalidInput)
		}
		if err != nil {
			return nil, err
		}
		duration = existing.Duration
	}

	log := &internal.SleepLog{
		UserID:   userID,
		Date:     day,
		Duration: duration,
		Quality:  req.Quality,
		LoggedAt: now,
	}
	if err := j.Store.UpsertSleepLog(ctx, log); err != nil {
		return nil, err
	}
	j.changed(ctx, userID)
	return log, nil
}

func (j *Journal) GetSleep(ctx context.Context, userID, day string) (*internal.SleepLog, error) {
	if err := checkDay(day); err != nil {
		return nil, err
	}
	return j.Store.GetSleepLog(ctx, userID, day)
}

func (j *Journal) DeleteSleep(ctx context.Context, userID, day string) error {
	if err := checkDay(day); err != nil {
		return err
	}
	if err := j.Store.DeleteSleepLog(ctx, userID, day); err != nil {
		return err
	}
	j.changed(ctx, userID)
	return nil
}

func (j *Journal) ListSleeps(ctx context.Context, userID, from, to string, now time.Time) ([]internal.SleepLog, error) {
	from, to, err := j.dayRange(from, to, now)
	if err != nil {
		return nil, err
	}
	return j.Store.ListSleepLogs(ctx, userID, from, to)
}

// dayRange fills in a missing range with the last 30 days and checks from <= to.
func (j *Journal) dayRange(from, to string, now time.Time) (string, string, error) {
	if to == "" {
		to = j.Today(now)
	}
	if from == "" {
		t, err := time.ParseInLocation(internal.DayLayout, to, j.Location)
		if err != nil {
			return "", "", fmt.Errorf("%w: to must be yyyy-mm-dd", internal.ErrInvalidInput)
		}
		from = t.AddDate(0, 0, -29).Format(internal.DayLayout)
	}
	if err := checkDay(from); err != nil {
		return "", "", err
	}
	if err := checkDay(to); err != nil {
		return "", "", err
	}
	if from > to {
		return "", "", fmt.Errorf("%w: from is after to", internal.ErrInvalidInput)
	}
	return from, to, nil
}
