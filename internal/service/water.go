package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/yasmngoncalves/PolarisApp/internal"
	"github.com/yasmngoncalves/PolarisApp/internal/aggregate"
)

type WaterRequest struct {
	Amount   int        `json:"amount" validate:"required,gt=0,lte=5000"`
	LoggedAt *time.Time `json:"loggedAt,omitempty"`
}

type WaterDay struct {
	Date     string                    `json:"date"`
	Total    int                       `json:"total"`
	Goal     int                       `json:"goal"`
	Progress float64                   `json:"progress"`
	Entries  []internal.WaterIntakeLog `json:"entries"`
}

func (j *Journal) AddWater(ctx context.Context, userID string, req *WaterRequest, now time.Time) (*internal.WaterIntakeLog, error) {
	if err := check(req); err != nil {
		return nil, err
	}
	at := now
	if req.LoggedAt != nil {
		if req.LoggedAt.After(now) {
			return nil, fmt.Errorf("%w: loggedAt is in the future", internal.ErrInvalidInput)
		}
		at = *req.LoggedAt
	}
	log := &internal.WaterIntakeLog{
		ID:       uuid.NewString(),
		UserID:   userID,
		Amount:   req.Amount,
		LoggedAt: at,
	}
	if err := j.Store.AddWaterLog(ctx, log); err != nil {
		return nil, err
	}
	j.changed(ctx, userID)
	return log, nil
}

// RemoveLastWater deletes the most recent water event of the day.
func (j *Journal) RemoveLastWater(ctx context.Context, userID, day string) (*internal.WaterIntakeLog, error) {
	logs, err := j.waterOn(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, fmt.Errorf("no water logged on %s: %w", day, internal.ErrNotFound)
	}
	last := logs[0]
	if err := j.Store.DeleteWaterLog(ctx, userID, last.ID); err != nil {
		return nil, err
	}
	j.changed(ctx, userID)
	return &last, nil
}

func (j *Journal) DeleteWater(ctx context.Context, userID, id string) error {
	if err := j.Store.DeleteWaterLog(ctx, userID, id); err != nil {
		return err
	}
	j.changed(ctx, userID)
	return nil
}

func (j *Journal) WaterForDay(ctx context.Context, userID, day string) (*WaterDay, error) {
	logs, err := j.waterOn(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	goal := internal.DefaultWaterGoal
	profile, err := j.Store.GetProfile(ctx, userID)
	switch {
	case err == nil:
		goal, _ = profile.Goals()
	case !errors.Is(err, internal.ErrNotFound):
		return nil, err
	}

	out := &WaterDay{Date: day, Goal: goal, Entries: logs}
	for _, l := range logs {
		out.Total += l.Amount
	}
	out.Progress = math.Min(100, math.Round(float64(out.Total)*1000/float64(goal))/10)
	return out, nil
}

// waterOn lists the water events of one local day, newest first.
func (j *Journal) waterOn(ctx context.Context, userID, day string) ([]internal.WaterIntakeLog, error) {
	if err := checkDay(day); err != nil {
		return nil, err
	}
	start, next, err := aggregate.DayBounds(day, j.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrInvalidInput, err)
	}
	logs, err := j.Store.ListWaterLogs(ctx, userID, start, next)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []internal.WaterIntakeLog{}
	}
	return logs, nil
}
