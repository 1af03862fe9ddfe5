package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yasmngoncalves/PolarisApp/internal"
	"github.com/yasmngoncalves/PolarisApp/internal/storage"
)

type GoalsRequest struct {
	WaterGoal int     `json:"waterGoal" validate:"required,gte=250,lte=10000"`
	SleepGoal float64 `json:"sleepGoal" validate:"required,gte=1,lte=24"`
}

type Goals struct {
	WaterGoal int     `json:"waterGoal"`
	SleepGoal float64 `json:"sleepGoal"`
}

type ProfileRequest struct {
	FullName    string `json:"fullName" validate:"required,max=100"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,daykey"`
}

func GetProfile(ctx context.Context, profiles storage.ProfileRepository, userID string) (*internal.UserProfile, error) {
	p, err := profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	public := p.Public()
	public.WaterGoal, public.SleepGoal = p.Goals()
	return &public, nil
}

func UpdateProfile(ctx context.Context, profiles storage.ProfileRepository, userID string, req *ProfileRequest, now time.Time) (*internal.UserProfile, error) {
	if err := check(req); err != nil {
		return nil, err
	}
	if err := checkBirthDate(req.DateOfBirth, now); err != nil {
		return nil, err
	}
	p, err := profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.ProfileName = strings.TrimSpace(req.FullName)
	p.DateOfBirth = req.DateOfBirth
	p.UpdatedAt = now
	if err := profiles.UpdateProfile(ctx, p); err != nil {
		return nil, err
	}
	public := p.Public()
	return &public, nil
}

// GetGoals falls back to the defaults when the user has no stored profile.
func GetGoals(ctx context.Context, profiles storage.ProfileRepository, userID string) (Goals, error) {
	p, err := profiles.GetProfile(ctx, userID)
	if errors.Is(err, internal.ErrNotFound) {
		return Goals{WaterGoal: internal.DefaultWaterGoal, SleepGoal: internal.DefaultSleepGoal}, nil
	}
	if err != nil {
		return Goals{}, err
	}
	water, sleep := p.Goals()
	return Goals{WaterGoal: water, SleepGoal: sleep}, nil
}

func UpdateGoals(ctx context.Context, profiles storage.ProfileRepository, userID string, req *GoalsRequest, now time.Time) (Goals, error) {
	if err := check(req); err != nil {
		return Goals{}, err
	}
	p, err := profiles.GetProfile(ctx, userID)
	if err != nil {
		return Goals{}, err
	}
	p.WaterGoal = req.WaterGoal
	p.SleepGoal = req.SleepGoal
	p.UpdatedAt = now
	if err := profiles.UpdateProfile(ctx, p); err != nil {
		return Goals{}, err
	}
	return Goals{WaterGoal: p.WaterGoal, SleepGoal: p.SleepGoal}, nil
}
