package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yasmngoncalves/PolarisApp/internal"
	"github.com/yasmngoncalves/PolarisApp/internal/auth"
	"github.com/yasmngoncalves/PolarisApp/internal/storage"
)

type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	FullName    string `json:"fullName" validate:"required,max=100"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,daykey"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

type Session struct {
	Token     string               `json:"token"`
	ExpiresAt time.Time            `json:"expiresAt"`
	Profile   internal.UserProfile `json:"profile"`
}

type TokenIssuer interface {
	Issue(user internal.User) (string, time.Time, error)
}

func SignUp(ctx context.Context, profiles storage.ProfileRepository, issuer TokenIssuer, req *SignUpRequest, now time.Time) (*Session, error) {
	if err := check(req); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := checkBirthDate(req.DateOfBirth, now); err != nil {
		return nil, err
	}
	if _, err := profiles.GetProfileByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email %s: %w", email, internal.ErrConflict)
	} else if !errors.Is(err, internal.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	profile := &internal.UserProfile{
		ID:           uuid.NewString(),
		Username:     strings.SplitN(email, "@", 2)[0],
		Email:        email,
		ProfileName:  strings.TrimSpace(req.FullName),
		DateOfBirth:  req.DateOfBirth,
		WaterGoal:    internal.DefaultWaterGoal,
		SleepGoal:    internal.DefaultSleepGoal,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := profiles.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return newSession(issuer, profile)
}

func SignIn(ctx context.Context, profiles storage.ProfileRepository, issuer TokenIssuer, req *SignInRequest) (*Session, error) {
	if err := check(req); err != nil {
		return nil, err
	}
	profile, err := profiles.GetProfileByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, internal.ErrNotFound) {
		return nil, fmt.Errorf("invalid credentials: %w", internal.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if err := auth.CheckPassword(profile.PasswordHash, req.Password); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", err)
	}
	return newSession(issuer, profile)
}

func ChangePassword(ctx context.Context, profiles storage.ProfileRepository, userID string, req *ChangePasswordRequest, now time.Time) error {
	if err := check(req); err != nil {
		return err
	}
	profile, err := profiles.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.CheckPassword(profile.PasswordHash, req.CurrentPassword); err != nil {
		return fmt.Errorf("current password: %w", err)
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	profile.PasswordHash = hash
	profile.UpdatedAt = now
	return profiles.UpdateProfile(ctx, profile)
}

func newSession(issuer TokenIssuer, profile *internal.UserProfile) (*Session, error) {
	token, exp, err := issuer.Issue(internal.User{ID: profile.ID, Email: profile.Email, Name: profile.ProfileName})
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: exp, Profile: profile.Public()}, nil
}

func checkBirthDate(day string, now time.Time) error {
	dob, err := time.Parse(internal.DayLayout, day)
	if err != nil {
		return fmt.Errorf("%w: dateOfBirth must be yyyy-mm-dd", internal.ErrInvalidInput)
	}
	if !dob.Before(now) || dob.Year() < 1900 {
		return fmt.Errorf("%w: dateOfBirth out of range", internal.ErrInvalidInput)
	}
	return nil
}
