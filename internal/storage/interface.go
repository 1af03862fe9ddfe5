package storage

import (
	"context"
	"time"

	"github.com/yasmngoncalves/PolarisApp/internal"
)

type ProfileRepository interface {
	CreateProfile(ctx context.Context, p *internal.UserProfile) error
	GetProfile(ctx context.Context, userID string) (*internal.UserProfile, error)
	GetProfileByEmail(ctx context.Context, email string) (*internal.UserProfile, error)
	UpdateProfile(ctx context.Context, p *internal.UserProfile) error
}

// MoodRepository stores at most one mood log per (user, date). Ranges are inclusive day-keys.
type MoodRepository interface {
	UpsertMoodLog(ctx context.Context, log *internal.MoodLog) error
	GetMoodLog(ctx context.Context, userID, date string) (*internal.MoodLog, error)
	ListMoodLogs(ctx context.Context, userID, from, to string) ([]internal.MoodLog, error)
	DeleteMoodLog(ctx context.Context, userID, date string) error
}

type SleepLogRepository interface {
	UpsertSleepLog(ctx context.Context, log *internal.SleepLog) error
	GetSleepLog(ctx context.Context, userID, date string) (*internal.SleepLog, error)
	ListSleepLogs(ctx context.Context, userID, from, to string) ([]internal.SleepLog, error)
	DeleteSleepLog(ctx context.Context, userID, date string) error
}

// WaterRepository lists events in [from, to), newest first.
type WaterRepository interface {
	AddWaterLog(ctx context.Context, log *internal.WaterIntakeLog) error
	ListWaterLogs(ctx context.Context, userID string, from, to time.Time) ([]internal.WaterIntakeLog, error)
	DeleteWaterLog(ctx context.Context, userID, id string) error
}

// MedicationRepository lists medications by creation time and logs in [from, to) by takenAt.
type MedicationRepository interface {
	AddMedication(ctx context.Context, m *internal.Medication) error
	GetMedication(ctx context.Context, userID, id string) (*internal.Medication, error)
	ListMedications(ctx context.Context, userID string) ([]internal.Medication, error)
	DeleteMedication(ctx context.Context, userID, id string) error

	AddMedicationLog(ctx context.Context, log *internal.MedicationLog) error
	ListMedicationLogs(ctx context.Context, userID string, from, to time.Time) ([]internal.MedicationLog, error)
	DeleteMedicationLog(ctx context.Context, userID, id string) error
}

type Store interface {
	ProfileRepository
	MoodRepository
	SleepLogRepository
	WaterRepository
	MedicationRepository
	Close() error
}
