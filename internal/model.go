package internal

import "time"

const (
	DefaultWaterGoal = 2000 // ml per day
	DefaultSleepGoal = 8.0  // hours per day

	DayLayout = "2006-01-02"
)

// Mood labels accepted by the journal.
var Moods = []string{"happy", "sad", "neutral", "angry", "calm"}

// Sleep quality levels, worst first.
var SleepQualities = []string{"poor", "fair", "good", "excellent"}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name"`
}

type UserProfile struct {
	ID           string    `json:"id" bson:"_id"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email" bson:"email"`
	ProfileName  string    `json:"profileName" bson:"profile_name"`
	DateOfBirth  string    `json:"dateOfBirth,omitempty" bson:"date_of_birth,omitempty"`
	WaterGoal    int       `json:"waterGoal" bson:"water_goal"`
	SleepGoal    float64   `json:"sleepGoal" bson:"sleep_goal"`
	PasswordHash string    `json:"passwordHash,omitempty" bson:"password_hash,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at"`
}

// Public returns a copy without credentials, suitable for API responses.
func (p UserProfile) Public() UserProfile {
	p.PasswordHash = ""
	return p
}

// Goals returns the water and sleep goals, falling back to the defaults for unset values.
func (p UserProfile) Goals() (int, float64) {
	water, sleep := p.WaterGoal, p.SleepGoal
	if water <= 0 {
		water = DefaultWaterGoal
	}
	if sleep <= 0 {
		sleep = DefaultSleepGoal
	}
	return water, sleep
}

type MoodLog struct {
	UserID    string    `json:"userId" bson:"user_id"`
	Date      string    `json:"date" bson:"date"`
	Mood      string    `json:"mood" bson:"mood"`
	Intensity int       `json:"intensity" bson:"intensity"` // 1–10 scale
	Notes     string    `json:"notes,omitempty" bson:"notes,omitempty"`
	LoggedAt  time.Time `json:"loggedAt" bson:"logged_at"`
}

type SleepLog struct {
	UserID   string    `json:"userId" bson:"user_id"`
	Date     string    `json:"date" bson:"date"`
	Duration float64   `json:"duration" bson:"duration"` // hours
	Quality  string    `json:"quality" bson:"quality"`
	LoggedAt time.Time `json:"loggedAt" bson:"logged_at"`
}

type WaterIntakeLog struct {
	ID       string    `json:"id" bson:"_id"`
	UserID   string    `json:"userId" bson:"user_id"`
	Amount   int       `json:"amount" bson:"amount"` // ml
	LoggedAt time.Time `json:"loggedAt" bson:"logged_at"`
}

type Medication struct {
	ID             string    `json:"id" bson:"_id"`
	UserID         string    `json:"userId" bson:"user_id"`
	MedicationName string    `json:"medicationName" bson:"medication_name"`
	Dosage         string    `json:"dosage" bson:"dosage"`
	CreatedAt      time.Time `json:"createdAt" bson:"created_at"`
}

type MedicationLog struct {
	ID             string    `json:"id" bson:"_id"`
	UserID         string    `json:"userId" bson:"user_id"`
	MedicationID   string    `json:"medicationId" bson:"medication_id"`
	MedicationName string    `json:"medicationName" bson:"medication_name"`
	Dosage         string    `json:"dosage" bson:"dosage"`
	TakenAt        time.Time `json:"takenAt" bson:"taken_at"`
}
