package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yasmngoncalves/PolarisApp/internal"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS user_profiles (
	id            TEXT PRIMARY KEY,
	username      TEXT NOT NULL,
	email         TEXT NOT NULL,
	profile_name  TEXT NOT NULL,
	date_of_birth TEXT NOT NULL DEFAULT '',
	water_goal    INTEGER NOT NULL DEFAULT 2000,
	sleep_goal    DOUBLE PRECISION NOT NULL DEFAULT 8,
	password_hash TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS user_profiles_email_idx ON user_profiles (lower(email));

CREATE TABLE IF NOT EXISTS mood_logs (
	user_id   TEXT NOT NULL,
	date      TEXT NOT NULL,
	mood      TEXT NOT NULL,
	intensity INTEGER NOT NULL,
	notes     TEXT NOT NULL DEFAULT '',
	logged_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (user_id, date)
);

CREATE TABLE IF NOT EXISTS sleep_logs (
	user_id   TEXT NOT NULL,
	date      TEXT NOT NULL,
	duration  DOUBLE PRECISION NOT NULL,
	quality   TEXT NOT NULL,
	logged_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (user_id, date)
);

CREATE TABLE IF NOT EXISTS water_intake_logs (
	id        TEXT PRIMARY KEY,
	user_id   TEXT NOT NULL,
	amount    INTEGER NOT NULL CHECK (amount > 0),
	logged_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS water_intake_logs_user_idx ON water_intake_logs (user_id, logged_at);

CREATE TABLE IF NOT EXISTS medications (
	id              TEXT PRIMARY KEY,
	user_id         TEXT NOT NULL,
	medication_name TEXT NOT NULL,
	dosage          TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS medication_logs (
	id              TEXT PRIMARY KEY,
	user_id         TEXT NOT NULL,
	medication_id   TEXT NOT NULL,
	medication_name TEXT NOT NULL,
	dosage          TEXT NOT NULL,
	taken_at        TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS medication_logs_user_idx ON medication_logs (user_id, taken_at);
`

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(ctx context.Context, dsn string, logger internal.Logger) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Errorf("postgres ping failed: %v", err)
		return nil, err
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		logger.Errorf("failed to apply postgres schema: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("storage: %s: %w", what, internal.ErrNotFound)
	}
	return err
}

func requireAffected(tag pgconn.CommandTag, what string) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("storage: %s: %w", what, internal.ErrNotFound)
	}
	return nil
}

// --- ProfileRepository ---
const profileColumns = `id, username, email, profile_name, date_of_birth, water_goal, sleep_goal, password_hash, created_at, updated_at`

func scanProfile(row pgx.Row) (*internal.UserProfile, error) {
	var u internal.UserProfile
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.ProfileName, &u.DateOfBirth, &u.WaterGoal, &u.SleepGoal, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "profile")
	}
	return &u, nil
}

func (p *PostgresStorage) CreateProfile(ctx context.Context, u *internal.UserProfile) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO user_profiles (`+profileColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.Username, u.Email, u.ProfileName, u.DateOfBirth, u.WaterGoal, u.SleepGoal, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("storage: profile %s: %w", u.Email, internal.ErrConflict)
		}
		p.logger.Errorf("failed to insert profile: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) GetProfile(ctx context.Context, userID string) (*internal.UserProfile, error) {
	return scanProfile(p.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM user_profiles WHERE id = $1`, userID))
}

func (p *PostgresStorage) GetProfileByEmail(ctx context.Context, email string) (*internal.UserProfile, error) {
	return scanProfile(p.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM user_profiles WHERE lower(email) = lower($1)`, email))
}

func (p *PostgresStorage) UpdateProfile(ctx context.Context, u *internal.UserProfile) error {
	tag, err := p.pool.Exec(ctx, `UPDATE user_profiles SET username = $2, email = $3, profile_name = $4, date_of_birth = $5, water_goal = $6, sleep_goal = $7, password_hash = $8, updated_at = $9 WHERE id = $1`,
		u.ID, u.Username, u.Email, u.ProfileName, u.DateOfBirth, u.WaterGoal, u.SleepGoal, u.PasswordHash, u.UpdatedAt)
	if err != nil {
		p.logger.Errorf("failed to update profile: %v", err)
		return err
	}
	return requireAffected(tag, "profile")
}

// --- MoodRepository ---
func (p *PostgresStorage) UpsertMoodLog(ctx context.Context, l *internal.MoodLog) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO mood_logs (user_id, date, mood, intensity, notes, logged_at) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, date) DO UPDATE SET mood = EXCLUDED.mood, intensity = EXCLUDED.intensity, notes = EXCLUDED.notes, logged_at = EXCLUDED.logged_at`,
		l.UserID, l.Date, l.Mood, l.Intensity, l.Notes, l.LoggedAt)
	if err != nil {
		p.logger.Errorf("failed to upsert mood log: %v", err)
	}
	return err
}

func (p *PostgresStorage) GetMoodLog(ctx context.Context, userID, date string) (*internal.MoodLog, error) {
	var l internal.MoodLog
	err := p.pool.QueryRow(ctx, `SELECT user_id, date, mood, intensity, notes, logged_at FROM mood_logs WHERE user_id = $1 AND date = $2`, userID, date).
		Scan(&l.UserID, &l.Date, &l.Mood, &l.Intensity, &l.Notes, &l.LoggedAt)
	if err != nil {
		return nil, notFound(err, "mood log "+date)
	}
	return &l, nil
}

func (p *PostgresStorage) ListMoodLogs(ctx context.Context, userID, from, to string) ([]internal.MoodLog, error) {
	rows, err := p.pool.Query(ctx, `SELECT user_id, date, mood, intensity, notes, logged_at FROM mood_logs WHERE user_id = $1 AND date >= $2 AND date <= $3 ORDER BY date ASC`, userID, from, to)
	if err != nil {
		p.logger.Errorf("failed to query mood logs: %v", err)
		return nil, err
	}
	logs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (internal.MoodLog, error) {
		var l internal.MoodLog
		err := row.Scan(&l.UserID, &l.Date, &l.Mood, &l.Intensity, &l.Notes, &l.LoggedAt)
		return l, err
	})
	if err != nil {
		p.logger.Errorf("failed to scan mood logs: %v", err)
		return nil, err
	}
	return logs, nil
}

func (p *PostgresStorage) DeleteMoodLog(ctx context.Context, userID, date string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM mood_logs WHERE user_id = $1 AND date = $2`, userID, date)
	if err != nil {
		return err
	}
	return requireAffected(tag, "mood log "+date)
}

// --- SleepLogRepository ---
func (p *PostgresStorage) UpsertSleepLog(ctx context.Context, l *internal.SleepLog) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO sleep_logs (user_id, date, duration, quality, logged_at) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, date) DO UPDATE SET duration = EXCLUDED.duration, quality = EXCLUDED.quality, logged_at = EXCLUDED.logged_at`,
		l.UserID, l.Date, l.Duration, l.Quality, l.LoggedAt)
	if err != nil {
		p.logger.Errorf("failed to upsert sleep log: %v", err)
	}
	return err
}

func (p *PostgresStorage) GetSleepLog(ctx context.Context, userID, date string) (*internal.SleepLog, error) {
	var l internal.SleepLog
	err := p.pool.QueryRow(ctx, `SELECT user_id, date, duration, quality, logged_at FROM sleep_logs WHERE user_id = $1 AND date = $2`, userID, date).
		Scan(&l.UserID, &l.Date, &l.Duration, &l.Quality, &l.LoggedAt)
	if err != nil {
		return nil, notFound(err, "sleep log "+date)
	}
	return &l, nil
}

func (p *PostgresStorage) ListSleepLogs(ctx context.Context, userID, from, to string) ([]internal.SleepLog, error) {
	rows, err := p.pool.Query(ctx, `SELECT user_id, date, duration, quality, logged_at FROM sleep_logs WHERE user_id = $1 AND date >= $2 AND date <= $3 ORDER BY date ASC`, userID, from, to)
	if err != nil {
		p.logger.Errorf("failed to query sleep logs: %v", err)
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (internal.SleepLog, error) {
		var l internal.SleepLog
		err := row.Scan(&l.UserID, &l.Date, &l.Duration, &l.Quality, &l.LoggedAt)
		return l, err
	})
}

func (p *PostgresStorage) DeleteSleepLog(ctx context.Context, userID, date string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM sleep_logs WHERE user_id = $1 AND date = $2`, userID, date)
	if err != nil {
		return err
	}
	return requireAffected(tag, "sleep log "+date)
}

// --- WaterRepository ---
func (p *PostgresStorage) AddWaterLog(ctx context.Context, l *internal.WaterIntakeLog) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO water_intake_logs (id, user_id, amount, logged_at) VALUES ($1, $2, $3, $4)`,
		l.ID, l.UserID, l.Amount, l.LoggedAt)
	if err != nil {
		p.logger.Errorf("failed to insert water log: %v", err)
	}
	return err
}

func (p *PostgresStorage) ListWaterLogs(ctx context.Context, userID string, from, to time.Time) ([]internal.WaterIntakeLog, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, user_id, amount, logged_at FROM water_intake_logs WHERE user_id = $1 AND logged_at >= $2 AND logged_at < $3 ORDER BY logged_at DESC`, userID, from, to)
	if err != nil {
		p.logger.Errorf("failed to query water logs: %v", err)
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (internal.WaterIntakeLog, error) {
		var l internal.WaterIntakeLog
		err := row.Scan(&l.ID, &l.UserID, &l.Amount, &l.LoggedAt)
		return l, err
	})
}

func (p *PostgresStorage) DeleteWaterLog(ctx context.Context, userID, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM water_intake_logs WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	return requireAffected(tag, "water log "+id)
}

// --- MedicationRepository ---
func (p *PostgresStorage) AddMedication(ctx context.Context, m *internal.Medication) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO medications (id, user_id, medication_name, dosage, created_at) VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.UserID, m.MedicationName, m.Dosage, m.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert medication: %v", err)
	}
	return err
}

func (p *PostgresStorage) GetMedication(ctx context.Context, userID, id string) (*internal.Medication, error) {
	var m internal.Medication
	err := p.pool.QueryRow(ctx, `SELECT id, user_id, medication_name, dosage, created_at FROM medications WHERE user_id = $1 AND id = $2`, userID, id).
		Scan(&m.ID, &m.UserID, &m.MedicationName, &m.Dosage, &m.CreatedAt)
	if err != nil {
		return nil, notFound(err, "medication "+id)
	}
	return &m, nil
}

func (p *PostgresStorage) ListMedications(ctx context.Context, userID string) ([]internal.Medication, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, user_id, medication_name, dosage, created_at FROM medications WHERE user_id = $1 ORDER BY created_at ASC, id ASC`, userID)
	if err != nil {
		p.logger.Errorf("failed to query medications: %v", err)
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (internal.Medication, error) {
		var m internal.Medication
		err := row.Scan(&m.ID, &m.UserID, &m.MedicationName, &m.Dosage, &m.CreatedAt)
		return m, err
	})
}

func (p *PostgresStorage) DeleteMedication(ctx context.Context, userID, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM medications WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	return requireAffected(tag, "medication "+id)
}

func (p *PostgresStorage) AddMedicationLog(ctx context.Context, l *internal.MedicationLog) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO medication_logs (id, user_id, medication_id, medication_name, dosage, taken_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID, l.UserID, l.MedicationID, l.MedicationName, l.Dosage, l.TakenAt)
	if err != nil {
		p.logger.Errorf("failed to insert medication log: %v", err)
	}
	return err
}

func (p *PostgresStorage) ListMedicationLogs(ctx context.Context, userID string, from, to time.Time) ([]internal.MedicationLog, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, user_id, medication_id, medication_name, dosage, taken_at FROM medication_logs WHERE user_id = $1 AND taken_at >= $2 AND taken_at < $3 ORDER BY taken_at ASC`, userID, from, to)
	if err != nil {
		p.logger.Errorf("failed to query medication logs: %v", err)
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (internal.MedicationLog, error) {
		var l internal.MedicationLog
		err := row.Scan(&l.ID, &l.UserID, &l.MedicationID, &l.MedicationName, &l.Dosage, &l.TakenAt)
		return l, err
	})
}

func (p *PostgresStorage) DeleteMedicationLog(ctx context.Context, userID, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM medication_logs WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	return requireAffected(tag, "medication log "+id)
}

// --- Compile-time assertions ---
var _ Store = (*PostgresStorage)(nil)
