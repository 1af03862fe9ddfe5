package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yasmngoncalves/PolarisApp/internal"
)

type collection uint8

const (
	colProfiles collection = 1 << iota
	colMoods
	colSleeps
	colWater
	colMedications
	colMedicationLogs
)

var collectionFiles = map[collection]string{
	colProfiles:       "users.json",
	colMoods:          "mood_logs.json",
	colSleeps:         "sleep_logs.json",
	colWater:          "water_logs.json",
	colMedications:    "medications.json",
	colMedicationLogs: "medication_logs.json",
}

// FileStorage keeps every collection in memory and writes one JSON file per collection.
// Writes are batched by a background worker.
type FileStorage struct {
	profiles       map[string]*internal.UserProfile
	moods          map[string]map[string]*internal.MoodLog  // userID -> date -> log
	sleeps         map[string]map[string]*internal.SleepLog // userID -> date -> log
	water          map[string]*internal.WaterIntakeLog      // id -> log
	medications    map[string]*internal.Medication          // id -> medication
	medicationLogs map[string]*internal.MedicationLog       // id -> log
	mu             sync.RWMutex

	dir          string
	dirty        collection
	dirtyMu      sync.Mutex
	saveChan     chan struct{}
	shutdownChan chan struct{}
	workerDone   chan struct{}
	closeOnce    sync.Once
	saveDelay    time.Duration
	logger       internal.Logger
}

func NewFileStorage(dir string, logger internal.Logger) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create data dir: %w", err)
	}
	s := &FileStorage{
		profiles:       make(map[string]*internal.UserProfile),
		moods:          make(map[string]map[string]*internal.MoodLog),
		sleeps:         make(map[string]map[string]*internal.SleepLog),
		water:          make(map[string]*internal.WaterIntakeLog),
		medications:    make(map[string]*internal.Medication),
		medicationLogs: make(map[string]*internal.MedicationLog),
		dir:            dir,
		saveChan:       make(chan struct{}, 1),
		shutdownChan:   make(chan struct{}),
		workerDone:     make(chan struct{}),
		saveDelay:      500 * time.Millisecond,
		logger:         logger,
	}

	if err := s.load(); err != nil {
		logger.Errorf("storage: failed to load data from %s: %v", dir, err)
		return nil, err
	}

	go s.saveWorker()

	return s, nil
}

func (s *FileStorage) path(c collection) string {
	return filepath.Join(s.dir, collectionFiles[c])
}

func readJSONFile(filePath string, dst interface{}) error {
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s: %w", filepath.Base(filePath), err)
	}
	return nil
}

func (s *FileStorage) load() error {
	var (
		profiles []*internal.UserProfile
		moods    []*internal.MoodLog
		sleeps   []*internal.SleepLog
		water    []*internal.WaterIntakeLog
		meds     []*internal.Medication
		medLogs  []*internal.MedicationLog
	)
	targets := map[collection]interface{}{
		colProfiles:       &profiles,
		colMoods:          &moods,
		colSleeps:         &sleeps,
		colWater:          &water,
		colMedications:    &meds,
		colMedicationLogs: &medLogs,
	}
	for c, dst := range targets {
		if err := readJSONFile(s.path(c), dst); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range profiles {
		s.profiles[p.ID] = p
	}
	for _, m := range moods {
		if s.moods[m.UserID] == nil {
			s.moods[m.UserID] = make(map[string]*internal.MoodLog)
		}
		s.moods[m.UserID][m.Date] = m
	}
	for _, l := range sleeps {
		if s.sleeps[l.UserID] == nil {
			s.sleeps[l.UserID] = make(map[string]*internal.SleepLog)
		}
		s.sleeps[l.UserID][l.Date] = l
	}
	for _, w := range water {
		s.water[w.ID] = w
	}
	for _, m := range meds {
		s.medications[m.ID] = m
	}
	for _, l := range medLogs {
		s.medicationLogs[l.ID] = l
	}
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

// snapshot copies a collection under the read lock so encoding happens without holding it.
func (s *FileStorage) snapshot(c collection) interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch c {
	case colProfiles:
		out := make([]internal.UserProfile, 0, len(s.profiles))
		for _, p := range s.profiles {
			out = append(out, *p)
		}
		return out
	case colMoods:
		out := make([]internal.MoodLog, 0)
		for _, byDate := range s.moods {
			for _, m := range byDate {
				out = append(out, *m)
			}
		}
		return out
	case colSleeps:
		out := make([]internal.SleepLog, 0)
		for _, byDate := range s.sleeps {
			for _, l := range byDate {
				out = append(out, *l)
			}
		}
		return out
	case colWater:
		out := make([]internal.WaterIntakeLog, 0, len(s.water))
		for _, w := range s.water {
			out = append(out, *w)
		}
		return out
	case colMedications:
		out := make([]internal.Medication, 0, len(s.medications))
		for _, m := range s.medications {
			out = append(out, *m)
		}
		return out
	default:
		out := make([]internal.MedicationLog, 0, len(s.medicationLogs))
		for _, l := range s.medicationLogs {
			out = append(out, *l)
		}
		return out
	}
}

func (s *FileStorage) flush() error {
	s.dirtyMu.Lock()
	pending := s.dirty
	s.dirty = 0
	s.dirtyMu.Unlock()

	var errs []error
	for c := range collectionFiles {
		if pending&c == 0 {
			continue
		}
		if err := atomicWriteFileJSON(s.path(c), s.snapshot(c)); err != nil {
			errs = append(errs, fmt.Errorf("save %s: %w", collectionFiles[c], err))
			s.markDirty(c)
		}
	}
	return errors.Join(errs...)
}

// markDirty records a pending write and signals the worker without blocking.
func (s *FileStorage) markDirty(c collection) {
	s.dirtyMu.Lock()
	s.dirty |= c
	s.dirtyMu.Unlock()
	select {
	case s.saveChan <- struct{}{}:
	default:
	}
}

func (s *FileStorage) saveWorker() {
	defer close(s.workerDone)
	timer := time.NewTimer(s.saveDelay)
	defer timer.Stop()

	for {
		select {
		case <-s.saveChan:
			timer.Reset(s.saveDelay)
		case <-timer.C:
			if err := s.flush(); err != nil {
				s.logger.Errorf("storage: error saving data: %v", err)
			}
		case <-s.shutdownChan:
			return
		}
	}
}

func (s *FileStorage) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.shutdownChan)
		<-s.workerDone
		// Save pending data synchronously on shutdown
		err = s.flush()
	})
	return err
}

// --- ProfileRepository ---
func (s *FileStorage) CreateProfile(ctx context.Context, p *internal.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.ID]; ok {
		return fmt.Errorf("storage: profile %s: %w", p.ID, internal.ErrConflict)
	}
	for _, existing := range s.profiles {
		if strings.EqualFold(existing.Email, p.Email) {
			return fmt.Errorf("storage: email %s: %w", p.Email, internal.ErrConflict)
		}
	}
	cp := *p
	s.profiles[p.ID] = &cp
	s.markDirty(colProfiles)
	return nil
}

func (s *FileStorage) GetProfile(ctx context.Context, userID string) (*internal.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("storage: profile: %w", internal.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (s *FileStorage) GetProfileByEmail(ctx context.Context, email string) (*internal.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.profiles {
		if strings.EqualFold(p.Email, email) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("storage: profile: %w", internal.ErrNotFound)
}

func (s *FileStorage) UpdateProfile(ctx context.Context, p *internal.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.ID]; !ok {
		return fmt.Errorf("storage: profile: %w", internal.ErrNotFound)
	}
	cp := *p
	s.profiles[p.ID] = &cp
	s.markDirty(colProfiles)
	return nil
}

// --- MoodRepository ---
func (s *FileStorage) UpsertMoodLog(ctx context.Context, log *internal.MoodLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.moods[log.UserID] == nil {
		s.moods[log.UserID] = make(map[string]*internal.MoodLog)
	}
	cp := *log
	s.moods[log.UserID][log.Date] = &cp
	s.markDirty(colMoods)
	return nil
}

func (s *FileStorage) GetMoodLog(ctx context.Context, userID, date string) (*internal.MoodLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.moods[userID][date]
	if !ok {
		return nil, fmt.Errorf("storage: mood log %s: %w", date, internal.ErrNotFound)
	}
	cp := *m
	return &cp, nil
}

func (s *FileStorage) ListMoodLogs(ctx context.Context, userID, from, to string) ([]internal.MoodLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	logs := []internal.MoodLog{}
	for date, m := range s.moods[userID] {
		if date >= from && date <= to {
			logs = append(logs, *m)
		}
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Date < logs[j].Date })
	return logs, nil
}

func (s *FileStorage) DeleteMoodLog(ctx context.Context, userID, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.moods[userID][date]; !ok {
		return fmt.Errorf("storage: mood log %s: %w", date, internal.ErrNotFound)
	}
	delete(s.moods[userID], date)
	s.markDirty(colMoods)
	return nil
}

// --- SleepLogRepository ---
func (s *FileStorage) UpsertSleepLog(ctx context.Context, log *internal.SleepLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sleeps[log.UserID] == nil {
		s.sleeps[log.UserID] = make(map[string]*internal.SleepLog)
	}
	cp := *log
	s.sleeps[log.UserID][log.Date] = &cp
	s.markDirty(colSleeps)
	return nil
}

func (s *FileStorage) GetSleepLog(ctx context.Context, userID, date string) (*internal.SleepLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.sleeps[userID][date]
	if !ok {
		return nil, fmt.Errorf("storage: sleep log %s: %w", date, internal.ErrNotFound)
	}
	cp := *l
	return &cp, nil
}

func (s *FileStorage) ListSleepLogs(ctx context.Context, userID, from, to string) ([]internal.SleepLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	logs := []internal.SleepLog{}
	for date, l := range s.sleeps[userID] {
		if date >= from && date <= to {
			logs = append(logs, *l)
		}
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Date < logs[j].Date })
	return logs, nil
}

func (s *FileStorage) DeleteSleepLog(ctx context.Context, userID, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sleeps[userID][date]; !ok {
		return fmt.Errorf("storage: sleep log %s: %w", date, internal.ErrNotFound)
	}
	delete(s.sleeps[userID], date)
	s.markDirty(colSleeps)
	return nil
}

// --- WaterRepository ---
func (s *FileStorage) AddWaterLog(ctx context.Context, log *internal.WaterIntakeLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *log
	s.water[log.ID] = &cp
	s.markDirty(colWater)
	return nil
}

func (s *FileStorage) ListWaterLogs(ctx context.Context, userID string, from, to time.Time) ([]internal.WaterIntakeLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	logs := []internal.WaterIntakeLog{}
	for _, w := range s.water {
		if w.UserID == userID && inRange(w.LoggedAt, from, to) {
			logs = append(logs, *w)
		}
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].LoggedAt.After(logs[j].LoggedAt) })
	return logs, nil
}

func (s *FileStorage) DeleteWaterLog(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.water[id]
	if !ok || w.UserID != userID {
		return fmt.Errorf("storage: water log %s: %w", id, internal.ErrNotFound)
	}
	delete(s.water, id)
	s.markDirty(colWater)
	return nil
}

// --- MedicationRepository ---
func (s *FileStorage) AddMedication(ctx context.Context, m *internal.Medication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	s.medications[m.ID] = &cp
	s.markDirty(colMedications)
	return nil
}

func (s *FileStorage) GetMedication(ctx context.Context, userID, id string) (*internal.Medication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.medications[id]
	if !ok || m.UserID != userID {
		return nil, fmt.Errorf("storage: medication %s: %w", id, internal.ErrNotFound)
	}
	cp := *m
	return &cp, nil
}

func (s *FileStorage) ListMedications(ctx context.Context, userID string) ([]internal.Medication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meds := []internal.Medication{}
	for _, m := range s.medications {
		if m.UserID == userID {
			meds = append(meds, *m)
		}
	}
	sort.Slice(meds, func(i, j int) bool {
		if meds[i].CreatedAt.Equal(meds[j].CreatedAt) {
			return meds[i].ID < meds[j].ID
		}
		return meds[i].CreatedAt.Before(meds[j].CreatedAt)
	})
	return meds, nil
}

func (s *FileStorage) DeleteMedication(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.medications[id]
	if !ok || m.UserID != userID {
		return fmt.Errorf("storage: medication %s: %w", id, internal.ErrNotFound)
	}
	delete(s.medications, id)
	s.markDirty(colMedications)
	return nil
}

func (s *FileStorage) AddMedicationLog(ctx context.Context, log *internal.MedicationLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *log
	s.medicationLogs[log.ID] = &cp
	s.markDirty(colMedicationLogs)
	return nil
}

func (s *FileStorage) ListMedicationLogs(ctx context.Context, userID string, from, to time.Time) ([]internal.MedicationLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	logs := []internal.MedicationLog{}
	for _, l := range s.medicationLogs {
		if l.UserID == userID && inRange(l.TakenAt, from, to) {
			logs = append(logs, *l)
		}
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].TakenAt.Before(logs[j].TakenAt) })
	return logs, nil
}

func (s *FileStorage) DeleteMedicationLog(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.medicationLogs[id]
	if !ok || l.UserID != userID {
		return fmt.Errorf("storage: medication log %s: %w", id, internal.ErrNotFound)
	}
	delete(s.medicationLogs, id)
	s.markDirty(colMedicationLogs)
	return nil
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

// --- Compile-time assertions ---
var _ Store = (*FileStorage)(nil)
