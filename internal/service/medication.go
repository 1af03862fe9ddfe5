package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yasmngoncalves/PolarisApp/internal"
	"github.com/yasmngoncalves/PolarisApp/internal/aggregate"
)

type MedicationInput struct {
	Name   string `json:"medicationName" validate:"required,max=100"`
	Dosage string `json:"dosage" validate:"max=100"`
}

type AddMedicationsRequest struct {
	Medications []MedicationInput `json:"medications" validate:"required,min=1,max=20,dive"`
}

type ToggleResult struct {
	MedicationID string `json:"medicationId"`
	Date         string `json:"date"`
	Taken        bool   `json:"taken"`
}

func (j *Journal) AddMedications(ctx context.Context, userID string, req *AddMedicationsRequest, now time.Time) ([]internal.Medication, error) {
	if err := check(req); err != nil {
		return nil, err
	}
	out := make([]internal.Medication, 0, len(req.Medications))
	for i, in := range req.Medications {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: medication %d has a blank name", internal.ErrInvalidInput, i)
		}
		m := internal.Medication{
			ID:             uuid.NewString(),
			UserID:         userID,
			MedicationName: name,
			Dosage:         strings.TrimSpace(in.Dosage),
			// keeps batch order stable when listing by creation time
			CreatedAt: now.Add(time.Duration(i) * time.Millisecond),
		}
		if err := j.Store.AddMedication(ctx, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	j.changed(ctx, userID)
	return out, nil
}

func (j *Journal) ListMedications(ctx context.Context, userID string) ([]internal.Medication, error) {
	meds, err := j.Store.ListMedications(ctx, userID)
	if err != nil {
		return nil, err
	}
	if meds == nil {
		meds = []internal.Medication{}
	}
	return meds, nil
}

// DeleteMedication removes the registration only. Past logs stay in storage.
func (j *Journal) DeleteMedication(ctx context.Context, userID, id string) error {
	if err := j.Store.DeleteMedication(ctx, userID, id); err != nil {
		return err
	}
	j.changed(ctx, userID)
	return nil
}

// ToggleMedication flips the taken state of a medication on day. Un-taking removes every log
// of that medication on the day.
func (j *Journal) ToggleMedication(ctx context.Context, userID, id, day string, now time.Time) (*ToggleResult, error) {
	if err := checkDay(day); err != nil {
		return nil, err
	}
	med, err := j.Store.GetMedication(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	logs, err := j.medicationLogsOn(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	removed := 0
	for _, l := range logs {
		if l.MedicationID != id {
			continue
		}
		if err := j.Store.DeleteMedicationLog(ctx, userID, l.ID); err != nil {
			return nil, err
		}
		removed++
	}
	res := &ToggleResult{MedicationID: id, Date: day}
	if removed > 0 {
		j.changed(ctx, userID)
		return res, nil
	}

	start, _, err := aggregate.DayBounds(day, j.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrInvalidInput, err)
	}
	local := now.In(j.Location)
	takenAt := time.Date(start.Year(), start.Month(), start.Day(),
		local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), j.Location)
	log := &internal.MedicationLog{
		ID:             uuid.NewString(),
		UserID:         userID,
		MedicationID:   med.ID,
		MedicationName: med.MedicationName,
		Dosage:         med.Dosage,
		TakenAt:        takenAt,
	}
	if err := j.Store.AddMedicationLog(ctx, log); err != nil {
		return nil, err
	}
	j.changed(ctx, userID)
	res.Taken = true
	return res, nil
}

// TakenMedicationIDs lists the distinct medication ids logged on day, in first-taken order.
func (j *Journal) TakenMedicationIDs(ctx context.Context, userID, day string) ([]string, error) {
	if err := checkDay(day); err != nil {
		return nil, err
	}
	logs, err := j.medicationLogsOn(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	ids := []string{}
	seen := make(map[string]struct{}, len(logs))
	for _, l := range logs {
		if _, ok := seen[l.MedicationID]; ok {
			continue
		}
		seen[l.MedicationID] = struct{}{}
		ids = append(ids, l.MedicationID)
	}
	return ids, nil
}

func (j *Journal) takenOn(ctx context.Context, userID, day string) (map[string]struct{}, error) {
	ids, err := j.TakenMedicationIDs(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (j *Journal) medicationLogsOn(ctx context.Context, userID, day string) ([]internal.MedicationLog, error) {
	start, next, err := aggregate.DayBounds(day, j.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrInvalidInput, err)
	}
	return j.Store.ListMedicationLogs(ctx, userID, start, next)
}
