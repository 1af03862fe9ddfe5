// Package aggregate turns sparse per-category journal logs into dense per-day series for the
// dashboard, including the medication adherence classification of each day.
package aggregate

import (
	"time"

	"github.com/yasmngoncalves/PolarisApp/internal"
)

type Status string

const (
	StatusNoData   Status = "no-data"
	StatusMissed   Status = "missed"
	StatusPartial  Status = "partial"
	StatusComplete Status = "complete"
)

const (
	shortLabel = "Jan 2"
	dayLabel   = "2"

	// Ranges at least this long label chart rows with the day of month only.
	compactLabelDays = 30
)

type Input struct {
	Days           []string // day-keys, oldest first
	Location       *time.Location
	MoodLogs       []internal.MoodLog
	SleepLogs      []internal.SleepLog
	WaterLogs      []internal.WaterIntakeLog
	MedicationLogs []internal.MedicationLog
	Medications    []internal.Medication
}

type DayRow struct {
	Date      string  `json:"date"`
	FullDate  string  `json:"fullDate"`
	Mood      string  `json:"mood,omitempty"`
	Intensity int     `json:"intensity"`
	Duration  float64 `json:"duration"`
	Water     int     `json:"water"`
}

type AdherenceRow struct {
	Date       string                `json:"date"`
	FullDate   string                `json:"fullDate"`
	Status     Status                `json:"status"`
	TakenCount int                   `json:"takenCount"`
	TotalCount int                   `json:"totalCount"`
	TakenMeds  []internal.Medication `json:"takenMeds"`
	MissedMeds []internal.Medication `json:"missedMeds"`
}

type Result struct {
	Days      []DayRow       `json:"days"`
	Adherence []AdherenceRow `json:"adherence"`
}

// Daily builds one chart row and one adherence row per day-key in in.Days, in order.
// Adherence uses in.Medications for every day, not the set registered on that day.
func Daily(in Input) Result {
	loc := location(in.Location)

	water := make(map[string]int)
	for _, w := range in.WaterLogs {
		water[DayKey(w.LoggedAt, loc)] += w.Amount
	}

	taken := make(map[string]map[string]struct{})
	for _, m := range in.MedicationLogs {
		day := DayKey(m.TakenAt, loc)
		if taken[day] == nil {
			taken[day] = make(map[string]struct{})
		}
		taken[day][m.MedicationID] = struct{}{}
	}

	moods := make(map[string]internal.MoodLog, len(in.MoodLogs))
	for _, m := range in.MoodLogs {
		if _, dup := moods[m.Date]; !dup {
			moods[m.Date] = m
		}
	}
	sleeps := make(map[string]internal.SleepLog, len(in.SleepLogs))
	for _, s := range in.SleepLogs {
		if _, dup := sleeps[s.Date]; !dup {
			sleeps[s.Date] = s
		}
	}

	chartLayout := shortLabel
	if len(in.Days) >= compactLabelDays {
		chartLayout = dayLabel
	}

	res := Result{
		Days:      make([]DayRow, 0, len(in.Days)),
		Adherence: make([]AdherenceRow, 0, len(in.Days)),
	}
	for _, day := range in.Days {
		row := DayRow{
			Date:     Label(day, chartLayout, loc),
			FullDate: day,
			Water:    water[day],
		}
		if m, ok := moods[day]; ok {
			row.Mood = m.Mood
			row.Intensity = m.Intensity
		}
		if s, ok := sleeps[day]; ok {
			row.Duration = s.Duration
		}
		res.Days = append(res.Days, row)

		ids := taken[day]
		adh := AdherenceRow{
			Date:       Label(day, shortLabel, loc),
			FullDate:   day,
			TakenCount: len(ids),
			TotalCount: len(in.Medications),
			TakenMeds:  []internal.Medication{},
			MissedMeds: []internal.Medication{},
		}
		adh.Status = Classify(adh.TakenCount, adh.TotalCount)
		for _, med := range in.Medications {
			if _, ok := ids[med.ID]; ok {
				adh.TakenMeds = append(adh.TakenMeds, med)
			} else {
				adh.MissedMeds = append(adh.MissedMeds, med)
			}
		}
		res.Adherence = append(res.Adherence, adh)
	}
	return res
}

// Classify maps taken/total medication counts to an adherence status.
// The registration count alone decides no-data.
func Classify(taken, total int) Status {
	switch {
	case total == 0:
		return StatusNoData
	case taken == total:
		return StatusComplete
	case taken > 0:
		return StatusPartial
	default:
		return StatusMissed
	}
}

// Label formats a day-key for display. Unparseable keys are returned as-is.
func Label(day, layout string, loc *time.Location) string {
	t, err := time.ParseInLocation(internal.DayLayout, day, location(loc))
	if err != nil {
		return day
	}
	return t.Format(layout)
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
