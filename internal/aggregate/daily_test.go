package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yasmngoncalves/PolarisApp/internal"
)

var brt = time.FixedZone("BRT", -3*60*60)

func at(day string, hour int) time.Time {
	t, err := time.ParseInLocation(internal.DayLayout, day, brt)
	if err != nil {
		panic(err)
	}
	return t.Add(time.Duration(hour) * time.Hour)
}

func meds(ids ...string) []internal.Medication {
	out := make([]internal.Medication, len(ids))
	for i, id := range ids {
		out[i] = internal.Medication{ID: id, MedicationName: "med " + id}
	}
	return out
}

func medIDs(ms []internal.Medication) []string {
	ids := make([]string, 0, len(ms))
	for _, m := range ms {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestDaily_Scenario(t *testing.T) {
	in := Input{
		Days:        []string{"2024-07-15", "2024-07-16", "2024-07-17"},
		Location:    brt,
		Medications: meds("A", "B"),
		MedicationLogs: []internal.MedicationLog{
			{MedicationID: "A", TakenAt: at("2024-07-15", 9)},
		},
		WaterLogs: []internal.WaterIntakeLog{
			{Amount: 1000, LoggedAt: at("2024-07-15", 8)},
			{Amount: 1500, LoggedAt: at("2024-07-15", 14)},
			{Amount: 2000, LoggedAt: at("2024-07-16", 10)},
		},
	}

	res := Daily(in)
	require.Len(t, res.Days, 3)
	require.Len(t, res.Adherence, 3)

	assert.Equal(t, 2500, res.Days[0].Water)
	assert.Equal(t, StatusPartial, res.Adherence[0].Status)
	assert.Equal(t, 1, res.Adherence[0].TakenCount)
	assert.Equal(t, 2, res.Adherence[0].TotalCount)
	assert.Equal(t, []string{"A"}, medIDs(res.Adherence[0].TakenMeds))
	assert.Equal(t, []string{"B"}, medIDs(res.Adherence[0].MissedMeds))

	assert.Equal(t, 2000, res.Days[1].Water)
	assert.Equal(t, StatusMissed, res.Adherence[1].Status)
	assert.Equal(t, 0, res.Adherence[1].TakenCount)

	assert.Equal(t, 0, res.Days[2].Water)
	assert.Equal(t, StatusMissed, res.Adherence[2].Status)
	assert.Equal(t, 2, res.Adherence[2].TotalCount)
}

func TestDaily_OrderAndLength(t *testing.T) {
	days := LastNDays(at("2024-07-31", 12), 15, brt)
	res := Daily(Input{Days: days, Location: brt})
	require.Len(t, res.Days, len(days))
	for i, d := range days {
		assert.Equal(t, d, res.Days[i].FullDate)
		assert.Equal(t, d, res.Adherence[i].FullDate)
	}
	assert.Equal(t, "Jul 17", res.Days[0].Date)
}

func TestDaily_Idempotent(t *testing.T) {
	in := Input{
		Days:        []string{"2024-07-15", "2024-07-16"},
		Location:    brt,
		Medications: meds("A"),
		MoodLogs:    []internal.MoodLog{{Date: "2024-07-16", Mood: "calm", Intensity: 7}},
		SleepLogs:   []internal.SleepLog{{Date: "2024-07-15", Duration: 7.5, Quality: "good"}},
		WaterLogs:   []internal.WaterIntakeLog{{Amount: 300, LoggedAt: at("2024-07-16", 1)}},
		MedicationLogs: []internal.MedicationLog{
			{MedicationID: "A", TakenAt: at("2024-07-15", 20)},
		},
	}
	assert.Equal(t, Daily(in), Daily(in))
}

func TestDaily_MoodAndSleepLookup(t *testing.T) {
	res := Daily(Input{
		Days:      []string{"2024-07-15", "2024-07-16"},
		Location:  brt,
		MoodLogs:  []internal.MoodLog{{Date: "2024-07-16", Mood: "happy", Intensity: 8}},
		SleepLogs: []internal.SleepLog{{Date: "2024-07-15", Duration: 8.25, Quality: "good"}},
	})
	assert.Equal(t, "", res.Days[0].Mood)
	assert.Equal(t, 0, res.Days[0].Intensity)
	assert.Equal(t, 8.25, res.Days[0].Duration)
	assert.Equal(t, "happy", res.Days[1].Mood)
	assert.Equal(t, 8, res.Days[1].Intensity)
	assert.Equal(t, 0.0, res.Days[1].Duration)
}

func TestDaily_WaterUsesLocalMidnight(t *testing.T) {
	res := Daily(Input{
		Days:     []string{"2024-07-15", "2024-07-16"},
		Location: brt,
		WaterLogs: []internal.WaterIntakeLog{
			// 23:30 local on the 15th is already the 16th in UTC.
			{Amount: 250, LoggedAt: at("2024-07-15", 23).Add(30 * time.Minute).UTC()},
			{Amount: 500, LoggedAt: at("2024-07-16", 0)},
			// outside the range
			{Amount: 9999, LoggedAt: at("2024-07-14", 23)},
			{Amount: 9999, LoggedAt: at("2024-07-17", 0)},
		},
	})
	assert.Equal(t, 250, res.Days[0].Water)
	assert.Equal(t, 500, res.Days[1].Water)
}

func TestDaily_NoRegisteredMedications(t *testing.T) {
	res := Daily(Input{
		Days:     []string{"2024-07-15"},
		Location: brt,
		MoodLogs: []internal.MoodLog{{Date: "2024-07-15", Mood: "sad", Intensity: 3}},
		MedicationLogs: []internal.MedicationLog{
			{MedicationID: "gone", TakenAt: at("2024-07-15", 9)},
		},
	})
	assert.Equal(t, StatusNoData, res.Adherence[0].Status)
	assert.Equal(t, 0, res.Adherence[0].TotalCount)
	assert.Empty(t, res.Adherence[0].TakenMeds)
	assert.Empty(t, res.Adherence[0].MissedMeds)
}

func TestDaily_DuplicateMedicationLogsCountOnce(t *testing.T) {
	res := Daily(Input{
		Days:        []string{"2024-07-15"},
		Location:    brt,
		Medications: meds("A", "B"),
		MedicationLogs: []internal.MedicationLog{
			{MedicationID: "A", TakenAt: at("2024-07-15", 8)},
			{MedicationID: "A", TakenAt: at("2024-07-15", 20)},
			{MedicationID: "B", TakenAt: at("2024-07-15", 21)},
		},
	})
	assert.Equal(t, 2, res.Adherence[0].TakenCount)
	assert.Equal(t, StatusComplete, res.Adherence[0].Status)
}

func TestDaily_PartitionCoversRegistrations(t *testing.T) {
	registered := meds("A", "B", "C", "D")
	res := Daily(Input{
		Days:        []string{"2024-07-15"},
		Location:    brt,
		Medications: registered,
		MedicationLogs: []internal.MedicationLog{
			{MedicationID: "B", TakenAt: at("2024-07-15", 8)},
			{MedicationID: "D", TakenAt: at("2024-07-15", 9)},
		},
	})
	adh := res.Adherence[0]
	union := append(medIDs(adh.TakenMeds), medIDs(adh.MissedMeds)...)
	assert.ElementsMatch(t, medIDs(registered), union)
	for _, id := range medIDs(adh.TakenMeds) {
		assert.NotContains(t, medIDs(adh.MissedMeds), id)
	}
}

func TestDaily_EmptyInput(t *testing.T) {
	res := Daily(Input{})
	assert.Empty(t, res.Days)
	assert.Empty(t, res.Adherence)
}

func TestDaily_CompactLabelsForMonth(t *testing.T) {
	days := LastNDays(at("2024-07-31", 12), 30, brt)
	res := Daily(Input{Days: days, Location: brt})
	assert.Equal(t, "2", res.Days[0].Date)
	assert.Equal(t, "Jul 2", res.Adherence[0].Date)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		total, taken int
		want         Status
	}{
		{0, 0, StatusNoData},
		{0, 2, StatusNoData},
		{3, 0, StatusMissed},
		{3, 2, StatusPartial},
		{3, 3, StatusComplete},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Classify(c.taken, c.total), "total=%d taken=%d", c.total, c.taken)
	}
}
