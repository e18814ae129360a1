package adherence

import (
	"testing"

	"github.com/julianstephens/carelog/internal/models"
)

func med(name string, timing models.Timing, taken bool) models.MedicationLog {
	return models.MedicationLog{MedicineName: name, Timing: timing, Taken: taken}
}

func TestRate(t *testing.T) {
	tests := []struct {
		name string
		logs []models.MedicationLog
		want float64
	}{
		{
			name: "empty",
			logs: nil,
			want: 0,
		},
		{
			name: "only as needed",
			logs: []models.MedicationLog{
				med("Loxoprofen", models.TimingAsNeeded, true),
				med("Loxoprofen", models.TimingAsNeeded, false),
			},
			want: 0,
		},
		{
			name: "as needed excluded",
			logs: []models.MedicationLog{
				med("A", models.TimingMorning, true),
				med("A", models.TimingEvening, true),
				med("B", models.TimingBedtime, false),
				med("C", models.TimingAsNeeded, true),
			},
			want: 66.7,
		},
		{
			name: "all taken",
			logs: []models.MedicationLog{
				med("A", models.TimingMorning, true),
				med("A", models.TimingAfternoon, true),
			},
			want: 100,
		},
		{
			name: "none taken",
			logs: []models.MedicationLog{
				med("A", models.TimingMorning, false),
			},
			want: 0,
		},
		{
			name: "one of eight",
			logs: []models.MedicationLog{
				med("A", models.TimingMorning, true),
				med("A", models.TimingMorning, false),
				med("A", models.TimingMorning, false),
				med("A", models.TimingMorning, false),
				med("A", models.TimingMorning, false),
				med("A", models.TimingMorning, false),
				med("A", models.TimingMorning, false),
				med("A", models.TimingMorning, false),
			},
			want: 12.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rate(tt.logs); got != tt.want {
				t.Errorf("Rate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompute(t *testing.T) {
	logs := []models.MedicationLog{
		med("Sertraline", models.TimingMorning, true),
		med("Magnesium", models.TimingBedtime, false),
		med("Sertraline", models.TimingEvening, false),
		med("Ibuprofen", models.TimingAsNeeded, true),
		med("Magnesium", models.TimingBedtime, true),
		med("Sertraline", models.TimingMorning, true),
	}

	got := Compute(logs)

	if got.Scheduled != 5 || got.Taken != 3 {
		t.Errorf("totals = %d/%d, want 3/5", got.Taken, got.Scheduled)
	}
	if got.Rate != 60 {
		t.Errorf("Rate = %v, want 60", got.Rate)
	}
	if got.AsNeededTotal != 1 || got.AsNeededTaken != 1 {
		t.Errorf("as needed = %d/%d, want 1/1", got.AsNeededTaken, got.AsNeededTotal)
	}

	want := []MedicineSummary{
		{MedicineName: "Sertraline", Scheduled: 3, Taken: 2, Rate: 66.7},
		{MedicineName: "Magnesium", Scheduled: 2, Taken: 1, Rate: 50},
		{MedicineName: "Ibuprofen", Scheduled: 0, Taken: 0, Rate: 0},
	}
	if len(got.ByMedicine) != len(want) {
		t.Fatalf("ByMedicine has %d entries, want %d", len(got.ByMedicine), len(want))
	}
	for i := range want {
		if got.ByMedicine[i] != want[i] {
			t.Errorf("ByMedicine[%d] = %+v, want %+v", i, got.ByMedicine[i], want[i])
		}
	}
}

func TestComputeEmpty(t *testing.T) {
	got := Compute(nil)
	if got.Rate != 0 || got.Scheduled != 0 {
		t.Errorf("Compute(nil) = %+v, want zero summary", got)
	}
	if got.ByMedicine == nil {
		t.Error("ByMedicine should be an empty slice, not nil")
	}
}

func TestRanked(t *testing.T) {
	s := Summary{ByMedicine: []MedicineSummary{
		{MedicineName: "A", Rate: 50},
		{MedicineName: "B", Rate: 90},
		{MedicineName: "C", Rate: 50},
	}}

	ranked := s.Ranked()
	names := []string{ranked[0].MedicineName, ranked[1].MedicineName, ranked[2].MedicineName}
	if names[0] != "B" || names[1] != "A" || names[2] != "C" {
		t.Errorf("Ranked() order = %v, want [B A C]", names)
	}
	if s.ByMedicine[0].MedicineName != "A" {
		t.Error("Ranked() must not reorder the original breakdown")
	}
}

func TestFilterTiming(t *testing.T) {
	logs := []models.MedicationLog{
		med("A", models.TimingMorning, false),
		med("B", models.TimingEvening, false),
		med("C", models.TimingMorning, true),
	}
	got := FilterTiming(logs, models.TimingMorning)
	if len(got) != 2 || got[0].MedicineName != "A" || got[1].MedicineName != "C" {
		t.Errorf("FilterTiming() = %+v", got)
	}
}
