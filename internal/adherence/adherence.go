// Package adherence computes medication adherence from dose-slot logs.
//
// Only regular timings (morning, afternoon, evening, bedtime) count toward
// adherence. As-needed rows are recorded but never scheduled.
package adherence

import (
	"sort"

	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/utils"
)

// ScheduledDoses returns 1 for a regular dose slot and 0 for an as-needed one.
func ScheduledDoses(m models.MedicationLog) int {
	if m.Timing.IsRegular() {
		return 1
	}
	return 0
}

// TakenDoses returns 1 when a scheduled dose was taken, otherwise 0.
func TakenDoses(m models.MedicationLog) int {
	if m.Taken {
		return ScheduledDoses(m)
	}
	return 0
}

// Rate returns the percentage of scheduled doses taken, rounded to 1 decimal place.
// With no scheduled doses the rate is 0.
func Rate(logs []models.MedicationLog) float64 {
	scheduled, taken := totals(logs)
	return rate(taken, scheduled)
}

// MedicineSummary is the adherence of a single medicine across all of its timings
type MedicineSummary struct {
	MedicineName string  `json:"medicine_name"`
	Scheduled    int     `json:"scheduled"`
	Taken        int     `json:"taken"`
	Rate         float64 `json:"rate"`
}

// Summary is the overall adherence result for a set of medication logs
type Summary struct {
	Scheduled     int               `json:"scheduled"`
	Taken         int               `json:"taken"`
	Rate          float64           `json:"rate"`
	AsNeededTotal int               `json:"as_needed_total"`
	AsNeededTaken int               `json:"as_needed_taken"`
	ByMedicine    []MedicineSummary `json:"by_medicine"`
}

// Compute aggregates medication logs into overall and per-medicine adherence.
// Medicines are grouped by name regardless of timing and reported in first-seen order.
func Compute(logs []models.MedicationLog) Summary {
	summary := Summary{ByMedicine: []MedicineSummary{}}
	index := make(map[string]int)

	for _, m := range logs {
		scheduled := ScheduledDoses(m)
		taken := TakenDoses(m)
		summary.Scheduled += scheduled
		summary.Taken += taken

		if !m.Timing.IsRegular() {
			summary.AsNeededTotal++
			if m.Taken {
				summary.AsNeededTaken++
			}
		}

		i, ok := index[m.MedicineName]
		if !ok {
			i = len(summary.ByMedicine)
			index[m.MedicineName] = i
			summary.ByMedicine = append(summary.ByMedicine, MedicineSummary{MedicineName: m.MedicineName})
		}
		summary.ByMedicine[i].Scheduled += scheduled
		summary.ByMedicine[i].Taken += taken
	}

	summary.Rate = rate(summary.Taken, summary.Scheduled)
	for i := range summary.ByMedicine {
		med := &summary.ByMedicine[i]
		med.Rate = rate(med.Taken, med.Scheduled)
	}

	return summary
}

// Ranked returns a copy of the per-medicine breakdown ordered by rate, highest first.
// Ties keep first-seen order.
func (s Summary) Ranked() []MedicineSummary {
	ranked := make([]MedicineSummary, len(s.ByMedicine))
	copy(ranked, s.ByMedicine)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Rate > ranked[j].Rate
	})
	return ranked
}

// FilterTiming returns the logs recorded for a single timing
func FilterTiming(logs []models.MedicationLog, timing models.Timing) []models.MedicationLog {
	var out []models.MedicationLog
	for _, m := range logs {
		if m.Timing == timing {
			out = append(out, m)
		}
	}
	return out
}

func totals(logs []models.MedicationLog) (scheduled, taken int) {
	for _, m := range logs {
		scheduled += ScheduledDoses(m)
		taken += TakenDoses(m)
	}
	return scheduled, taken
}

func rate(taken, scheduled int) float64 {
	if scheduled == 0 {
		return 0
	}
	return utils.Round(float64(taken)/float64(scheduled)*100, 1)
}
