// Package sleep derives sleep duration from bedtime and wakeup time.
//
// Times are time-of-day values without a date. Wakeup is assumed to fall on the
// same nominal day as bedtime unless it is at or before bedtime, in which case it
// rolls over to the next day. Equal times therefore yield a full 24 hours.
package sleep

import (
	"fmt"
	"math"

	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/utils"
)

const minutesPerDay = 24 * 60

// Hours returns the number of hours slept between bedtime and wakeup (HH:MM),
// rounded to 2 decimal places. The boolean is false when either time is missing
// or malformed, in which case no duration is defined.
func Hours(bedtime, wakeup string) (float64, bool) {
	if bedtime == "" || wakeup == "" {
		return 0, false
	}
	bed, err := utils.ParseTimeToMinutes(bedtime)
	if err != nil {
		return 0, false
	}
	wake, err := utils.ParseTimeToMinutes(wakeup)
	if err != nil {
		return 0, false
	}

	// Overnight sleep: wakeup at or before bedtime belongs to the next day
	if wake <= bed {
		wake += minutesPerDay
	}

	return utils.Round(float64(wake-bed)/60, 2), true
}

// Format renders a duration as "H hours M minutes" (or "H時間M分" for the ja locale).
// Minutes are the remainder after flooring the hour count. Zero or negative durations
// render as an empty string.
func Format(hours float64, locale string) string {
	if hours <= 0 {
		return ""
	}
	total := int(math.Round(hours * 60))
	h := total / 60
	m := total % 60

	if locale == "ja" {
		return fmt.Sprintf("%d時間%d分", h, m)
	}
	return fmt.Sprintf("%d hours %d minutes", h, m)
}

// ComputeOnSave fills SleepHours from the bedtime and wakeup time when it is absent.
// It never overwrites a value that is already set. It reports whether a value was derived.
func ComputeOnSave(log *models.SleepLog) bool {
	if log == nil || log.SleepHours != nil {
		return false
	}
	if log.Bedtime == nil || log.WakeupTime == nil {
		return false
	}
	hours, ok := Hours(*log.Bedtime, *log.WakeupTime)
	if !ok {
		return false
	}
	log.SleepHours = &hours
	return true
}
