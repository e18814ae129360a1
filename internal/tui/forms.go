package tui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/carelog/internal/constants"
	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/utils"
)

// DailyLogFormModel holds the raw values edited by the daily log form
type DailyLogFormModel struct {
	Date string
	Mood string // "" when skipped
	Note string
}

var moodOptions = []huh.Option[string]{
	huh.NewOption("Skip", ""),
	huh.NewOption("1 - very low", "1"),
	huh.NewOption("2 - low", "2"),
	huh.NewOption("3 - okay", "3"),
	huh.NewOption("4 - good", "4"),
	huh.NewOption("5 - very good", "5"),
}

// NewDailyLogForm builds the huh form used by `carelog log add --interactive`
func NewDailyLogForm(f *DailyLogFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date").
				Description("YYYY-MM-DD").
				Value(&f.Date).
				Validate(func(s string) error {
					if !utils.ValidateDateFormat(strings.TrimSpace(s)) {
						return errors.New("use the YYYY-MM-DD format")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Mood").
				Options(moodOptions...).
				Value(&f.Mood),
			huh.NewText().
				Title("Note").
				Description("Up to 140 characters").
				CharLimit(constants.MaxFreeNoteRunes).
				Value(&f.Note),
		),
	)
}

// Input converts the form values into a DailyLogInput
func (f DailyLogFormModel) Input() (models.DailyLogInput, error) {
	in := models.DailyLogInput{Date: strings.TrimSpace(f.Date)}
	if f.Mood != "" {
		mood, err := strconv.Atoi(f.Mood)
		if err != nil {
			return in, err
		}
		in.MoodScore = &mood
	}
	if note := strings.TrimSpace(f.Note); note != "" {
		in.FreeNote = &note
	}
	return in, nil
}
