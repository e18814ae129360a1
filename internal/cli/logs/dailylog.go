// Package logs holds the daily log, sleep and medication commands.
package logs

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/carelog/internal/cli"
	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/tui"
)

type LogCmd struct {
	Add    LogAddCmd    `cmd:"" help:"Record mood and a diary note for a day."`
	Show   LogShowCmd   `cmd:"" help:"Show one day with its sleep and medications."`
	Edit   LogEditCmd   `cmd:"" help:"Change the mood or note of a day."`
	Delete LogDeleteCmd `cmd:"" help:"Delete a day and everything recorded under it."`
	List   LogListCmd   `cmd:"" default:"1" help:"List recent days, newest first."`
}

// today resolves an empty date to today in the configured timezone
func today(ctx *cli.Context, date string) (string, error) {
	if date != "" {
		return date, nil
	}
	return ctx.Service.Today(ctx.Ctx)
}

type LogAddCmd struct {
	Date        string  `short:"d" help:"Date (YYYY-MM-DD). Defaults to today."`
	Mood        *int    `short:"m" help:"Mood score from 1 (very low) to 5 (very good)."`
	Note        *string `short:"n" help:"Diary note, up to 140 characters."`
	Interactive bool    `short:"i" help:"Fill the entry in with a form."`
}

func (c *LogAddCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	date, err := today(ctx, c.Date)
	if err != nil {
		return err
	}

	in := models.DailyLogInput{Date: date, MoodScore: c.Mood, FreeNote: c.Note}
	if c.Interactive {
		form := tui.DailyLogFormModel{Date: date}
		if c.Mood != nil {
			form.Mood = strconv.Itoa(*c.Mood)
		}
		if c.Note != nil {
			form.Note = *c.Note
		}
		if err := tui.NewDailyLogForm(&form).Run(); err != nil {
			return err
		}
		if in, err = form.Input(); err != nil {
			return err
		}
	}

	log, err := ctx.Service.CreateDailyLog(ctx.Ctx, user.ID, in)
	if err != nil {
		return err
	}
	if ok, err := ctx.Emit(log); ok {
		return err
	}
	ctx.Printf("✓ Logged %s (mood %s)\n", log.Date, cli.Int(log.MoodScore))
	return nil
}

type LogShowCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD). Defaults to today."`
}

func (c *LogShowCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	date, err := today(ctx, c.Date)
	if err != nil {
		return err
	}
	log, err := ctx.Service.GetDailyLog(ctx.Ctx, user.ID, date)
	if err != nil {
		return err
	}
	if ok, err := ctx.Emit(log); ok {
		return err
	}

	settings, err := ctx.Service.GetSettings(ctx.Ctx)
	if err != nil {
		return err
	}
	ctx.Printf("%s\n", log.Date)
	ctx.Printf("  Mood:  %s\n", cli.Int(log.MoodScore))
	ctx.Printf("  Note:  %s\n", cli.String(log.FreeNote))
	if s := log.Sleep; s != nil {
		ctx.Printf("  Sleep: %s to %s, %s h, quality %s\n",
			cli.String(s.Bedtime), cli.String(s.WakeupTime), cli.Float(s.SleepHours), cli.Int(s.SleepQuality))
	} else {
		ctx.Println("  Sleep: -")
	}
	if len(log.Medications) == 0 {
		ctx.Println("  Medications: -")
		return nil
	}
	ctx.Println("  Medications:")
	for _, m := range log.Medications {
		ctx.Printf("    %s %-10s %s\n", check(m.Taken), m.Timing.Label(settings.Locale), m.MedicineName)
	}
	return nil
}

func check(taken bool) string {
	if taken {
		return "[x]"
	}
	return "[ ]"
}

type LogEditCmd struct {
	Date      string  `arg:"" help:"Date (YYYY-MM-DD) of the log to edit."`
	Mood      *int    `short:"m" help:"New mood score from 1 to 5."`
	Note      *string `short:"n" help:"New diary note."`
	ClearMood bool    `help:"Remove the mood score."`
	ClearNote bool    `help:"Remove the diary note."`
}

func (c *LogEditCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	current, err := ctx.Service.GetDailyLog(ctx.Ctx, user.ID, c.Date)
	if err != nil {
		return err
	}

	in := models.DailyLogInput{Date: c.Date, MoodScore: current.MoodScore, FreeNote: current.FreeNote}
	if c.Mood != nil {
		in.MoodScore = c.Mood
	}
	if c.Note != nil {
		in.FreeNote = c.Note
	}
	if c.ClearMood {
		in.MoodScore = nil
	}
	if c.ClearNote {
		in.FreeNote = nil
	}

	log, err := ctx.Service.UpdateDailyLog(ctx.Ctx, user.ID, c.Date, in)
	if err != nil {
		return err
	}
	if ok, err := ctx.Emit(log); ok {
		return err
	}
	ctx.Printf("✓ Updated %s\n", log.Date)
	return nil
}

type LogDeleteCmd struct {
	Date string `arg:"" help:"Date (YYYY-MM-DD) of the log to delete."`
}

func (c *LogDeleteCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	if err := ctx.Service.DeleteDailyLog(ctx.Ctx, user.ID, c.Date); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted %s with its sleep and medication entries\n", c.Date)
	return nil
}

type LogListCmd struct {
	Page    int `short:"p" help:"Page number." default:"1"`
	PerPage int `help:"Logs per page." default:"20"`
}

func (c *LogListCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	page, err := ctx.Service.ListDailyLogs(ctx.Ctx, user.ID, c.Page, c.PerPage)
	if err != nil {
		return err
	}
	if ok, err := ctx.Emit(page); ok {
		return err
	}
	if page.Total == 0 {
		ctx.Println("No logs yet. Add one with: carelog log add --mood 3")
		return nil
	}
	rows := make([][]string, 0, len(page.Items))
	for _, log := range page.Items {
		var sleepHours *float64
		if h, ok := log.SleepHours(); ok {
			sleepHours = &h
		}
		taken := 0
		for _, m := range log.Medications {
			if m.Taken {
				taken++
			}
		}
		rows = append(rows, []string{
			log.Date,
			cli.Int(log.MoodScore),
			cli.Float(sleepHours),
			fmt.Sprintf("%d/%d", taken, len(log.Medications)),
			cli.String(log.FreeNote),
		})
	}
	ctx.Table([]string{"Date", "Mood", "Sleep", "Doses", "Note"}, rows)
	ctx.Printf("Page %d, %d of %d logs\n", page.Page, len(page.Items), page.Total)
	return nil
}
