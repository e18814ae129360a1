package logs

import (
	"github.com/julianstephens/carelog/internal/cli"
	"github.com/julianstephens/carelog/internal/models"
)

type SleepCmd struct {
	Add       SleepAddCmd       `cmd:"" help:"Record a night of sleep."`
	Edit      SleepEditCmd      `cmd:"" help:"Change a sleep entry."`
	Delete    SleepDeleteCmd    `cmd:"" help:"Delete a sleep entry."`
	List      SleepListCmd      `cmd:"" default:"1" help:"List sleep entries, newest first."`
	Available SleepAvailableCmd `cmd:"" help:"List recent dates that have no sleep entry yet."`
}

type SleepAddCmd struct {
	Date    string   `short:"d" help:"Date (YYYY-MM-DD) of the wake-up. Defaults to today."`
	Bedtime *string  `short:"b" help:"Bedtime (HH:MM)."`
	Wakeup  *string  `short:"w" help:"Wake-up time (HH:MM)."`
	Hours   *float64 `help:"Hours slept. Derived from bedtime and wake-up when omitted."`
	Quality *int     `short:"q" help:"Sleep quality from 1 to 5."`
}

func (c *SleepAddCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	date, err := today(ctx, c.Date)
	if err != nil {
		return err
	}
	log, err := ctx.Service.CreateSleepLog(ctx.Ctx, user.ID, models.SleepLogInput{
		Date:         date,
		Bedtime:      c.Bedtime,
		WakeupTime:   c.Wakeup,
		SleepHours:   c.Hours,
		SleepQuality: c.Quality,
	})
	if err != nil {
		return err
	}
	if ok, err := ctx.Emit(log); ok {
		return err
	}
	ctx.Printf("✓ Logged sleep for %s: %s h (id %s)\n", log.Date, cli.Float(log.SleepHours), log.ID)
	return nil
}

type SleepEditCmd struct {
	ID      string   `arg:"" help:"Sleep entry id."`
	Bedtime *string  `short:"b" help:"Bedtime (HH:MM)."`
	Wakeup  *string  `short:"w" help:"Wake-up time (HH:MM)."`
	Hours   *float64 `help:"Hours slept."`
	Quality *int     `short:"q" help:"Sleep quality from 1 to 5."`
}

func (c *SleepEditCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	log, err := ctx.Service.UpdateSleepLog(ctx.Ctx, user.ID, c.ID, models.SleepLogInput{
		Bedtime:      c.Bedtime,
		WakeupTime:   c.Wakeup,
		SleepHours:   c.Hours,
		SleepQuality: c.Quality,
	})
	if err != nil {
		return err
	}
	if ok, err := ctx.Emit(log); ok {
		return err
	}
	ctx.Printf("✓ Updated sleep for %s: %s h\n", log.Date, cli.Float(log.SleepHours))
	return nil
}

type SleepDeleteCmd struct {
	ID string `arg:"" help:"Sleep entry id."`
}

func (c *SleepDeleteCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	if err := ctx.Service.DeleteSleepLog(ctx.Ctx, user.ID, c.ID); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted sleep entry %s\n", c.ID)
	return nil
}

type SleepListCmd struct {
	Page    int `short:"p" help:"Page number." default:"1"`
	PerPage int `help:"Entries per page." default:"20"`
}

func (c *SleepListCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	page, err := ctx.Service.ListSleepLogs(ctx.Ctx, user.ID, c.Page, c.PerPage)
	if err != nil {
		return err
	}
	if ok, err := ctx.Emit(page); ok {
		return err
	}
	if page.Total == 0 {
		ctx.Println("No sleep entries yet.")
		return nil
	}
	rows := make([][]string, 0, len(page.Items))
	for _, s := range page.Items {
		rows = append(rows, []string{
			s.ID, s.Date, cli.String(s.Bedtime), cli.String(s.WakeupTime), cli.Float(s.SleepHours), cli.Int(s.SleepQuality),
		})
	}
	ctx.Table([]string{"ID", "Date", "Bed", "Wake", "Hours", "Quality"}, rows)
	ctx.Printf("Page %d, %d of %d entries\n", page.Page, len(page.Items), page.Total)
	return nil
}

type SleepAvailableCmd struct{}

func (c *SleepAvailableCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	dates, err := ctx.Service.AvailableSleepDates(ctx.Ctx, user.ID)
	if err != nil {
		return err
	}
	if ok, err := ctx.Emit(dates); ok {
		return err
	}
	if len(dates) == 0 {
		ctx.Println("Every recent date already has a sleep entry.")
		return nil
	}
	for _, d := range dates {
		ctx.Println(d)
	}
	return nil
}
