package logs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/carelog/internal/cli"
	"github.com/julianstephens/carelog/internal/models"
)

type MedCmd struct {
	Add     MedAddCmd     `cmd:"" help:"Record medications for a day."`
	Edit    MedEditCmd    `cmd:"" help:"Change one medication entry."`
	Delete  MedDeleteCmd  `cmd:"" help:"Delete one medication entry."`
	History MedHistoryCmd `cmd:"" help:"List medication entries, newest day first."`
	Today   MedTodayCmd   `cmd:"" default:"1" help:"Show today's medications, copying yesterday's when empty."`
	Take    MedTakeCmd    `cmd:"" help:"Mark doses as taken."`
	Stats   MedStatsCmd   `cmd:"" help:"Show all-time adherence."`
}

// ParseEntry reads "name:timing" or "name:timing:taken". The name may itself contain colons.
func ParseEntry(s string) (models.MedicationEntry, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return models.MedicationEntry{}, fmt.Errorf("invalid medication %q: use name:timing[:taken]", s)
	}

	taken := false
	if last := parts[len(parts)-1]; len(parts) > 2 && !models.Timing(last).Valid() {
		v, err := strconv.ParseBool(last)
		if err != nil {
			return models.MedicationEntry{}, fmt.Errorf("invalid taken flag %q in %q", last, s)
		}
		taken = v
		parts = parts[:len(parts)-1]
	}
	timing := models.Timing(parts[len(parts)-1])
	name := strings.TrimSpace(strings.Join(parts[:len(parts)-1], ":"))
	return models.MedicationEntry{MedicineName: name, Timing: timing, Taken: taken}, nil
}

type MedAddCmd struct {
	Date string   `short:"d" help:"Date (YYYY-MM-DD). Defaults to today."`
	Med  []string `short:"m" sep:"none" required:"" help:"Medication as name:timing[:taken]; repeat for more. Timings: morning, afternoon, evening, bedtime, as_needed."`
}

func (c *MedAddCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	date, err := today(ctx, c.Date)
	if err != nil {
		return err
	}

	entries := make([]models.MedicationEntry, 0, len(c.Med))
	for _, raw := range c.Med {
		entry, err := ParseEntry(raw)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}

	rows, err := ctx.Service.CreateMedicationBatch(ctx.Ctx, user.ID, models.MedicationBatchInput{Date: date, Entries: entries})
	if err != nil {
		return err
	}
	if ok, err := ctx.Emit(rows); ok {
		return err
	}
	ctx.Printf("✓ Added %d medication(s) to %s\n", len(rows), date)
	return nil
}

type MedEditCmd struct {
	ID     string  `arg:"" help:"Medication entry id."`
	Name   *string `help:"New medicine name."`
	Timing *string `help:"New timing."`
	Taken  *bool   `help:"Whether the dose was taken."`
}

func (c *MedEditCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	in := models.MedicationUpdate{MedicineName: c.Name, Taken: c.Taken}
	if c.Timing != nil {
		t := models.Timing(*c.Timing)
		in.Timing = &t
	}
	m, err := ctx.Service.UpdateMedication(ctx.Ctx, user.ID, c.ID, in)
	if err != nil {
		return err
	}
	if ok, err := ctx.Emit(m); ok {
		return err
	}
	ctx.Printf("✓ Updated %s %s (%s)\n", check(m.Taken), m.MedicineName, m.Timing)
	return nil
}

type MedDeleteCmd struct {
	ID string `arg:"" help:"Medication entry id."`
}

func (c *MedDeleteCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	if err := ctx.Service.DeleteMedication(ctx.Ctx, user.ID, c.ID); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted medication entry %s\n", c.ID)
	return nil
}

type MedHistoryCmd struct {
	Page    int `short:"p" help:"Page number." default:"1"`
	PerPage int `help:"Entries per page." default:"50"`
}

func (c *MedHistoryCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	page, err := ctx.Service.MedicationHistory(ctx.Ctx, user.ID, c.Page, c.PerPage)
	if err != nil {
		return err
	}
	if ok, err := ctx.Emit(page); ok {
		return err
	}
	if page.Total == 0 {
		ctx.Println("No medications recorded yet.")
		return nil
	}
	rows := make([][]string, 0, len(page.Items))
	for _, m := range page.Items {
		rows = append(rows, []string{m.ID, m.Date, string(m.Timing), m.MedicineName, check(m.Taken)})
	}
	ctx.Table([]string{"ID", "Date", "Timing", "Medicine", "Taken"}, rows)
	ctx.Printf("Page %d, %d of %d entries\n", page.Page, len(page.Items), page.Total)
	return nil
}

type MedTodayCmd struct{}

func (c *MedTodayCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	log, err := ctx.Service.TodayMedications(ctx.Ctx, user.ID)
	if err != nil {
		return err
	}
	if ok, err := ctx.Emit(log); ok {
		return err
	}
	if len(log.Medications) == 0 {
		ctx.Printf("No medications for %s. Add some with: carelog med add -m name:morning\n", log.Date)
		return nil
	}
	settings, err := ctx.Service.GetSettings(ctx.Ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(log.Medications))
	for _, m := range log.Medications {
		rows = append(rows, []string{check(m.Taken), m.Timing.Label(settings.Locale), m.MedicineName, m.ID})
	}
	ctx.Printf("Medications for %s\n", log.Date)
	ctx.Table([]string{"", "Timing", "Medicine", "ID"}, rows)
	return nil
}

type MedTakeCmd struct {
	Timing string `arg:"" optional:"" help:"Mark every dose of this timing today as taken."`
	ID     string `help:"Mark a single entry instead."`
	Undo   bool   `help:"With --id, mark the entry as not taken."`
}

func (c *MedTakeCmd) Validate() error {
	if c.ID == "" && c.Timing == "" {
		return errors.New("pass a timing or --id")
	}
	if c.Undo && c.ID == "" {
		return errors.New("--undo requires --id")
	}
	return nil
}

func (c *MedTakeCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}

	if c.ID != "" {
		m, err := ctx.Service.SetMedicationTaken(ctx.Ctx, user.ID, c.ID, !c.Undo)
		if err != nil {
			return err
		}
		ctx.Printf("✓ %s %s (%s)\n", check(m.Taken), m.MedicineName, m.Timing)
		return nil
	}

	n, err := ctx.Service.TakeAllInTiming(ctx.Ctx, user.ID, models.Timing(c.Timing))
	if err != nil {
		return err
	}
	ctx.Printf("✓ Marked %d %s dose(s) as taken\n", n, c.Timing)
	return nil
}

type MedStatsCmd struct{}

func (c *MedStatsCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	summary, err := ctx.Service.MedicationStats(ctx.Ctx, user.ID)
	if err != nil {
		return err
	}
	if ok, err := ctx.Emit(summary); ok {
		return err
	}
	ctx.Printf("Adherence: %s%% (%d of %d scheduled doses)\n",
		strconv.FormatFloat(summary.Rate, 'f', -1, 64), summary.Taken, summary.Scheduled)
	ctx.Printf("As needed: %d taken of %d recorded\n", summary.AsNeededTaken, summary.AsNeededTotal)
	if len(summary.ByMedicine) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(summary.ByMedicine))
	for _, m := range summary.Ranked() {
		rows = append(rows, []string{
			m.MedicineName,
			fmt.Sprintf("%d/%d", m.Taken, m.Scheduled),
			strconv.FormatFloat(m.Rate, 'f', -1, 64) + "%",
		})
	}
	ctx.Table([]string{"Medicine", "Taken", "Rate"}, rows)
	return nil
}
