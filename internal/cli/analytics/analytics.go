// Package analytics renders statistics, charts and summaries over a period.
package analytics

import (
	"strconv"
	"strings"

	"github.com/julianstephens/carelog/internal/cli"
	"github.com/julianstephens/carelog/internal/constants"
	"github.com/julianstephens/carelog/internal/service"
	"github.com/julianstephens/carelog/internal/stats"
)

// RangeFlags selects a period preset, or a custom range when --from and --to are given
type RangeFlags struct {
	Period string `short:"p" help:"Period: 1week, 2weeks, 3weeks, 1month, 3months, 6months, 1year or custom." default:"1month"`
	From   string `help:"Start date (YYYY-MM-DD) of a custom range."`
	To     string `help:"End date (YYYY-MM-DD) of a custom range."`
}

// Query builds the service query. Explicit dates imply the custom period.
func (f RangeFlags) Query() service.RangeQuery {
	q := service.RangeQuery{Period: f.Period, From: f.From, To: f.To}
	if f.From != "" || f.To != "" {
		q.Period = string(stats.PeriodCustom)
	}
	return q
}

type StatsCmd struct {
	RangeFlags
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	res, err := ctx.Service.Statistics(ctx.Ctx, user.ID, c.Query())
	if err != nil {
		return err
	}
	if ok, err := ctx.Emit(res); ok {
		return err
	}

	st := res.Statistics
	ctx.Printf("Statistics for %s to %s (%d entries over %d days)\n", res.Range.From, res.Range.To, st.TotalEntries, st.PeriodDays)
	ctx.Table([]string{"", "Average", "Min", "Max"}, [][]string{
		{"Mood", cli.Float(st.MoodAvg), cli.Int(st.MoodMin), cli.Int(st.MoodMax)},
		{"Sleep (h)", cli.Float(st.SleepAvg), cli.Float(st.SleepMin), cli.Float(st.SleepMax)},
	})
	ctx.Printf("Medication adherence: %s%%\n", strconv.FormatFloat(st.AdherenceRate, 'f', -1, 64))
	return nil
}

type ChartCmd struct {
	RangeFlags
}

func (c *ChartCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	res, err := ctx.Service.ChartData(ctx.Ctx, user.ID, c.Query())
	if err != nil {
		return err
	}
	if ok, err := ctx.Emit(res); ok {
		return err
	}
	if res.Chart.Len() == 0 {
		ctx.Printf("Nothing to chart between %s and %s.\n", res.Range.From, res.Range.To)
		return nil
	}

	rows := make([][]string, 0, res.Chart.Len())
	for i, label := range res.Chart.Labels {
		rows = append(rows, []string{label, MoodBar(res.Chart.Mood[i]), SleepBar(res.Chart.Sleep[i])})
	}
	ctx.Table([]string{"Date", "Mood", "Sleep"}, rows)
	return nil
}

// MoodBar draws a score as filled and empty dots
func MoodBar(score *int) string {
	if score == nil {
		return "-"
	}
	n := min(max(*score, 0), constants.MaxMoodScore)
	return strings.Repeat("●", n) + strings.Repeat("○", constants.MaxMoodScore-n) + " " + strconv.Itoa(*score)
}

// SleepBar draws one block per hour slept, capped at twelve
func SleepBar(hours *float64) string {
	if hours == nil {
		return "-"
	}
	n := min(max(int(*hours+0.5), 0), 12)
	return strings.Repeat("█", n) + " " + strconv.FormatFloat(*hours, 'f', -1, 64) + "h"
}

type SummaryCmd struct {
	RangeFlags
	Details bool `short:"v" help:"Also show the signals behind the summary."`
}

func (c *SummaryCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	res, err := ctx.Service.Summary(ctx.Ctx, user.ID, c.Query())
	if err != nil {
		return err
	}
	if ok, err := ctx.Emit(res); ok {
		return err
	}

	ctx.Println(res.Summary)
	if c.Details {
		ctx.Printf("\nRange:     %s to %s\n", res.Range.From, res.Range.To)
		ctx.Printf("Trend:     %s\n", res.Trend)
		ctx.Printf("Sleep:     %s\n", res.SleepPattern)
		ctx.Printf("Sentiment: %s (+%d / -%d)\n", res.Sentiment.Sentiment, res.Sentiment.PositiveCount, res.Sentiment.NegativeCount)
		if len(res.Sentiment.Keywords) > 0 {
			ctx.Printf("Keywords:  %s\n", strings.Join(res.Sentiment.Keywords, ", "))
		}
	}
	return nil
}

type DashboardCmd struct{}

func (c *DashboardCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	d, err := ctx.Service.Dashboard(ctx.Ctx, user.ID)
	if err != nil {
		return err
	}
	if ok, err := ctx.Emit(d); ok {
		return err
	}

	ctx.Println("Today")
	if d.Today == nil {
		ctx.Println("  Nothing logged yet.")
	} else {
		ctx.Printf("  Mood: %s   Doses: %s%%\n", cli.Int(d.Today.MoodScore), strconv.FormatFloat(d.TodayAdherence, 'f', -1, 64))
	}

	ctx.Printf("\nLast %d entries\n", d.Weekly.Entries)
	ctx.Printf("  Mood avg:  %s\n", cli.Float(d.Weekly.AvgMood))
	sleepText := d.AvgSleepText
	if sleepText == "" {
		sleepText = "-"
	}
	ctx.Printf("  Sleep avg: %s\n", sleepText)
	ctx.Printf("  Adherence: %s%%\n", strconv.FormatFloat(d.Weekly.AdherenceRate, 'f', -1, 64))

	if a := d.UpcomingAppointment; a != nil {
		ctx.Printf("\nNext appointment: %s with %s\n", a.AppointmentDate, a.DoctorName)
	}
	return nil
}
