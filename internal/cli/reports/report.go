// Package reports holds the report and appointment commands.
package reports

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/carelog/internal/cli"
	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/stats"
)

type ReportCmd struct {
	Generate ReportGenerateCmd `cmd:"" help:"Generate a report ahead of an appointment."`
	List     ReportListCmd     `cmd:"" default:"1" help:"List reports, latest appointment first."`
	Show     ReportShowCmd     `cmd:"" help:"Show one report."`
	Delete   ReportDeleteCmd   `cmd:"" help:"Delete a report."`
}

// ParseSymptoms reads "name=count" pairs into a symptom summary
func ParseSymptoms(pairs []string) (*models.SymptomSummary, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	summary := &models.SymptomSummary{}
	for _, pair := range pairs {
		name, count, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid symptom %q: use name=count", pair)
		}
		n, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid count in symptom %q", pair)
		}
		summary.TopSymptoms = append(summary.TopSymptoms, name)
		summary.Frequency = append(summary.Frequency, n)
	}
	return summary, nil
}

type ReportGenerateCmd struct {
	AppointmentDate string   `short:"a" required:"" help:"Date (YYYY-MM-DD) of the appointment the report is for."`
	Period          string   `short:"p" help:"Period the report covers." default:"1month"`
	From            string   `help:"Start date of a custom range."`
	To              string   `help:"End date of a custom range."`
	Symptom         []string `short:"s" sep:"none" help:"Symptom as name=count; repeat for more."`
	Summary         *string  `help:"Free-text summary. A generated summary is stored when omitted."`
}

func (c *ReportGenerateCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	symptoms, err := ParseSymptoms(c.Symptom)
	if err != nil {
		return err
	}
	in := models.ReportInput{
		AppointmentDate: c.AppointmentDate,
		Period:          c.Period,
		From:            c.From,
		To:              c.To,
		SymptomSummary:  symptoms,
		FreeSummary:     c.Summary,
	}
	if c.From != "" || c.To != "" {
		in.Period = string(stats.PeriodCustom)
	}

	report, err := ctx.Service.GenerateReport(ctx.Ctx, user.ID, in)
	if err != nil {
		return err
	}
	if ok, err := ctx.Emit(report); ok {
		return err
	}
	ctx.Printf("✓ Report %s created for %s\n\n", report.ID, report.AppointmentDate)
	printReport(ctx, report)
	return nil
}

type ReportListCmd struct{}

func (c *ReportListCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	reports, err := ctx.Service.ListReports(ctx.Ctx, user.ID)
	if err != nil {
		return err
	}
	if ok, err := ctx.Emit(reports); ok {
		return err
	}
	if len(reports) == 0 {
		ctx.Println("No reports yet. Create one with: carelog report generate -a YYYY-MM-DD")
		return nil
	}
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []string{
			r.ID, r.AppointmentDate, r.FromDate + " .. " + r.ToDate,
			cli.Float(r.AvgMood), trend(r.MoodTrend), cli.Float(r.AvgSleepHours), cli.Float(r.MedicationAdherence),
		})
	}
	ctx.Table([]string{"ID", "Appointment", "Range", "Mood", "Trend", "Sleep", "Adherence"}, rows)
	return nil
}

type ReportShowCmd struct {
	ID   string `arg:"" help:"Report id."`
	Next bool   `help:"Show the report that follows this one instead."`
}

func (c *ReportShowCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	var report models.Report
	if c.Next {
		report, err = ctx.Service.NextReport(ctx.Ctx, user.ID, c.ID)
	} else {
		report, err = ctx.Service.GetReport(ctx.Ctx, user.ID, c.ID)
	}
	if err != nil {
		return err
	}
	if ok, err := ctx.Emit(report); ok {
		return err
	}
	printReport(ctx, report)
	return nil
}

type ReportDeleteCmd struct {
	ID string `arg:"" help:"Report id."`
}

func (c *ReportDeleteCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	if err := ctx.Service.DeleteReport(ctx.Ctx, user.ID, c.ID); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted report %s\n", c.ID)
	return nil
}

func trend(t *models.MoodTrend) string {
	if t == nil {
		return "-"
	}
	return string(*t)
}

func printReport(ctx *cli.Context, r models.Report) {
	ctx.Printf("Report %s\n", r.ID)
	ctx.Printf("  Appointment: %s\n", r.AppointmentDate)
	ctx.Printf("  Range:       %s to %s\n", r.FromDate, r.ToDate)
	ctx.Printf("  Mood:        %s (%s)\n", cli.Float(r.AvgMood), trend(r.MoodTrend))
	ctx.Printf("  Sleep:       %s h\n", cli.Float(r.AvgSleepHours))
	ctx.Printf("  Adherence:   %s%%\n", cli.Float(r.MedicationAdherence))
	if s := r.SymptomSummary; s != nil && len(s.TopSymptoms) > 0 {
		parts := make([]string, len(s.TopSymptoms))
		for i, name := range s.TopSymptoms {
			if i < len(s.Frequency) {
				parts[i] = fmt.Sprintf("%s (%d)", name, s.Frequency[i])
			} else {
				parts[i] = name
			}
		}
		ctx.Printf("  Symptoms:    %s\n", strings.Join(parts, ", "))
	}
	ctx.Printf("  Previous:    %s\n", cli.String(r.PreviousReportID))
	ctx.Printf("\n%s\n", cli.String(r.FreeSummary))
}
