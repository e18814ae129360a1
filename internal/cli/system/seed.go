package system

import (
	"time"

	"github.com/julianstephens/carelog/internal/cli"
	"github.com/julianstephens/carelog/internal/constants"
)

type SeedCmd struct {
	Days int    `help:"Number of days to fill, ending today." default:"30"`
	Seed uint64 `help:"Random seed; 0 picks one from the clock."`
}

func (c *SeedCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	days := c.Days
	if days <= 0 {
		days = constants.SeedDays
	}
	seed := c.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	result, err := ctx.Service.Seed(ctx.Ctx, user.ID, days, seed)
	if err != nil {
		return err
	}
	if ok, err := ctx.Emit(result); ok {
		return err
	}
	ctx.Printf("Seeded %d day(s) for %s (%d skipped).\n", result.Logs, user.Email, result.Skipped)
	ctx.Printf("Report %s covers %s to %s.\n", result.Report.ID, result.Report.FromDate, result.Report.ToDate)
	ctx.Printf("Follow-up appointment %s on %s.\n", result.AppointmentID, result.Report.AppointmentDate)
	return nil
}
