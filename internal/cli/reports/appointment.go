package reports

import (
	"github.com/julianstephens/carelog/internal/cli"
	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/service"
)

type AppointmentCmd struct {
	Add    AppointmentAddCmd    `cmd:"" help:"Schedule a doctor visit."`
	Edit   AppointmentEditCmd   `cmd:"" help:"Change an appointment."`
	List   AppointmentListCmd   `cmd:"" default:"1" help:"List appointments."`
	Delete AppointmentDeleteCmd `cmd:"" help:"Delete an appointment."`
}

type AppointmentAddCmd struct {
	Date   string  `short:"d" required:"" help:"Visit date (YYYY-MM-DD)."`
	Doctor string  `required:"" help:"Doctor or clinic name."`
	Report *string `short:"r" help:"Id of the report prepared for this visit."`
	Memo   *string `help:"Free-text memo."`
}

func (c *AppointmentAddCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	appt, err := ctx.Service.CreateAppointment(ctx.Ctx, user.ID, models.AppointmentInput{
		AppointmentDate: c.Date,
		DoctorName:      c.Doctor,
		ReportID:        c.Report,
		Memo:            c.Memo,
	})
	if err != nil {
		return err
	}
	if ok, err := ctx.Emit(appt); ok {
		return err
	}
	ctx.Printf("✓ Appointment %s on %s with %s\n", appt.ID, appt.AppointmentDate, appt.DoctorName)
	return nil
}

type AppointmentEditCmd struct {
	ID     string  `arg:"" help:"Appointment id."`
	Date   *string `short:"d" help:"New visit date (YYYY-MM-DD)."`
	Doctor *string `help:"New doctor or clinic name."`
	Report *string `short:"r" help:"Report id; pass an empty value to unlink."`
	Memo   *string `help:"New memo."`
}

func (c *AppointmentEditCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	current, err := ctx.Service.GetAppointment(ctx.Ctx, user.ID, c.ID)
	if err != nil {
		return err
	}

	in := models.AppointmentInput{
		AppointmentDate: current.AppointmentDate,
		DoctorName:      current.DoctorName,
		ReportID:        current.ReportID,
		Memo:            current.Memo,
	}
	if c.Date != nil {
		in.AppointmentDate = *c.Date
	}
	if c.Doctor != nil {
		in.DoctorName = *c.Doctor
	}
	if c.Report != nil {
		in.ReportID = c.Report
	}
	if c.Memo != nil {
		in.Memo = c.Memo
	}

	appt, err := ctx.Service.UpdateAppointment(ctx.Ctx, user.ID, c.ID, in)
	if err != nil {
		return err
	}
	if ok, err := ctx.Emit(appt); ok {
		return err
	}
	ctx.Printf("✓ Updated appointment %s\n", appt.ID)
	return nil
}

type AppointmentListCmd struct {
	Scope string `short:"s" enum:"upcoming,past" default:"upcoming" help:"Which appointments to list (upcoming|past)."`
}

func (c *AppointmentListCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	appts, err := ctx.Service.ListAppointments(ctx.Ctx, user.ID, c.Scope)
	if err != nil {
		return err
	}
	if ok, err := ctx.Emit(appts); ok {
		return err
	}
	if len(appts) == 0 {
		if c.Scope == service.ScopePast {
			ctx.Println("No past appointments.")
		} else {
			ctx.Println("No upcoming appointments.")
		}
		return nil
	}
	rows := make([][]string, 0, len(appts))
	for _, a := range appts {
		rows = append(rows, []string{a.ID, a.AppointmentDate, a.DoctorName, cli.String(a.ReportID), cli.String(a.Memo)})
	}
	ctx.Table([]string{"ID", "Date", "Doctor", "Report", "Memo"}, rows)
	return nil
}

type AppointmentDeleteCmd struct {
	ID string `arg:"" help:"Appointment id."`
}

func (c *AppointmentDeleteCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	if err := ctx.Service.DeleteAppointment(ctx.Ctx, user.ID, c.ID); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted appointment %s\n", c.ID)
	return nil
}
