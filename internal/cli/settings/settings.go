package settings

import (
	"fmt"

	"github.com/julianstephens/carelog/internal/cli"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone             *string `help:"IANA timezone used to decide what today is, or 'Local'."`
	Locale               *string `help:"Language of summaries and labels (en|ja)."`
	NotificationsEnabled *bool   `help:"Enable or disable medication reminders."`
	ReminderMorning      *string `help:"Morning reminder time (HH:MM)."`
	ReminderAfternoon    *string `help:"Afternoon reminder time (HH:MM)."`
	ReminderEvening      *string `help:"Evening reminder time (HH:MM)."`
	ReminderBedtime      *string `help:"Bedtime reminder time (HH:MM)."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Service.GetSettings(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		if ok, err := ctx.Emit(settings); ok {
			return err
		}
		ctx.Println("Current Settings:")
		ctx.Printf("  Timezone:              %s\n", settings.Timezone)
		ctx.Printf("  Locale:                %s\n", settings.Locale)
		ctx.Println("\nReminder Settings:")
		ctx.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
		ctx.Printf("  Morning:               %s\n", settings.ReminderMorning)
		ctx.Printf("  Afternoon:             %s\n", settings.ReminderAfternoon)
		ctx.Printf("  Evening:               %s\n", settings.ReminderEvening)
		ctx.Printf("  Bedtime:               %s\n", settings.ReminderBedtime)
		return nil
	}

	updated := false
	setString := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
			updated = true
		}
	}
	setString(&settings.Timezone, c.Timezone)
	setString(&settings.Locale, c.Locale)
	setString(&settings.ReminderMorning, c.ReminderMorning)
	setString(&settings.ReminderAfternoon, c.ReminderAfternoon)
	setString(&settings.ReminderEvening, c.ReminderEvening)
	setString(&settings.ReminderBedtime, c.ReminderBedtime)
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}

	if !updated {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}
	if _, err := ctx.Service.UpdateSettings(ctx.Ctx, settings); err != nil {
		return err
	}
	ctx.Println("Settings updated successfully.")
	return nil
}
