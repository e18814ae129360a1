package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/carelog/internal/cli"
	"github.com/julianstephens/carelog/internal/keyring"
	"github.com/julianstephens/carelog/internal/utils"
	"github.com/julianstephens/carelog/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name     string
	run      func(*cli.Context) error
	needsDB  bool
	warnOnly bool
}

var checks = []check{
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Settings", run: checkSettings, needsDB: true},
	{name: "Users", run: checkUsers, needsDB: true, warnOnly: true},
	{name: "Backups present", run: checkBackups, warnOnly: true},
	{name: "OS keyring", run: checkKeyring, warnOnly: true},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true
	if err := ctx.Store.Load(ctx.Ctx); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n   %v\n", c.name, err)
		default:
			ctx.Printf("❌ %s: FAIL\n   Error: %v\n", c.name, err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	statuses, err := ctx.Store.MigrationStatus(ctx.Ctx)
	if err != nil {
		return err
	}
	pending := 0
	for _, s := range statuses {
		if !s.Applied {
			pending++
		}
	}
	if pending > 0 {
		return fmt.Errorf("%d pending migration(s), run 'carelog migrate'", pending)
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Service.GetSettings(ctx.Ctx)
	if err != nil {
		return err
	}
	return validation.Settings(settings).Err()
}

func checkUsers(ctx *cli.Context) error {
	users, err := ctx.Service.ListUsers(ctx.Ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return errors.New("no users registered, run 'carelog user add'")
	}
	return nil
}

func checkBackups(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return errors.New("no backups found, run 'carelog backup create'")
	}
	if age := time.Since(backups[0].Timestamp); age > 7*24*time.Hour {
		return fmt.Errorf("latest backup is %d days old", int(age.Hours()/24))
	}
	return nil
}

func checkKeyring(*cli.Context) error {
	if !keyring.IsAvailable() {
		return errors.New("OS keyring is not available")
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	if time.Now().Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", time.Now().Format(time.RFC3339))
	}
	settings, err := ctx.Service.GetSettings(ctx.Ctx)
	if err != nil {
		// covered by the settings check
		return nil
	}
	if _, err := utils.LoadLocation(settings.Timezone); err != nil {
		return fmt.Errorf("configured timezone %q cannot be loaded: %w", settings.Timezone, err)
	}
	return nil
}
