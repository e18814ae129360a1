package system

import (
	"fmt"

	"github.com/julianstephens/carelog/internal/cli"
)

type MigrateCmd struct {
	Status bool `help:"Show applied and pending migrations without applying anything."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	if c.Status {
		statuses, err := ctx.Store.MigrationStatus(ctx.Ctx)
		if err != nil {
			return fmt.Errorf("failed to read migration status: %w", err)
		}
		rows := make([][]string, len(statuses))
		for i, s := range statuses {
			state := "pending"
			if s.Applied {
				state = "applied"
			}
			rows[i] = []string{fmt.Sprintf("%03d", s.Version), s.Name, state}
		}
		ctx.Table([]string{"Version", "Name", "State"}, rows)
		return nil
	}

	count, err := ctx.Store.Migrate(ctx.Ctx, func(msg string) { ctx.Println(msg) })
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if count == 0 {
		ctx.Println("No migrations to apply. Database is up to date.")
	} else {
		ctx.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
