package system

import (
	"github.com/julianstephens/carelog/internal/cli"
	"github.com/julianstephens/carelog/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}

	// Back up on startup, after the store has loaded
	ctx.PerformAutomaticBackup()

	return tui.Run(ctx.Ctx, ctx.Service, user.ID)
}
