package users

import (
	"time"

	"github.com/julianstephens/carelog/internal/cli"
	"github.com/julianstephens/carelog/internal/keyring"
	"github.com/julianstephens/carelog/internal/logger"
	"github.com/julianstephens/carelog/internal/models"
)

type UserCmd struct {
	Add   UserAddCmd   `cmd:"" help:"Register a user and print their API token."`
	List  UserListCmd  `cmd:"" default:"1" help:"List registered users."`
	Token UserTokenCmd `cmd:"" help:"Issue a new API token for the selected user."`
}

type UserAddCmd struct {
	Name      string `help:"Display name." required:""`
	Email     string `help:"Email address, used to select the user." required:""`
	SaveToken bool   `help:"Save the API token in the OS keyring."`
}

func (c *UserAddCmd) Run(ctx *cli.Context) error {
	user, err := ctx.Service.CreateUser(ctx.Ctx, models.UserInput{Name: c.Name, Email: c.Email})
	if err != nil {
		return err
	}
	ctx.Printf("✓ Created user %s <%s>\n", user.Name, user.Email)
	ctx.Printf("  ID:        %s\n", user.ID)
	ctx.Printf("  API token: %s\n", user.APIToken)
	if c.SaveToken {
		saveToken(ctx, user.Email, user.APIToken)
	}
	return nil
}

type UserListCmd struct{}

func (c *UserListCmd) Run(ctx *cli.Context) error {
	users, err := ctx.Service.ListUsers(ctx.Ctx)
	if err != nil {
		return err
	}
	if ok, err := ctx.Emit(users); ok {
		return err
	}
	if len(users) == 0 {
		ctx.Println("No users registered. Add one with: carelog user add --name NAME --email EMAIL")
		return nil
	}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.ID, u.Name, u.Email, u.CreatedAt.Format(time.DateOnly)})
	}
	ctx.Table([]string{"ID", "Name", "Email", "Created"}, rows)
	return nil
}

type UserTokenCmd struct {
	Save bool `help:"Save the new API token in the OS keyring."`
}

func (c *UserTokenCmd) Run(ctx *cli.Context) error {
	user, err := ctx.User()
	if err != nil {
		return err
	}
	token, err := ctx.Service.RotateToken(ctx.Ctx, user.ID)
	if err != nil {
		return err
	}
	ctx.Printf("✓ New API token for %s: %s\n", user.Email, token)
	ctx.Println("  The previous token no longer works.")
	if c.Save {
		saveToken(ctx, user.Email, token)
	}
	return nil
}

// saveToken stores the token and only warns when the keyring is unavailable
func saveToken(ctx *cli.Context, email, token string) {
	if err := keyring.SetAPIToken(email, token); err != nil {
		logger.Warn("Failed to save API token", "email", email, "error", err)
		ctx.Printf("⚠ Could not save the token in the OS keyring: %v\n", err)
		return
	}
	ctx.Println("✓ Token saved in the OS keyring")
}
