package users

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/carelog/internal/cli"
	"github.com/julianstephens/carelog/internal/keyring"
	"github.com/julianstephens/carelog/internal/service"
	"github.com/julianstephens/carelog/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	gokeyring.MockInit()

	tempDir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(tempDir, "test.db"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	var out bytes.Buffer
	ctx := cli.NewContext(context.Background(), store, "", tempDir)
	ctx.Out = &out
	return ctx, &out
}

func TestUserAddCmd(t *testing.T) {
	ctx, out := setupTestDB(t)

	cmd := &UserAddCmd{Name: "Hana", Email: "hana@example.com", SaveToken: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("user add failed: %v", err)
	}

	user, err := ctx.Service.ResolveUser(ctx.Ctx, "hana@example.com")
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if !strings.Contains(out.String(), user.APIToken) {
		t.Errorf("token not printed: %q", out.String())
	}
	saved, err := keyring.GetAPIToken("hana@example.com")
	if err != nil {
		t.Fatalf("token not saved in keyring: %v", err)
	}
	if saved != user.APIToken {
		t.Errorf("saved token = %q, want %q", saved, user.APIToken)
	}
}

func TestUserAddCmd_Duplicate(t *testing.T) {
	ctx, _ := setupTestDB(t)

	cmd := &UserAddCmd{Name: "Hana", Email: "hana@example.com"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := cmd.Run(ctx); !errors.Is(err, service.ErrDuplicateUser) {
		t.Errorf("second add = %v, want ErrDuplicateUser", err)
	}
}

func TestUserListCmd(t *testing.T) {
	ctx, out := setupTestDB(t)

	if err := (&UserListCmd{}).Run(ctx); err != nil {
		t.Fatalf("user list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No users registered") {
		t.Errorf("unexpected empty output %q", out.String())
	}

	out.Reset()
	if err := (&UserAddCmd{Name: "Hana", Email: "hana@example.com"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := (&UserListCmd{}).Run(ctx); err != nil {
		t.Fatalf("user list failed: %v", err)
	}
	if !strings.Contains(out.String(), "hana@example.com") {
		t.Errorf("user missing from list: %q", out.String())
	}
}

func TestUserTokenCmd_Rotates(t *testing.T) {
	ctx, _ := setupTestDB(t)

	if err := (&UserAddCmd{Name: "Hana", Email: "hana@example.com"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	before, err := ctx.Service.ResolveUser(ctx.Ctx, "hana@example.com")
	if err != nil {
		t.Fatal(err)
	}

	if err := (&UserTokenCmd{Save: true}).Run(ctx); err != nil {
		t.Fatalf("user token failed: %v", err)
	}

	if _, err := ctx.Service.Authenticate(ctx.Ctx, before.APIToken); !errors.Is(err, service.ErrUnauthorized) {
		t.Errorf("old token still works: %v", err)
	}
	saved, err := keyring.GetAPIToken("hana@example.com")
	if err != nil {
		t.Fatalf("new token not saved: %v", err)
	}
	if _, err := ctx.Service.Authenticate(ctx.Ctx, saved); err != nil {
		t.Errorf("new token rejected: %v", err)
	}
}

func TestUserTokenCmd_RequiresUser(t *testing.T) {
	ctx, _ := setupTestDB(t)

	if err := (&UserTokenCmd{}).Run(ctx); !errors.Is(err, cli.ErrNoUser) {
		t.Errorf("err = %v, want ErrNoUser", err)
	}
}
