// Package cli holds the state shared by every kong command.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/carelog/internal/backup"
	"github.com/julianstephens/carelog/internal/logger"
	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/service"
	"github.com/julianstephens/carelog/internal/storage"
	"github.com/julianstephens/carelog/internal/storage/sqlite"
)

// ErrNoUser is returned by commands that act for a user when none is selected
var ErrNoUser = errors.New("no user selected: pass --user or set CARELOG_USER")

type Context struct {
	Ctx       context.Context
	Store     storage.Provider
	Service   *service.Service
	UserRef   string
	ConfigDir string
	JSON      bool
	Out       io.Writer
}

// NewContext wires a service over store. Out defaults to stdout.
func NewContext(ctx context.Context, store storage.Provider, userRef, configDir string) *Context {
	return &Context{
		Ctx:       ctx,
		Store:     store,
		Service:   service.New(store),
		UserRef:   userRef,
		ConfigDir: configDir,
		Out:       os.Stdout,
	}
}

// User resolves --user. With no reference, a single registered user is picked.
func (c *Context) User() (models.User, error) {
	if c.UserRef != "" {
		return c.Service.ResolveUser(c.Ctx, c.UserRef)
	}
	users, err := c.Service.ListUsers(c.Ctx)
	if err != nil {
		return models.User{}, err
	}
	if len(users) == 1 {
		return users[0], nil
	}
	return models.User{}, ErrNoUser
}

// PerformAutomaticBackup creates a backup of SQLite stores and only logs failures
func (c *Context) PerformAutomaticBackup() {
	store, ok := c.Store.(*sqlite.Store)
	if !ok {
		return
	}
	mgr := backup.NewManager(store.GetConfigPath())
	if _, err := mgr.Create(c.Ctx); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// BackupManager returns the backup manager for SQLite stores
func (c *Context) BackupManager() (*backup.Manager, error) {
	store, ok := c.Store.(*sqlite.Store)
	if !ok {
		return nil, errors.New("backups are only supported for SQLite storage")
	}
	return backup.NewManager(store.GetConfigPath()), nil
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// Emit prints v as indented JSON when --json is set and returns true
func (c *Context) Emit(v any) (bool, error) {
	if !c.JSON {
		return false, nil
	}
	enc := json.NewEncoder(c.Out)
	enc.SetIndent("", "  ")
	return true, enc.Encode(v)
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// Table renders rows under headers with a rounded border
func (c *Context) Table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	c.Println(t.Render())
}

// ConfigDir returns the directory holding the database, logs and carelog.yaml
func ConfigDir(dbPath string) string {
	return filepath.Dir(dbPath)
}

// Int renders an optional int, "-" when unset
func Int(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

// Float renders an optional float, "-" when unset
func Float(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// String renders an optional string, "-" when unset
func String(v *string) string {
	if v == nil || *v == "" {
		return "-"
	}
	return *v
}
