// Package notifier delivers desktop notifications through the carelog tray app.
// The tray app advertises itself in a lockfile holding "port|pid|secret".
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/carelog/internal/constants"
	"github.com/julianstephens/carelog/internal/logger"
)

const (
	trayExecutable = "carelog-tray"
	secretHeader   = "X-Carelog-Secret"
)

var (
	// ErrTrayNotRunning is returned when no live tray process owns the lockfile
	ErrTrayNotRunning = errors.New("carelog-tray is not running")

	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// Sender delivers a short text notification
type Sender interface {
	Notify(ctx context.Context, text string) error
}

// Notifier sends notifications to the tray app webhook
type Notifier struct {
	client     *http.Client
	retries    int
	retryDelay time.Duration
}

// WebhookPayload is the body posted to the tray app
type WebhookPayload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

// New creates a Notifier with the default retry policy
func New() *Notifier {
	return &Notifier{
		client:     &http.Client{Timeout: 5 * time.Second},
		retries:    constants.NotifyMaxRetries,
		retryDelay: constants.NotifyRetryDelay,
	}
}

// Notify locates the tray app and posts text to it, retrying transient failures
func (n *Notifier) Notify(ctx context.Context, text string) error {
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		return err
	}
	target, err := findTray(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	payload := WebhookPayload{Text: text, DurationMs: constants.NotificationDurationMs}

	var lastErr error
	for attempt := 1; attempt <= n.retries; attempt++ {
		lastErr = n.send(ctx, target, payload)
		if lastErr == nil {
			return nil
		}
		logger.Debug("Notification attempt failed", "attempt", attempt, "error", lastErr)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(n.retryDelay):
		}
	}
	return fmt.Errorf("notification failed after %d attempts: %w", n.retries, lastErr)
}

// GetTrayAppConfigDir returns the directory holding the tray lockfile. The tray
// app may override it with "lockfile_dir" in its settings.json.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err != nil {
		return trayConfigDir, nil
	}
	var stored struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &stored); err == nil && stored.Settings.LockfileDir != nil && *stored.Settings.LockfileDir != "" {
		return *stored.Settings.LockfileDir, nil
	}
	return trayConfigDir, nil
}

type trayTarget struct {
	port   int
	secret string
}

// findTray parses the lockfile and checks that its pid is a live tray process
func findTray(lockfilePath string) (trayTarget, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return trayTarget{}, ErrTrayNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return trayTarget{}, errors.New("lockfile is malformed")
	}

	port, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return trayTarget{}, errors.New("invalid port number in lockfile")
	}
	if port < 1 || port > 65535 {
		return trayTarget{}, fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return trayTarget{}, errors.New("invalid process ID in lockfile")
	}

	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return trayTarget{}, errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return trayTarget{}, ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), trayExecutable) {
		return trayTarget{}, fmt.Errorf("process with PID %d is not %s (is %s)", pid, trayExecutable, process.Executable())
	}

	return trayTarget{port: port, secret: secret}, nil
}

func (n *Notifier) send(ctx context.Context, target trayTarget, payload WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("http://127.0.0.1:%d", target.port)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(secretHeader, target.secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	msg, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(msg))
}
