package notifier

import (
	"bytes"
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

	"github.com/julianstephens/routine/internal/constants"
	"github.com/julianstephens/routine/internal/planner"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// Deliverer shows a fired reminder to the user.
type Deliverer interface {
	Deliver(req Request) error
}

// DeliverFunc adapts a function to Deliverer.
type DeliverFunc func(req Request) error

func (f DeliverFunc) Deliver(req Request) error {
	return f(req)
}

// TrayNotifier delivers reminders through the routine-tray companion app, which
// listens on a localhost webhook advertised in its lockfile.
type TrayNotifier struct {
	client *http.Client
}

// WebhookPayload is the body posted to the tray app. ReminderID lets the tray
// collapse a reminder delivered twice within its display window.
type WebhookPayload struct {
	ReminderID string `json:"reminder_id,omitempty"`
	Title      string `json:"title"`
	Text       string `json:"text"`
	Urgent     bool   `json:"urgent"`
	DurationMs uint32 `json:"duration_ms"`
}

func NewTrayNotifier() *TrayNotifier {
	return &TrayNotifier{client: &http.Client{Timeout: 5 * time.Second}}
}

func (n *TrayNotifier) Deliver(req Request) error {
	payload := WebhookPayload{
		ReminderID: req.ID,
		Title:      req.Title,
		Text:       req.Body,
		DurationMs: constants.NotificationDurationMs,
	}
	if req.Class == planner.ClassImportant {
		payload.Urgent = true
		payload.DurationMs = constants.ImportantNotificationMs
	}
	return n.Notify(payload)
}

func (n *TrayNotifier) Notify(payload WebhookPayload) error {
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		return err
	}
	port, secret, err := findAndValidateTrayProcess(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}
	return n.send(port, secret, payload)
}

// GetTrayAppConfigDir returns the directory holding the tray lockfile. The
// tray's settings.json may relocate it through settings.lockfile_dir.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	dir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(dir, "settings.json"))
	if err != nil {
		return dir, nil
	}
	var doc struct {
		Settings struct {
			LockfileDir string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if json.Unmarshal(data, &doc) == nil && doc.Settings.LockfileDir != "" {
		return doc.Settings.LockfileDir, nil
	}
	return dir, nil
}

// lockfile is the "port|pid|secret" record the tray app writes on start.
type lockfile struct {
	port   int
	pid    int
	secret string
}

func parseLockfile(content string) (lockfile, error) {
	parts := strings.Split(strings.TrimSpace(content), "|")
	if len(parts) != 3 {
		return lockfile{}, errors.New("lockfile is malformed")
	}

	port, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return lockfile{}, errors.New("invalid port number in lockfile")
	}
	if port < 1 || port > 65535 {
		return lockfile{}, fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return lockfile{}, errors.New("invalid process ID in lockfile")
	}
	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return lockfile{}, errors.New("secret in lockfile is empty")
	}
	return lockfile{port: port, pid: pid, secret: secret}, nil
}

// findAndValidateTrayProcess parses the lockfile and checks that its pid is
// a running routine-tray, so a stale lockfile never receives reminders.
func findAndValidateTrayProcess(path string) (port string, secret string, err error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", "", errors.New("routine-tray is not running")
	}
	lf, err := parseLockfile(string(content))
	if err != nil {
		return "", "", err
	}

	process, err := findProcessFunc(lf.pid)
	if err != nil || process == nil {
		return "", "", errors.New("routine-tray process not running")
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayExecutable) {
		return "", "", fmt.Errorf("process with PID %d is not %s (is %s)", lf.pid, constants.TrayExecutable, process.Executable())
	}
	return strconv.Itoa(lf.port), lf.secret, nil
}

func (n *TrayNotifier) send(port string, secret string, payload WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, "http://127.0.0.1:"+port, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Routine-Secret", secret)

	res, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach routine-tray: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
