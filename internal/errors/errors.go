// Package errors renders command failures for the terminal.
package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/routine/internal/backup"
	"github.com/julianstephens/routine/internal/keyring"
	"github.com/julianstephens/routine/internal/logger"
	"github.com/julianstephens/routine/internal/models"
	"github.com/julianstephens/routine/internal/storage/postgres"
	"github.com/julianstephens/routine/internal/tasks"
)

const (
	ExitFailure = 1
	// ExitUsage is returned when the input named something that does not exist
	// or is out of range.
	ExitUsage = 2
)

var hints = []struct {
	target error
	hint   string
}{
	{tasks.ErrTaskNotFound, "run 'routine task list' to see task IDs and titles"},
	{tasks.ErrDayNotScheduled, "the task is not scheduled on that day; add it with 'routine task edit --days'"},
	{tasks.ErrTimeNotScheduled, "run 'routine task list' to see the task's reminder times"},
	{models.ErrInvalidMinute, "times use 24-hour HH:MM, e.g. 07:30 or 21:00"},
	{postgres.ErrEmbeddedCredentials, "store the full connection string with 'routine keyring set' or ROUTINE_DB_CONNECTION"},
	{keyring.ErrNotFound, "store a connection string with 'routine keyring set'"},
	{keyring.ErrKeyringUnavailable, "set ROUTINE_DB_CONNECTION instead of using the OS keyring"},
	{backup.ErrUnsupported, "back up PostgreSQL with pg_dump"},
}

// Hint returns a follow-up suggestion for err, or "" when there is none.
func Hint(err error) string {
	for _, h := range hints {
		if errors.Is(err, h.target) {
			return h.hint
		}
	}
	return ""
}

// Format renders err with an "Error: " prefix and, when known, a hint line.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\nHint: " + hint
	}
	return msg
}

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, tasks.ErrTaskNotFound),
		errors.Is(err, tasks.ErrDayNotScheduled),
		errors.Is(err, tasks.ErrTimeNotScheduled),
		errors.Is(err, models.ErrInvalidMinute):
		return ExitUsage
	default:
		return ExitFailure
	}
}

// Fatal logs err, prints it to stderr and exits. A nil err is a no-op.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(ExitCode(err))
}
