package notifier

import (
	"context"

	"github.com/julianstephens/routine/internal/logger"
	"github.com/julianstephens/routine/internal/planner"
)

var serviceLog = logger.For("reminders")

// Request is a single schedule command handed to a reminder service.
type Request struct {
	ID             string
	Title          string
	Body           string
	Class          planner.Class
	WeekdayOrdinal int
	Hour           int
	Minute         int
	Repeats        bool
}

// RequestFromSpec converts a planned reminder into a schedule command.
func RequestFromSpec(spec planner.Spec) Request {
	return Request{
		ID:             spec.ID,
		Title:          spec.Title,
		Body:           spec.Body,
		Class:          spec.Class,
		WeekdayOrdinal: spec.WeekdayOrdinal,
		Hour:           spec.Hour,
		Minute:         spec.Minute,
		Repeats:        spec.Repeats,
	}
}

// Service is the host reminder facility. Scheduling an identifier that already
// exists replaces it; retracting an unknown identifier is a no-op.
type Service interface {
	Schedule(ctx context.Context, req Request) error
	Retract(ctx context.Context, ids []string) error
}

// LogService only records commands in the log. It backs one-shot commands where
// no long-running delivery process exists.
type LogService struct{}

func NewLogService() *LogService {
	return &LogService{}
}

func (s *LogService) Schedule(_ context.Context, req Request) error {
	serviceLog.Debug("Reminder scheduled", "id", req.ID, "weekday", req.WeekdayOrdinal, "hour", req.Hour, "minute", req.Minute, "class", req.Class)
	return nil
}

func (s *LogService) Retract(_ context.Context, ids []string) error {
	serviceLog.Debug("Reminders retracted", "count", len(ids))
	return nil
}
