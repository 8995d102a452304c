package notifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/routine/internal/logger"
)

var cronLog = logger.For("cron")

// CronService keeps one cron entry per reminder identifier and hands fired
// reminders to a Deliverer.
type CronService struct {
	mu        sync.Mutex
	cron      *cron.Cron
	entries   map[string]cron.EntryID
	deliverer Deliverer
}

func NewCronService(loc *time.Location, deliverer Deliverer) *CronService {
	return &CronService{
		cron:      cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		entries:   make(map[string]cron.EntryID),
		deliverer: deliverer,
	}
}

func (s *CronService) Start() {
	s.cron.Start()
}

func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Schedule registers req, replacing any entry with the same identifier.
func (s *CronService) Schedule(_ context.Context, req Request) error {
	spec, err := WeeklySpec(req.WeekdayOrdinal, req.Hour, req.Minute)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.entries[req.ID]; ok {
		s.cron.Remove(old)
		delete(s.entries, req.ID)
	}

	entryID, err := s.cron.AddFunc(spec, func() { s.fire(req) })
	if err != nil {
		return fmt.Errorf("failed to register reminder %s: %w", req.ID, err)
	}
	s.entries[req.ID] = entryID
	return nil
}

func (s *CronService) Retract(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if entryID, ok := s.entries[id]; ok {
			s.cron.Remove(entryID)
			delete(s.entries, id)
		}
	}
	return nil
}

// AddJob registers a maintenance job on the same clock as the reminders.
func (s *CronService) AddJob(spec string, job func()) error {
	_, err := s.cron.AddFunc(spec, job)
	return err
}

// Len returns the number of registered reminders.
func (s *CronService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Next returns when the reminder with id fires next. The zero time is returned
// for unknown identifiers or before Start.
func (s *CronService) Next(id string) time.Time {
	s.mu.Lock()
	entryID, ok := s.entries[id]
	s.mu.Unlock()
	if !ok {
		return time.Time{}
	}
	return s.cron.Entry(entryID).Next
}

func (s *CronService) fire(req Request) {
	if err := s.deliverer.Deliver(req); err != nil {
		cronLog.Warn("Failed to deliver reminder", "id", req.ID, "error", err)
	}
	if !req.Repeats {
		_ = s.Retract(context.Background(), []string{req.ID})
	}
}

// WeeklySpec builds a seconds-enabled cron spec that fires once a week.
// ordinal follows the WeekDay convention (1=Sunday).
func WeeklySpec(ordinal, hour, minute int) (string, error) {
	if ordinal < 1 || ordinal > 7 {
		return "", fmt.Errorf("invalid weekday ordinal %d", ordinal)
	}
	if hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour %d", hour)
	}
	if minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute %d", minute)
	}
	// cron format: second minute hour dom month dow
	return fmt.Sprintf("0 %d %d * * %d", minute, hour, ordinal-1), nil
}
