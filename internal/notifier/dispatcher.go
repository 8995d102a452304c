package notifier

import (
	"context"
	"errors"
	"sync"

	"github.com/julianstephens/routine/internal/logger"
	"github.com/julianstephens/routine/internal/planner"
)

var dispatchLog = logger.For("dispatcher")

var ErrDispatcherClosed = errors.New("notifier: dispatcher closed")

type command struct {
	retract  []string
	schedule *Request
}

// Dispatcher forwards plans to a Service on a single background worker. Callers
// never wait for the service; commands are applied in submission order and
// failures are logged and dropped.
type Dispatcher struct {
	svc Service

	mu      sync.Mutex
	queue   []command
	busy    bool
	closed  bool
	wakeup  chan struct{}
	idle    chan struct{}
	doneCh  chan struct{}
	applied uint64
	failed  uint64
}

func NewDispatcher(svc Service) *Dispatcher {
	d := &Dispatcher{
		svc:    svc,
		wakeup: make(chan struct{}, 1),
		idle:   make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	close(d.idle)
	go d.loop()
	return d
}

// Apply enqueues the plan's retractions followed by its schedule entries.
func (d *Dispatcher) Apply(plans ...planner.Plan) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		dispatchLog.Warn("Dropping reminder plan after dispatcher close", "plans", len(plans))
		return
	}
	for _, p := range plans {
		if len(p.Retract) > 0 {
			d.queue = append(d.queue, command{retract: p.Retract})
		}
		for _, spec := range p.Schedule {
			req := RequestFromSpec(spec)
			d.queue = append(d.queue, command{schedule: &req})
		}
	}
	if len(d.queue) > 0 && !d.busy {
		d.busy = true
		d.idle = make(chan struct{})
	}
	select {
	case d.wakeup <- struct{}{}:
	default:
	}
}

// Flush blocks until every queued command has been handed to the service.
func (d *Dispatcher) Flush(ctx context.Context) error {
	d.mu.Lock()
	idle := d.idle
	d.mu.Unlock()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains the queue and stops the worker.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrDispatcherClosed
	}
	d.closed = true
	d.mu.Unlock()

	select {
	case d.wakeup <- struct{}{}:
	default:
	}
	<-d.doneCh
	return nil
}

// Stats returns how many commands were applied and how many failed.
func (d *Dispatcher) Stats() (applied, failed uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.applied, d.failed
}

func (d *Dispatcher) loop() {
	defer close(d.doneCh)
	for {
		cmd, ok, stop := d.next()
		if stop {
			return
		}
		if !ok {
			<-d.wakeup
			continue
		}
		d.run(cmd)
	}
}

// next pops the head of the queue. stop is set once the dispatcher is closed
// and fully drained.
func (d *Dispatcher) next() (cmd command, ok bool, stop bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.queue) == 0 {
		if d.busy {
			d.busy = false
			close(d.idle)
		}
		return command{}, false, d.closed
	}
	cmd = d.queue[0]
	d.queue = d.queue[1:]
	return cmd, true, false
}

func (d *Dispatcher) run(cmd command) {
	ctx := context.Background()
	var err error
	if cmd.schedule != nil {
		err = d.svc.Schedule(ctx, *cmd.schedule)
		if err != nil {
			dispatchLog.Warn("Failed to schedule reminder", "id", cmd.schedule.ID, "error", err)
		}
	} else {
		err = d.svc.Retract(ctx, cmd.retract)
		if err != nil {
			dispatchLog.Warn("Failed to retract reminders", "ids", cmd.retract, "error", err)
		}
	}

	d.mu.Lock()
	if err != nil {
		d.failed++
	} else {
		d.applied++
	}
	d.mu.Unlock()
}
