package poller

import (
	"context"
	"errors"
	"time"
)

const (
	// NoWait fires the control-plane call and returns without polling.
	NoWait = -1

	// DefaultTimeout is the wait, in seconds, used when the caller sets none.
	DefaultTimeout = 300

	// Interval is the fixed pause between status checks.
	Interval = 5 * time.Second
)

// Operation describes one lifecycle call and the predicate that ends its
// wait. Resource and Action name the operation in messages ("Index",
// "creation"); Hint names the call a user can make to check status manually.
type Operation struct {
	Name     string
	Resource string
	Action   string
	Hint     string

	// Timeout in seconds. NoWait skips polling.
	Timeout int

	Call  func(ctx context.Context) error
	Check func(ctx context.Context) (bool, error)
}

// Poller runs Operations. It holds no per-run state and is safe for
// concurrent use.
type Poller struct {
	clock    Clock
	logger   Logger
	observer Observer
}

// Option customizes a Poller.
type Option func(*Poller)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(p *Poller) {
		p.clock = c
	}
}

// WithObserver registers an observer for finished runs.
func WithObserver(o Observer) Option {
	return func(p *Poller) {
		p.observer = o
	}
}

// New creates a Poller. logger may be nil.
func New(logger Logger, opts ...Option) *Poller {
	p := &Poller{
		clock:  systemClock{},
		logger: logger,
	}
	if p.logger == nil {
		p.logger = nopLogger{}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run issues op.Call and, unless op.Timeout is NoWait, polls op.Check every
// Interval until it reports true. The returned Result is always terminal.
func (p *Poller) Run(ctx context.Context, op Operation) (Result, error) {
	if err := ValidateTimeout(op.Timeout); err != nil {
		return Result{State: Failed}, err
	}
	if op.Check == nil && op.Timeout != NoWait {
		return Result{State: Failed}, &ArgumentError{Name: "check", Found: "nil"}
	}

	if op.Call != nil {
		if err := op.Call(ctx); err != nil {
			return p.finish(op, &cycle{state: Failed}, err)
		}
	}

	if op.Timeout == NoWait {
		return p.finish(op, &cycle{state: Succeeded}, nil)
	}

	c := &cycle{
		state:    Polling,
		start:    p.clock.Now(),
		deadline: time.Duration(op.Timeout) * time.Second,
	}

	p.logger.Info("waiting for operation to complete", nil, map[string]interface{}{
		"operation": op.Name,
		"timeout":   op.Timeout,
	})

	for {
		c.checks++
		ok, err := op.Check(ctx)
		c.elapsed = p.clock.Now().Sub(c.start)

		switch {
		case err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()):
			c.state = Cancelled
			return p.finish(op, c, p.interrupted(ctx, op))
		case err != nil:
			c.state = Failed
			return p.finish(op, c, err)
		case ok:
			c.state = Succeeded
			return p.finish(op, c, nil)
		case ctx.Err() != nil:
			c.state = Cancelled
			return p.finish(op, c, p.interrupted(ctx, op))
		case c.expired():
			c.state = TimedOut
			return p.finish(op, c, &TimeoutError{Resource: op.Resource, Action: op.Action, Hint: op.Hint})
		}

		p.logger.Debug("operation not complete yet", nil, map[string]interface{}{
			"operation": op.Name,
			"cycle":     c.checks,
			"elapsed":   c.elapsed.String(),
		})

		select {
		case <-ctx.Done():
			c.elapsed = p.clock.Now().Sub(c.start)
			c.state = Cancelled
			return p.finish(op, c, p.interrupted(ctx, op))
		case <-p.clock.After(Interval):
		}
	}
}

func (p *Poller) interrupted(ctx context.Context, op Operation) error {
	return &InterruptedError{Resource: op.Resource, Hint: op.Hint, Err: ctx.Err()}
}

func (p *Poller) finish(op Operation, c *cycle, err error) (Result, error) {
	res := c.result()

	fields := map[string]interface{}{
		"operation": op.Name,
		"state":     res.State.String(),
		"cycles":    res.Cycles,
		"elapsed":   res.Elapsed.String(),
	}
	switch res.State {
	case Succeeded:
		p.logger.Info("operation finished", nil, fields)
	default:
		p.logger.Warn("operation did not complete", err, fields)
	}

	if p.observer != nil {
		p.observer.ObservePoll(op.Name, res)
	}
	return res, err
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

type nopLogger struct{}

func (nopLogger) Info(string, error, ...map[string]interface{})  {}
func (nopLogger) Debug(string, error, ...map[string]interface{}) {}
func (nopLogger) Warn(string, error, ...map[string]interface{})  {}
