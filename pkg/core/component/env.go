package component

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plotgrid/pkg/observability"
)

// Env is the context shared by every component anchored through it: the
// render controller, id counters, the logger and the layout hooks.
//
// Env is not safe for concurrent use; all components of one Env live on a
// single goroutine (see [Loop]).
type Env struct {
	controller *Controller
	logger     *log.Logger
	hooks      observability.LayoutHooks
	ids        map[string]int
}

// Option configures an Env.
type Option func(*Env)

// WithPolicy sets the scheduling policy of the Env's controller.
func WithPolicy(p Policy) Option {
	return func(e *Env) {
		if p != nil {
			e.controller.policy = p
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(e *Env) {
		if l != nil {
			e.logger = l
			e.controller.logger = l
		}
	}
}

// WithHooks sets the layout hooks.
func WithHooks(h observability.LayoutHooks) Option {
	return func(e *Env) {
		if h != nil {
			e.hooks = h
			e.controller.hooks = h
		}
	}
}

// NewEnv returns an Env with an Immediate controller unless configured otherwise.
func NewEnv(opts ...Option) *Env {
	logger := log.New(io.Discard)
	hooks := observability.LayoutHooks(observability.NoopLayoutHooks{})
	e := &Env{
		controller: newController(Immediate{}, logger, hooks),
		logger:     logger,
		hooks:      hooks,
		ids:        make(map[string]int),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var (
	defaultEnv     *Env
	defaultEnvOnce sync.Once
)

// DefaultEnv returns a lazily created process-wide Env with default options.
// Prefer passing an explicit Env; DefaultEnv exists for small programs.
func DefaultEnv() *Env {
	defaultEnvOnce.Do(func() { defaultEnv = NewEnv() })
	return defaultEnv
}

// Controller returns the Env's render controller.
func (e *Env) Controller() *Controller { return e.controller }

// Logger returns the Env's logger.
func (e *Env) Logger() *log.Logger { return e.logger }

// Hooks returns the Env's layout hooks.
func (e *Env) Hooks() observability.LayoutHooks { return e.hooks }

// NextID returns an id unique within the Env, e.g. "clip-3".
func (e *Env) NextID(prefix string) string {
	e.ids[prefix]++
	return fmt.Sprintf("%s-%d", prefix, e.ids[prefix])
}
