package bootdep

import (
	"context"
	"fmt"
	"reflect"

	"github.com/gburgyan/go-timing"
	"github.com/go-logr/logr"
)

// Phase is the stage a Container's bootstrap has reached.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDiscovering
	PhaseResolving
	PhaseLocated
	PhaseRunning
	PhaseDone
	// PhaseFailed is terminal; Err returns the reason.
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDiscovering:
		return "discovering"
	case PhaseResolving:
		return "resolving"
	case PhaseLocated:
		return "located"
	case PhaseRunning:
		return "running"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Option is a functional option for configuring a Container.
type Option func(*Container)

// WithLogger sets the logger the container reports its progress to. Phase changes are logged at
// the default verbosity and every construction at V(1).
func WithLogger(log logr.Logger) Option {
	return func(c *Container) {
		c.log = log
	}
}

// WithMetrics makes the container record into m.
func WithMetrics(m *Metrics) Option {
	return func(c *Container) {
		c.metrics = m
	}
}

// WithTiming runs every component's resolution inside a go-timing context so the time spent in
// each constructor, nested under the components that needed it, can be read from TimingReport.
func WithTiming() Option {
	return func(c *Container) {
		c.timing = true
	}
}

// Container turns the components a TypeLister knows about into a running application.
//
// Bootstrap goes through these phases, stopping at the first failure:
//
//   - Discovering: the lister is asked for the components under the root namespace. Every
//     component must have exactly one constructor.
//   - Resolving: each component is built as a singleton. A constructor's parameters are filled
//     with the instances of the components of those types, building them first if needed. A
//     parameter of an interface type is filled by the single component implementing it. A
//     context.Context parameter receives the bootstrap context. Any validators then run against
//     the finished components.
//   - Located: exactly one component must implement Runnable.
//   - Running: the Runnable's Run method is called with the arguments given to Bootstrap.
//
// The instances live in a SingletonStore owned by the container, so two containers never share
// components. A Container can only be bootstrapped once. It is not safe for concurrent use.
type Container struct {
	lister     TypeLister
	log        logr.Logger
	metrics    *Metrics
	timing     bool
	timingRoot *timing.Context
	validators []*validator

	phase      Phase
	err        error
	components []TypeDescriptor
	store      *SingletonStore
	entryType  reflect.Type
}

// New creates a container that takes its components from lister.
func New(lister TypeLister, opts ...Option) *Container {
	c := &Container{
		lister: lister,
		log:    logr.Discard(),
		store:  NewSingletonStore(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bootstrap builds every component under root and hands control to the entry point, returning
// whatever its Run method returns. Any failure before that aborts the bootstrap and is returned
// as a *DependencyError.
func (c *Container) Bootstrap(ctx context.Context, root string, args []string) error {
	entry, err := c.Build(ctx, root)
	if err != nil {
		return err
	}

	c.enter(PhaseRunning)
	err = entry.Run(c.runContext(ctx), args)
	c.enter(PhaseDone)
	return err
}

// Build performs every phase of Bootstrap except running the entry point, which it returns
// instead.
func (c *Container) Build(ctx context.Context, root string) (Runnable, error) {
	if c.phase != PhaseIdle {
		return nil, &DependencyError{
			Kind:    ErrAlreadyBootstrapped,
			Message: fmt.Sprintf("container is %s", c.phase),
		}
	}

	if c.timing {
		c.timingRoot = timing.Root(ctx)
	}

	entry, err := c.build(c.runContext(ctx), root)
	if err != nil {
		return nil, c.fail(err)
	}
	return entry, nil
}

func (c *Container) build(ctx context.Context, root string) (Runnable, error) {
	c.enter(PhaseDiscovering)
	components, err := Discover(c.lister, root)
	if err != nil {
		return nil, err
	}
	c.components = components
	c.metrics.observeDiscovered(len(components))
	c.log.Info("discovered components", "namespace", root, "count", len(components))

	c.enter(PhaseResolving)
	r := newResolver(components, c.store)
	r.log = c.log
	r.metrics = c.metrics
	r.timing = c.timing
	for _, d := range components {
		if _, err := r.resolve(ctx, d.Type, nil); err != nil {
			return nil, err
		}
	}
	if err := c.runValidators(ctx); err != nil {
		return nil, err
	}

	entry, entryType, err := locateEntryPoint(c.store, components)
	if err != nil {
		return nil, err
	}
	c.entryType = entryType
	c.enter(PhaseLocated)
	c.log.Info("located entry point", "type", entryType.String())
	return entry, nil
}

// runContext returns the timing context while timing is enabled so constructors and the entry
// point can add their own timings to the tree.
func (c *Container) runContext(ctx context.Context) context.Context {
	if c.timingRoot != nil {
		return c.timingRoot
	}
	return ctx
}

func (c *Container) enter(p Phase) {
	c.phase = p
	c.log.Info("bootstrap phase", "phase", p.String())
}

func (c *Container) fail(err error) error {
	failedIn := c.phase
	c.phase = PhaseFailed
	c.err = err
	c.metrics.observeFailure(err)
	c.log.Error(err, "bootstrap failed", "phase", failedIn.String())
	return err
}

// Phase returns how far the bootstrap got.
func (c *Container) Phase() Phase {
	return c.phase
}

// Err returns the reason the bootstrap failed, if it did.
func (c *Container) Err() error {
	return c.err
}

// Store returns the container's singletons.
func (c *Container) Store() *SingletonStore {
	return c.store
}

// Components returns the components found during discovery.
func (c *Container) Components() []TypeDescriptor {
	return append([]TypeDescriptor(nil), c.components...)
}

// EntryPoint returns the type of the located Runnable, or nil before the Located phase.
func (c *Container) EntryPoint() reflect.Type {
	return c.entryType
}

// TimingReport returns the go-timing report of the bootstrap, or an empty string when timing
// was not enabled.
func (c *Container) TimingReport() string {
	if c.timingRoot == nil {
		return ""
	}
	return c.timingRoot.String()
}
