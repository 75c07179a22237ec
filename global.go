package bootdep

import (
	"context"
	"fmt"
	"io"
	"os"
	"reflect"
)

var defaultRegistry = NewRegistry()

// exit and stderr are replaced in tests.
var (
	exit             = os.Exit
	stderr io.Writer = os.Stderr
)

// DefaultRegistry returns the process-wide registry used by the package-level functions.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds the constructors to the default registry. It is meant to be called from the
// init function of the package declaring the components:
//
//	func init() {
//	    bootdep.Register(NewMessageProvider, NewMessageConsumer)
//	}
func Register(constructors ...any) {
	defaultRegistry.Register(constructors...)
}

// RegisterInstance adds already built values to the default registry.
func RegisterInstance(values ...any) {
	defaultRegistry.RegisterInstance(values...)
}

// Bootstrap runs a new Container over the default registry. See Container.Bootstrap.
func Bootstrap(ctx context.Context, root string, args []string, opts ...Option) error {
	return New(defaultRegistry, opts...).Bootstrap(ctx, root, args)
}

// Run behaves like Bootstrap except that any failure, including an error returned by the entry
// point, is written to stderr and terminates the process with exit status 1. It is meant to be
// the only statement of a main function:
//
//	func main() {
//	    bootdep.Run(bootdep.NamespaceOf[*App](), os.Args[1:])
//	}
func Run(root string, args []string, opts ...Option) {
	err := Bootstrap(context.Background(), root, args, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "bootdep: %v\n", err)
		exit(1)
	}
}

// Get returns the component of type T from a bootstrapped container. It otherwise behaves exactly
// like GetWithError, but panics if there is no such component.
func Get[T any](c *Container) T {
	target, err := GetWithError[T](c)
	if err != nil {
		panic(err)
	}
	return target
}

// GetWithError returns the component of type T from the container. If T is an interface, the
// single component implementing it is returned.
func GetWithError[T any](c *Container) (T, error) {
	var target T
	instance, err := findInstance(c.store, reflect.TypeOf(&target).Elem())
	if err != nil {
		return target, err
	}
	return instance.(T), nil
}
