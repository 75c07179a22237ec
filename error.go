package bootdep

import (
	"errors"
	"reflect"
	"strings"
)

var (
	ErrDiscovery            = errors.New("discovery error")
	ErrAmbiguousConstructor = errors.New("ambiguous constructor")
	ErrUnresolvedDependency = errors.New("unresolved dependency")
	ErrCycle                = errors.New("cyclic dependency")
	ErrInstantiation        = errors.New("instantiation error")
	ErrNoEntryPoint         = errors.New("no entry point")
	ErrAmbiguousEntryPoint  = errors.New("ambiguous entry point")
	ErrValidation           = errors.New("validation failed")
	ErrAlreadyBootstrapped  = errors.New("container already bootstrapped")
)

// DependencyError is the error returned for every failure the container detects. Kind is one of
// the Err* sentinels and can be tested with errors.Is. Types holds the other types involved: the
// candidates of an ambiguous lookup or the resolution chain of a cycle.
type DependencyError struct {
	Kind           error
	Message        string
	ReferencedType reflect.Type
	Types          []reflect.Type
	SourceError    error
}

func (e *DependencyError) Error() string {
	b := strings.Builder{}
	b.WriteString(e.Kind.Error())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.ReferencedType != nil {
		b.WriteString(": ")
		b.WriteString(e.ReferencedType.String())
	}
	if len(e.Types) > 0 {
		sep := ", "
		if e.Kind == ErrCycle {
			sep = " -> "
		}
		b.WriteString(" [")
		b.WriteString(joinTypes(e.Types, sep))
		b.WriteString("]")
	}
	if e.SourceError != nil {
		b.WriteString(" (")
		b.WriteString(e.SourceError.Error())
		b.WriteString(")")
	}
	return b.String()
}

func (e *DependencyError) Unwrap() error {
	return e.SourceError
}

// Is matches the error's Kind so callers can write errors.Is(err, ErrCycle).
func (e *DependencyError) Is(target error) bool {
	return target == e.Kind
}

// errorKinds lists the sentinels in the order they are checked by kindOf.
var errorKinds = []error{
	ErrDiscovery,
	ErrAmbiguousConstructor,
	ErrUnresolvedDependency,
	ErrCycle,
	ErrInstantiation,
	ErrNoEntryPoint,
	ErrAmbiguousEntryPoint,
	ErrValidation,
	ErrAlreadyBootstrapped,
}

// kindOf returns the sentinel describing err, or nil when err did not originate in the container.
func kindOf(err error) error {
	var de *DependencyError
	if errors.As(err, &de) {
		return de.Kind
	}
	for _, k := range errorKinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

func joinTypes(types []reflect.Type, sep string) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, sep)
}
