package bootdep

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDependencyError_Error(t *testing.T) {
	err := &DependencyError{
		Kind:           ErrInstantiation,
		Message:        "constructor failed",
		ReferencedType: typeOf[*testLeaf](),
		SourceError:    errors.New("disk full"),
	}
	assert.Equal(t, "instantiation error: constructor failed: *bootdep.testLeaf (disk full)", err.Error())

	cycle := &DependencyError{
		Kind:           ErrCycle,
		ReferencedType: typeOf[*cycA](),
		Types:          []reflect.Type{typeOf[*cycA](), typeOf[*cycB]()},
	}
	assert.Equal(t, "cyclic dependency: *bootdep.cycA [*bootdep.cycA -> *bootdep.cycB]", cycle.Error())

	ambiguous := &DependencyError{
		Kind:  ErrAmbiguousEntryPoint,
		Types: []reflect.Type{typeOf[*testOtherRunner](), typeOf[*testRunner]()},
	}
	assert.Equal(t, "ambiguous entry point [*bootdep.testOtherRunner, *bootdep.testRunner]", ambiguous.Error())
}

func TestDependencyError_IsAndUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := fmt.Errorf("wrapped: %w", &DependencyError{Kind: ErrCycle, SourceError: cause})

	assert.True(t, errors.Is(err, ErrCycle))
	assert.False(t, errors.Is(err, ErrDiscovery))
	assert.True(t, errors.Is(err, cause))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, ErrNoEntryPoint, kindOf(&DependencyError{Kind: ErrNoEntryPoint}))
	assert.Equal(t, ErrValidation, kindOf(fmt.Errorf("x: %w", ErrValidation)))
	assert.Nil(t, kindOf(errors.New("other")))
}
