package bootdep

import (
	"context"
	"errors"
	"reflect"
	"sort"
)

// Runnable is implemented by the one component that takes over once every component has been
// built. Run receives the command line arguments exactly as they were handed to the container.
type Runnable interface {
	Run(ctx context.Context, args []string) error
}

// Locate finds the single Runnable among the store's instances and returns it together with its
// component type.
func Locate(store *SingletonStore) (Runnable, reflect.Type, error) {
	var candidates []reflect.Type
	var found Runnable
	store.Each(func(t reflect.Type, instance any) bool {
		if r, ok := instance.(Runnable); ok {
			candidates = append(candidates, t)
			found = r
		}
		return true
	})

	switch len(candidates) {
	case 0:
		return nil, nil, &DependencyError{
			Kind:    ErrNoEntryPoint,
			Message: "no component implements bootdep.Runnable",
		}
	case 1:
		return found, candidates[0], nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		return qualifiedName(candidates[i]) < qualifiedName(candidates[j])
	})
	return nil, nil, &DependencyError{
		Kind:    ErrAmbiguousEntryPoint,
		Message: "more than one component implements bootdep.Runnable",
		Types:   candidates,
	}
}

// locateEntryPoint is Locate with a better explanation when nothing is Runnable: components
// declared runnable by their lister, or value types whose Run method has a pointer receiver, are
// named in the error.
func locateEntryPoint(store *SingletonStore, components []TypeDescriptor) (Runnable, reflect.Type, error) {
	entry, entryType, err := Locate(store)
	if !errors.Is(err, ErrNoEntryPoint) {
		return entry, entryType, err
	}

	var missed []reflect.Type
	for _, d := range components {
		if d.Type.Implements(runnableType) {
			continue
		}
		pointerRun := d.Type.Kind() != reflect.Pointer && reflect.PointerTo(d.Type).Implements(runnableType)
		if d.Runnable || pointerRun {
			missed = append(missed, d.Type)
		}
	}
	if len(missed) == 0 {
		return nil, nil, err
	}
	return nil, nil, &DependencyError{
		Kind:    ErrNoEntryPoint,
		Message: "no component implements bootdep.Runnable, though these declare a Run method",
		Types:   missed,
	}
}
