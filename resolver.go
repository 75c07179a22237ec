package bootdep

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/gburgyan/go-timing"
	"github.com/go-logr/logr"
)

// resolver builds components depth first, memoizing every finished instance in the store.
type resolver struct {
	components map[reflect.Type]TypeDescriptor
	// discovery order, used to enumerate candidates for interface parameters deterministically
	order   []reflect.Type
	store   *SingletonStore
	log     logr.Logger
	metrics *Metrics
	timing  bool
}

func newResolver(components []TypeDescriptor, store *SingletonStore) *resolver {
	r := &resolver{
		components: make(map[reflect.Type]TypeDescriptor, len(components)),
		order:      make([]reflect.Type, 0, len(components)),
		store:      store,
		log:        logr.Discard(),
	}
	for _, d := range components {
		r.components[d.Type] = d
		r.order = append(r.order, d.Type)
	}
	return r
}

// resolve returns the instance of component type t, constructing it and everything it depends on
// if needed. path is the chain of types under construction on this branch; it is never modified,
// only extended into a copy for the dependencies of t.
func (r *resolver) resolve(ctx context.Context, t reflect.Type, path resolutionPath) (any, error) {
	if instance, ok := r.store.Get(t); ok {
		return instance, nil
	}
	if path.contains(t) {
		return nil, path.cycleError(t)
	}

	d, ok := r.components[t]
	if !ok {
		// Only reachable for a root that was never discovered; dependencies go through lookup.
		return nil, &DependencyError{
			Kind:           ErrUnresolvedDependency,
			Message:        "type is not a discovered component",
			ReferencedType: t,
		}
	}

	path = path.with(t)

	if r.timing {
		timingCtx, complete := timing.Start(ctx, t.String())
		defer complete()
		ctx = timingCtx
	}

	info := getConstructorInfo(reflect.TypeOf(d.Constructor))
	params := make([]reflect.Value, len(info.params))
	for i, paramType := range info.params {
		if paramType == contextType {
			params[i] = reflect.ValueOf(ctx)
			continue
		}
		depType, err := r.lookup(t, paramType)
		if err != nil {
			return nil, err
		}
		dep, err := r.resolve(ctx, depType, path)
		if err != nil {
			return nil, err
		}
		params[i] = reflect.ValueOf(dep)
	}

	start := time.Now()
	instance, err := invokeConstructor(t, d.Constructor, params)
	if err != nil {
		return nil, err
	}
	r.metrics.observeConstruction(time.Since(start))

	r.store.PutIfAbsent(t, instance)
	r.log.V(1).Info("constructed component", "type", t.String(), "dependencies", len(info.dependencies))
	return instance, nil
}

// lookup finds the discovered component that fills a parameter of paramType on dependent. An
// exact match always wins. An interface parameter is filled by the one component implementing
// it; with no candidates or several, the dependency is unresolved.
func (r *resolver) lookup(dependent, paramType reflect.Type) (reflect.Type, error) {
	if _, ok := r.components[paramType]; ok {
		return paramType, nil
	}

	if paramType.Kind() == reflect.Interface {
		var candidates []reflect.Type
		for _, ct := range r.order {
			if canAssign(ct, paramType) {
				candidates = append(candidates, ct)
			}
		}
		switch len(candidates) {
		case 1:
			return candidates[0], nil
		case 0:
		default:
			return nil, &DependencyError{
				Kind:           ErrUnresolvedDependency,
				Message:        fmt.Sprintf("several components implement the type required by %v", dependent),
				ReferencedType: paramType,
				Types:          candidates,
			}
		}
	}

	return nil, &DependencyError{
		Kind:           ErrUnresolvedDependency,
		Message:        fmt.Sprintf("type required by %v is not a discovered component", dependent),
		ReferencedType: paramType,
	}
}
