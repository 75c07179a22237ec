package bootdep

import (
	"context"
	"fmt"
	"reflect"
)

// Validate creates an option that checks the finished components before the entry point is
// located. fn must be a function returning only an error. Its parameters are filled the way a
// constructor's are, from the components already built: a context.Context parameter receives
// the bootstrap context and an interface parameter the one component implementing it. It must
// ask for at least one component.
//
// Validators run in the order they were given. The first one to fail aborts the bootstrap with
// ErrValidation.
//
//	func checkStore(ctx context.Context, cfg *Config, store *Store) error {
//	    return store.Ping(ctx, cfg.Timeout)
//	}
//
//	c := bootdep.New(registry, bootdep.Validate(checkStore))
//
// A malformed fn panics.
func Validate(fn any) Option {
	v := newValidator(fn)
	return func(c *Container) {
		c.validators = append(c.validators, v)
	}
}

// validator is a checked validator function with its parameter types.
type validator struct {
	fn        reflect.Value
	params    []reflect.Type
	signature string
}

func newValidator(fn any) *validator {
	fnType := reflect.TypeOf(fn)
	if fnType == nil || fnType.Kind() != reflect.Func {
		panic(fmt.Sprintf("validator must be a function, got %v", fnType))
	}
	if fnType.IsVariadic() {
		panic(fmt.Sprintf("validator must not be variadic: %v", fnType))
	}
	if fnType.NumOut() != 1 || fnType.Out(0) != errorType {
		panic(fmt.Sprintf("validator must return only an error: %v", fnType))
	}

	v := &validator{
		fn:        reflect.ValueOf(fn),
		params:    paramTypes(fnType),
		signature: constructorSignature(fn),
	}
	components := 0
	for _, p := range v.params {
		if p != contextType {
			components++
		}
	}
	if components == 0 {
		panic(fmt.Sprintf("validator takes no components: %v", fnType))
	}
	return v
}

func (c *Container) runValidators(ctx context.Context) error {
	for _, v := range c.validators {
		if err := v.run(ctx, c.store); err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) run(ctx context.Context, store *SingletonStore) error {
	args := make([]reflect.Value, len(v.params))
	for i, p := range v.params {
		if p == contextType {
			args[i] = reflect.ValueOf(ctx)
			continue
		}
		instance, err := findInstance(store, p)
		if err != nil {
			return &DependencyError{
				Kind:        ErrValidation,
				Message:     fmt.Sprintf("validator %s dependency resolution failed", v.signature),
				SourceError: err,
			}
		}
		args[i] = reflect.ValueOf(instance)
	}

	if out := v.fn.Call(args)[0]; !out.IsNil() {
		return &DependencyError{
			Kind:        ErrValidation,
			Message:     fmt.Sprintf("validator %s", v.signature),
			SourceError: out.Interface().(error),
		}
	}
	return nil
}

// findInstance returns the stored instance that can fill a value of type t: the instance stored
// for t itself, or for an interface the one instance implementing it.
func findInstance(store *SingletonStore, t reflect.Type) (any, error) {
	if instance, ok := store.Get(t); ok {
		return instance, nil
	}

	var candidates []reflect.Type
	var found any
	if t.Kind() == reflect.Interface {
		store.Each(func(st reflect.Type, instance any) bool {
			if canAssign(st, t) {
				candidates = append(candidates, st)
				found = instance
			}
			return true
		})
	}

	switch len(candidates) {
	case 1:
		return found, nil
	case 0:
		return nil, &DependencyError{
			Kind:           ErrUnresolvedDependency,
			Message:        "no component instance of type",
			ReferencedType: t,
		}
	}
	return nil, &DependencyError{
		Kind:           ErrUnresolvedDependency,
		Message:        "several component instances implement",
		ReferencedType: t,
		Types:          candidates,
	}
}
