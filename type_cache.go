package bootdep

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// constructorInfo caches the reflection work done on a constructor's function type
type constructorInfo struct {
	// All parameters in declared order, context.Context included
	params []reflect.Type
	// The parameters that must be filled from other components, in declared order
	dependencies []reflect.Type
	// The component type the constructor produces
	result      reflect.Type
	resultIndex int
	hasError    bool
	errorIndex  int
}

var (
	globalConstructorCache sync.Map // map[reflect.Type]*constructorInfo
	errorType              = reflect.TypeOf((*error)(nil)).Elem()
	contextType            = reflect.TypeOf((*context.Context)(nil)).Elem()
	runnableType           = reflect.TypeOf((*Runnable)(nil)).Elem()
)

// getConstructorInfo returns cached constructor information, computing it if necessary. Malformed
// constructors cause a panic since they can only come from a programming error.
func getConstructorInfo(t reflect.Type) *constructorInfo {
	if cached, ok := globalConstructorCache.Load(t); ok {
		return cached.(*constructorInfo)
	}

	if t.Kind() != reflect.Func {
		panic(fmt.Sprintf("component constructor must be a function, got %v", t))
	}
	if t.IsVariadic() {
		panic(fmt.Sprintf("variadic component constructors are not supported: %v", t))
	}

	info := &constructorInfo{
		params:      make([]reflect.Type, t.NumIn()),
		resultIndex: -1,
		errorIndex:  -1,
	}
	for i := 0; i < t.NumIn(); i++ {
		in := t.In(i)
		info.params[i] = in
		if in != contextType {
			info.dependencies = append(info.dependencies, in)
		}
	}

	for i := 0; i < t.NumOut(); i++ {
		out := t.Out(i)
		if out == errorType {
			if info.hasError {
				panic("multiple error results on a component constructor not permitted")
			}
			info.hasError = true
			info.errorIndex = i
			continue
		}
		if info.result != nil {
			panic(fmt.Sprintf("component constructor must have exactly one component result: %v", t))
		}
		info.result = out
		info.resultIndex = i
	}

	if info.result == nil {
		panic(fmt.Sprintf("component constructor must have a component result: %v", t))
	}
	if namespaceOf(info.result) == "" {
		panic(fmt.Sprintf("component type must be a named type or a pointer to one, got %v", info.result))
	}

	actual, _ := globalConstructorCache.LoadOrStore(t, info)
	return actual.(*constructorInfo)
}

// namespaceOf returns the import path of the package declaring t, looking through one level of
// pointer. Unnamed types have no namespace.
func namespaceOf(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return ""
	}
	return t.PkgPath()
}

// qualifiedName is the package path qualified name of a component type, used for sorting and
// manifest matching. Pointer types keep their leading '*'.
func qualifiedName(t reflect.Type) string {
	prefix := ""
	if t.Kind() == reflect.Pointer {
		prefix = "*"
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return prefix + t.String()
	}
	return prefix + t.PkgPath() + "." + t.Name()
}

// satisfies remembers, per component and interface pair, whether the component implements the
// interface. Interface parameters are checked against every component, so this is hit often.
var satisfies sync.Map // map[typePair]bool

type typePair struct {
	component reflect.Type
	target    reflect.Type
}

// canAssign reports whether an instance of component can be passed where target is expected: the
// identical type, or any implementation when target is an interface.
func canAssign(component, target reflect.Type) bool {
	if target.Kind() != reflect.Interface {
		return component == target
	}

	pair := typePair{component: component, target: target}
	if known, ok := satisfies.Load(pair); ok {
		return known.(bool)
	}
	implements := component.Implements(target)
	satisfies.Store(pair, implements)
	return implements
}
