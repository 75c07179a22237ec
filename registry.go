package bootdep

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// TypeDescriptor describes one type known to a TypeLister. For components, Constructor is the
// function that builds the type and Dependencies are its non-context parameters in declared order.
// Constructors counts how many constructors were declared for the type; anything other than one
// is rejected during discovery.
//
// Runnable is what the lister expects of the type. The entry point is still chosen from the built
// instances; Runnable only lets a failed search name the components that were meant to qualify.
type TypeDescriptor struct {
	Type         reflect.Type
	Component    bool
	Runnable     bool
	Dependencies []reflect.Type
	Constructors int
	Constructor  any
}

// Namespace returns the import path of the package that declares the described type.
func (d TypeDescriptor) Namespace() string {
	return namespaceOf(d.Type)
}

// NewTypeDescriptor builds the component descriptor for a constructor. It panics if the
// constructor is malformed; see Registry.Register for the accepted shapes.
func NewTypeDescriptor(constructor any) TypeDescriptor {
	if constructor == nil {
		panic("component constructor must not be nil")
	}
	info := getConstructorInfo(reflect.TypeOf(constructor))
	return TypeDescriptor{
		Type:         info.result,
		Component:    true,
		Runnable:     info.result.Implements(runnableType),
		Dependencies: append([]reflect.Type(nil), info.dependencies...),
		Constructors: 1,
		Constructor:  constructor,
	}
}

// TypeLister lists the types that live under a root namespace, including those in nested
// packages. Implementations must be deterministic; duplicates are tolerated and collapsed by
// Discover.
type TypeLister interface {
	List(root string) ([]TypeDescriptor, error)
}

// Registry is the explicit list of components an application is built from. Registering a
// constructor marks the type it produces as a component. The registry is safe for concurrent use
// so that packages can register their components from init functions.
type Registry struct {
	mu           sync.RWMutex
	constructors map[reflect.Type][]any
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{constructors: map[reflect.Type][]any{}}
}

// Register marks the result type of each constructor as a component. A constructor is a function
// whose parameters are the component's dependencies and that returns the component, optionally
// followed or preceded by an error:
//
//	func NewMessageConsumer(provider MessageProvider) *MessageConsumer
//	func NewStore(ctx context.Context, cfg *Config) (*Store, error)
//
// A context.Context parameter receives the bootstrap context and is not a dependency. The
// component type must be a named type or a pointer to one.
//
// Registering two constructors for the same type is allowed here but fails discovery with
// ErrAmbiguousConstructor, since a component must have exactly one way to be built.
//
// Malformed constructors cause a panic.
func (r *Registry) Register(constructors ...any) *Registry {
	for _, c := range constructors {
		d := NewTypeDescriptor(c)
		r.mu.Lock()
		r.constructors[d.Type] = append(r.constructors[d.Type], c)
		r.mu.Unlock()
	}
	return r
}

// RegisterInstance registers already built values as components without dependencies. This is
// useful for things the application does not construct itself, such as an output stream or a
// configuration object.
func (r *Registry) RegisterInstance(values ...any) *Registry {
	for _, v := range values {
		if v == nil {
			panic("component instance must not be nil")
		}
		r.Register(instanceConstructor(v))
	}
	return r
}

// instanceConstructor makes a zero-argument constructor that returns v.
func instanceConstructor(v any) any {
	vt := reflect.TypeOf(v)
	value := reflect.ValueOf(v)
	fnType := reflect.FuncOf(nil, []reflect.Type{vt}, false)
	return reflect.MakeFunc(fnType, func([]reflect.Value) []reflect.Value {
		return []reflect.Value{value}
	}).Interface()
}

// List implements TypeLister. It returns a descriptor for every registered component under root,
// sorted by qualified type name.
func (r *Registry) List(root string) ([]TypeDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []TypeDescriptor
	for t, ctors := range r.constructors {
		if !inNamespace(namespaceOf(t), root) {
			continue
		}
		d := NewTypeDescriptor(ctors[0])
		d.Constructors = len(ctors)
		result = append(result, d)
	}
	sortDescriptors(result)
	return result, nil
}

// Len returns the number of registered component types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.constructors)
}

// Reset removes every registration.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors = map[reflect.Type][]any{}
}

// inNamespace reports whether pkg is root or one of its sub-packages.
func inNamespace(pkg, root string) bool {
	if root == "" {
		return false
	}
	return pkg == root || strings.HasPrefix(pkg, root+"/")
}

// NamespaceOf returns the import path of the package declaring T. It is the usual way of
// choosing the root namespace: pass the application's own entry point type.
//
//	bootdep.Run(bootdep.NamespaceOf[*App](), os.Args[1:])
func NamespaceOf[T any]() string {
	return namespaceOf(reflect.TypeOf((*T)(nil)).Elem())
}

func sortDescriptors(ds []TypeDescriptor) {
	sort.Slice(ds, func(i, j int) bool {
		return qualifiedName(ds[i].Type) < qualifiedName(ds[j].Type)
	})
}

// String describes the registry contents for debugging.
func (r *Registry) String() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.constructors))
	for t, ctors := range r.constructors {
		names = append(names, fmt.Sprintf("%s (%d)", qualifiedName(t), len(ctors)))
	}
	sort.Strings(names)
	return strings.Join(names, "\n")
}
