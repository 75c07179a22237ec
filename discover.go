package bootdep

import (
	"fmt"
	"reflect"
)

// Discover asks the lister for everything under root and returns the components, one descriptor
// per type, in a deterministic order. Every component under root must have exactly one
// constructor whether or not anything depends on it.
func Discover(lister TypeLister, root string) ([]TypeDescriptor, error) {
	if root == "" {
		return nil, &DependencyError{
			Kind:    ErrDiscovery,
			Message: "no root namespace given",
		}
	}
	if lister == nil {
		return nil, &DependencyError{
			Kind:    ErrDiscovery,
			Message: fmt.Sprintf("no type lister for namespace %q", root),
		}
	}

	listed, err := lister.List(root)
	if err != nil {
		return nil, &DependencyError{
			Kind:        ErrDiscovery,
			Message:     fmt.Sprintf("listing namespace %q", root),
			SourceError: err,
		}
	}

	seen := map[reflect.Type]int{}
	// code pointers of the distinct constructors reported for each type
	distinct := map[reflect.Type]map[uintptr]bool{}
	var components []TypeDescriptor
	for _, d := range listed {
		if !d.Component || d.Type == nil || !inNamespace(d.Namespace(), root) {
			continue
		}
		if d.Constructor != nil {
			if distinct[d.Type] == nil {
				distinct[d.Type] = map[uintptr]bool{}
			}
			distinct[d.Type][reflect.ValueOf(d.Constructor).Pointer()] = true
		}
		if idx, ok := seen[d.Type]; ok {
			// A repeated report of the same constructor collapses; the count never drops.
			if d.Constructors > components[idx].Constructors {
				components[idx].Constructors = d.Constructors
			}
			continue
		}
		seen[d.Type] = len(components)
		components = append(components, d)
	}

	for i := range components {
		if n := len(distinct[components[i].Type]); n > components[i].Constructors {
			components[i].Constructors = n
		}
	}

	if len(components) == 0 {
		return nil, &DependencyError{
			Kind:    ErrDiscovery,
			Message: fmt.Sprintf("no components found in namespace %q", root),
		}
	}

	sortDescriptors(components)

	for _, d := range components {
		if d.Constructors < 1 || d.Constructor == nil {
			return nil, &DependencyError{
				Kind:           ErrAmbiguousConstructor,
				Message:        "no constructor declared",
				ReferencedType: d.Type,
			}
		}
		if d.Constructors > 1 {
			return nil, &DependencyError{
				Kind:           ErrAmbiguousConstructor,
				Message:        fmt.Sprintf("%d constructors declared", d.Constructors),
				ReferencedType: d.Type,
			}
		}
	}

	return components, nil
}
