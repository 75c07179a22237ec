package bootdep

import "reflect"

// resolutionPath is the chain of component types under construction on the current branch of a
// resolution, root first. A branch never modifies the path it was given; it extends a copy, so two
// dependencies of the same component never see each other's entries.
type resolutionPath []reflect.Type

func (p resolutionPath) contains(t reflect.Type) bool {
	for _, pt := range p {
		if pt == t {
			return true
		}
	}
	return false
}

func (p resolutionPath) with(t reflect.Type) resolutionPath {
	next := make(resolutionPath, len(p), len(p)+1)
	copy(next, p)
	return append(next, t)
}

// cycleError reports that t was reached again while it was still on the path. The chain carries
// every type visited on the branch in visitation order.
func (p resolutionPath) cycleError(t reflect.Type) error {
	return &DependencyError{
		Kind:           ErrCycle,
		Message:        "component transitively depends on itself",
		ReferencedType: t,
		Types:          append([]reflect.Type(nil), p...),
	}
}
