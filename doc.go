// Package bootdep is a small constructor-injection container that builds an application out of
// registered components at process startup. Each component is created exactly once from its sole
// constructor, with the constructor's parameters filled from the other components. Once every
// component under the requested namespace exists, the single component that implements Runnable
// is handed the command line arguments and takes over.
//
// The Container object has comprehensive documentation about how bootstrapping works.
//
// There are also helper global functions backed by a default Registry that make using this more
// concise from a main package.
package bootdep
