package bootdep

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

var testNamespace = NamespaceOf[*testLeaf]()

type testLeaf struct {
	val int
}

type testNode struct {
	leaf *testLeaf
}

type testLeft struct {
	leaf *testLeaf
}

type testRight struct {
	leaf *testLeaf
}

type testTop struct {
	left  *testLeft
	right *testRight
}

type testRunner struct {
	leaf *testLeaf
	args []string
	ctx  context.Context
	runs int
	err  error
}

func (r *testRunner) Run(ctx context.Context, args []string) error {
	r.ctx = ctx
	r.args = args
	r.runs++
	return r.err
}

type testOtherRunner struct{}

func (r *testOtherRunner) Run(context.Context, []string) error {
	return nil
}

// valueRunner is built as a value, so its pointer-receiver Run does not make it Runnable.
type valueRunner struct{}

func (r *valueRunner) Run(context.Context, []string) error {
	return nil
}

type cycA struct{ b *cycB }
type cycB struct{ a *cycA }

type ringA struct{ b *ringB }
type ringB struct{ c *ringC }
type ringC struct{ a *ringA }

type ringEntry struct{ a *ringA }

type testGreeter interface {
	Greet() string
}

type englishGreeter struct{}

func (englishGreeter) Greet() string { return "hello" }

type frenchGreeter struct{}

func (frenchGreeter) Greet() string { return "bonjour" }

type greetingRunner struct {
	greeter testGreeter
}

func (g *greetingRunner) Run(context.Context, []string) error {
	return nil
}

func newTestLeaf() *testLeaf { return &testLeaf{val: 42} }
func newTestNode(l *testLeaf) *testNode { return &testNode{leaf: l} }
func newTestLeft(l *testLeaf) *testLeft { return &testLeft{leaf: l} }
func newTestRight(l *testLeaf) *testRight { return &testRight{leaf: l} }
func newTestTop(l *testLeft, r *testRight) *testTop { return &testTop{left: l, right: r} }
func newTestRunner(l *testLeaf) *testRunner { return &testRunner{leaf: l} }
func newTestOtherRunner() *testOtherRunner { return &testOtherRunner{} }
func newValueRunner() valueRunner { return valueRunner{} }
func newCycA(b *cycB) *cycA { return &cycA{b: b} }
func newCycB(a *cycA) *cycB { return &cycB{a: a} }
func newRingA(b *ringB) *ringA { return &ringA{b: b} }
func newRingB(c *ringC) *ringB { return &ringB{c: c} }
func newRingC(a *ringA) *ringC { return &ringC{a: a} }
func newRingEntry(a *ringA) *ringEntry { return &ringEntry{a: a} }
func newEnglishGreeter() *englishGreeter { return &englishGreeter{} }
func newFrenchGreeter() *frenchGreeter { return &frenchGreeter{} }
func newGreetingRunner(g testGreeter) *greetingRunner {
	return &greetingRunner{greeter: g}
}

// resolveAll discovers everything registered under the test namespace and resolves it the way
// a bootstrap does, stopping at the first error.
func resolveAll(t *testing.T, reg *Registry) (*SingletonStore, error) {
	t.Helper()
	components, err := Discover(reg, testNamespace)
	require.NoError(t, err)

	store := NewSingletonStore()
	r := newResolver(components, store)
	for _, d := range components {
		if _, err := r.resolve(context.Background(), d.Type, nil); err != nil {
			return store, err
		}
	}
	return store, nil
}

// newTestResolver discovers the registry's components without resolving anything yet.
func newTestResolver(t *testing.T, reg *Registry) *resolver {
	t.Helper()
	components, err := Discover(reg, testNamespace)
	require.NoError(t, err)
	return newResolver(components, NewSingletonStore())
}
