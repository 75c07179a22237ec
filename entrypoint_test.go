package bootdep

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocate(t *testing.T) {
	t.Run("single runnable", func(t *testing.T) {
		store := NewSingletonStore()
		runner := &testRunner{}
		store.PutIfAbsent(typeOf[*testLeaf](), &testLeaf{})
		store.PutIfAbsent(typeOf[*testRunner](), runner)

		entry, entryType, err := Locate(store)
		require.NoError(t, err)
		assert.Same(t, runner, entry)
		assert.Equal(t, typeOf[*testRunner](), entryType)
	})

	t.Run("no runnable", func(t *testing.T) {
		store := NewSingletonStore()
		store.PutIfAbsent(typeOf[*testLeaf](), &testLeaf{})
		store.PutIfAbsent(typeOf[*testNode](), &testNode{})

		entry, _, err := Locate(store)
		assert.Nil(t, entry)
		assert.ErrorIs(t, err, ErrNoEntryPoint)
	})

	t.Run("empty store", func(t *testing.T) {
		_, _, err := Locate(NewSingletonStore())
		assert.ErrorIs(t, err, ErrNoEntryPoint)
	})

	t.Run("several runnables", func(t *testing.T) {
		store := NewSingletonStore()
		store.PutIfAbsent(typeOf[*testRunner](), &testRunner{})
		store.PutIfAbsent(typeOf[*testOtherRunner](), &testOtherRunner{})

		entry, _, err := Locate(store)
		assert.Nil(t, entry)
		require.ErrorIs(t, err, ErrAmbiguousEntryPoint)

		var de *DependencyError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, []reflect.Type{typeOf[*testOtherRunner](), typeOf[*testRunner]()}, de.Types)
		assert.Contains(t, err.Error(), "*bootdep.testOtherRunner")
		assert.Contains(t, err.Error(), "*bootdep.testRunner")
	})
}

func TestLocateEntryPoint_NamesNearMisses(t *testing.T) {
	t.Run("pointer receiver on a value component", func(t *testing.T) {
		reg := NewRegistry().Register(newTestLeaf, newValueRunner)
		c := New(reg)

		err := c.Bootstrap(context.Background(), testNamespace, nil)
		require.ErrorIs(t, err, ErrNoEntryPoint)

		var de *DependencyError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, []reflect.Type{typeOf[valueRunner]()}, de.Types)
		assert.Contains(t, err.Error(), "declare a Run method")
	})

	t.Run("declared runnable by the lister", func(t *testing.T) {
		leaf := NewTypeDescriptor(newTestLeaf)
		leaf.Runnable = true
		store := NewSingletonStore()
		store.PutIfAbsent(typeOf[*testLeaf](), &testLeaf{})

		_, _, err := locateEntryPoint(store, []TypeDescriptor{leaf})
		var de *DependencyError
		require.ErrorAs(t, err, &de)
		assert.ErrorIs(t, err, ErrNoEntryPoint)
		assert.Equal(t, []reflect.Type{typeOf[*testLeaf]()}, de.Types)
	})

	t.Run("nothing resembling an entry point", func(t *testing.T) {
		store := NewSingletonStore()
		store.PutIfAbsent(typeOf[*testLeaf](), &testLeaf{})

		_, _, err := locateEntryPoint(store, []TypeDescriptor{NewTypeDescriptor(newTestLeaf)})
		require.ErrorIs(t, err, ErrNoEntryPoint)
		assert.Contains(t, err.Error(), "no component implements bootdep.Runnable")
		assert.NotContains(t, err.Error(), "declare a Run method")
	})

	t.Run("found entry point passes through", func(t *testing.T) {
		store := NewSingletonStore()
		runner := &testRunner{}
		store.PutIfAbsent(typeOf[*testRunner](), runner)

		entry, _, err := locateEntryPoint(store, []TypeDescriptor{NewTypeDescriptor(newTestRunner)})
		require.NoError(t, err)
		assert.Same(t, runner, entry)
	})
}
