package bootdep

import (
	"context"
	"testing"
)

func BenchmarkBootstrap(b *testing.B) {
	reg := NewRegistry().Register(newTestLeaf, newTestLeft, newTestRight, newTestTop, newTestRunner)

	for i := 0; i < b.N; i++ {
		_ = New(reg).Bootstrap(context.Background(), testNamespace, nil)
	}
}

func BenchmarkGetInterface(b *testing.B) {
	reg := NewRegistry().Register(newEnglishGreeter, newGreetingRunner)
	c := New(reg)
	if _, err := c.Build(context.Background(), testNamespace); err != nil {
		b.Fatal(err)
	}

	for i := 0; i < b.N; i++ {
		_ = Get[testGreeter](c)
	}
}
