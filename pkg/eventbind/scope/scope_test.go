package scope_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/eventbind/pkg/eventbind/event"
	"github.com/randalmurphal/eventbind/pkg/eventbind/scope"
)

func newAttrs(t *testing.T) *scope.Attributes {
	t.Helper()
	attrs, err := scope.NewAttributes(event.NewAny("message.text", "test", "hello"))
	require.NoError(t, err)
	return attrs
}

func TestNewAttributes_NilEvent(t *testing.T) {
	attrs, err := scope.NewAttributes(nil)
	assert.ErrorIs(t, err, scope.ErrNilEvent)
	assert.Nil(t, attrs)
}

func TestAttributes_Event(t *testing.T) {
	evt := event.NewAny("message.text", "test", "hello")
	attrs, err := scope.NewAttributes(evt)
	require.NoError(t, err)

	assert.Same(t, evt, attrs.Event())

	attrs.SetAttribute("k", "v")
	attrs.RemoveAttribute("k")
	assert.Same(t, evt, attrs.Event())
}

func TestAttributes_SetGetRemove(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"string value", "user", "alice"},
		{"int value", "count", 3},
		{"nil value", "empty", nil},
		{"struct value", "chat", struct{ ID int64 }{ID: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := newAttrs(t)

			attrs.SetAttribute(tt.key, tt.value)
			got, ok := attrs.Attribute(tt.key)
			assert.True(t, ok)
			assert.Equal(t, tt.value, got)

			attrs.RemoveAttribute(tt.key)
			got, ok = attrs.Attribute(tt.key)
			assert.False(t, ok)
			assert.Nil(t, got)
		})
	}
}

func TestAttributes_SetReplaces(t *testing.T) {
	attrs := newAttrs(t)

	attrs.SetAttribute("key", "old")
	attrs.SetAttribute("key", "new")

	v, ok := attrs.Attribute("key")
	assert.True(t, ok)
	assert.Equal(t, "new", v)
	assert.Equal(t, 1, attrs.Len())
}

func TestAttributes_RemoveMissing(t *testing.T) {
	attrs := newAttrs(t)
	attrs.RemoveAttribute("missing")
	assert.Equal(t, 0, attrs.Len())
}

func TestAttributes_Names(t *testing.T) {
	attrs := newAttrs(t)
	attrs.SetAttribute("a", 1)
	attrs.SetAttribute("b", 2)
	attrs.SetAttribute("c", 3)
	attrs.RemoveAttribute("b")

	assert.ElementsMatch(t, []string{"a", "c"}, attrs.AttributeNames())

	// Snapshot is independent of later writes
	names := attrs.AttributeNames()
	attrs.SetAttribute("d", 4)
	assert.Len(t, names, 2)
}

func TestAttributes_Concurrent(t *testing.T) {
	attrs := newAttrs(t)

	const workers = 50
	const ops = 100

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < ops; j++ {
				key := fmt.Sprintf("key-%d", j%10)
				switch j % 4 {
				case 0:
					attrs.SetAttribute(key, id)
				case 1:
					attrs.Attribute(key)
				case 2:
					attrs.AttributeNames()
				case 3:
					attrs.RemoveAttribute(key)
				}
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, attrs.Len(), 10)
}

func TestAccessor_Lifecycle(t *testing.T) {
	acc := scope.NewAccessor("test")
	ctx := context.Background()

	_, ok := acc.Current(ctx)
	assert.False(t, ok, "nothing bound before Bind")

	attrs := newAttrs(t)
	bound := acc.Bind(ctx, attrs)

	got, ok := acc.Current(bound)
	require.True(t, ok)
	assert.Same(t, attrs, got)

	acc.Unbind(bound)
	got, ok = acc.Current(bound)
	assert.False(t, ok, "nothing bound after Unbind")
	assert.Nil(t, got)
}

func TestAccessor_UnbindIdempotent(t *testing.T) {
	acc := scope.NewAccessor("test")
	ctx := context.Background()

	assert.NotPanics(t, func() { acc.Unbind(ctx) })

	bound := acc.Bind(ctx, newAttrs(t))
	acc.Unbind(bound)
	acc.Unbind(bound)

	_, ok := acc.Current(bound)
	assert.False(t, ok)
}

func TestAccessor_RebindReplaces(t *testing.T) {
	acc := scope.NewAccessor("test")
	first := newAttrs(t)
	second := newAttrs(t)
	first.SetAttribute("only-first", true)

	ctx := acc.Bind(context.Background(), first)
	ctx = acc.Bind(ctx, second)

	got, ok := acc.Current(ctx)
	require.True(t, ok)
	assert.Same(t, second, got)

	_, found := got.Attribute("only-first")
	assert.False(t, found, "bindings must not merge")
}

func TestAccessor_Independent(t *testing.T) {
	a := scope.NewAccessor("a")
	b := scope.NewAccessor("b")

	ctx := a.Bind(context.Background(), newAttrs(t))

	_, ok := b.Current(ctx)
	assert.False(t, ok)
	_, ok = a.Current(ctx)
	assert.True(t, ok)
}

func TestAccessor_VisibleToDerivedContexts(t *testing.T) {
	attrs := newAttrs(t)
	ctx := scope.Bind(context.Background(), attrs)

	child, cancel := context.WithCancel(ctx)
	defer cancel()

	got, ok := scope.Current(child)
	require.True(t, ok)
	assert.Same(t, attrs, got)

	// Clearing through the parent also clears what the child sees
	scope.Unbind(ctx)
	_, ok = scope.Current(child)
	assert.False(t, ok)
}

func TestAccessor_ConcurrentUnitsIsolated(t *testing.T) {
	parent := context.Background()

	const units = 32
	var wg sync.WaitGroup
	errs := make(chan string, units)

	start := make(chan struct{})
	wg.Add(units)
	for i := 0; i < units; i++ {
		go func(id int) {
			defer wg.Done()
			evt := event.NewAny("message.text", "test", id)
			attrs, err := scope.NewAttributes(evt)
			if err != nil {
				errs <- err.Error()
				return
			}
			ctx := scope.Bind(parent, attrs)
			defer scope.Unbind(ctx)

			<-start
			for j := 0; j < 100; j++ {
				got, ok := scope.Current(ctx)
				if !ok || got.Event().Data() != id {
					errs <- fmt.Sprintf("unit %d observed foreign binding", id)
					return
				}
			}
		}(i)
	}
	close(start)
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}

	_, ok := scope.Current(parent)
	assert.False(t, ok, "parent context never sees unit bindings")
}
