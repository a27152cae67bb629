package benchmarks

import (
	"context"
	"testing"

	"github.com/randalmurphal/eventbind/pkg/eventbind/dispatch"
	"github.com/randalmurphal/eventbind/pkg/eventbind/event"
	"github.com/randalmurphal/eventbind/pkg/eventbind/handler"
	"github.com/randalmurphal/eventbind/pkg/eventbind/resolver"
	"github.com/randalmurphal/eventbind/pkg/eventbind/scope"
)

// Order is a typical event payload.
type Order struct {
	ID    string
	Items []string
	Total int
}

type shop struct{}

func (shop) Noop() {}

func (shop) Place(ctx context.Context, order Order, attrs *scope.Attributes) int {
	attrs.SetAttribute("order", order.ID)
	return order.Total
}

func (shop) Audit(evt event.Event) string {
	return evt.ID()
}

func orderEvent() event.Event {
	return event.New("order.placed", "bench", Order{ID: "o-1", Items: []string{"a", "b"}, Total: 42})
}

func newDispatcher(b *testing.B, opts ...dispatch.Option) *dispatch.Dispatcher {
	b.Helper()
	d := dispatch.New(opts...)
	if _, err := d.RegisterMethod("order.placed", shop{}, "Place",
		handler.WithAnnotations(1, resolver.Payload{})); err != nil {
		b.Fatal(err)
	}
	if _, err := d.RegisterMethod("", shop{}, "Audit"); err != nil {
		b.Fatal(err)
	}
	return d
}

// BenchmarkInvoke_NoParams measures the call path without resolution.
func BenchmarkInvoke_NoParams(b *testing.B) {
	m, err := handler.MethodOf(shop{}, "Noop")
	if err != nil {
		b.Fatal(err)
	}
	desc, _ := handler.NewDescriptor(shop{}, m)
	inv, _ := handler.NewInvocable(desc, nil)
	ctx := context.Background()
	evt := orderEvent()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = inv.Invoke(ctx, evt)
	}
}

// BenchmarkInvoke_Resolved measures argument resolution through the default
// chain.
func BenchmarkInvoke_Resolved(b *testing.B) {
	m, err := handler.MethodOf(shop{}, "Place", handler.WithAnnotations(1, resolver.Payload{}))
	if err != nil {
		b.Fatal(err)
	}
	desc, _ := handler.NewDescriptor(shop{}, m)
	inv, _ := handler.NewInvocable(desc, resolver.Defaults(nil))
	evt := orderEvent()
	attrs, _ := scope.NewAttributes(evt)
	ctx := scope.Bind(context.Background(), attrs)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = inv.Invoke(ctx, evt)
	}
}

// BenchmarkDispatch measures a full dispatch with two handlers.
func BenchmarkDispatch(b *testing.B) {
	d := newDispatcher(b)
	ctx := context.Background()
	evt := orderEvent()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = d.Dispatch(ctx, evt)
	}
}

// BenchmarkDispatch_Parallel measures concurrent dispatches.
func BenchmarkDispatch_Parallel(b *testing.B) {
	d := newDispatcher(b)
	evt := orderEvent()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		ctx := context.Background()
		for pb.Next() {
			_, _ = d.Dispatch(ctx, evt)
		}
	})
}
