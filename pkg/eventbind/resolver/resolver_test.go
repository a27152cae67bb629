package resolver_test

import (
	"context"
	"math/big"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/eventbind/pkg/eventbind/event"
	"github.com/randalmurphal/eventbind/pkg/eventbind/handler"
	"github.com/randalmurphal/eventbind/pkg/eventbind/resolver"
	"github.com/randalmurphal/eventbind/pkg/eventbind/scope"
)

type Bot struct {
	started bool
	gotName *string
	gotN    *int
}

func (b *Bot) Start(name *string, n *int) string {
	b.started = true
	b.gotName = name
	b.gotN = n
	return "started"
}

type textMessage struct {
	Text string
}

// param builds the parameter descriptor for a single-parameter method of
// type typ, annotated with annotations.
func param(t *testing.T, typ reflect.Type, annotations ...any) handler.Parameter {
	t.Helper()
	opts := []handler.MethodOption{handler.WithParams(typ)}
	if len(annotations) > 0 {
		opts = append(opts, handler.WithAnnotations(0, annotations...))
	}
	m, err := handler.NewMethod("Handle", reflect.TypeFor[*Bot](),
		func(any, []any) (any, error) { return nil, nil }, opts...)
	require.NoError(t, err)
	d, err := handler.NewDescriptor(&Bot{}, m)
	require.NoError(t, err)
	return d.Parameters()[0]
}

func TestCommandResolver_Supports(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		want bool
	}{
		{"string", reflect.TypeFor[string](), true},
		{"int", reflect.TypeFor[int](), true},
		{"int64", reflect.TypeFor[int64](), true},
		{"uint32", reflect.TypeFor[uint32](), true},
		{"float32", reflect.TypeFor[float32](), true},
		{"float64", reflect.TypeFor[float64](), true},
		{"pointer to string", reflect.TypeFor[*string](), true},
		{"pointer to int", reflect.TypeFor[*int](), true},
		{"big int", reflect.TypeFor[*big.Int](), true},
		{"big float", reflect.TypeFor[*big.Float](), true},
		{"decimal", reflect.TypeFor[decimal.Decimal](), true},
		{"decimal pointer", reflect.TypeFor[*decimal.Decimal](), true},
		{"bool", reflect.TypeFor[bool](), false},
		{"struct", reflect.TypeFor[textMessage](), false},
		{"slice", reflect.TypeFor[[]string](), false},
	}

	r := resolver.CommandResolver{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Supports(param(t, tt.typ, resolver.Command{Pattern: "/start"})))
			assert.False(t, r.Supports(param(t, tt.typ)), "unannotated parameters are never supported")
		})
	}
}

func TestCommandResolver_AlwaysNil(t *testing.T) {
	r := resolver.CommandResolver{}
	p := param(t, reflect.TypeFor[string](), resolver.Command{})

	v, err := r.Resolve(context.Background(), p, event.NewAny("message.text", "test", "/start now"))
	assert.NoError(t, err)
	assert.Nil(t, v)
}

func TestCommandResolver_HandlerStillCalled(t *testing.T) {
	bot := &Bot{}
	m, err := handler.MethodOf(bot, "Start", handler.WithAnnotations(0, resolver.Command{Pattern: "/start"}))
	require.NoError(t, err)
	d, err := handler.NewDescriptor(bot, m)
	require.NoError(t, err)

	chain := handler.Chain{resolver.CommandResolver{}}
	params := d.Parameters()
	assert.True(t, chain.Supports(params[0]))
	assert.False(t, chain.Supports(params[1]))

	inv, err := handler.NewInvocable(d, chain)
	require.NoError(t, err)

	got, err := inv.Invoke(context.Background(), event.NewAny("message.text", "test", "/start 5"))
	require.NoError(t, err)
	assert.Equal(t, "started", got)
	assert.True(t, bot.started)
	assert.Nil(t, bot.gotName)
	assert.Nil(t, bot.gotN)
}

func TestEventResolver(t *testing.T) {
	r := resolver.EventResolver{}
	evt := event.New("message.text", "test", textMessage{Text: "hi"})

	iface := param(t, reflect.TypeFor[event.Event]())
	require.True(t, r.Supports(iface))
	v, err := r.Resolve(context.Background(), iface, evt)
	require.NoError(t, err)
	assert.Same(t, evt, v)

	concrete := param(t, reflect.TypeFor[*event.BaseEvent[textMessage]]())
	require.True(t, r.Supports(concrete))
	v, err = r.Resolve(context.Background(), concrete, evt)
	require.NoError(t, err)
	assert.Same(t, evt, v)

	_, err = r.Resolve(context.Background(), concrete, event.NewAny("message.text", "test", "hi"))
	assert.ErrorIs(t, err, resolver.ErrEventType)

	assert.False(t, r.Supports(param(t, reflect.TypeFor[string]())))
	assert.False(t, r.Supports(param(t, reflect.TypeFor[any]())))
}

func TestPayloadResolver(t *testing.T) {
	r := resolver.PayloadResolver{}
	p := param(t, reflect.TypeFor[textMessage](), resolver.Payload{})
	require.True(t, r.Supports(p))
	assert.False(t, r.Supports(param(t, reflect.TypeFor[textMessage]())))

	v, err := r.Resolve(context.Background(), p, event.New("message.text", "test", textMessage{Text: "hi"}))
	require.NoError(t, err)
	assert.Equal(t, textMessage{Text: "hi"}, v)

	_, err = r.Resolve(context.Background(), p, event.NewAny("message.text", "test", 42))
	assert.ErrorIs(t, err, resolver.ErrPayloadType)

	v, err = r.Resolve(context.Background(), p, event.NewAny("message.text", "test", nil))
	assert.NoError(t, err)
	assert.Nil(t, v)
}

func TestContextResolver(t *testing.T) {
	r := resolver.ContextResolver{}
	p := param(t, reflect.TypeFor[context.Context]())
	require.True(t, r.Supports(p))
	assert.False(t, r.Supports(param(t, reflect.TypeFor[any]())))

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")
	v, err := r.Resolve(ctx, p, nil)
	require.NoError(t, err)
	assert.Equal(t, ctx, v)
}

func TestAttributesResolvers(t *testing.T) {
	acc := scope.NewAccessor("test")
	evt := event.NewAny("message.text", "test", "hi")
	attrs, err := scope.NewAttributes(evt)
	require.NoError(t, err)
	attrs.SetAttribute("user", "alice")
	attrs.SetAttribute("count", 3)

	storeParam := param(t, reflect.TypeFor[*scope.Attributes]())
	userParam := param(t, reflect.TypeFor[string](), resolver.Attribute{Name: "user"})
	countParam := param(t, reflect.TypeFor[string](), resolver.Attribute{Name: "count"})
	missingParam := param(t, reflect.TypeFor[string](), resolver.Attribute{Name: "missing"})

	store := resolver.AttributesResolver{Accessor: acc}
	named := resolver.AttributeResolver{Accessor: acc}
	require.True(t, store.Supports(storeParam))
	require.True(t, named.Supports(userParam))
	assert.False(t, named.Supports(storeParam))

	t.Run("unbound", func(t *testing.T) {
		v, err := store.Resolve(context.Background(), storeParam, evt)
		assert.NoError(t, err)
		assert.Nil(t, v)

		v, err = named.Resolve(context.Background(), userParam, evt)
		assert.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("bound", func(t *testing.T) {
		ctx := acc.Bind(context.Background(), attrs)
		defer acc.Unbind(ctx)

		v, err := store.Resolve(ctx, storeParam, evt)
		require.NoError(t, err)
		assert.Same(t, attrs, v)

		v, err = named.Resolve(ctx, userParam, evt)
		require.NoError(t, err)
		assert.Equal(t, "alice", v)

		v, err = named.Resolve(ctx, missingParam, evt)
		assert.NoError(t, err)
		assert.Nil(t, v)

		_, err = named.Resolve(ctx, countParam, evt)
		assert.ErrorIs(t, err, resolver.ErrAttributeType)
	})
}

func TestDefaults_Order(t *testing.T) {
	chain := resolver.Defaults(nil)
	require.Len(t, chain, 6)

	assert.IsType(t, resolver.ContextResolver{}, chain.Resolver(param(t, reflect.TypeFor[context.Context]())))
	assert.IsType(t, resolver.EventResolver{}, chain.Resolver(param(t, reflect.TypeFor[event.Event]())))
	assert.IsType(t, resolver.CommandResolver{}, chain.Resolver(param(t, reflect.TypeFor[string](), resolver.Command{})))
	assert.IsType(t, resolver.AttributeResolver{},
		chain.Resolver(param(t, reflect.TypeFor[string](), resolver.Attribute{Name: "a"}, resolver.Command{})))
	assert.Nil(t, chain.Resolver(param(t, reflect.TypeFor[bool]())))
}

func TestErrorsWrapUnresolvable(t *testing.T) {
	for _, err := range []error{resolver.ErrEventType, resolver.ErrPayloadType, resolver.ErrAttributeType} {
		assert.ErrorIs(t, err, resolver.ErrUnresolvable)
	}
}
