package resolver

import (
	"context"
	"math/big"
	"reflect"

	"github.com/shopspring/decimal"

	"github.com/randalmurphal/eventbind/pkg/eventbind/event"
	"github.com/randalmurphal/eventbind/pkg/eventbind/handler"
)

// Command marks a parameter as bound to the matched command.
//
//	handler.WithAnnotations(0, resolver.Command{Pattern: "/start"})
type Command struct {
	// Pattern is the command pattern the handler was mapped to.
	Pattern string
}

var commandTypes = map[reflect.Type]bool{
	reflect.TypeFor[*big.Int]():            true,
	reflect.TypeFor[*big.Float]():          true,
	reflect.TypeFor[decimal.Decimal]():     true,
	reflect.TypeFor[*decimal.Decimal]():    true,
	reflect.TypeFor[decimal.NullDecimal](): true,
}

// CommandResolver supports Command-annotated parameters of text, integer,
// floating point and arbitrary precision types. Pointers to the basic kinds
// are accepted too.
//
// Resolve always returns nil. Extracting values from command text is left
// to a resolver placed before this one in the chain.
type CommandResolver struct{}

// Supports implements handler.Resolver.
func (CommandResolver) Supports(p handler.Parameter) bool {
	if !handler.HasAnnotation[Command](p) {
		return false
	}
	return commandShaped(p.Type())
}

// Resolve implements handler.Resolver.
func (CommandResolver) Resolve(context.Context, handler.Parameter, event.Event) (any, error) {
	return nil, nil
}

func commandShaped(t reflect.Type) bool {
	if commandTypes[t] {
		return true
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
