package journal

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/eventbind/pkg/eventbind/event"
	"github.com/randalmurphal/eventbind/pkg/eventbind/handler"
	"github.com/randalmurphal/eventbind/pkg/eventbind/resolver"
)

// Classify maps an invocation error to a failure kind. Errors that are not
// produced by the call boundary, a resolver or cancellation are attributed
// to the handler body.
func Classify(err error) Kind {
	var (
		bindErr *handler.BindingError
		argErr  *handler.ArgumentError
		invErr  *handler.InvocationError
	)
	switch {
	case errors.As(err, &bindErr):
		return KindBinding
	case errors.As(err, &argErr):
		return KindArgument
	case errors.As(err, &invErr):
		return KindInvocation
	case errors.Is(err, resolver.ErrUnresolvable):
		return KindResolver
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCancelled
	default:
		return KindHandler
	}
}

// NewEntry builds an entry describing err raised while handlerName handled
// evt.
func NewEntry(evt event.Event, handlerName string, err error) Entry {
	e := Entry{
		ID:         uuid.New().String(),
		Handler:    handlerName,
		Kind:       Classify(err),
		Report:     handler.ReportOf(err),
		RecordedAt: time.Now().UTC(),
	}
	if evt != nil {
		e.EventID = evt.ID()
		e.EventType = evt.Type()
	}
	if err != nil {
		e.Message, _, _ = strings.Cut(err.Error(), "\n")
	}
	return e
}

// prepare fills the ID and timestamp of an entry about to be stored.
func prepare(e Entry) Entry {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now().UTC()
	}
	return e
}
