package payment

import (
	"context"
	"strings"
)

type actionFunc func(context.Context, Event) error

type actionFactory struct {
	byType map[string]actionFunc
}

func newActionFactory(onSucceeded, onFailed, onRefunded actionFunc) *actionFactory {
	return &actionFactory{
		byType: map[string]actionFunc{
			EventSucceeded: onSucceeded,
			EventFailed:    onFailed,
			EventRefunded:  onRefunded,
		},
	}
}

func (f *actionFactory) get(typ string) (actionFunc, bool) {
	typ = strings.ToLower(strings.TrimSpace(typ))
	fn, ok := f.byType[typ]
	return fn, ok
}
