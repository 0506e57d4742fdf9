package domain

import (
	"fmt"
	"strings"
)

// Intent is a button payload the intercom bot understands.
type Intent string

const (
	IntentEntry Intent = "entry"
	IntentExit  Intent = "exit"
)

// Intents lists the closed set in menu order.
var Intents = []Intent{IntentEntry, IntentExit}

// ParseIntent maps a raw callback payload onto an Intent.
// Payloads are matched exactly; anything else yields ErrUnknownIntent.
func ParseIntent(payload string) (Intent, error) {
	switch Intent(payload) {
	case IntentEntry, IntentExit:
		return Intent(payload), nil
	default:
		return "", ErrUnknownIntent
	}
}

func (i Intent) String() string { return string(i) }

// Directory binds each intent to a destination number and holds the
// caller number the provider rings first. It is built once at startup and
// only read afterwards.
type Directory struct {
	Internal string
	numbers  map[Intent]string
}

func NewDirectory(internal, entry, exit string) (*Directory, error) {
	internal = strings.TrimSpace(internal)
	if internal == "" {
		return nil, fmt.Errorf("internal number: %w", ErrInvalidArgument)
	}
	d := &Directory{
		Internal: internal,
		numbers: map[Intent]string{
			IntentEntry: strings.TrimSpace(entry),
			IntentExit:  strings.TrimSpace(exit),
		},
	}
	for _, in := range Intents {
		if d.numbers[in] == "" {
			return nil, fmt.Errorf("%s number: %w", in, ErrInvalidArgument)
		}
	}
	return d, nil
}

// Destination returns the number bound to intent.
func (d *Directory) Destination(in Intent) (string, error) {
	n, ok := d.numbers[in]
	if !ok || n == "" {
		return "", fmt.Errorf("%s: %w", in, ErrNoDestination)
	}
	return n, nil
}
