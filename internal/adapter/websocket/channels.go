package websocket

import (
	"fmt"
	"strings"

	"github.com/pscheid92/fxpulse/internal/domain"
)

// ChannelKind is the namespace part of a channel name.
type ChannelKind string

const (
	KindBias   ChannelKind = "bias"
	KindEvents ChannelKind = "events"
)

// BiasChannel carries scorecard updates for one currency.
func BiasChannel(c domain.Currency) string {
	return string(KindBias) + ":" + string(c)
}

// EventsChannel carries event analyses for one currency.
func EventsChannel(c domain.Currency) string {
	return string(KindEvents) + ":" + string(c)
}

// ParseChannel splits "bias:USD" or "events:JPY" into kind and currency.
func ParseChannel(channel string) (ChannelKind, domain.Currency, error) {
	kind, cur, ok := strings.Cut(channel, ":")
	if !ok {
		return "", "", fmt.Errorf("malformed channel %q", channel)
	}

	switch ChannelKind(kind) {
	case KindBias, KindEvents:
	default:
		return "", "", fmt.Errorf("unknown channel namespace %q", kind)
	}

	currency := domain.Currency(cur)
	if !currency.IsSupported() {
		return "", "", fmt.Errorf("%w: %q", domain.ErrUnsupportedCurrency, cur)
	}
	return ChannelKind(kind), currency, nil
}
