package app

import "hiddencard/internal/domain"

// EventSink delivers server events to clients. Send goes out on the current
// tick and is meant for direct replies; SendDeferred is buffered by the
// transport and flushed at the start of the next tick, which keeps broadcast
// facts ordered after the replies that caused them.
type EventSink interface {
	Send(to []domain.ClientID, ev domain.Event)
	SendDeferred(to []domain.ClientID, ev domain.Event)
}
