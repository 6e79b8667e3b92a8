package gateway

import (
	"bytes"
	"context"
	"time"

	"hiddencard/internal/codec"
	"hiddencard/internal/domain"
)

// runTicks drives the whole game at a fixed rate. Each tick applies
// connection changes, flushes the previous tick's deferred events, then
// drains inbound client events in arrival order. Nothing else ever touches
// the registry.
func (g *Gateway) runTicks(ctx context.Context) {
	ticker := time.NewTicker(g.cfg.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.tick()
		}
	}
}

func (g *Gateway) tick() {
	g.drainChanges()
	g.flushDeferred()
	g.drainInbound()
}

func (g *Gateway) drainChanges() {
	for {
		select {
		case ch := <-g.changes:
			g.registry.HandleConnection(ch.clientID, ch.connected)
		default:
			return
		}
	}
}

// flushDeferred delivers everything buffered during the previous tick.
// Broadcast facts therefore always arrive one tick after the direct replies
// they follow, which is the ordering clients rely on.
func (g *Gateway) flushDeferred() {
	pending := g.deferred
	g.deferred = nil
	for _, out := range pending {
		g.deliver(out.to, out.ev)
	}
}

func (g *Gateway) drainInbound() {
	for {
		select {
		case in := <-g.inbound:
			if err := g.registry.Process(in.clientID, in.ev); err != nil {
				g.deliver([]domain.ClientID{in.clientID}, domain.Event{
					Kind:   domain.EventRoomError,
					Reason: err.Error(),
				})
			}
		default:
			return
		}
	}
}

// Send implements app.EventSink: direct replies go out on the current tick.
func (g *Gateway) Send(to []domain.ClientID, ev domain.Event) {
	g.deliver(to, ev)
}

// SendDeferred implements app.EventSink: buffered until the next tick. Only
// the tick loop appends here, so the buffer needs no locking.
func (g *Gateway) SendDeferred(to []domain.ClientID, ev domain.Event) {
	g.deferred = append(g.deferred, outbound{to: to, ev: ev})
}

func (g *Gateway) deliver(to []domain.ClientID, ev domain.Event) {
	var buf bytes.Buffer
	if err := codec.WriteFrame(&buf, ev); err != nil {
		g.logger.Error("encode event", "kind", ev.Kind, "err", err)
		return
	}
	data := buf.Bytes()

	for _, id := range to {
		conn := g.manager.Get(id)
		if conn == nil {
			continue
		}
		if err := conn.Send(data); err != nil {
			g.logger.Debug("send failed", "client", id, "err", err)
		}
	}
}
