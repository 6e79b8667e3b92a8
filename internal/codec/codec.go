package codec

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"hiddencard/internal/domain"
)

const (
	// HeaderSize is the 4-byte big-endian body length prefix.
	HeaderSize = 4

	// DefaultMaxFrame bounds a single frame. A full table snapshot is well
	// under this; anything close to the limit is garbage or abuse.
	DefaultMaxFrame = 64 * 1024
)

var (
	ErrFrameTooLarge = errors.New("frame exceeds size limit")
	ErrUnknownKind   = errors.New("unknown event kind")
)

var knownKinds = map[domain.EventKind]bool{
	domain.EventCreateRoom:         true,
	domain.EventJoinRoom:           true,
	domain.EventReJoinRoom:         true,
	domain.EventPlayerLeave:        true,
	domain.EventClientJustLaunched: true,
	domain.EventRoomReset:          true,
	domain.EventServerReset:        true,
	domain.EventReady:              true,
	domain.EventHandSorted:         true,
	domain.EventCallCard:           true,
	domain.EventBlock:              true,
	domain.EventPlayCards:          true,
	domain.EventPass:               true,
	domain.EventAssignSeat:         true,
	domain.EventToDealStage:        true,
	domain.EventDealHand:           true,
	domain.EventToCallStage:        true,
	domain.EventEnded:              true,
	domain.EventJoinRoomOk:         true,
	domain.EventReJoinRoomOk:       true,
	domain.EventAskForRejoinRoom:   true,
	domain.EventSyncState:          true,
	domain.EventRoomError:          true,
	domain.EventPlayerConnected:    true,
	domain.EventPlayerDisconnected: true,
}

// Marshal encodes the event as its JSON envelope.
func Marshal(ev domain.Event) ([]byte, error) {
	return json.Marshal(ev)
}

// Unmarshal decodes a JSON envelope and rejects kinds this protocol does not
// define.
func Unmarshal(data []byte) (domain.Event, error) {
	var ev domain.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return domain.Event{}, fmt.Errorf("decode event: %w", err)
	}
	if !knownKinds[ev.Kind] {
		return domain.Event{}, fmt.Errorf("%w: %q", ErrUnknownKind, ev.Kind)
	}
	return ev, nil
}

// WriteFrame writes one length-prefixed event to the stream.
func WriteFrame(w io.Writer, ev domain.Event) error {
	body, err := Marshal(ev)
	if err != nil {
		return err
	}
	frame := make([]byte, HeaderSize+len(body))
	binary.BigEndian.PutUint32(frame[:HeaderSize], uint32(len(body)))
	copy(frame[HeaderSize:], body)
	_, err = w.Write(frame)
	return err
}

// ReadFrame reads one length-prefixed event from the stream. maxFrame <= 0
// falls back to DefaultMaxFrame.
func ReadFrame(r io.Reader, maxFrame int) (domain.Event, error) {
	if maxFrame <= 0 {
		maxFrame = DefaultMaxFrame
	}
	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return domain.Event{}, err
	}
	length := binary.BigEndian.Uint32(header)
	if int(length) > maxFrame {
		return domain.Event{}, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, length)
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return domain.Event{}, err
	}
	return Unmarshal(body)
}
