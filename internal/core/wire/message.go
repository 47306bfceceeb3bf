// Package wire implements the fixed binary layout used between the game
// client and server. Every frame is a single tag byte followed by the
// tag-specific fields defined in codec.go.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf16"
)

const (
	// MaxMessageSize is the ceiling on the size of a single frame.
	MaxMessageSize = 24590
	// MaxChatMessageLength is the maximum chat message length in code units.
	MaxChatMessageLength = 255
)

var (
	// ErrFrameTooLarge is returned when an encode would push a message
	// past its size ceiling. The message is left untouched.
	ErrFrameTooLarge = errors.New("frame exceeds maximum message size")
	// ErrMalformedFrame is returned when a decode runs off the end of a
	// frame or encounters a field that violates the wire format.
	ErrMalformedFrame = errors.New("malformed frame")
)

// Message is a byte buffer with a single cursor used either to construct
// or to consume one frame. A Message must not be used for both directions
// at the same time.
type Message struct {
	buf []byte
	pos int
	max int
}

// NewMessage returns an empty Message ready for encoding, bounded by
// MaxMessageSize.
func NewMessage() *Message {
	return &Message{buf: make([]byte, 0, 64), max: MaxMessageSize}
}

// NewMessageFrom wraps received bytes in a Message ready for decoding.
func NewMessageFrom(data []byte) *Message {
	return &Message{buf: data, max: len(data)}
}

// Bytes returns the raw contents of the message.
func (m *Message) Bytes() []byte { return m.buf }

// Len returns the number of bytes in the message.
func (m *Message) Len() int { return len(m.buf) }

// Position returns the current cursor offset.
func (m *Message) Position() int { return m.pos }

// Reset moves the cursor back to the beginning of the message.
func (m *Message) Reset() { m.pos = 0 }

// Skip advances the cursor n bytes without consuming anything.
func (m *Message) Skip(n int) { m.pos += n }

// checkSize verifies that additional bytes fit under the size ceiling
// before anything is written, so a failed write never moves the cursor.
func (m *Message) checkSize(additional int) error {
	if m.pos+additional > m.max {
		return fmt.Errorf("%w: max %d, attempted %d", ErrFrameTooLarge, m.max, m.pos+additional)
	}
	return nil
}

func (m *Message) AddByte(value byte) error {
	if err := m.checkSize(1); err != nil {
		return err
	}
	m.buf = append(m.buf, value)
	m.pos++
	return nil
}

func (m *Message) AddUint16(value uint16) error {
	if err := m.checkSize(2); err != nil {
		return err
	}
	m.buf = binary.LittleEndian.AppendUint16(m.buf, value)
	m.pos += 2
	return nil
}

func (m *Message) AddUint32(value uint32) error {
	if err := m.checkSize(4); err != nil {
		return err
	}
	m.buf = binary.LittleEndian.AppendUint32(m.buf, value)
	m.pos += 4
	return nil
}

func (m *Message) AddInt32(value int32) error {
	return m.AddUint32(uint32(value))
}

func (m *Message) AddInt64(value int64) error {
	if err := m.checkSize(8); err != nil {
		return err
	}
	m.buf = binary.LittleEndian.AppendUint64(m.buf, uint64(value))
	m.pos += 8
	return nil
}

func (m *Message) AddBool(value bool) error {
	if value {
		return m.AddByte(1)
	}
	return m.AddByte(0)
}

// AddString writes a 2-byte code unit count followed by the string encoded
// as UTF-16 LE code units. This mirrors the 16-bit character scheme the
// game client uses; it is not UTF-8.
func (m *Message) AddString(value string) error {
	if value == "" {
		return m.AddUint16(0)
	}

	encoded := utf16.Encode([]rune(value))
	if err := m.checkSize(2 + 2*len(encoded)); err != nil {
		return err
	}

	m.buf = binary.LittleEndian.AppendUint16(m.buf, uint16(len(encoded)))
	for _, unit := range encoded {
		m.buf = binary.LittleEndian.AppendUint16(m.buf, unit)
	}
	m.pos += 2 + 2*len(encoded)
	return nil
}

// checkRemaining verifies that n more bytes can be consumed from the frame.
func (m *Message) checkRemaining(n int) error {
	if m.pos+n > len(m.buf) {
		return fmt.Errorf("%w: need %d bytes at offset %d of %d", ErrMalformedFrame, n, m.pos, len(m.buf))
	}
	return nil
}

func (m *Message) GetByte() (byte, error) {
	if err := m.checkRemaining(1); err != nil {
		return 0, err
	}
	value := m.buf[m.pos]
	m.pos++
	return value, nil
}

func (m *Message) GetUint16() (uint16, error) {
	if err := m.checkRemaining(2); err != nil {
		return 0, err
	}
	value := binary.LittleEndian.Uint16(m.buf[m.pos:])
	m.pos += 2
	return value, nil
}

func (m *Message) GetUint32() (uint32, error) {
	if err := m.checkRemaining(4); err != nil {
		return 0, err
	}
	value := binary.LittleEndian.Uint32(m.buf[m.pos:])
	m.pos += 4
	return value, nil
}

func (m *Message) GetInt32() (int32, error) {
	value, err := m.GetUint32()
	return int32(value), err
}

func (m *Message) GetInt64() (int64, error) {
	if err := m.checkRemaining(8); err != nil {
		return 0, err
	}
	value := binary.LittleEndian.Uint64(m.buf[m.pos:])
	m.pos += 8
	return int64(value), nil
}

// GetBool reads a single byte that must be exactly 0 or 1. Anything else
// violates the wire format.
func (m *Message) GetBool() (bool, error) {
	value, err := m.GetByte()
	if err != nil {
		return false, err
	}
	switch value {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: bool byte %#x", ErrMalformedFrame, value)
	}
}

// GetString reads a 2-byte code unit count and that many UTF-16 LE code
// units, failing if the declared length runs past the end of the frame.
func (m *Message) GetString() (string, error) {
	length, err := m.GetUint16()
	if err != nil {
		return "", err
	}
	if length == 0 {
		return "", nil
	}
	if err := m.checkRemaining(2 * int(length)); err != nil {
		return "", err
	}

	units := make([]uint16, length)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(m.buf[m.pos+2*i:])
	}
	m.pos += 2 * int(length)

	return string(utf16.Decode(units)), nil
}
