package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	Magic      uint32 = 0x504C5345 // "PLSE"
	Version    uint16 = 1
	HeaderLen         = 20
)

// Type tags one datagram purpose on the wire.
type Type uint16

const (
	TypeHello     Type = 1
	TypeHelloAck  Type = 2
	TypeData      Type = 3
	TypeHeartbeat Type = 4
	TypeBye       Type = 5
)

func (t Type) String() string {
	switch t {
	case TypeHello:
		return "hello"
	case TypeHelloAck:
		return "hello.ack"
	case TypeData:
		return "data"
	case TypeHeartbeat:
		return "heartbeat"
	case TypeBye:
		return "bye"
	default:
		return fmt.Sprintf("type(%d)", uint16(t))
	}
}

var (
	ErrShortHeader     = errors.New("frame: short fixed header")
	ErrBadMagic        = errors.New("frame: bad magic")
	ErrBadVersion      = errors.New("frame: unsupported version")
	ErrPayloadTooLarge = errors.New("frame: payload too large")
	ErrLengthMismatch  = errors.New("frame: payload length mismatch")
)

// Header is the fixed wire header prefixed to every datagram.
type Header struct {
	Magic      uint32
	Version    uint16
	Type       Type
	Seq        uint64
	PayloadLen uint32
}

// Datagram is one complete wire message.
type Datagram struct {
	Header  Header
	Payload []byte
}

// Limits constrains datagram decode/encode memory use.
type Limits struct {
	MaxPayloadBytes uint32
}

func DefaultLimits() Limits {
	return Limits{MaxPayloadBytes: 32 * 1024}
}

// New builds a datagram of the given type with the canonical magic/version.
func New(t Type, seq uint64, payload []byte) Datagram {
	return Datagram{
		Header: Header{
			Magic:      Magic,
			Version:    Version,
			Type:       t,
			Seq:        seq,
			PayloadLen: uint32(len(payload)),
		},
		Payload: payload,
	}
}

func Encode(d Datagram, limits Limits) ([]byte, error) {
	payloadLen := uint32(len(d.Payload))
	if payloadLen > limits.MaxPayloadBytes {
		return nil, ErrPayloadTooLarge
	}
	h := d.Header
	h.PayloadLen = payloadLen

	buf := make([]byte, HeaderLen+len(d.Payload))
	binary.BigEndian.PutUint32(buf[0:4], h.Magic)
	binary.BigEndian.PutUint16(buf[4:6], h.Version)
	binary.BigEndian.PutUint16(buf[6:8], uint16(h.Type))
	binary.BigEndian.PutUint64(buf[8:16], h.Seq)
	binary.BigEndian.PutUint32(buf[16:20], h.PayloadLen)
	copy(buf[HeaderLen:], d.Payload)
	return buf, nil
}

func Decode(b []byte, limits Limits) (Datagram, error) {
	if len(b) < HeaderLen {
		return Datagram{}, ErrShortHeader
	}
	h := Header{
		Magic:      binary.BigEndian.Uint32(b[0:4]),
		Version:    binary.BigEndian.Uint16(b[4:6]),
		Type:       Type(binary.BigEndian.Uint16(b[6:8])),
		Seq:        binary.BigEndian.Uint64(b[8:16]),
		PayloadLen: binary.BigEndian.Uint32(b[16:20]),
	}
	if h.Magic != Magic {
		return Datagram{}, ErrBadMagic
	}
	if h.Version != Version {
		return Datagram{}, ErrBadVersion
	}
	if h.PayloadLen > limits.MaxPayloadBytes {
		return Datagram{}, ErrPayloadTooLarge
	}
	if uint32(len(b)-HeaderLen) != h.PayloadLen {
		return Datagram{}, ErrLengthMismatch
	}
	payload := make([]byte, h.PayloadLen)
	copy(payload, b[HeaderLen:])
	return Datagram{Header: h, Payload: payload}, nil
}
