package tlv

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const HeaderLen = 3

var (
	ErrShortFieldHeader = errors.New("tlv: short field header")
	ErrShortFieldValue  = errors.New("tlv: short field value")
	ErrValueTooLarge    = errors.New("tlv: field value too large")
)

// Field is one attribute in a hello payload.
type Field struct {
	ID    uint8
	Value []byte
}

func EncodeField(f Field) ([]byte, error) {
	if len(f.Value) > 0xFFFF {
		return nil, ErrValueTooLarge
	}
	buf := make([]byte, HeaderLen+len(f.Value))
	buf[0] = f.ID
	binary.BigEndian.PutUint16(buf[1:3], uint16(len(f.Value)))
	copy(buf[HeaderLen:], f.Value)
	return buf, nil
}

func EncodeFields(fields []Field) ([]byte, error) {
	out := make([]byte, 0)
	for _, f := range fields {
		b, err := EncodeField(f)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

func DecodeFields(payload []byte) ([]Field, error) {
	fields := make([]Field, 0)
	i := 0
	for i < len(payload) {
		if len(payload)-i < HeaderLen {
			return nil, ErrShortFieldHeader
		}
		id := payload[i]
		l := int(binary.BigEndian.Uint16(payload[i+1 : i+3]))
		i += HeaderLen
		if len(payload)-i < l {
			return nil, ErrShortFieldValue
		}
		val := make([]byte, l)
		copy(val, payload[i:i+l])
		i += l
		fields = append(fields, Field{ID: id, Value: val})
	}
	return fields, nil
}

func GetField(fields []Field, id uint8) (Field, bool) {
	for _, f := range fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

func StringValue(fields []Field, id uint8) (string, bool) {
	f, ok := GetField(fields, id)
	if !ok {
		return "", false
	}
	return string(f.Value), true
}

func U16Value(fields []Field, id uint8) (uint16, error) {
	f, ok := GetField(fields, id)
	if !ok {
		return 0, fmt.Errorf("tlv: field %d missing", id)
	}
	if len(f.Value) != 2 {
		return 0, fmt.Errorf("tlv: invalid u16 length: %d", len(f.Value))
	}
	return binary.BigEndian.Uint16(f.Value), nil
}
