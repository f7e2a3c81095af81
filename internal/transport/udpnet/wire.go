package udpnet

import (
	"encoding/binary"
	"fmt"

	"github.com/danmuck/pulsectl/internal/protocol/frame"
	"github.com/danmuck/pulsectl/internal/protocol/tlv"
)

// Hello attribute IDs.
const (
	attrPeerName     uint8 = 1
	attrProtoVersion uint8 = 2
)

func helloPayload(name string) ([]byte, error) {
	version := make([]byte, 2)
	binary.BigEndian.PutUint16(version, frame.Version)
	return tlv.EncodeFields([]tlv.Field{
		{ID: attrPeerName, Value: []byte(name)},
		{ID: attrProtoVersion, Value: version},
	})
}

func parseHello(payload []byte) (name string, err error) {
	fields, err := tlv.DecodeFields(payload)
	if err != nil {
		return "", fmt.Errorf("udpnet: hello payload: %w", err)
	}
	version, err := tlv.U16Value(fields, attrProtoVersion)
	if err != nil {
		return "", fmt.Errorf("udpnet: hello payload: %w", err)
	}
	if version != frame.Version {
		return "", fmt.Errorf("udpnet: hello protocol version %d unsupported", version)
	}
	name, _ = tlv.StringValue(fields, attrPeerName)
	return name, nil
}
