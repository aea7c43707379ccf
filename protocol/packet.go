package protocol

import (
	"errors"
	"fmt"
	"strings"

	"github.com/encodeous/dvsim/state"
)

type Proto byte

const (
	ProtoData    Proto = '1'
	ProtoControl Proto = '2'
)

func (p Proto) String() string {
	switch p {
	case ProtoData:
		return "data"
	case ProtoControl:
		return "control"
	default:
		return fmt.Sprintf("proto(%q)", byte(p))
	}
}

var (
	ErrMalformedPacket    = errors.New("malformed packet")
	ErrUnknownProtocol    = errors.New("unknown protocol")
	ErrDestinationTooLong = errors.New("destination too long")
)

// NetworkPacket is a network layer packet. Control packets carry an encoded RouteVector as their payload.
type NetworkPacket struct {
	Dst     state.NodeId
	Proto   Proto
	Payload []byte
}

func NewDataPacket(dst state.NodeId, payload []byte) NetworkPacket {
	return NetworkPacket{Dst: dst, Proto: ProtoData, Payload: payload}
}

func (p NetworkPacket) String() string {
	return fmt.Sprintf("(dst: %s, proto: %s, payload: %q)", p.Dst, p.Proto, p.Payload)
}

// Encode converts the packet into its wire form: [dst zero-padded to 5][proto][payload]
func (p NetworkPacket) Encode() ([]byte, error) {
	if p.Proto != ProtoData && p.Proto != ProtoControl {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProtocol, p.Proto)
	}
	if len(p.Dst) > state.DstWidth {
		return nil, fmt.Errorf("%w: %q exceeds %d characters", ErrDestinationTooLong, p.Dst, state.DstWidth)
	}
	buf := make([]byte, 0, state.HeaderLen+len(p.Payload))
	buf = append(buf, strings.Repeat("0", state.DstWidth-len(p.Dst))...)
	buf = append(buf, p.Dst...)
	buf = append(buf, byte(p.Proto))
	buf = append(buf, p.Payload...)
	return buf, nil
}

// Decode parses a packet by fixed offsets. Leading zeros of the destination are stripped, so an
// all-zero destination decodes to the empty id.
func Decode(b []byte) (NetworkPacket, error) {
	if len(b) < state.HeaderLen {
		return NetworkPacket{}, fmt.Errorf("%w: %d bytes is shorter than the %d byte header", ErrMalformedPacket, len(b), state.HeaderLen)
	}
	proto := Proto(b[state.DstWidth])
	if proto != ProtoData && proto != ProtoControl {
		return NetworkPacket{}, fmt.Errorf("%w: unknown protocol field %q", ErrMalformedPacket, b[state.DstWidth])
	}
	dst := strings.TrimLeft(string(b[:state.DstWidth]), "0")
	payload := make([]byte, len(b)-state.HeaderLen)
	copy(payload, b[state.HeaderLen:])
	return NetworkPacket{
		Dst:     state.NodeId(dst),
		Proto:   proto,
		Payload: payload,
	}, nil
}
