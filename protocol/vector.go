package protocol

import (
	"errors"
	"fmt"
	"math"

	"github.com/encodeous/dvsim/state"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

var ErrMalformedVector = errors.New("malformed route vector")

// RouteVector is the advertised form of a routing table: destination -> reporting router -> cost
type RouteVector map[state.NodeId]map[state.NodeId]uint32

// ControlDst is the destination written on route advertisements. It encodes as all zeros.
const ControlDst = state.NodeId("")

// NewControlPacket wraps a route vector into a control packet
func NewControlPacket(v RouteVector) (NetworkPacket, error) {
	payload, err := EncodeVector(v)
	if err != nil {
		return NetworkPacket{}, err
	}
	return NetworkPacket{Dst: ControlDst, Proto: ProtoControl, Payload: payload}, nil
}

// EncodeVector serializes the vector as a google.protobuf.Struct of Structs. Marshalling is deterministic
// so equal vectors produce equal payloads.
func EncodeVector(v RouteVector) ([]byte, error) {
	fields := make(map[string]*structpb.Value, len(v))
	for dst, costs := range v {
		inner := make(map[string]*structpb.Value, len(costs))
		for via, cost := range costs {
			inner[string(via)] = structpb.NewNumberValue(float64(cost))
		}
		fields[string(dst)] = structpb.NewStructValue(&structpb.Struct{Fields: inner})
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(&structpb.Struct{Fields: fields})
}

func DecodeVector(b []byte) (RouteVector, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedVector, err)
	}
	v := make(RouteVector, len(s.GetFields()))
	for dst, val := range s.GetFields() {
		inner := val.GetStructValue()
		if inner == nil {
			return nil, fmt.Errorf("%w: entry %q is not a table", ErrMalformedVector, dst)
		}
		costs := make(map[state.NodeId]uint32, len(inner.GetFields()))
		for via, c := range inner.GetFields() {
			num, ok := c.GetKind().(*structpb.Value_NumberValue)
			if !ok {
				return nil, fmt.Errorf("%w: cost %q/%q is not a number", ErrMalformedVector, dst, via)
			}
			n := num.NumberValue
			if n < 0 || n > math.MaxUint32 || n != math.Trunc(n) {
				return nil, fmt.Errorf("%w: cost %q/%q = %v is out of range", ErrMalformedVector, dst, via, n)
			}
			costs[state.NodeId(via)] = uint32(n)
		}
		v[state.NodeId(dst)] = costs
	}
	return v, nil
}
