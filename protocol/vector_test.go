package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestControlPacket_RoundTrip(t *testing.T) {
	v := RouteVector{
		"RA": {"RA": 0, "RB": 1},
		"RB": {"RA": 1},
		"H1": {"RA": 3},
		"RC": {},
	}
	p, err := NewControlPacket(v)
	require.NoError(t, err)
	b, err := p.Encode()
	require.NoError(t, err)
	assert.Equal(t, "000002", string(b[:6]))

	out, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, ProtoControl, out.Proto)
	assert.Equal(t, ControlDst, out.Dst)

	decoded, err := DecodeVector(out.Payload)
	require.NoError(t, err)
	assert.Equal(t, v, decoded)
}

func TestEncodeVector_Deterministic(t *testing.T) {
	v := RouteVector{
		"RA": {"RA": 0, "RB": 1, "RC": 2},
		"RB": {"RA": 1, "RB": 0},
		"RC": {"RA": 2, "RB": 1},
	}
	a, err := EncodeVector(v)
	require.NoError(t, err)
	for range 10 {
		b, err := EncodeVector(v)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestDecodeVector_Malformed(t *testing.T) {
	_, err := DecodeVector([]byte{0xff, 0xff})
	assert.ErrorIs(t, err, ErrMalformedVector)

	notTable, err := proto.Marshal(&structpb.Struct{Fields: map[string]*structpb.Value{
		"RA": structpb.NewNumberValue(1),
	}})
	require.NoError(t, err)
	_, err = DecodeVector(notTable)
	assert.ErrorIs(t, err, ErrMalformedVector)

	for _, bad := range []*structpb.Value{
		structpb.NewNumberValue(-1),
		structpb.NewNumberValue(1.5),
		structpb.NewStringValue("1"),
	} {
		b, err := proto.Marshal(&structpb.Struct{Fields: map[string]*structpb.Value{
			"RA": structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{"RB": bad}}),
		}})
		require.NoError(t, err)
		_, err = DecodeVector(b)
		assert.ErrorIs(t, err, ErrMalformedVector)
	}
}
