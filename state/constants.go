package state

import "time"

const (
	// DstWidth is the width of the zero-padded destination field on the wire
	DstWidth = 5
	// ProtoWidth is the width of the protocol discriminator
	ProtoWidth = 1
	// HeaderLen is the fixed header length that precedes the payload
	HeaderLen = DstWidth + ProtoWidth
)

var (
	// CostCeiling is the "no route" sentinel used when picking the best reporter.
	CostCeiling = uint32(100)
	// IdlePollDelay is how long a node sleeps after an iteration that found no packets.
	IdlePollDelay = time.Millisecond
	// LinkPollDelay is the idle delay of the link pumps.
	LinkPollDelay = time.Millisecond
	// DropLogTTL suppresses repeated unreachable warnings for the same destination.
	DropLogTTL = time.Second * 2
	// DefaultRunDuration is used when the config does not specify one.
	DefaultRunDuration = time.Second * 2
)

var (
	// DBG_debug serves expvar, /debug/metrics and pprof on DebugAddr
	DBG_debug = false
	DebugAddr = "127.0.0.1:6060"
	// DBG_trace writes a runtime trace to trace.out for the length of the run
	DBG_trace = false
)
