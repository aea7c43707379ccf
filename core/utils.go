package core

import (
	"math"
)

// AddCost adds two link costs, saturating instead of wrapping around
func AddCost(a, b uint32) uint32 {
	return uint32(min(uint64(math.MaxUint32), uint64(a)+uint64(b)))
}
