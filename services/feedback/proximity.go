package feedback

import (
	"sensewear-go/types"
	"sensewear-go/x/mathx"
)

// ProximityBand buckets a distance reading.
type ProximityBand uint8

const (
	BandFar ProximityBand = iota
	BandNear
	BandImmediate
)

var bandNames = [...]string{"far", "near", "immediate"}

func (b ProximityBand) String() string {
	if int(b) >= len(bandNames) {
		return bandNames[0]
	}
	return bandNames[b]
}

// Band limits and cadence range, in millimetres and milliseconds. The beep
// gap shrinks linearly as the obstacle closes in; inside MinRangeMM the tone
// goes solid.
const (
	FarMM       = 1500
	ImmediateMM = 300
	MinRangeMM  = 50

	MaxPeriodMs = 1250
	MinPeriodMs = 70
)

// Evaluate buckets one distance reading and derives the beep pattern for it.
// A missing echo reads as open space, not as an obstacle.
func Evaluate(distMM int32) (ProximityBand, types.BuzzerValue) {
	if distMM <= 0 || distMM > FarMM {
		return BandFar, types.BuzzerValue{PeriodMs: MaxPeriodMs}
	}
	if distMM < MinRangeMM {
		return BandImmediate, types.BuzzerValue{Continuous: true}
	}
	period := mathx.MapI32(distMM, MinRangeMM, FarMM, MinPeriodMs, MaxPeriodMs)
	v := types.BuzzerValue{PeriodMs: uint32(period)}
	if distMM < ImmediateMM {
		return BandImmediate, v
	}
	return BandNear, v
}
