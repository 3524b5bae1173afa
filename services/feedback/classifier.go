package feedback

import "sensewear-go/types"

// ColorLabel is the vocabulary the unit can announce.
type ColorLabel uint8

const (
	Unknown ColorLabel = iota
	Red
	Orange
	Yellow
	Green
	Blue
	Indigo
	Violet
	White
)

var labelNames = [...]string{
	"unknown", "red", "orange", "yellow", "green", "blue", "indigo", "violet", "white",
}

func (l ColorLabel) String() string {
	if int(l) >= len(labelNames) {
		return labelNames[0]
	}
	return labelNames[l]
}

// Classification thresholds. Calibrated against a TCS34725 at 24 ms / 4x
// gain; re-tune per sensor batch.
const (
	// Samples darker than this clear count carry no usable chroma.
	clearFloor = 50

	// Largest squared distance still accepted as a match.
	fitCeiling = 80000

	// The best match must beat the runner-up by this ratio (best/runner
	// <= marginNum/marginDen) or the sample is ambiguous.
	marginNum = 4
	marginDen = 5
)

// normSum is what each reference and sample is scaled to. Components are
// divided by their own sum, so brightness cancels and only chroma remains.
const normSum = 765 // 3 * 255

// Reference chromas, already sum-normalised. Derived from the classic RGB
// wheel values (red 255/0/0, orange 255/165/0, ...).
var refColors = [...]struct {
	label   ColorLabel
	r, g, b int32
}{
	{Red, 765, 0, 0},
	{Orange, 464, 300, 0},
	{Yellow, 382, 382, 0},
	{Green, 0, 765, 0},
	{Blue, 0, 0, 765},
	{Indigo, 280, 0, 485},
	{Violet, 300, 164, 300},
	{White, 255, 255, 255},
}

// Classify maps one raw RGBC sample to a label, or Unknown when the sample
// is too dark, too far from every reference, or ambiguous between two.
func Classify(raw types.RawColor) ColorLabel {
	if raw.Clear < clearFloor {
		return Unknown
	}
	sum := int32(raw.R) + int32(raw.G) + int32(raw.B)
	if sum == 0 {
		return Unknown
	}
	nr := int32(raw.R) * normSum / sum
	ng := int32(raw.G) * normSum / sum
	nb := int32(raw.B) * normSum / sum

	best := int32(1) << 30
	runner := int32(1) << 30
	bestLabel := Unknown
	for _, ref := range refColors {
		dr := nr - ref.r
		dg := ng - ref.g
		db := nb - ref.b
		d := dr*dr + dg*dg + db*db
		if d < best {
			runner = best
			best = d
			bestLabel = ref.label
		} else if d < runner {
			runner = d
		}
	}

	if best > fitCeiling {
		return Unknown
	}
	if best*marginDen > runner*marginNum {
		return Unknown
	}
	return bestLabel
}
