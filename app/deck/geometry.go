package deck

import "math"

// EMUPerInch is the OOXML length scale. Drawing code converts every
// dimension through ToEMU or Inches.
const EMUPerInch = 914400

// ToEMU converts inches to EMU. A nil dimension is treated as zero.
func ToEMU(inches *float64) int64 {
	if inches == nil {
		return 0
	}
	return int64(math.Round(*inches * EMUPerInch))
}

// Inches is ToEMU for a known value.
func Inches(v float64) int64 {
	return ToEMU(&v)
}

// ToInches converts EMU back to inches. A nil length is treated as zero.
func ToInches(emu *int64) float64 {
	if emu == nil {
		return 0
	}
	return float64(*emu) / EMUPerInch
}
