package model

// UnitPerMM is the number of native HWPUNIT per millimeter. One HWPUNIT is
// 1/7200 inch, so the conversion is exact as a rational: 7200/25.4 per mm.
// All unit conversion in the library goes through ToMM/FromMM; nothing else
// hardcodes a decimal approximation of this constant.
const UnitPerMM = 7200.0 / 25.4

// ToMM converts a native-unit distance to millimeters.
func ToMM(v int32) float64 {
	return float64(v) / UnitPerMM
}

// FromMM converts a millimeter distance back to native units. The result is
// fractional; callers needing an integer unit value round it themselves.
func FromMM(mm float64) float64 {
	return mm * UnitPerMM
}
