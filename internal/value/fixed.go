package value

import (
	"math/big"
	"strings"
)

// Fixed is an arbitrary-precision decimal: a signed integer mantissa plus
// a scale (the count of digits to the right of the decimal point). Two
// Fixed values are combined by aligning their scales to the larger of the
// two before the integer operation.
type Fixed struct {
	Sign     bool // true if negative
	Mantissa *big.Int
	Scale    int // number of fractional digits
}

// ParseFixed decodes a decimal-exact literal such as "123.456" or "-0.5"
// into a Fixed, preserving every digit (no float64 round-trip), since the
// 'd' suffix requires decimal-exact preservation.
func ParseFixed(raw string) Fixed {
	neg := false
	s := raw
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}

	intPart, fracPart, hasDot := strings.Cut(s, ".")
	digits := intPart + fracPart
	if digits == "" {
		digits = "0"
	}
	m := new(big.Int)
	m.SetString(digits, 10)
	scale := 0
	if hasDot {
		scale = len(fracPart)
	}
	return Fixed{Sign: neg, Mantissa: m, Scale: scale}
}

func FixedFromInt(v int64) Fixed {
	neg := v < 0
	m := big.NewInt(v)
	m.Abs(m)
	return Fixed{Sign: neg, Mantissa: m, Scale: 0}
}

func (f Fixed) signedMantissa() *big.Int {
	m := new(big.Int).Set(f.Mantissa)
	if f.Sign {
		m.Neg(m)
	}
	return m
}

// align returns a and b rescaled to a common scale (the larger of the two).
func align(a, b Fixed) (*big.Int, *big.Int, int) {
	scale := a.Scale
	if b.Scale > scale {
		scale = b.Scale
	}
	am := a.signedMantissa()
	bm := b.signedMantissa()
	if d := scale - a.Scale; d > 0 {
		am.Mul(am, pow10(d))
	}
	if d := scale - b.Scale; d > 0 {
		bm.Mul(bm, pow10(d))
	}
	return am, bm, scale
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

func fromSigned(m *big.Int, scale int) Fixed {
	neg := m.Sign() < 0
	mag := new(big.Int).Abs(m)
	return Fixed{Sign: neg, Mantissa: mag, Scale: scale}
}

func (f Fixed) Add(other Fixed) Fixed {
	am, bm, scale := align(f, other)
	return fromSigned(new(big.Int).Add(am, bm), scale)
}

func (f Fixed) Sub(other Fixed) Fixed {
	am, bm, scale := align(f, other)
	return fromSigned(new(big.Int).Sub(am, bm), scale)
}

func (f Fixed) Mul(other Fixed) Fixed {
	m := new(big.Int).Mul(f.signedMantissa(), other.signedMantissa())
	return fromSigned(m, f.Scale+other.Scale)
}

// Div performs decimal division, extending the result to a fixed extra
// precision.
const divScaleExtra = 12

func (f Fixed) Div(other Fixed) (Fixed, bool) {
	if other.Mantissa.Sign() == 0 {
		return Fixed{}, false
	}
	scale := f.Scale + divScaleExtra
	num := new(big.Int).Mul(f.signedMantissa(), pow10(scale-f.Scale+other.Scale))
	q := new(big.Int).Quo(num, other.signedMantissa())
	return fromSigned(q, scale), true
}

func (f Fixed) Cmp(other Fixed) int {
	am, bm, _ := align(f, other)
	return am.Cmp(bm)
}

func (f Fixed) Float64() float64 {
	num := new(big.Float).SetInt(f.signedMantissa())
	den := new(big.Float).SetInt(pow10(f.Scale))
	res := new(big.Float).Quo(num, den)
	v, _ := res.Float64()
	return v
}

func (f Fixed) String() string {
	digits := f.Mantissa.String()
	sign := ""
	if f.Sign {
		sign = "-"
	}
	if f.Scale == 0 {
		return sign + digits
	}
	for len(digits) <= f.Scale {
		digits = "0" + digits
	}
	cut := len(digits) - f.Scale
	return sign + digits[:cut] + "." + digits[cut:]
}
