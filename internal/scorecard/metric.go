package scorecard

import (
	"math"
	"strconv"
)

// Metric is an aggregate value that may be undefined. Aggregates over
// empty windows and ratios with zero or undefined denominators are
// undefined, which is distinct from zero activity: an account with no
// balance rows inside M4 has an undefined MIN_BAL_M4, while an account
// with thirty zero-balance days has a defined minimum of 0.
//
// Undefined is expected and recoverable; it propagates through
// arithmetic instead of coercing to 0 or NaN.
type Metric struct {
	value   float64
	defined bool
}

// Def returns a defined metric holding v.
func Def(v float64) Metric {
	return Metric{value: v, defined: true}
}

// Undef returns the undefined metric.
func Undef() Metric {
	return Metric{}
}

// Defined reports whether the metric holds a value.
func (m Metric) Defined() bool {
	return m.defined
}

// Value returns the held value and whether it is defined.
func (m Metric) Value() (float64, bool) {
	return m.value, m.defined
}

// Or returns the held value, or fallback when undefined.
func (m Metric) Or(fallback float64) float64 {
	if !m.defined {
		return fallback
	}
	return m.value
}

// String renders the metric for report output; undefined renders empty.
func (m Metric) String() string {
	if !m.defined {
		return ""
	}
	return strconv.FormatFloat(m.value, 'f', -1, 64)
}

// Add sums metrics with strict lifting: any undefined operand makes
// the sum undefined.
func Add(ms ...Metric) Metric {
	total := 0.0
	for _, m := range ms {
		if !m.defined {
			return Undef()
		}
		total += m.value
	}
	return Def(total)
}

// Mul multiplies two metrics with strict lifting.
func Mul(a, b Metric) Metric {
	if !a.defined || !b.defined {
		return Undef()
	}
	return Def(a.value * b.value)
}

// Sub subtracts b from a with strict lifting.
func Sub(a, b Metric) Metric {
	if !a.defined || !b.defined {
		return Undef()
	}
	return Def(a.value - b.value)
}

// Div divides num by den. The result is undefined when either operand
// is undefined or the denominator is zero; division never yields an
// error, an infinity, or a silently substituted zero.
func Div(num, den Metric) Metric {
	if !num.defined || !den.defined || den.value == 0 {
		return Undef()
	}
	return Def(num.value / den.value)
}

// Scale multiplies a metric by a plain factor.
func (m Metric) Scale(factor float64) Metric {
	if !m.defined {
		return Undef()
	}
	return Def(m.value * factor)
}

// MaxOf returns the maximum of the defined operands, skipping
// undefined ones; it is undefined only when every operand is.
func MaxOf(ms ...Metric) Metric {
	out := Undef()
	for _, m := range ms {
		if !m.defined {
			continue
		}
		if !out.defined || m.value > out.value {
			out = m
		}
	}
	return out
}

// MinOf returns the minimum of the defined operands, skipping
// undefined ones; it is undefined only when every operand is.
func MinOf(ms ...Metric) Metric {
	out := Undef()
	for _, m := range ms {
		if !m.defined {
			continue
		}
		if !out.defined || m.value < out.value {
			out = m
		}
	}
	return out
}

// SampleStd returns the sample standard deviation of vs, undefined for
// fewer than two observations.
func SampleStd(vs ...float64) Metric {
	n := len(vs)
	if n < 2 {
		return Undef()
	}
	mean := 0.0
	for _, v := range vs {
		mean += v
	}
	mean /= float64(n)

	ss := 0.0
	for _, v := range vs {
		d := v - mean
		ss += d * d
	}
	return Def(math.Sqrt(ss / float64(n-1)))
}
