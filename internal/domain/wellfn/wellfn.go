// Package wellfn evaluates the Theis well function W(u), the exponential
// integral E1(u).
package wellfn

import (
	"math"

	"github.com/okian/drawdown/internal/domain/model"
)

const (
	// EulerGamma is the Euler-Mascheroni constant.
	EulerGamma = 0.57721566490153286061

	maxIterations = 200
	epsilon       = 1e-16
	tiny          = 1e-300
	// seriesLimit switches from the power series to the continued fraction.
	seriesLimit = 1.0
)

// E1 returns the exponential integral E1(x) = ∫x^∞ e^-t/t dt.
//
// E1(0) is +Inf. Negative or NaN arguments return an ErrNonPositiveLogArgument
// error because the series takes ln(x).
func E1(x float64) (float64, error) {
	switch {
	case math.IsNaN(x) || x < 0:
		return math.NaN(), model.NonPositiveLog("u", -1, x)
	case x == 0:
		return math.Inf(1), nil
	case math.IsInf(x, 1):
		return 0, nil
	case x <= seriesLimit:
		return series(x), nil
	default:
		return continuedFraction(x), nil
	}
}

// W is the Theis well function.
func W(u float64) (float64, error) {
	return E1(u)
}

// series evaluates E1(x) = -γ - ln(x) - Σ (-x)^k / (k·k!).
func series(x float64) float64 {
	sum := -math.Log(x) - EulerGamma
	fact := 1.0
	for i := 1; i <= maxIterations; i++ {
		fact *= -x / float64(i)
		del := -fact / float64(i)
		sum += del
		if math.Abs(del) < math.Abs(sum)*epsilon {
			break
		}
	}
	return sum
}

// continuedFraction evaluates E1(x) with the modified Lentz method.
func continuedFraction(x float64) float64 {
	b := x + 1
	c := 1 / tiny
	d := 1 / b
	h := d
	for i := 1; i <= maxIterations; i++ {
		an := -float64(i * i)
		b += 2
		d = 1 / (an*d + b)
		c = b + an/c
		del := c * d
		h *= del
		if math.Abs(del-1) < epsilon {
			break
		}
	}
	return h * math.Exp(-x)
}
