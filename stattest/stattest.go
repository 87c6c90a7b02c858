// Package stattest implements the hypothesis tests of ISO 17123-9 §8.4 and the distribution
// quantiles they rely on.
package stattest

import (
	"math"

	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat/distuv"
)

// NormalQuantile returns Φ⁻¹(p) of the standard normal distribution.
func NormalQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}

// TwoSidedZ returns the two-sided z-quantile Φ⁻¹(1 - alpha/2) at confidence level 1 - alpha.
func TwoSidedZ(alpha float64) float64 {
	return NormalQuantile(1 - alpha/2)
}

// ChiSquaredQuantile returns χ²_p(v).
func ChiSquaredQuantile(p float64, v int) float64 {
	return distuv.ChiSquared{K: float64(v)}.Quantile(p)
}

// FQuantile returns F_p(v1, v2), the p-quantile of the Fisher distribution.
//
// If X ~ F(v1, v2) then v1·X / (v1·X + v2) ~ Beta(v1/2, v2/2), so the quantile follows from the
// inverse of the regularized incomplete beta function.
func FQuantile(p float64, v1, v2 int) float64 {
	d1, d2 := float64(v1), float64(v2)
	x := mathext.InvRegIncBeta(d1/2, d2/2, p)
	return d2 * x / (d1 * (1 - x))
}

// ChiSquared answers question a of ISO 17123-9 §8.4.2: whether an experimental standard
// deviation sHat0 (with v degrees of freedom) is consistent with the hypothesised sigma0 at
// significance level alpha. It returns true when no significant deviation is detected, i.e.
//
//	sHat0/√2 ≤ sigma0·√(χ²_{1-α}(v)/v)
func ChiSquared(sHat0, sigma0, alpha float64, v int) bool {
	x2 := ChiSquaredQuantile(1-alpha, v)
	return sHat0/math.Sqrt2 <= sigma0*math.Sqrt(x2/float64(v))
}

// FTest answers question b of ISO 17123-9 §8.4.3: whether two experimental standard deviations
// s1 and s2, with v1 and v2 degrees of freedom, belong to the same population. It returns true
// when the variance ratio s1²/s2² lies within [1/F_{1-α/2}(v1,v2), F_{1-α/2}(v1,v2)].
func FTest(s1, s2, alpha float64, v1, v2 int) bool {
	upper := FQuantile(1-alpha/2, v1, v2)
	lower := 1 / upper
	ratio := (s1 * s1) / (s2 * s2)
	return lower <= ratio && ratio <= upper
}
