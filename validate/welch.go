package validate

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/calbench/calbench/hist"
)

// Alt is the alternative hypothesis for a Welch test on the difference
// of mean log latencies (target minus baseline).
type Alt int

const (
	AltNotEqual Alt = iota
	AltLess
	AltGreater
)

// Comp compares two completed latency histograms. Inference runs on the
// natural logarithms of the latencies: latency distributions are
// approximately log-normal, so the difference of mean logs estimates the
// log of the ratio of medians.
type Comp struct {
	base, target *hist.Recorder
}

func NewComp(base, target *hist.Recorder) Comp {
	return Comp{base: base, target: target}
}

// RatioMedians is median(target) / median(base), from the histograms.
// NaN when either median is undefined.
func (c Comp) RatioMedians() float64 {
	bm, tm := c.base.Median(), c.target.Median()
	if bm == hist.Undefined || tm == hist.Undefined || bm == 0 {
		return math.NaN()
	}
	return float64(tm) / float64(bm)
}

// MeanDiffLn is mean(ln target) - mean(ln base).
func (c Comp) MeanDiffLn() float64 {
	return c.targetMoments().mean - c.baseMoments().mean
}

// RatioMediansFromLns estimates the ratio of medians as exp of
// MeanDiffLn, valid under the log-normal assumption.
func (c Comp) RatioMediansFromLns() float64 {
	return math.Exp(c.MeanDiffLn())
}

// WelchT is Welch's t statistic for the difference of mean log
// latencies.
func (c Comp) WelchT() float64 {
	b, t := c.baseMoments(), c.targetMoments()
	return (t.mean - b.mean) / math.Sqrt(t.varOverN()+b.varOverN())
}

// WelchDF is the Welch-Satterthwaite degrees of freedom.
func (c Comp) WelchDF() float64 {
	b, t := c.baseMoments(), c.targetMoments()
	bv, tv := b.varOverN(), t.varOverN()
	return (bv + tv) * (bv + tv) / (bv*bv/(b.n-1) + tv*tv/(t.n-1))
}

// WelchRatioCI is the (1-alpha) confidence interval for
// median(target)/median(base) under the log-normal assumption: the Welch
// interval for the mean log difference, exponentiated.
func (c Comp) WelchRatioCI(alpha float64) (lo, hi float64) {
	b, t := c.baseMoments(), c.targetMoments()
	diff := t.mean - b.mean
	se := math.Sqrt(t.varOverN() + b.varOverN())
	tq := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: c.WelchDF()}.Quantile(1 - alpha/2)
	return math.Exp(diff - tq*se), math.Exp(diff + tq*se)
}

// WelchTest tests the hypothesis median(target) == median(base) against
// alt at confidence level 1-alpha. Returns whether the null is rejected
// and the p-value.
func (c Comp) WelchTest(alt Alt, alpha float64) (reject bool, p float64) {
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: c.WelchDF()}
	t := c.WelchT()
	switch alt {
	case AltLess:
		p = dist.CDF(t)
	case AltGreater:
		p = 1 - dist.CDF(t)
	default:
		p = 2 * (1 - dist.CDF(math.Abs(t)))
	}
	return p < alpha, p
}

type moments struct {
	n    float64
	mean float64
	vari float64
}

func (m moments) varOverN() float64 {
	return m.vari / m.n
}

func (c Comp) baseMoments() moments {
	return logMoments(c.base)
}

func (c Comp) targetMoments() moments {
	return logMoments(c.target)
}

func logMoments(r *hist.Recorder) moments {
	n, sum, sum2 := r.LogMoments()
	if n < 2 {
		return moments{n: n, mean: math.NaN(), vari: math.NaN()}
	}
	mean := sum / n
	return moments{
		n:    n,
		mean: mean,
		vari: (sum2 - n*mean*mean) / (n - 1),
	}
}
