package stats

import "math"

// EffectCategory buckets Cohen's d using Cohen's conventions.
type EffectCategory string

const (
	EffectNegligible EffectCategory = "negligible"
	EffectSmall      EffectCategory = "small"
	EffectMedium     EffectCategory = "medium"
	EffectLarge      EffectCategory = "large"
)

// CategorizeEffect returns the category for a Cohen's d value.
func CategorizeEffect(d float64) EffectCategory {
	switch d = math.Abs(d); {
	case d < 0.2:
		return EffectNegligible
	case d < 0.5:
		return EffectSmall
	case d < 0.8:
		return EffectMedium
	default:
		return EffectLarge
	}
}

// ArmMean contains statistics for a single arm of a mean test.
type ArmMean struct {
	N      int      `json:"n"`
	Mean   float64  `json:"mean"`
	StdDev float64  `json:"std"`
	CI     Interval `json:"ci"`
}

// MeanResult is the outcome of a Welch two-sample t-test.
type MeanResult struct {
	Control          ArmMean        `json:"control"`
	Treatment        ArmMean        `json:"treatment"`
	LiftPercent      float64        `json:"lift_percent"`
	LiftDefined      bool           `json:"lift_defined"` // false when the control mean is zero
	TStatistic       float64        `json:"t_statistic"`
	DegreesOfFreedom float64        `json:"degrees_of_freedom"`
	PValue           float64        `json:"p_value"`
	Significant      bool           `json:"is_significant"`
	CohensD          float64        `json:"cohens_d"`
	EffectCategory   EffectCategory `json:"effect_category"`
	ConfidenceLevel  float64        `json:"confidence_level"`
}

// MeanTest performs Welch's t-test of the treatment mean against the control mean.
// Each arm needs at least two finite observations.
func MeanTest(control, treatment []float64) (*MeanResult, error) {
	if len(control) < 2 {
		return nil, invalidSample("control needs at least 2 observations, got %d", len(control))
	}
	if len(treatment) < 2 {
		return nil, invalidSample("treatment needs at least 2 observations, got %d", len(treatment))
	}
	if err := checkFinite("control", control); err != nil {
		return nil, err
	}
	if err := checkFinite("treatment", treatment); err != nil {
		return nil, err
	}

	c := Describe(control)
	t := Describe(treatment)

	tStat, df, pValue := welch(c, t)

	d := 0.0
	if pooled := PooledStdDev(c, t); pooled > 0 {
		d = (t.Mean - c.Mean) / pooled
	}

	lift, defined := Lift(c.Mean, t.Mean)

	return &MeanResult{
		Control:          armMean(c),
		Treatment:        armMean(t),
		LiftPercent:      lift,
		LiftDefined:      defined,
		TStatistic:       tStat,
		DegreesOfFreedom: df,
		PValue:           pValue,
		Significant:      pValue < SignificanceThreshold,
		CohensD:          d,
		EffectCategory:   CategorizeEffect(d),
		ConfidenceLevel:  ConfidenceLevel,
	}, nil
}

// welch returns the t statistic, Welch-Satterthwaite degrees of freedom and
// two-tailed p-value for treatment minus control.
func welch(c, t Summary) (tStat, df, pValue float64) {
	nC, nT := float64(c.N), float64(t.N)
	vC, vT := c.Variance/nC, t.Variance/nT

	se := math.Sqrt(vC + vT)
	if se == 0 {
		// Both arms are constant; the statistic degenerates.
		df = nC + nT - 2
		switch {
		case t.Mean == c.Mean:
			return 0, df, 1
		case t.Mean > c.Mean:
			return math.Inf(1), df, 0
		default:
			return math.Inf(-1), df, 0
		}
	}

	tStat = (t.Mean - c.Mean) / se
	df = (vC + vT) * (vC + vT) / (vC*vC/(nC-1) + vT*vT/(nT-1))
	return tStat, df, twoTailedT(tStat, df)
}

// armMean builds the Student-t interval around one arm's mean.
func armMean(s Summary) ArmMean {
	q := StudentTQuantile(1-(1-ConfidenceLevel)/2, float64(s.N-1))
	return ArmMean{
		N:      s.N,
		Mean:   s.Mean,
		StdDev: s.StdDev,
		CI:     symmetric(s.Mean, q*s.StandardError()),
	}
}
