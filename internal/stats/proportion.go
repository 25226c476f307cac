package stats

import "math"

// ProportionSample is a binomial outcome count for one arm.
type ProportionSample struct {
	Successes int `json:"successes"`
	Total     int `json:"total"`
}

// Validate checks 0 <= Successes <= Total and Total > 0.
func (p ProportionSample) Validate() error {
	if p.Total <= 0 {
		return invalidSample("total must be positive, got %d", p.Total)
	}
	if p.Successes < 0 {
		return invalidSample("successes must be non-negative, got %d", p.Successes)
	}
	if p.Successes > p.Total {
		return invalidSample("successes (%d) exceed total (%d)", p.Successes, p.Total)
	}
	return nil
}

// Rate returns Successes / Total.
func (p ProportionSample) Rate() float64 {
	return float64(p.Successes) / float64(p.Total)
}

// ArmRate contains statistics for a single arm of a proportion test.
type ArmRate struct {
	Successes int      `json:"successes"`
	Total     int      `json:"total"`
	Rate      float64  `json:"rate"`
	CI        Interval `json:"ci"`
	WilsonCI  Interval `json:"wilson_ci"`
}

// ProportionResult is the outcome of a two-proportion z-test.
type ProportionResult struct {
	Control         ArmRate `json:"control"`
	Treatment       ArmRate `json:"treatment"`
	LiftPercent     float64 `json:"lift_percent"`
	LiftDefined     bool    `json:"lift_defined"` // false when the control rate is zero
	ZScore          float64 `json:"z_score"`
	PValue          float64 `json:"p_value"`
	Significant     bool    `json:"is_significant"`
	ConfidenceLevel float64 `json:"confidence_level"`
}

// ProportionTest performs a two-proportion z-test of treatment against control.
func ProportionTest(control, treatment ProportionSample) (*ProportionResult, error) {
	if err := control.Validate(); err != nil {
		return nil, err
	}
	if err := treatment.Validate(); err != nil {
		return nil, err
	}

	pC := control.Rate()
	pT := treatment.Rate()

	// Pooled proportion under null hypothesis (pC = pT)
	pooled := float64(control.Successes+treatment.Successes) / float64(control.Total+treatment.Total)

	// Standard error of the difference
	se := math.Sqrt(pooled * (1 - pooled) * (1/float64(control.Total) + 1/float64(treatment.Total)))

	// A pooled rate of 0 or 1 means both arms are identical.
	z, pValue := 0.0, 1.0
	if se > 0 {
		z = (pT - pC) / se
		pValue = twoTailedNormal(z)
	}

	lift, defined := Lift(pC, pT)

	return &ProportionResult{
		Control:         armRate(control, pC),
		Treatment:       armRate(treatment, pT),
		LiftPercent:     lift,
		LiftDefined:     defined,
		ZScore:          z,
		PValue:          pValue,
		Significant:     pValue < SignificanceThreshold,
		ConfidenceLevel: ConfidenceLevel,
	}, nil
}

// armRate builds the normal-approximation and Wilson intervals for one arm.
func armRate(s ProportionSample, rate float64) ArmRate {
	half := ZScore(ConfidenceLevel) * math.Sqrt(rate*(1-rate)/float64(s.Total))
	return ArmRate{
		Successes: s.Successes,
		Total:     s.Total,
		Rate:      rate,
		CI:        symmetric(rate, half),
		WilsonCI:  WilsonInterval(s.Successes, s.Total, ConfidenceLevel),
	}
}
