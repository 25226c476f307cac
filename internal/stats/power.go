package stats

import "math"

const (
	// DefaultSignificanceLevel is the alpha used when a plan leaves it unset.
	DefaultSignificanceLevel = 0.05

	// DefaultPower is the desired power used when a plan leaves it unset.
	DefaultPower = 0.80

	// maxSampleSize keeps TotalSampleSize representable as an int.
	maxSampleSize = math.MaxInt / 2
)

// PowerPlanRequest describes a planned two-proportion experiment.
// MinimumDetectableEffect is relative: 0.08 means an 8% lift over BaselineRate.
type PowerPlanRequest struct {
	BaselineRate            float64 `json:"baseline_rate"`
	MinimumDetectableEffect float64 `json:"minimum_detectable_effect"`
	SignificanceLevel       float64 `json:"significance_level"`
	DesiredPower            float64 `json:"desired_power"`
}

// WithDefaults fills an unset SignificanceLevel or DesiredPower.
func (r PowerPlanRequest) WithDefaults() PowerPlanRequest {
	if r.SignificanceLevel == 0 {
		r.SignificanceLevel = DefaultSignificanceLevel
	}
	if r.DesiredPower == 0 {
		r.DesiredPower = DefaultPower
	}
	return r
}

// ExpectedTreatmentRate returns BaselineRate * (1 + MinimumDetectableEffect).
func (r PowerPlanRequest) ExpectedTreatmentRate() float64 {
	return r.BaselineRate * (1 + r.MinimumDetectableEffect)
}

// Validate checks every probability lies in (0, 1) and the effect is detectable.
func (r PowerPlanRequest) Validate() error {
	if !openUnit(r.BaselineRate) {
		return invalidConfiguration("baseline rate must be in (0, 1), got %v", r.BaselineRate)
	}
	if !openUnit(r.SignificanceLevel) {
		return invalidConfiguration("significance level must be in (0, 1), got %v", r.SignificanceLevel)
	}
	if !openUnit(r.DesiredPower) {
		return invalidConfiguration("desired power must be in (0, 1), got %v", r.DesiredPower)
	}
	treatment := r.ExpectedTreatmentRate()
	if math.IsNaN(treatment) || treatment == r.BaselineRate {
		return invalidConfiguration("minimum detectable effect %v leaves the treatment rate equal to the baseline", r.MinimumDetectableEffect)
	}
	if !openUnit(treatment) {
		return invalidConfiguration("minimum detectable effect %v puts the treatment rate at %v, outside (0, 1)", r.MinimumDetectableEffect, treatment)
	}
	return nil
}

// PowerPlanResult is the required sample size for a planned experiment.
type PowerPlanResult struct {
	BaselineRate            float64 `json:"baseline_rate"`
	ExpectedTreatmentRate   float64 `json:"expected_treatment_rate"`
	MinimumDetectableEffect float64 `json:"minimum_detectable_effect"`
	SignificanceLevel       float64 `json:"significance_level"`
	DesiredPower            float64 `json:"desired_power"`
	SampleSizePerArm        int     `json:"sample_size_per_arm"`
	TotalSampleSize         int     `json:"total_sample_size"`
}

// PowerPlan returns the minimum per-arm sample size for a two-sided
// two-proportion z-test to detect the request's effect.
func PowerPlan(req PowerPlanRequest) (*PowerPlanResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	baseline := req.BaselineRate
	treatment := req.ExpectedTreatmentRate()

	zAlpha := NormalQuantile(1 - req.SignificanceLevel/2)
	zBeta := NormalQuantile(req.DesiredPower)

	pooled := (baseline + treatment) / 2

	numerator := zAlpha*math.Sqrt(2*pooled*(1-pooled)) +
		zBeta*math.Sqrt(baseline*(1-baseline)+treatment*(1-treatment))
	delta := treatment - baseline

	size := math.Ceil(numerator * numerator / (delta * delta))
	if math.IsNaN(size) || size > maxSampleSize {
		return nil, invalidConfiguration("minimum detectable effect %v needs more than %d units per arm", req.MinimumDetectableEffect, maxSampleSize)
	}
	n := max(int(size), 1)

	return &PowerPlanResult{
		BaselineRate:            baseline,
		ExpectedTreatmentRate:   treatment,
		MinimumDetectableEffect: req.MinimumDetectableEffect,
		SignificanceLevel:       req.SignificanceLevel,
		DesiredPower:            req.DesiredPower,
		SampleSizePerArm:        n,
		TotalSampleSize:         2 * n,
	}, nil
}
