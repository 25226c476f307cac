package report

import (
	"math"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/stats"
)

// Analysis groups the results produced for one experiment or command.
// Any of the results may be nil.
type Analysis struct {
	Experiment string
	Proportion *stats.ProportionResult
	Mean       *stats.MeanResult
	Power      *stats.PowerPlanResult
	Bootstrap  *stats.BootstrapResult
}

// Document is the rounded, JSON-ready form of an Analysis.
type Document struct {
	Experiment string            `json:"experiment,omitempty"`
	Proportion *ProportionRecord `json:"z_test,omitempty"`
	Mean       *MeanRecord       `json:"t_test,omitempty"`
	Power      *PowerRecord      `json:"power_analysis,omitempty"`
	Bootstrap  *BootstrapRecord  `json:"bootstrap,omitempty"`
}

// Number is a rounded value; nil encodes as JSON null for NaN and ±Inf.
type Number = *float64

// Range is a rounded [lower, upper] pair.
type Range [2]Number

type ProportionRecord struct {
	TestType           string `json:"test_type"`
	ControlSuccesses   int    `json:"control_conversions"`
	ControlTotal       int    `json:"control_total"`
	TreatmentSuccesses int    `json:"treatment_conversions"`
	TreatmentTotal     int    `json:"treatment_total"`
	ControlRate        Number `json:"control_rate"`
	TreatmentRate      Number `json:"treatment_rate"`
	LiftPercent        Number `json:"lift_percent"`
	LiftDefined        bool   `json:"lift_defined"`
	ZScore             Number `json:"z_score"`
	PValue             Number `json:"p_value"`
	Significant        bool   `json:"is_significant"`
	ConfidenceLevel    int    `json:"confidence_level"`
	ControlCI          Range  `json:"control_ci"`
	TreatmentCI        Range  `json:"treatment_ci"`
	ControlWilsonCI    Range  `json:"control_wilson_ci"`
	TreatmentWilsonCI  Range  `json:"treatment_wilson_ci"`
}

type MeanRecord struct {
	TestType         string `json:"test_type"`
	ControlN         int    `json:"control_n"`
	TreatmentN       int    `json:"treatment_n"`
	ControlMean      Number `json:"control_mean"`
	TreatmentMean    Number `json:"treatment_mean"`
	ControlStd       Number `json:"control_std"`
	TreatmentStd     Number `json:"treatment_std"`
	LiftPercent      Number `json:"lift_percent"`
	LiftDefined      bool   `json:"lift_defined"`
	TStatistic       Number `json:"t_statistic"`
	DegreesOfFreedom Number `json:"degrees_of_freedom"`
	PValue           Number `json:"p_value"`
	Significant      bool   `json:"is_significant"`
	CohensD          Number `json:"cohens_d"`
	EffectSize       string `json:"effect_size"`
	ConfidenceLevel  int    `json:"confidence_level"`
	ControlCI        Range  `json:"control_ci"`
	TreatmentCI      Range  `json:"treatment_ci"`
}

type PowerRecord struct {
	BaselineRate          Number  `json:"baseline_rate"`
	ExpectedTreatmentRate Number  `json:"expected_treatment_rate"`
	MDEPercent            Number  `json:"mde_percent"`
	Alpha                 float64 `json:"alpha"`
	Power                 float64 `json:"power"`
	SampleSizePerVariant  int     `json:"sample_size_per_variant"`
	TotalSampleSize       int     `json:"total_sample_size"`
}

type BootstrapRecord struct {
	Method               string `json:"method"`
	Iterations           int    `json:"n_iterations"`
	DegenerateIterations int    `json:"degenerate_iterations"`
	MedianLift           Number `json:"median_lift"`
	Lower                Number `json:"ci_95_lower"`
	Upper                Number `json:"ci_95_upper"`
	Significant          bool   `json:"is_significant"`
}

// NewDocument rounds every result in a for presentation.
func NewDocument(a *Analysis) *Document {
	doc := &Document{Experiment: a.Experiment}
	if a.Proportion != nil {
		doc.Proportion = newProportionRecord(a.Proportion)
	}
	if a.Mean != nil {
		doc.Mean = newMeanRecord(a.Mean)
	}
	if a.Power != nil {
		doc.Power = newPowerRecord(a.Power)
	}
	if a.Bootstrap != nil {
		doc.Bootstrap = newBootstrapRecord(a.Bootstrap)
	}
	return doc
}

func newProportionRecord(r *stats.ProportionResult) *ProportionRecord {
	return &ProportionRecord{
		TestType:           "z_test",
		ControlSuccesses:   r.Control.Successes,
		ControlTotal:       r.Control.Total,
		TreatmentSuccesses: r.Treatment.Successes,
		TreatmentTotal:     r.Treatment.Total,
		ControlRate:        round(r.Control.Rate*100, 2),
		TreatmentRate:      round(r.Treatment.Rate*100, 2),
		LiftPercent:        round(r.LiftPercent, 2),
		LiftDefined:        r.LiftDefined,
		ZScore:             round(r.ZScore, 4),
		PValue:             round(r.PValue, 4),
		Significant:        r.Significant,
		ConfidenceLevel:    percent(r.ConfidenceLevel),
		ControlCI:          roundRange(r.Control.CI, 100, 2),
		TreatmentCI:        roundRange(r.Treatment.CI, 100, 2),
		ControlWilsonCI:    roundRange(r.Control.WilsonCI, 100, 2),
		TreatmentWilsonCI:  roundRange(r.Treatment.WilsonCI, 100, 2),
	}
}

func newMeanRecord(r *stats.MeanResult) *MeanRecord {
	return &MeanRecord{
		TestType:         "t_test",
		ControlN:         r.Control.N,
		TreatmentN:       r.Treatment.N,
		ControlMean:      round(r.Control.Mean, 2),
		TreatmentMean:    round(r.Treatment.Mean, 2),
		ControlStd:       round(r.Control.StdDev, 2),
		TreatmentStd:     round(r.Treatment.StdDev, 2),
		LiftPercent:      round(r.LiftPercent, 2),
		LiftDefined:      r.LiftDefined,
		TStatistic:       round(r.TStatistic, 4),
		DegreesOfFreedom: round(r.DegreesOfFreedom, 2),
		PValue:           round(r.PValue, 4),
		Significant:      r.Significant,
		CohensD:          round(r.CohensD, 3),
		EffectSize:       string(r.EffectCategory),
		ConfidenceLevel:  percent(r.ConfidenceLevel),
		ControlCI:        roundRange(r.Control.CI, 1, 2),
		TreatmentCI:      roundRange(r.Treatment.CI, 1, 2),
	}
}

func newPowerRecord(r *stats.PowerPlanResult) *PowerRecord {
	return &PowerRecord{
		BaselineRate:          round(r.BaselineRate*100, 2),
		ExpectedTreatmentRate: round(r.ExpectedTreatmentRate*100, 2),
		MDEPercent:            round(r.MinimumDetectableEffect*100, 2),
		Alpha:                 r.SignificanceLevel,
		Power:                 r.DesiredPower,
		SampleSizePerVariant:  r.SampleSizePerArm,
		TotalSampleSize:       r.TotalSampleSize,
	}
}

func newBootstrapRecord(r *stats.BootstrapResult) *BootstrapRecord {
	return &BootstrapRecord{
		Method:               "bootstrap",
		Iterations:           r.Iterations,
		DegenerateIterations: r.DegenerateIterations,
		MedianLift:           round(r.MedianLift, 2),
		Lower:                round(r.Lower, 2),
		Upper:                round(r.Upper, 2),
		Significant:          r.Significant,
	}
}

// round returns v rounded half away from zero to places decimals, or nil
// when v is not finite.
func round(v float64, places int) Number {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	p := math.Pow10(places)
	r := math.Round(v*p) / p
	return &r
}

func roundRange(i stats.Interval, scale float64, places int) Range {
	return Range{round(i.Lower*scale, places), round(i.Upper*scale, places)}
}

func percent(level float64) int {
	return int(math.Round(level * 100))
}
