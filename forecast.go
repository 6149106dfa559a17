package worth

import (
	"fmt"
	"math"
	"time"
)

// maxMilestones bounds the projected milestone list.
const maxMilestones = 30

// defaultResampleCount is the uniform sample count used for forecast series.
const defaultResampleCount = 64

// LinearRegression is an ordinary least-squares fit of market value against
// elapsed seconds since Origin.
type LinearRegression struct {
	Origin           time.Time
	Slope, Intercept float64 // value = Intercept + Slope * seconds
}

// At evaluates the fitted line at a point in time.
func (lr *LinearRegression) At(t time.Time) float64 {
	return lr.Intercept + lr.Slope*t.Sub(lr.Origin).Seconds()
}

// TimeOf inverts the fitted line, returning when the projected value reaches
// v. Undefined for a flat or falling line.
func (lr *LinearRegression) TimeOf(v float64) (time.Time, bool) {
	if lr.Slope <= 0 {
		return time.Time{}, false
	}
	seconds := (v - lr.Intercept) / lr.Slope
	return lr.Origin.Add(time.Duration(seconds * float64(time.Second))), true
}

// PerDay is the fitted value change per day.
func (lr *LinearRegression) PerDay() float64 { return lr.Slope * 24 * 3600 }

// PerYear is the fitted value change per 365.25-day year.
func (lr *LinearRegression) PerYear() float64 { return lr.PerDay() * 365.25 }

// fitRegression runs OLS on the points; it requires at least two distinct
// observations.
func fitRegression(points []TimePoint) *LinearRegression {
	if len(points) < 2 {
		return nil
	}
	origin := points[0].At
	var sumX, sumY, sumXX, sumXY float64
	for _, p := range points {
		x := p.At.Sub(origin).Seconds()
		sumX += x
		sumY += p.Value
		sumXX += x * x
		sumXY += x * p.Value
	}
	n := float64(len(points))
	det := n*sumXX - sumX*sumX
	if det == 0 {
		return nil // all observations at the same instant
	}
	slope := (n*sumXY - sumX*sumY) / det
	intercept := (sumY - slope*sumX) / n
	return &LinearRegression{Origin: origin, Slope: slope, Intercept: intercept}
}

// Milestone is a round future value and the date the fitted line reaches it.
type Milestone struct {
	Value float64
	At    time.Time
}

// ForecastResult projects future portfolio value from a market-value time
// series. It is a pure function of its input and is never persisted. With
// fewer than two observations LR is nil and every dependent figure reports
// "not available" rather than failing.
type ForecastResult struct {
	LR *LinearRegression

	// Main is the observed series resampled to uniform spacing; Extended is
	// the projection sampled from the fitted line beyond the last
	// observation, up to the last milestone.
	Main     []TimePoint
	Extended []TimePoint

	// MainFraction is the share of the total chart width occupied by the
	// observed window, a deterministic function of the relative time spans.
	MainFraction float64

	Milestones []Milestone
}

// NewForecast fits the regression and derives the projected series and
// milestones.
func NewForecast(points []TimePoint) *ForecastResult {
	fr := &ForecastResult{
		MainFraction: 1,
		Main:         Resample(points, defaultResampleCount),
	}
	fr.LR = fitRegression(points)
	if fr.LR == nil {
		return fr
	}

	last := points[len(points)-1]
	fr.Milestones = milestones(fr.LR, last)
	if len(fr.Milestones) == 0 {
		return fr
	}

	mainSpan := last.At.Sub(points[0].At)
	horizon := fr.Milestones[len(fr.Milestones)-1].At
	extension := horizon.Sub(last.At)
	if total := mainSpan + extension; total > 0 {
		fr.MainFraction = float64(mainSpan) / float64(total)
	}

	n := defaultResampleCount
	fr.Extended = make([]TimePoint, n)
	for i := range n {
		frac := float64(i) / float64(n-1)
		at := last.At.Add(time.Duration(frac * float64(extension)))
		fr.Extended[i] = TimePoint{At: at, Value: fr.LR.At(at)}
	}
	return fr
}

// milestones walks round values upward from the current projected value,
// keeping only milestones whose projected date strictly increases. A flat or
// falling fit yields an empty list.
func milestones(lr *LinearRegression, last TimePoint) []Milestone {
	if lr.Slope <= 0 {
		return nil
	}
	now := lr.At(last.At)
	step := niceStep(now)
	start := math.Ceil(now/step) * step
	if start <= now {
		start += step
	}

	var res []Milestone
	prev := last.At
	for i := range maxMilestones {
		v := start + float64(i)*step
		at, ok := lr.TimeOf(v)
		if !ok || !at.After(prev) {
			continue
		}
		res = append(res, Milestone{Value: v, At: at})
		prev = at
	}
	return res
}

// niceStep picks a human-friendly interval (1, 2, or 5 times a power of ten)
// around a tenth of the given value.
func niceStep(v float64) float64 {
	if v <= 0 {
		return 1
	}
	target := v / 10
	if target <= 0 {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(target)))
	for _, m := range []float64{5, 2, 1} {
		if step := m * mag; step <= target {
			return step
		}
	}
	return mag
}

// FormattedFormula renders the fitted line as a human-readable formula,
// false when no regression is available.
func (fr *ForecastResult) FormattedFormula() (string, bool) {
	if fr.LR == nil {
		return "", false
	}
	return fmt.Sprintf("value = %.2f %+.2f/day", fr.LR.Intercept, fr.LR.PerDay()), true
}

// ProjectedValue evaluates the fitted line at a point in time, false when no
// regression is available.
func (fr *ForecastResult) ProjectedValue(at time.Time) (float64, bool) {
	if fr.LR == nil {
		return 0, false
	}
	return fr.LR.At(at), true
}

// GainPerDay is the fitted daily gain, false when unavailable.
func (fr *ForecastResult) GainPerDay() (float64, bool) {
	if fr.LR == nil {
		return 0, false
	}
	return fr.LR.PerDay(), true
}

// GainPerYear is the fitted yearly gain, false when unavailable.
func (fr *ForecastResult) GainPerYear() (float64, bool) {
	if fr.LR == nil {
		return 0, false
	}
	return fr.LR.PerYear(), true
}
