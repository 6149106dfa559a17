package worth

import "time"

// Interval is a closed time interval [Start, End].
type Interval struct {
	Start, End time.Time
}

// Duration returns the interval's length.
func (iv Interval) Duration() time.Duration { return iv.End.Sub(iv.Start) }

// Days returns the interval's length in days.
func (iv Interval) Days() float64 { return iv.Duration().Hours() / 24 }

// Years returns the interval's length in years of 365.25 days.
func (iv Interval) Years() float64 { return iv.Days() / 365.25 }

// Dietz holds the inputs and intermediate terms of a Modified Dietz return
// computation over one interval: begin and end market value plus the signed
// external cash flows, each weighted by the fraction of the period it was
// invested.
type Dietz struct {
	Period              Interval
	BegValue, EndValue  float64
	NetCashflowTotal    float64
	AdjustedNetCashflow float64
}

// NewDietz computes the Dietz terms for the given interval and flows. Flows
// dated outside the interval are clamped to its boundaries.
func NewDietz(period Interval, begValue, endValue float64, flows []ValuationCashflow) *Dietz {
	d := &Dietz{Period: period, BegValue: begValue, EndValue: endValue}
	span := period.Duration()
	for _, f := range flows {
		amount := f.Amount.AsFloat()
		d.NetCashflowTotal += amount
		if span <= 0 {
			continue
		}
		w := float64(period.End.Sub(f.TransactedAt)) / float64(span)
		if w < 0 {
			w = 0
		}
		if w > 1 {
			w = 1
		}
		d.AdjustedNetCashflow += w * amount
	}
	return d
}

// GainOrLoss is the value change net of external cash flows.
func (d *Dietz) GainOrLoss() float64 {
	return (d.EndValue - d.BegValue) - d.NetCashflowTotal
}

// Performance returns the Modified Dietz return for the period. It is
// undefined (ok false) when there is no capital base: a zero denominator or
// a zero-length period. Callers must render "n/a", never coerce to 0.
func (d *Dietz) Performance() (Percent, bool) {
	if d.Period.Duration() <= 0 {
		return 0, false
	}
	base := d.BegValue + d.AdjustedNetCashflow
	if base == 0 {
		return 0, false
	}
	return Percent(100 * d.GainOrLoss() / base), true
}
