package worth

import (
	"testing"
	"time"
)

// linearPoints builds an exactly linear series gaining 10 per day from 100.
func linearPoints(t *testing.T) []TimePoint {
	t.Helper()
	points := make([]TimePoint, 4)
	for i := range points {
		points[i] = TimePoint{At: day(float64(i * 10)), Value: 100 + float64(i*10)*10}
	}
	return points
}

func TestFitRegression_ExactLine(t *testing.T) {
	lr := fitRegression(linearPoints(t))
	if lr == nil {
		t.Fatal("fitRegression() = nil, want a fit")
	}
	if !almostEqual(lr.Intercept, 100) {
		t.Errorf("Intercept = %v, want 100", lr.Intercept)
	}
	if !almostEqual(lr.PerDay(), 10) {
		t.Errorf("PerDay() = %v, want 10", lr.PerDay())
	}
	if got := lr.At(day(40)); !almostEqual(got, 500) {
		t.Errorf("At(day 40) = %v, want 500", got)
	}
	at, ok := lr.TimeOf(500)
	if !ok {
		t.Fatal("TimeOf(500) should be defined for a rising line")
	}
	if d := at.Sub(day(40)); d < -time.Second || d > time.Second {
		t.Errorf("TimeOf(500) = %s, want ~%s", at, day(40))
	}
}

func TestFitRegression_Degenerate(t *testing.T) {
	if lr := fitRegression(nil); lr != nil {
		t.Errorf("fitRegression(nil) = %+v, want nil", lr)
	}
	if lr := fitRegression([]TimePoint{{At: day(0), Value: 5}}); lr != nil {
		t.Errorf("fitRegression(single point) = %+v, want nil", lr)
	}
	same := []TimePoint{{At: day(0), Value: 5}, {At: day(0), Value: 7}}
	if lr := fitRegression(same); lr != nil {
		t.Errorf("fitRegression(coincident points) = %+v, want nil", lr)
	}
}

func TestNiceStep(t *testing.T) {
	testCases := []struct {
		v    float64
		want float64
	}{
		{400, 20},
		{1000, 100},
		{9999, 500},
		{70, 5},
		{12, 1},
		{0, 1},
		{-3, 1},
	}
	for _, tc := range testCases {
		if got := niceStep(tc.v); got != tc.want {
			t.Errorf("niceStep(%v) = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestForecast_Milestones(t *testing.T) {
	fr := NewForecast(linearPoints(t))
	if fr.LR == nil {
		t.Fatal("forecast regression unavailable")
	}

	// projected value at the last observation is 400, so the walk starts at
	// the next multiple of 20 above it
	if got, want := len(fr.Milestones), maxMilestones; got != want {
		t.Fatalf("len(Milestones) = %d, want %d", got, want)
	}
	first := fr.Milestones[0]
	if !almostEqual(first.Value, 420) {
		t.Errorf("first milestone value = %v, want 420", first.Value)
	}
	prev := day(30)
	for i, ms := range fr.Milestones {
		if !ms.At.After(prev) {
			t.Fatalf("milestone %d at %s is not strictly after %s", i, ms.At, prev)
		}
		if i > 0 && ms.Value <= fr.Milestones[i-1].Value {
			t.Fatalf("milestone %d value %v does not increase", i, ms.Value)
		}
		prev = ms.At
	}

	// the last milestone (1000) is reached 60 days past a 30-day history
	if !almostEqual(fr.MainFraction, 1.0/3) {
		t.Errorf("MainFraction = %v, want 1/3", fr.MainFraction)
	}
	if len(fr.Main) != defaultResampleCount || len(fr.Extended) != defaultResampleCount {
		t.Errorf("series lengths = %d, %d, want %d each", len(fr.Main), len(fr.Extended), defaultResampleCount)
	}
	lastExt := fr.Extended[len(fr.Extended)-1]
	if !almostEqual(lastExt.Value, 1000) {
		t.Errorf("extension endpoint = %v, want the last milestone value 1000", lastExt.Value)
	}
}

func TestForecast_FlatAndFallingSeries(t *testing.T) {
	testCases := []struct {
		name   string
		values []float64
	}{
		{"flat", []float64{500, 500, 500}},
		{"falling", []float64{500, 400, 300}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			points := make([]TimePoint, len(tc.values))
			for i, v := range tc.values {
				points[i] = TimePoint{At: day(float64(i * 10)), Value: v}
			}
			fr := NewForecast(points)
			if fr.LR == nil {
				t.Fatal("regression should still fit a flat or falling series")
			}
			if len(fr.Milestones) != 0 {
				t.Errorf("Milestones = %v, want none without growth", fr.Milestones)
			}
			if fr.MainFraction != 1 {
				t.Errorf("MainFraction = %v, want 1 without an extension", fr.MainFraction)
			}
			if fr.Extended != nil {
				t.Errorf("Extended = %v, want nil", fr.Extended)
			}
		})
	}
}

func TestForecast_TooFewPoints(t *testing.T) {
	fr := NewForecast([]TimePoint{{At: day(0), Value: 100}})
	if fr.LR != nil {
		t.Fatal("regression should be unavailable for a single observation")
	}
	if _, ok := fr.FormattedFormula(); ok {
		t.Error("FormattedFormula() should be unavailable")
	}
	if _, ok := fr.ProjectedValue(day(10)); ok {
		t.Error("ProjectedValue() should be unavailable")
	}
	if _, ok := fr.GainPerDay(); ok {
		t.Error("GainPerDay() should be unavailable")
	}
	if _, ok := fr.GainPerYear(); ok {
		t.Error("GainPerYear() should be unavailable")
	}
}
