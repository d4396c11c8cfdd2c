package srs

import (
	"testing"

	"github.com/phrazzld/lingo-api/internal/domain"
)

func TestNewDefaultParams(t *testing.T) {
	params := NewDefaultParams()

	want := map[domain.Grade]float64{
		domain.GradeEasy:    2.0,
		domain.GradeCorrect: 1.4,
		domain.GradeHard:    0.75,
	}
	for g, m := range want {
		if params.IntervalMultiplier[g] != m {
			t.Errorf("multiplier for %s = %v, want %v", g, params.IntervalMultiplier[g], m)
		}
	}
	if params.MinInterval != 1 || params.ResetInterval != 1 {
		t.Errorf("expected min and reset intervals of 1, got %v and %v", params.MinInterval, params.ResetInterval)
	}
	if params.MaxInterval != DefaultMaxInterval {
		t.Errorf("expected max interval %v, got %v", DefaultMaxInterval, params.MaxInterval)
	}
}

func TestNewParams(t *testing.T) {
	params := NewParams(ParamsConfig{HardMultiplier: 0.5, ResetInterval: 2, MaxInterval: 365})

	if params.IntervalMultiplier[domain.GradeHard] != 0.5 {
		t.Errorf("hard multiplier not overridden: %v", params.IntervalMultiplier[domain.GradeHard])
	}
	if params.ResetInterval != 2 {
		t.Errorf("reset interval not overridden: %v", params.ResetInterval)
	}
	if params.MaxInterval != 365 {
		t.Errorf("max interval not overridden: %v", params.MaxInterval)
	}
	if params.IntervalMultiplier[domain.GradeEasy] != 2.0 {
		t.Errorf("easy multiplier should keep its default, got %v", params.IntervalMultiplier[domain.GradeEasy])
	}

	// Defaults must not be shared between instances.
	if NewDefaultParams().IntervalMultiplier[domain.GradeHard] != 0.75 {
		t.Error("overriding one Params instance leaked into the defaults")
	}
}
