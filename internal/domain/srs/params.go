package srs

import (
	"github.com/phrazzld/lingo-api/internal/domain"
)

// Params defines all configurable parameters for the scheduling algorithm
type Params struct {
	// IntervalMultiplier scales the previous interval for each grade.
	// GradeWrong is absent because a wrong answer resets the interval.
	IntervalMultiplier map[domain.Grade]float64

	// MinInterval is the floor applied after a Hard grade.
	MinInterval float64

	// ResetInterval is the interval assigned after a Wrong grade.
	ResetInterval float64

	// MaxInterval caps every computed interval, in days.
	MaxInterval float64
}

// DefaultMaxInterval is roughly one hundred years.
const DefaultMaxInterval = 36500

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Zero values keep the defaults.
type ParamsConfig struct {
	EasyMultiplier    float64
	CorrectMultiplier float64
	HardMultiplier    float64
	MinInterval       float64
	ResetInterval     float64
	MaxInterval       float64
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		IntervalMultiplier: map[domain.Grade]float64{
			domain.GradeEasy:    2.0,
			domain.GradeCorrect: 1.4,
			domain.GradeHard:    0.75,
		},
		MinInterval:   1,
		ResetInterval: 1,
		MaxInterval:   DefaultMaxInterval,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.EasyMultiplier > 0 {
		params.IntervalMultiplier[domain.GradeEasy] = config.EasyMultiplier
	}
	if config.CorrectMultiplier > 0 {
		params.IntervalMultiplier[domain.GradeCorrect] = config.CorrectMultiplier
	}
	if config.HardMultiplier > 0 {
		params.IntervalMultiplier[domain.GradeHard] = config.HardMultiplier
	}
	if config.MinInterval > 0 {
		params.MinInterval = config.MinInterval
	}
	if config.ResetInterval > 0 {
		params.ResetInterval = config.ResetInterval
	}
	if config.MaxInterval > 0 {
		params.MaxInterval = config.MaxInterval
	}

	return params
}
