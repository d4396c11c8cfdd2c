package srs

import (
	"errors"
	"time"

	"github.com/phrazzld/lingo-api/internal/domain"
)

// Common errors
var (
	ErrNilRecord = errors.New("review record cannot be nil")
)

// Service defines the interface for scheduling algorithm operations
type Service interface {
	// SubmitGrade computes the record that results from grading the given
	// record on today. It never mutates its input.
	SubmitGrade(
		record *domain.ReviewRecord,
		grade domain.Grade,
		today time.Time,
	) (*domain.ReviewRecord, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduling service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduling service with custom parameters
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// SubmitGrade implements the Service interface
func (s *defaultService) SubmitGrade(
	record *domain.ReviewRecord,
	grade domain.Grade,
	today time.Time,
) (*domain.ReviewRecord, error) {
	if record == nil {
		return nil, ErrNilRecord
	}

	// Unknown grades are rejected, never coerced: a default would corrupt the
	// difficulty average.
	if !grade.Valid() {
		return nil, domain.ErrInvalidGrade
	}

	return calculateNextRecord(record, grade, today, s.params), nil
}
