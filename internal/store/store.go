package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidObservation = errors.New("invalid observation")
)

// Store defines the interface for experiment sample storage
type Store interface {
	// Experiment operations
	CreateExperiment(ctx context.Context, name string, kind Kind, arms []string) (*Experiment, error)
	GetExperiment(ctx context.Context, name string) (*Experiment, error)
	ListExperiments(ctx context.Context) ([]*Experiment, error)
	DeleteExperiment(ctx context.Context, name string) error

	// Observation operations
	AddObservations(ctx context.Context, experiment string, observations []Observation) error
	ArmValues(ctx context.Context, experiment, arm string) ([]float64, error)
	ArmCounts(ctx context.Context, experiment string) ([]ArmCount, error)

	Close() error
}
