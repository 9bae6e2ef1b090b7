package receipt

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"
)

// Store is the receipt processing API consumed by the HTTP layer
type Store interface {
	// Submit scores a receipt, stores it and returns its new ID
	Submit(receipt Receipt) (string, error)

	// GetScore returns the score computed when the receipt was submitted
	GetScore(id string) (ScoreResult, error)
}

// IDGenerator generates unique IDs for receipts
type IDGenerator interface {
	Generate() string
}

// uuidGenerator generates random version 4 UUIDs
type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	return uuid.NewString()
}

// ScoreFunc computes the score of a receipt
type ScoreFunc func(Receipt) (ScoreResult, error)

// Service handles receipt operations
type Service struct {
	db          DB
	idGenerator IDGenerator
	score       ScoreFunc
	metrics     *Metrics
}

var _ Store = (*Service)(nil)

// NewService creates a new Service with the default ID generator and scoring rules
func NewService(db DB, metrics *Metrics) *Service {
	return NewServiceWithDeps(db, metrics, &uuidGenerator{}, Score)
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, metrics *Metrics, idGen IDGenerator, score ScoreFunc) *Service {
	return &Service{
		db:          db,
		idGenerator: idGen,
		score:       score,
		metrics:     metrics,
	}
}

// Submit scores the receipt and stores it under a fresh ID. Nothing is stored when
// scoring fails; the error is returned unchanged.
func (s *Service) Submit(receipt Receipt) (string, error) {
	result, err := s.score(receipt)
	if err != nil {
		s.metrics.rejected(err)
		return "", err
	}

	record := &Record{
		ID:      s.idGenerator.Generate(),
		Receipt: receipt.clone(),
		Score:   result,
	}
	if err := s.db.InsertRecord(record); err != nil {
		slog.Error("Failed to store receipt", "id", record.ID, "error", err)
		s.metrics.rejected(err)
		return "", err
	}

	s.metrics.submitted(result.Points)
	slog.Info("Receipt processed", "id", record.ID, "retailer", receipt.Retailer, "points", result.Points)
	return record.ID, nil
}

// GetScore returns the stored score for the receipt ID
func (s *Service) GetScore(id string) (ScoreResult, error) {
	record, err := s.db.GetRecord(id)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			s.metrics.lookup("not_found")
		} else {
			s.metrics.lookup("error")
		}
		return ScoreResult{}, err
	}
	s.metrics.lookup("found")
	return record.Score, nil
}
