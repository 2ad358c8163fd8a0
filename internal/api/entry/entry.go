package entry

import (
	"context"
	"fmt"

	"github.com/Eyemetric/parking_service/internal/api/params"
	"github.com/Eyemetric/parking_service/internal/clock"
	"github.com/Eyemetric/parking_service/internal/logger"
	"github.com/Eyemetric/parking_service/internal/metrics"
	"github.com/Eyemetric/parking_service/internal/repository"
	"github.com/Eyemetric/parking_service/internal/ticket"
	"github.com/google/uuid"
)

type Result struct {
	TicketID string `json:"ticketId"`
}

// Service issues tickets. It holds no per-request state and is shared by
// all requests.
type Service struct {
	repo    repository.TicketRepository
	clock   clock.Clock
	log     logger.Logger
	metrics *metrics.Metrics

	// NewID generates ticket ids, a random uuid unless overridden.
	NewID func() string
}

func NewService(repo repository.TicketRepository, clk clock.Clock, log logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		repo:    repo,
		clock:   clk,
		log:     log,
		metrics: m,
		NewID:   uuid.NewString,
	}
}

// Enter creates an active ticket stamped with the current UTC time.
func (s *Service) Enter(ctx context.Context, in params.EntryInput) (Result, error) {
	if in.Plate == "" || in.ParkingLot == "" {
		return Result{}, ticket.ErrMissingParameters
	}

	t := ticket.New(s.NewID(), in.Plate, in.ParkingLot, s.clock.Now())
	if err := s.repo.CreateTicket(ctx, t); err != nil {
		return Result{}, fmt.Errorf("failed to create ticket: %w", err)
	}

	s.metrics.TicketsIssued.Inc()
	s.log.Info("ticket issued",
		"ticketId", t.TicketID,
		"plate", t.Plate,
		"parkingLot", t.ParkingLot,
		"entryTime", ticket.FormatTime(t.EntryTime))

	return Result{TicketID: t.TicketID}, nil
}
