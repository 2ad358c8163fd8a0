package exit

import (
	"context"
	"errors"
	"fmt"

	"github.com/Eyemetric/parking_service/internal/api/params"
	"github.com/Eyemetric/parking_service/internal/clock"
	"github.com/Eyemetric/parking_service/internal/logger"
	"github.com/Eyemetric/parking_service/internal/metrics"
	"github.com/Eyemetric/parking_service/internal/repository"
	"github.com/Eyemetric/parking_service/internal/ticket"
)

type Result struct {
	Plate            string  `json:"plate"`
	ParkingLot       string  `json:"parkingLot"`
	TotalTimeMinutes float64 `json:"totalTimeMinutes"`
	Charge           float64 `json:"charge"`
}

type Service struct {
	repo    repository.TicketRepository
	clock   clock.Clock
	fees    ticket.FeeSchedule
	log     logger.Logger
	metrics *metrics.Metrics

	// Conditional makes the completing write a compare-and-swap on
	// active -> completed. Off, the write is unconditional and two exits
	// racing on one ticket can both be charged.
	Conditional bool
}

func NewService(repo repository.TicketRepository, clk clock.Clock, fees ticket.FeeSchedule, log logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		repo:    repo,
		clock:   clk,
		fees:    fees,
		log:     log,
		metrics: m,
	}
}

// Exit charges an active ticket and marks it completed. The charge is only
// returned once the status write has succeeded; if that write fails the
// ticket stays active.
func (s *Service) Exit(ctx context.Context, in params.ExitInput) (Result, error) {
	if in.TicketID == "" {
		return Result{}, ticket.ErrMissingTicketID
	}

	t, err := s.repo.GetTicket(ctx, in.TicketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Result{}, ticket.ErrTicketNotFound
		}
		return Result{}, fmt.Errorf("failed to load ticket: %w", err)
	}

	if !t.Active() {
		return Result{}, ticket.ErrTicketAlreadyUsed
	}

	exitTime := s.clock.Now().UTC()
	fee := s.fees.Compute(t.EntryTime, exitTime)

	if err := s.complete(ctx, t.TicketID); err != nil {
		return Result{}, err
	}

	s.metrics.TicketsExited.Inc()
	s.metrics.Charges.Observe(fee.Charge)
	s.log.Info("ticket completed",
		"ticketId", t.TicketID,
		"plate", t.Plate,
		"parkingLot", t.ParkingLot,
		"minutes", fee.ElapsedMinutes,
		"charge", fee.Charge)

	return Result{
		Plate:            t.Plate,
		ParkingLot:       t.ParkingLot,
		TotalTimeMinutes: ticket.RoundMinutes(fee.ElapsedMinutes),
		Charge:           fee.Charge,
	}, nil
}

func (s *Service) complete(ctx context.Context, ticketID string) error {
	var err error
	if s.Conditional {
		err = s.repo.CompareAndSetStatus(ctx, ticketID, ticket.StatusActive, ticket.StatusCompleted)
	} else {
		err = s.repo.UpdateStatus(ctx, ticketID, ticket.StatusCompleted)
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrStatusConflict):
		//lost the race to another exit
		return ticket.ErrTicketAlreadyUsed
	case errors.Is(err, repository.ErrNotFound):
		return ticket.ErrTicketNotFound
	default:
		return fmt.Errorf("failed to complete ticket: %w", err)
	}
}
