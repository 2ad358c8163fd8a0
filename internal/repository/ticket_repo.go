package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Eyemetric/parking_service/internal/ticket"
)

var (
	ErrNotFound         = errors.New("ticket does not exist")
	ErrDuplicateTicket  = errors.New("ticket id already exists")
	ErrStatusConflict   = errors.New("ticket status changed concurrently")
	ErrStoreUnavailable = errors.New("ticket store unavailable")
)

// TicketRepository is the durable ticketId -> ticket map shared by entry and exit.
//
// UpdateStatus writes unconditionally. Exit reads the ticket, checks it is
// active and only then writes, so two exits racing on the same ticket can both
// succeed. CompareAndSetStatus closes that window when the service runs with
// conditional exits enabled.
type TicketRepository interface {
	CreateTicket(ctx context.Context, t ticket.Ticket) error
	GetTicket(ctx context.Context, ticketID string) (ticket.Ticket, error)
	UpdateStatus(ctx context.Context, ticketID string, status ticket.Status) error
	CompareAndSetStatus(ctx context.Context, ticketID string, from, to ticket.Status) error
}

// unavailable tags an infrastructure failure so callers can match it with
// errors.Is while keeping the driver's message.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
