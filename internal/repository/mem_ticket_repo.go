package repository

import (
	"context"
	"sync"

	"github.com/Eyemetric/parking_service/internal/ticket"
)

// MemTicketRepo keeps records in process. It backs tests and the default
// "memory" backend for local runs; nothing survives a restart.
type MemTicketRepo struct {
	mu      sync.RWMutex
	records map[string]ticket.Record
}

func NewMemTicketRepo() *MemTicketRepo {
	return &MemTicketRepo{records: make(map[string]ticket.Record)}
}

func (m *MemTicketRepo) CreateTicket(ctx context.Context, t ticket.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[t.TicketID]; ok {
		return ErrDuplicateTicket
	}
	m.records[t.TicketID] = t.Record()
	return nil
}

func (m *MemTicketRepo) GetTicket(ctx context.Context, ticketID string) (ticket.Ticket, error) {
	m.mu.RLock()
	rec, ok := m.records[ticketID]
	m.mu.RUnlock()

	if !ok {
		return ticket.Ticket{}, ErrNotFound
	}
	return rec.Ticket()
}

func (m *MemTicketRepo) UpdateStatus(ctx context.Context, ticketID string, status ticket.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[ticketID]
	if !ok {
		return ErrNotFound
	}
	rec.Status = string(status)
	m.records[ticketID] = rec
	return nil
}

func (m *MemTicketRepo) CompareAndSetStatus(ctx context.Context, ticketID string, from, to ticket.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[ticketID]
	if !ok {
		return ErrNotFound
	}
	if rec.Status != string(from) {
		return ErrStatusConflict
	}
	rec.Status = string(to)
	m.records[ticketID] = rec
	return nil
}

// Len reports how many tickets are stored.
func (m *MemTicketRepo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
