package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Eyemetric/parking_service/internal/ticket"
)

func newTicket(id string) ticket.Ticket {
	return ticket.New(id, "ABC123", "Lot 7", time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC))
}

func TestMemCreateGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemTicketRepo()

	if err := repo.CreateTicket(ctx, newTicket("t1")); err != nil {
		t.Fatal(err)
	}
	if err := repo.CreateTicket(ctx, newTicket("t1")); !errors.Is(err, ErrDuplicateTicket) {
		t.Fatalf("second create err = %v, want ErrDuplicateTicket", err)
	}

	got, err := repo.GetTicket(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Plate != "ABC123" || got.ParkingLot != "Lot 7" || got.Status != ticket.StatusActive {
		t.Errorf("unexpected ticket %+v", got)
	}

	if _, err := repo.GetTicket(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing ticket err = %v, want ErrNotFound", err)
	}
	if repo.Len() != 1 {
		t.Errorf("Len() = %d, want 1", repo.Len())
	}
}

func TestMemUpdateStatusIsUnconditional(t *testing.T) {
	ctx := context.Background()
	repo := NewMemTicketRepo()
	_ = repo.CreateTicket(ctx, newTicket("t1"))

	for i := 0; i < 2; i++ {
		if err := repo.UpdateStatus(ctx, "t1", ticket.StatusCompleted); err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}
	if err := repo.UpdateStatus(ctx, "nope", ticket.StatusCompleted); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemCompareAndSetStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewMemTicketRepo()
	_ = repo.CreateTicket(ctx, newTicket("t1"))

	if err := repo.CompareAndSetStatus(ctx, "t1", ticket.StatusActive, ticket.StatusCompleted); err != nil {
		t.Fatal(err)
	}
	err := repo.CompareAndSetStatus(ctx, "t1", ticket.StatusActive, ticket.StatusCompleted)
	if !errors.Is(err, ErrStatusConflict) {
		t.Fatalf("err = %v, want ErrStatusConflict", err)
	}
	err = repo.CompareAndSetStatus(ctx, "nope", ticket.StatusActive, ticket.StatusCompleted)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemCompareAndSetStatusSingleWinner(t *testing.T) {
	ctx := context.Background()
	repo := NewMemTicketRepo()
	_ = repo.CreateTicket(ctx, newTicket("t1"))

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if repo.CompareAndSetStatus(ctx, "t1", ticket.StatusActive, ticket.StatusCompleted) == nil {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("%d goroutines completed the ticket, want exactly 1", wins)
	}
}

func TestUnavailableWrapsBoth(t *testing.T) {
	cause := errors.New("connection refused")
	err := unavailable("get ticket", cause)
	if !errors.Is(err, ErrStoreUnavailable) || !errors.Is(err, cause) {
		t.Fatalf("wrapped error lost its chain: %v", err)
	}
}
