package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Eyemetric/parking_service/internal/ticket"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxTicketRepo stores tickets in a single Postgres table. entry_time is kept
// as the same ISO-8601 text the other backends persist.
type PgxTicketRepo struct {
	dbpool *pgxpool.Pool
	table  string //already quoted
}

func NewPgxTicketRepo(pool *pgxpool.Pool, table string) *PgxTicketRepo {
	return &PgxTicketRepo{
		dbpool: pool,
		table:  pgx.Identifier{table}.Sanitize(),
	}
}

// EnsureSchema creates the tickets table if it is missing.
func (p *PgxTicketRepo) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			ticket_id   text PRIMARY KEY,
			plate       text NOT NULL,
			parking_lot text NOT NULL,
			entry_time  text NOT NULL,
			status      text NOT NULL CHECK (status IN ('active', 'completed'))
		)`, p.table)

	if _, err := p.dbpool.Exec(ctx, ddl); err != nil {
		return unavailable("ensure schema", err)
	}
	return nil
}

func (p *PgxTicketRepo) CreateTicket(ctx context.Context, t ticket.Ticket) error {
	sql := fmt.Sprintf(`
		INSERT INTO %s (ticket_id, plate, parking_lot, entry_time, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (ticket_id) DO NOTHING`, p.table)

	rec := t.Record()
	tag, err := p.dbpool.Exec(ctx, sql, rec.TicketID, rec.Plate, rec.ParkingLot, rec.EntryTime, rec.Status)
	if err != nil {
		return unavailable("insert ticket", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicateTicket
	}
	return nil
}

func (p *PgxTicketRepo) GetTicket(ctx context.Context, ticketID string) (ticket.Ticket, error) {
	sql := fmt.Sprintf(`
		SELECT ticket_id, plate, parking_lot, entry_time, status
		FROM %s
		WHERE ticket_id = $1`, p.table)

	var rec ticket.Record
	err := p.dbpool.QueryRow(ctx, sql, ticketID).Scan(
		&rec.TicketID, &rec.Plate, &rec.ParkingLot, &rec.EntryTime, &rec.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ticket.Ticket{}, ErrNotFound
		}
		return ticket.Ticket{}, unavailable("get ticket", err)
	}
	return rec.Ticket()
}

func (p *PgxTicketRepo) UpdateStatus(ctx context.Context, ticketID string, status ticket.Status) error {
	sql := fmt.Sprintf(`UPDATE %s SET status = $2 WHERE ticket_id = $1`, p.table)

	tag, err := p.dbpool.Exec(ctx, sql, ticketID, string(status))
	if err != nil {
		return unavailable("update ticket status", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PgxTicketRepo) CompareAndSetStatus(ctx context.Context, ticketID string, from, to ticket.Status) error {
	sql := fmt.Sprintf(`UPDATE %s SET status = $3 WHERE ticket_id = $1 AND status = $2`, p.table)

	tag, err := p.dbpool.Exec(ctx, sql, ticketID, string(from), string(to))
	if err != nil {
		return unavailable("update ticket status", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	//nothing matched: either the row is gone or someone else moved the status
	if _, err := p.GetTicket(ctx, ticketID); err != nil {
		return err
	}
	return ErrStatusConflict
}
