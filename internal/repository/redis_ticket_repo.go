package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Eyemetric/parking_service/internal/ticket"
	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string // optional
	DB       int    // optional
}

func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// RedisTicketRepo stores each ticket as a hash at ticket:<ticketId>. Writes
// that depend on current state run inside WATCH/MULTI.
type RedisTicketRepo struct {
	client *redis.Client
}

func NewRedisTicketRepo(client *redis.Client) *RedisTicketRepo {
	return &RedisTicketRepo{client: client}
}

func redisKey(ticketID string) string {
	return "ticket:" + ticketID
}

func (r *RedisTicketRepo) CreateTicket(ctx context.Context, t ticket.Ticket) error {
	key := redisKey(t.TicketID)
	rec := t.Record()

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicateTicket
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, rec)
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrDuplicateTicket), errors.Is(err, redis.TxFailedErr):
		//someone else wrote the key between WATCH and EXEC
		return ErrDuplicateTicket
	default:
		return unavailable("create ticket", err)
	}
}

func (r *RedisTicketRepo) GetTicket(ctx context.Context, ticketID string) (ticket.Ticket, error) {
	cmd := r.client.HGetAll(ctx, redisKey(ticketID))
	fields, err := cmd.Result()
	if err != nil {
		return ticket.Ticket{}, unavailable("get ticket", err)
	}
	if len(fields) == 0 {
		return ticket.Ticket{}, ErrNotFound
	}

	var rec ticket.Record
	if err := cmd.Scan(&rec); err != nil {
		return ticket.Ticket{}, fmt.Errorf("decode ticket %s: %w", ticketID, err)
	}
	return rec.Ticket()
}

// UpdateStatus sets the field without watching it, matching the unconditional
// contract. The existence check keeps it from creating a partial hash.
func (r *RedisTicketRepo) UpdateStatus(ctx context.Context, ticketID string, status ticket.Status) error {
	key := redisKey(ticketID)

	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return unavailable("update ticket status", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	if err := r.client.HSet(ctx, key, "status", string(status)).Err(); err != nil {
		return unavailable("update ticket status", err)
	}
	return nil
}

func (r *RedisTicketRepo) CompareAndSetStatus(ctx context.Context, ticketID string, from, to ticket.Status) error {
	key := redisKey(ticketID)

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, key, "status").Result()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if current != string(from) {
			return ErrStatusConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, "status", string(to))
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrStatusConflict):
		return err
	case errors.Is(err, redis.TxFailedErr):
		return ErrStatusConflict
	default:
		return unavailable("update ticket status", err)
	}
}
