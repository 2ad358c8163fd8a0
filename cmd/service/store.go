package main

import (
	"context"
	"fmt"

	"github.com/Eyemetric/parking_service/internal/config"
	"github.com/Eyemetric/parking_service/internal/logger"
	"github.com/Eyemetric/parking_service/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

// openRepository builds the ticket store chosen by STORE_BACKEND. The client
// is created once per process and shared by every request; the returned func
// releases it on shutdown.
func openRepository(ctx context.Context, cfg config.Config, log logger.Logger) (repository.TicketRepository, func(), error) {
	switch cfg.StoreBackend {

	case config.BackendPostgres:
		dbPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to connect to database: %w", err)
		}
		//check that db was connected
		if err := dbPool.Ping(ctx); err != nil {
			dbPool.Close()
			return nil, nil, fmt.Errorf("unable to ping database: %w", err)
		}
		repo := repository.NewPgxTicketRepo(dbPool, cfg.TicketsTable)
		if err := repo.EnsureSchema(ctx); err != nil {
			dbPool.Close()
			return nil, nil, err
		}
		log.Info("using postgres ticket store", "table", cfg.TicketsTable)
		return repo, dbPool.Close, nil

	case config.BackendDynamoDB:
		client, err := repository.NewDynamoClient(ctx, cfg.AWSRegion, cfg.DynamoEndpoint)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to create dynamodb client: %w", err)
		}
		log.Info("using dynamodb ticket store", "table", cfg.TicketsTable, "region", cfg.AWSRegion)
		return repository.NewDynamoTicketRepo(client, cfg.TicketsTable), func() {}, nil

	case config.BackendS3:
		client, err := repository.NewS3Client(ctx, cfg.S3Host, cfg.AWSRegion)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to create s3 client: %w", err)
		}
		log.Info("using s3 ticket store", "host", cfg.S3Host, "bucket", cfg.S3Bucket)
		return repository.NewS3TicketRepo(client, cfg.S3Bucket), func() {}, nil

	case config.BackendRedis:
		client, err := repository.NewRedisClient(ctx, repository.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info("using redis ticket store", "addr", cfg.RedisAddr)
		return repository.NewRedisTicketRepo(client), func() { _ = client.Close() }, nil

	case config.BackendMemory:
		log.Warn("using in-memory ticket store, tickets are lost on restart")
		return repository.NewMemTicketRepo(), func() {}, nil
	}

	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
