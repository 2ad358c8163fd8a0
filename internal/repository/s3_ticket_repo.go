package repository

/* S3TicketRepo treats an S3 compatible bucket (Wasabi, AWS, minio) as the
ticket map: one JSON object per ticket under tickets/<ticketId>.json.
Creation uses If-None-Match and status swaps use the object's ETag with
If-Match, so the bucket has to support conditional writes for those to hold.
*/

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Eyemetric/parking_service/internal/ticket"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

const ticketPrefix = "tickets/"

type S3TicketRepo struct {
	s3Client *s3.Client
	bucket   string
}

// NewS3Client wraps the aws S3 client for a non-AWS host like Wasabi.
func NewS3Client(ctx context.Context, s3Host, s3Region string) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(s3Region))
	if err != nil {
		return nil, err
	}

	//lets the sdk know we aren't calling official aws servers.
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s", s3Host))
		o.UsePathStyle = true
	}), nil
}

func NewS3TicketRepo(client *s3.Client, bucket string) *S3TicketRepo {
	return &S3TicketRepo{s3Client: client, bucket: bucket}
}

func objectKey(ticketID string) string {
	return ticketPrefix + ticketID + ".json"
}

// isPreconditionFailed reports a 412 from a conditional write.
func isPreconditionFailed(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed"
}

func (r *S3TicketRepo) put(ctx context.Context, rec ticket.Record, ifMatch, ifNoneMatch *string) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	_, err = r.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(objectKey(rec.TicketID)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		IfMatch:     ifMatch,
		IfNoneMatch: ifNoneMatch,
	})
	return err
}

// get returns the record plus the ETag of the object it came from.
func (r *S3TicketRepo) get(ctx context.Context, ticketID string) (ticket.Record, string, error) {
	out, err := r.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(objectKey(ticketID)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return ticket.Record{}, "", ErrNotFound
		}
		return ticket.Record{}, "", unavailable("get ticket object", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return ticket.Record{}, "", unavailable("read ticket object", err)
	}

	var rec ticket.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return ticket.Record{}, "", fmt.Errorf("decode ticket object %s: %w", ticketID, err)
	}
	return rec, aws.ToString(out.ETag), nil
}

func (r *S3TicketRepo) CreateTicket(ctx context.Context, t ticket.Ticket) error {
	err := r.put(ctx, t.Record(), nil, aws.String("*"))
	if err != nil {
		if isPreconditionFailed(err) {
			return ErrDuplicateTicket
		}
		return unavailable("put ticket object", err)
	}
	return nil
}

func (r *S3TicketRepo) GetTicket(ctx context.Context, ticketID string) (ticket.Ticket, error) {
	rec, _, err := r.get(ctx, ticketID)
	if err != nil {
		return ticket.Ticket{}, err
	}
	return rec.Ticket()
}

func (r *S3TicketRepo) UpdateStatus(ctx context.Context, ticketID string, status ticket.Status) error {
	rec, _, err := r.get(ctx, ticketID)
	if err != nil {
		return err
	}
	rec.Status = string(status)
	if err := r.put(ctx, rec, nil, nil); err != nil {
		return unavailable("put ticket object", err)
	}
	return nil
}

func (r *S3TicketRepo) CompareAndSetStatus(ctx context.Context, ticketID string, from, to ticket.Status) error {
	rec, etag, err := r.get(ctx, ticketID)
	if err != nil {
		return err
	}
	if rec.Status != string(from) {
		return ErrStatusConflict
	}

	rec.Status = string(to)
	if err := r.put(ctx, rec, aws.String(etag), nil); err != nil {
		if isPreconditionFailed(err) {
			return ErrStatusConflict
		}
		return unavailable("put ticket object", err)
	}
	return nil
}
