package repository

import (
	"context"
	"errors"

	"github.com/Eyemetric/parking_service/internal/ticket"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoTicketRepo keeps one item per ticket, hash key "ticketId".
type DynamoTicketRepo struct {
	client *dynamodb.Client
	table  string
}

// NewDynamoClient loads the default AWS credential chain. endpoint overrides
// the service url (DynamoDB Local, localstack); leave empty for AWS.
func NewDynamoClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

func NewDynamoTicketRepo(client *dynamodb.Client, table string) *DynamoTicketRepo {
	return &DynamoTicketRepo{client: client, table: table}
}

func ticketKey(ticketID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"ticketId": &types.AttributeValueMemberS{Value: ticketID},
	}
}

func (d *DynamoTicketRepo) CreateTicket(ctx context.Context, t ticket.Ticket) error {
	item, err := attributevalue.MarshalMap(t.Record())
	if err != nil {
		return err
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(d.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(ticketId)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrDuplicateTicket
		}
		return unavailable("put ticket", err)
	}
	return nil
}

func (d *DynamoTicketRepo) GetTicket(ctx context.Context, ticketID string) (ticket.Ticket, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.table),
		Key:            ticketKey(ticketID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return ticket.Ticket{}, unavailable("get ticket", err)
	}
	if out.Item == nil {
		return ticket.Ticket{}, ErrNotFound
	}

	var rec ticket.Record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return ticket.Ticket{}, err
	}
	return rec.Ticket()
}

// UpdateStatus is a plain SET. attribute_exists keeps it from upserting a
// bare item for an unknown id.
func (d *DynamoTicketRepo) UpdateStatus(ctx context.Context, ticketID string, status ticket.Status) error {
	_, err := d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(d.table),
		Key:                      ticketKey(ticketID),
		UpdateExpression:         aws.String("SET #status = :status"),
		ConditionExpression:      aws.String("attribute_exists(ticketId)"),
		ExpressionAttributeNames: map[string]string{"#status": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(status)},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrNotFound
		}
		return unavailable("update ticket status", err)
	}
	return nil
}

func (d *DynamoTicketRepo) CompareAndSetStatus(ctx context.Context, ticketID string, from, to ticket.Status) error {
	_, err := d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(d.table),
		Key:                      ticketKey(ticketID),
		UpdateExpression:         aws.String("SET #status = :to"),
		ConditionExpression:      aws.String("attribute_exists(ticketId) AND #status = :from"),
		ExpressionAttributeNames: map[string]string{"#status": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":from": &types.AttributeValueMemberS{Value: string(from)},
			":to":   &types.AttributeValueMemberS{Value: string(to)},
		},
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			//ALL_OLD hands back the current item, absent means it never existed
			if ccf.Item == nil {
				return ErrNotFound
			}
			return ErrStatusConflict
		}
		return unavailable("update ticket status", err)
	}
	return nil
}
