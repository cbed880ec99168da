package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/example/abc-retail-cloud/internal/mailbox"
)

// DynamoOrderLog keeps the queue-side projection of orders for the
// admin listing. Rows are written when an order is published and are
// never the authoritative record; the SQL order is.
type DynamoOrderLog struct {
	client    *dynamodb.Client
	tableName string
}

const orderPartition = "Order"

type dynamoOrderRow struct {
	PK           string `dynamodbav:"pk"`
	OrderID      string `dynamodbav:"order_id"`
	UserID       int64  `dynamodbav:"user_id"`
	CustomerName string `dynamodbav:"customer_name"`
	Items        string `dynamodbav:"items"` // JSON-encoded lines
	Total        int64  `dynamodbav:"total"`
	Status       string `dynamodbav:"status"`
	OrderDate    string `dynamodbav:"order_date"`
	Instructions string `dynamodbav:"instructions"`
}

func NewDynamoOrderLog(client *dynamodb.Client, tableName string) *DynamoOrderLog {
	return &DynamoOrderLog{client: client, tableName: tableName}
}

// Record writes the order projection row.
func (s *DynamoOrderLog) Record(ctx context.Context, msg *mailbox.OrderMessage) error {
	lines, err := json.Marshal(msg.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order lines: %w", err)
	}

	av, err := attributevalue.MarshalMap(dynamoOrderRow{
		PK:           orderPartition,
		OrderID:      msg.OrderID,
		UserID:       msg.UserID,
		CustomerName: msg.CustomerName,
		Items:        string(lines),
		Total:        msg.Total,
		Status:       msg.Status,
		OrderDate:    msg.OrderDate.Format(time.RFC3339Nano),
		Instructions: msg.SpecialInstructions,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal order row %s: %w", msg.OrderID, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to record order %s: %w", msg.OrderID, err)
	}
	return nil
}

// List returns all recorded order projections.
func (s *DynamoOrderLog) List(ctx context.Context) ([]mailbox.OrderMessage, error) {
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: orderPartition},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list order log: %w", err)
	}

	msgs := make([]mailbox.OrderMessage, 0, len(result.Items))
	for _, raw := range result.Items {
		var row dynamoOrderRow
		if err := attributevalue.UnmarshalMap(raw, &row); err != nil {
			continue
		}
		var lines []mailbox.OrderLine
		_ = json.Unmarshal([]byte(row.Items), &lines)
		orderDate, _ := time.Parse(time.RFC3339Nano, row.OrderDate)
		msgs = append(msgs, mailbox.OrderMessage{
			OrderID:             row.OrderID,
			UserID:              row.UserID,
			CustomerName:        row.CustomerName,
			Items:               lines,
			Total:               row.Total,
			Status:              row.Status,
			OrderDate:           orderDate,
			SpecialInstructions: row.Instructions,
		})
	}
	return msgs, nil
}
