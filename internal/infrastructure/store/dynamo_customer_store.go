package store

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/example/abc-retail-cloud/internal/domain/customer"
)

// DynamoCustomerStore implements customer.Store on a DynamoDB table.
type DynamoCustomerStore struct {
	client    *dynamodb.Client
	tableName string
}

const customerPartition = "Customer"

type dynamoCustomer struct {
	PK        string `dynamodbav:"pk"`
	ID        string `dynamodbav:"id"`
	Name      string `dynamodbav:"name"`
	Email     string `dynamodbav:"email"`
	Phone     string `dynamodbav:"phone"`
	Address   string `dynamodbav:"address"`
	CreatedAt string `dynamodbav:"created_at"`
}

func NewDynamoCustomerStore(client *dynamodb.Client, tableName string) *DynamoCustomerStore {
	return &DynamoCustomerStore{client: client, tableName: tableName}
}

func (s *DynamoCustomerStore) Get(ctx context.Context, id string) (*customer.Customer, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: customerPartition},
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get customer %s: %w", id, err)
	}
	if result.Item == nil {
		return nil, customer.ErrCustomerNotFound
	}

	var item dynamoCustomer
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal customer %s: %w", id, err)
	}
	return item.toDomain(), nil
}

func (s *DynamoCustomerStore) List(ctx context.Context) ([]customer.Customer, error) {
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: customerPartition},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	customers := make([]customer.Customer, 0, len(result.Items))
	for _, raw := range result.Items {
		var item dynamoCustomer
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			continue
		}
		customers = append(customers, *item.toDomain())
	}
	return customers, nil
}

func (s *DynamoCustomerStore) Put(ctx context.Context, c *customer.Customer) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	av, err := attributevalue.MarshalMap(dynamoCustomer{
		PK:        customerPartition,
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal customer %s: %w", c.ID, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put customer %s: %w", c.ID, err)
	}
	return nil
}

func (s *DynamoCustomerStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: customerPartition},
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete customer %s: %w", id, err)
	}
	return nil
}

func (d *dynamoCustomer) toDomain() *customer.Customer {
	createdAt, _ := time.Parse(time.RFC3339Nano, d.CreatedAt)
	return &customer.Customer{
		ID:        d.ID,
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Address:   d.Address,
		CreatedAt: createdAt,
	}
}
