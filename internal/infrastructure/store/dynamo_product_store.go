package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/example/abc-retail-cloud/internal/domain/catalog"
)

// DynamoProductStore implements catalog.Store on a DynamoDB table.
// Items share a fixed partition so List can Query in insertion order.
type DynamoProductStore struct {
	client    *dynamodb.Client
	tableName string
}

const productPartition = "Product"

// dynamoProduct is the DynamoDB item structure
type dynamoProduct struct {
	PK            string `dynamodbav:"pk"`
	ID            string `dynamodbav:"id"`
	Name          string `dynamodbav:"name"`
	Description   string `dynamodbav:"description"`
	Price         int64  `dynamodbav:"price"`
	StockQuantity int    `dynamodbav:"stock_quantity"`
	ImageURL      string `dynamodbav:"image_url"`
	Category      string `dynamodbav:"category"`
	Version       int64  `dynamodbav:"version"`
	CreatedAt     string `dynamodbav:"created_at"`
}

func NewDynamoProductStore(client *dynamodb.Client, tableName string) *DynamoProductStore {
	return &DynamoProductStore{client: client, tableName: tableName}
}

func (s *DynamoProductStore) Get(ctx context.Context, id string) (*catalog.Product, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: productPartition},
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	if result.Item == nil {
		return nil, catalog.ErrProductNotFound
	}

	var item dynamoProduct
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product %s: %w", id, err)
	}
	return item.toDomain(), nil
}

func (s *DynamoProductStore) List(ctx context.Context) ([]catalog.Product, error) {
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: productPartition},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]catalog.Product, 0, len(result.Items))
	for _, raw := range result.Items {
		var item dynamoProduct
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			continue
		}
		products = append(products, *item.toDomain())
	}
	return products, nil
}

// Put writes a new product unconditionally with version 1.
func (s *DynamoProductStore) Put(ctx context.Context, p *catalog.Product) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.Version = 1

	av, err := attributevalue.MarshalMap(fromDomainProduct(p))
	if err != nil {
		return fmt.Errorf("failed to marshal product %s: %w", p.ID, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put product %s: %w", p.ID, err)
	}
	return nil
}

// Update writes p only if the stored version still matches p.Version
// (optimistic locking), then increments the version.
func (s *DynamoProductStore) Update(ctx context.Context, p *catalog.Product) error {
	currentVersion := p.Version
	p.Version = currentVersion + 1

	av, err := attributevalue.MarshalMap(fromDomainProduct(p))
	if err != nil {
		return fmt.Errorf("failed to marshal product %s: %w", p.ID, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                av,
		ConditionExpression: aws.String("version = :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", currentVersion)},
		},
	})
	if err != nil {
		p.Version = currentVersion
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return catalog.ErrVersionConflict
		}
		return fmt.Errorf("failed to update product %s: %w", p.ID, err)
	}
	return nil
}

func (s *DynamoProductStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: productPartition},
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return nil
}

func (d *dynamoProduct) toDomain() *catalog.Product {
	createdAt, _ := time.Parse(time.RFC3339Nano, d.CreatedAt)
	return &catalog.Product{
		ID:            d.ID,
		Name:          d.Name,
		Description:   d.Description,
		Price:         d.Price,
		StockQuantity: d.StockQuantity,
		ImageURL:      d.ImageURL,
		Category:      d.Category,
		Version:       d.Version,
		CreatedAt:     createdAt,
	}
}

func fromDomainProduct(p *catalog.Product) dynamoProduct {
	return dynamoProduct{
		PK:            productPartition,
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		ImageURL:      p.ImageURL,
		Category:      p.Category,
		Version:       p.Version,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339Nano),
	}
}
