package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"

	"github.com/example/storefront/internal/domain/catalog"
)

// CatalogStore implements catalog.Store on a DynamoDB table keyed by item id.
type CatalogStore struct {
	client    *dynamodb.Client
	tableName string
}

// catalogRecord is the DynamoDB item layout. Prices are stored as decimal
// strings so no precision is lost in transit.
type catalogRecord struct {
	ID              string   `dynamodbav:"id"`
	Title           string   `dynamodbav:"title"`
	Category        string   `dynamodbav:"category"`
	ActualPrice     string   `dynamodbav:"actual_price"`
	DiscountedPrice string   `dynamodbav:"discounted_price"`
	DiscountPercent int      `dynamodbav:"discount_percent"`
	Description     string   `dynamodbav:"description"`
	Specs           []string `dynamodbav:"specs"`
	Benefits        []string `dynamodbav:"benefits"`
	Featured        bool     `dynamodbav:"featured"`
	ImageURL        string   `dynamodbav:"image_url"`
	CreatedAt       string   `dynamodbav:"created_at"`
}

func NewCatalogStore(client *dynamodb.Client, tableName string) *CatalogStore {
	return &CatalogStore{client: client, tableName: tableName}
}

func (s *CatalogStore) List(ctx context.Context) ([]catalog.Item, error) {
	var items []catalog.Item
	var startKey map[string]types.AttributeValue

	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan catalog: %w", err)
		}

		for _, raw := range out.Items {
			var rec catalogRecord
			if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
				return nil, fmt.Errorf("unmarshal catalog item: %w", err)
			}
			item, err := rec.toItem()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return items, nil
}

func (s *CatalogStore) Get(ctx context.Context, id string) (catalog.Item, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return catalog.Item{}, fmt.Errorf("get catalog item: %w", err)
	}
	if out.Item == nil {
		return catalog.Item{}, catalog.ErrNotFound
	}

	var rec catalogRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return catalog.Item{}, fmt.Errorf("unmarshal catalog item: %w", err)
	}
	return rec.toItem()
}

func (s *CatalogStore) Put(ctx context.Context, item catalog.Item) error {
	av, err := attributevalue.MarshalMap(fromItem(item))
	if err != nil {
		return fmt.Errorf("marshal catalog item: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("put catalog item: %w", err)
	}
	return nil
}

func (s *CatalogStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return fmt.Errorf("delete catalog item: %w", err)
	}
	return nil
}

func fromItem(item catalog.Item) catalogRecord {
	return catalogRecord{
		ID:              item.ID,
		Title:           item.Title,
		Category:        item.Category,
		ActualPrice:     item.ActualPrice.String(),
		DiscountedPrice: item.DiscountedPrice.String(),
		DiscountPercent: item.DiscountPercent,
		Description:     item.Description,
		Specs:           item.Specs,
		Benefits:        item.Benefits,
		Featured:        item.Featured,
		ImageURL:        item.ImageURL,
		CreatedAt:       item.CreatedAt.Format(time.RFC3339Nano),
	}
}

func (r catalogRecord) toItem() (catalog.Item, error) {
	actual, err := decimal.NewFromString(r.ActualPrice)
	if err != nil {
		return catalog.Item{}, errors.New("catalog item has a malformed actual price")
	}
	discounted, err := decimal.NewFromString(r.DiscountedPrice)
	if err != nil {
		return catalog.Item{}, errors.New("catalog item has a malformed discounted price")
	}
	createdAt, _ := time.Parse(time.RFC3339Nano, r.CreatedAt)

	return catalog.Item{
		ID:              r.ID,
		Title:           r.Title,
		Category:        r.Category,
		ActualPrice:     actual,
		DiscountedPrice: discounted,
		DiscountPercent: r.DiscountPercent,
		Description:     r.Description,
		Specs:           r.Specs,
		Benefits:        r.Benefits,
		Featured:        r.Featured,
		ImageURL:        r.ImageURL,
		CreatedAt:       createdAt,
	}, nil
}
