package dynamo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/order"
)

const batchDeleteSize = 25

// OrderStore implements order.Sink on a DynamoDB table keyed by order id.
type OrderStore struct {
	client    *dynamodb.Client
	tableName string
}

// orderRecord is the DynamoDB item layout. Line items and shipping are
// stored as JSON documents; money fields as decimal strings.
type orderRecord struct {
	ID          string `dynamodbav:"id"`
	OrderNumber string `dynamodbav:"order_number"`
	Items       string `dynamodbav:"items"`
	Subtotal    string `dynamodbav:"subtotal"`
	DeliveryFee string `dynamodbav:"delivery_fee"`
	Total       string `dynamodbav:"total"`
	Shipping    string `dynamodbav:"shipping"`
	Status      string `dynamodbav:"status"`
	CreatedAt   string `dynamodbav:"created_at"`
	ConfirmedAt string `dynamodbav:"confirmed_at,omitempty"`
	DeliveredAt string `dynamodbav:"delivered_at,omitempty"`
}

func NewOrderStore(client *dynamodb.Client, tableName string) *OrderStore {
	return &OrderStore{client: client, tableName: tableName}
}

func (s *OrderStore) Create(ctx context.Context, o *order.Order) error {
	rec, err := fromOrder(o)
	if err != nil {
		return err
	}
	av, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return fmt.Errorf("put order: %w", err)
	}
	return nil
}

func (s *OrderStore) Get(ctx context.Context, id string) (*order.Order, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if out.Item == nil {
		return nil, order.ErrOrderNotFound
	}

	var rec orderRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return rec.toOrder()
}

func (s *OrderStore) ListByStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	// Orders written before the status field existed count as pending,
	// matching how the admin console has always bucketed them.
	filter := "#s = :status"
	if status == order.StatusPending {
		filter = "attribute_not_exists(#s) OR #s = :status"
	}

	var orders []*order.Order
	var startKey map[string]types.AttributeValue

	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(s.tableName),
			FilterExpression: aws.String(filter),
			ExpressionAttributeNames: map[string]string{
				"#s": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":status": &types.AttributeValueMemberS{Value: string(status)},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan orders: %w", err)
		}

		for _, raw := range out.Items {
			var rec orderRecord
			if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
				return nil, fmt.Errorf("unmarshal order: %w", err)
			}
			o, err := rec.toOrder()
			if err != nil {
				return nil, err
			}
			orders = append(orders, o)
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	// Newest first, the order the admin tabs display.
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// UpdateStatus advances the order with a condition on the expected prior
// status. This is optimistic only: two admins racing on the same order will
// have exactly one update succeed, the other sees ErrStatusConflict.
func (s *OrderStore) UpdateStatus(ctx context.Context, id string, expected, target order.Status, at time.Time) (*order.Order, error) {
	if !order.CanTransition(expected, target) {
		return nil, order.TransitionError(expected, target)
	}

	condition := "#s = :expected"
	if expected == order.StatusPending {
		condition = "attribute_not_exists(#s) OR #s = :expected"
	}

	var stampField string
	switch target {
	case order.StatusConfirmed:
		stampField = "confirmed_at"
	case order.StatusDelivered:
		stampField = "delivered_at"
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:    aws.String(fmt.Sprintf("SET #s = :target, %s = :at", stampField)),
		ConditionExpression: aws.String(condition),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberS{Value: string(expected)},
			":target":   &types.AttributeValueMemberS{Value: string(target)},
			":at":       &types.AttributeValueMemberS{Value: at.Format(time.RFC3339Nano)},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return nil, order.ErrStatusConflict
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	var rec orderRecord
	if err := attributevalue.UnmarshalMap(out.Attributes, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal updated order: %w", err)
	}
	return rec.toOrder()
}

// DeleteAll removes every order in batches. Best effort: a failed batch is
// skipped and the count of deleted orders so far is still returned.
func (s *OrderStore) DeleteAll(ctx context.Context) (int, error) {
	var keys []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue

	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:            aws.String(s.tableName),
			ProjectionExpression: aws.String("id"),
			ExclusiveStartKey:    startKey,
		})
		if err != nil {
			return 0, fmt.Errorf("scan order keys: %w", err)
		}
		keys = append(keys, out.Items...)
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	deleted := 0
	var lastErr error
	for start := 0; start < len(keys); start += batchDeleteSize {
		end := start + batchDeleteSize
		if end > len(keys) {
			end = len(keys)
		}

		requests := make([]types.WriteRequest, 0, end-start)
		for _, key := range keys[start:end] {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{Key: key},
			})
		}

		_, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				s.tableName: requests,
			},
		})
		if err != nil {
			lastErr = err
			continue
		}
		deleted += end - start
	}

	if lastErr != nil {
		return deleted, fmt.Errorf("batch delete orders: %w", lastErr)
	}
	return deleted, nil
}

func fromOrder(o *order.Order) (orderRecord, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return orderRecord{}, fmt.Errorf("marshal order items: %w", err)
	}
	shipping, err := json.Marshal(o.Shipping)
	if err != nil {
		return orderRecord{}, fmt.Errorf("marshal shipping info: %w", err)
	}

	rec := orderRecord{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Items:       string(items),
		Subtotal:    o.Subtotal.String(),
		DeliveryFee: o.DeliveryFee.String(),
		Total:       o.Total.String(),
		Shipping:    string(shipping),
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt.Format(time.RFC3339Nano),
	}
	if o.ConfirmedAt != nil {
		rec.ConfirmedAt = o.ConfirmedAt.Format(time.RFC3339Nano)
	}
	if o.DeliveredAt != nil {
		rec.DeliveredAt = o.DeliveredAt.Format(time.RFC3339Nano)
	}
	return rec, nil
}

func (r orderRecord) toOrder() (*order.Order, error) {
	var items []cart.Line
	if err := json.Unmarshal([]byte(r.Items), &items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	var shipping order.ShippingInfo
	if err := json.Unmarshal([]byte(r.Shipping), &shipping); err != nil {
		return nil, fmt.Errorf("unmarshal shipping info: %w", err)
	}

	subtotal, err := decimal.NewFromString(r.Subtotal)
	if err != nil {
		return nil, errors.New("order has a malformed subtotal")
	}
	fee, err := decimal.NewFromString(r.DeliveryFee)
	if err != nil {
		return nil, errors.New("order has a malformed delivery fee")
	}
	total, err := decimal.NewFromString(r.Total)
	if err != nil {
		return nil, errors.New("order has a malformed total")
	}

	status := order.Status(r.Status)
	if status == "" {
		status = order.StatusPending
	}

	o := &order.Order{
		ID:          r.ID,
		OrderNumber: r.OrderNumber,
		Items:       items,
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       total,
		Shipping:    shipping,
		Status:      status,
	}
	o.CreatedAt, _ = time.Parse(time.RFC3339Nano, r.CreatedAt)
	if r.ConfirmedAt != "" {
		t, err := time.Parse(time.RFC3339Nano, r.ConfirmedAt)
		if err == nil {
			o.ConfirmedAt = &t
		}
	}
	if r.DeliveredAt != "" {
		t, err := time.Parse(time.RFC3339Nano, r.DeliveredAt)
		if err == nil {
			o.DeliveredAt = &t
		}
	}
	return o, nil
}
