package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"lia_agent/internal/domain/entities"
	"lia_agent/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultQueueTableName = "queue_entries"

type queueItem struct {
	EntryKey       string `dynamodbav:"entry_key"`
	TenantID       string `dynamodbav:"tenant_id"`
	ConversationID string `dynamodbav:"conversation_id"`
	MessageID      string `dynamodbav:"message_id"`
	Payload        string `dynamodbav:"payload"`
	Status         string `dynamodbav:"status"`
	Priority       int    `dynamodbav:"priority"`
	Attempts       int    `dynamodbav:"attempts"`
	MaxAttempts    int    `dynamodbav:"max_attempts"`
	LockOwner      string `dynamodbav:"lock_owner"`
	LockExpiresAt  string `dynamodbav:"lock_expires_at"`
	LastError      string `dynamodbav:"last_error"`
	EnqueuedAt     string `dynamodbav:"enqueued_at"`
	UpdatedAt      string `dynamodbav:"updated_at"`
}

// QueueDynamoRepository persists inbound queue entries in DynamoDB.
//
// Table requirements:
//   - PK: entry_key (string) = tenant#conversation#message_id
//
// The message id inside the PK makes webhook redeliveries collide on the
// conditional insert, and conditional updates on status/lock make claims
// atomic: of N concurrent claimers exactly one wins.

type QueueDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IQueueRepository = (*QueueDynamoRepository)(nil)

func NewQueueDynamoRepository(ddb *dynamodb.Client) *QueueDynamoRepository {
	return &QueueDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("QUEUE_TABLE", defaultQueueTableName),
	}
}

func (r *QueueDynamoRepository) Insert(ctx context.Context, e entities.QueueEntry) (bool, error) {
	av, err := attributevalue.MarshalMap(toQueueItem(e))
	if err != nil {
		return false, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#k)"),
		ExpressionAttributeNames: map[string]string{
			"#k": "entry_key",
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *QueueDynamoRepository) ClaimNext(ctx context.Context, workerID string, lease time.Duration) (*entities.QueueEntry, error) {
	now := time.Now().UTC()
	candidates, err := r.scanClaimable(ctx, now)
	if err != nil {
		return nil, err
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority > candidates[j].Priority
		}
		return candidates[i].EnqueuedAt.Before(candidates[j].EnqueuedAt)
	})

	for _, c := range candidates {
		claimed, err := r.claim(ctx, c, workerID, now, lease, true)
		if err != nil {
			return nil, err
		}
		if claimed != nil {
			return claimed, nil
		}
		// Lost the race for this one; try the next.
	}
	return nil, nil
}

// ClaimConversationPending gathers the conversation's claimable siblings:
// pending entries plus processing ones whose lease expired. The expired
// ones matter after a crash between applying a turn and marking its
// entries done — re-claiming them rebuilds the same batch, which the turn
// layer then recognizes as already applied instead of re-running each
// sibling as a fresh turn.
func (r *QueueDynamoRepository) ClaimConversationPending(ctx context.Context, tenantID, conversationID, workerID string, lease time.Duration) ([]entities.QueueEntry, error) {
	now := time.Now().UTC()
	out, err := r.ddb.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("#tenant = :tenant AND #conv = :conv AND (#status = :pending OR (#status = :processing AND #lock_expires_at < :now))"),
		ExpressionAttributeNames: map[string]string{
			"#tenant":          "tenant_id",
			"#conv":            "conversation_id",
			"#status":          "status",
			"#lock_expires_at": "lock_expires_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":tenant":     &types.AttributeValueMemberS{Value: tenantID},
			":conv":       &types.AttributeValueMemberS{Value: conversationID},
			":pending":    &types.AttributeValueMemberS{Value: string(entities.QueueStatusPending)},
			":processing": &types.AttributeValueMemberS{Value: string(entities.QueueStatusProcessing)},
			":now":        &types.AttributeValueMemberS{Value: formatTime(now)},
		},
	})
	if err != nil {
		return nil, err
	}

	entries, err := unmarshalQueueItems(out.Items)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].EnqueuedAt.Before(entries[j].EnqueuedAt)
	})

	var claimed []entities.QueueEntry
	for _, e := range entries {
		c, err := r.claim(ctx, e, workerID, now, lease, true)
		if err != nil {
			return claimed, err
		}
		if c != nil {
			claimed = append(claimed, *c)
		}
	}
	return claimed, nil
}

func (r *QueueDynamoRepository) MarkDone(ctx context.Context, e entities.QueueEntry) error {
	return r.updateStatus(ctx, e.Key(), func(now string) (string, map[string]types.AttributeValue, map[string]string) {
		expr := "SET #status = :status, #updated_at = :updated_at"
		vals := map[string]types.AttributeValue{
			":status":     &types.AttributeValueMemberS{Value: string(entities.QueueStatusDone)},
			":updated_at": &types.AttributeValueMemberS{Value: now},
		}
		names := map[string]string{
			"#status":     "status",
			"#updated_at": "updated_at",
		}
		return expr, vals, names
	})
}

func (r *QueueDynamoRepository) ResetPending(ctx context.Context, e entities.QueueEntry, lastError string) error {
	return r.updateStatus(ctx, e.Key(), func(now string) (string, map[string]types.AttributeValue, map[string]string) {
		expr := "SET #status = :status, #attempts = :attempts, #last_error = :last_error, #lock_owner = :empty, #lock_expires_at = :empty, #updated_at = :updated_at"
		vals := map[string]types.AttributeValue{
			":status":     &types.AttributeValueMemberS{Value: string(entities.QueueStatusPending)},
			":attempts":   &types.AttributeValueMemberN{Value: intToString(e.Attempts)},
			":last_error": &types.AttributeValueMemberS{Value: lastError},
			":empty":      &types.AttributeValueMemberS{Value: ""},
			":updated_at": &types.AttributeValueMemberS{Value: now},
		}
		names := map[string]string{
			"#status":          "status",
			"#attempts":        "attempts",
			"#last_error":      "last_error",
			"#lock_owner":      "lock_owner",
			"#lock_expires_at": "lock_expires_at",
			"#updated_at":      "updated_at",
		}
		return expr, vals, names
	})
}

func (r *QueueDynamoRepository) MarkError(ctx context.Context, e entities.QueueEntry, lastError string) error {
	return r.updateStatus(ctx, e.Key(), func(now string) (string, map[string]types.AttributeValue, map[string]string) {
		expr := "SET #status = :status, #attempts = :attempts, #last_error = :last_error, #updated_at = :updated_at"
		vals := map[string]types.AttributeValue{
			":status":     &types.AttributeValueMemberS{Value: string(entities.QueueStatusError)},
			":attempts":   &types.AttributeValueMemberN{Value: intToString(e.Attempts)},
			":last_error": &types.AttributeValueMemberS{Value: lastError},
			":updated_at": &types.AttributeValueMemberS{Value: now},
		}
		names := map[string]string{
			"#status":     "status",
			"#attempts":   "attempts",
			"#last_error": "last_error",
			"#updated_at": "updated_at",
		}
		return expr, vals, names
	})
}

// scanClaimable lists pending entries plus processing entries whose lease
// expired (worker died mid-turn).
func (r *QueueDynamoRepository) scanClaimable(ctx context.Context, now time.Time) ([]entities.QueueEntry, error) {
	out, err := r.ddb.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("#status = :pending OR (#status = :processing AND #lock_expires_at < :now)"),
		ExpressionAttributeNames: map[string]string{
			"#status":          "status",
			"#lock_expires_at": "lock_expires_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pending":    &types.AttributeValueMemberS{Value: string(entities.QueueStatusPending)},
			":processing": &types.AttributeValueMemberS{Value: string(entities.QueueStatusProcessing)},
			":now":        &types.AttributeValueMemberS{Value: formatTime(now)},
		},
	})
	if err != nil {
		return nil, err
	}
	return unmarshalQueueItems(out.Items)
}

// claim stamps worker/lease on one entry with a condition that it is still
// claimable. Returns nil (no error) when another worker won the race.
func (r *QueueDynamoRepository) claim(ctx context.Context, e entities.QueueEntry, workerID string, now time.Time, lease time.Duration, allowExpired bool) (*entities.QueueEntry, error) {
	condition := "#status = :pending"
	vals := map[string]types.AttributeValue{
		":pending":         &types.AttributeValueMemberS{Value: string(entities.QueueStatusPending)},
		":processing":      &types.AttributeValueMemberS{Value: string(entities.QueueStatusProcessing)},
		":owner":           &types.AttributeValueMemberS{Value: workerID},
		":lock_expires_at": &types.AttributeValueMemberS{Value: formatTime(now.Add(lease))},
		":updated_at":      &types.AttributeValueMemberS{Value: formatTime(now)},
	}
	if allowExpired {
		condition = "#status = :pending OR (#status = :processing AND #lock_expires_at < :now)"
		vals[":now"] = &types.AttributeValueMemberS{Value: formatTime(now)}
	}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"entry_key": &types.AttributeValueMemberS{Value: e.Key()},
		},
		ConditionExpression:       aws.String(condition),
		UpdateExpression:          aws.String("SET #status = :processing, #lock_owner = :owner, #lock_expires_at = :lock_expires_at, #updated_at = :updated_at"),
		ExpressionAttributeValues: vals,
		ExpressionAttributeNames: map[string]string{
			"#status":          "status",
			"#lock_owner":      "lock_owner",
			"#lock_expires_at": "lock_expires_at",
			"#updated_at":      "updated_at",
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return nil, nil
		}
		return nil, err
	}

	var it queueItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return nil, err
	}
	claimed := fromQueueItem(it)
	return &claimed, nil
}

func (r *QueueDynamoRepository) updateStatus(
	ctx context.Context,
	key string,
	build func(now string) (updateExpr string, values map[string]types.AttributeValue, names map[string]string),
) error {
	now := formatTime(time.Now().UTC())
	updateExpr, values, names := build(now)

	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"entry_key": &types.AttributeValueMemberS{Value: key},
		},
		ConditionExpression:       aws.String("attribute_exists(#k)"),
		UpdateExpression:          aws.String(updateExpr),
		ExpressionAttributeValues: values,
		ExpressionAttributeNames:  mergeNames(names, map[string]string{"#k": "entry_key"}),
	})
	return err
}

func unmarshalQueueItems(items []map[string]types.AttributeValue) ([]entities.QueueEntry, error) {
	entries := make([]entities.QueueEntry, 0, len(items))
	for _, raw := range items {
		var it queueItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		entries = append(entries, fromQueueItem(it))
	}
	return entries, nil
}

func toQueueItem(e entities.QueueEntry) queueItem {
	return queueItem{
		EntryKey:       e.Key(),
		TenantID:       e.TenantID,
		ConversationID: e.ConversationID,
		MessageID:      e.MessageID,
		Payload:        e.Payload,
		Status:         string(e.Status),
		Priority:       e.Priority,
		Attempts:       e.Attempts,
		MaxAttempts:    e.MaxAttempts,
		LockOwner:      e.LockOwner,
		LockExpiresAt:  formatTime(e.LockExpiresAt),
		LastError:      e.LastError,
		EnqueuedAt:     formatTime(e.EnqueuedAt),
		UpdatedAt:      formatTime(e.UpdatedAt),
	}
}

func fromQueueItem(it queueItem) entities.QueueEntry {
	return entities.QueueEntry{
		TenantID:       it.TenantID,
		ConversationID: it.ConversationID,
		MessageID:      it.MessageID,
		Payload:        it.Payload,
		Status:         entities.QueueStatus(it.Status),
		Priority:       it.Priority,
		Attempts:       it.Attempts,
		MaxAttempts:    it.MaxAttempts,
		LockOwner:      it.LockOwner,
		LockExpiresAt:  parseTime(it.LockExpiresAt),
		LastError:      it.LastError,
		EnqueuedAt:     parseTime(it.EnqueuedAt),
		UpdatedAt:      parseTime(it.UpdatedAt),
	}
}
