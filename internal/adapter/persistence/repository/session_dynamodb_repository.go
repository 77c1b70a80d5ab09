package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"lia_agent/internal/domain/entities"
	"lia_agent/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultSessionsTableName = "sessions"

// ErrActiveSessionExists is returned when a conversation already has an
// active session; the caller should load that one instead.
var ErrActiveSessionExists = errors.New("active session already exists")

type sessionItem struct {
	SessionKey string `dynamodbav:"session_key"`
	ID         string `dynamodbav:"id"`
	TenantID   string `dynamodbav:"tenant_id"`
	ConvID     string `dynamodbav:"conversation_id"`
	Status     string `dynamodbav:"status"`
	State      string `dynamodbav:"state"`
	// Document is the full session serialized as JSON. The flat columns
	// above exist for filters and the debug API; the document is the
	// source of truth on read.
	Document       string `dynamodbav:"document"`
	UpdatedAt      string `dynamodbav:"updated_at"`
	LastActivityAt string `dynamodbav:"last_activity_at"`
}

// SessionDynamoRepository persists conversation sessions in DynamoDB.
//
// Table requirements:
//   - PK: session_key (string)
//
// The active record's key is tenant#conversation, so the conditional
// insert enforces at most one active session per conversation. Archived
// sessions move to a tenant#conversation#closed#id key, freeing the
// active slot.

type SessionDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.ISessionRepository = (*SessionDynamoRepository)(nil)

func NewSessionDynamoRepository(ddb *dynamodb.Client) *SessionDynamoRepository {
	return &SessionDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("SESSIONS_TABLE", defaultSessionsTableName),
	}
}

func activeKey(tenantID, conversationID string) string {
	return tenantID + "#" + conversationID
}

func archiveKey(s entities.Session) string {
	return s.TenantID + "#" + s.ConversationID + "#closed#" + s.ID
}

func (r *SessionDynamoRepository) GetActive(ctx context.Context, tenantID, conversationID string) (entities.Session, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"session_key": &types.AttributeValueMemberS{Value: activeKey(tenantID, conversationID)},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Session{}, err
	}
	if len(out.Item) == 0 {
		return entities.Session{}, nil
	}

	var it sessionItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Session{}, err
	}
	return fromSessionItem(it)
}

func (r *SessionDynamoRepository) CreateActive(ctx context.Context, s entities.Session) (entities.Session, error) {
	it, err := toSessionItem(s, activeKey(s.TenantID, s.ConversationID))
	if err != nil {
		return entities.Session{}, err
	}
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return entities.Session{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#k)"),
		ExpressionAttributeNames: map[string]string{
			"#k": "session_key",
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Session{}, ErrActiveSessionExists
		}
		return entities.Session{}, err
	}
	return s, nil
}

func (r *SessionDynamoRepository) Save(ctx context.Context, s entities.Session) error {
	it, err := toSessionItem(s, activeKey(s.TenantID, s.ConversationID))
	if err != nil {
		return err
	}
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	return err
}

// Archive writes the closed session under its archive key, then frees the
// active slot. Losing the delete (crash in between) is harmless: the next
// Archive of the slot overwrites nothing and delete is idempotent.
func (r *SessionDynamoRepository) Archive(ctx context.Context, s entities.Session) error {
	it, err := toSessionItem(s, archiveKey(s))
	if err != nil {
		return err
	}
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return err
	}
	if _, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		return err
	}

	_, err = r.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"session_key": &types.AttributeValueMemberS{Value: activeKey(s.TenantID, s.ConversationID)},
		},
	})
	return err
}

func toSessionItem(s entities.Session, key string) (sessionItem, error) {
	doc, err := json.Marshal(s)
	if err != nil {
		return sessionItem{}, fmt.Errorf("marshal session %s: %w", s.ID, err)
	}
	return sessionItem{
		SessionKey:     key,
		ID:             s.ID,
		TenantID:       s.TenantID,
		ConvID:         s.ConversationID,
		Status:         string(s.Status),
		State:          s.State,
		Document:       string(doc),
		UpdatedAt:      formatTime(s.UpdatedAt),
		LastActivityAt: formatTime(s.LastActivityAt),
	}, nil
}

func fromSessionItem(it sessionItem) (entities.Session, error) {
	var s entities.Session
	if err := json.Unmarshal([]byte(it.Document), &s); err != nil {
		return entities.Session{}, fmt.Errorf("unmarshal session %s: %w", it.ID, err)
	}
	return s, nil
}
