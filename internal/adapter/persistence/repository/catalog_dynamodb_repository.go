package repository

import (
	"context"

	"lia_agent/internal/domain/entities"
	"lia_agent/internal/interpreter"
	"lia_agent/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultCatalogTableName = "menu_index"

// fuzzyFloor is looser than the interpreter's matching floor: this search
// backs the clarification dialog, where the client is already choosing
// from ranked options.
const fuzzyFloor = 0.35

type catalogItem struct {
	TenantID    string  `dynamodbav:"tenant_id"`
	PDVCode     string  `dynamodbav:"pdv_code"`
	ParentCode  string  `dynamodbav:"parent_code"`
	Name        string  `dynamodbav:"name"`
	Category    string  `dynamodbav:"category"`
	Price       float64 `dynamodbav:"price"`
	Type        string  `dynamodbav:"type"`
	Fingerprint string  `dynamodbav:"fingerprint"`
	Available   bool    `dynamodbav:"available"`
}

// CatalogDynamoRepository reads the menu index from DynamoDB. An external
// catalog sync job owns the writes.
//
// Table requirements:
//   - PK: tenant_id (string), SK: pdv_code (string)

type CatalogDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.ICatalogIndex = (*CatalogDynamoRepository)(nil)

func NewCatalogDynamoRepository(ddb *dynamodb.Client) *CatalogDynamoRepository {
	return &CatalogDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("CATALOG_TABLE", defaultCatalogTableName),
	}
}

func (r *CatalogDynamoRepository) SearchIndex(ctx context.Context, tenantID string) ([]entities.MenuItem, error) {
	var items []entities.MenuItem
	var startKey map[string]types.AttributeValue

	for {
		out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			KeyConditionExpression: aws.String("#tenant = :tenant"),
			ExpressionAttributeNames: map[string]string{
				"#tenant": "tenant_id",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":tenant": &types.AttributeValueMemberS{Value: tenantID},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		for _, raw := range out.Items {
			var it catalogItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			items = append(items, fromCatalogItem(it))
		}
		if out.LastEvaluatedKey == nil {
			return items, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func (r *CatalogDynamoRepository) LookupByFingerprint(ctx context.Context, tenantID, fingerprint string) (entities.MenuItem, error) {
	if fingerprint == "" {
		return entities.MenuItem{}, nil
	}
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("#tenant = :tenant"),
		FilterExpression:       aws.String("#fp = :fp AND #available = :true"),
		ExpressionAttributeNames: map[string]string{
			"#tenant":    "tenant_id",
			"#fp":        "fingerprint",
			"#available": "available",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":tenant": &types.AttributeValueMemberS{Value: tenantID},
			":fp":     &types.AttributeValueMemberS{Value: fingerprint},
			":true":   &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		return entities.MenuItem{}, err
	}
	if len(out.Items) == 0 {
		return entities.MenuItem{}, nil
	}

	var it catalogItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &it); err != nil {
		return entities.MenuItem{}, err
	}
	return fromCatalogItem(it), nil
}

// SearchFuzzy ranks the tenant's entries by trigram similarity against
// name. DynamoDB has no similarity operator, so ranking happens in memory
// over the snapshot; tenant menus are small (hundreds of entries).
func (r *CatalogDynamoRepository) SearchFuzzy(ctx context.Context, tenantID, name, scope string) ([]entities.MenuItem, error) {
	snapshot, err := r.SearchIndex(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var pool []entities.MenuItem
	for _, item := range snapshot {
		if !item.Available {
			continue
		}
		switch scope {
		case "product":
			if !item.IsProduct() {
				continue
			}
		case "addition":
			if !item.IsAddition() {
				continue
			}
		}
		pool = append(pool, item)
	}

	names := make([]string, len(pool))
	keys := make([]string, len(pool))
	for i, item := range pool {
		names[i] = item.Name
		keys[i] = item.PDVCode
	}
	ranked := interpreter.RankCandidates(name, names, keys, fuzzyFloor)

	out := make([]entities.MenuItem, 0, len(ranked))
	for _, rc := range ranked {
		out = append(out, pool[rc.Index])
	}
	return out, nil
}

func (r *CatalogDynamoRepository) ModifiersOf(ctx context.Context, tenantID, productCode string) ([]entities.MenuItem, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("#tenant = :tenant"),
		FilterExpression:       aws.String("#parent = :parent AND #type = :addition AND #available = :true"),
		ExpressionAttributeNames: map[string]string{
			"#tenant":    "tenant_id",
			"#parent":    "parent_code",
			"#type":      "type",
			"#available": "available",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":tenant":   &types.AttributeValueMemberS{Value: tenantID},
			":parent":   &types.AttributeValueMemberS{Value: productCode},
			":addition": &types.AttributeValueMemberS{Value: string(entities.MenuItemTypeAddition)},
			":true":     &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		return nil, err
	}

	items := make([]entities.MenuItem, 0, len(out.Items))
	for _, raw := range out.Items {
		var it catalogItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		items = append(items, fromCatalogItem(it))
	}
	return items, nil
}

func fromCatalogItem(it catalogItem) entities.MenuItem {
	fingerprint := it.Fingerprint
	if fingerprint == "" {
		// Older sync runs did not precompute the fingerprint column.
		fingerprint = interpreter.Fingerprint(it.Name)
	}
	return entities.MenuItem{
		PDVCode:     it.PDVCode,
		ParentCode:  it.ParentCode,
		Name:        it.Name,
		Category:    it.Category,
		Price:       it.Price,
		Type:        entities.MenuItemType(it.Type),
		Fingerprint: fingerprint,
		Available:   it.Available,
	}
}
