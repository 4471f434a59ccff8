package dynamo

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/smart-campus-api/internal/domain"
)

// UserRepo provides typed DynamoDB operations for the users table. Unique
// attributes are reserved in a second table so Create can enforce them
// atomically; the GSIs serve lookups only.
type UserRepo struct {
	client       API
	tableName    string
	uniquesTable string
}

func NewUserRepo(client API, tableName, uniquesTable string) *UserRepo {
	return &UserRepo{client: client, tableName: tableName, uniquesTable: uniquesTable}
}

type uniqueAttr struct {
	field string
	value string
}

func uniqueAttrs(u *domain.User) []uniqueAttr {
	attrs := []uniqueAttr{
		{fieldUsername, u.Username},
		{fieldEmail, u.Email},
	}
	if u.StudentID != "" {
		attrs = append(attrs, uniqueAttr{fieldStudentID, u.StudentID})
	}
	return attrs
}

// Create writes the user and its unique reservations in one transaction.
// A taken username, email or student id yields domain.ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	attrs := uniqueAttrs(u)
	items := make([]types.TransactWriteItem, 0, len(attrs)+1)
	items = append(items, types.TransactWriteItem{Put: &types.Put{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(" + fieldUserID + ")"),
	}})
	for _, a := range attrs {
		items = append(items, types.TransactWriteItem{Put: &types.Put{
			TableName: aws.String(r.uniquesTable),
			Item: map[string]types.AttributeValue{
				fieldUniqueKey: &types.AttributeValueMemberS{Value: uniqueKey(a.field, a.value)},
				fieldUserID:    &types.AttributeValueMemberS{Value: u.UserID},
			},
			ConditionExpression: aws.String("attribute_not_exists(" + fieldUniqueKey + ")"),
		}})
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err == nil {
		return nil
	}
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for i, reason := range tce.CancellationReasons {
			if aws.ToString(reason.Code) != "ConditionalCheckFailed" {
				continue
			}
			if i == 0 {
				return fmt.Errorf("user id %s: %w", u.UserID, domain.ErrConflict)
			}
			return fmt.Errorf("%s already registered: %w", attrs[i-1].field, domain.ErrConflict)
		}
	}
	return err
}

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldUserID, userID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.queryGSI(ctx, indexUsername, fieldUsername, username)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.queryGSI(ctx, indexEmail, fieldEmail, email)
}

func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.reserved(ctx, fieldUsername, username)
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.reserved(ctx, fieldEmail, email)
}

func (r *UserRepo) ExistsByStudentID(ctx context.Context, studentID string) (bool, error) {
	return r.reserved(ctx, fieldStudentID, studentID)
}

// Update applies a partial SET to an existing user.
func (r *UserRepo) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldUserID, userID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(" + fieldUserID + ")"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	return err
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	return r.Update(ctx, userID, map[string]interface{}{fieldLastLoginAt: at.UTC()})
}

// Count scans the table with Select=COUNT, following pagination.
func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
		Select:    types.SelectCount,
	}
	for {
		out, err := r.client.Scan(ctx, input)
		if err != nil {
			return 0, err
		}
		total += int64(out.Count)
		if len(out.LastEvaluatedKey) == 0 {
			return total, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func (r *UserRepo) reserved(ctx context.Context, field, value string) (bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(r.uniquesTable),
		Key:                  strKey(fieldUniqueKey, uniqueKey(field, value)),
		ConsistentRead:       aws.Bool(true),
		ProjectionExpression: aws.String(fieldUniqueKey),
	})
	if err != nil {
		return false, err
	}
	return out.Item != nil, nil
}

func (r *UserRepo) queryGSI(ctx context.Context, index, attr, value string) (*domain.User, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": attr},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: value}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("user with %s %q: %w", attr, value, domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Items[0], &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ScanPage returns a page of users. cursor is a base64-encoded user_id used
// as ExclusiveStartKey; the returned cursor is empty on the last page.
func (r *UserRepo) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
		Limit:     aws.Int32(limit),
	}
	if cursor != "" {
		userID, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", domain.ErrBadRequest)
		}
		input.ExclusiveStartKey = strKey(fieldUserID, userID)
	}
	out, err := r.client.Scan(ctx, input)
	if err != nil {
		return nil, "", err
	}
	users := []domain.User{}
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &users); err != nil {
		return nil, "", err
	}
	next := ""
	if v, ok := out.LastEvaluatedKey[fieldUserID].(*types.AttributeValueMemberS); ok {
		next = encodeCursor(v.Value)
	}
	return users, next, nil
}

func encodeCursor(userID string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(userID))
}

func decodeCursor(cursor string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
