package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fintrackhq/fintrack-backend/helpers"
	"github.com/fintrackhq/fintrack-backend/models"
)

// Mongo implements Store against a MongoDB database. The client is
// constructed once at startup and injected; Mongo itself is safe for
// concurrent use by request handlers.
type Mongo struct {
	db *mongo.Database
}

func NewMongo(client *mongo.Client, dbName string) *Mongo {
	return &Mongo{db: client.Database(dbName)}
}

var _ Store = (*Mongo)(nil)

func (m *Mongo) transactions() *mongo.Collection {
	return m.db.Collection("transactions")
}

func (m *Mongo) users() *mongo.Collection {
	return m.db.Collection("users")
}

func (m *Mongo) loginCodes() *mongo.Collection {
	return m.db.Collection("login_codes")
}

func (m *Mongo) InsertTransaction(ctx context.Context, tx models.Transaction) error {
	if !CanAccess(tx.UserID, tx, OpCreate) {
		return ErrNotFound
	}

	_, err := m.transactions().InsertOne(ctx, tx)
	return err
}

func (m *Mongo) ListTransactions(ctx context.Context, userID string, opts ListOptions) ([]models.Transaction, int64, error) {
	filter := bson.M{"userId": userID}
	sort := map[string]interface{}{"date": -1}

	findOpts := helpers.NewMongoPaginate(opts.Limit, opts.Page, sort).BuildFindOptions()

	cursor, err := m.transactions().Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var txs []models.Transaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, 0, err
	}

	count, err := m.transactions().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return txs, count, nil
}

// DeleteTransaction issues one delete scoped to both id and owner; the filter
// is the ownership rule. A zero count means the record is missing or owned by
// someone else, and the two are indistinguishable to the caller.
func (m *Mongo) DeleteTransaction(ctx context.Context, id, userID string) error {
	res, err := m.transactions().DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) SummarizeTransactions(ctx context.Context, userID string) (models.Summary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"type": "$type", "category": "$category"},
			"total": bson.M{"$sum": "$amount"},
		}}},
	}

	cursor, err := m.transactions().Aggregate(ctx, pipeline)
	if err != nil {
		return models.Summary{}, err
	}
	defer cursor.Close(ctx)

	var groups []struct {
		ID struct {
			Type     models.TransactionType `bson:"type"`
			Category string                 `bson:"category"`
		} `bson:"_id"`
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return models.Summary{}, err
	}

	summary := models.Summary{ExpensesByCategory: make(map[string]float64)}
	for _, g := range groups {
		switch g.ID.Type {
		case models.Income:
			summary.TotalIncome += g.Total
		case models.Expense:
			summary.TotalExpense += g.Total
			summary.ExpensesByCategory[g.ID.Category] += g.Total
		}
	}
	summary.Balance = summary.TotalIncome - summary.TotalExpense

	return summary, nil
}

func (m *Mongo) UpsertUserByEmail(ctx context.Context, email string) (models.User, error) {
	update := bson.M{"$setOnInsert": bson.M{
		"_id":       newUserID(),
		"email":     email,
		"createdAt": nowUTC(),
	}}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var user models.User
	if err := m.users().FindOneAndUpdate(ctx, bson.M{"email": email}, update, opts).Decode(&user); err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (m *Mongo) GetUserByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := m.users().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (m *Mongo) SetPlaidAccessToken(ctx context.Context, userID, token string) error {
	res, err := m.users().UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"plaidAccessToken": token}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) SaveLoginCode(ctx context.Context, code models.LoginCode) error {
	opts := options.Replace().SetUpsert(true)
	_, err := m.loginCodes().ReplaceOne(ctx, bson.M{"_id": code.Email}, code, opts)
	return err
}

func (m *Mongo) GetLoginCode(ctx context.Context, email string) (models.LoginCode, error) {
	var code models.LoginCode
	err := m.loginCodes().FindOne(ctx, bson.M{"_id": email}).Decode(&code)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.LoginCode{}, ErrNotFound
	}
	if err != nil {
		return models.LoginCode{}, err
	}
	return code, nil
}

func (m *Mongo) DeleteLoginCode(ctx context.Context, email string) error {
	_, err := m.loginCodes().DeleteOne(ctx, bson.M{"_id": email})
	return err
}

func newUserID() string {
	return uuid.NewString()
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
