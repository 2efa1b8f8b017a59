package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spendwise/expense-api/internal/core/domain"
	"github.com/spendwise/expense-api/internal/core/ports"
)

const collectionExpenses = "expenses"

type ExpenseRepository struct {
	col *mongo.Collection
}

func NewExpenseRepository(db *mongo.Database) *ExpenseRepository {
	return &ExpenseRepository{col: db.Collection(collectionExpenses)}
}

// mongoExpense is the persisted shape of an expense document.
type mongoExpense struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	UserID        string             `bson:"user_id"`
	Title         string             `bson:"title"`
	Amount        float64            `bson:"amount"`
	Category      string             `bson:"category"`
	Date          time.Time          `bson:"date"`
	Notes         string             `bson:"notes"`
	PaymentMethod string             `bson:"payment_method"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func (m *mongoExpense) toDomain() *domain.Expense {
	return &domain.Expense{
		ID:            m.ID.Hex(),
		UserID:        m.UserID,
		Title:         m.Title,
		Amount:        m.Amount,
		Category:      domain.Category(m.Category),
		Date:          m.Date.UTC(),
		Notes:         m.Notes,
		PaymentMethod: domain.PaymentMethod(m.PaymentMethod),
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

// Create inserts a new expense document and returns it with the generated id.
func (r *ExpenseRepository) Create(ctx context.Context, e *domain.Expense) (*domain.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoExpense{
		UserID:        e.UserID,
		Title:         e.Title,
		Amount:        e.Amount,
		Category:      string(e.Category),
		Date:          e.Date.UTC(),
		Notes:         e.Notes,
		PaymentMethod: string(e.PaymentMethod),
		CreatedAt:     e.CreatedAt.UTC(),
		UpdatedAt:     e.UpdatedAt.UTC(),
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert expense: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

// ownerFilter builds the id+owner filter shared by Get/Update/Delete.
// A malformed id behaves like a missing record.
func ownerFilter(id, userID string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrExpenseNotFound
	}
	return bson.M{"_id": oid, "user_id": userID}, nil
}

func (r *ExpenseRepository) FindByID(ctx context.Context, id, userID string) (*domain.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := ownerFilter(id, userID)
	if err != nil {
		return nil, err
	}

	var doc mongoExpense
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("find expense: %w", err)
	}
	return doc.toDomain(), nil
}

// listFilter translates an ExpenseFilter into a bson query.
func listFilter(f ports.ExpenseFilter) bson.M {
	filter := bson.M{"user_id": f.UserID}
	if f.Category != "" {
		filter["category"] = string(f.Category)
	}
	dateRange := bson.M{}
	if !f.DateFrom.IsZero() {
		dateRange["$gte"] = f.DateFrom.UTC()
	}
	if !f.DateTo.IsZero() {
		dateRange["$lte"] = f.DateTo.UTC()
	}
	if len(dateRange) > 0 {
		filter["date"] = dateRange
	}
	return filter
}

// List returns the matching page and the total match count.
func (r *ExpenseRepository) List(ctx context.Context, f ports.ExpenseFilter) ([]*domain.Expense, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := listFilter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count expenses: %w", err)
	}

	direction := -1
	if f.SortAsc {
		direction = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: f.SortBy, Value: direction}})
	if f.Limit > 0 {
		opts.SetSkip(int64((f.Page - 1) * f.Limit)).SetLimit(int64(f.Limit))
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find expenses: %w", err)
	}
	defer cur.Close(ctx)

	var items []*domain.Expense
	for cur.Next(ctx) {
		var doc mongoExpense
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode expense: %w", err)
		}
		items = append(items, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate expenses: %w", err)
	}
	return items, total, nil
}

// SumAmount folds the filtered set's amount with a single $group stage,
// ignoring pagination.
func (r *ExpenseRepository) SumAmount(ctx context.Context, f ports.ExpenseFilter) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: listFilter(f)}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("sum expenses: %w", err)
	}
	defer cur.Close(ctx)

	var row struct {
		Total float64 `bson:"total"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&row); err != nil {
			return 0, fmt.Errorf("decode sum: %w", err)
		}
	}
	return row.Total, cur.Err()
}

// Update applies the patch via a single findAndModify, returning the updated
// document. Only fields present in the patch are written.
func (r *ExpenseRepository) Update(ctx context.Context, id, userID string, patch ports.ExpensePatch, now time.Time) (*domain.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := ownerFilter(id, userID)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": now.UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Amount != nil {
		set["amount"] = *patch.Amount
	}
	if patch.Category != nil {
		set["category"] = string(*patch.Category)
	}
	if patch.Date != nil {
		set["date"] = patch.Date.UTC()
	}
	if patch.Notes != nil {
		set["notes"] = *patch.Notes
	}
	if patch.PaymentMethod != nil {
		set["payment_method"] = string(*patch.PaymentMethod)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoExpense
	err = r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return doc.toDomain(), nil
}

// Delete removes the record and returns the deleted document.
func (r *ExpenseRepository) Delete(ctx context.Context, id, userID string) (*domain.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := ownerFilter(id, userID)
	if err != nil {
		return nil, err
	}

	var doc mongoExpense
	if err := r.col.FindOneAndDelete(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("delete expense: %w", err)
	}
	return doc.toDomain(), nil
}

// FindForReport fetches all matching rows sorted by date descending for the
// in-memory report fold.
func (r *ExpenseRepository) FindForReport(ctx context.Context, userID string, category domain.Category, from, to time.Time) ([]*domain.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := listFilter(ports.ExpenseFilter{
		UserID:   userID,
		Category: category,
		DateFrom: from,
		DateTo:   to,
	})
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find report expenses: %w", err)
	}
	defer cur.Close(ctx)

	var items []*domain.Expense
	for cur.Next(ctx) {
		var doc mongoExpense
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode expense: %w", err)
		}
		items = append(items, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate report expenses: %w", err)
	}
	return items, nil
}

// EnsureIndexes creates the owner-scoped indexes on the expenses collection.
func (r *ExpenseRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "category", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
