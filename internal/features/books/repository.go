package books

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperr "github.com/xyz-asif/bookshelf/pkg/errors"
)

// Repository owns the books collection and, for the ownership list
// side-effects of create/delete, a handle on the users collection.
type Repository struct {
	collection *mongo.Collection
	users      *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("books")

	// Sparse index on isbn declares uniqueness intent without
	// enforcing it; the API layer does not check it either.
	collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "isbn", Value: 1}}, Options: options.Index().SetSparse(true)},
	})

	return &Repository{
		collection: collection,
		users:      db.Collection("users"),
	}
}

// Create inserts the book and appends its id to the owner's
// collection list.
func (r *Repository) Create(ctx context.Context, book *Book) error {
	now := time.Now()
	book.CreatedAt = now
	book.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, book)
	if err != nil {
		return err
	}
	book.ID = result.InsertedID.(primitive.ObjectID)

	_, err = r.users.UpdateOne(ctx,
		bson.M{"_id": book.UserID},
		bson.M{"$push": bson.M{"collectionBooks": book.ID}},
	)
	return err
}

// GetByID fetches a book without an ownership filter; callers decide
// between not-found and access-denied so non-owners never learn fields.
func (r *Repository) GetByID(ctx context.Context, id string) (*Book, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.ErrInvalidID
	}

	var book Book
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&book)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &book, nil
}

// Search runs a case-insensitive substring match over title, author and
// description, plus an exact price match when the query is numeric,
// scoped to the owner. Results come back newest-created-first.
func (r *Repository) Search(ctx context.Context, ownerID primitive.ObjectID, query string, skip, limit int64) ([]Book, int64, error) {
	filter := searchFilter(ownerID, query)

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var results []Book
	if err := cursor.All(ctx, &results); err != nil {
		return nil, 0, err
	}
	if results == nil {
		results = []Book{}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

func searchFilter(ownerID primitive.ObjectID, query string) bson.M {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}

	or := []bson.M{
		{"title": pattern},
		{"author": pattern},
		{"description": pattern},
	}

	// A numeric query additionally matches the exact price.
	if d, err := primitive.ParseDecimal128(query); err == nil {
		or = append(or, bson.M{"price": d})
	}

	return bson.M{"user": ownerID, "$or": or}
}

// Update applies a partial $set to a book. The caller has already
// checked existence and ownership.
func (r *Repository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updatedAt"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Delete removes the book and pulls its id from the owner's collection
// list. The two writes are not atomic; the book is removed first so a
// failed pull leaves only a dangling id, which the collection read path
// reconciles.
func (r *Repository) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperr.ErrNotFound
	}

	_, err = r.users.UpdateOne(ctx,
		bson.M{"_id": ownerID},
		bson.M{"$pull": bson.M{"collectionBooks": id}},
	)
	return err
}
