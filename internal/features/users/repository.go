package users

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xyz-asif/bookshelf/internal/features/books"
	apperr "github.com/xyz-asif/bookshelf/pkg/errors"
)

// Repository owns the users collection plus a read handle on books for
// resolving a user's collection page.
type Repository struct {
	collection *mongo.Collection
	books      *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("users")

	collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})

	return &Repository{
		collection: collection,
		books:      db.Collection("books"),
	}
}

func (r *Repository) Create(ctx context.Context, user *User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.CollectionBooks == nil {
		user.CollectionBooks = []primitive.ObjectID{}
	}

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.ErrUsernameTaken
		}
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

// FindByUsername returns nil without error when no user matches.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.ErrInvalidID
	}

	var user User
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"password": passwordHash, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperr.ErrUserNotFound
	}
	return nil
}

// CollectionPage fetches one sorted page of the user's owned books.
func (r *Repository) CollectionPage(ctx context.Context, ids []primitive.ObjectID, sortBy string, sortOrder int, skip, limit int64) ([]books.Book, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: sortOrder}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.books.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []books.Book
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if results == nil {
		results = []books.Book{}
	}
	return results, nil
}

// PruneCollection drops dangling ids from a user's collection list,
// healing the gap left when a book delete succeeded but the list pull
// did not. It returns the surviving ids in their original order.
func (r *Repository) PruneCollection(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) ([]primitive.ObjectID, error) {
	if len(ids) == 0 {
		return ids, nil
	}

	cursor, err := r.books.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"_id": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	existing := make(map[primitive.ObjectID]bool, len(ids))
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		existing[doc.ID] = true
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	kept := ids[:0:0]
	var dangling []primitive.ObjectID
	for _, id := range ids {
		if existing[id] {
			kept = append(kept, id)
		} else {
			dangling = append(dangling, id)
		}
	}
	if len(dangling) == 0 {
		return kept, nil
	}

	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"collectionBooks": bson.M{"$in": dangling}}},
	)
	if err != nil {
		return nil, err
	}
	return kept, nil
}
