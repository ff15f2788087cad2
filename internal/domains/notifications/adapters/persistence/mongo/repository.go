// Package mongo stores notifications as documents in MongoDB.
package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Apurer/courier-api/internal/domains/notifications/domain"
	"github.com/Apurer/courier-api/internal/domains/notifications/ports"
)

// CollectionName is the collection holding notification documents.
const CollectionName = "notifications"

var _ ports.Repository = (*Repository)(nil)

// Repository persists notifications in a MongoDB collection.
type Repository struct {
	collection *mongo.Collection
}

// NewRepository binds the repository to the notifications collection of db
// and ensures the listing index exists.
func NewRepository(ctx context.Context, db *mongo.Database) (*Repository, error) {
	if db == nil {
		return nil, errors.New("mongo database is nil")
	}
	collection := db.Collection(CollectionName)
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "targetId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return nil, err
	}
	return &Repository{collection: collection}, nil
}

func (r *Repository) Save(ctx context.Context, notification *domain.Notification) error {
	if notification == nil {
		return errors.New("notification is nil")
	}
	_, err := r.collection.InsertOne(ctx, notification)
	return err
}

func (r *Repository) List(ctx context.Context, filter ports.Filter) ([]*domain.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, toBSONFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	list := make([]*domain.Notification, 0)
	for cursor.Next(ctx) {
		var n domain.Notification
		if err := cursor.Decode(&n); err != nil {
			return nil, err
		}
		list = append(list, &n)
	}
	return list, cursor.Err()
}

func (r *Repository) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var n domain.Notification
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"isRead": true}},
		opts,
	).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *Repository) DeleteAll(ctx context.Context, filter ports.Filter) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, toBSONFilter(filter))
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func toBSONFilter(filter ports.Filter) bson.M {
	if filter.TargetID == "" {
		return bson.M{}
	}
	return bson.M{"targetId": filter.TargetID}
}
