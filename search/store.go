package search

import (
	"context"

	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/apperr"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoStore struct {
	properties *mongo.Collection
	users      *mongo.Collection
}

// NewMongoStore wires the search service to the property and user
// collections.
func NewMongoStore(properties, users *mongo.Collection) Store {
	return &mongoStore{properties: properties, users: users}
}

func (m *mongoStore) Count(ctx context.Context, query bson.M) (int64, error) {
	return m.properties.CountDocuments(ctx, query)
}

func (m *mongoStore) Find(ctx context.Context, query bson.M, sort bson.D, skip, limit int64) ([]models.Property, error) {
	opts := options.Find().SetSkip(skip).SetLimit(limit)
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	cursor, err := m.properties.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var properties []models.Property
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

func (m *mongoStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	var property models.Property
	err := m.properties.FindOne(ctx, bson.M{"_id": id}).Decode(&property)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("Property not found")
	}
	if err != nil {
		return nil, apperr.Dependency("failed to fetch property", err)
	}
	return &property, nil
}

func (m *mongoStore) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := m.properties.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	return err
}

func (m *mongoStore) UsersByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	cursor, err := m.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := make(map[primitive.ObjectID]models.User, len(ids))
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			continue
		}
		user.Password = ""
		users[user.ID] = user
	}
	return users, cursor.Err()
}
