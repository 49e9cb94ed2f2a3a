package inquiry

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
	inquiries  *mongo.Collection
	properties *mongo.Collection
	users      *mongo.Collection
}

func NewMongoStore(inquiries, properties, users *mongo.Collection) Store {
	return &mongoStore{inquiries: inquiries, properties: properties, users: users}
}

func (m *mongoStore) PropertyByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
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

func (m *mongoStore) HasOpenInquiry(ctx context.Context, propertyID, inquirerID primitive.ObjectID) (bool, error) {
	count, err := m.inquiries.CountDocuments(ctx, bson.M{
		"property": propertyID,
		"inquirer": inquirerID,
		"status":   bson.M{"$in": models.OpenInquiryStatuses},
	})
	return count > 0, err
}

func (m *mongoStore) Insert(ctx context.Context, inq *models.Inquiry) error {
	_, err := m.inquiries.InsertOne(ctx, inq)
	// A concurrent creator loses the race at the partial unique index.
	if mongo.IsDuplicateKeyError(err) {
		return apperr.Conflict("You already have an active inquiry for this property")
	}
	if err != nil {
		return apperr.Dependency("failed to create inquiry", err)
	}
	return nil
}

func (m *mongoStore) ByID(ctx context.Context, id primitive.ObjectID) (*models.Inquiry, error) {
	var inq models.Inquiry
	err := m.inquiries.FindOne(ctx, bson.M{"_id": id}).Decode(&inq)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("Inquiry not found")
	}
	if err != nil {
		return nil, apperr.Dependency("failed to fetch inquiry", err)
	}
	return &inq, nil
}

func (m *mongoStore) Update(ctx context.Context, inq *models.Inquiry) error {
	_, err := m.inquiries.ReplaceOne(ctx, bson.M{"_id": inq.ID}, inq)
	return err
}

func (m *mongoStore) List(ctx context.Context, query bson.M, skip, limit int64) ([]models.Inquiry, int64, error) {
	total, err := m.inquiries.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cursor, err := m.inquiries.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var inquiries []models.Inquiry
	if err := cursor.All(ctx, &inquiries); err != nil {
		return nil, 0, err
	}
	return inquiries, total, nil
}

func (m *mongoStore) UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := m.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Dependency("failed to fetch user", err)
	}
	user.Password = ""
	return &user, nil
}
