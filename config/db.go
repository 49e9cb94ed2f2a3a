package config

import (
	"context"
	"log/slog"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var DB *mongo.Database

func ConnectDB() error {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "landover"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return err
	}

	DB = client.Database(dbName)
	slog.Info("connected to mongodb", "database", dbName)
	return nil
}

func GetCollection(name string) *mongo.Collection {
	return DB.Collection(name)
}

// EnsureIndexes creates the indexes the query paths rely on. Safe to run on
// every startup; Mongo treats existing definitions as a no-op.
func EnsureIndexes(ctx context.Context) error {
	properties := GetCollection(CollectionProperties())
	inquiries := GetCollection(CollectionInquiries())
	users := GetCollection(CollectionUsers())
	wishlist := GetCollection(CollectionWishlist())

	_, err := properties.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "propertyType", Value: 1}}},
		{Keys: bson.D{{Key: "location.city", Value: 1}, {Key: "location.state", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "owner", Value: 1}}},
		{Keys: bson.D{{Key: "featured", Value: -1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{
			{Key: "title", Value: "text"},
			{Key: "description", Value: "text"},
			{Key: "location.address", Value: "text"},
			{Key: "location.city", Value: "text"},
		}},
	})
	if err != nil {
		return err
	}

	// The partial unique index is what actually enforces "one open inquiry
	// per (inquirer, property)" when two creates race.
	_, err = inquiries.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "property", Value: 1}, {Key: "inquirer", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"open": true}),
		},
		{Keys: bson.D{{Key: "propertyOwner", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "inquirer", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = wishlist.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "propertyId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func collectionName(envKey, fallback string) string {
	if name := os.Getenv(envKey); name != "" {
		return name
	}
	return fallback
}

func CollectionProperties() string {
	return collectionName("MONGODB_COLLECTION_PROPERTIES", "properties")
}

func CollectionInquiries() string {
	return collectionName("MONGODB_COLLECTION_INQUIRIES", "inquiries")
}

func CollectionUsers() string {
	return collectionName("MONGODB_COLLECTION_USER", "user")
}

func CollectionWishlist() string {
	return collectionName("MONGODB_COLLECTION_WISHLIST", "wishlist")
}
