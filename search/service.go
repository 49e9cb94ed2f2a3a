package search

import (
	"context"
	"log/slog"

	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/apperr"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is the storage surface the search service needs. The Mongo
// implementation lives in store.go; tests substitute a fake.
type Store interface {
	Count(ctx context.Context, query bson.M) (int64, error)
	Find(ctx context.Context, query bson.M, sort bson.D, skip, limit int64) ([]models.Property, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	UsersByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)
}

type Result struct {
	Properties []models.PropertyListing `json:"properties"`
	Pagination Pagination               `json:"pagination"`
}

type Service struct {
	store Store
	log   *slog.Logger
}

func NewService(store Store, log *slog.Logger) *Service {
	return &Service{store: store, log: log}
}

// List executes count and fetch against the same rendered query so the
// pagination metadata always describes the returned window.
func (s *Service) List(ctx context.Context, filter *Filter, page Page) (*Result, error) {
	query := filter.Query()

	total, err := s.store.Count(ctx, query)
	if err != nil {
		return nil, apperr.Dependency("failed to count properties", err)
	}

	properties, err := s.store.Find(ctx, query, filter.SortDoc(), page.Skip(), int64(page.Limit))
	if err != nil {
		return nil, apperr.Dependency("failed to fetch properties", err)
	}

	listings, err := s.hydrate(ctx, properties)
	if err != nil {
		return nil, err
	}

	return &Result{
		Properties: listings,
		Pagination: Paginate(page, total),
	}, nil
}

// Get fetches a single property and bumps its view counter. The increment
// is atomic at the store and its failure is logged, never surfaced.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*models.PropertyListing, error) {
	property, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.store.IncrementViews(ctx, id); err != nil {
		s.log.Warn("failed to increment property views", "property", id.Hex(), "error", err)
	}

	listings, err := s.hydrate(ctx, []models.Property{*property})
	if err != nil {
		return nil, err
	}
	return &listings[0], nil
}

// Similar returns active properties of the same type and city within
// ±30% of the given property's price.
func (s *Service) Similar(ctx context.Context, id primitive.ObjectID, limit int64) ([]models.PropertyListing, error) {
	property, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	query := bson.M{
		"_id":           bson.M{"$ne": property.ID},
		"status":        models.PropertyStatusActive,
		"propertyType":  property.PropertyType,
		"listingType":   property.ListingType,
		"location.city": property.Location.City,
		"price": bson.M{
			"$gte": property.Price * 0.7,
			"$lte": property.Price * 1.3,
		},
	}
	sort := bson.D{{Key: "featured", Value: -1}, {Key: "createdAt", Value: -1}}

	properties, err := s.store.Find(ctx, query, sort, 0, limit)
	if err != nil {
		return nil, apperr.Dependency("failed to fetch similar properties", err)
	}
	return s.hydrate(ctx, properties)
}

// Trending returns the most viewed active properties.
func (s *Service) Trending(ctx context.Context, limit int64) ([]models.PropertyListing, error) {
	query := bson.M{"status": models.PropertyStatusActive}
	sort := bson.D{{Key: "views", Value: -1}, {Key: "createdAt", Value: -1}}

	properties, err := s.store.Find(ctx, query, sort, 0, limit)
	if err != nil {
		return nil, apperr.Dependency("failed to fetch trending properties", err)
	}
	return s.hydrate(ctx, properties)
}

// hydrate attaches owner and agent contact info with one batched lookup.
func (s *Service) hydrate(ctx context.Context, properties []models.Property) ([]models.PropertyListing, error) {
	ids := make([]primitive.ObjectID, 0, len(properties)*2)
	seen := map[primitive.ObjectID]bool{}
	for _, p := range properties {
		if !seen[p.Owner] {
			seen[p.Owner] = true
			ids = append(ids, p.Owner)
		}
		if p.Agent != nil && !seen[*p.Agent] {
			seen[*p.Agent] = true
			ids = append(ids, *p.Agent)
		}
	}

	users := map[primitive.ObjectID]models.User{}
	if len(ids) > 0 {
		var err error
		users, err = s.store.UsersByID(ctx, ids)
		if err != nil {
			return nil, apperr.Dependency("failed to fetch property contacts", err)
		}
	}

	listings := make([]models.PropertyListing, 0, len(properties))
	for _, p := range properties {
		listing := models.PropertyListing{Property: p}
		if u, ok := users[p.Owner]; ok {
			listing.OwnerInfo = contactInfo(u)
		}
		if p.Agent != nil {
			if u, ok := users[*p.Agent]; ok {
				listing.AgentInfo = contactInfo(u)
			}
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

func contactInfo(u models.User) *models.OwnerInfo {
	return &models.OwnerInfo{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}
