package search

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/apperr"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeStore struct {
	properties []models.Property
	users      map[primitive.ObjectID]models.User
	total      int64

	countQuery bson.M
	findQuery  bson.M
	findSort   bson.D
	findSkip   int64
	findLimit  int64

	findByIDErr   error
	incrementErr  error
	incrementsFor []primitive.ObjectID
}

func (f *fakeStore) Count(ctx context.Context, query bson.M) (int64, error) {
	f.countQuery = query
	return f.total, nil
}

func (f *fakeStore) Find(ctx context.Context, query bson.M, sort bson.D, skip, limit int64) ([]models.Property, error) {
	f.findQuery = query
	f.findSort = sort
	f.findSkip = skip
	f.findLimit = limit
	return f.properties, nil
}

func (f *fakeStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	if f.findByIDErr != nil {
		return nil, f.findByIDErr
	}
	for i := range f.properties {
		if f.properties[i].ID == id {
			p := f.properties[i]
			return &p, nil
		}
	}
	return nil, apperr.NotFound("Property not found")
}

func (f *fakeStore) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	f.incrementsFor = append(f.incrementsFor, id)
	return f.incrementErr
}

func (f *fakeStore) UsersByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	out := map[primitive.ObjectID]models.User{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testProperty(owner primitive.ObjectID) models.Property {
	return models.Property{
		ID:           primitive.NewObjectID(),
		Title:        "2BHK in Koramangala",
		PropertyType: models.PropertyTypeApartment,
		ListingType:  models.ListingTypeSale,
		Price:        5000000,
		Status:       models.PropertyStatusActive,
		Owner:        owner,
		Location:     models.Location{City: "Bangalore", State: "Karnataka"},
	}
}

func TestList_CountAndFetchShareQuery(t *testing.T) {
	owner := primitive.NewObjectID()
	store := &fakeStore{
		properties: []models.Property{testProperty(owner)},
		users:      map[primitive.ObjectID]models.User{owner: {ID: owner, Name: "Ravi", Email: "ravi@example.com"}},
		total:      1,
	}
	svc := NewService(store, discardLogger())

	filter, err := Build(Params{City: "Bangalore"}, Options{})
	require.NoError(t, err)

	result, err := svc.List(context.Background(), filter, Page{Number: 1, Limit: 25})
	require.NoError(t, err)

	assert.Equal(t, store.countQuery, store.findQuery,
		"pagination metadata must describe the same window the fetch used")
	assert.Equal(t, int64(0), store.findSkip)
	assert.Equal(t, int64(25), store.findLimit)
	assert.Equal(t, int64(1), result.Pagination.Total)
}

func TestList_HydratesOwnerInfo(t *testing.T) {
	owner := primitive.NewObjectID()
	agent := primitive.NewObjectID()
	p := testProperty(owner)
	p.Agent = &agent

	store := &fakeStore{
		properties: []models.Property{p},
		users: map[primitive.ObjectID]models.User{
			owner: {ID: owner, Name: "Ravi", Email: "ravi@example.com", Phone: "9876543210", Password: "hashed"},
			agent: {ID: agent, Name: "Meera", Email: "meera@example.com"},
		},
		total: 1,
	}
	svc := NewService(store, discardLogger())

	filter, err := Build(Params{}, Options{})
	require.NoError(t, err)
	result, err := svc.List(context.Background(), filter, Page{Number: 1, Limit: 25})
	require.NoError(t, err)

	require.Len(t, result.Properties, 1)
	listing := result.Properties[0]
	require.NotNil(t, listing.OwnerInfo)
	assert.Equal(t, "Ravi", listing.OwnerInfo.Name)
	assert.Equal(t, "ravi@example.com", listing.OwnerInfo.Email)
	require.NotNil(t, listing.AgentInfo)
	assert.Equal(t, "Meera", listing.AgentInfo.Name)
}

func TestList_PageBeyondLast(t *testing.T) {
	store := &fakeStore{total: 25}
	svc := NewService(store, discardLogger())

	filter, err := Build(Params{}, Options{})
	require.NoError(t, err)
	result, err := svc.List(context.Background(), filter, Page{Number: 7, Limit: 10})
	require.NoError(t, err)

	assert.Empty(t, result.Properties)
	assert.Equal(t, 7, result.Pagination.Current)
	assert.Equal(t, 3, result.Pagination.Pages)
	assert.False(t, result.Pagination.HasNext)
}

func TestGet_IncrementsViewsOnce(t *testing.T) {
	owner := primitive.NewObjectID()
	p := testProperty(owner)
	store := &fakeStore{
		properties: []models.Property{p},
		users:      map[primitive.ObjectID]models.User{owner: {ID: owner, Name: "Ravi"}},
	}
	svc := NewService(store, discardLogger())

	listing, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, listing.ID)
	assert.Equal(t, []primitive.ObjectID{p.ID}, store.incrementsFor)
}

func TestGet_IncrementFailureNotSurfaced(t *testing.T) {
	owner := primitive.NewObjectID()
	p := testProperty(owner)
	store := &fakeStore{
		properties:   []models.Property{p},
		users:        map[primitive.ObjectID]models.User{owner: {ID: owner}},
		incrementErr: errors.New("write timeout"),
	}
	svc := NewService(store, discardLogger())

	listing, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err, "a failed view bump must not fail the read")
	assert.Equal(t, p.ID, listing.ID)
}

func TestGet_NotFound(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, discardLogger())

	_, err := svc.Get(context.Background(), primitive.NewObjectID())
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.Empty(t, store.incrementsFor, "missing properties must not be counted as viewed")
}

func TestSimilar_QueryShape(t *testing.T) {
	owner := primitive.NewObjectID()
	p := testProperty(owner)
	store := &fakeStore{
		properties: []models.Property{p},
		users:      map[primitive.ObjectID]models.User{owner: {ID: owner}},
	}
	svc := NewService(store, discardLogger())

	_, err := svc.Similar(context.Background(), p.ID, 5)
	require.NoError(t, err)

	query := store.findQuery
	assert.Equal(t, models.PropertyStatusActive, query["status"])
	assert.Equal(t, p.PropertyType, query["propertyType"])
	assert.Equal(t, p.Location.City, query["location.city"])
	assert.Equal(t, bson.M{"$ne": p.ID}, query["_id"])
	assert.Equal(t, bson.M{"$gte": p.Price * 0.7, "$lte": p.Price * 1.3}, query["price"])
	assert.Equal(t, int64(5), store.findLimit)
}

func TestTrending_SortsByViews(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, discardLogger())

	_, err := svc.Trending(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, bson.M{"status": models.PropertyStatusActive}, store.findQuery)
	require.NotEmpty(t, store.findSort)
	assert.Equal(t, bson.E{Key: "views", Value: -1}, store.findSort[0])
}
