package search

import (
	"testing"

	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/apperr"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuild_PublicForcesActiveStatus(t *testing.T) {
	f, err := Build(Params{Status: "sold"}, Options{})
	require.NoError(t, err)

	query := f.Query()
	assert.Equal(t, models.PropertyStatusActive, query["status"],
		"public searches must only see active listings")
}

func TestBuild_PrivilegedStatusFilter(t *testing.T) {
	f, err := Build(Params{Status: "pending_approval"}, Options{AllowStatus: true})
	require.NoError(t, err)
	assert.Equal(t, "pending_approval", f.Query()["status"])

	// No status given: privileged callers see everything.
	f, err = Build(Params{}, Options{AllowStatus: true})
	require.NoError(t, err)
	_, ok := f.Query()["status"]
	assert.False(t, ok)

	_, err = Build(Params{Status: "bogus"}, Options{AllowStatus: true})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestBuild_InvalidEnumRejected(t *testing.T) {
	_, err := Build(Params{PropertyType: "castle"}, Options{})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Contains(t, err.Error(), "propertyType")

	_, err = Build(Params{ListingType: "lease"}, Options{})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Contains(t, err.Error(), "listingType")
}

func TestBuild_NonNumericRejected(t *testing.T) {
	for _, tc := range []struct {
		field  string
		params Params
	}{
		{"minPrice", Params{MinPrice: "cheap"}},
		{"maxPrice", Params{MaxPrice: "expensive"}},
		{"bedrooms", Params{Bedrooms: "two"}},
		{"bathrooms", Params{Bathrooms: "x"}},
	} {
		_, err := Build(tc.params, Options{})
		require.Error(t, err, tc.field)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation), tc.field)
		assert.Contains(t, err.Error(), tc.field)
	}
}

func TestBuild_PriceRangeMerged(t *testing.T) {
	f, err := Build(Params{MinPrice: "1000000", MaxPrice: "5000000"}, Options{})
	require.NoError(t, err)

	price, ok := f.Query()["price"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, float64(1000000), price["$gte"])
	assert.Equal(t, float64(5000000), price["$lte"])
}

func TestBuild_InvertedPriceRangeKept(t *testing.T) {
	// min > max is not an error; it deterministically matches nothing.
	f, err := Build(Params{MinPrice: "5000000", MaxPrice: "1000000"}, Options{})
	require.NoError(t, err)

	price, ok := f.Query()["price"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, float64(5000000), price["$gte"])
	assert.Equal(t, float64(1000000), price["$lte"])
}

func TestBuild_RoomCountsAreFloors(t *testing.T) {
	f, err := Build(Params{Bedrooms: "3", Bathrooms: "2"}, Options{})
	require.NoError(t, err)

	query := f.Query()
	assert.Equal(t, bson.M{"$gte": 3}, query["bedrooms"])
	assert.Equal(t, bson.M{"$gte": 2}, query["bathrooms"])
}

func TestBuild_CityStateCaseInsensitiveContains(t *testing.T) {
	f, err := Build(Params{City: "Pune", State: "Maha"}, Options{})
	require.NoError(t, err)

	query := f.Query()
	city, ok := query["location.city"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, "Pune", city.Pattern)
	assert.Equal(t, "i", city.Options)

	state, ok := query["location.state"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, "Maha", state.Pattern)
}

func TestBuild_ContainsEscapesRegexMeta(t *testing.T) {
	f, err := Build(Params{City: "a.b*"}, Options{})
	require.NoError(t, err)

	city := f.Query()["location.city"].(primitive.Regex)
	assert.Equal(t, `a\.b\*`, city.Pattern)
}

func TestBuild_AmenitiesMatchAny(t *testing.T) {
	f, err := Build(Params{Amenities: "gym, parking ,,garden"}, Options{})
	require.NoError(t, err)

	assert.Equal(t, bson.M{"$in": []string{"gym", "parking", "garden"}}, f.Query()["amenities"])
}

func TestBuild_TextQuery(t *testing.T) {
	f, err := Build(Params{Query: "sea view"}, Options{})
	require.NoError(t, err)
	assert.True(t, f.HasText)
	assert.Equal(t, bson.M{"$search": "sea view"}, f.Query()["$text"])

	// Without a caller sort, text results are ranked by relevance.
	assert.Equal(t, bson.D{
		{Key: "score", Value: bson.M{"$meta": "textScore"}},
	}, f.SortDoc())
}

func TestBuild_TextQueryWithExplicitSort(t *testing.T) {
	f, err := Build(Params{Query: "sea view", Sort: "-price"}, Options{})
	require.NoError(t, err)

	// A caller sort wins over relevance ranking.
	assert.Equal(t, bson.D{{Key: "price", Value: -1}}, f.SortDoc())
}

func TestBuild_DefaultSort(t *testing.T) {
	f, err := Build(Params{}, Options{})
	require.NoError(t, err)

	assert.Equal(t, bson.D{
		{Key: "featured", Value: -1},
		{Key: "createdAt", Value: -1},
	}, f.SortDoc())
}

func TestBuild_SortAllowList(t *testing.T) {
	f, err := Build(Params{Sort: "-price,bogusField,createdAt"}, Options{})
	require.NoError(t, err)

	assert.Equal(t, bson.D{
		{Key: "price", Value: -1},
		{Key: "createdAt", Value: 1},
	}, f.SortDoc())
}

func TestBuild_GeoRadius(t *testing.T) {
	f, err := Build(Params{Latitude: "18.52", Longitude: "73.85", Radius: "10"}, Options{})
	require.NoError(t, err)

	geo, ok := f.Query()["location.coordinates"].(bson.M)
	require.True(t, ok)
	within := geo["$geoWithin"].(bson.M)
	sphere := within["$centerSphere"].(bson.A)
	center := sphere[0].(bson.A)
	assert.Equal(t, 73.85, center[0])
	assert.Equal(t, 18.52, center[1])
	assert.InDelta(t, 10.0/6371, sphere[1].(float64), 1e-9)
}

func TestBuild_GeoRequiresAllThree(t *testing.T) {
	_, err := Build(Params{Latitude: "18.52"}, Options{})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = Build(Params{Latitude: "18.52", Longitude: "73.85", Radius: "0"}, Options{})
	require.Error(t, err)

	_, err = Build(Params{Latitude: "91", Longitude: "73.85", Radius: "5"}, Options{})
	require.Error(t, err)
}
