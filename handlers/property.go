package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/apperr"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/config"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/models"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/search"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/utils"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const listCacheTTL = 60 * time.Second

type PropertyController struct {
	collection *mongo.Collection
	search     *search.Service
	cache      *utils.Cache
	log        *slog.Logger
}

func NewPropertyController(searchSvc *search.Service, cache *utils.Cache, log *slog.Logger) *PropertyController {
	return &PropertyController{
		collection: config.GetCollection(config.CollectionProperties()),
		search:     searchSvc,
		cache:      cache,
		log:        log,
	}
}

func searchParams(c echo.Context) search.Params {
	return search.Params{
		Query:        c.QueryParam("q"),
		PropertyType: c.QueryParam("propertyType"),
		ListingType:  c.QueryParam("listingType"),
		MinPrice:     c.QueryParam("minPrice"),
		MaxPrice:     c.QueryParam("maxPrice"),
		Bedrooms:     c.QueryParam("bedrooms"),
		Bathrooms:    c.QueryParam("bathrooms"),
		City:         c.QueryParam("city"),
		State:        c.QueryParam("state"),
		Amenities:    c.QueryParam("amenities"),
		Status:       c.QueryParam("status"),
		Latitude:     c.QueryParam("latitude"),
		Longitude:    c.QueryParam("longitude"),
		Radius:       c.QueryParam("radius"),
		Sort:         c.QueryParam("sort"),
	}
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get("user_role").(string)
	return role == models.RoleAdmin
}

// ListProperties handles GET /properties. Public callers only ever see
// active listings; admins may filter on any status.
func (pc *PropertyController) ListProperties(c echo.Context) error {
	return pc.list(c, "properties:list")
}

// SearchProperties handles GET /properties/search, which additionally
// accepts the free-text query and geo radius parameters.
func (pc *PropertyController) SearchProperties(c echo.Context) error {
	return pc.list(c, "properties:search")
}

func (pc *PropertyController) list(c echo.Context, cachePrefix string) error {
	params := searchParams(c)
	admin := isAdmin(c)

	filter, err := search.Build(params, search.Options{AllowStatus: admin})
	if err != nil {
		return utils.Fail(c, err)
	}
	page := search.ParsePage(c.QueryParam("page"), c.QueryParam("limit"), search.DefaultLimit)

	ctx := c.Request().Context()

	// Anonymous list responses are cached briefly; the key covers every
	// query parameter so distinct filters never collide.
	var cacheKey string
	if !admin && pc.cache != nil {
		queryParams := map[string]string{}
		for k, v := range c.QueryParams() {
			if len(v) > 0 {
				queryParams[k] = v[0]
			}
		}
		cacheKey = pc.cache.QueryKey(cachePrefix, queryParams)

		var cached search.Result
		if hit, err := pc.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return utils.OK(c, http.StatusOK, cached)
		}
	}

	result, err := pc.search.List(ctx, filter, page)
	if err != nil {
		pc.log.Error("property list failed", "error", err)
		return utils.Fail(c, err)
	}

	if cacheKey != "" {
		if err := pc.cache.Set(ctx, cacheKey, result, listCacheTTL); err != nil {
			pc.log.Warn("failed to cache property list", "error", err)
		}
	}
	return utils.OK(c, http.StatusOK, result)
}

// GetProperty handles GET /properties/:id. Every successful lookup bumps
// the view counter.
func (pc *PropertyController) GetProperty(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return utils.Fail(c, apperr.NotFound("Property not found"))
	}

	listing, err := pc.search.Get(c.Request().Context(), id)
	if err != nil {
		if apperr.Status(err) == http.StatusInternalServerError {
			pc.log.Error("property fetch failed", "property", c.Param("id"), "error", err)
		}
		return utils.Fail(c, err)
	}
	return utils.OK(c, http.StatusOK, map[string]any{"property": listing})
}

// SimilarProperties handles GET /properties/:id/similar.
func (pc *PropertyController) SimilarProperties(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return utils.Fail(c, apperr.NotFound("Property not found"))
	}
	limit := parseLimit(c.QueryParam("limit"), 5)

	listings, err := pc.search.Similar(c.Request().Context(), id, limit)
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.OK(c, http.StatusOK, map[string]any{"properties": listings})
}

// TrendingProperties handles GET /properties/trending.
func (pc *PropertyController) TrendingProperties(c echo.Context) error {
	limit := parseLimit(c.QueryParam("limit"), 10)

	listings, err := pc.search.Trending(c.Request().Context(), limit)
	if err != nil {
		return utils.Fail(c, err)
	}
	return utils.OK(c, http.StatusOK, map[string]any{"properties": listings})
}

// CreateProperty handles POST /properties. New listings always start in
// pending_approval; only moderation can activate them.
func (pc *PropertyController) CreateProperty(c echo.Context) error {
	userID := c.Get("user_id").(primitive.ObjectID)

	var property models.Property
	if err := c.Bind(&property); err != nil {
		return utils.FailMessage(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&property); err != nil {
		return utils.Fail(c, err)
	}

	now := time.Now()
	property.ID = primitive.NewObjectID()
	property.Owner = userID
	property.Status = models.PropertyStatusPendingApproval
	property.Featured = false
	property.Verified = false
	property.Views = 0
	property.CreatedAt = now
	property.UpdatedAt = now
	property.ComputePricePerSqft()
	assignImageIDs(property.Images)

	if _, err := pc.collection.InsertOne(c.Request().Context(), property); err != nil {
		pc.log.Error("property create failed", "error", err)
		return utils.Fail(c, apperr.Dependency("failed to create property", err))
	}
	return utils.OKMessage(c, http.StatusCreated, "Property listed successfully", map[string]any{"property": property})
}

// UpdateProperty handles PUT /properties/:id. Owner or admin only. The
// body is merged over the stored document, so omitted fields keep their
// current values. Status is not updatable here; moderation owns that
// transition.
func (pc *PropertyController) UpdateProperty(c echo.Context) error {
	existing, err := pc.ownedProperty(c)
	if err != nil {
		return utils.Fail(c, err)
	}

	update := *existing
	if err := c.Bind(&update); err != nil {
		return utils.FailMessage(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&update); err != nil {
		return utils.Fail(c, err)
	}

	preserveManagedFields(&update, existing)
	update.ComputePricePerSqft()
	assignImageIDs(update.Images)

	if _, err := pc.collection.ReplaceOne(c.Request().Context(), bson.M{"_id": existing.ID}, update); err != nil {
		pc.log.Error("property update failed", "property", existing.ID.Hex(), "error", err)
		return utils.Fail(c, apperr.Dependency("failed to update property", err))
	}
	return utils.OKMessage(c, http.StatusOK, "Property updated successfully", map[string]any{"property": update})
}

// DeleteProperty handles DELETE /properties/:id. Owner or admin only.
func (pc *PropertyController) DeleteProperty(c echo.Context) error {
	existing, err := pc.ownedProperty(c)
	if err != nil {
		return utils.Fail(c, err)
	}

	if _, err := pc.collection.DeleteOne(c.Request().Context(), bson.M{"_id": existing.ID}); err != nil {
		pc.log.Error("property delete failed", "property", existing.ID.Hex(), "error", err)
		return utils.Fail(c, apperr.Dependency("failed to delete property", err))
	}
	return utils.OKMessage(c, http.StatusOK, "Property deleted successfully", nil)
}

type addImagesRequest struct {
	Images []models.PropertyImage `json:"images" validate:"required,min=1,dive"`
}

// AddImages handles POST /properties/:id/images. The binary upload lives
// behind the CDN service; this endpoint records the resulting metadata.
func (pc *PropertyController) AddImages(c echo.Context) error {
	existing, err := pc.ownedProperty(c)
	if err != nil {
		return utils.Fail(c, err)
	}

	var req addImagesRequest
	if err := c.Bind(&req); err != nil {
		return utils.FailMessage(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return utils.Fail(c, err)
	}
	assignImageIDs(req.Images)

	_, err = pc.collection.UpdateOne(c.Request().Context(),
		bson.M{"_id": existing.ID},
		bson.M{
			"$push": bson.M{"images": bson.M{"$each": req.Images}},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
	if err != nil {
		pc.log.Error("image append failed", "property", existing.ID.Hex(), "error", err)
		return utils.Fail(c, apperr.Dependency("failed to add images", err))
	}
	return utils.OKMessage(c, http.StatusOK, "Images uploaded successfully", map[string]any{"images": req.Images})
}

// ownedProperty loads the property from the path and checks the caller
// is its owner or an admin.
func (pc *PropertyController) ownedProperty(c echo.Context) (*models.Property, error) {
	userID := c.Get("user_id").(primitive.ObjectID)
	userRole, _ := c.Get("user_role").(string)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return nil, apperr.NotFound("Property not found")
	}

	var property models.Property
	err = pc.collection.FindOne(c.Request().Context(), bson.M{"_id": id}).Decode(&property)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("Property not found")
	}
	if err != nil {
		return nil, apperr.Dependency("failed to fetch property", err)
	}

	if property.Owner != userID && userRole != models.RoleAdmin {
		return nil, apperr.Forbidden("Not authorized to modify this property")
	}
	return &property, nil
}

// preserveManagedFields re-applies the fields a PUT may never change:
// identity, ownership, and the moderation/analytics state.
func preserveManagedFields(update, existing *models.Property) {
	update.ID = existing.ID
	update.Owner = existing.Owner
	update.Status = existing.Status
	update.Featured = existing.Featured
	update.Verified = existing.Verified
	update.Views = existing.Views
	update.CreatedAt = existing.CreatedAt
	update.UpdatedAt = time.Now()
}

func assignImageIDs(images []models.PropertyImage) {
	for i := range images {
		if images[i].ID == "" {
			images[i].ID = uuid.NewString()
		}
	}
}

func parseLimit(raw string, fallback int64) int64 {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	if n > search.MaxLimit {
		return search.MaxLimit
	}
	return n
}
