package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/apperr"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/config"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/models"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/search"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/utils"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type WishlistController struct {
	collection *mongo.Collection
	properties *mongo.Collection
	log        *slog.Logger
}

func NewWishlistController(log *slog.Logger) *WishlistController {
	return &WishlistController{
		collection: config.GetCollection(config.CollectionWishlist()),
		properties: config.GetCollection(config.CollectionProperties()),
		log:        log,
	}
}

type addWishlistRequest struct {
	PropertyID string `json:"propertyId" validate:"required"`
	Notes      string `json:"notes" validate:"omitempty,max=500"`
}

// AddToWishlist handles POST /users/wishlist.
func (wc *WishlistController) AddToWishlist(c echo.Context) error {
	userID := c.Get("user_id").(primitive.ObjectID)

	var req addWishlistRequest
	if err := c.Bind(&req); err != nil {
		return utils.FailMessage(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return utils.Fail(c, err)
	}

	propertyID, err := primitive.ObjectIDFromHex(req.PropertyID)
	if err != nil {
		return utils.Fail(c, apperr.Validation("propertyId", "invalid property id"))
	}

	ctx := c.Request().Context()

	count, err := wc.properties.CountDocuments(ctx, bson.M{"_id": propertyID})
	if err != nil {
		wc.log.Error("wishlist property check failed", "error", err)
		return utils.FailMessage(c, http.StatusInternalServerError, "Internal server error")
	}
	if count == 0 {
		return utils.Fail(c, apperr.NotFound("Property not found"))
	}

	item := models.WishlistItem{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		PropertyID: propertyID,
		Notes:      req.Notes,
		CreatedAt:  time.Now(),
	}

	if _, err := wc.collection.InsertOne(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.Fail(c, apperr.Conflict("Property already in wishlist"))
		}
		wc.log.Error("wishlist insert failed", "error", err)
		return utils.FailMessage(c, http.StatusInternalServerError, "Internal server error")
	}
	return utils.OKMessage(c, http.StatusCreated, "Property added to wishlist", map[string]any{"item": item})
}

// GetWishlist handles GET /users/wishlist.
func (wc *WishlistController) GetWishlist(c echo.Context) error {
	userID := c.Get("user_id").(primitive.ObjectID)
	page := search.ParsePage(c.QueryParam("page"), c.QueryParam("limit"), search.DefaultUserLimit)

	ctx := c.Request().Context()
	query := bson.M{"userId": userID}

	total, err := wc.collection.CountDocuments(ctx, query)
	if err != nil {
		wc.log.Error("wishlist count failed", "error", err)
		return utils.FailMessage(c, http.StatusInternalServerError, "Internal server error")
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))
	cursor, err := wc.collection.Find(ctx, query, opts)
	if err != nil {
		wc.log.Error("wishlist fetch failed", "error", err)
		return utils.FailMessage(c, http.StatusInternalServerError, "Internal server error")
	}
	defer cursor.Close(ctx)

	var items []models.WishlistItem
	if err := cursor.All(ctx, &items); err != nil {
		wc.log.Error("wishlist decode failed", "error", err)
		return utils.FailMessage(c, http.StatusInternalServerError, "Internal server error")
	}

	return utils.OK(c, http.StatusOK, map[string]any{
		"items":      items,
		"pagination": search.Paginate(page, total),
	})
}

// RemoveFromWishlist handles DELETE /users/wishlist/:propertyId.
func (wc *WishlistController) RemoveFromWishlist(c echo.Context) error {
	userID := c.Get("user_id").(primitive.ObjectID)

	propertyID, err := primitive.ObjectIDFromHex(c.Param("propertyId"))
	if err != nil {
		return utils.Fail(c, apperr.NotFound("Property not found"))
	}

	result, err := wc.collection.DeleteOne(c.Request().Context(),
		bson.M{"userId": userID, "propertyId": propertyID})
	if err != nil {
		wc.log.Error("wishlist delete failed", "error", err)
		return utils.FailMessage(c, http.StatusInternalServerError, "Internal server error")
	}
	if result.DeletedCount == 0 {
		return utils.Fail(c, apperr.NotFound("Property not in wishlist"))
	}
	return utils.OKMessage(c, http.StatusOK, "Property removed from wishlist", nil)
}
