package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/apperr"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/config"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/models"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/notify"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/search"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/utils"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AdminController struct {
	properties *mongo.Collection
	users      *mongo.Collection
	inquiries  *mongo.Collection
	notifier   notify.Gateway
	log        *slog.Logger
	clientURL  string
}

func NewAdminController(notifier notify.Gateway, log *slog.Logger, clientURL string) *AdminController {
	return &AdminController{
		properties: config.GetCollection(config.CollectionProperties()),
		users:      config.GetCollection(config.CollectionUsers()),
		inquiries:  config.GetCollection(config.CollectionInquiries()),
		notifier:   notifier,
		log:        log,
		clientURL:  clientURL,
	}
}

// DashboardStats handles GET /admin/stats.
func (ac *AdminController) DashboardStats(c echo.Context) error {
	ctx := c.Request().Context()

	totalUsers, err := ac.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return ac.statsError(c, err)
	}
	totalProperties, err := ac.properties.CountDocuments(ctx, bson.M{})
	if err != nil {
		return ac.statsError(c, err)
	}
	activeProperties, err := ac.properties.CountDocuments(ctx, bson.M{"status": models.PropertyStatusActive})
	if err != nil {
		return ac.statsError(c, err)
	}
	pendingProperties, err := ac.properties.CountDocuments(ctx, bson.M{"status": models.PropertyStatusPendingApproval})
	if err != nil {
		return ac.statsError(c, err)
	}
	totalInquiries, err := ac.inquiries.CountDocuments(ctx, bson.M{})
	if err != nil {
		return ac.statsError(c, err)
	}

	usersByRole, err := ac.groupCounts(ctx, ac.users, "$role")
	if err != nil {
		return ac.statsError(c, err)
	}
	propertiesByType, err := ac.groupCounts(ctx, ac.properties, "$propertyType")
	if err != nil {
		return ac.statsError(c, err)
	}

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	recentUsers, err := ac.users.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": thirtyDaysAgo}})
	if err != nil {
		return ac.statsError(c, err)
	}
	recentProperties, err := ac.properties.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": thirtyDaysAgo}})
	if err != nil {
		return ac.statsError(c, err)
	}

	return utils.OK(c, http.StatusOK, map[string]any{
		"overview": map[string]any{
			"totalUsers":        totalUsers,
			"totalProperties":   totalProperties,
			"activeProperties":  activeProperties,
			"pendingProperties": pendingProperties,
			"totalInquiries":    totalInquiries,
		},
		"distributions": map[string]any{
			"usersByRole":      usersByRole,
			"propertiesByType": propertiesByType,
		},
		"recentActivity": map[string]any{
			"recentUsers":      recentUsers,
			"recentProperties": recentProperties,
		},
	})
}

// PropertiesForModeration handles GET /admin/properties.
func (ac *AdminController) PropertiesForModeration(c echo.Context) error {
	ctx := c.Request().Context()
	page := search.ParsePage(c.QueryParam("page"), c.QueryParam("limit"), search.DefaultAdminLimit)

	query := bson.M{}
	if status := c.QueryParam("status"); status != "" {
		query["status"] = status
	}
	if propertyType := c.QueryParam("propertyType"); propertyType != "" {
		query["propertyType"] = propertyType
	}
	switch c.QueryParam("verified") {
	case "true":
		query["verified"] = true
	case "false":
		query["verified"] = false
	}

	total, err := ac.properties.CountDocuments(ctx, query)
	if err != nil {
		return ac.statsError(c, err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))
	cursor, err := ac.properties.Find(ctx, query, opts)
	if err != nil {
		return ac.statsError(c, err)
	}
	defer cursor.Close(ctx)

	var properties []models.Property
	if err := cursor.All(ctx, &properties); err != nil {
		return ac.statsError(c, err)
	}

	return utils.OK(c, http.StatusOK, map[string]any{
		"properties": properties,
		"pagination": search.Paginate(page, total),
	})
}

type moderateRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
	Reason string `json:"reason"`
}

// ModerateProperty handles PUT /admin/properties/:id/moderate. Approval
// is the only path that activates a pending listing.
func (ac *AdminController) ModerateProperty(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return utils.Fail(c, apperr.NotFound("Property not found"))
	}

	var req moderateRequest
	if err := c.Bind(&req); err != nil {
		return utils.FailMessage(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return utils.Fail(c, err)
	}

	ctx := c.Request().Context()

	var property models.Property
	err = ac.properties.FindOne(ctx, bson.M{"_id": id}).Decode(&property)
	if err == mongo.ErrNoDocuments {
		return utils.Fail(c, apperr.NotFound("Property not found"))
	}
	if err != nil {
		return ac.statsError(c, err)
	}

	decision := "approved"
	if req.Action == "approve" {
		property.Status = models.PropertyStatusActive
		property.Verified = true
	} else {
		property.Status = models.PropertyStatusInactive
		property.Verified = false
		decision = "rejected"
	}
	property.UpdatedAt = time.Now()

	_, err = ac.properties.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":    property.Status,
		"verified":  property.Verified,
		"updatedAt": property.UpdatedAt,
	}})
	if err != nil {
		return ac.statsError(c, err)
	}

	ac.notifyOwner(ctx, &property, decision, req.Reason)

	return utils.OKMessage(c, http.StatusOK, "Property "+decision+" successfully", map[string]any{"property": property})
}

// Users handles GET /admin/users.
func (ac *AdminController) Users(c echo.Context) error {
	ctx := c.Request().Context()
	page := search.ParsePage(c.QueryParam("page"), c.QueryParam("limit"), search.DefaultAdminLimit)

	query := bson.M{}
	if role := c.QueryParam("role"); role != "" {
		query["role"] = role
	}

	total, err := ac.users.CountDocuments(ctx, query)
	if err != nil {
		return ac.statsError(c, err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))
	cursor, err := ac.users.Find(ctx, query, opts)
	if err != nil {
		return ac.statsError(c, err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			continue
		}
		user.Password = ""
		users = append(users, user)
	}

	return utils.OK(c, http.StatusOK, map[string]any{
		"users":      users,
		"pagination": search.Paginate(page, total),
	})
}

func (ac *AdminController) groupCounts(ctx context.Context, coll *mongo.Collection, field string) ([]bson.M, error) {
	cursor, err := coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": field, "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []bson.M
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (ac *AdminController) notifyOwner(ctx context.Context, property *models.Property, decision, reason string) {
	var owner models.User
	if err := ac.users.FindOne(ctx, bson.M{"_id": property.Owner}).Decode(&owner); err != nil {
		ac.log.Error("failed to load owner for moderation notification", "property", property.ID.Hex(), "error", err)
		return
	}

	err := ac.notifier.Notify(ctx, owner.Email, notify.TemplatePropertyModerated, map[string]any{
		"ownerName":     owner.Name,
		"propertyTitle": property.Title,
		"decision":      decision,
		"reason":        reason,
		"dashboardUrl":  ac.clientURL + "/dashboard/properties",
	})
	if err != nil {
		ac.log.Error("failed to send moderation notification", "property", property.ID.Hex(), "error", err)
	}
}

func (ac *AdminController) statsError(c echo.Context, err error) error {
	ac.log.Error("admin query failed", "error", err)
	return utils.FailMessage(c, http.StatusInternalServerError, "Internal server error")
}
