package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/config"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/models"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/utils"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserController struct {
	collection *mongo.Collection
	log        *slog.Logger
}

func NewUserController(log *slog.Logger) *UserController {
	return &UserController{
		collection: config.GetCollection(config.CollectionUsers()),
		log:        log,
	}
}

func (uc *UserController) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return utils.FailMessage(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return utils.Fail(c, err)
	}

	ctx := c.Request().Context()

	var existingUser models.User
	err := uc.collection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&existingUser)
	if err == nil {
		return utils.FailMessage(c, http.StatusConflict, "User already exists with this email")
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		uc.log.Error("password hash failed", "error", err)
		return utils.FailMessage(c, http.StatusInternalServerError, "Internal server error")
	}

	role := req.Role
	if role == "" {
		role = models.RoleBuyer
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		Email:     req.Email,
		Password:  hashedPassword,
		Name:      req.Name,
		Phone:     req.Phone,
		Role:      role,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if _, err := uc.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.FailMessage(c, http.StatusConflict, "User already exists with this email")
		}
		uc.log.Error("user create failed", "error", err)
		return utils.FailMessage(c, http.StatusInternalServerError, "Internal server error")
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, user.Role)
	if err != nil {
		uc.log.Error("token generation failed", "error", err)
		return utils.FailMessage(c, http.StatusInternalServerError, "Internal server error")
	}

	user.Password = ""
	return utils.OK(c, http.StatusCreated, models.LoginResponse{Token: token, User: user})
}

func (uc *UserController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return utils.FailMessage(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return utils.Fail(c, err)
	}

	var user models.User
	err := uc.collection.FindOne(c.Request().Context(), bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		return utils.FailMessage(c, http.StatusUnauthorized, "Invalid credentials")
	}

	if !user.IsActive {
		return utils.FailMessage(c, http.StatusUnauthorized, "Account is deactivated")
	}

	if err := utils.CheckPassword(user.Password, req.Password); err != nil {
		return utils.FailMessage(c, http.StatusUnauthorized, "Invalid credentials")
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, user.Role)
	if err != nil {
		uc.log.Error("token generation failed", "error", err)
		return utils.FailMessage(c, http.StatusInternalServerError, "Internal server error")
	}

	user.Password = ""
	return utils.OKMessage(c, http.StatusOK, "Login successful", models.LoginResponse{Token: token, User: user})
}

func (uc *UserController) GetProfile(c echo.Context) error {
	userID := c.Get("user_id").(primitive.ObjectID)

	var user models.User
	err := uc.collection.FindOne(c.Request().Context(), bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		return utils.FailMessage(c, http.StatusNotFound, "User not found")
	}

	user.Password = ""
	return utils.OK(c, http.StatusOK, map[string]any{"user": user})
}

func (uc *UserController) UpdateProfile(c echo.Context) error {
	userID := c.Get("user_id").(primitive.ObjectID)

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return utils.FailMessage(c, http.StatusBadRequest, "Invalid request body")
	}

	updateDoc := bson.M{"updated_at": time.Now()}
	if req.Name != "" {
		updateDoc["name"] = req.Name
	}
	if req.Phone != "" {
		updateDoc["phone"] = req.Phone
	}

	ctx := c.Request().Context()
	_, err := uc.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": updateDoc})
	if err != nil {
		uc.log.Error("profile update failed", "user", userID.Hex(), "error", err)
		return utils.FailMessage(c, http.StatusInternalServerError, "Internal server error")
	}

	var user models.User
	if err := uc.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return utils.FailMessage(c, http.StatusInternalServerError, "Internal server error")
	}

	user.Password = ""
	return utils.OKMessage(c, http.StatusOK, "Profile updated successfully", map[string]any{"user": user})
}
