package routes

import (
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/handlers"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/middleware"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/models"
	"github.com/labstack/echo/v4"
)

type Controllers struct {
	Users      *handlers.UserController
	Properties *handlers.PropertyController
	Inquiries  *handlers.InquiryController
	Wishlist   *handlers.WishlistController
	Admin      *handlers.AdminController
}

func RegisterRoutes(e *echo.Echo, c Controllers) {
	e.GET("/health", handlers.HealthCheck)

	auth := e.Group("/auth")
	auth.POST("/register", c.Users.Register)
	auth.POST("/login", c.Users.Login)

	properties := e.Group("/properties")
	properties.GET("", c.Properties.ListProperties, middleware.OptionalJWT())
	properties.GET("/search", c.Properties.SearchProperties, middleware.OptionalJWT())
	properties.GET("/trending", c.Properties.TrendingProperties)
	properties.GET("/:id", c.Properties.GetProperty)
	properties.GET("/:id/similar", c.Properties.SimilarProperties)
	properties.POST("", c.Properties.CreateProperty, middleware.JWTMiddleware())
	properties.PUT("/:id", c.Properties.UpdateProperty, middleware.JWTMiddleware())
	properties.DELETE("/:id", c.Properties.DeleteProperty, middleware.JWTMiddleware())
	properties.POST("/:id/images", c.Properties.AddImages, middleware.JWTMiddleware())

	inquiries := e.Group("/inquiries", middleware.JWTMiddleware())
	inquiries.POST("", c.Inquiries.CreateInquiry)
	inquiries.GET("/sent", c.Inquiries.SentInquiries)
	inquiries.GET("/received", c.Inquiries.ReceivedInquiries)
	inquiries.PUT("/:id/respond", c.Inquiries.RespondToInquiry)
	inquiries.PUT("/:id/schedule", c.Inquiries.ScheduleMeeting)
	inquiries.PUT("/:id/status", c.Inquiries.UpdateInquiryStatus)

	users := e.Group("/users", middleware.JWTMiddleware())
	users.GET("/profile", c.Users.GetProfile)
	users.PUT("/profile", c.Users.UpdateProfile)
	users.POST("/wishlist", c.Wishlist.AddToWishlist)
	users.GET("/wishlist", c.Wishlist.GetWishlist)
	users.DELETE("/wishlist/:propertyId", c.Wishlist.RemoveFromWishlist)

	admin := e.Group("/admin", middleware.JWTMiddleware(), middleware.RequireRole(models.RoleAdmin))
	admin.GET("/stats", c.Admin.DashboardStats)
	admin.GET("/users", c.Admin.Users)
	admin.GET("/properties", c.Admin.PropertiesForModeration)
	admin.PUT("/properties/:id/moderate", c.Admin.ModerateProperty)
}
