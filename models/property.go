package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Property type enum.
const (
	PropertyTypeApartment  = "apartment"
	PropertyTypeHouse      = "house"
	PropertyTypeVilla      = "villa"
	PropertyTypePlot       = "plot"
	PropertyTypeCommercial = "commercial"
	PropertyTypeOffice     = "office"
	PropertyTypeShop       = "shop"
)

// Listing type enum.
const (
	ListingTypeSale = "sale"
	ListingTypeRent = "rent"
)

// Property status enum.
const (
	PropertyStatusActive          = "active"
	PropertyStatusSold            = "sold"
	PropertyStatusRented          = "rented"
	PropertyStatusInactive        = "inactive"
	PropertyStatusPendingApproval = "pending_approval"
)

// Area units.
const (
	AreaUnitSqft  = "sqft"
	AreaUnitSqm   = "sqm"
	AreaUnitAcres = "acres"
)

var PropertyTypes = []string{
	PropertyTypeApartment, PropertyTypeHouse, PropertyTypeVilla,
	PropertyTypePlot, PropertyTypeCommercial, PropertyTypeOffice, PropertyTypeShop,
}

var ListingTypes = []string{ListingTypeSale, ListingTypeRent}

var PropertyStatuses = []string{
	PropertyStatusActive, PropertyStatusSold, PropertyStatusRented,
	PropertyStatusInactive, PropertyStatusPendingApproval,
}

type Area struct {
	Value float64 `bson:"value" json:"value" validate:"required,gte=1"`
	Unit  string  `bson:"unit" json:"unit" validate:"required,oneof=sqft sqm acres"`
}

// InSqft converts the area to square feet.
func (a Area) InSqft() float64 {
	switch a.Unit {
	case AreaUnitSqm:
		return a.Value * 10.764
	case AreaUnitAcres:
		return a.Value * 43560
	default:
		return a.Value
	}
}

type Coordinates struct {
	Latitude  float64 `bson:"latitude" json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `bson:"longitude" json:"longitude" validate:"gte=-180,lte=180"`
}

type Location struct {
	Address     string       `bson:"address" json:"address" validate:"required"`
	City        string       `bson:"city" json:"city" validate:"required"`
	State       string       `bson:"state" json:"state" validate:"required"`
	Pincode     string       `bson:"pincode" json:"pincode" validate:"required,pincode"`
	Coordinates *Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}

type PropertyImage struct {
	ID  string `bson:"id" json:"id"`
	URL string `bson:"url" json:"url" validate:"required,url"`
}

type Property struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title        string              `bson:"title" json:"title" validate:"required,max=100"`
	Description  string              `bson:"description" json:"description" validate:"required,max=2000"`
	PropertyType string              `bson:"propertyType" json:"propertyType" validate:"required,oneof=apartment house villa plot commercial office shop"`
	ListingType  string              `bson:"listingType" json:"listingType" validate:"required,oneof=sale rent"`
	Price        float64             `bson:"price" json:"price" validate:"gte=0"`
	Area         Area                `bson:"area" json:"area"`
	Bedrooms     int                 `bson:"bedrooms" json:"bedrooms" validate:"gte=0,lte=20"`
	Bathrooms    int                 `bson:"bathrooms" json:"bathrooms" validate:"gte=0,lte=20"`
	Location     Location            `bson:"location" json:"location"`
	Amenities    []string            `bson:"amenities" json:"amenities"`
	Images       []PropertyImage     `bson:"images" json:"images"`
	Owner        primitive.ObjectID  `bson:"owner" json:"owner"`
	Agent        *primitive.ObjectID `bson:"agent,omitempty" json:"agent,omitempty"`
	Status       string              `bson:"status" json:"status"`
	Featured     bool                `bson:"featured" json:"featured"`
	Verified     bool                `bson:"verified" json:"verified"`
	Views        int64               `bson:"views" json:"views"`
	PricePerSqft float64             `bson:"pricePerSqft" json:"pricePerSqft"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// ComputePricePerSqft recomputes the derived pricePerSqft field. It must be
// called whenever price or area changes; the field is never set directly.
func (p *Property) ComputePricePerSqft() {
	sqft := p.Area.InSqft()
	if p.Price <= 0 || sqft <= 0 {
		p.PricePerSqft = 0
		return
	}
	p.PricePerSqft = math.Round(p.Price / sqft)
}

// OwnerInfo is the denormalized owner/agent display block attached to
// search results.
type OwnerInfo struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Phone string             `json:"phone,omitempty"`
}

// PropertyListing is a property hydrated with owner and agent contact info.
type PropertyListing struct {
	Property
	OwnerInfo *OwnerInfo `json:"ownerInfo,omitempty"`
	AgentInfo *OwnerInfo `json:"agentInfo,omitempty"`
}
