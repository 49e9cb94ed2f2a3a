// Package search implements the property search core: an allow-listed
// filter builder producing storage-agnostic conditions, pagination math,
// and the service that executes both against the property collection.
package search

import (
	"strconv"
	"strings"

	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/apperr"
	"github.com/DhruvJyotiDas/REAL-LAND-REAL-ESTATE-WEBSITE/models"
)

type Op int

const (
	OpEq Op = iota
	OpGte
	OpLte
	OpIn
	OpContains // case-insensitive substring
	OpText
	OpGeoRadius
)

type Condition struct {
	Field string
	Op    Op
	Value any
}

type GeoRadius struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
}

type SortField struct {
	Field string
	Desc  bool
}

// Filter is the predicate handed to the search service. It carries no
// storage syntax; Query and SortDoc translate it for Mongo.
type Filter struct {
	Conditions []Condition
	Sort       []SortField
	HasText    bool
}

// Params are the raw, untrusted query parameters. Unknown request fields
// never reach this struct; handlers copy only the named parameters.
type Params struct {
	Query        string
	PropertyType string
	ListingType  string
	MinPrice     string
	MaxPrice     string
	Bedrooms     string
	Bathrooms    string
	City         string
	State        string
	Amenities    string
	Status       string
	Latitude     string
	Longitude    string
	Radius       string
	Sort         string
}

type Options struct {
	// AllowStatus lets privileged callers filter on any status. Public
	// paths leave it false and are forced to active listings.
	AllowStatus bool
}

// sortFields is the allow-list of sortable fields; unknown fields in a
// sort expression are dropped.
var sortFields = map[string]string{
	"price":        "price",
	"createdAt":    "createdAt",
	"views":        "views",
	"featured":     "featured",
	"pricePerSqft": "pricePerSqft",
	"bedrooms":     "bedrooms",
	"area":         "area.value",
}

// Build converts raw parameters into a Filter. Invalid enum values and
// non-numeric input for numeric fields are rejected with a validation
// error naming the field. An inverted price range (min > max) is kept
// as-is and deterministically matches nothing.
func Build(p Params, opts Options) (*Filter, error) {
	f := &Filter{}

	if q := strings.TrimSpace(p.Query); q != "" {
		f.Conditions = append(f.Conditions, Condition{Op: OpText, Value: q})
		f.HasText = true
	}

	if p.PropertyType != "" {
		if !contains(models.PropertyTypes, p.PropertyType) {
			return nil, apperr.Validation("propertyType", "invalid property type")
		}
		f.Conditions = append(f.Conditions, Condition{Field: "propertyType", Op: OpEq, Value: p.PropertyType})
	}

	if p.ListingType != "" {
		if !contains(models.ListingTypes, p.ListingType) {
			return nil, apperr.Validation("listingType", "listing type must be either sale or rent")
		}
		f.Conditions = append(f.Conditions, Condition{Field: "listingType", Op: OpEq, Value: p.ListingType})
	}

	if p.MinPrice != "" {
		min, err := parseFloat("minPrice", p.MinPrice)
		if err != nil {
			return nil, err
		}
		f.Conditions = append(f.Conditions, Condition{Field: "price", Op: OpGte, Value: min})
	}
	if p.MaxPrice != "" {
		max, err := parseFloat("maxPrice", p.MaxPrice)
		if err != nil {
			return nil, err
		}
		f.Conditions = append(f.Conditions, Condition{Field: "price", Op: OpLte, Value: max})
	}

	if p.Bedrooms != "" {
		n, err := parseInt("bedrooms", p.Bedrooms)
		if err != nil {
			return nil, err
		}
		f.Conditions = append(f.Conditions, Condition{Field: "bedrooms", Op: OpGte, Value: n})
	}
	if p.Bathrooms != "" {
		n, err := parseInt("bathrooms", p.Bathrooms)
		if err != nil {
			return nil, err
		}
		f.Conditions = append(f.Conditions, Condition{Field: "bathrooms", Op: OpGte, Value: n})
	}

	if p.City != "" {
		f.Conditions = append(f.Conditions, Condition{Field: "location.city", Op: OpContains, Value: p.City})
	}
	if p.State != "" {
		f.Conditions = append(f.Conditions, Condition{Field: "location.state", Op: OpContains, Value: p.State})
	}

	if p.Amenities != "" {
		var values []string
		for _, a := range strings.Split(p.Amenities, ",") {
			if a = strings.TrimSpace(a); a != "" {
				values = append(values, a)
			}
		}
		if len(values) > 0 {
			f.Conditions = append(f.Conditions, Condition{Field: "amenities", Op: OpIn, Value: values})
		}
	}

	if opts.AllowStatus {
		if p.Status != "" {
			if !contains(models.PropertyStatuses, p.Status) {
				return nil, apperr.Validation("status", "invalid status")
			}
			f.Conditions = append(f.Conditions, Condition{Field: "status", Op: OpEq, Value: p.Status})
		}
	} else {
		f.Conditions = append(f.Conditions, Condition{Field: "status", Op: OpEq, Value: models.PropertyStatusActive})
	}

	if p.Latitude != "" || p.Longitude != "" || p.Radius != "" {
		geo, err := parseGeo(p)
		if err != nil {
			return nil, err
		}
		if geo != nil {
			f.Conditions = append(f.Conditions, Condition{Field: "location.coordinates", Op: OpGeoRadius, Value: *geo})
		}
	}

	f.Sort = parseSort(p.Sort, f.HasText)
	return f, nil
}

// parseGeo requires latitude, longitude and radius together.
func parseGeo(p Params) (*GeoRadius, error) {
	if p.Latitude == "" || p.Longitude == "" || p.Radius == "" {
		return nil, apperr.Validation("radius", "latitude, longitude and radius are required together")
	}
	lat, err := parseFloat("latitude", p.Latitude)
	if err != nil {
		return nil, err
	}
	lng, err := parseFloat("longitude", p.Longitude)
	if err != nil {
		return nil, err
	}
	radius, err := parseFloat("radius", p.Radius)
	if err != nil {
		return nil, err
	}
	if lat < -90 || lat > 90 {
		return nil, apperr.Validation("latitude", "latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return nil, apperr.Validation("longitude", "longitude must be between -180 and 180")
	}
	if radius <= 0 {
		return nil, apperr.Validation("radius", "radius must be greater than zero")
	}
	return &GeoRadius{Latitude: lat, Longitude: lng, RadiusKm: radius}, nil
}

// parseSort accepts a comma-separated list of fields, "-" prefix meaning
// descending. Fields outside the allow-list are dropped. With no usable
// sort, featured-then-newest is the default; with a text query present
// the sort is left empty and SortDoc orders by text relevance instead.
func parseSort(expr string, hasText bool) []SortField {
	var sort []SortField
	for _, raw := range strings.Split(expr, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		desc := strings.HasPrefix(raw, "-")
		name := strings.TrimPrefix(raw, "-")
		if field, ok := sortFields[name]; ok {
			sort = append(sort, SortField{Field: field, Desc: desc})
		}
	}
	if len(sort) == 0 && !hasText {
		sort = []SortField{
			{Field: "featured", Desc: true},
			{Field: "createdAt", Desc: true},
		}
	}
	return sort
}

func parseFloat(field, value string) (float64, error) {
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, apperr.Validation(field, "must be a number")
	}
	return n, nil
}

func parseInt(field, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, apperr.Validation(field, "must be a number")
	}
	return n, nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
