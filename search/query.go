package search

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Query renders the filter as a Mongo query document. Range conditions on
// the same field are merged so an inverted range still produces a single
// (unsatisfiable) predicate.
func (f *Filter) Query() bson.M {
	query := bson.M{}
	for _, c := range f.Conditions {
		switch c.Op {
		case OpEq:
			query[c.Field] = c.Value
		case OpGte:
			rangeDoc(query, c.Field)["$gte"] = c.Value
		case OpLte:
			rangeDoc(query, c.Field)["$lte"] = c.Value
		case OpIn:
			query[c.Field] = bson.M{"$in": c.Value}
		case OpContains:
			query[c.Field] = primitive.Regex{
				Pattern: regexp.QuoteMeta(c.Value.(string)),
				Options: "i",
			}
		case OpText:
			query["$text"] = bson.M{"$search": c.Value}
		case OpGeoRadius:
			geo := c.Value.(GeoRadius)
			query[c.Field] = bson.M{
				"$geoWithin": bson.M{
					// Earth radius 6371 km converts km to radians.
					"$centerSphere": bson.A{
						bson.A{geo.Longitude, geo.Latitude},
						geo.RadiusKm / 6371,
					},
				},
			}
		}
	}
	return query
}

func rangeDoc(query bson.M, field string) bson.M {
	if existing, ok := query[field].(bson.M); ok {
		return existing
	}
	doc := bson.M{}
	query[field] = doc
	return doc
}

// SortDoc renders the sort order. A text query with no caller sort is
// ordered by text relevance; a plain find would otherwise return
// insertion order.
func (f *Filter) SortDoc() bson.D {
	if len(f.Sort) == 0 && f.HasText {
		return bson.D{{Key: "score", Value: bson.M{"$meta": "textScore"}}}
	}
	sort := bson.D{}
	for _, s := range f.Sort {
		dir := 1
		if s.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: s.Field, Value: dir})
	}
	return sort
}
