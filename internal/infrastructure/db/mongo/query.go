package mongo

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ecomrating/store-rating/internal/core/ports"
)

const (
	// defaultTimeout bounds a single read or write.
	defaultTimeout = 10 * time.Second
	indexTimeout   = 30 * time.Second
)

// containsFold matches s anywhere in the field, ignoring case. s is matched
// literally.
func containsFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// sortBy orders by field then _id so equal keys page deterministically.
func sortBy(field string, order ports.SortOrder) bson.D {
	dir := 1
	if order == ports.SortDesc {
		dir = -1
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}
}

// newestFirst is the order of every "recent" query.
var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

func inIDs(ids []string) bson.M {
	return bson.M{"$in": ids}
}
