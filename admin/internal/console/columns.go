package console

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Alturino/bagstore/internal/listing"
)

// Item is one listed record decoded as a plain json object.
type Item = map[string]interface{}

func text(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "-"
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t.Local().Format("2006-01-02 15:04")
		}
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "yes"
		}
		return "no"
	default:
		return fmt.Sprint(v)
	}
}

func field(header string, key string) listing.Column[Item] {
	return listing.Column[Item]{
		Header: header,
		Value:  func(item Item) string { return text(item[key]) },
	}
}

// keys names the field each resource is deleted by.
var keys = map[string]string{
	"collections":  "id",
	"slides":       "id",
	"testimonials": "id",
	"coupons":      "code",
	"contacts":     "id",
	"orders":       "id",
	"products":     "id",
	"newsletter":   "email",
}

var columns = map[string][]listing.Column[Item]{
	"collections": {
		field("ID", "id"),
		field("NAME", "name"),
		field("POSITION", "position"),
		field("ACTIVE", "active"),
	},
	"slides": {
		field("ID", "id"),
		field("TITLE", "title"),
		field("POSITION", "position"),
		field("ACTIVE", "active"),
	},
	"testimonials": {
		field("ID", "id"),
		field("NAME", "name"),
		field("RATING", "rating"),
		field("ACTIVE", "active"),
	},
	"coupons": {
		field("CODE", "code"),
		field("TYPE", "discountType"),
		field("VALUE", "value"),
		field("USED", "usedCount"),
		field("LIMIT", "usageLimit"),
		field("EXPIRES", "expiresAt"),
		field("ACTIVE", "active"),
	},
	"contacts": {
		field("ID", "id"),
		field("NAME", "name"),
		field("EMAIL", "email"),
		field("SUBJECT", "subject"),
		field("RECEIVED", "createdAt"),
	},
	"orders": {
		field("ID", "id"),
		field("EMAIL", "email"),
		field("TOTAL", "total"),
		field("STATUS", "status"),
		field("PLACED", "createdAt"),
	},
	"products": {
		field("ID", "id"),
		field("NAME", "name"),
		field("PRICE", "price"),
		field("STOCK", "quantity"),
	},
	"newsletter": {
		field("EMAIL", "email"),
		field("SUBSCRIBED", "subscribed"),
		field("SINCE", "createdAt"),
	},
}
