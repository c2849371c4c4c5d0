package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alturino/bagstore/internal/listing"
)

// Product is the form of /bag-collections/create and /update. Images arrive as
// multipart files and are appended to ExistingImages after upload.
type Product struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"           validate:"required"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"          validate:"price"`
	Quantity       int             `json:"quantity"       validate:"gte=0"`
	CollectionID   *uuid.UUID      `json:"collectionId"`
	Colors         []string        `json:"colors"`
	ExistingImages []string        `json:"images"`
}

type FindProducts struct {
	listing.Query
	CollectionID *uuid.UUID       `json:"collection,omitempty"`
	MinPrice     *decimal.Decimal `json:"minPrice,omitempty"`
	MaxPrice     *decimal.Decimal `json:"maxPrice,omitempty"`
}

type DeleteProduct struct {
	ID uuid.UUID `json:"id" validate:"required"`
}
