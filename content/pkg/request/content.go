package request

import "github.com/Alturino/bagstore/internal/listing"

type Slide struct {
	Title    string `json:"title"    validate:"required"`
	Subtitle string `json:"subtitle"`
	Image    string `json:"image"`
	Link     string `json:"link"`
	Position int32  `json:"position"`
	Active   *bool  `json:"active"`
}

type Collection struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Position    int32  `json:"position"`
	Active      *bool  `json:"active"`
}

type Testimonial struct {
	Name     string `json:"name"     validate:"required"`
	Quote    string `json:"quote"    validate:"required"`
	Rating   int32  `json:"rating"   validate:"omitempty,min=1,max=5"`
	Image    string `json:"image"`
	Position int32  `json:"position"`
	Active   *bool  `json:"active"`
}

// Active reads the optional flag of a content form, defaulting to true.
func Active(flag *bool) bool {
	return flag == nil || *flag
}

type FindContent struct {
	listing.Query
}
