package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Alturino/bagstore/content/pkg/request"
	"github.com/Alturino/bagstore/content/pkg/response"
	"github.com/Alturino/bagstore/internal/listing"
	"github.com/Alturino/bagstore/internal/repository"
)

// Kind binds one content table to its queries.
type Kind[Req any, Res any] struct {
	Name   string
	Insert func(c context.Context, q *repository.Queries, param Req) (Res, error)
	Update func(c context.Context, q *repository.Queries, id uuid.UUID, param Req) (Res, error)
	Delete func(c context.Context, q *repository.Queries, id uuid.UUID) (Res, error)
	Find   func(c context.Context, q *repository.Queries, query listing.Query) ([]Res, int64, error)
}

var Slides = Kind[request.Slide, response.Slide]{
	Name: "slides",
	Insert: func(c context.Context, q *repository.Queries, param request.Slide) (response.Slide, error) {
		slide, err := q.InsertSlide(c, repository.InsertSlideParams{
			Title:    param.Title,
			Subtitle: param.Subtitle,
			Image:    param.Image,
			Link:     param.Link,
			Position: param.Position,
			Active:   request.Active(param.Active),
		})
		return slide.Response(), err
	},
	Update: func(c context.Context, q *repository.Queries, id uuid.UUID, param request.Slide) (response.Slide, error) {
		slide, err := q.UpdateSlide(c, repository.UpdateSlideParams{
			ID:       id,
			Title:    param.Title,
			Subtitle: param.Subtitle,
			Image:    param.Image,
			Link:     param.Link,
			Position: param.Position,
			Active:   request.Active(param.Active),
		})
		return slide.Response(), err
	},
	Delete: func(c context.Context, q *repository.Queries, id uuid.UUID) (response.Slide, error) {
		slide, err := q.DeleteSlide(c, id)
		return slide.Response(), err
	},
	Find: func(c context.Context, q *repository.Queries, query listing.Query) ([]response.Slide, int64, error) {
		rows, err := q.FindSlides(c, repository.FindSlidesParams{
			Search: query.Search,
			Active: repository.Bool(query.Status),
			Limit:  int32(query.Limit),
			Offset: query.Offset(),
		})
		if err != nil {
			return nil, 0, err
		}
		total := int64(0)
		slides := make([]response.Slide, 0, len(rows))
		for _, row := range rows {
			total = row.TotalCount
			slides = append(slides, row.Slide.Response())
		}
		return slides, total, nil
	},
}

var Collections = Kind[request.Collection, response.Collection]{
	Name: "collections",
	Insert: func(c context.Context, q *repository.Queries, param request.Collection) (response.Collection, error) {
		collection, err := q.InsertCollection(c, repository.InsertCollectionParams{
			Name:        param.Name,
			Description: param.Description,
			Image:       param.Image,
			Position:    param.Position,
			Active:      request.Active(param.Active),
		})
		return collection.Response(), err
	},
	Update: func(c context.Context, q *repository.Queries, id uuid.UUID, param request.Collection) (response.Collection, error) {
		collection, err := q.UpdateCollection(c, repository.UpdateCollectionParams{
			ID:          id,
			Name:        param.Name,
			Description: param.Description,
			Image:       param.Image,
			Position:    param.Position,
			Active:      request.Active(param.Active),
		})
		return collection.Response(), err
	},
	Delete: func(c context.Context, q *repository.Queries, id uuid.UUID) (response.Collection, error) {
		collection, err := q.DeleteCollection(c, id)
		return collection.Response(), err
	},
	Find: func(c context.Context, q *repository.Queries, query listing.Query) ([]response.Collection, int64, error) {
		rows, err := q.FindCollections(c, repository.FindCollectionsParams{
			Search: query.Search,
			Active: repository.Bool(query.Status),
			Limit:  int32(query.Limit),
			Offset: query.Offset(),
		})
		if err != nil {
			return nil, 0, err
		}
		total := int64(0)
		collections := make([]response.Collection, 0, len(rows))
		for _, row := range rows {
			total = row.TotalCount
			collections = append(collections, row.Collection.Response())
		}
		return collections, total, nil
	},
}

var Testimonials = Kind[request.Testimonial, response.Testimonial]{
	Name: "testimonials",
	Insert: func(c context.Context, q *repository.Queries, param request.Testimonial) (response.Testimonial, error) {
		testimonial, err := q.InsertTestimonial(c, repository.InsertTestimonialParams{
			Name:     param.Name,
			Quote:    param.Quote,
			Rating:   param.Rating,
			Image:    param.Image,
			Position: param.Position,
			Active:   request.Active(param.Active),
		})
		return testimonial.Response(), err
	},
	Update: func(c context.Context, q *repository.Queries, id uuid.UUID, param request.Testimonial) (response.Testimonial, error) {
		testimonial, err := q.UpdateTestimonial(c, repository.UpdateTestimonialParams{
			ID:       id,
			Name:     param.Name,
			Quote:    param.Quote,
			Rating:   param.Rating,
			Image:    param.Image,
			Position: param.Position,
			Active:   request.Active(param.Active),
		})
		return testimonial.Response(), err
	},
	Delete: func(c context.Context, q *repository.Queries, id uuid.UUID) (response.Testimonial, error) {
		testimonial, err := q.DeleteTestimonial(c, id)
		return testimonial.Response(), err
	},
	Find: func(c context.Context, q *repository.Queries, query listing.Query) ([]response.Testimonial, int64, error) {
		rows, err := q.FindTestimonials(c, repository.FindTestimonialsParams{
			Search: query.Search,
			Active: repository.Bool(query.Status),
			Limit:  int32(query.Limit),
			Offset: query.Offset(),
		})
		if err != nil {
			return nil, 0, err
		}
		total := int64(0)
		testimonials := make([]response.Testimonial, 0, len(rows))
		for _, row := range rows {
			total = row.TotalCount
			testimonials = append(testimonials, row.Testimonial.Response())
		}
		return testimonials, total, nil
	},
}
