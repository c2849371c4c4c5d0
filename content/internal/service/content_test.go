package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/bagstore/content/pkg/request"
	"github.com/Alturino/bagstore/content/pkg/response"
	inErrors "github.com/Alturino/bagstore/internal/errors"
	"github.com/Alturino/bagstore/internal/infra/infratest"
	"github.com/Alturino/bagstore/internal/listing"
	"github.com/Alturino/bagstore/internal/repository"
)

func setup(t *testing.T) (context.Context, *repository.Queries, func()) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano})
	c := logger.WithContext(context.Background())

	pool, teardown := infratest.Postgres(t, c)
	return c, repository.New(pool), teardown
}

func TestSlides(t *testing.T) {
	c, queries, teardown := setup(t)
	defer teardown()
	svc := NewContentService(Slides, queries, 10)

	hidden := false
	summer, err := svc.Insert(c, request.Slide{Title: "Summer totes", Position: 2})
	require.NoError(t, err)
	assert.True(t, summer.Active, "content is active unless stated otherwise")
	_, err = svc.Insert(c, request.Slide{Title: "Winter clutches", Position: 1, Active: &hidden})
	require.NoError(t, err)
	_, err = svc.Insert(c, request.Slide{Title: "New arrivals", Position: 0})
	require.NoError(t, err)

	tests := []struct {
		name           string
		find           func(context.Context, listing.Query) (listing.Page[string], error)
		query          listing.Query
		expectedTitles []string
	}{
		{
			name:           "given public listing should show only active slides by position",
			find:           titles(svc.FindActive),
			expectedTitles: []string{"New arrivals", "Summer totes"},
		},
		{
			name:           "given public listing asking for inactive should still show active slides",
			find:           titles(svc.FindActive),
			query:          listing.Query{Status: "inactive"},
			expectedTitles: []string{"New arrivals", "Summer totes"},
		},
		{
			name:           "given admin listing should show every slide",
			find:           titles(svc.Find),
			expectedTitles: []string{"New arrivals", "Winter clutches", "Summer totes"},
		},
		{
			name:           "given admin search should match the title",
			find:           titles(svc.Find),
			query:          listing.Query{Search: "clutch"},
			expectedTitles: []string{"Winter clutches"},
		},
		{
			name:           "given admin page size should paginate",
			find:           titles(svc.Find),
			query:          listing.Query{Page: 2, Limit: 2},
			expectedTitles: []string{"Summer totes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := tt.find(c, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedTitles, page.Items)
		})
	}

	updated, err := svc.Update(c, summer.ID, request.Slide{Title: "Summer sale", Position: 2, Active: &hidden})
	require.NoError(t, err)
	assert.Equal(t, "Summer sale", updated.Title)
	assert.False(t, updated.Active)

	_, err = svc.Delete(c, summer.ID)
	require.NoError(t, err)
	_, err = svc.Delete(c, summer.ID)
	assert.ErrorIs(t, err, inErrors.ErrNotFound)
	_, err = svc.Update(c, uuid.New(), request.Slide{Title: "missing"})
	assert.ErrorIs(t, err, inErrors.ErrNotFound)
}

func TestCollectionsAndTestimonials(t *testing.T) {
	c, queries, teardown := setup(t)
	defer teardown()

	collections := NewContentService(Collections, queries, 10)
	totes, err := collections.Insert(c, request.Collection{Name: "Totes", Description: "roomy bags"})
	require.NoError(t, err)
	page, err := collections.FindActive(c, listing.Query{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, totes.ID, page.Items[0].ID)
	assert.Equal(t, "collections", collections.Name())

	testimonials := NewContentService(Testimonials, queries, 10)
	quote, err := testimonials.Insert(c, request.Testimonial{Name: "Ann", Quote: "Love it", Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, int32(5), quote.Rating)
	deleted, err := testimonials.Delete(c, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", deleted.Name)
}

func titles(
	find func(context.Context, listing.Query) (listing.Page[response.Slide], error),
) func(context.Context, listing.Query) (listing.Page[string], error) {
	return func(c context.Context, q listing.Query) (listing.Page[string], error) {
		page, err := find(c, q)
		if err != nil {
			return listing.Page[string]{}, err
		}
		return listing.Map(page, func(slide response.Slide) string { return slide.Title }), nil
	}
}
