package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/bagstore/internal/cache"
	inErrors "github.com/Alturino/bagstore/internal/errors"
	"github.com/Alturino/bagstore/internal/listing"
	"github.com/Alturino/bagstore/internal/log"
	inOtel "github.com/Alturino/bagstore/internal/otel"
	"github.com/Alturino/bagstore/internal/repository"
	"github.com/Alturino/bagstore/product/internal/otel"
	"github.com/Alturino/bagstore/product/pkg/request"
	"github.com/Alturino/bagstore/product/pkg/response"
)

const productTTL = 10 * time.Minute

type ProductService struct {
	queries      *repository.Queries
	cache        *redis.Client
	defaultLimit int
}

func NewProductService(queries *repository.Queries, cacheClient *redis.Client, defaultLimit int) *ProductService {
	return &ProductService{queries: queries, cache: cacheClient, defaultLimit: defaultLimit}
}

func (svc *ProductService) FindProducts(
	c context.Context,
	param request.FindProducts,
) (listing.Page[response.Product], error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProducts")
	defer span.End()

	query := param.Query.Normalize(svc.defaultLimit)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProducts").
		Any(log.KeyQuery, query).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding products in database").Logger()
	logger.Trace().Msg("finding products in database")
	rows, err := svc.queries.FindProducts(c, repository.FindProductsParams{
		Search:       query.Search,
		CollectionID: repository.NullUUID(param.CollectionID),
		MinPrice:     repository.NullableNumeric(param.MinPrice),
		MaxPrice:     repository.NullableNumeric(param.MaxPrice),
		Limit:        int32(query.Limit),
		Offset:       query.Offset(),
	})
	if err != nil {
		err = fmt.Errorf("failed finding products in database with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return listing.Page[response.Product]{}, err
	}
	logger.Trace().Int("count", len(rows)).Msg("found products in database")

	total := int64(0)
	products := make([]response.Product, 0, len(rows))
	for _, row := range rows {
		total = row.TotalCount
		products = append(products, row.Product.Response())
	}
	logger.Info().Int64("total", total).Msg("found products")
	return listing.NewPage(products, total, query), nil
}

func (svc *ProductService) FindProductById(c context.Context, id uuid.UUID) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProductById")
	defer span.End()

	cacheKey := cache.ProductKey(id)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService FindProductById").
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding product in cache").Logger()
	logger.Trace().Msg("finding product in cache")
	jsonCache, err := svc.cache.Get(c, cacheKey).Result()
	if err == nil {
		product := response.Product{}
		if err = json.Unmarshal([]byte(jsonCache), &product); err == nil {
			logger.Info().Msg("found product in cache")
			return product, nil
		}
		err = fmt.Errorf("failed unmarshalling product from cache with error=%w", err)
		logger.Warn().Err(err).Str(log.KeyJsonCache, jsonCache).Msg(err.Error())
	} else if !errors.Is(err, redis.Nil) {
		err = fmt.Errorf("failed finding product in cache with error=%w", err)
		logger.Warn().Err(err).Msg(err.Error())
	}

	logger = logger.With().Str(log.KeyProcess, "finding product in database").Logger()
	logger.Trace().Msg("finding product in database")
	row, err := svc.queries.FindProductById(c, id)
	if err != nil {
		err = fmt.Errorf("failed finding product in database with error=%w", repository.Translate(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	product := row.Response()
	logger.Trace().Msg("found product in database")

	c = logger.WithContext(c)
	svc.cacheProduct(c, product)

	logger.Info().Msg("found product")
	return product, nil
}

func (svc *ProductService) InsertProduct(
	c context.Context,
	param request.Product,
	images []string,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService InsertProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService InsertProduct").
		Str("name", param.Name).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding product by name").Logger()
	logger.Trace().Msg("finding product by name")
	if _, err := svc.queries.FindProductByName(c, param.Name); err == nil {
		err = fmt.Errorf("product name=%s %w", param.Name, inErrors.ErrAlreadyExist)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Trace().Msg("product name is free")

	logger = logger.With().Str(log.KeyProcess, "inserting product to database").Logger()
	logger.Trace().Msg("inserting product to database")
	row, err := svc.queries.InsertProduct(c, repository.InsertProductParams{
		Name:         param.Name,
		Description:  param.Description,
		Price:        repository.Numeric(param.Price),
		Quantity:     int32(param.Quantity),
		CollectionID: repository.NullUUID(param.CollectionID),
		Colors:       nonNil(param.Colors),
		Images:       append(nonNil(param.ExistingImages), images...),
	})
	if err != nil {
		err = fmt.Errorf("failed inserting product to database with error=%w", repository.Translate(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	product := row.Response()
	logger = logger.With().Str(log.KeyProductID, product.ID.String()).Logger()
	logger.Info().Msg("inserted product to database")

	c = logger.WithContext(c)
	svc.cacheProduct(c, product)
	return product, nil
}

// UpdateProduct replaces the product fields. Images sent in the form replace
// the stored ones, otherwise the stored ones are kept; uploads are appended.
func (svc *ProductService) UpdateProduct(
	c context.Context,
	param request.Product,
	images []string,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService UpdateProduct")
	defer span.End()

	cacheKey := cache.ProductKey(param.ID)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService UpdateProduct").
		Str(log.KeyProductID, param.ID.String()).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	existing := param.ExistingImages
	if existing == nil {
		logger = logger.With().Str(log.KeyProcess, "finding stored images").Logger()
		logger.Trace().Msg("finding stored images")
		current, err := svc.queries.FindProductById(c, param.ID)
		if err != nil {
			err = fmt.Errorf("failed finding product with error=%w", repository.Translate(err))
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Product{}, err
		}
		existing = current.Images
		logger.Trace().Strs("images", existing).Msg("found stored images")
	}

	logger = logger.With().Str(log.KeyProcess, "updating product in database").Logger()
	logger.Trace().Msg("updating product in database")
	row, err := svc.queries.UpdateProduct(c, repository.UpdateProductParams{
		ID:           param.ID,
		Name:         param.Name,
		Description:  param.Description,
		Price:        repository.Numeric(param.Price),
		Quantity:     int32(param.Quantity),
		CollectionID: repository.NullUUID(param.CollectionID),
		Colors:       nonNil(param.Colors),
		Images:       append(nonNil(existing), images...),
	})
	if err != nil {
		err = fmt.Errorf("failed updating product in database with error=%w", repository.Translate(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	product := row.Response()
	logger.Info().Msg("updated product in database")

	c = logger.WithContext(c)
	svc.cacheProduct(c, product)
	return product, nil
}

func (svc *ProductService) DeleteProduct(c context.Context, id uuid.UUID) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService DeleteProduct")
	defer span.End()

	cacheKey := cache.ProductKey(id)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductService DeleteProduct").
		Str(log.KeyProductID, id.String()).
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "deleting product in database").Logger()
	logger.Trace().Msg("deleting product in database")
	row, err := svc.queries.DeleteProduct(c, id)
	if err != nil {
		err = fmt.Errorf("failed deleting product in database with error=%w", repository.Translate(err))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("deleted product in database")

	logger = logger.With().Str(log.KeyProcess, "deleting product in cache").Logger()
	logger.Trace().Msg("deleting product in cache")
	if err = svc.cache.Del(c, cacheKey).Err(); err != nil {
		err = fmt.Errorf("failed deleting product in cache with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("deleted product in cache")

	return row.Response(), nil
}

// cacheProduct is best effort, a failure only costs the next read a database
// round trip.
func (svc *ProductService) cacheProduct(c context.Context, product response.Product) {
	cacheKey := cache.ProductKey(product.ID)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyProcess, "inserting product to cache").
		Str(log.KeyCacheKey, cacheKey).
		Logger()

	logger.Trace().Msg("inserting product to cache")
	value, err := json.Marshal(product)
	if err == nil {
		err = svc.cache.Set(c, cacheKey, value, productTTL).Err()
	}
	if err != nil {
		err = fmt.Errorf("failed inserting product to cache with error=%w", err)
		logger.Warn().Err(err).Msg(err.Error())
		return
	}
	logger.Trace().Msg("inserted product to cache")
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
