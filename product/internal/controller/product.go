package controller

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	inHttp "github.com/Alturino/bagstore/internal/http"
	"github.com/Alturino/bagstore/internal/listing"
	"github.com/Alturino/bagstore/internal/log"
	inOtel "github.com/Alturino/bagstore/internal/otel"
	productErrors "github.com/Alturino/bagstore/product/internal/errors"
	"github.com/Alturino/bagstore/product/internal/otel"
	"github.com/Alturino/bagstore/product/internal/service"
	"github.com/Alturino/bagstore/product/internal/upload"
	"github.com/Alturino/bagstore/product/pkg/request"
)

const maxFormMemory = 32 << 20

type ProductController struct {
	service *service.ProductService
	uploads *upload.Store
}

func AttachProductController(
	router *mux.Router,
	service *service.ProductService,
	uploads *upload.Store,
	admin mux.MiddlewareFunc,
) {
	controller := ProductController{service: service, uploads: uploads}

	public := router.PathPrefix("/bag-collections").Subrouter()
	public.HandleFunc("/getlist", controller.FindProducts).Methods(http.MethodGet)
	public.HandleFunc("/get/{id}", controller.FindProductById).Methods(http.MethodGet)

	private := router.PathPrefix("/bag-collections").Subrouter()
	private.Use(admin)
	private.HandleFunc("/create", controller.InsertProduct).Methods(http.MethodPost)
	private.HandleFunc("/update", controller.UpdateProduct).Methods(http.MethodPost)
	private.HandleFunc("/delete", controller.DeleteProduct).Methods(http.MethodPost)
}

func findProductsFromRequest(r *http.Request) (request.FindProducts, error) {
	values := r.URL.Query()
	param := request.FindProducts{Query: listing.QueryFromValues(values)}
	messages := []string{}
	if raw := values.Get("collection"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			messages = append(messages, "collection must be a valid id")
		} else {
			param.CollectionID = &id
		}
	}
	for key, target := range map[string]**decimal.Decimal{"minPrice": &param.MinPrice, "maxPrice": &param.MaxPrice} {
		raw := values.Get(key)
		if raw == "" {
			continue
		}
		price, err := decimal.NewFromString(raw)
		if err != nil {
			messages = append(messages, key+" must be a number")
			continue
		}
		*target = &price
	}
	if len(messages) > 0 {
		return param, &inHttp.RequestError{Messages: messages}
	}
	return param, nil
}

func (ctrl ProductController) FindProducts(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController FindProducts").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "parsing query").Logger()
	logger.Trace().Msg("parsing query")
	param, err := findProductsFromRequest(r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Trace().Msg("parsed query")

	logger = logger.With().Str(log.KeyProcess, "finding products").Logger()
	logger.Info().Msg("finding products")
	c = logger.WithContext(c)
	page, err := ctrl.service.FindProducts(c, param)
	if err != nil {
		err = fmt.Errorf("failed finding products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("found products")

	inHttp.WriteSuccess(c, w, http.StatusOK, "products found", page)
}

func (ctrl ProductController) FindProductById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController FindProductById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController FindProductById").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "parsing path values").Logger()
	logger.Trace().Msg("parsing path values")
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		err = &inHttp.RequestError{Messages: []string{"id must be a valid id"}}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger = logger.With().Str(log.KeyProductID, id.String()).Logger()
	logger.Trace().Msg("parsed path values")

	logger = logger.With().Str(log.KeyProcess, "finding product").Logger()
	logger.Info().Msg("finding product")
	c = logger.WithContext(c)
	product, err := ctrl.service.FindProductById(c, id)
	if err != nil {
		err = fmt.Errorf("failed finding product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("found product")

	inHttp.WriteSuccess(c, w, http.StatusOK, "product found", product)
}

func splitList(raw string) []string {
	values := []string{}
	for _, value := range strings.Split(raw, ",") {
		if value = strings.TrimSpace(value); value != "" {
			values = append(values, value)
		}
	}
	return values
}

// productForm reads a product from a multipart form, or from a json body
// when no files are sent.
func (ctrl ProductController) productForm(w http.ResponseWriter, r *http.Request) (request.Product, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get(inHttp.KEY_HEADER_CONTENT_TYPE))
	if mediaType == inHttp.VALUE_HEADER_APPLICATION_JSON {
		return inHttp.DecodeJson[request.Product](r.Context(), r)
	}

	r.Body = http.MaxBytesReader(w, r.Body, ctrl.uploads.MaxBytes()*10+maxFormMemory)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		return request.Product{}, &inHttp.RequestError{
			Messages: []string{fmt.Sprintf("%s: %s", productErrors.ErrInvalidForm.Error(), err.Error())},
		}
	}

	messages := []string{}
	param := request.Product{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: r.FormValue("description"),
		Colors:      splitList(r.FormValue("colors")),
	}
	if raw := r.FormValue("id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			messages = append(messages, "id must be a valid id")
		}
		param.ID = id
	}
	price, err := decimal.NewFromString(r.FormValue("price"))
	if err != nil {
		messages = append(messages, "price must be a non negative amount")
	}
	param.Price = price
	if raw := r.FormValue("quantity"); raw != "" {
		quantity, err := cast.ToIntE(raw)
		if err != nil {
			messages = append(messages, "quantity must be a whole number")
		}
		param.Quantity = quantity
	}
	if raw := r.FormValue("collectionId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			messages = append(messages, "collectionId must be a valid id")
		} else {
			param.CollectionID = &id
		}
	}
	if values, ok := r.MultipartForm.Value["images"]; ok {
		param.ExistingImages = splitList(strings.Join(values, ","))
	}
	if len(messages) > 0 {
		return param, &inHttp.RequestError{Messages: messages}
	}
	return param, inHttp.Validate(r.Context(), param)
}

func (ctrl ProductController) saveProduct(w http.ResponseWriter, r *http.Request, update bool) {
	tag := "ProductController InsertProduct"
	if update {
		tag = "ProductController UpdateProduct"
	}
	c, span := otel.Tracer.Start(r.Context(), tag)
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, tag).Logger()

	logger = logger.With().Str(log.KeyProcess, "parsing form").Logger()
	logger.Trace().Msg("parsing form")
	r = r.WithContext(c)
	param, err := ctrl.productForm(w, r)
	if err == nil && update && param.ID == uuid.Nil {
		err = &inHttp.RequestError{Messages: []string{"id is required"}}
	}
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger = logger.With().Any(log.KeyProduct, param).Logger()
	logger.Trace().Msg("parsed form")

	images := []string{}
	if r.MultipartForm != nil {
		logger = logger.With().Str(log.KeyProcess, "saving images").Logger()
		logger.Trace().Msg("saving images")
		c = logger.WithContext(c)
		images, err = ctrl.uploads.Save(c, r.MultipartForm.File["images"])
		if err != nil {
			for _, rejected := range []error{productErrors.ErrImageUnsupported, productErrors.ErrImageTooLarge} {
				if errors.Is(err, rejected) {
					err = &inHttp.RequestError{Messages: []string{"images " + rejected.Error()}}
					break
				}
			}
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			inHttp.WriteError(c, w, err)
			return
		}
		logger = logger.With().Strs(log.KeyUploadedFiles, images).Logger()
		logger.Trace().Msg("saved images")
	}

	logger = logger.With().Str(log.KeyProcess, "saving product").Logger()
	logger.Info().Msg("saving product")
	c = logger.WithContext(c)
	save, message := ctrl.service.InsertProduct, "product created"
	if update {
		save, message = ctrl.service.UpdateProduct, "product updated"
	}
	product, err := save(c, param, images)
	if err != nil {
		ctrl.uploads.Remove(c, images)
		err = fmt.Errorf("failed saving product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("saved product")

	inHttp.WriteSuccess(c, w, http.StatusOK, message, product)
}

func (ctrl ProductController) InsertProduct(w http.ResponseWriter, r *http.Request) {
	ctrl.saveProduct(w, r, false)
}

func (ctrl ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctrl.saveProduct(w, r, true)
}

func (ctrl ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController DeleteProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController DeleteProduct").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	param, err := inHttp.DecodeJson[request.DeleteProduct](c, r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger = logger.With().Str(log.KeyProductID, param.ID.String()).Logger()
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "deleting product").Logger()
	logger.Info().Msg("deleting product")
	c = logger.WithContext(c)
	product, err := ctrl.service.DeleteProduct(c, param.ID)
	if err != nil {
		err = fmt.Errorf("failed deleting product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	ctrl.uploads.Remove(c, product.Images)
	logger.Info().Msg("deleted product")

	inHttp.WriteSuccess(c, w, http.StatusOK, "product deleted", product)
}
