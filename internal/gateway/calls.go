package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	couponRequest "github.com/Alturino/bagstore/coupon/pkg/request"
	couponResponse "github.com/Alturino/bagstore/coupon/pkg/response"
	"github.com/Alturino/bagstore/internal/listing"
	orderRequest "github.com/Alturino/bagstore/order/pkg/request"
	orderResponse "github.com/Alturino/bagstore/order/pkg/response"
	productRequest "github.com/Alturino/bagstore/product/pkg/request"
	productResponse "github.com/Alturino/bagstore/product/pkg/response"
	userResponse "github.com/Alturino/bagstore/user/pkg/response"
)

func (cl *Client) Products(
	c context.Context,
	param productRequest.FindProducts,
) (listing.Page[productResponse.Product], error) {
	query := param.Query.Values()
	if param.CollectionID != nil {
		query.Set("collection", param.CollectionID.String())
	}
	if param.MinPrice != nil {
		query.Set("minPrice", param.MinPrice.String())
	}
	if param.MaxPrice != nil {
		query.Set("maxPrice", param.MaxPrice.String())
	}
	page := listing.Page[productResponse.Product]{}
	err := cl.Do(c, http.MethodGet, "/bag-collections/getlist", query, nil, &page)
	return page, err
}

func (cl *Client) Product(c context.Context, id uuid.UUID) (productResponse.Product, error) {
	product := productResponse.Product{}
	err := cl.Do(c, http.MethodGet, "/bag-collections/get/"+id.String(), nil, nil, &product)
	return product, err
}

func productFields(param productRequest.Product) map[string]string {
	fields := map[string]string{
		"name":        param.Name,
		"description": param.Description,
		"price":       param.Price.String(),
		"quantity":    fmt.Sprint(param.Quantity),
		"colors":      strings.Join(param.Colors, ","),
	}
	if param.CollectionID != nil {
		fields["collectionId"] = param.CollectionID.String()
	}
	if param.ID != uuid.Nil {
		fields["id"] = param.ID.String()
	}
	if len(param.ExistingImages) > 0 {
		fields["images"] = strings.Join(param.ExistingImages, ",")
	}
	return fields
}

func (cl *Client) CreateProduct(
	c context.Context,
	param productRequest.Product,
	images []string,
) (productResponse.Product, error) {
	product := productResponse.Product{}
	err := cl.DoMultipart(c, "/bag-collections/create", productFields(param), "images", images, &product)
	return product, err
}

func (cl *Client) UpdateProduct(
	c context.Context,
	param productRequest.Product,
	images []string,
) (productResponse.Product, error) {
	product := productResponse.Product{}
	err := cl.DoMultipart(c, "/bag-collections/update", productFields(param), "images", images, &product)
	return product, err
}

// ApplyCoupon validates code against orderTotal on the backend.
func (cl *Client) ApplyCoupon(
	c context.Context,
	code string,
	orderTotal decimal.Decimal,
) (couponResponse.AppliedCoupon, error) {
	applied := couponResponse.AppliedCoupon{}
	err := cl.Do(
		c,
		http.MethodPost,
		"/coupons/apply",
		nil,
		couponRequest.ApplyCoupon{Code: code, OrderTotal: orderTotal},
		&applied,
	)
	return applied, err
}

func (cl *Client) ShippingMethods(
	c context.Context,
	country string,
	postalCode string,
) ([]orderResponse.ShippingMethod, error) {
	query := url.Values{}
	query.Set("country", country)
	query.Set("postalCode", postalCode)
	methods := []orderResponse.ShippingMethod{}
	err := cl.Do(c, http.MethodGet, "/shipping", query, nil, &methods)
	return methods, err
}

func (cl *Client) PlaceOrder(c context.Context, param orderRequest.Checkout) (orderResponse.Order, error) {
	order := orderResponse.Order{}
	err := cl.Do(c, http.MethodPost, "/checkout", nil, param, &order)
	return order, err
}

func (cl *Client) Order(c context.Context, id uuid.UUID) (orderResponse.Order, error) {
	order := orderResponse.Order{}
	err := cl.Do(c, http.MethodPost, "/checkout/getbyId", nil, orderRequest.GetOrderById{ID: id}, &order)
	return order, err
}

func (cl *Client) UpdateOrderStatus(c context.Context, id uuid.UUID, status string) (orderResponse.Order, error) {
	order := orderResponse.Order{}
	err := cl.Do(
		c,
		http.MethodPost,
		"/checkout/update-Status",
		nil,
		orderRequest.UpdateOrderStatus{ID: id, Status: status},
		&order,
	)
	return order, err
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (cl *Client) AdminLogin(c context.Context, email string, password string) (userResponse.Token, error) {
	token := userResponse.Token{}
	err := cl.Do(c, http.MethodPost, "/admin/login", nil, credentials{Email: email, Password: password}, &token)
	return token, err
}

func (cl *Client) AdminLogout(c context.Context) error {
	return cl.Do(c, http.MethodPost, "/admin/logout", nil, nil, nil)
}
