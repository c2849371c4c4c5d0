package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/google/uuid"

	"github.com/Alturino/bagstore/internal/listing"
	productRequest "github.com/Alturino/bagstore/product/pkg/request"
)

// Resource describes how the admin screens list and write one backend
// collection.
type Resource struct {
	Name       string
	ListMethod string
	ListPath   string
	// CreatePath is empty when records cannot be created from the console.
	CreatePath string
	// UpdatePath returns the path updating id, nil when records are read only.
	UpdatePath func(id string) string
	// Multipart resources are written as forms carrying image files.
	Multipart bool
	// Delete returns the path and body deleting id, or ErrUnsupported.
	Delete func(id string) (path string, body interface{}, err error)
}

func unsupported(string) (string, interface{}, error) {
	return "", nil, ErrUnsupported
}

func contentResource(name string) Resource {
	return Resource{
		Name:       name,
		ListMethod: http.MethodPost,
		ListPath:   "/" + name + "/list",
		CreatePath: "/" + name + "/create",
		UpdatePath: func(id string) string {
			return fmt.Sprintf("/%s/%s/update", name, id)
		},
		Delete: func(id string) (string, interface{}, error) {
			return fmt.Sprintf("/%s/%s/delete", name, id), nil, nil
		},
	}
}

var resources = map[string]Resource{
	"collections":  contentResource("collections"),
	"slides":       contentResource("slides"),
	"testimonials": contentResource("testimonials"),
	"coupons": {
		Name:       "coupons",
		ListMethod: http.MethodPost,
		ListPath:   "/coupons/getlist",
		CreatePath: "/coupons/create",
		UpdatePath: func(code string) string {
			return fmt.Sprintf("/coupons/%s/update", code)
		},
		Delete: func(code string) (string, interface{}, error) {
			return fmt.Sprintf("/coupons/%s/delete", code), nil, nil
		},
	},
	"contacts": {
		Name:       "contacts",
		ListMethod: http.MethodPost,
		ListPath:   "/contact/list",
		Delete:     unsupported,
	},
	"orders": {
		Name:       "orders",
		ListMethod: http.MethodPost,
		ListPath:   "/checkout/getlist",
		Delete:     unsupported,
	},
	"products": {
		Name:       "products",
		ListMethod: http.MethodGet,
		ListPath:   "/bag-collections/getlist",
		CreatePath: "/bag-collections/create",
		UpdatePath: func(string) string {
			return "/bag-collections/update"
		},
		Multipart: true,
		Delete: func(id string) (string, interface{}, error) {
			return "/bag-collections/delete", map[string]string{"id": id}, nil
		},
	},
	"newsletter": {
		Name:       "newsletter",
		ListMethod: http.MethodGet,
		ListPath:   "/newsletter/getlist",
		Delete: func(email string) (string, interface{}, error) {
			return "/newsletter/unsubscribe", map[string]string{"email": email}, nil
		},
	},
}

func LookupResource(name string) (Resource, error) {
	resource, ok := resources[name]
	if !ok {
		return Resource{}, fmt.Errorf("unknown resource=%s, expected one of %v", name, ResourceNames())
	}
	return resource, nil
}

func ResourceNames() []string {
	names := make([]string, 0, len(resources))
	for name := range resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List fetches one page of resource decoding each item as T.
func List[T any](c context.Context, cl *Client, resource Resource, q listing.Query) (listing.Page[T], error) {
	page := listing.Page[T]{}
	var err error
	if resource.ListMethod == http.MethodGet {
		err = cl.Do(c, http.MethodGet, resource.ListPath, q.Values(), nil, &page)
	} else {
		err = cl.Do(c, resource.ListMethod, resource.ListPath, nil, q, &page)
	}
	if err != nil {
		return listing.Page[T]{}, err
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page, nil
}

// ListRaw lists any resource leaving items undecoded.
func (cl *Client) ListRaw(c context.Context, name string, q listing.Query) (listing.Page[json.RawMessage], error) {
	resource, err := LookupResource(name)
	if err != nil {
		return listing.Page[json.RawMessage]{}, err
	}
	return List[json.RawMessage](c, cl, resource, q)
}

func (cl *Client) Delete(c context.Context, name string, id string) error {
	resource, err := LookupResource(name)
	if err != nil {
		return err
	}
	path, body, err := resource.Delete(id)
	if err != nil {
		return fmt.Errorf("failed deleting %s with error=%w", name, err)
	}
	return cl.Do(c, http.MethodPost, path, nil, body, nil)
}

// Create writes a new record of resource from fields. Images are uploaded only
// for multipart resources.
func (cl *Client) Create(
	c context.Context,
	name string,
	fields map[string]interface{},
	images []string,
) (json.RawMessage, error) {
	return cl.save(c, name, "", fields, images)
}

// Update replaces record id of resource with fields.
func (cl *Client) Update(
	c context.Context,
	name string,
	id string,
	fields map[string]interface{},
	images []string,
) (json.RawMessage, error) {
	if id == "" {
		return nil, fmt.Errorf("failed updating %s with error=id is required", name)
	}
	return cl.save(c, name, id, fields, images)
}

func (cl *Client) save(
	c context.Context,
	name string,
	id string,
	fields map[string]interface{},
	images []string,
) (json.RawMessage, error) {
	resource, err := LookupResource(name)
	if err != nil {
		return nil, err
	}
	path := resource.CreatePath
	if id != "" {
		path = ""
		if resource.UpdatePath != nil {
			path = resource.UpdatePath(id)
		}
	}
	if path == "" {
		return nil, fmt.Errorf("failed saving %s with error=%w", name, ErrUnsupported)
	}
	if !resource.Multipart {
		if len(images) > 0 {
			return nil, fmt.Errorf("failed saving %s with error=images are only uploaded for products", name)
		}
		raw := json.RawMessage{}
		if err = cl.Do(c, http.MethodPost, path, nil, fields, &raw); err != nil {
			return nil, err
		}
		return raw, nil
	}

	param, err := productForm(id, fields)
	if err != nil {
		return nil, err
	}
	if id == "" {
		product, err := cl.CreateProduct(c, param, images)
		if err != nil {
			return nil, err
		}
		return json.Marshal(product)
	}
	product, err := cl.UpdateProduct(c, param, images)
	if err != nil {
		return nil, err
	}
	return json.Marshal(product)
}

func productForm(id string, fields map[string]interface{}) (productRequest.Product, error) {
	param := productRequest.Product{}
	raw, err := json.Marshal(fields)
	if err == nil {
		err = json.Unmarshal(raw, &param)
	}
	if err != nil {
		return productRequest.Product{}, fmt.Errorf("failed reading product fields with error=%w", err)
	}
	if id != "" {
		param.ID, err = uuid.Parse(id)
		if err != nil {
			return productRequest.Product{}, fmt.Errorf("product id=%s is invalid", id)
		}
	}
	return param, nil
}
