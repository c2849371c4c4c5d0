package console

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Alturino/bagstore/internal/listing"
)

// ParseFields reads field=value pairs. A value that is valid json keeps its
// json type so numbers, flags and lists reach the backend as such, anything
// else is sent as text.
func ParseFields(pairs []string) (Item, error) {
	fields := Item{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("field=%s must look like name=value", pair)
		}
		var decoded interface{}
		if err := json.Unmarshal([]byte(value), &decoded); err == nil {
			fields[key] = decoded
			continue
		}
		fields[key] = value
	}
	return fields, nil
}

// ReadFields loads a json object from path, overlaying pairs on top of it.
func ReadFields(path string, pairs []string) (Item, error) {
	fields := Item{}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed reading fields file=%s with error=%w", path, err)
		}
		if err = json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("failed decoding fields file=%s with error=%w", path, err)
		}
	}
	overlay, err := ParseFields(pairs)
	if err != nil {
		return nil, err
	}
	for key, value := range overlay {
		fields[key] = value
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields given, pass --set name=value or --file")
	}
	return fields, nil
}

func toItems[T any](resource string, page listing.Page[T]) (listing.Page[Item], error) {
	items := make([]Item, 0, len(page.Items))
	for _, value := range page.Items {
		raw, err := json.Marshal(value)
		if err != nil {
			return listing.Page[Item]{}, fmt.Errorf("failed encoding %s with error=%w", resource, err)
		}
		item := Item{}
		if err = json.Unmarshal(raw, &item); err != nil {
			return listing.Page[Item]{}, fmt.Errorf("failed decoding %s with error=%w", resource, err)
		}
		items = append(items, item)
	}
	return listing.Page[Item]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}, nil
}

// savedKey picks the key of a record the backend echoed after a write.
func savedKey(resource string, raw json.RawMessage) string {
	item := Item{}
	if len(raw) == 0 || json.Unmarshal(raw, &item) != nil {
		return ""
	}
	return text(item[keys[resource]])
}
