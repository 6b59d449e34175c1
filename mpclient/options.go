package mpclient

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"time"

	"github.com/google/go-querystring/query"
)

// RequestOption customizes a single request.
type RequestOption func(*requestConfig)

type requestConfig struct {
	query  url.Values
	header http.Header
	err    error
}

func newRequestConfig(opts []RequestOption) *requestConfig {
	cfg := &requestConfig{
		query:  make(url.Values),
		header: make(http.Header),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithQuery adds query parameters to the request.
//
// params may be a struct (or pointer to one) with `url` tags, url.Values, or a
// map[string]any. Slices are always serialized as repeated keys:
// {"filter": ["x", "y"]} becomes filter=x&filter=y.
func WithQuery(params any) RequestOption {
	return func(cfg *requestConfig) {
		values, err := EncodeQuery(params)
		if err != nil {
			cfg.err = err
			return
		}
		for key, vals := range values {
			for _, v := range vals {
				cfg.query.Add(key, v)
			}
		}
	}
}

// WithHeader sets a header on the request, overriding the client's default for that key.
func WithHeader(key, value string) RequestOption {
	return func(cfg *requestConfig) {
		cfg.header.Set(key, value)
	}
}

// EncodeQuery converts params into url.Values using repeated keys for slices.
func EncodeQuery(params any) (url.Values, error) {
	switch p := params.(type) {
	case nil:
		return url.Values{}, nil
	case url.Values:
		return cloneValues(p), nil
	case map[string][]string:
		return cloneValues(p), nil
	case map[string]string:
		values := make(url.Values, len(p))
		for key, v := range p {
			values.Set(key, v)
		}
		return values, nil
	case map[string]any:
		values := make(url.Values, len(p))
		for key, v := range p {
			addValue(values, key, reflect.ValueOf(v))
		}
		return values, nil
	}

	values, err := query.Values(params)
	if err != nil {
		return nil, fmt.Errorf("mpclient: encode query: %w", err)
	}
	return values, nil
}

func cloneValues(in map[string][]string) url.Values {
	out := make(url.Values, len(in))
	for key, vals := range in {
		out[key] = append([]string(nil), vals...)
	}
	return out
}

func addValue(values url.Values, key string, v reflect.Value) {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return
	}

	if t, ok := v.Interface().(time.Time); ok {
		values.Add(key, t.Format(time.RFC3339))
		return
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
			values.Add(key, string(v.Bytes()))
			return
		}
		for i := 0; i < v.Len(); i++ {
			addValue(values, key, v.Index(i))
		}
	case reflect.String:
		values.Add(key, v.String())
	case reflect.Bool:
		values.Add(key, strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		values.Add(key, strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		values.Add(key, strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		values.Add(key, strconv.FormatFloat(v.Float(), 'f', -1, v.Type().Bits()))
	default:
		values.Add(key, fmt.Sprint(v.Interface()))
	}
}
