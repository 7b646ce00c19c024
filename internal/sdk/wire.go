package sdk

import (
	"encoding/json"
	"net/url"
	"strconv"
)

// dataEnvelope is the single-item response wrapper every backend version
// uses for fetches and creates.
type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

// cursorEnvelope is the paginated response wrapper of cursor-aware backends.
type cursorEnvelope[T any] struct {
	Cursor Cursor[T] `json:"cursor"`
}

// legacyListParams serializes a ListRequest the way pre-v3 backends expect:
// limit and sort as plain parameters, and the free-form query flattened into
// one JSON-encoded string parameter.
func legacyListParams(req ListRequest) url.Values {
	params := url.Values{}
	if req.PageSize > 0 {
		params.Set("limit", strconv.FormatInt(req.PageSize, 10))
	}
	if req.Sort != "" {
		params.Set("sort", req.Sort)
	}
	if len(req.Query) > 0 {
		if encoded, err := json.Marshal(req.Query); err == nil {
			params.Set("query", string(encoded))
		}
	}
	return params
}

// cursorListParams serializes a ListRequest for backends that paginate GET
// lists with an opaque cursor token.
func cursorListParams(req ListRequest) url.Values {
	params := url.Values{}
	if req.PageSize > 0 {
		params.Set("pageSize", strconv.FormatInt(req.PageSize, 10))
	}
	if req.Cursor != "" {
		params.Set("cursor", req.Cursor)
	}
	if req.Sort != "" {
		params.Set("sort", req.Sort)
	}
	return params
}

// listBody is the structured list request cursor-aware backends accept; the
// query object travels as-is, no string serialization.
type listBody struct {
	PageSize int64          `json:"pageSize,omitempty"`
	Cursor   string         `json:"cursor,omitempty"`
	Sort     string         `json:"sort,omitempty"`
	Query    map[string]any `json:"query,omitempty"`
}

func v3ListBody(req ListRequest) listBody {
	return listBody{
		PageSize: req.PageSize,
		Cursor:   req.Cursor,
		Sort:     req.Sort,
		Query:    req.Query,
	}
}
