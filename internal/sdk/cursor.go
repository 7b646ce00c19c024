package sdk

// Cursor is the paginated-list envelope every list operation returns,
// regardless of which backend version served it.
type Cursor[T any] struct {
	Data     []T    `json:"data"`
	PageSize int64  `json:"pageSize"`
	HasMore  bool   `json:"hasMore"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
}

// MockCursor wraps an already-fetched flat array in the cursor envelope, for
// backend versions that do not paginate. The result is always a single page.
func MockCursor[T any](data []T) Cursor[T] {
	if data == nil {
		data = []T{}
	}
	return Cursor[T]{
		Data:     data,
		PageSize: int64(len(data)),
		HasMore:  false,
	}
}

// MapCursor converts the items of a cursor while keeping its page fields.
// Used to turn a cursor of raw version-specific records into a cursor of
// normalized models.
func MapCursor[In, Out any](c Cursor[In], fn func(In) Out) Cursor[Out] {
	out := Cursor[Out]{
		Data:     make([]Out, 0, len(c.Data)),
		PageSize: c.PageSize,
		HasMore:  c.HasMore,
		Next:     c.Next,
		Previous: c.Previous,
	}
	for _, item := range c.Data {
		out.Data = append(out.Data, fn(item))
	}
	return out
}
