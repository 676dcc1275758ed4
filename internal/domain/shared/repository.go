package shared

// Filter represents list query options
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Filters  map[string]interface{}
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 50,
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
}

// Offset returns the row offset for the filter's page
func (f Filter) Offset() int {
	if f.Page < 1 || f.PageSize < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// With returns a copy of the filter carrying an extra equality condition.
// Nil-valued conditions are dropped so optional query params can be passed
// straight through.
func (f Filter) With(column string, value interface{}) Filter {
	out := f
	out.Filters = make(map[string]interface{}, len(f.Filters)+1)
	for k, v := range f.Filters {
		out.Filters[k] = v
	}
	if value != nil {
		out.Filters[column] = value
	}
	return out
}
