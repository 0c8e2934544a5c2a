package domain

import (
	"net/url"
	"strconv"
	"strings"
)

// List defaults
const (
	DefaultPage  = 1
	DefaultLimit = 25
	DefaultSort  = "-createdAt"

	// MaxLimit and MaxPage bound paging so offsets stay far from overflow
	MaxLimit = 100
	MaxPage  = 1_000_000_000
)

// Comparison operators accepted in list filters
const (
	OpEq  = "eq"
	OpGt  = "gt"
	OpGte = "gte"
	OpLt  = "lt"
	OpLte = "lte"
	OpIn  = "in"
)

var reservedParams = map[string]bool{
	"select": true,
	"sort":   true,
	"page":   true,
	"limit":  true,
}

// Condition is a single field predicate, e.g. postalcode[gte]=10000
type Condition struct {
	Field  string
	Op     string
	Values []string
}

// SortField orders results on one field
type SortField struct {
	Field string
	Desc  bool
}

// ListQuery is a parsed filter/select/sort/paginate request
type ListQuery struct {
	Conditions []Condition
	// Select keeps only the named fields. Omit drops the named fields and
	// is only used when Select is empty.
	Select []string
	Omit   []string
	Sort   []SortField
	Page   int
	Limit  int
}

// Projected reports whether the caller asked for a subset of fields
func (q ListQuery) Projected() bool {
	return len(q.Select) > 0 || len(q.Omit) > 0
}

// Skip returns the number of documents before the requested page
func (q ListQuery) Skip() int64 {
	return int64(q.Page-1) * int64(q.Limit)
}

// PageRef points at a neighbouring page
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination carries next/prev hints; each is present only when that page exists
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// NewPagination computes hints for q against a collection of total documents
func NewPagination(q ListQuery, total int64) Pagination {
	var p Pagination
	if int64(q.Page)*int64(q.Limit) < total {
		p.Next = &PageRef{Page: q.Page + 1, Limit: q.Limit}
	}
	if q.Skip() > 0 {
		p.Prev = &PageRef{Page: q.Page - 1, Limit: q.Limit}
	}
	return p
}

// ParseListQuery turns query-string parameters into a ListQuery.
// Repeated parameters use their first value, except in-lists which merge.
func ParseListQuery(values url.Values) ListQuery {
	q := ListQuery{
		Page:  min(positiveInt(values.Get("page"), DefaultPage), MaxPage),
		Limit: min(positiveInt(values.Get("limit"), DefaultLimit), MaxLimit),
	}

	for _, f := range splitList(values.Get("select")) {
		if name, ok := strings.CutPrefix(f, "-"); ok {
			if name != "" {
				q.Omit = append(q.Omit, name)
			}
			continue
		}
		q.Select = append(q.Select, strings.TrimPrefix(f, "+"))
	}
	// MongoDB rejects projections that mix inclusion and exclusion
	if len(q.Select) > 0 {
		q.Omit = nil
	}

	sortSpec := values.Get("sort")
	if sortSpec == "" {
		sortSpec = DefaultSort
	}
	for _, f := range splitList(sortSpec) {
		if name, ok := strings.CutPrefix(f, "-"); ok {
			q.Sort = append(q.Sort, SortField{Field: name, Desc: true})
		} else {
			q.Sort = append(q.Sort, SortField{Field: strings.TrimPrefix(f, "+")})
		}
	}

	for key, vals := range values {
		if reservedParams[key] || len(vals) == 0 {
			continue
		}
		field, op, ok := parseFilterKey(key)
		if !ok {
			continue
		}

		cond := Condition{Field: field, Op: op}
		if op == OpIn {
			for _, v := range vals {
				cond.Values = append(cond.Values, splitList(v)...)
			}
		} else {
			cond.Values = []string{vals[0]}
		}
		q.Conditions = append(q.Conditions, cond)
	}

	return q
}

// parseFilterKey splits "field[op]" (or "field[in][]") into its parts
func parseFilterKey(key string) (field, op string, ok bool) {
	key = strings.TrimSuffix(key, "[]")
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return key, OpEq, key != ""
	}
	if !strings.HasSuffix(key, "]") || open == 0 {
		return "", "", false
	}

	field = key[:open]
	op = key[open+1 : len(key)-1]
	switch op {
	case OpEq, OpGt, OpGte, OpLt, OpLte, OpIn:
		return field, op, true
	default:
		return "", "", false
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func positiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
