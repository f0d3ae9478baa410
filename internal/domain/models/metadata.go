package models

import (
	"errors"
	"strings"

	"github.com/Temutjin2k/studylens-dashboard/pkg/validator"
)

const (
	DefaultPageSize = 15
	MaxPageSize     = 100
	maxPage         = 10_000_000
)

// Filters is a page request over an in-memory listing. Sort is a safelisted
// key, optionally prefixed with "-" for descending order.
type Filters struct {
	Page         int
	PageSize     int
	Sort         string
	SortSafelist []string
}

func NewFilters(page int, pageSize int, sort string, sortSafelist []string) (Filters, error) {
	if len(sortSafelist) == 0 {
		return Filters{}, errors.New("sort safelist is empty")
	}
	return Filters{Page: page, PageSize: pageSize, Sort: sort, SortSafelist: sortSafelist}, nil
}

func (f Filters) Validate(v *validator.Validator) {
	v.Check(f.Page > 0, "page", "must be greater than zero")
	v.Check(f.Page <= maxPage, "page", "must be a maximum of 10 million")
	v.Check(f.PageSize > 0, "page_size", "must be greater than zero")
	v.Check(f.PageSize <= MaxPageSize, "page_size", "must be a maximum of 100")
	v.Check(validator.PermittedValue(f.Sort, f.SortSafelist...), "sort", "invalid sort value")
}

// SortColumn is the sort key without its direction prefix.
// A value outside the safelist resolves to the first safelist entry.
func (f Filters) SortColumn() string {
	key := f.SortSafelist[0]
	if validator.PermittedValue(f.Sort, f.SortSafelist...) {
		key = f.Sort
	}
	return strings.TrimPrefix(key, "-")
}

func (f Filters) Descending() bool {
	return strings.HasPrefix(f.Sort, "-")
}

// Window returns the [start, end) slice bounds of the page within total records.
// Pages past the end give an empty window at total.
func (f Filters) Window(total int) (start, end int) {
	start = min((f.Page-1)*f.PageSize, total)
	end = min(start+f.PageSize, total)
	return start, end
}

type Metadata struct {
	CurrentPage  int `json:"current_page"`
	PageSize     int `json:"page_size"`
	FirstPage    int `json:"first_page"`
	LastPage     int `json:"last_page"`
	TotalRecords int `json:"total_records"`
}

// CalculateMetadata fills page bounds; an empty listing has first and last page 0.
func CalculateMetadata(totalRecords, page, pageSize int) Metadata {
	m := Metadata{CurrentPage: page, PageSize: pageSize}
	if totalRecords == 0 || pageSize <= 0 {
		return m
	}
	m.FirstPage = 1
	m.LastPage = (totalRecords + pageSize - 1) / pageSize
	m.TotalRecords = totalRecords
	return m
}
