// Package pagination implements fixed-size page resolution for post feeds.
package pagination

import "strconv"

// DefaultPageSize is the number of posts shown on a single feed page.
const DefaultPageSize = 10

// Page describes one resolved page of a listing.
type Page struct {
	// Number is the 1-based page number after clamping.
	Number int

	// Size is the maximum number of items on a page.
	Size int

	// TotalPages is the number of pages for the listing. It is at least 1,
	// so an empty listing still resolves to a single empty page.
	TotalPages int

	// TotalItems is the total number of items across all pages.
	TotalItems int64

	HasNext     bool
	HasPrevious bool
}

// Resolve maps a raw page query parameter onto a valid page of a listing
// with totalItems entries. Out-of-range and malformed values clamp instead
// of failing: non-numeric or < 1 resolves to the first page, values past
// the end resolve to the last page.
func Resolve(totalItems int64, pageQuery string, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}

	totalPages := int((totalItems + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}

	number, err := strconv.Atoi(pageQuery)
	if err != nil || number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	return Page{
		Number:      number,
		Size:        size,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		HasNext:     number < totalPages,
		HasPrevious: number > 1,
	}
}

// Offset returns the zero-based offset of the page's first item.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
