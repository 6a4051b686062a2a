package util

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/imagedefs/image-definitions-api/pkg/registry/models"
)

// NormalizePage clamps page/perPage to sane values before querying.
func NormalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 50
	}
	if perPage > 200 {
		perPage = 200
	}
	return page, perPage
}

// SetPaginationHeaders writes X-Total-Count and a Link header with
// self/next/prev relations for the current request.
func SetPaginationHeaders(req *http.Request, setHeader func(key, value string), p models.Pagination) {
	setHeader("X-Total-Count", strconv.Itoa(p.TotalRecords))

	links := []string{fmt.Sprintf("<%s>; rel=\"self\"", pageURL(req, p.CurrentPage, p.RecordsPerPage))}
	if p.Next != nil {
		links = append(links, fmt.Sprintf("<%s>; rel=\"next\"", pageURL(req, *p.Next, p.RecordsPerPage)))
	}
	if p.Previous != nil {
		links = append(links, fmt.Sprintf("<%s>; rel=\"prev\"", pageURL(req, *p.Previous, p.RecordsPerPage)))
	}
	setHeader("Link", strings.Join(links, ", "))
}

func pageURL(req *http.Request, page, perPage int) string {
	u := *req.URL
	q, _ := url.ParseQuery(u.RawQuery)
	q.Set("page", strconv.Itoa(page))
	q.Set("perPage", strconv.Itoa(perPage))
	u.RawQuery = q.Encode()
	return u.String()
}
