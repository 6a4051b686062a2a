package repositories

import (
	"math"

	"github.com/imagedefs/image-definitions-api/pkg/registry/models"
)

func paginate(page, perPage, totalRecords int) models.Pagination {
	totalPages := int(math.Ceil(float64(totalRecords) / float64(perPage)))
	p := models.Pagination{
		CurrentPage:    page,
		RecordsPerPage: perPage,
		TotalPages:     totalPages,
		TotalRecords:   totalRecords,
	}
	if page < totalPages {
		next := page + 1
		p.Next = &next
	}
	if page > 1 {
		prev := page - 1
		p.Previous = &prev
	}
	return p
}
