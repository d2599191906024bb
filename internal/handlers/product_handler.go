package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"greenshop-server/internal/catalog"
	"greenshop-server/internal/schemas"
	"greenshop-server/internal/utils"
)

const defaultFeaturedCount = 6

type ProductHdl interface {
	QueryProducts(c *gin.Context)
	GetFeaturedProducts(c *gin.Context)
	GetProduct(c *gin.Context)
}

type ProductHandler struct {
	Catalog *catalog.Cache
}

func NewProductHandler(cache *catalog.Cache) ProductHdl {
	return &ProductHandler{Catalog: cache}
}

// QueryProducts runs the filter/sort/paginate pipeline over the catalog
// snapshot and returns the page together with the category counts for the
// filter sidebar.
func (handler *ProductHandler) QueryProducts(c *gin.Context) {
	filters := parseFilters(c)
	sortKey := catalog.ParseSortKey(c.Query(utils.SortParamKey))
	page, pageSize := utils.ParsePageParams(c)

	all := handler.Catalog.Products()
	result := catalog.Query(all, filters, sortKey, catalog.Page{Index: page, Size: pageSize})
	counts := catalog.CategoryCounts(all, filters)

	records := make([]schemas.ProductDTO, 0, len(result.Items))
	for _, p := range result.Items {
		records = append(records, productDTO(p))
	}

	categories := make([]schemas.CategoryCountDTO, 0, len(counts))
	for _, count := range counts {
		categories = append(categories, schemas.CategoryCountDTO{Name: count.Name, Count: count.Count})
	}

	response := &schemas.ProductPageDTO{
		Records: records,
		Pagination: schemas.PagePagination{
			Page:       page,
			PageSize:   pageSize,
			Records:    result.TotalCount,
			TotalPages: result.TotalPages,
		},
		Categories: categories,
	}

	utils.WriteAndLogResponse(c, response, http.StatusOK)
}

// GetFeaturedProducts returns the rotating promotional window.
func (handler *ProductHandler) GetFeaturedProducts(c *gin.Context) {
	limit := utils.ParseLimitParam(c, defaultFeaturedCount)

	featured := handler.Catalog.Featured(limit)
	records := make([]schemas.ProductDTO, 0, len(featured))
	for _, p := range featured {
		records = append(records, productDTO(p))
	}

	utils.WriteAndLogResponse(c, records, http.StatusOK)
}

// GetProduct returns the product specified in the path.
func (handler *ProductHandler) GetProduct(c *gin.Context) {
	productId, err := strconv.ParseInt(c.Param(utils.ProductIdKey), 10, 64)
	if err != nil {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	product, found := handler.Catalog.Get(productId)
	if !found {
		utils.WriteAndLogError(c, schemas.ProductNotFound, http.StatusNotFound, errors.New("product not found"))
		return
	}

	dto := productDTO(product)
	utils.WriteAndLogResponse(c, &dto, http.StatusOK)
}

func parseFilters(c *gin.Context) catalog.Filters {
	filters := catalog.Filters{
		Search:   c.Query(utils.SearchParamKey),
		Category: c.Query(utils.CategoryParamKey),
		Color:    c.Query(utils.ColorParamKey),
	}

	if minPrice, err := strconv.ParseInt(c.Query(utils.MinPriceParamKey), 10, 64); err == nil {
		filters.MinPrice = &minPrice
	}
	if maxPrice, err := strconv.ParseInt(c.Query(utils.MaxPriceParamKey), 10, 64); err == nil {
		filters.MaxPrice = &maxPrice
	}

	return filters
}

func productDTO(p schemas.Product) schemas.ProductDTO {
	return schemas.ProductDTO{
		ProductId:       p.ID,
		Name:            p.Name,
		Price:           p.Price,
		OldPrice:        p.OldPrice,
		Image:           p.Image,
		IsNew:           p.IsNew,
		DiscountPercent: p.DiscountPercent,
		Rating:          p.Rating,
		Description:     p.Description,
		Category:        p.Category,
		Color:           p.Color,
		Stock:           p.Stock,
	}
}
