package utils

const (
	// UserIdKey is the key for the user ID used in routing parameters.
	UserIdKey = "userId"

	// ProductIdKey is the key for the product ID used in routing parameters.
	ProductIdKey = "productId"

	// SearchParamKey is the key for the search term used in query parameters.
	SearchParamKey = "search"

	// CategoryParamKey is the key for the category filter used in query parameters.
	CategoryParamKey = "category"

	// MinPriceParamKey is the key for the lower price bound used in query parameters.
	MinPriceParamKey = "minPrice"

	// MaxPriceParamKey is the key for the upper price bound used in query parameters.
	MaxPriceParamKey = "maxPrice"

	// ColorParamKey is the key for the color filter used in query parameters.
	ColorParamKey = "color"

	// SortParamKey is the key for the sort option used in query parameters.
	SortParamKey = "sort"

	// PageParamKey is the key for the page index used in pagination query parameters.
	PageParamKey = "page"

	// PageSizeParamKey is the key for the page size used in pagination query parameters.
	PageSizeParamKey = "pageSize"

	// LimitParamKey is the key for the limit used in query parameters.
	LimitParamKey = "limit"
)
