package domain

import "errors"

var (
	ErrProductNotFound    = errors.New("product_not_found")
	ErrInvalidProductName = errors.New("invalid_product_name")
	ErrProductSlugTaken   = errors.New("product_slug_taken")
	ErrNotManager         = errors.New("not_business_manager")
	ErrCategoryWrongType  = errors.New("category_not_product_type")
)
