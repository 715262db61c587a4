package domain

import "errors"

var (
	ErrCategoryNotFound       = errors.New("category_not_found")
	ErrInvalidCategoryType    = errors.New("invalid_category_type")
	ErrInvalidCategoryName    = errors.New("invalid_category_name")
	ErrCategorySlugTaken      = errors.New("category_slug_taken")
	ErrParentTypeMismatch     = errors.New("parent_category_type_mismatch")
	ErrDefaultNotProduct      = errors.New("default_category_not_product_type")
	ErrInvalidAttributeSchema = errors.New("invalid_attribute_schema")

	ErrCategoryHasBusinesses = errors.New("category_referenced_by_businesses")
	ErrCategoryHasProducts   = errors.New("category_referenced_by_products")
	ErrCategoryIsDefault     = errors.New("category_is_default_of_business_type")
	ErrCategoryHasChildren   = errors.New("category_has_children")
)
