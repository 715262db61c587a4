// Package domain contains the global search result shapes. Search spans
// businesses, products and users, capped per kind.
package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type BusinessHit struct {
	ID        snowflake.ID `json:"id"`
	Name      string       `json:"name"`
	Slug      string       `json:"slug"`
	AvatarURL string       `json:"avatar_url,omitempty"`
	City      string       `json:"city,omitempty"`
}

type ProductHit struct {
	ID           snowflake.ID `json:"id"`
	Name         string       `json:"name"`
	Slug         string       `json:"slug"`
	PhotoURL     string       `json:"photo_url,omitempty"`
	BusinessID   snowflake.ID `json:"business_id"`
	BusinessName string       `json:"business_name"`
	BusinessSlug string       `json:"business_slug"`
}

type UserHit struct {
	ID          snowflake.ID `json:"id"`
	Username    string       `json:"username"`
	DisplayName string       `json:"display_name,omitempty"`
	AvatarURL   string       `json:"avatar_url,omitempty"`
}

type Result struct {
	Businesses []BusinessHit `json:"businesses"`
	Products   []ProductHit  `json:"products"`
	Users      []UserHit     `json:"users"`
}

type Service interface {
	// Search runs the global lookup. Queries shorter than two characters
	// return an empty result rather than an error.
	Search(ctx context.Context, query string) (*Result, error)
}
