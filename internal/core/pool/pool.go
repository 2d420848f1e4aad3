// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pool implements ordered post collections: categories, pools, their
// (ordered) names, and each pool's ordered post membership.
package pool

import "time"

// Category groups pools for display. Category 0 is reserved as the default:
// pools whose category is deleted are reparented to it.
type Category struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Color        string    `json:"color"`
	Order        int       `json:"order"`
	IsDefault    bool      `json:"isDefault"`
	UsageCount   int       `json:"usages"`
	LastEditTime time.Time `json:"version"`
}

// Pool is an ordered collection of posts. Order 0 of its Names is the
// canonical display name.
type Pool struct {
	ID           int       `json:"id"`
	CategoryID   int       `json:"category"`
	Description  string    `json:"description"`
	Names        []string  `json:"names"`
	PostCount    int       `json:"postCount"`
	CreationTime time.Time `json:"creationTime"`
	LastEditTime time.Time `json:"version"`
}
