// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package tag implements the controlled vocabulary posts are tagged with:
// categories, tags, their (ordered) names, and the implication/suggestion
// graphs between tags.
package tag

import "time"

// Category groups tags for display (e.g. "artist", "character", "general").
// Category 0 is reserved as the default: tags whose category is deleted are
// reparented to it.
type Category struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Color        string    `json:"color"`
	Order        int       `json:"order"`
	IsDefault    bool      `json:"isDefault"`
	UsageCount   int       `json:"usages"`
	LastEditTime time.Time `json:"version"`
}

// Tag is a single controlled-vocabulary term. Order 0 of its Names is the
// canonical display name.
type Tag struct {
	ID               int       `json:"id"`
	CategoryID       int       `json:"category"`
	Description      string    `json:"description"`
	Names            []string  `json:"names"`
	ImplicationNames []string  `json:"implications,omitempty"`
	SuggestionNames  []string  `json:"suggestions,omitempty"`
	UsageCount       int       `json:"usages"`
	CreationTime     time.Time `json:"creationTime"`
	LastEditTime     time.Time `json:"version"`
}
