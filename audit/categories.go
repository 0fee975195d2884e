/*
Copyright 2025 Receipt Processing API Authors
SPDX-License-Identifier: Apache-2.0
*/

package audit

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CategorySet is the allow-list of travel-expense keywords. A receipt
// counts as travel related when any line-item category or description, or
// the merchant name, contains one of the keywords (case-insensitive
// substring match).
type CategorySet struct {
	keywords []string
}

// NewCategorySet builds a set from the given keywords. Keywords are
// normalized to lower case; empty keywords are dropped.
func NewCategorySet(keywords ...string) CategorySet {
	normalized := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			normalized = append(normalized, kw)
		}
	}
	return CategorySet{keywords: normalized}
}

// DefaultTravelCategories is the allow-list distilled from the audit
// criteria: fuel, lodging, airfare, vehicle rental, and ordinary vehicle
// maintenance such as oil changes.
func DefaultTravelCategories() CategorySet {
	return NewCategorySet(
		"fuel", "gas", "gasoline", "unleaded", "diesel",
		"lodging", "hotel", "motel", "inn",
		"airfare", "airline", "flight",
		"car rental", "vehicle rental", "rental car",
		"auto", "vehicle maintenance", "oil change", "motor oil",
	)
}

// categoriesFile is the YAML layout for an externally supplied allow-list.
type categoriesFile struct {
	Categories []string `yaml:"categories"`
}

// LoadCategories reads a YAML allow-list of travel keywords.
func LoadCategories(path string) (CategorySet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CategorySet{}, fmt.Errorf("reading category file: %w", err)
	}
	var f categoriesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return CategorySet{}, fmt.Errorf("parsing category file %s: %w", path, err)
	}
	if len(f.Categories) == 0 {
		return CategorySet{}, fmt.Errorf("category file %s lists no categories", path)
	}
	return NewCategorySet(f.Categories...), nil
}

// Matches reports whether the text contains any keyword in the set.
func (c CategorySet) Matches(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range c.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Empty reports whether the set has no keywords.
func (c CategorySet) Empty() bool { return len(c.keywords) == 0 }
