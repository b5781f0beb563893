// Package category maps site domains to display categories via an
// ordered keyword-substring table.
package category

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var builtinTable []byte

// FallbackID is the category assigned when no keyword matches.
const FallbackID = "other"

// Category is the resolved classification of a domain.
type Category struct {
	ID         string `yaml:"id" json:"id"`
	Name       string `yaml:"name" json:"name"`
	Emoji      string `yaml:"emoji" json:"emoji"`
	Color      string `yaml:"color" json:"color"`
	GroupColor string `yaml:"group_color" json:"groupColor"`
}

type categorySpec struct {
	Category `yaml:",inline"`
	Keywords []string `yaml:"keywords"`
}

type tableFile struct {
	Categories []categorySpec `yaml:"categories"`
}

// Resolver performs first-match keyword lookups over the category table
// in declaration order. It is immutable after construction and safe for
// concurrent use.
type Resolver struct {
	specs    []categorySpec
	fallback Category
}

// NewResolver builds a Resolver from the built-in table.
func NewResolver() (*Resolver, error) {
	return newResolver(builtinTable)
}

// NewResolverFromFile builds a Resolver from a YAML table on disk,
// replacing the built-in one.
func NewResolverFromFile(path string) (*Resolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read category table: %w", err)
	}
	return newResolver(data)
}

func newResolver(data []byte) (*Resolver, error) {
	var table tableFile
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse category table: %w", err)
	}
	if len(table.Categories) == 0 {
		return nil, fmt.Errorf("category table is empty")
	}

	r := &Resolver{specs: table.Categories}
	r.fallback = Category{ID: FallbackID, Name: "Other", Emoji: "🌐", Color: "#6b7280", GroupColor: "grey"}
	for _, spec := range table.Categories {
		if spec.ID == FallbackID {
			r.fallback = spec.Category
		}
	}
	return r, nil
}

// Resolve returns the first category whose keyword is a substring of
// the lowercased domain, or the fallback when none matches.
func (r *Resolver) Resolve(domain string) Category {
	lower := strings.ToLower(domain)
	for _, spec := range r.specs {
		if spec.ID == FallbackID {
			continue
		}
		for _, keyword := range spec.Keywords {
			if strings.Contains(lower, keyword) {
				return spec.Category
			}
		}
	}
	return r.fallback
}

// Categories returns the table entries in declaration order.
func (r *Resolver) Categories() []Category {
	out := make([]Category, len(r.specs))
	for i, spec := range r.specs {
		out[i] = spec.Category
	}
	return out
}
