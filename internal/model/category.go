package model

import "fmt"

// Category is a named bucket of work with a display color and an optional
// default hourly rate.
type Category struct {
	Key   string  `json:"key,omitempty"`
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Color string  `json:"color,omitempty"`
	Icon  string  `json:"icon,omitempty"`
	Rate  *Number `json:"rate,omitempty"`
}

// SetKey sets the database key for this category.
func (c *Category) SetKey(key string) {
	c.Key = key
}

// GetKey returns the database key for this category.
func (c *Category) GetKey() string {
	return c.Key
}

// GenerateCategoryKey generates a database key for a category.
func GenerateCategoryKey(id string) string {
	return fmt.Sprintf("%s:%s", PrefixCategory, id)
}
