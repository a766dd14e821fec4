// Package id generates opaque unique identifiers for stored records.
package id

import (
	"fmt"

	"github.com/google/uuid"
)

// NewID returns a new random identifier.
func NewID() (string, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return value.String(), nil
}
