// Package ids generates the numeric identifiers carried by catalog nodes
// (stores, products, orders, promotions, reviews). Users and notifications
// use UUIDs instead.
package ids

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	numericIDMin = 1000
	numericIDMax = 999999
)

// NewNumericID returns a random id in the historical [1000, 999999] range.
func NewNumericID() (int64, error) {
	span := big.NewInt(numericIDMax - numericIDMin + 1)
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return 0, fmt.Errorf("generating numeric id: %w", err)
	}
	return numericIDMin + n.Int64(), nil
}
