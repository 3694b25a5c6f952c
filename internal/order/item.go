// Package order defines the order item submitted to the marking portal:
// what was asked for, which product code it resolved to, and how many codes.
package order

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Mode tells how an item's product was described by the operator.
type Mode string

const (
	// ModeAttributes means the product code came from a nomenclature lookup.
	ModeAttributes Mode = "attributes"
	// ModeCode means the operator typed the product code directly.
	ModeCode Mode = "code"
)

// Placeholders shown in listings for code-mode items.
const (
	ByCodeName  = "by code"
	Unspecified = "unspecified"
)

// ErrInvalidItem is wrapped by every validation failure.
var ErrInvalidItem = errors.New("invalid order item")

// Descriptor describes a physical product the way the operator sees it.
// Color and Collar are optional and only meaningful for some product types.
type Descriptor struct {
	SimplifiedName string `json:"simplified_name"`
	Size           string `json:"size"`
	UnitsPerPack   string `json:"units_per_pack"`
	Color          string `json:"color,omitempty"`
	Collar         string `json:"collar,omitempty"`
}

// String renders the descriptor for listings and reports.
func (d Descriptor) String() string {
	parts := []string{d.SimplifiedName, d.Size, d.UnitsPerPack + " per pack"}
	if d.Color != "" {
		parts = append(parts, d.Color)
	}
	if d.Collar != "" {
		parts = append(parts, d.Collar)
	}
	return strings.Join(parts, " | ")
}

// Item is one requested product-code order.
//
// All fields are values, so assigning an Item copies it completely; the batch
// snapshot relies on that.
type Item struct {
	ID          string     `json:"id"`
	OrderLabel  string     `json:"order_label"`
	Mode        Mode       `json:"mode"`
	Descriptor  Descriptor `json:"descriptor"`
	ProductCode string     `json:"product_code"`
	Quantity    int        `json:"quantity"`
	DisplayName string     `json:"display_name,omitempty"`
}

// NewID returns a fresh item identity.
func NewID() string {
	return uuid.NewString()
}

// FromLookup builds an attribute-mode item from a successful resolution.
func FromLookup(label string, d Descriptor, code, displayName string, quantity int) (Item, error) {
	it := Item{
		ID:          NewID(),
		OrderLabel:  strings.TrimSpace(label),
		Mode:        ModeAttributes,
		Descriptor:  d,
		ProductCode: strings.TrimSpace(code),
		Quantity:    quantity,
		DisplayName: strings.TrimSpace(displayName),
	}
	return it, it.Validate()
}

// FromCode builds a code-mode item. The code is trusted as typed.
func FromCode(label, code string, quantity int) (Item, error) {
	it := Item{
		ID:         NewID(),
		OrderLabel: strings.TrimSpace(label),
		Mode:       ModeCode,
		Descriptor: Descriptor{
			SimplifiedName: ByCodeName,
			Size:           Unspecified,
			UnitsPerPack:   Unspecified,
		},
		ProductCode: strings.TrimSpace(code),
		Quantity:    quantity,
	}
	return it, it.Validate()
}

// Validate checks the invariants every enqueued item must satisfy.
func (it Item) Validate() error {
	switch {
	case it.OrderLabel == "":
		return fmt.Errorf("%w: empty order label", ErrInvalidItem)
	case it.ProductCode == "":
		return fmt.Errorf("%w: no product code", ErrInvalidItem)
	case it.Quantity <= 0:
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidItem, it.Quantity)
	case it.Mode != ModeAttributes && it.Mode != ModeCode:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidItem, it.Mode)
	}
	return nil
}

// String is the one-line form used in listings.
func (it Item) String() string {
	return fmt.Sprintf("%s | code %s | qty %d | order '%s'", it.Descriptor, it.ProductCode, it.Quantity, it.OrderLabel)
}
