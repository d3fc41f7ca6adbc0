// Package model defines the core domain entities for the storefront.
package model

import "strconv"

// Product is a catalog entry. Products are defined at startup and never change.
//
// @Description Purchasable product
type Product struct {
	// ID is the unique product identifier
	ID int `json:"id" example:"1"`
	// Name is the display name
	Name string `json:"name" example:"Aloe Vera"`
	// Price is the unit price in dollars
	Price float64 `json:"price" example:"10"`
	// Image is a reference to the product picture
	Image string `json:"image" example:"/static/img/aloe.svg"`
} // @name Product

// FormatPrice renders an amount the way the storefront displays it: a "$"
// prefix followed by the shortest decimal representation (10 -> "$10").
func FormatPrice(amount float64) string {
	return "$" + strconv.FormatFloat(amount, 'f', -1, 64)
}
