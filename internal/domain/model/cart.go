package model

// LineItem is a product together with how many times it was added to the cart.
//
// @Description Cart line item
type LineItem struct {
	Product
	// Quantity is the number of times the product was added
	Quantity int `json:"quantity" example:"2"`
} // @name LineItem

// Subtotal returns unit price times quantity.
func (li LineItem) Subtotal() float64 {
	return li.Price * float64(li.Quantity)
}

// CartState is the aggregate held by the cart store for one shopper.
//
// Items are unique by product ID and kept in the order they were first added.
// Totals are derived from the items on every read so they cannot drift.
type CartState struct {
	Items []LineItem `json:"items"`
}

// EmptyCart returns the initial cart state.
func EmptyCart() CartState {
	return CartState{Items: []LineItem{}}
}

// IsEmpty reports whether the cart has no line items.
func (s CartState) IsEmpty() bool {
	return len(s.Items) == 0
}

// TotalItems returns the number of add operations applied to the cart.
func (s CartState) TotalItems() int {
	total := 0
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice returns the sum of unit prices over all add operations.
func (s CartState) TotalPrice() float64 {
	var total float64
	for _, item := range s.Items {
		total += item.Subtotal()
	}
	return total
}

// Find returns the index of the line item for productID, or -1.
func (s CartState) Find(productID int) int {
	for i := range s.Items {
		if s.Items[i].ID == productID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the state.
func (s CartState) Clone() CartState {
	items := make([]LineItem, len(s.Items))
	copy(items, s.Items)
	return CartState{Items: items}
}

// AddToCart is the cart reducer. It returns the state that results from
// adding one unit of p: an existing line item's quantity grows by one,
// otherwise a new line item with quantity 1 is appended. The input state is
// left untouched. The product is not validated.
func AddToCart(state CartState, p Product) CartState {
	next := state.Clone()
	if i := next.Find(p.ID); i >= 0 {
		next.Items[i].Quantity++
		return next
	}
	next.Items = append(next.Items, LineItem{Product: p, Quantity: 1})
	return next
}
