// Package cart holds the visitor cart that travels inside the session cookie.
//
// Every operation takes a State by value and returns a new one; nothing here
// touches the network, the database or the request. The caller decodes the
// State from the incoming cookie, applies one operation and writes the result
// back. If that write is skipped, the mutation is lost.
package cart

import (
	"errors"
)

// FlashKind classifies a flash message.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashWarning FlashKind = "warning"
	FlashError   FlashKind = "error"
)

// Flash messages produced by the cart operations.
const (
	MsgAdded         = "Added to cart!"
	MsgAlreadyInCart = "Item already in cart"
	MsgRemoved       = "Item removed from cart"
	MsgNotInCart     = "Item not in cart"
	MsgCleared       = "Cart cleared"
	MsgCartFull      = "Cart is full"
)

// MaxLines bounds the number of distinct products so the encoded session
// stays under the 4096-byte browser cookie limit.
const MaxLines = 50

var (
	ErrLineNotFound     = errors.New("cart line not found")
	ErrInvalidProductID = errors.New("invalid product id")
	ErrInvalidCount     = errors.New("invalid count")
	ErrUnknownAction    = errors.New("unknown cart action")
)

// Flash is a one-time notification delivered on the next page load.
type Flash struct {
	Kind FlashKind `json:"type"`
	Text string    `json:"message"`
}

// LineItem is one product and its quantity. Product ids are unique within a
// cart and Count is never negative.
type LineItem struct {
	ProductID int `json:"productId"`
	Count     int `json:"count"`
}

// State is the whole session payload: the cart lines in insertion order and
// the pending flash message, if any.
type State struct {
	Items []LineItem `json:"items,omitempty"`
	Flash *Flash     `json:"flash,omitempty"`
}

// Read returns a copy of the cart lines. It never returns nil.
func Read(s State) []LineItem {
	out := make([]LineItem, len(s.Items))
	copy(out, s.Items)
	return out
}

// Add appends productID with a count of 1. A product already in the cart, or
// a cart holding MaxLines products, is left untouched and reported with a
// warning.
func Add(s State, productID int) (State, Flash, error) {
	if productID <= 0 {
		return s, Flash{}, ErrInvalidProductID
	}
	if Contains(s.Items, productID) {
		f := Flash{Kind: FlashWarning, Text: MsgAlreadyInCart}
		return WithFlash(s, f), f, nil
	}
	if len(s.Items) >= MaxLines {
		f := Flash{Kind: FlashWarning, Text: MsgCartFull}
		return WithFlash(s, f), f, nil
	}
	items := make([]LineItem, len(s.Items), len(s.Items)+1)
	copy(items, s.Items)
	items = append(items, LineItem{ProductID: productID, Count: 1})

	f := Flash{Kind: FlashSuccess, Text: MsgAdded}
	next := s
	next.Items = items
	return WithFlash(next, f), f, nil
}

// SetQuantity replaces the count of an existing line, keeping its position.
// Negative counts are clamped to zero; a zero line stays in the cart.
func SetQuantity(s State, productID, newCount int) (State, error) {
	i := IndexOf(s.Items, productID)
	if i < 0 {
		return s, ErrLineNotFound
	}
	items := Read(s)
	items[i].Count = Clamp(newCount)

	next := s
	next.Items = items
	return next, nil
}

// Remove drops the line for productID. A missing line is a no-op reported
// with a warning.
func Remove(s State, productID int) (State, Flash) {
	i := IndexOf(s.Items, productID)
	if i < 0 {
		f := Flash{Kind: FlashWarning, Text: MsgNotInCart}
		return WithFlash(s, f), f
	}
	items := make([]LineItem, 0, len(s.Items)-1)
	items = append(items, s.Items[:i]...)
	items = append(items, s.Items[i+1:]...)

	f := Flash{Kind: FlashSuccess, Text: MsgRemoved}
	next := s
	next.Items = items
	return WithFlash(next, f), f
}

// Clear empties the cart.
func Clear(s State) (State, Flash) {
	f := Flash{Kind: FlashSuccess, Text: MsgCleared}
	next := s
	next.Items = nil
	return WithFlash(next, f), f
}

// WithFlash attaches f to the state, replacing any pending message.
func WithFlash(s State, f Flash) State {
	s.Flash = &f
	return s
}

// PopFlash detaches the pending flash message so it is delivered once.
func PopFlash(s State) (State, *Flash) {
	f := s.Flash
	s.Flash = nil
	return s, f
}

// Clamp forces a quantity into the valid range.
func Clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// IndexOf returns the position of productID in items, or -1.
func IndexOf(items []LineItem, productID int) int {
	for i, it := range items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

func Contains(items []LineItem, productID int) bool {
	return IndexOf(items, productID) >= 0
}

// Normalize repairs lines decoded from a cookie: non-positive ids are dropped,
// negative counts are clamped and only the first line of a duplicated id is
// kept.
func Normalize(items []LineItem) []LineItem {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(items))
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		if it.ProductID <= 0 {
			continue
		}
		if _, dup := seen[it.ProductID]; dup {
			continue
		}
		seen[it.ProductID] = struct{}{}
		out = append(out, LineItem{ProductID: it.ProductID, Count: Clamp(it.Count)})
	}
	return out
}

// Quantity sums the counts of all lines.
func Quantity(items []LineItem) int {
	n := 0
	for _, it := range items {
		n += it.Count
	}
	return n
}
