package cart

import (
	"fmt"
	"strconv"
	"strings"
)

// Action names accepted in the _action form field.
const (
	ActionAddToCart  = "addToCart"
	ActionItemCount  = "itemCount"
	ActionDeleteItem = "deleteItem"
	ActionClearCart  = "clearCart"
)

// Action is one of AddToCart, ItemCount, DeleteItem or ClearCart.
type Action interface {
	Name() string
	apply(State) (State, *Flash, error)
}

type AddToCart struct {
	ProductID int
}

type ItemCount struct {
	ProductID int
	Count     int
}

type DeleteItem struct {
	ProductID int
}

type ClearCart struct{}

func (AddToCart) Name() string  { return ActionAddToCart }
func (ItemCount) Name() string  { return ActionItemCount }
func (DeleteItem) Name() string { return ActionDeleteItem }
func (ClearCart) Name() string  { return ActionClearCart }

func (a AddToCart) apply(s State) (State, *Flash, error) {
	next, f, err := Add(s, a.ProductID)
	if err != nil {
		return s, nil, err
	}
	return next, &f, nil
}

func (a ItemCount) apply(s State) (State, *Flash, error) {
	next, err := SetQuantity(s, a.ProductID, a.Count)
	return next, nil, err
}

func (a DeleteItem) apply(s State) (State, *Flash, error) {
	next, f := Remove(s, a.ProductID)
	return next, &f, nil
}

func (ClearCart) apply(s State) (State, *Flash, error) {
	next, f := Clear(s)
	return next, &f, nil
}

// Apply runs a on s. On error s is returned unchanged.
func Apply(s State, a Action) (State, *Flash, error) {
	if a == nil {
		return s, nil, ErrUnknownAction
	}
	return a.apply(s)
}

// ParseAction turns the raw form fields into a typed action. The count is
// validated as an integer here, before any clamping happens.
func ParseAction(name, id, count string) (Action, error) {
	switch strings.TrimSpace(name) {
	case ActionAddToCart:
		pid, err := parseProductID(id)
		if err != nil {
			return nil, err
		}
		return AddToCart{ProductID: pid}, nil
	case ActionItemCount:
		pid, err := parseProductID(id)
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCount, count)
		}
		return ItemCount{ProductID: pid, Count: n}, nil
	case ActionDeleteItem:
		pid, err := parseProductID(id)
		if err != nil {
			return nil, err
		}
		return DeleteItem{ProductID: pid}, nil
	case ActionClearCart:
		return ClearCart{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
}

func parseProductID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidProductID, raw)
	}
	return id, nil
}
