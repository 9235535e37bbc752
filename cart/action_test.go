package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		name    string
		action  string
		id      string
		count   string
		want    Action
		wantErr error
	}{
		{name: "add", action: "addToCart", id: "42", want: AddToCart{ProductID: 42}},
		{name: "add trims", action: "addToCart", id: " 7 ", want: AddToCart{ProductID: 7}},
		{name: "count", action: "itemCount", id: "7", count: "2", want: ItemCount{ProductID: 7, Count: 2}},
		{name: "negative count parses", action: "itemCount", id: "7", count: "-1", want: ItemCount{ProductID: 7, Count: -1}},
		{name: "delete", action: "deleteItem", id: "3", want: DeleteItem{ProductID: 3}},
		{name: "clear ignores id", action: "clearCart", id: "junk", want: ClearCart{}},
		{name: "missing id", action: "addToCart", wantErr: ErrInvalidProductID},
		{name: "zero id", action: "deleteItem", id: "0", wantErr: ErrInvalidProductID},
		{name: "non numeric id", action: "itemCount", id: "abc", count: "1", wantErr: ErrInvalidProductID},
		{name: "non numeric count", action: "itemCount", id: "7", count: "two", wantErr: ErrInvalidCount},
		{name: "empty count", action: "itemCount", id: "7", wantErr: ErrInvalidCount},
		{name: "unknown", action: "subtract", id: "7", wantErr: ErrUnknownAction},
		{name: "empty action", wantErr: ErrUnknownAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAction(tt.action, tt.id, tt.count)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.action, got.Name())
		})
	}
}

func TestApply(t *testing.T) {
	s := State{}

	s, f, err := Apply(s, AddToCart{ProductID: 1})
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, FlashSuccess, f.Kind)

	s, f, err = Apply(s, ItemCount{ProductID: 1, Count: 4})
	require.NoError(t, err)
	assert.Nil(t, f)
	assert.Equal(t, []LineItem{{1, 4}}, s.Items)

	_, _, err = Apply(s, ItemCount{ProductID: 2, Count: 4})
	assert.ErrorIs(t, err, ErrLineNotFound)

	s, f, err = Apply(s, DeleteItem{ProductID: 1})
	require.NoError(t, err)
	assert.Equal(t, MsgRemoved, f.Text)
	assert.Empty(t, s.Items)

	s, f, err = Apply(s, ClearCart{})
	require.NoError(t, err)
	assert.Equal(t, MsgCleared, f.Text)
	assert.Empty(t, s.Items)

	_, _, err = Apply(s, nil)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestApply_ErrorLeavesStateUnchanged(t *testing.T) {
	s := State{Items: []LineItem{{1, 2}}}

	got, f, err := Apply(s, AddToCart{ProductID: -1})
	assert.ErrorIs(t, err, ErrInvalidProductID)
	assert.Nil(t, f)
	assert.Equal(t, s, got)
}
