package shopping

// DefaultItems seed every new shopping list.
var DefaultItems = []string{"1 tbsp olive oil", "2 cloves garlic", "1 can diced tomatoes"}

// ShoppingList is a user's list, newest item first. Duplicates are allowed.
type ShoppingList struct {
	UserID string   `json:"userId"`
	Items  []string `json:"items"`
}

// ItemRequest is the add/remove item form.
type ItemRequest struct {
	Item string `json:"item" form:"item" validate:"notblank,max=200"`
}

func (ItemRequest) ValidationMessage(field, rule string) string {
	if field == "item" && rule == "notblank" {
		return "Please enter an item."
	}
	return ""
}
