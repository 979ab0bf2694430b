package api

// Item is a grocery list entry. Price is carried at full precision.
type Item struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Completed bool    `json:"completed"`
	Price     float64 `json:"price"`
	CreatedAt int64   `json:"createdAt"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Total    float64 `json:"total"`
}

// Summary totals a list. Remaining covers uncompleted items only.
type Summary struct {
	Count      int              `json:"count"`
	Completed  int              `json:"completed"`
	Total      float64          `json:"total"`
	Remaining  float64          `json:"remaining"`
	ByCategory []*CategoryTotal `json:"byCategory"`
}

type ListItemsRequest struct{}

type ListItemsResponse struct {
	Items   []*Item  `json:"items"`
	Summary *Summary `json:"summary"`
}

// AddItemRequest creates an item. ID and CreatedAt may be chosen by the
// client so an optimistic entry keeps its identity once persisted.
type AddItemRequest struct {
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	CreatedAt int64   `json:"createdAt,omitempty"`
}

type AddItemResponse struct {
	Item *Item `json:"item"`
}

type UpdateItemRequest struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Completed bool    `json:"completed"`
	Price     float64 `json:"price"`
}

type UpdateItemResponse struct {
	Item *Item `json:"item"`
}

type DeleteItemRequest struct {
	ID string `json:"id"`
}

type DeleteItemResponse struct{}

// ClearCompletedRequest names the completed items the client saw, so items
// completed elsewhere in the meantime are left alone.
type ClearCompletedRequest struct {
	IDs []string `json:"ids"`
}

type ClearCompletedResponse struct {
	Removed int `json:"removed"`
}
