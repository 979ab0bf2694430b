package chat

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/basket/internal/models"
)

func groceryList() []models.Item {
	return []models.Item{
		{ID: "1", Name: "Milk", Category: models.CategoryDairy, Price: 3.50},
		{ID: "2", Name: "Bread", Category: models.CategoryBakery, Price: 2.00, Completed: true},
	}
}

func TestResponderGolden(t *testing.T) {
	r := NewResponder(nil)

	tests := []struct {
		name    string
		message string
		items   []models.Item
	}{
		{"apple_calories", "how many calories in an apple", nil},
		{"item_price", "How much is the milk?", groceryList()},
		{"completed_item", "how many carbs in bread", groceryList()},
		{"list_summary", "What's on my grocery list?", groceryList()},
		{"protein_topic", "how much protein do I need", nil},
		{"weight_loss_topic", "any tips for weight loss?", nil},
		{"default_reply", "what about quinoa", groceryList()},
	}

	g := goldie.New(t, goldie.WithFixtureDir("testdata"), goldie.WithNameSuffix(".golden"))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g.Assert(t, tt.name, []byte(r.Respond(tt.message, tt.items)))
		})
	}
}

func TestResponderAppleFactVerbatim(t *testing.T) {
	got := NewResponder(nil).Respond("how many calories in an apple", nil)
	assert.Equal(t, "An apple contains about 95 calories, is high in fiber, vitamin C, and various antioxidants.", got)
}

func TestResponderFoodOrder(t *testing.T) {
	r := NewResponder(nil)

	// apple precedes banana in the table
	assert.Contains(t, r.Respond("banana or apple?", nil), "An apple")
	// a food beats a topic keyword
	assert.Contains(t, r.Respond("protein in chicken", nil), "chicken breast")
}

func TestResponderEmptyList(t *testing.T) {
	got := NewResponder(nil).Respond("what is on my list", nil)
	assert.Equal(t, "Your grocery list is empty.", got)
}

func TestResponderAllPickedUp(t *testing.T) {
	items := []models.Item{{Name: "Tea", Category: models.CategoryPantry, Price: 4, Completed: true}}
	got := NewResponder(nil).Respond("show my shopping list", items)
	assert.Equal(t, "Your grocery list has 1 items (1 completed), totaling $4.00. Everything is picked up.", got)
}

func TestResponderDoesNotMutateItems(t *testing.T) {
	items := groceryList()
	before := append([]models.Item(nil), items...)

	NewResponder(nil).Respond("What's on my grocery list? milk?", items)
	assert.Equal(t, before, items)
}

func TestLoadTable(t *testing.T) {
	table, err := LoadTable([]byte(`
foods:
  - name: kiwi
    fact: Kiwi fact.
default: Nothing.
`))
	require.NoError(t, err)

	r := NewResponder(table)
	assert.Equal(t, "Kiwi fact.", r.Respond("KIWI please", nil))
	assert.Equal(t, "Nothing.", r.Respond("apple", nil))

	_, err = LoadTable([]byte("foods: []"))
	assert.Error(t, err)
}

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()
	assert.Len(t, table.Foods, 15)
	assert.Equal(t, "apple", table.Foods[0].Name)
	assert.Len(t, table.Topics, 7)
}
