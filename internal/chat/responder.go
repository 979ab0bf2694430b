package chat

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/basket/internal/calculator"
	"github.com/mmynk/basket/internal/models"
)

//go:embed nutrition.yaml
var nutritionYAML []byte

type food struct {
	Name string `yaml:"name"`
	Fact string `yaml:"fact"`
}

type topic struct {
	Keywords []string `yaml:"keywords"`
	Reply    string   `yaml:"reply"`
}

// Table is the fixed knowledge the fallback responder answers from.
type Table struct {
	Foods        []food   `yaml:"foods"`
	Topics       []topic  `yaml:"topics"`
	ListKeywords []string `yaml:"list_keywords"`
	Default      string   `yaml:"default"`
}

// LoadTable parses a table in the nutrition.yaml layout.
func LoadTable(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing nutrition table: %w", err)
	}
	if t.Default == "" {
		return nil, fmt.Errorf("nutrition table has no default reply")
	}
	return &t, nil
}

// DefaultTable returns the embedded table.
func DefaultTable() *Table {
	t, err := LoadTable(nutritionYAML)
	if err != nil {
		panic(err)
	}
	return t
}

// Fact returns the first food fact whose name appears in s.
func (t *Table) Fact(s string) (string, bool) {
	s = strings.ToLower(s)
	for _, f := range t.Foods {
		if strings.Contains(s, f.Name) {
			return f.Fact, true
		}
	}
	return "", false
}

// Responder produces deterministic answers. It never mutates the items it is given.
type Responder struct {
	table *Table
}

// NewResponder returns a responder over table, or the embedded table when nil.
func NewResponder(table *Table) *Responder {
	if table == nil {
		table = DefaultTable()
	}
	return &Responder{table: table}
}

// Respond answers message using, in order: an item on the list, a question
// about the list itself, the food table, topic keywords, the default reply.
func (r *Responder) Respond(message string, items []models.Item) string {
	query := strings.ToLower(message)

	if item, ok := mentionedItem(query, items); ok {
		reply := fmt.Sprintf("%s is on your grocery list at $%.2f.", item.Name, item.Price)
		if item.Completed {
			reply = fmt.Sprintf("%s is on your grocery list at $%.2f and already picked up.", item.Name, item.Price)
		}
		if fact, ok := r.table.Fact(item.Name); ok {
			reply += " " + fact
		}
		return reply
	}

	for _, kw := range r.table.ListKeywords {
		if strings.Contains(query, kw) {
			return describeList(items)
		}
	}

	if fact, ok := r.table.Fact(query); ok {
		return fact
	}

	for _, t := range r.table.Topics {
		for _, kw := range t.Keywords {
			if strings.Contains(query, kw) {
				return t.Reply
			}
		}
	}

	return r.table.Default
}

// mentionedItem returns the first item, in list order, whose name appears in query.
func mentionedItem(query string, items []models.Item) (models.Item, bool) {
	for _, item := range items {
		name := strings.ToLower(strings.TrimSpace(item.Name))
		if name != "" && strings.Contains(query, name) {
			return item, true
		}
	}
	return models.Item{}, false
}

func describeList(items []models.Item) string {
	if len(items) == 0 {
		return "Your grocery list is empty."
	}

	sum := calculator.Summarize(items)
	var pending []string
	for _, item := range items {
		if !item.Completed {
			pending = append(pending, item.Name)
		}
	}

	reply := fmt.Sprintf("Your grocery list has %d items (%d completed), totaling $%.2f.",
		sum.Count, sum.Completed, sum.Total)
	if len(pending) == 0 {
		return reply + " Everything is picked up."
	}
	return reply + fmt.Sprintf(" Still to buy: %s ($%.2f).", strings.Join(pending, ", "), sum.Remaining)
}
