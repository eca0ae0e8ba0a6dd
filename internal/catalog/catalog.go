// Package catalog is the read-only game table. Settlement reads RTP and
// volatility from here; bet placement reads the stake limits.
package catalog

import (
	"sort"

	"github.com/shopspring/decimal"
)

type Volatility string

const (
	VolatilityLow    Volatility = "low"
	VolatilityMedium Volatility = "medium"
	VolatilityHigh   Volatility = "high"
)

type Category string

const (
	CategorySlots    Category = "slots"
	CategoryTable    Category = "table"
	CategoryOriginal Category = "original"
	CategoryLive     Category = "live"
)

// Slot games have no stake limits of their own.
var (
	SlotMinBet = decimal.RequireFromString("0.1")
	SlotMaxBet = decimal.NewFromInt(100)
)

type Game struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Category   Category        `json:"category"`
	RTP        decimal.Decimal `json:"rtp"`
	Volatility Volatility      `json:"volatility"`
	MinBet     decimal.Decimal `json:"min_bet"`
	MaxBet     decimal.Decimal `json:"max_bet"`
	Lines      int             `json:"lines,omitempty"`
	Reels      int             `json:"reels,omitempty"`
}

func game(id, name string, category Category, rtp string, volatility Volatility, minBet, maxBet string) Game {
	return Game{
		ID:         id,
		Name:       name,
		Category:   category,
		RTP:        decimal.RequireFromString(rtp),
		Volatility: volatility,
		MinBet:     decimal.RequireFromString(minBet),
		MaxBet:     decimal.RequireFromString(maxBet),
	}
}

func slot(id, name, rtp string, volatility Volatility, lines, reels int) Game {
	return Game{
		ID:         id,
		Name:       name,
		Category:   CategorySlots,
		RTP:        decimal.RequireFromString(rtp),
		Volatility: volatility,
		MinBet:     SlotMinBet,
		MaxBet:     SlotMaxBet,
		Lines:      lines,
		Reels:      reels,
	}
}

type Catalog struct {
	byID map[string]Game
	ids  []string
}

// New indexes games by ID. Later duplicates replace earlier ones.
func New(games ...Game) *Catalog {
	c := &Catalog{byID: make(map[string]Game, len(games))}
	for _, g := range games {
		if _, ok := c.byID[g.ID]; !ok {
			c.ids = append(c.ids, g.ID)
		}
		c.byID[g.ID] = g
	}
	sort.Strings(c.ids)
	return c
}

// Default returns the production game table.
func Default() *Catalog {
	return New(games...)
}

func (c *Catalog) Get(id string) (Game, bool) {
	g, ok := c.byID[id]
	return g, ok
}

func (c *Catalog) Exists(id string) bool {
	_, ok := c.byID[id]
	return ok
}

func (c *Catalog) All() []Game {
	out := make([]Game, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.byID[id])
	}
	return out
}

func (c *Catalog) ByCategory(category Category) []Game {
	var out []Game
	for _, id := range c.ids {
		if g := c.byID[id]; g.Category == category {
			out = append(out, g)
		}
	}
	return out
}
