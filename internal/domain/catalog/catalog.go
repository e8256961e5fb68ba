// Package catalog holds the operator-maintained tables that turn provider
// price ids into credits and plan tiers.
package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/entity"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrUnknownPrice is returned when a price id has no usable catalog entry.
var ErrUnknownPrice = errors.New("price not present in catalog")

// PriceKind says whether a price buys credits or a subscription plan.
type PriceKind string

const (
	PriceKindCredits PriceKind = "credits"
	PriceKindPlan    PriceKind = "plan"
)

// TierPolicy describes the monthly allowance of a plan tier.
type TierPolicy struct {
	MonthlyCredits int64 `yaml:"monthly_credits" json:"monthly_credits"`
	Unlimited      bool  `yaml:"unlimited" json:"unlimited"`
}

// Price is one purchasable provider price.
type Price struct {
	PriceID     string          `yaml:"price_id" json:"price_id"`
	Kind        PriceKind       `yaml:"kind" json:"kind"`
	DisplayName string          `yaml:"display_name" json:"display_name"`
	Credits     int64           `yaml:"credits,omitempty" json:"credits,omitempty"`
	Tier        entity.PlanTier `yaml:"tier,omitempty" json:"tier,omitempty"`
	Amount      decimal.Decimal `yaml:"-" json:"amount"`
	Currency    string          `yaml:"currency" json:"currency"`
}

// UnmarshalYAML decodes amount as an exact decimal.
func (p *Price) UnmarshalYAML(value *yaml.Node) error {
	type plain Price
	var raw struct {
		plain  `yaml:",inline"`
		Amount string `yaml:"amount"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*p = Price(raw.plain)
	if raw.Amount == "" {
		p.Amount = decimal.Zero
		return nil
	}
	amount, err := decimal.NewFromString(raw.Amount)
	if err != nil {
		return fmt.Errorf("price %s: invalid amount %q: %w", p.PriceID, raw.Amount, err)
	}
	p.Amount = amount
	return nil
}

// Catalog is an immutable, validated price table.
type Catalog struct {
	Tiers  map[entity.PlanTier]TierPolicy `yaml:"tiers"`
	Prices []Price                        `yaml:"prices"`

	byPrice map[string]Price
}

// Load reads and validates the catalog file at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) index() error {
	if c.Tiers == nil {
		c.Tiers = map[entity.PlanTier]TierPolicy{}
	}
	for tier, policy := range c.Tiers {
		if !tier.Valid() {
			return fmt.Errorf("catalog: unknown tier %q", tier)
		}
		if policy.MonthlyCredits < 0 {
			return fmt.Errorf("catalog: tier %s has negative monthly credits", tier)
		}
	}

	c.byPrice = make(map[string]Price, len(c.Prices))
	for _, p := range c.Prices {
		if p.PriceID == "" {
			return errors.New("catalog: price without price_id")
		}
		if _, dup := c.byPrice[p.PriceID]; dup {
			return fmt.Errorf("catalog: duplicate price %s", p.PriceID)
		}
		switch p.Kind {
		case PriceKindCredits:
			if p.Credits <= 0 {
				return fmt.Errorf("catalog: credit price %s must grant a positive amount", p.PriceID)
			}
		case PriceKindPlan:
			if !p.Tier.Valid() || p.Tier == entity.PlanTierFree {
				return fmt.Errorf("catalog: plan price %s has invalid tier %q", p.PriceID, p.Tier)
			}
		default:
			return fmt.Errorf("catalog: price %s has unknown kind %q", p.PriceID, p.Kind)
		}
		c.byPrice[p.PriceID] = p
	}
	return nil
}

// Lookup returns the catalog entry of priceID.
func (c *Catalog) Lookup(priceID string) (Price, bool) {
	p, ok := c.byPrice[priceID]
	return p, ok
}

// CreditsForPrice resolves a one-time price to the credits it buys.
func (c *Catalog) CreditsForPrice(priceID string) (int64, error) {
	p, ok := c.byPrice[priceID]
	if !ok || p.Kind != PriceKindCredits {
		return 0, fmt.Errorf("%w: %s (credits)", ErrUnknownPrice, priceID)
	}
	return p.Credits, nil
}

// TierForPrice resolves a subscription price to its plan tier.
func (c *Catalog) TierForPrice(priceID string) (entity.PlanTier, error) {
	p, ok := c.byPrice[priceID]
	if !ok || p.Kind != PriceKindPlan {
		return "", fmt.Errorf("%w: %s (plan)", ErrUnknownPrice, priceID)
	}
	return p.Tier, nil
}

// Allotment returns the monthly credits of tier. Unlimited tiers and tiers
// without a policy return zero credits.
func (c *Catalog) Allotment(tier entity.PlanTier) (credits int64, unlimited bool) {
	policy := c.Tiers[tier]
	if policy.Unlimited {
		return 0, true
	}
	return policy.MonthlyCredits, false
}

// List returns the prices of the given kind in catalog order, all prices when kind is empty.
func (c *Catalog) List(kind PriceKind) []Price {
	prices := make([]Price, 0, len(c.Prices))
	for _, p := range c.Prices {
		if kind == "" || p.Kind == kind {
			prices = append(prices, p)
		}
	}
	return prices
}
