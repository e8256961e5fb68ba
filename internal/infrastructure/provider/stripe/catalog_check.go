package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/catalog"
	stripeapi "github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"
)

// CatalogDrift is a difference between a catalog entry and the Stripe price it names.
type CatalogDrift struct {
	PriceID string `json:"price_id"`
	Problem string `json:"problem"`
}

// CheckCatalog fetches every catalog price from Stripe and reports entries
// that are missing, inactive, of the wrong billing type or priced differently.
func (g *Gateway) CheckCatalog(ctx context.Context, cat *catalog.Catalog) ([]CatalogDrift, error) {
	var drifts []CatalogDrift
	for _, entry := range cat.List("") {
		params := &stripeapi.PriceParams{}
		params.Context = ctx

		p, err := g.api.Prices.Get(entry.PriceID, params)
		if err != nil {
			var stripeErr *stripeapi.Error
			if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == http.StatusNotFound {
				drifts = append(drifts, CatalogDrift{PriceID: entry.PriceID, Problem: "price does not exist"})
				continue
			}
			return drifts, fmt.Errorf("stripe: get price %s: %w", entry.PriceID, err)
		}

		drifts = append(drifts, comparePrice(entry, p)...)
		g.logger.Debug("Catalog price checked", zap.String("price_id", entry.PriceID))
	}
	return drifts, nil
}

func comparePrice(entry catalog.Price, p *stripeapi.Price) []CatalogDrift {
	var drifts []CatalogDrift
	add := func(format string, args ...interface{}) {
		drifts = append(drifts, CatalogDrift{PriceID: entry.PriceID, Problem: fmt.Sprintf(format, args...)})
	}

	if !p.Active {
		add("price is inactive")
	}

	want := stripeapi.PriceTypeOneTime
	if entry.Kind == catalog.PriceKindPlan {
		want = stripeapi.PriceTypeRecurring
	}
	if p.Type != want {
		add("type is %s, catalog expects %s", p.Type, want)
	}

	if entry.Currency != "" && !strings.EqualFold(string(p.Currency), entry.Currency) {
		add("currency is %s, catalog says %s", p.Currency, entry.Currency)
	}

	if cents := entry.Amount.Shift(2); !cents.IsInteger() || cents.IntPart() != p.UnitAmount {
		add("unit amount is %d, catalog says %s", p.UnitAmount, entry.Amount.StringFixed(2))
	}
	return drifts
}
