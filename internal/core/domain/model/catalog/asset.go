package catalog

import (
	"strings"

	"brokerage/internal/core/domain/model/kernel"
	"brokerage/internal/pkg/errs"
)

// Asset is a tradable instrument identified by its ticker.
type Asset struct {
	id     kernel.UUID
	ticker string
	name   string
}

// NewAsset normalizes the ticker to upper case. The display name is optional.
func NewAsset(id kernel.UUID, ticker, name string) (Asset, error) {
	if err := id.Validate(); err != nil {
		return Asset{}, err
	}
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return Asset{}, errs.NewValueIsRequiredError("ticker")
	}
	return Asset{id: id, ticker: ticker, name: strings.TrimSpace(name)}, nil
}

// NormalizeTicker trims and upper-cases a ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

func (a Asset) ID() kernel.UUID { return a.id }
func (a Asset) Ticker() string  { return a.ticker }
func (a Asset) Name() string    { return a.name }
