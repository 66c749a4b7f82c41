package fmp

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/stockdeck/stockdeck/internal/models"
)

type profileResponse struct {
	Symbol            string    `json:"symbol"`
	CompanyName       string    `json:"companyName"`
	Sector            string    `json:"sector"`
	Industry          string    `json:"industry"`
	Description       string    `json:"description"`
	CEO               string    `json:"ceo"`
	Website           string    `json:"website"`
	ExchangeShortName string    `json:"exchangeShortName"`
	Country           string    `json:"country"`
	IPODate           string    `json:"ipoDate"`
	Image             string    `json:"image"`
	FullTimeEmployees flexInt64 `json:"fullTimeEmployees"`
	MktCap            *float64  `json:"mktCap"`
	PE                *float64  `json:"pe"`
	ForwardPE         *float64  `json:"forwardPE"`
	PEG               *float64  `json:"peg"`
	LastDiv           *float64  `json:"lastDiv"`
	Beta              *float64  `json:"beta"`
	Price             *float64  `json:"price"`
}

func (p *profileResponse) normalize() *models.Profile {
	profile := &models.Profile{
		Symbol:      p.Symbol,
		Name:        p.CompanyName,
		Sector:      p.Sector,
		Industry:    p.Industry,
		Description: p.Description,
		CEO:         p.CEO,
		Website:     p.Website,
		Exchange:    p.ExchangeShortName,
		Country:     p.Country,
		IPODate:     p.IPODate,
		Image:       p.Image,
		MarketCap:   p.MktCap,
		PERatio:     p.PE,
		TrailingPE:  p.PE,
		ForwardPE:   p.ForwardPE,
		PEGRatio:    p.PEG,
		Beta:        p.Beta,
		Price:       p.Price,
	}

	if p.FullTimeEmployees > 0 {
		profile.Employees = models.Int(int64(p.FullTimeEmployees))
	}

	// Trailing dividend yield from the last declared dividend.
	if p.LastDiv != nil && *p.LastDiv > 0 && p.Price != nil && *p.Price > 0 {
		profile.DividendYield = models.Float(round2(*p.LastDiv / *p.Price * 100))
	}

	return profile
}

// GetProfile retrieves the company profile for a symbol.
func (c *Client) GetProfile(ctx context.Context, symbol string) (*models.Profile, error) {
	profiles, err := c.fetchProfiles(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return profiles[0], nil
}

// GetBatchProfiles retrieves profiles for multiple symbols via the
// comma-joined symbol parameter.
func (c *Client) GetBatchProfiles(ctx context.Context, symbols []string) ([]*models.Profile, error) {
	return c.fetchProfiles(ctx, strings.Join(symbols, ","))
}

func (c *Client) fetchProfiles(ctx context.Context, symbolParam string) ([]*models.Profile, error) {
	params := url.Values{}
	params.Set("symbol", symbolParam)

	var profiles []profileResponse
	if err := c.get(ctx, "/profile", params, &profiles); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("profile %s: %w", symbolParam, ErrNoData)
	}

	result := make([]*models.Profile, len(profiles))
	for i := range profiles {
		result[i] = profiles[i].normalize()
	}
	return result, nil
}
