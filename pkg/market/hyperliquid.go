package market

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ryjin111/foxAI/pkg/httputil"
)

const defaultHyperliquidURL = "https://api.hyperliquid.xyz"

// FoxCollection is the OnChainHyperFoxes collection snapshot.
type FoxCollection struct {
	Name            string `json:"name"`
	ContractAddress string `json:"contractAddress"`
	FloorPrice      string `json:"floorPrice"`
	Volume24h       string `json:"volume24h"`
	Volume7d        string `json:"volume7d"`
	Holders         int    `json:"holders"`
	TotalSupply     int    `json:"totalSupply"`
}

// Appendix renders the collection summary appended to agent replies.
func (c FoxCollection) Appendix() string {
	return fmt.Sprintf("\n\n🦊 **OnChainHyperFoxes Data:**\nFloor Price: %s\nVolume 24h: %s\nHolders: %d",
		c.FloorPrice, c.Volume24h, c.Holders)
}

// MarketAnalytics is the Hyperliquid exchange-wide activity snapshot.
type MarketAnalytics struct {
	Volume24h   string `json:"volume24h"`
	Volume7d    string `json:"volume7d"`
	TotalTrades int    `json:"totalTrades"`
	ActiveUsers int    `json:"activeUsers"`
}

func (m MarketAnalytics) Appendix() string {
	return fmt.Sprintf("\n\n📈 **Hyperliquid Market:**\nVolume 24h: %s\nTotal Trades: %d\nActive Users: %d",
		m.Volume24h, m.TotalTrades, m.ActiveUsers)
}

// EcosystemProject is a project building on Hyperliquid EVM.
type EcosystemProject struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status string `json:"status"`
	Users  int    `json:"users"`
}

// Development is a recent ecosystem news item.
type Development struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// Ecosystem lists active projects and recent developments, newest first.
type Ecosystem struct {
	Projects     []EcosystemProject `json:"projects"`
	Developments []Development      `json:"developments"`
}

func (e Ecosystem) Appendix() string {
	latest := ""
	if len(e.Developments) > 0 {
		latest = e.Developments[0].Title
	}
	return fmt.Sprintf("\n\n🌐 **Hyperliquid Ecosystem:**\n%d active projects\nLatest: %s",
		len(e.Projects), latest)
}

// HyperliquidClient reads collection and exchange data from the Hyperliquid
// API, with static fallbacks when the API is unreachable.
type HyperliquidClient struct {
	baseURL     string
	foxContract string
	timeout     time.Duration
	log         zerolog.Logger
}

func NewHyperliquidClient(baseURL, foxContract string, log zerolog.Logger) *HyperliquidClient {
	if baseURL == "" {
		baseURL = defaultHyperliquidURL
	}
	if foxContract == "" {
		foxContract = "0x1234567890abcdef"
	}
	return &HyperliquidClient{
		baseURL:     baseURL,
		foxContract: foxContract,
		timeout:     10 * time.Second,
		log:         log.With().Str("component", "hyperliquid").Logger(),
	}
}

func (c *HyperliquidClient) call(ctx context.Context, endpoint string, params, out any) error {
	if params == nil {
		params = map[string]any{}
	}
	body, _, err := httputil.PostJSON(ctx, c.baseURL+endpoint, nil, params, c.timeout)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

// FoxCollectionData returns live collection data, or the fallback snapshot
// when the API call fails.
func (c *HyperliquidClient) FoxCollectionData(ctx context.Context) FoxCollection {
	var data FoxCollection
	err := c.call(ctx, "/nft/collection", map[string]any{"contractAddress": c.foxContract}, &data)
	if err == nil && data.Name != "" {
		return data
	}
	if err != nil {
		c.log.Debug().Err(err).Msg("collection fetch failed, using fallback")
	}
	return FoxCollection{
		Name:            "OnChainHyperFoxes",
		ContractAddress: c.foxContract,
		FloorPrice:      "0.008 ETH",
		Volume24h:       "45.2 ETH",
		Volume7d:        "234.7 ETH",
		Holders:         1250,
		TotalSupply:     5000,
	}
}

// MarketAnalytics returns exchange activity, falling back to a snapshot.
func (c *HyperliquidClient) MarketAnalytics(ctx context.Context) MarketAnalytics {
	var data MarketAnalytics
	err := c.call(ctx, "/market/analytics", nil, &data)
	if err == nil && data.Volume24h != "" {
		return data
	}
	if err != nil {
		c.log.Debug().Err(err).Msg("market fetch failed, using fallback")
	}
	return MarketAnalytics{
		Volume24h:   "2,345.67 ETH",
		Volume7d:    "15,678.90 ETH",
		TotalTrades: 12345,
		ActiveUsers: 2345,
	}
}

// EcosystemProjects returns the ecosystem listing, falling back to a snapshot.
func (c *HyperliquidClient) EcosystemProjects(ctx context.Context) Ecosystem {
	var data Ecosystem
	err := c.call(ctx, "/ecosystem/projects", nil, &data)
	if err == nil && len(data.Projects) > 0 {
		return data
	}
	if err != nil {
		c.log.Debug().Err(err).Msg("ecosystem fetch failed, using fallback")
	}
	return Ecosystem{
		Projects: []EcosystemProject{
			{Name: "OnChainHyperFoxes", Type: "NFT Collection", Status: "Active", Users: 1250},
			{Name: "HyperDEX", Type: "DEX", Status: "Active", Users: 5678},
			{Name: "FoxSwap", Type: "AMM", Status: "Active", Users: 2345},
			{Name: "HyperLend", Type: "Lending", Status: "Beta", Users: 890},
		},
		Developments: []Development{
			{Title: "New Fox Traits Released", Description: "5 new rare traits added to OnChainHyperFoxes", Date: "2024-01-15"},
			{Title: "HyperDEX v2 Launch", Description: "Major upgrade with improved UI and features", Date: "2024-01-10"},
			{Title: "Fox Community DAO", Description: "Community governance for OnChainHyperFoxes holders", Date: "2024-01-05"},
		},
	}
}
