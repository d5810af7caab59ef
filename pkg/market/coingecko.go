package market

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ryjin111/foxAI/pkg/httputil"
)

const defaultCoinGeckoURL = "https://mcp.api.coingecko.com/sse"

// CoinPrice is a per-coin quote in USD terms.
type CoinPrice struct {
	USD          float64 `json:"usd"`
	USDMarketCap float64 `json:"usd_market_cap"`
	USD24hVol    float64 `json:"usd_24h_vol"`
	USD24hChange float64 `json:"usd_24h_change"`
}

// PriceData holds quotes for the coins the agent reports on.
type PriceData struct {
	Bitcoin  CoinPrice `json:"bitcoin"`
	Ethereum CoinPrice `json:"ethereum"`
}

func (p PriceData) Appendix() string {
	return fmt.Sprintf("\n\n💰 **Crypto Market Data:**\nBTC: $%s (%s)\nETH: $%s (%s)",
		formatUSD(p.Bitcoin.USD), signedPct(p.Bitcoin.USD24hChange),
		formatUSD(p.Ethereum.USD), signedPct(p.Ethereum.USD24hChange))
}

// TrendingCoin is one entry from the trending list.
type TrendingCoin struct {
	Item struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"item"`
}

// Trending holds the current trending coins, hottest first.
type Trending struct {
	Coins []TrendingCoin `json:"coins"`
}

// Appendix lists the top three trending coins.
func (t Trending) Appendix() string {
	top := t.Coins
	if len(top) > 3 {
		top = top[:3]
	}
	lines := make([]string, 0, len(top))
	for _, c := range top {
		lines = append(lines, fmt.Sprintf("%s (%s)", c.Item.Name, strings.ToUpper(c.Item.Symbol)))
	}
	return "\n\n🔥 **Trending Coins:**\n" + strings.Join(lines, "\n")
}

// NFTCollection is one collection from the NFT market listing.
type NFTCollection struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	FloorPriceUSD float64 `json:"floor_price_usd"`
	MarketCapUSD  float64 `json:"market_cap_usd"`
	Volume24hUSD  float64 `json:"volume_24h_usd"`
	TotalSupply   int     `json:"total_supply"`
}

// NFTCollections holds the top collections by market cap.
type NFTCollections struct {
	Collections []NFTCollection `json:"collections"`
}

// Appendix lists the top three collections with their floor price.
func (n NFTCollections) Appendix() string {
	top := n.Collections
	if len(top) > 3 {
		top = top[:3]
	}
	lines := make([]string, 0, len(top))
	for _, c := range top {
		lines = append(lines, fmt.Sprintf("%s: $%s", c.Name, formatUSD(c.FloorPriceUSD)))
	}
	return "\n\n🎨 **Top NFT Collections:**\n" + strings.Join(lines, "\n")
}

// CoinGeckoClient calls the CoinGecko MCP server's tool endpoints, with
// static fallbacks when the server is unreachable.
type CoinGeckoClient struct {
	baseURL string
	timeout time.Duration
	log     zerolog.Logger
}

func NewCoinGeckoClient(baseURL string, log zerolog.Logger) *CoinGeckoClient {
	if baseURL == "" {
		baseURL = defaultCoinGeckoURL
	}
	return &CoinGeckoClient{
		baseURL: baseURL,
		timeout: 10 * time.Second,
		log:     log.With().Str("component", "coingecko").Logger(),
	}
}

func (c *CoinGeckoClient) callTool(ctx context.Context, tool string, params, out any) error {
	if params == nil {
		params = map[string]any{}
	}
	body, _, err := httputil.PostJSON(ctx, c.baseURL+"/tools/"+tool, nil, params, c.timeout)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

// PriceData returns bitcoin and ethereum quotes, falling back to a snapshot.
func (c *CoinGeckoClient) PriceData(ctx context.Context) PriceData {
	var data PriceData
	err := c.callTool(ctx, "getPrice", map[string]any{
		"ids":                 "bitcoin,ethereum",
		"vs_currencies":       "usd,eth",
		"include_market_cap":  true,
		"include_24hr_vol":    true,
		"include_24hr_change": true,
	}, &data)
	if err == nil && data.Bitcoin.USD > 0 {
		return data
	}
	if err != nil {
		c.log.Debug().Err(err).Msg("price fetch failed, using fallback")
	}
	return PriceData{
		Bitcoin:  CoinPrice{USD: 45000, USDMarketCap: 850000000000, USD24hVol: 25000000000, USD24hChange: 2.5},
		Ethereum: CoinPrice{USD: 2800, USDMarketCap: 350000000000, USD24hVol: 15000000000, USD24hChange: 1.8},
	}
}

// TrendingCoins returns the trending list, falling back to a snapshot.
func (c *CoinGeckoClient) TrendingCoins(ctx context.Context) Trending {
	var data Trending
	err := c.callTool(ctx, "getTrending", nil, &data)
	if err == nil && len(data.Coins) > 0 {
		return data
	}
	if err != nil {
		c.log.Debug().Err(err).Msg("trending fetch failed, using fallback")
	}
	var out Trending
	btc := TrendingCoin{}
	btc.Item.ID, btc.Item.Name, btc.Item.Symbol = "bitcoin", "Bitcoin", "btc"
	eth := TrendingCoin{}
	eth.Item.ID, eth.Item.Name, eth.Item.Symbol = "ethereum", "Ethereum", "eth"
	out.Coins = []TrendingCoin{btc, eth}
	return out
}

// NFTCollections returns the top NFT collections, falling back to a snapshot.
func (c *CoinGeckoClient) NFTCollections(ctx context.Context) NFTCollections {
	var data NFTCollections
	err := c.callTool(ctx, "getNFTCollections", map[string]any{
		"order":    "market_cap_usd",
		"per_page": 20,
		"page":     1,
	}, &data)
	if err == nil && len(data.Collections) > 0 {
		return data
	}
	if err != nil {
		c.log.Debug().Err(err).Msg("nft fetch failed, using fallback")
	}
	return NFTCollections{Collections: []NFTCollection{
		{ID: "onchainhyperfoxes", Name: "OnChainHyperFoxes", FloorPriceUSD: 25.50, MarketCapUSD: 127500, Volume24hUSD: 12500, TotalSupply: 5000},
		{ID: "bored-ape-yacht-club", Name: "Bored Ape Yacht Club", FloorPriceUSD: 25000, MarketCapUSD: 1250000000, Volume24hUSD: 2500000, TotalSupply: 10000},
	}}
}
