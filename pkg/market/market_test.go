package market

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestFormatUSD(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{45000, "45,000"},
		{2800, "2,800"},
		{25.50, "25.5"},
		{1250000000, "1,250,000,000"},
		{999, "999"},
		{0, "0"},
	}
	for _, c := range cases {
		if got := formatUSD(c.in); got != c.want {
			t.Errorf("formatUSD(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSignedPct(t *testing.T) {
	if got := signedPct(2.5); got != "+2.50%" {
		t.Errorf("got %q", got)
	}
	if got := signedPct(-8.7); got != "-8.70%" {
		t.Errorf("got %q", got)
	}
	if got := signedPct(0); got != "0.00%" {
		t.Errorf("got %q", got)
	}
}

func TestHyperliquidFallbackAppendix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewHyperliquidClient(srv.URL, "", zerolog.Nop())
	fox := c.FoxCollectionData(context.Background())
	want := "\n\n🦊 **OnChainHyperFoxes Data:**\nFloor Price: 0.008 ETH\nVolume 24h: 45.2 ETH\nHolders: 1250"
	if got := fox.Appendix(); got != want {
		t.Errorf("fox appendix:\n got %q\nwant %q", got, want)
	}

	m := c.MarketAnalytics(context.Background())
	if !strings.HasPrefix(m.Appendix(), "\n\n📈 **Hyperliquid Market:**\n") {
		t.Errorf("market appendix header wrong: %q", m.Appendix())
	}

	eco := c.EcosystemProjects(context.Background())
	want = "\n\n🌐 **Hyperliquid Ecosystem:**\n4 active projects\nLatest: New Fox Traits Released"
	if got := eco.Appendix(); got != want {
		t.Errorf("ecosystem appendix:\n got %q\nwant %q", got, want)
	}
}

func TestHyperliquidLiveData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/nft/collection" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"name":"OnChainHyperFoxes","floorPrice":"0.01 ETH","volume24h":"50 ETH","holders":1300}`))
	}))
	defer srv.Close()

	c := NewHyperliquidClient(srv.URL, "0xabc", zerolog.Nop())
	fox := c.FoxCollectionData(context.Background())
	if fox.FloorPrice != "0.01 ETH" || fox.Holders != 1300 {
		t.Errorf("live data not used: %+v", fox)
	}
}

func TestCoinGeckoFallbackAppendices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewCoinGeckoClient(srv.URL, zerolog.Nop())

	p := c.PriceData(context.Background())
	want := "\n\n💰 **Crypto Market Data:**\nBTC: $45,000 (+2.50%)\nETH: $2,800 (+1.80%)"
	if got := p.Appendix(); got != want {
		t.Errorf("price appendix:\n got %q\nwant %q", got, want)
	}

	tr := c.TrendingCoins(context.Background())
	want = "\n\n🔥 **Trending Coins:**\nBitcoin (BTC)\nEthereum (ETH)"
	if got := tr.Appendix(); got != want {
		t.Errorf("trending appendix:\n got %q\nwant %q", got, want)
	}

	nft := c.NFTCollections(context.Background())
	want = "\n\n🎨 **Top NFT Collections:**\nOnChainHyperFoxes: $25.5\nBored Ape Yacht Club: $25,000"
	if got := nft.Appendix(); got != want {
		t.Errorf("nft appendix:\n got %q\nwant %q", got, want)
	}
}

func TestTrendingAppendixCapsAtThree(t *testing.T) {
	var tr Trending
	for _, n := range []string{"A", "B", "C", "D", "E"} {
		tc := TrendingCoin{}
		tc.Item.Name, tc.Item.Symbol = n, strings.ToLower(n)
		tr.Coins = append(tr.Coins, tc)
	}
	got := tr.Appendix()
	if strings.Contains(got, "D") || strings.Contains(got, "E") {
		t.Errorf("expected top 3 only, got %q", got)
	}
}

func TestDripTradeTweetContent(t *testing.T) {
	d := NewDripTrade(rand.New(rand.NewSource(1)))
	gm := d.TweetContent(TweetGM)
	if !strings.HasPrefix(gm, "🦊 GM Fox Fam! ") || !strings.HasSuffix(gm, "Check Drip.Trade for current alpha") {
		t.Errorf("gm tweet shape wrong: %q", gm)
	}
	floor := d.TweetContent(TweetFloor)
	if !strings.Contains(floor, "**Floor Update**") {
		t.Errorf("floor tweet shape wrong: %q", floor)
	}
	traits := d.TweetContent(TweetTraits)
	if !strings.Contains(traits, "**Rare Trait Alert**") {
		t.Errorf("traits tweet shape wrong: %q", traits)
	}
}

func TestDripTradeDeterministicPerSeed(t *testing.T) {
	a := NewDripTrade(rand.New(rand.NewSource(7)))
	b := NewDripTrade(rand.New(rand.NewSource(7)))
	for i := 0; i < 5; i++ {
		if a.FloorLine() != b.FloorLine() {
			t.Fatal("same seed should produce same sequence")
		}
	}
}
