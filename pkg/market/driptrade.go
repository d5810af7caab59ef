package market

import (
	"fmt"
	"math/rand"
)

// TweetKind selects which scheduled-tweet template DripTrade produces.
type TweetKind string

const (
	TweetGM        TweetKind = "gm"
	TweetFloor     TweetKind = "floor"
	TweetTraits    TweetKind = "traits"
	TweetEcosystem TweetKind = "ecosystem"
)

var floorLines = []string{
	"Floor moving - chads accumulating rare traits while paper hands fold",
	"Smart money knows where the alpha is - check those trait floors",
	"Effects and Ki traits where the real value lies - DYOR on Drip.Trade",
	"TOP 1% foxes holding strong while normies panic sell commons",
	"Diamond hands accumulating legendary traits - paper hands ngmi",
}

var sentimentLines = []string{
	"Chad holders stay accumulating while normies sleep",
	"Smart money moving while others cope",
	"Fox community built different - rare traits pump",
	"Paper hands dumping, diamond hands collecting generational wealth",
	"Hyperliquid native foxes leading the ecosystem",
}

// TraitStat describes rarity distribution for one trait type.
type TraitStat struct {
	TraitType string
	Count     int
	Rarity    float64
}

// DripTrade produces marketplace one-liners and scheduled-tweet content.
// Prices are never quoted statically; the copy points readers at the
// marketplace instead.
type DripTrade struct {
	rng *rand.Rand
}

func NewDripTrade(rng *rand.Rand) *DripTrade {
	return &DripTrade{rng: rng}
}

// FloorLine picks a floor-price one-liner.
func (d *DripTrade) FloorLine() string {
	return floorLines[d.rng.Intn(len(floorLines))]
}

// SentimentLine picks a market-sentiment one-liner.
func (d *DripTrade) SentimentLine() string {
	return sentimentLines[d.rng.Intn(len(sentimentLines))]
}

// TraitStats reports the collection's trait-type rarity table.
func (d *DripTrade) TraitStats() []TraitStat {
	return []TraitStat{
		{TraitType: "Effects", Count: 8, Rarity: 0.36},
		{TraitType: "Eyes", Count: 21, Rarity: 0.95},
		{TraitType: "Fur", Count: 11, Rarity: 0.49},
		{TraitType: "Head", Count: 15, Rarity: 0.68},
		{TraitType: "Instinct", Count: 10, Rarity: 0.45},
		{TraitType: "Ki", Count: 10, Rarity: 0.45},
	}
}

// TweetContent renders scheduled-tweet copy for the given kind.
func (d *DripTrade) TweetContent(kind TweetKind) string {
	switch kind {
	case TweetGM:
		return fmt.Sprintf("🦊 GM Fox Fam! %s. Check Drip.Trade for current alpha", d.SentimentLine())
	case TweetFloor:
		return fmt.Sprintf("🦊 **Floor Update** 🦊\n\n%s\n\nCheck Drip.Trade for real-time data 🎯", d.FloorLine())
	case TweetTraits:
		return fmt.Sprintf("🎨 **Rare Trait Alert** 🎨\n\n%s\n\nEffects and Ki traits leading the charge 📊", d.SentimentLine())
	case TweetEcosystem:
		return fmt.Sprintf("🚀 **Hyperliquid EVM Update** 🚀\n\nOnChain Hyper Foxes leading the fastest L1\n\n%s", d.SentimentLine())
	default:
		return fmt.Sprintf("🦊 %s. Check Drip.Trade for latest data", d.SentimentLine())
	}
}
