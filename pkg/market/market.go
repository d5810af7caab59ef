// Package market fetches collection and market data used to enrich agent
// replies. Each provider tries its upstream API first and falls back to a
// static snapshot so the agent keeps answering when the network is down.
package market

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// formatUSD renders a dollar amount with thousands separators, trimming a
// trailing ".00" the way the upstream UI does.
func formatUSD(v float64) string {
	neg := v < 0
	v = math.Abs(v)
	intPart := int64(v)
	frac := v - float64(intPart)

	s := strconv.FormatInt(intPart, 10)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if frac > 1e-9 {
		fs := strconv.FormatFloat(frac, 'f', 2, 64) // "0.xx"
		fs = strings.TrimRight(strings.TrimPrefix(fs, "0"), "0")
		if fs != "." {
			out += fs
		}
	}
	if neg {
		out = "-" + out
	}
	return out
}

// signedPct renders a 24h change with an explicit plus for gains.
func signedPct(v float64) string {
	if v > 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}
