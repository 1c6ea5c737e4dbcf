package market

// Venue identifies a supported trading venue
type Venue string

const (
	Binance     Venue = "binance"
	Bybit       Venue = "bybit"
	OKX         Venue = "okx"
	Bitget      Venue = "bitget"
	MEXC        Venue = "mexc"
	Gate        Venue = "gate"
	XT          Venue = "xt"
	Bitunix     Venue = "bitunix"
	KCEX        Venue = "kcex"
	BingX       Venue = "bingx"
	Hyperliquid Venue = "hyperliquid"
)

// AllVenues returns every supported venue in registration order
func AllVenues() []Venue {
	return []Venue{
		Binance, Bybit, OKX, Bitget, MEXC, Gate,
		XT, Bitunix, KCEX, BingX, Hyperliquid,
	}
}

// MarketType distinguishes spot from perpetual futures markets
type MarketType string

const (
	Spot    MarketType = "spot"
	Futures MarketType = "futures"
)

// Side is the trade aggressor side
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// TickerDaily is the 24-hour summary for a single symbol.
// P is the percent change rounded to two decimals, V the quote volume in USDT.
type TickerDaily struct {
	P float64 `json:"p"`
	V float64 `json:"v"`
}

// OpenInterest is an open-interest snapshot.
// V is denominated in base-asset units, never contracts.
type OpenInterest struct {
	T int64   `json:"t"` // Unix ms
	V float64 `json:"v"`
}

// Kline is a single OHLCV bar. OpenTime is the bar's open epoch in Unix ms,
// Volume is quote volume in USDT terms. CloseTime and Closed are optional,
// present only when the venue reports them.
type Kline struct {
	Symbol    string  `json:"s"`
	OpenTime  int64   `json:"t"`
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    float64 `json:"v"`
	Interval  string  `json:"i,omitempty"`
	CloseTime int64   `json:"T,omitempty"`
	Closed    *bool   `json:"x,omitempty"`
}

// AggTrade is a single aggregated trade. Volume is in base units.
// Symbol is the venue-native symbol, unchanged by normalization.
type AggTrade struct {
	Time   int64   `json:"t"`
	Symbol string  `json:"s"`
	Side   Side    `json:"S"`
	Price  float64 `json:"p"`
	Volume float64 `json:"v"`
}

// Liquidation is a forced position close. Volume is in base units.
type Liquidation struct {
	Time   int64   `json:"t"`
	Symbol string  `json:"s"`
	Side   Side    `json:"S"`
	Volume float64 `json:"v"`
	Price  float64 `json:"p"`
}

// PriceLevel is a single level in an order book
type PriceLevel struct {
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

// Depth is an order-book snapshot with canonical sort order:
// asks ascending by price, bids descending by price.
type Depth struct {
	Asks []PriceLevel `json:"asks"`
	Bids []PriceLevel `json:"bids"`
}
