package mexc

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the spot public stream envelope and the payload messages
// this layer consumes. Unknown fields are skipped.
const (
	envChannel  = 1
	envSymbol   = 3
	envSendTime = 6

	envPublicDeals = 301
	envPublicKline = 308

	dealsItems = 1

	dealPrice     = 1
	dealQuantity  = 2
	dealTradeType = 3
	dealTime      = 4

	klineInterval    = 1
	klineWindowStart = 2
	klineOpen        = 3
	klineClose       = 4
	klineHigh        = 5
	klineLow         = 6
	klineVolume      = 7
	klineAmount      = 8
	klineWindowEnd   = 9
)

// decodeSpotFrame unpacks a binary spot stream frame into the dynamic map
// shape the adapters share with the JSON venues. Numbers come out as float64,
// matching encoding/json.
func decodeSpotFrame(data []byte) (map[string]any, error) {
	out := make(map[string]any)
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("spot frame tag: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch typ {
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, fmt.Errorf("spot frame bytes: %w", protowire.ParseError(n))
			}
			data = data[n:]
			switch num {
			case envChannel:
				out["channel"] = string(v)
			case envSymbol:
				out["symbol"] = string(v)
			case envPublicDeals:
				deals, err := decodeDeals(v)
				if err != nil {
					return nil, err
				}
				out["publicdeals"] = deals
			case envPublicKline:
				kline, err := decodeKline(v)
				if err != nil {
					return nil, err
				}
				out["publickline"] = kline
			}
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, fmt.Errorf("spot frame varint: %w", protowire.ParseError(n))
			}
			data = data[n:]
			if num == envSendTime {
				out["sendtime"] = float64(v)
			}
		case protowire.Fixed32Type:
			_, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return nil, fmt.Errorf("spot frame fixed32: %w", protowire.ParseError(n))
			}
			data = data[n:]
		case protowire.Fixed64Type:
			_, n := protowire.ConsumeFixed64(data)
			if n < 0 {
				return nil, fmt.Errorf("spot frame fixed64: %w", protowire.ParseError(n))
			}
			data = data[n:]
		default:
			return nil, fmt.Errorf("spot frame: unsupported wire type %d", typ)
		}
	}
	return out, nil
}

func decodeDeals(data []byte) (map[string]any, error) {
	var items []any
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("deals tag: %w", protowire.ParseError(n))
		}
		data = data[n:]

		if typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, fmt.Errorf("deals skip: %w", protowire.ParseError(n))
			}
			data = data[n:]
			continue
		}

		v, n := protowire.ConsumeBytes(data)
		if n < 0 {
			return nil, fmt.Errorf("deals bytes: %w", protowire.ParseError(n))
		}
		data = data[n:]
		if num != dealsItems {
			continue
		}
		item, err := decodeDealItem(v)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return map[string]any{"dealsList": items}, nil
}

func decodeDealItem(data []byte) (map[string]any, error) {
	item := make(map[string]any)
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("deal item tag: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch typ {
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, fmt.Errorf("deal item bytes: %w", protowire.ParseError(n))
			}
			data = data[n:]
			switch num {
			case dealPrice:
				item["price"] = string(v)
			case dealQuantity:
				item["quantity"] = string(v)
			}
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, fmt.Errorf("deal item varint: %w", protowire.ParseError(n))
			}
			data = data[n:]
			switch num {
			case dealTradeType:
				item["tradetype"] = float64(v)
			case dealTime:
				item["time"] = float64(v)
			}
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, fmt.Errorf("deal item skip: %w", protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return item, nil
}

func decodeKline(data []byte) (map[string]any, error) {
	kline := make(map[string]any)
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("kline tag: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch typ {
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, fmt.Errorf("kline bytes: %w", protowire.ParseError(n))
			}
			data = data[n:]
			switch num {
			case klineInterval:
				kline["interval"] = string(v)
			case klineOpen:
				kline["openingprice"] = string(v)
			case klineClose:
				kline["closingprice"] = string(v)
			case klineHigh:
				kline["highestprice"] = string(v)
			case klineLow:
				kline["lowestprice"] = string(v)
			case klineVolume:
				kline["volume"] = string(v)
			case klineAmount:
				kline["amount"] = string(v)
			}
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, fmt.Errorf("kline varint: %w", protowire.ParseError(n))
			}
			data = data[n:]
			switch num {
			case klineWindowStart:
				kline["windowstart"] = float64(v)
			case klineWindowEnd:
				kline["windowend"] = float64(v)
			}
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, fmt.Errorf("kline skip: %w", protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return kline, nil
}
