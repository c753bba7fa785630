package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"daxsim/market"
)

// DAXSymbol is the Yahoo Finance ticker for the DAX index.
const DAXSymbol = "^GDAXI"

// Yahoo fetches bars from the Yahoo Finance chart API. It always
// requests 1-minute data and resamples locally, so every timeframe is
// built from the same base series.
type Yahoo struct {
	Client  *http.Client
	BaseURL string // overridable for tests
}

// NewYahoo returns a fetcher with a sane timeout.
func NewYahoo() *Yahoo {
	return &Yahoo{
		Client:  &http.Client{Timeout: 30 * time.Second},
		BaseURL: "https://query1.finance.yahoo.com",
	}
}

// yahooChart is the response shape of the chart API. Quote values are
// untyped because Yahoo emits nulls for missing minutes.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []any `json:"open"`
					High   []any `json:"high"`
					Low    []any `json:"low"`
					Close  []any `json:"close"`
					Volume []any `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func (y *Yahoo) Bars(ctx context.Context, symbol string, date time.Time, tf market.Timeframe) ([]market.Candle, error) {
	start, end := dayBounds(date)

	base, err := y.fetchChart(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	bars, err := market.Resample(base, market.M1, tf)
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo %s %s: %w", symbol, start.Format("2006-01-02"), ErrDataUnavailable)
	}
	return bars, nil
}

func (y *Yahoo) fetchChart(ctx context.Context, symbol string, start, end time.Time) ([]market.Candle, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1m&period1=%d&period2=%d",
		y.BaseURL, url.PathEscape(symbol), start.Unix(), end.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := y.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: %v: %w", symbol, err, ErrDataUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("yahoo %s: status %d: %w", symbol, resp.StatusCode, ErrDataUnavailable)
	}

	var chart yahooChart
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("yahoo %s: decode: %v: %w", symbol, err, ErrDataUnavailable)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo %s: %s: %w", symbol, chart.Chart.Error.Description, ErrDataUnavailable)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo %s: empty result: %w", symbol, ErrDataUnavailable)
	}

	res := chart.Chart.Result[0]
	quote := res.Indicators.Quote[0]

	var bars []market.Candle
	for i, ts := range res.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) || i >= len(quote.Close) {
			break
		}
		o, ok1 := toFloat(quote.Open[i])
		h, ok2 := toFloat(quote.High[i])
		l, ok3 := toFloat(quote.Low[i])
		c, ok4 := toFloat(quote.Close[i])
		if !ok1 || !ok2 || !ok3 || !ok4 {
			// Yahoo emits nulls for minutes with no trades.
			continue
		}
		var v float64
		if i < len(quote.Volume) {
			v, _ = toFloat(quote.Volume[i])
		}
		bars = append(bars, market.Candle{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: v,
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return clip(bars, start, end), nil
}
