package engine

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "drawdown-console/internal/errors"
	"drawdown-console/internal/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func TestResolveInstrument_ParsesSnapshot(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/stock/SPY", r.URL.Path)
		_, _ = io.WriteString(w, `{"current_price": 450.0,
			"expirations": ["2025-07-18", "2025-06-20"],
			"chart_data": [{"date": "2024-01-01", "price": 400}]}`)
	})

	snap, err := c.ResolveInstrument(context.Background(), "SPY")
	require.NoError(t, err)
	require.NotNil(t, snap.CurrentPrice)
	assert.Equal(t, 450.0, *snap.CurrentPrice)
	assert.Equal(t, []string{"2025-07-18", "2025-06-20"}, snap.Expirations, "exchange order must be kept")
	assert.Equal(t, []models.ChartPoint{{Date: "2024-01-01", Price: 400}}, snap.ChartSeries)
}

func TestResolveInstrument_MalformedBodyIsZeroState(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"current_price": "n/a", "expirations": 7}`)
	})

	snap, err := c.ResolveInstrument(context.Background(), "XYZ")
	require.NoError(t, err)
	assert.Nil(t, snap.CurrentPrice)
	assert.Empty(t, snap.Expirations)
	assert.False(t, snap.HasPrice())
}

func TestFetchChain(t *testing.T) {
	t.Run("calls and puts", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/chain/SPY/2025-06-20", r.URL.Path)
			_, _ = io.WriteString(w, `{"calls":[{"strike":450,"lastPrice":12.5,"volume":100,"impliedVolatility":0.21}],
				"puts":[{"strike":440,"lastPrice":8.1,"volume":null}]}`)
		})
		chain, err := c.FetchChain(context.Background(), "SPY", "2025-06-20")
		require.NoError(t, err)
		require.Len(t, chain.Calls, 1)
		require.Len(t, chain.Puts, 1)
		assert.Equal(t, models.Call, chain.Calls[0].Side)
		assert.Equal(t, int64(100), chain.Calls[0].Volume)
		require.NotNil(t, chain.Calls[0].ImpliedVolatility)
		assert.InDelta(t, 0.21, *chain.Calls[0].ImpliedVolatility, 1e-9)
		assert.Equal(t, int64(0), chain.Puts[0].Volume)
		assert.Nil(t, chain.Puts[0].ImpliedVolatility)
	})

	t.Run("missing calls is empty chain", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"puts":[{"strike":1}]}`)
		})
		chain, err := c.FetchChain(context.Background(), "SPY", "2025-06-20")
		require.NoError(t, err)
		assert.True(t, chain.IsEmpty())
	})
}

func TestSimulate_RequestShapes(t *testing.T) {
	tests := []struct {
		name   string
		params models.AnalysisParams
		want   string
	}{
		{
			name:   "analyze",
			params: models.AnalysisParams{Kind: models.KindAnalyze, Ticker: "SPY", Strike: 450, Expiry: "2025-06-20", OptionType: models.Call, MarketPrice: 12.5},
			want:   `{"ticker":"SPY","strike":450,"expiry":"2025-06-20","option_type":"call","market_price":12.5}`,
		},
		{
			name:   "greeks profile",
			params: models.AnalysisParams{Kind: models.KindGreeksProfile, Ticker: "SPY", Strike: 450, Expiry: "2025-06-20"},
			want:   `{"ticker":"SPY","strike":450,"expiry":"2025-06-20","option_type":"call","market_price":0}`,
		},
		{
			name:   "hedging always put",
			params: models.AnalysisParams{Kind: models.KindHedgingCalc, Ticker: "SPY", Strike: 427, Expiry: "2025-06-20", OptionType: models.Call, Shares: 100},
			want:   `{"ticker":"SPY","strike":427,"expiry":"2025-06-20","option_type":"put","shares":100}`,
		},
		{
			name:   "scenario",
			params: models.AnalysisParams{Kind: models.KindScenario, Ticker: "SPY", Strike: 450, Expiry: "2025-06-20", TargetPrice: 460, TargetVol: 40, DaysAhead: 7},
			want:   `{"ticker":"SPY","strike":450,"expiry":"2025-06-20","option_type":"call","target_price":460,"target_vol":40,"days_ahead":7}`,
		},
		{
			name:   "heatmap",
			params: models.AnalysisParams{Kind: models.KindHeatmap, Ticker: "SPY", Strike: 450, Expiry: "2025-06-20"},
			want:   `{"ticker":"SPY","strike":450,"expiry":"2025-06-20","option_type":"call"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, tt.params.Kind.Path(), r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				body, _ := io.ReadAll(r.Body)
				assert.JSONEq(t, tt.want, string(body))
				_, _ = io.WriteString(w, `{}`)
			})
			_, err := c.Simulate(context.Background(), tt.params)
			require.NoError(t, err)
		})
	}
}

func TestSimulate_ParsesHeatmap(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"matrix": [[{"pl": 60, "vol": 30}]], "base_price": 450}`)
	})

	res, err := c.Simulate(context.Background(), models.AnalysisParams{Kind: models.KindHeatmap, Ticker: "SPY"})
	require.NoError(t, err)
	require.NotNil(t, res.Heatmap)
	assert.Equal(t, [][]models.HeatCell{{{PL: 60, Vol: 30}}}, res.Heatmap.Matrix)
	require.NotNil(t, res.Heatmap.BasePrice)
	assert.Equal(t, 450.0, *res.Heatmap.BasePrice)
}

func TestSimulate_ShapeMismatchDegrades(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[1, 2, 3]`)
	})

	for _, kind := range models.Kinds {
		res, err := c.Simulate(context.Background(), models.AnalysisParams{Kind: kind, Ticker: "SPY"})
		require.NoError(t, err, kind)
		assert.Equal(t, kind, res.Kind)
		assert.True(t, res.IsEmpty(), kind)
	}
}

func TestSimulate_ErrorMapping(t *testing.T) {
	t.Run("detail verbatim", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"detail": "Expiration 2020-01-01 not found"}`)
		})
		_, err := c.Simulate(context.Background(), models.AnalysisParams{Kind: models.KindAnalyze, Ticker: "SPY"})
		require.Error(t, err)
		var sf *apperrors.ServerFailure
		require.ErrorAs(t, err, &sf)
		assert.Equal(t, http.StatusBadRequest, sf.Status)
		assert.Equal(t, "Expiration 2020-01-01 not found", apperrors.Message(err))
	})

	t.Run("generic without detail", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `Internal Server Error`)
		})
		_, err := c.Simulate(context.Background(), models.AnalysisParams{Kind: models.KindHeatmap, Ticker: "SPY"})
		assert.Equal(t, apperrors.CauseServer, apperrors.Classify(err))
		assert.Equal(t, "Server Error", apperrors.Message(err))
	})

	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := srv.URL
		srv.Close()

		c := NewClient(url)
		_, err := c.ResolveInstrument(context.Background(), "SPY")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrConnectionFailed)
		assert.Equal(t, apperrors.CauseTransport, apperrors.Classify(err))
		assert.Equal(t, "connection failed", apperrors.Message(err))
	})
}

func TestSimulate_UnknownKind(t *testing.T) {
	c := NewClient("http://127.0.0.1:1")
	_, err := c.Simulate(context.Background(), models.AnalysisParams{Kind: "bogus"})
	assert.ErrorIs(t, err, apperrors.ErrUnknownKind)
}

func TestRequestIDForwarded(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-123", r.Header.Get("X-Request-ID"))
		_, _ = io.WriteString(w, `{}`)
	})
	ctx := WithRequestID(context.Background(), "req-123")
	_, err := c.Simulate(ctx, models.AnalysisParams{Kind: models.KindScenario, Ticker: "SPY"})
	require.NoError(t, err)
}

func TestStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		_, _ = io.WriteString(w, `{"status": "Engine Online"}`)
	})
	msg, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Engine Online", msg)

	var _ StatusChecker = c
}
