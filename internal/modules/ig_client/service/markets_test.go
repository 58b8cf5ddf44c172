package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ig_bot/internal/models"
)

func marketsServer(t *testing.T, searchBody, detailsBody string) *httptest.Server {
	var logins atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/session", loginHandler(&logins))
	mux.HandleFunc("/markets", func(w http.ResponseWriter, r *http.Request) {
		require.NotEmpty(t, r.URL.Query().Get("searchTerm"))
		_, _ = w.Write([]byte(searchBody))
	})
	mux.HandleFunc("/markets/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(detailsBody))
	})
	return httptest.NewServer(mux)
}

func TestSearchMarketFirstResult(t *testing.T) {
	srv := marketsServer(t,
		`{"markets":[{"epic":"CS.D.EURUSD.CFD.IP","instrumentName":"EUR/USD"},{"epic":"OTHER"}]}`, "")
	defer srv.Close()

	c := newTestClient(srv.URL)
	epic, err := c.SearchMarket(context.Background(), "EURUSD")
	require.NoError(t, err)
	assert.Equal(t, "CS.D.EURUSD.CFD.IP", epic)
}

func TestSearchMarketNoResults(t *testing.T) {
	srv := marketsServer(t, `{"markets":[]}`, "")
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.SearchMarket(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Equal(t, models.KindResolution, models.KindOf(err))
}

func TestMarketDetails(t *testing.T) {
	srv := marketsServer(t, "",
		`{"instrument":{"epic":"CS.D.EURUSD.CFD.IP","name":"EUR/USD"},
		  "dealingRules":{"minDealSize":{"unit":"AMOUNT","value":0.5},
		                  "dealSizeIncrement":{"unit":"AMOUNT","value":0.25}},
		  "snapshot":{"marketStatus":"TRADEABLE","bid":99.5,"offer":100.5}}`)
	defer srv.Close()

	c := newTestClient(srv.URL)
	md, err := c.MarketDetails(context.Background(), "CS.D.EURUSD.CFD.IP")
	require.NoError(t, err)

	assert.Equal(t, "EUR/USD", md.Name)
	assert.Equal(t, "TRADEABLE", md.MarketStatus)
	assert.InDelta(t, 99.5, md.Quote.Bid, 1e-9)
	assert.InDelta(t, 100.5, md.Quote.Offer, 1e-9)
	assert.InDelta(t, 0.5, md.MinDealSize, 1e-9)
	assert.InDelta(t, 0.25, md.DealSizeIncrement, 1e-9)
	assert.InDelta(t, 100.0, md.Quote.Mid(), 1e-9)

	q, err := c.Quote(context.Background(), "CS.D.EURUSD.CFD.IP")
	require.NoError(t, err)
	assert.InDelta(t, 99.5, q.Bid, 1e-9)
}
