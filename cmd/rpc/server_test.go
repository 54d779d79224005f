package rpc

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/baarbz/DecentralizedExchange/fsm"
	"github.com/baarbz/DecentralizedExchange/lib"
	"github.com/baarbz/DecentralizedExchange/store"
	"github.com/stretchr/testify/require"
)

const (
	tokenX  = fsm.AssetId("token-x")
	tokenY  = fsm.AssetId("token-y")
	wallet1 = "wallet_1"
	wallet2 = "wallet_2"
)

func TestClientRoundTrip(t *testing.T) {
	c := newTestClient(t)
	version, err := c.Version()
	require.NoError(t, err)
	require.Equal(t, SoftwareVersion, *version)
	for _, w := range []string{wallet1, wallet2} {
		for _, a := range []fsm.AssetId{tokenX, tokenY} {
			_, err = c.Mint(a, w, 1_000_000)
			require.NoError(t, err)
		}
	}
	// unknown pair
	details, err := c.Pool(tokenX, tokenY)
	require.NoError(t, err)
	require.Nil(t, details)
	created, err := c.CreatePool(wallet1, tokenX, tokenY, 100000, 100000)
	require.NoError(t, err)
	require.True(t, created.Ok)
	require.Equal(t, fsm.PoolKey{Low: tokenX, High: tokenY}, created.Pool)
	added, err := c.AddLiquidity(wallet1, tokenX, tokenY, 50000, 49000)
	require.NoError(t, err)
	require.Equal(t, uint64(50000), added.Liquidity)
	details, err = c.Pool(tokenX, tokenY)
	require.NoError(t, err)
	require.Equal(t, &fsm.PoolDetails{ReserveX: 150000, ReserveY: 150000, TotalLiquidity: 150000}, details)
	quote, err := c.Quote(tokenY, tokenX, 15000)
	require.NoError(t, err)
	swapped, err := c.SwapYForX(wallet2, tokenX, tokenY, 15000, quote.AmountOut)
	require.NoError(t, err)
	require.Equal(t, quote.AmountOut, swapped.AmountOut)
	balance, err := c.Balance(tokenX, wallet2)
	require.NoError(t, err)
	require.Equal(t, 1_000_000+swapped.AmountOut, balance.Balance)
	removed, err := c.RemoveLiquidity(wallet1, tokenX, tokenY, 150000, 0, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(150000)-swapped.AmountOut, removed.AmountA)
	require.Equal(t, uint64(165000), removed.AmountB)
	position, err := c.Position(tokenX, tokenY, wallet1)
	require.NoError(t, err)
	require.Zero(t, position.Liquidity)
	pools, err := c.Pools()
	require.NoError(t, err)
	require.Len(t, pools, 1)
	require.Zero(t, pools[0].TotalLiquidity)
	events, err := c.Events(0, 10)
	require.NoError(t, err)
	require.Len(t, events, 4)
}

func TestClientSurfacesEngineErrors(t *testing.T) {
	c := newTestClient(t)
	_, err := c.Mint(tokenX, wallet1, 100)
	require.NoError(t, err)
	_, err = c.CreatePool(wallet1, tokenX, tokenY, 0, 100)
	require.ErrorIs(t, err, fsm.ErrInvalidAmount())
	_, err = c.SwapXForY(wallet1, tokenX, tokenY, 10, 0)
	require.ErrorIs(t, err, fsm.ErrPoolNotFound(fsm.PoolKey{}))
	_, err = c.Quote(tokenX, tokenX, 10)
	require.ErrorIs(t, err, fsm.ErrIdenticalAssets())
	_, err = c.CreatePool(wallet1, tokenX, tokenY, 100, 100)
	require.True(t, lib.IsCode(err, lib.DexModule, lib.CodeLedgerTransferFailed))
}

func TestServerRejectsMalformedBody(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, PoolRoutePath, strings.NewReader("{not json"))
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), `"module": "rpc"`)
}

func TestServerPoolDetailsJSON(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.sm.Mint(tokenX, wallet1, 1000))
	require.NoError(t, s.sm.Mint(tokenY, wallet1, 1000))
	_, err := s.sm.CreatePool(wallet1, tokenY, tokenX, 100, 400)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, PoolRoutePath, strings.NewReader(`{"assetA":"token-x","assetB":"token-y"}`))
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"reserve-x":400,"reserve-y":100,"total-liquidity":200}`, rec.Body.String())
}

func TestClientRetriesUnreachableServer(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()
	start := time.Now()
	_, err := NewClient(url, time.Second).Pools()
	require.True(t, lib.IsCode(err, lib.RPCModule, lib.CodePostRequest))
	// the backoff waited between attempts
	require.Greater(t, time.Since(start), 100*time.Millisecond)
}

func TestClientResourceUsage(t *testing.T) {
	usage, err := newTestClient(t).ResourceUsage()
	require.NoError(t, err)
	require.Equal(t, int32(os.Getpid()), usage.Process.Pid)
	require.NotZero(t, usage.System.TotalRAM)
	require.NotZero(t, usage.System.TotalDisk)
}

func newTestServer(t *testing.T) *Server {
	log := lib.NewNullLogger()
	db, err := store.NewStoreInMemory(log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	config := lib.DefaultConfig()
	sm, err := fsm.New(config, db, nil, nil, log)
	require.NoError(t, err)
	return NewServer(sm, config, log)
}

func newTestClient(t *testing.T) *Client {
	ts := httptest.NewServer(newTestServer(t).Handler())
	t.Cleanup(ts.Close)
	return NewClient(ts.URL, 5*time.Second)
}
