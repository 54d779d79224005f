package rpc

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/baarbz/DecentralizedExchange/fsm"
	"github.com/baarbz/DecentralizedExchange/lib"
	"github.com/cenkalti/backoff/v4"
)

// queryRetries bounds how often a query is retried after a transport failure
const queryRetries = 4

// Client is a typed caller of the dex RPC
type Client struct {
	rpcURL string
	client http.Client
}

// NewClient() creates a client for the server at rpcURL
func NewClient(rpcURL string, timeout time.Duration) *Client {
	return &Client{rpcURL: strings.TrimSuffix(rpcURL, "/"), client: http.Client{Timeout: timeout}}
}

func (c *Client) Version() (version *string, err lib.ErrorI) {
	version = new(string)
	err = c.get(VersionRouteName, version)
	return
}

// Pool() returns nil details for an unknown pair
func (c *Client) Pool(assetA, assetB fsm.AssetId) (p *fsm.PoolDetails, err lib.ErrorI) {
	err = c.query(PoolRouteName, pairRequest{AssetA: assetA, AssetB: assetB}, &p)
	return
}

func (c *Client) Pools() (p []*fsm.Pool, err lib.ErrorI) {
	err = c.query(PoolsRouteName, struct{}{}, &p)
	return
}

func (c *Client) Position(assetA, assetB fsm.AssetId, address string) (p *fsm.Position, err lib.ErrorI) {
	p = new(fsm.Position)
	err = c.query(PositionRouteName, positionRequest{pairRequest{assetA, assetB}, address}, p)
	return
}

func (c *Client) Positions(assetA, assetB fsm.AssetId) (p []*fsm.Position, err lib.ErrorI) {
	err = c.query(PositionsRouteName, pairRequest{AssetA: assetA, AssetB: assetB}, &p)
	return
}

func (c *Client) Balance(asset fsm.AssetId, address string) (p *BalanceResult, err lib.ErrorI) {
	p = new(BalanceResult)
	err = c.query(BalanceRouteName, balanceRequest{Asset: asset, Address: address}, p)
	return
}

func (c *Client) Quote(assetIn, assetOut fsm.AssetId, amountIn uint64) (p *AmountOutResult, err lib.ErrorI) {
	p = new(AmountOutResult)
	err = c.query(QuoteRouteName, quoteRequest{AssetIn: assetIn, AssetOut: assetOut, AmountIn: amountIn}, p)
	return
}

func (c *Client) Events(fromSequence uint64, limit int) (p []*fsm.Event, err lib.ErrorI) {
	err = c.query(EventsRouteName, eventsRequest{FromSequence: fromSequence, Limit: limit}, &p)
	return
}

func (c *Client) CreatePool(sender string, assetA, assetB fsm.AssetId, amountA, amountB uint64) (p *CreatePoolResult, err lib.ErrorI) {
	p = new(CreatePoolResult)
	err = c.tx(TxCreatePoolRouteName, createPoolRequest{
		Sender: sender, pairRequest: pairRequest{assetA, assetB}, AmountA: amountA, AmountB: amountB,
	}, p)
	return
}

func (c *Client) AddLiquidity(sender string, assetA, assetB fsm.AssetId, amountA, minAmountB uint64) (p *LiquidityResult, err lib.ErrorI) {
	p = new(LiquidityResult)
	err = c.tx(TxAddLiquidityRouteName, addLiquidityRequest{
		Sender: sender, pairRequest: pairRequest{assetA, assetB}, AmountA: amountA, MinAmountB: minAmountB,
	}, p)
	return
}

func (c *Client) RemoveLiquidity(sender string, assetA, assetB fsm.AssetId, liquidity, minAmountA, minAmountB uint64) (p *RemoveLiquidityResult, err lib.ErrorI) {
	p = new(RemoveLiquidityResult)
	err = c.tx(TxRemoveLiquidityRouteName, removeLiquidityRequest{
		Sender: sender, pairRequest: pairRequest{assetA, assetB}, Liquidity: liquidity, MinAmountA: minAmountA, MinAmountB: minAmountB,
	}, p)
	return
}

func (c *Client) SwapXForY(sender string, assetX, assetY fsm.AssetId, amountIn, minAmountOut uint64) (p *AmountOutResult, err lib.ErrorI) {
	p = new(AmountOutResult)
	err = c.tx(TxSwapXForYRouteName, swapRequest{
		Sender: sender, pairRequest: pairRequest{assetX, assetY}, AmountIn: amountIn, MinAmountOut: minAmountOut,
	}, p)
	return
}

func (c *Client) SwapYForX(sender string, assetX, assetY fsm.AssetId, amountIn, minAmountOut uint64) (p *AmountOutResult, err lib.ErrorI) {
	p = new(AmountOutResult)
	err = c.tx(TxSwapYForXRouteName, swapRequest{
		Sender: sender, pairRequest: pairRequest{assetX, assetY}, AmountIn: amountIn, MinAmountOut: minAmountOut,
	}, p)
	return
}

func (c *Client) Mint(asset fsm.AssetId, address string, amount uint64) (p *OkResult, err lib.ErrorI) {
	p = new(OkResult)
	err = c.tx(TxMintRouteName, mintRequest{Asset: asset, Address: address, Amount: amount}, p)
	return
}

func (c *Client) ResourceUsage() (p *ResourceUsageResult, err lib.ErrorI) {
	p = new(ResourceUsageResult)
	err = c.get(ResourceUsageRouteName, p)
	return
}

// query() posts a read request, retrying transport failures with exponential backoff
func (c *Client) query(routeName string, request, ptr any) lib.ErrorI {
	bz, err := lib.MarshalJSON(request)
	if err != nil {
		return err
	}
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(100*time.Millisecond),
		backoff.WithMaxElapsedTime(5*time.Second),
	), queryRetries)
	var result lib.ErrorI
	_ = backoff.Retry(func() error {
		result = c.post(routeName, bz, ptr)
		if result != nil && !lib.IsCode(result, lib.RPCModule, lib.CodePostRequest) {
			return backoff.Permanent(result)
		}
		return result
	}, policy)
	return result
}

// tx() posts a state changing request exactly once; the outcome of a failed transport is unknown
func (c *Client) tx(routeName string, request, ptr any) lib.ErrorI {
	bz, err := lib.MarshalJSON(request)
	if err != nil {
		return err
	}
	return c.post(routeName, bz, ptr)
}

func (c *Client) url(routeName string) string {
	return c.rpcURL + routePaths[routeName].Path
}

func (c *Client) post(routeName string, json []byte, ptr any) lib.ErrorI {
	resp, err := c.client.Post(c.url(routeName), ApplicationJSON, bytes.NewBuffer(json))
	if err != nil {
		return ErrPostRequest(err)
	}
	return c.unmarshal(resp, ptr)
}

func (c *Client) get(routeName string, ptr any) lib.ErrorI {
	resp, err := c.client.Get(c.url(routeName))
	if err != nil {
		return ErrGetRequest(err)
	}
	return c.unmarshal(resp, ptr)
}

func (c *Client) unmarshal(resp *http.Response, ptr any) lib.ErrorI {
	defer func() { _ = resp.Body.Close() }()
	bz, err := io.ReadAll(resp.Body)
	if err != nil {
		return lib.ErrReadBody(err)
	}
	if resp.StatusCode != http.StatusOK {
		// surface the server's own error when it sent one
		e := new(lib.Error)
		if lib.UnmarshalJSON(bz, e) == nil && e.EModule != "" {
			return e
		}
		return ErrHttpStatus(resp.Status, resp.StatusCode, bz)
	}
	return lib.UnmarshalJSON(bz, ptr)
}
