package rpc

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// Dex RPC Paths
const (
	VersionRoutePath           = "/v1/"
	PoolRoutePath              = "/v1/query/pool"
	PoolsRoutePath             = "/v1/query/pools"
	PositionRoutePath          = "/v1/query/position"
	PositionsRoutePath         = "/v1/query/positions"
	BalanceRoutePath           = "/v1/query/balance"
	QuoteRoutePath             = "/v1/query/quote"
	EventsRoutePath            = "/v1/query/events"
	TxCreatePoolRoutePath      = "/v1/tx/create-pool"
	TxAddLiquidityRoutePath    = "/v1/tx/add-liquidity"
	TxRemoveLiquidityRoutePath = "/v1/tx/remove-liquidity"
	TxSwapXForYRoutePath       = "/v1/tx/swap-x-for-y"
	TxSwapYForXRoutePath       = "/v1/tx/swap-y-for-x"
	TxMintRoutePath            = "/v1/tx/mint"
	ResourceUsageRoutePath     = "/v1/admin/resource-usage"
)

const (
	VersionRouteName           = "version"
	PoolRouteName              = "pool"
	PoolsRouteName             = "pools"
	PositionRouteName          = "position"
	PositionsRouteName         = "positions"
	BalanceRouteName           = "balance"
	QuoteRouteName             = "quote"
	EventsRouteName            = "events"
	TxCreatePoolRouteName      = "tx-create-pool"
	TxAddLiquidityRouteName    = "tx-add-liquidity"
	TxRemoveLiquidityRouteName = "tx-remove-liquidity"
	TxSwapXForYRouteName       = "tx-swap-x-for-y"
	TxSwapYForXRouteName       = "tx-swap-y-for-x"
	TxMintRouteName            = "tx-mint"
	ResourceUsageRouteName     = "resource-usage"
)

// routes contains the method and path for a dex command
type routes map[string]struct {
	Method string
	Path   string
}

// routePaths is a mapping from route names to their corresponding HTTP methods and paths
var routePaths = routes{
	VersionRouteName:           {Method: http.MethodGet, Path: VersionRoutePath},
	PoolRouteName:              {Method: http.MethodPost, Path: PoolRoutePath},
	PoolsRouteName:             {Method: http.MethodPost, Path: PoolsRoutePath},
	PositionRouteName:          {Method: http.MethodPost, Path: PositionRoutePath},
	PositionsRouteName:         {Method: http.MethodPost, Path: PositionsRoutePath},
	BalanceRouteName:           {Method: http.MethodPost, Path: BalanceRoutePath},
	QuoteRouteName:             {Method: http.MethodPost, Path: QuoteRoutePath},
	EventsRouteName:            {Method: http.MethodPost, Path: EventsRoutePath},
	TxCreatePoolRouteName:      {Method: http.MethodPost, Path: TxCreatePoolRoutePath},
	TxAddLiquidityRouteName:    {Method: http.MethodPost, Path: TxAddLiquidityRoutePath},
	TxRemoveLiquidityRouteName: {Method: http.MethodPost, Path: TxRemoveLiquidityRoutePath},
	TxSwapXForYRouteName:       {Method: http.MethodPost, Path: TxSwapXForYRoutePath},
	TxSwapYForXRouteName:       {Method: http.MethodPost, Path: TxSwapYForXRoutePath},
	TxMintRouteName:            {Method: http.MethodPost, Path: TxMintRoutePath},
	ResourceUsageRouteName:     {Method: http.MethodGet, Path: ResourceUsageRoutePath},
}

// httpRouteHandlers is a custom type that maps strings to httprouter handle functions
type httpRouteHandlers map[string]httprouter.Handle

// createRouter initializes and returns a new HTTP router with predefined route handlers
func createRouter(s *Server) *httprouter.Router {
	var r = httpRouteHandlers{
		VersionRouteName:           s.Version,
		PoolRouteName:              s.Pool,
		PoolsRouteName:             s.Pools,
		PositionRouteName:          s.Position,
		PositionsRouteName:         s.Positions,
		BalanceRouteName:           s.Balance,
		QuoteRouteName:             s.Quote,
		EventsRouteName:            s.Events,
		TxCreatePoolRouteName:      s.CreatePool,
		TxAddLiquidityRouteName:    s.AddLiquidity,
		TxRemoveLiquidityRouteName: s.RemoveLiquidity,
		TxSwapXForYRouteName:       s.SwapXForY,
		TxSwapYForXRouteName:       s.SwapYForX,
		TxMintRouteName:            s.Mint,
		ResourceUsageRouteName:     s.ResourceUsage,
	}
	router := httprouter.New()
	for routeName, handler := range r {
		route := routePaths[routeName]
		router.Handle(route.Method, route.Path, handler)
	}
	return router
}
