package rpc

import "github.com/baarbz/DecentralizedExchange/fsm"

// requests

type pairRequest struct {
	AssetA fsm.AssetId `json:"assetA"`
	AssetB fsm.AssetId `json:"assetB"`
}

type positionRequest struct {
	pairRequest
	Address string `json:"address"`
}

type balanceRequest struct {
	Asset   fsm.AssetId `json:"asset"`
	Address string      `json:"address"`
}

type quoteRequest struct {
	AssetIn  fsm.AssetId `json:"assetIn"`
	AssetOut fsm.AssetId `json:"assetOut"`
	AmountIn uint64      `json:"amountIn"`
}

type eventsRequest struct {
	FromSequence uint64 `json:"fromSequence"`
	Limit        int    `json:"limit"`
}

type createPoolRequest struct {
	Sender string `json:"sender"`
	pairRequest
	AmountA uint64 `json:"amountA"`
	AmountB uint64 `json:"amountB"`
}

type addLiquidityRequest struct {
	Sender string `json:"sender"`
	pairRequest
	AmountA    uint64 `json:"amountA"`
	MinAmountB uint64 `json:"minAmountB"`
}

type removeLiquidityRequest struct {
	Sender string `json:"sender"`
	pairRequest
	Liquidity  uint64 `json:"liquidity"`
	MinAmountA uint64 `json:"minAmountA"`
	MinAmountB uint64 `json:"minAmountB"`
}

type swapRequest struct {
	Sender string `json:"sender"`
	pairRequest
	AmountIn     uint64 `json:"amountIn"`
	MinAmountOut uint64 `json:"minAmountOut"`
}

type mintRequest struct {
	Asset   fsm.AssetId `json:"asset"`
	Address string      `json:"address"`
	Amount  uint64      `json:"amount"`
}

// results

type CreatePoolResult struct {
	Ok   bool        `json:"ok"`
	Pool fsm.PoolKey `json:"pool"`
}

type LiquidityResult struct {
	Liquidity uint64 `json:"liquidity"`
}

type RemoveLiquidityResult struct {
	AmountA uint64 `json:"amountA"`
	AmountB uint64 `json:"amountB"`
}

type AmountOutResult struct {
	AmountOut uint64 `json:"amountOut"`
}

type BalanceResult struct {
	Asset   fsm.AssetId `json:"asset"`
	Address string      `json:"address"`
	Balance uint64      `json:"balance"`
}

type OkResult struct {
	Ok bool `json:"ok"`
}

type ProcessResourceUsage struct {
	Pid         int32   `json:"pid"`
	RSS         uint64  `json:"rss"`
	ThreadCount uint64  `json:"threadCount"`
	CPUPercent  float64 `json:"usedCPUPercent"`
}

type SystemResourceUsage struct {
	// ram
	TotalRAM       uint64  `json:"totalRAM"`
	AvailableRAM   uint64  `json:"availableRAM"`
	UsedRAMPercent float64 `json:"usedRAMPercent"`
	// cpu
	UsedCPUPercent float64 `json:"usedCPUPercent"`
	// disk
	TotalDisk       uint64  `json:"totalDisk"`
	FreeDisk        uint64  `json:"freeDisk"`
	UsedDiskPercent float64 `json:"usedDiskPercent"`
}

type ResourceUsageResult struct {
	Process ProcessResourceUsage `json:"process"`
	System  SystemResourceUsage  `json:"system"`
}
