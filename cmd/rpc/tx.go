package rpc

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// CreatePool seeds a new pool from the sender's wallet
func (s *Server) CreatePool(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(createPoolRequest)
	if !s.unmarshal(w, r, req) {
		return
	}
	key, err := s.sm.CreatePool(req.Sender, req.AssetA, req.AssetB, req.AmountA, req.AmountB)
	s.respond(w, &CreatePoolResult{Ok: true, Pool: key}, err)
}

// AddLiquidity deposits into an existing pool
func (s *Server) AddLiquidity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(addLiquidityRequest)
	if !s.unmarshal(w, r, req) {
		return
	}
	minted, err := s.sm.AddLiquidity(req.Sender, req.AssetA, req.AssetB, req.AmountA, req.MinAmountB)
	s.respond(w, &LiquidityResult{Liquidity: minted}, err)
}

// RemoveLiquidity burns liquidity units for their share of the reserves
func (s *Server) RemoveLiquidity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(removeLiquidityRequest)
	if !s.unmarshal(w, r, req) {
		return
	}
	a, b, err := s.sm.RemoveLiquidity(req.Sender, req.AssetA, req.AssetB, req.Liquidity, req.MinAmountA, req.MinAmountB)
	s.respond(w, &RemoveLiquidityResult{AmountA: a, AmountB: b}, err)
}

// SwapXForY sells the first asset of the pair
func (s *Server) SwapXForY(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(swapRequest)
	if !s.unmarshal(w, r, req) {
		return
	}
	out, err := s.sm.SwapXForY(req.Sender, req.AssetA, req.AssetB, req.AmountIn, req.MinAmountOut)
	s.respond(w, &AmountOutResult{AmountOut: out}, err)
}

// SwapYForX sells the second asset of the pair
func (s *Server) SwapYForX(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(swapRequest)
	if !s.unmarshal(w, r, req) {
		return
	}
	out, err := s.sm.SwapYForX(req.Sender, req.AssetA, req.AssetB, req.AmountIn, req.MinAmountOut)
	s.respond(w, &AmountOutResult{AmountOut: out}, err)
}

// Mint funds a wallet; a development faucet
func (s *Server) Mint(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(mintRequest)
	if !s.unmarshal(w, r, req) {
		return
	}
	s.respond(w, &OkResult{Ok: true}, s.sm.Mint(req.Asset, req.Address, req.Amount))
}
