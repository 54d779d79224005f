package rpc

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// Version writes the software version
func (s *Server) Version(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	write(w, SoftwareVersion, http.StatusOK)
}

// Pool responds with the details of a pair oriented to the request, or null for an unknown pair
func (s *Server) Pool(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(pairRequest)
	if !s.unmarshal(w, r, req) {
		return
	}
	details, err := s.sm.GetPoolDetails(req.AssetA, req.AssetB)
	s.respond(w, details, err)
}

// Pools responds with every pool in canonical order
func (s *Server) Pools(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	pools, err := s.sm.GetPools()
	s.respond(w, pools, err)
}

// Position responds with the liquidity units one provider holds in a pool
func (s *Server) Position(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(positionRequest)
	if !s.unmarshal(w, r, req) {
		return
	}
	position, err := s.sm.GetPosition(req.AssetA, req.AssetB, req.Address)
	s.respond(w, position, err)
}

// Positions responds with every provider of a pool
func (s *Server) Positions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(pairRequest)
	if !s.unmarshal(w, r, req) {
		return
	}
	positions, err := s.sm.GetPositions(req.AssetA, req.AssetB)
	s.respond(w, positions, err)
}

// Balance responds with a wallet balance
func (s *Server) Balance(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(balanceRequest)
	if !s.unmarshal(w, r, req) {
		return
	}
	balance, err := s.sm.GetBalance(req.Asset, req.Address)
	s.respond(w, &BalanceResult{Asset: req.Asset, Address: req.Address, Balance: balance}, err)
}

// Quote previews a swap
func (s *Server) Quote(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(quoteRequest)
	if !s.unmarshal(w, r, req) {
		return
	}
	out, err := s.sm.Quote(req.AssetIn, req.AssetOut, req.AmountIn)
	s.respond(w, &AmountOutResult{AmountOut: out}, err)
}

// Events responds with a page of the event log
func (s *Server) Events(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(eventsRequest)
	if !s.unmarshal(w, r, req) {
		return
	}
	events, err := s.sm.GetEvents(req.FromSequence, req.Limit)
	s.respond(w, events, err)
}
