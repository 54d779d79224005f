package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/baarbz/DecentralizedExchange/fsm"
	"github.com/baarbz/DecentralizedExchange/lib"
	"github.com/rs/cors"
)

const (
	colon = ":"

	SoftwareVersion = "0.1.0"
	ContentType     = "Content-Type"
	ApplicationJSON = "application/json; charset=utf-8"
)

// Server is the dex JSON RPC server
type Server struct {
	sm     *fsm.StateMachine
	config lib.Config
	server *http.Server
	logger lib.LoggerI
}

// NewServer constructs and returns a new dex RPC server
func NewServer(sm *fsm.StateMachine, config lib.Config, logger lib.LoggerI) *Server {
	s := &Server{sm: sm, config: config, logger: logger}
	s.server = &http.Server{Addr: colon + config.RPCPort, Handler: s.Handler()}
	return s
}

// Handler() wraps the router with the CORS policy and the request timeout
func (s *Server) Handler() http.Handler {
	// Create CORS policy
	cor := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS", "POST"},
	})
	// Create a default timeout for HTTP requests
	timeout := time.Duration(s.config.TimeoutS) * time.Second
	return cor.Handler(http.TimeoutHandler(createRouter(s), timeout, lib.ErrServerTimeout().Error()))
}

// Start() serves the RPC until Stop() is called
func (s *Server) Start() error {
	s.logger.Infof("Starting RPC server at 0.0.0.0:%s", s.config.RPCPort)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop() gracefully shuts the RPC server down
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// unmarshal reads a bounded JSON body into ptr, writing a 400 on failure
func (s *Server) unmarshal(w http.ResponseWriter, r *http.Request, ptr interface{}) bool {
	defer func() { _ = r.Body.Close() }()
	bz, err := io.ReadAll(io.LimitReader(r.Body, int64(s.config.MaxBodyBytes)))
	if err != nil {
		write(w, lib.ErrReadBody(err), http.StatusBadRequest)
		return false
	}
	if err = json.Unmarshal(bz, ptr); err != nil {
		write(w, ErrInvalidParams(err), http.StatusBadRequest)
		return false
	}
	return true
}

// respond writes the result of a state machine call, translating errors to status codes
func (s *Server) respond(w http.ResponseWriter, result any, err lib.ErrorI) {
	if err != nil {
		code := http.StatusInternalServerError
		if err.Module() == lib.DexModule {
			code = http.StatusBadRequest
		}
		if code == http.StatusInternalServerError {
			s.logger.Error(err.Error())
		}
		write(w, err, code)
		return
	}
	write(w, result, http.StatusOK)
}

// write marshaled payload to w
func write(w http.ResponseWriter, payload interface{}, code int) {
	w.Header().Set(ContentType, ApplicationJSON)
	w.WriteHeader(code)
	bz, _ := json.MarshalIndent(payload, "", "  ")
	_, _ = w.Write(bz)
}
