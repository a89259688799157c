// Package api is the HTTP façade: a thin gin-gonic/gin dispatcher mapping
// JSON POST endpoints onto the tss core, the payload canonicalizer and the
// RPC collaborator. None of the signing protocol's invariants live here;
// this package only marshals requests, calls the core, and marshals
// responses.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"threshold.network/solana-tss/rpcclient"
	"threshold.network/solana-tss/sealing"
)

// Server wires the façade's dependencies: a sealer for round-one witnesses
// held between the step-one and step-two calls of an aggregated signing
// session, and a way to dial an RPC client for a caller-chosen network.
type Server struct {
	sealer  *sealing.Sealer
	dialRPC func(rpcclient.Network) (rpcclient.Client, error)
}

// NewServer constructs a Server. witnessTTL bounds how long a sealed
// round-one witness may sit waiting for its matching step-two call.
func NewServer(witnessTTL time.Duration) (*Server, error) {
	sealer, err := sealing.NewSealer(witnessTTL)
	if err != nil {
		return nil, err
	}
	return &Server{
		sealer:  sealer,
		dialRPC: rpcclient.New,
	}, nil
}

// Router builds the gin.Engine exposing every operation named in spec.md §6.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")
	api.POST("/generate", s.handleGenerate)
	api.POST("/balance", s.handleBalance)
	api.POST("/airdrop", s.handleAirdrop)
	api.POST("/send_single", s.handleSendSingle)
	api.POST("/recent_block_hash", s.handleRecentBlockhash)
	api.POST("/aggregate_keys", s.handleAggregateKeys)
	api.POST("/agg_send_step_one", s.handleAggSendStepOne)
	api.POST("/agg_send_step_two", s.handleAggSendStepTwo)
	api.POST("/aggregate_signatures", s.handleAggregateSignatures)

	return r
}

// errorResponse maps any error into the façade's single {"error": "..."}
// JSON shape. Typed tss.Error kinds are not surfaced structurally here since
// every kind maps to the same 400 response; callers who need to branch on
// kind should use the core package directly rather than the façade.
func errorResponse(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	errorResponse(c, http.StatusBadRequest, err)
}

func internalError(c *gin.Context, err error) {
	errorResponse(c, http.StatusInternalServerError, err)
}
