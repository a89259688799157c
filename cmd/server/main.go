// Command server runs the HTTP façade over the threshold Schnorr signing
// core.
package main

import (
	"log"
	"time"

	"threshold.network/solana-tss/api"
)

const (
	witnessTTL = 2 * time.Minute
	listenAddr = ":8080"
)

func main() {
	srv, err := api.NewServer(witnessTTL)
	if err != nil {
		log.Fatalf("failed to start server: %v", err)
	}

	if err := srv.Router().Run(listenAddr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
