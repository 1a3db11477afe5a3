package main

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/agentdao/subpay"
	"github.com/agentdao/subpay/evm"
	"github.com/agentdao/subpay/gateway"
	"github.com/agentdao/subpay/httpapi"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4030"
	}

	cfg := subpay.LoadConfig()

	chain, err := evm.Dial(cfg.RPCURL, cfg.Token.Address)
	if err != nil {
		log.Fatalf("failed to connect to chain: %v", err)
	}

	// Cross-check configured decimals against the contract.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if decimals, err := chain.TokenDecimals(ctx); err != nil {
		log.Printf("warning: could not read token decimals: %v", err)
	} else if int(decimals) != cfg.Token.Decimals {
		log.Printf("warning: configured decimals %d differ from contract decimals %d",
			cfg.Token.Decimals, decimals)
	}
	cancel()

	var gw subpay.SubscriptionGateway
	if gatewayURL := os.Getenv("GATEWAY_URL"); gatewayURL != "" {
		gw = gateway.NewHTTPClient(&gateway.ClientConfig{
			URL:    gatewayURL,
			APIKey: os.Getenv("GATEWAY_API_KEY"),
		})
	} else {
		log.Printf("GATEWAY_URL not set, using in-memory subscription gateway")
		gw = gateway.NewInMemoryGateway()
	}

	opts := []subpay.ProcessorOption{
		subpay.WithNotifier(gateway.NewHTTPNotifier(cfg.WebhookURL(), nil)),
	}

	mode := subpay.ModeSimulated
	if privateKey := os.Getenv("EVM_PRIVATE_KEY"); privateKey != "" {
		signer, err := evm.NewSigningClient(chain, privateKey, big.NewInt(cfg.ChainID))
		if err != nil {
			log.Fatalf("failed to create signing client: %v", err)
		}
		opts = append(opts, subpay.WithTransferor(signer))
		mode = subpay.ModeOnChain
		log.Printf("on-chain mode enabled, signer=%s", signer.SignerAddress())
	}

	processor, err := subpay.NewPaymentProcessor(cfg, chain, gw, opts...)
	if err != nil {
		log.Fatalf("failed to create payment processor: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := httpapi.NewRouter(processor, httpapi.WithPaymentMode(mode))

	log.Printf("subscription payment server listening on :%s (chain=%d token=%s mode=%s)",
		port, cfg.ChainID, cfg.Token.Symbol, mode)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
