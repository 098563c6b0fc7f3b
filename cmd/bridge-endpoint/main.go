package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go-bridge/internal/adapter"
	"go-bridge/internal/assetkind"
	"go-bridge/internal/bridge"
	"go-bridge/internal/config"
	"go-bridge/internal/connector"
	"go-bridge/internal/db"
	"go-bridge/internal/endpoint"
	"go-bridge/internal/events"
	"go-bridge/internal/ledger"
	"go-bridge/internal/repository"
	"go-bridge/internal/router"
	"go-bridge/internal/token"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"
)

const checkpointInterval = 5 * time.Minute

func main() {
	configPath := flag.String("config", "config.yaml", "path to the endpoint configuration file")
	flag.Parse()

	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("❌ failed to load configuration: %v", err)
	}

	if err := db.InitDB(); err != nil {
		log.Fatalf("❌ failed to initialize database: %v", err)
	}
	repo := repository.NewBridgeRepository(db.DB)

	ctx := context.Background()
	ep, hooks, publisher, err := buildEndpoint(ctx, cfg, repo, logger)
	if err != nil {
		log.Fatalf("❌ failed to build endpoint: %v", err)
	}
	defer publisher.Close()

	if err := ep.RestoreFromRepository(ctx); err != nil {
		log.Fatalf("❌ failed to restore ledger state: %v", err)
	}

	// static bindings from config are applied on top of restored state
	if cfg.Endpoint.Pooled && len(cfg.Bindings) > 0 {
		connectors := make([]common.Address, len(cfg.Bindings))
		poolIDs := make([]uint64, len(cfg.Bindings))
		for i, b := range cfg.Bindings {
			connectors[i] = common.HexToAddress(b.Connector)
			poolIDs[i] = b.PoolID
		}
		if err := ep.UpdateConnectorPools(ctx, connectors, poolIDs); err != nil {
			log.Fatalf("❌ failed to apply configured pool bindings: %v", err)
		}
	}

	// connectors ride the NATS message layer when it is configured
	if js := publisher.JetStream(); js != nil {
		for _, addr := range connectorAddresses(cfg) {
			ep.RegisterConnector(connector.NewNATSConnector(addr, js, cfg.Chain.Name))
		}
		if _, err := connector.SubscribeInbound(js, cfg.Chain.Name, ep); err != nil {
			log.Fatalf("❌ failed to subscribe to inbound deliveries: %v", err)
		}
	}

	go checkpointLoop(ctx, ep, logger)

	r := router.SetupRouter(ep, hooks, logger)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 bridge endpoint listening on %s (mode=%s kind=%s)", addr, ep.Mode(), ep.Kind())
	if err := r.Run(addr); err != nil {
		log.Fatalf("❌ server exited: %v", err)
	}
}

func buildEndpoint(ctx context.Context, cfg *config.Config, repo repository.BridgeRepository, logger *logrus.Logger) (*endpoint.Endpoint, map[string]bridge.Hook, *events.Publisher, error) {
	kind, err := assetkind.ParseKind(cfg.Endpoint.AssetKind)
	if err != nil {
		return nil, nil, nil, err
	}
	mode, err := endpoint.ParseMode(cfg.Endpoint.Mode)
	if err != nil {
		return nil, nil, nil, err
	}

	var publisher *events.Publisher
	if cfg.NATS.URL != "" {
		publisher, err = events.NewPublisher(cfg.NATS.URL, cfg.Chain.Name)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	sender, operator, err := buildSender(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	tokenAddr := common.HexToAddress(cfg.Endpoint.TokenAddress)
	var (
		native   token.NativeClient
		fungible token.FungibleClient
		nft      token.NFTClient
		multi    token.MultiTokenClient
	)
	if sender != nil {
		switch kind {
		case assetkind.Native:
			native = token.NewEthNativeClient(sender)
		case assetkind.Fungible:
			fungible = token.NewEthFungibleClient(tokenAddr, sender)
		case assetkind.NonFungibleSingle:
			nft = token.NewEthNFTClient(tokenAddr, sender)
		case assetkind.NonFungibleMulti:
			multi = token.NewEthMultiTokenClient(tokenAddr, sender)
		}
	}

	store := ledger.NewStore()
	hook := bridge.NewNopHook(operator)
	hooks := map[string]bridge.Hook{"nop": hook}

	params := endpoint.Params{
		Mode:       mode,
		Pooled:     cfg.Endpoint.Pooled,
		Store:      store,
		Hook:       hook,
		Repository: repo,
		Events:     publisher,
		Logger:     logger,
	}
	switch mode {
	case endpoint.ModeVault:
		vaultAddr := operator
		if cfg.Endpoint.VaultAddress != "" {
			vaultAddr = common.HexToAddress(cfg.Endpoint.VaultAddress)
		}
		params.Vault = adapter.NewVaultAdapter(kind, vaultAddr, native, fungible, nft, multi)
	case endpoint.ModeController:
		params.Controller = adapter.NewControllerAdapter(kind, operator, store, fungible, nft, multi)
	}

	ep, err := endpoint.New(params)
	if err != nil {
		return nil, nil, nil, err
	}
	return ep, hooks, publisher, nil
}

// buildSender dials the chain and prepares the operator's signer. Returns a
// nil sender when no RPC url is configured (status-only deployments).
func buildSender(ctx context.Context, cfg *config.Config) (*token.EthSender, common.Address, error) {
	if cfg.Chain.RPCURL == "" {
		log.Println("⚠️ no chain RPC configured, running without token clients")
		return nil, common.Address{}, nil
	}

	client, err := ethclient.DialContext(ctx, cfg.Chain.RPCURL)
	if err != nil {
		return nil, common.Address{}, fmt.Errorf("failed to dial chain RPC: %w", err)
	}

	keyHex := os.Getenv("OPERATOR_PRIVATE_KEY")
	if keyHex == "" {
		return nil, common.Address{}, fmt.Errorf("OPERATOR_PRIVATE_KEY is required when a chain RPC is configured")
	}
	key, err := crypto.HexToECDSA(keyHex)
	if err != nil {
		return nil, common.Address{}, fmt.Errorf("invalid OPERATOR_PRIVATE_KEY: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, common.Address{}, fmt.Errorf("failed to get chain id: %w", err)
	}
	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, common.Address{}, fmt.Errorf("failed to build transactor: %w", err)
	}

	// sanity-check the declared asset kind against the live contract
	if cfg.Endpoint.ProbeKind {
		declared, _ := assetkind.ParseKind(cfg.Endpoint.AssetKind)
		assetkind.NewProber(client, logrus.StandardLogger()).
			Check(ctx, common.HexToAddress(cfg.Endpoint.TokenAddress), declared)
	}

	log.Printf("✅ chain RPC connected: chain_id=%s operator=%s", chainID, opts.From.Hex())
	return token.NewEthSender(client, opts), opts.From, nil
}

// connectorAddresses merges the explicit connector list with the binding
// entries, deduplicated.
func connectorAddresses(cfg *config.Config) []common.Address {
	seen := make(map[common.Address]struct{})
	var out []common.Address
	add := func(raw string) {
		addr := common.HexToAddress(raw)
		if _, ok := seen[addr]; ok {
			return
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}
	for _, c := range cfg.Connectors {
		add(c)
	}
	for _, b := range cfg.Bindings {
		add(b.Connector)
	}
	return out
}

func checkpointLoop(ctx context.Context, ep *endpoint.Endpoint, logger *logrus.Logger) {
	ticker := time.NewTicker(checkpointInterval)
	defer ticker.Stop()
	for range ticker.C {
		if err := ep.Checkpoint(ctx); err != nil {
			logger.WithError(err).Warn("ledger checkpoint failed")
		}
	}
}
