package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config application configuration structure
type Config struct {
	Server     ServerConfig   `yaml:"server"`
	Database   DatabaseConfig `yaml:"database"`
	NATS       NATSConfig     `yaml:"nats"`
	Chain      ChainConfig    `yaml:"chain"`
	Endpoint   EndpointConfig `yaml:"endpoint"`
	Admin      AdminConfig    `yaml:"admin"`
	Connectors []string       `yaml:"connectors"` // registered connector addresses
	Bindings   []PoolBinding  `yaml:"bindings"`   // initial connector→pool bindings (pooled mode)
}

// ServerConfig server configuration
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig database configuration
type DatabaseConfig struct {
	DSN    string `yaml:"dsn"`
	Driver string `yaml:"driver"`
}

// NATSConfig NATS event publishing configuration. Empty URL disables events.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// ChainConfig the chain this endpoint lives on
type ChainConfig struct {
	Name   string `yaml:"name"`    // subject segment for events, e.g. "bsc"
	RPCURL string `yaml:"rpc_url"` // eth json-rpc endpoint
}

// EndpointConfig bridge endpoint configuration. The asset kind is declared
// here, fixed at construction; on-chain probing only sanity-checks it.
type EndpointConfig struct {
	Mode         string `yaml:"mode"`          // vault | controller
	AssetKind    string `yaml:"asset_kind"`    // native | fungible | nft | multi-token
	Pooled       bool   `yaml:"pooled"`        // pooled liability accounting (controller only)
	TokenAddress string `yaml:"token_address"` // asset or representative token contract
	VaultAddress string `yaml:"vault_address"` // custody account (vault mode)
	ProbeKind    bool   `yaml:"probe_kind"`    // log a warning if the probe disagrees
}

// AdminConfig admin API access configuration
type AdminConfig struct {
	JWTSecret      string `yaml:"jwt_secret"`
	Username       string `yaml:"username"`
	PasswordBcrypt string `yaml:"password_bcrypt"` // bcrypt hash of the admin credential
}

// PoolBinding one static connector→pool binding applied at startup
type PoolBinding struct {
	Connector string `yaml:"connector"`
	PoolID    uint64 `yaml:"pool_id"`
}

// AppConfig global application configuration
var AppConfig *Config

// LoadConfig loads the yaml configuration, applies environment overrides
// and validates it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// environment overrides for secrets and deployment-specific values
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if url := os.Getenv("NATS_URL"); url != "" {
		cfg.NATS.URL = url
	}
	if secret := os.Getenv("ADMIN_JWT_SECRET"); secret != "" {
		cfg.Admin.JWTSecret = secret
	}
	if rpc := os.Getenv("CHAIN_RPC_URL"); rpc != "" {
		cfg.Chain.RPCURL = rpc
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	AppConfig = &cfg
	log.Printf("✅ configuration loaded: mode=%s kind=%s pooled=%v chain=%s",
		cfg.Endpoint.Mode, cfg.Endpoint.AssetKind, cfg.Endpoint.Pooled, cfg.Chain.Name)
	return &cfg, nil
}

// Validate rejects misconfiguration before anything is wired.
func (c *Config) Validate() error {
	switch c.Endpoint.Mode {
	case "vault", "controller":
	default:
		return fmt.Errorf("endpoint.mode must be vault or controller, got %q", c.Endpoint.Mode)
	}

	switch strings.ToLower(c.Endpoint.AssetKind) {
	case "native", "eth":
		if c.Endpoint.Mode == "controller" {
			return fmt.Errorf("controller mode has no native representative asset")
		}
	case "fungible", "erc20", "nft", "non-fungible", "erc721", "multi-token", "semi-fungible", "erc1155":
		if isZeroAddress(c.Endpoint.TokenAddress) {
			return fmt.Errorf("endpoint.token_address is required for asset kind %q", c.Endpoint.AssetKind)
		}
	default:
		return fmt.Errorf("unknown endpoint.asset_kind %q", c.Endpoint.AssetKind)
	}

	if c.Endpoint.Pooled && c.Endpoint.Mode != "controller" {
		return fmt.Errorf("endpoint.pooled requires controller mode")
	}

	for i, addr := range c.Connectors {
		if isZeroAddress(addr) {
			return fmt.Errorf("connectors[%d]: connector address is required", i)
		}
	}

	for i, b := range c.Bindings {
		if b.PoolID == 0 {
			return fmt.Errorf("bindings[%d]: pool id must not be zero", i)
		}
		if isZeroAddress(b.Connector) {
			return fmt.Errorf("bindings[%d]: connector address is required", i)
		}
	}

	if c.Admin.JWTSecret == "" {
		return fmt.Errorf("admin.jwt_secret is required (set ADMIN_JWT_SECRET)")
	}
	return nil
}

func isZeroAddress(addr string) bool {
	trimmed := strings.TrimSpace(strings.TrimPrefix(strings.ToLower(addr), "0x"))
	if trimmed == "" {
		return true
	}
	return strings.Trim(trimmed, "0") == ""
}
