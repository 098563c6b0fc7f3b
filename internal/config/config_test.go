package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Endpoint: EndpointConfig{
			Mode:         "controller",
			AssetKind:    "fungible",
			Pooled:       true,
			TokenAddress: "0x742d35Cc6634C0532925a3b0F26750C66d78EB66",
		},
		Admin: AdminConfig{JWTSecret: "secret"},
		Bindings: []PoolBinding{
			{Connector: "0x1000000000000000000000000000000000000001", PoolID: 7},
		},
	}
}

func TestValidateAcceptsGoodConfig(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRejectsBadMode(t *testing.T) {
	cfg := validConfig()
	cfg.Endpoint.Mode = "escrow"
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsNativeController(t *testing.T) {
	cfg := validConfig()
	cfg.Endpoint.AssetKind = "native"
	cfg.Endpoint.Pooled = false
	require.Error(t, cfg.Validate())

	cfg.Endpoint.Mode = "vault"
	require.NoError(t, cfg.Validate())
}

func TestValidateRequiresTokenAddress(t *testing.T) {
	cfg := validConfig()
	cfg.Endpoint.TokenAddress = ""
	require.Error(t, cfg.Validate())

	cfg.Endpoint.TokenAddress = "0x0000000000000000000000000000000000000000"
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsPooledVault(t *testing.T) {
	cfg := validConfig()
	cfg.Endpoint.Mode = "vault"
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsZeroPoolBinding(t *testing.T) {
	cfg := validConfig()
	cfg.Bindings[0].PoolID = 0
	require.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Bindings[0].Connector = ""
	require.Error(t, cfg.Validate())
}

func TestValidateRequiresJWTSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Admin.JWTSecret = ""
	require.Error(t, cfg.Validate())
}
