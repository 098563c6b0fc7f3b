package assetkind

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// erc165 supportsInterface(bytes4) selector and the interface ids probed.
var (
	supportsInterfaceSelector = common.Hex2Bytes("01ffc9a7")
	totalSupplySelector       = common.Hex2Bytes("18160ddd")
	erc721InterfaceID         = common.Hex2Bytes("80ac58cd")
	erc1155InterfaceID        = common.Hex2Bytes("d9b67a26")
)

// ContractCaller is the read-only slice of ethclient.Client the prober needs.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Prober checks a declared asset kind against the capabilities the token
// contract actually exposes. Probing by attempting calls is heuristic, since
// a contract can accidentally or maliciously satisfy a probe for the wrong
// kind. A mismatch is therefore logged as a warning and never overrides the
// administrator-declared kind.
type Prober struct {
	caller ContractCaller
	logger *logrus.Logger
}

// NewProber creates a prober backed by an eth client.
func NewProber(caller ContractCaller, logger *logrus.Logger) *Prober {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Prober{caller: caller, logger: logger}
}

// Check probes the token contract and logs a warning when the probe result
// disagrees with the declared kind. The declared kind is always returned.
func (p *Prober) Check(ctx context.Context, token common.Address, declared Kind) Kind {
	if p.caller == nil || declared == Native {
		return declared
	}

	probed := p.probe(ctx, token)
	if probed != Unsupported && probed != declared {
		p.logger.WithFields(logrus.Fields{
			"token":    token.Hex(),
			"declared": declared.String(),
			"probed":   probed.String(),
		}).Warn("asset kind probe disagrees with declared kind, keeping declared kind")
	}
	return declared
}

func (p *Prober) probe(ctx context.Context, token common.Address) Kind {
	if p.supportsInterface(ctx, token, erc721InterfaceID) {
		return NonFungibleSingle
	}
	if p.supportsInterface(ctx, token, erc1155InterfaceID) {
		return NonFungibleMulti
	}
	// totalSupply responding is only suggestive of a fungible token
	if out, err := p.caller.CallContract(ctx, ethereum.CallMsg{To: &token, Data: totalSupplySelector}, nil); err == nil && len(out) == 32 {
		return Fungible
	}
	return Unsupported
}

func (p *Prober) supportsInterface(ctx context.Context, token common.Address, interfaceID []byte) bool {
	data := make([]byte, 0, 36)
	data = append(data, supportsInterfaceSelector...)
	data = append(data, common.RightPadBytes(interfaceID, 32)...)

	out, err := p.caller.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil || len(out) != 32 {
		return false
	}
	return out[31] == 1
}
