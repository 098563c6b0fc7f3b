package assetkind

import (
	"fmt"
	"strings"
)

// Kind is the closed enumeration of asset kinds an endpoint can be built
// for. It is declared by the administrator at construction time and is
// immutable afterwards; on-chain probing is only a consistency check.
type Kind uint8

const (
	Unsupported Kind = iota
	Native
	Fungible
	NonFungibleSingle
	NonFungibleMulti
)

// String returns the canonical config spelling of the kind.
func (k Kind) String() string {
	switch k {
	case Native:
		return "native"
	case Fungible:
		return "fungible"
	case NonFungibleSingle:
		return "nft"
	case NonFungibleMulti:
		return "multi-token"
	default:
		return "unsupported"
	}
}

// ParseKind parses a config value into a Kind. Accepts the canonical names
// plus the common contract-standard aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "native", "eth":
		return Native, nil
	case "fungible", "erc20":
		return Fungible, nil
	case "nft", "non-fungible", "erc721":
		return NonFungibleSingle, nil
	case "multi-token", "semi-fungible", "erc1155":
		return NonFungibleMulti, nil
	default:
		return Unsupported, fmt.Errorf("unknown asset kind %q (want native|fungible|nft|multi-token)", s)
	}
}

// NonFungible reports whether the kind addresses units by id.
func (k Kind) NonFungible() bool {
	return k == NonFungibleSingle || k == NonFungibleMulti
}
