package token

import (
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// IsAddress reports whether s is a 0x-prefixed, 40 hex character EVM address.
// Unlike ethcommon.IsHexAddress the prefix is mandatory and must be lowercase.
func IsAddress(s string) bool {
	return strings.HasPrefix(s, "0x") && ethcommon.IsHexAddress(s)
}

// ChecksumAddress returns the EIP-55 form of an address for display and logs.
func ChecksumAddress(s string) string {
	if !ethcommon.IsHexAddress(s) {
		return s
	}
	return ethcommon.HexToAddress(s).Hex()
}

// SameAddress compares two addresses ignoring case.
func SameAddress(a, b string) bool {
	if !ethcommon.IsHexAddress(a) || !ethcommon.IsHexAddress(b) {
		return false
	}
	return ethcommon.HexToAddress(a) == ethcommon.HexToAddress(b)
}
