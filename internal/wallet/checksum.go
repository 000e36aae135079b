package wallet

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// ChecksumAddress validates a 20-byte hex address and returns its EIP-55
// mixed-case form.
func ChecksumAddress(addr string) (string, error) {
	clean := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(addr), "0x"), "0X")
	if len(clean) != 40 {
		return "", fmt.Errorf("%w: expected 40 hex chars, got %d", ErrInvalidAddress, len(clean))
	}
	if _, err := hex.DecodeString(clean); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return toChecksumAddress(clean), nil
}

// toChecksumAddress implements EIP-55 mixed-case checksum encoding.
func toChecksumAddress(addr string) string {
	lower := strings.ToLower(addr)

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	hash := hex.EncodeToString(h.Sum(nil))

	var result strings.Builder
	result.WriteString("0x")
	for i, c := range lower {
		if c >= '0' && c <= '9' {
			result.WriteByte(byte(c))
			continue
		}
		// If the corresponding nibble in the hash is >= 8, uppercase it.
		if hash[i] >= '8' {
			result.WriteByte(byte(c - 32))
		} else {
			result.WriteByte(byte(c))
		}
	}
	return result.String()
}

// ShortAddress shortens an address for display: 0x1234…5678.
func ShortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}
