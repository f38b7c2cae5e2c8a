// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"

	"golang.org/x/crypto/sha3"
)

// AddressSize is the size of Ethereum-like address.
const AddressSize = 20

// Address is an EVM-like account address.
type Address [AddressSize]byte

// KeySize is the size of EVM-like storage slot key.
const KeySize = 32

// Key is an EVM-like key of a storage slot.
type Key [KeySize]byte

// HashSize is the byte-size of the Hash type.
const HashSize = 32

// Hash is an Ethereum-like hash of a state.
type Hash [HashSize]byte

// NonceSize is the size of Ethereum-like nonce.
const NonceSize = 8

// Nonce is an Ethereum-like nonce.
type Nonce [NonceSize]byte

// ValueSize is the size of EVM-like storage slot value.
const ValueSize = 32

// Value is an Ethereum-like smart contract memory slot.
type Value [ValueSize]byte

// IsZero reports whether v is the zero value, matching the "zero-value
// reads are not recorded" filtering rule for dumped storage slots.
func (v Value) IsZero() bool {
	return v == Value{}
}

// ToNonce converts the provided integer into a Nonce. Nonces encode integers in BigEndian byte order.
func ToNonce(value uint64) (res Nonce) {
	binary.BigEndian.PutUint64(res[:], value)
	return
}

// ToUint64 converts the value of a nonce into a integer value.
func (n *Nonce) ToUint64() uint64 {
	return binary.BigEndian.Uint64(n[:])
}

// GetKeccak256Hash computes the Keccak256 hash of the given data.
func GetKeccak256Hash(data []byte) Hash {
	hasher := sha3.NewLegacyKeccak256()
	return GetHash(hasher, data)
}

// GetHash computes the hash of the given data using the given hashing algorithm.
func GetHash(h hash.Hash, data []byte) (res Hash) {
	h.Reset()
	h.Write(data)
	copy(res[:], h.Sum(nil)[:])
	return
}

func (a Address) String() string {
	return fmt.Sprintf("%x", a[:])
}

func (a Key) String() string {
	return fmt.Sprintf("%x", a[:])
}

func (h Hash) String() string {
	return fmt.Sprintf("%x", h[:])
}

func (v Value) String() string {
	return fmt.Sprintf("%x", v[:])
}

// MarshalText renders an Address as a plain hex string (no 0x prefix).
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses the hex encoding produced by MarshalText.
func (a *Address) UnmarshalText(text []byte) error {
	decoded, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("invalid address hex %q: %w", text, err)
	}
	if len(decoded) != AddressSize {
		return fmt.Errorf("invalid address length: expected %d bytes, got %d", AddressSize, len(decoded))
	}
	copy(a[:], decoded)
	return nil
}

// MarshalText renders a Key as a plain hex string (no 0x prefix).
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses the hex encoding produced by MarshalText.
func (k *Key) UnmarshalText(text []byte) error {
	decoded, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("invalid key hex %q: %w", text, err)
	}
	if len(decoded) != KeySize {
		return fmt.Errorf("invalid key length: expected %d bytes, got %d", KeySize, len(decoded))
	}
	copy(k[:], decoded)
	return nil
}

// MarshalText renders a Hash as a plain hex string (no 0x prefix), so that
// Hash can be used directly as a map key in JSON-encoded dumps.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText parses the hex encoding produced by MarshalText.
func (h *Hash) UnmarshalText(text []byte) error {
	decoded, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("invalid hash hex %q: %w", text, err)
	}
	if len(decoded) != HashSize {
		return fmt.Errorf("invalid hash length: expected %d bytes, got %d", HashSize, len(decoded))
	}
	copy(h[:], decoded)
	return nil
}

// MarshalText renders a Value as a plain hex string (no 0x prefix).
func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText parses the hex encoding produced by MarshalText.
func (v *Value) UnmarshalText(text []byte) error {
	decoded, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("invalid value hex %q: %w", text, err)
	}
	if len(decoded) != ValueSize {
		return fmt.Errorf("invalid value length: expected %d bytes, got %d", ValueSize, len(decoded))
	}
	copy(v[:], decoded)
	return nil
}

// HashFromString converts a 64-character long hex string into a hash.
// The operation is slow and mainly intended for producing readable test
// cases. The operation will panic if the provided hash is malformed.
func HashFromString(str string) Hash {
	if len(str) != 64 {
		panic(fmt.Sprintf("invalid hash-string length, expected %d, got %d", 64, len(str)))
	}
	bytes, err := hex.DecodeString(str)
	if err != nil {
		panic(fmt.Sprintf("invalid hex string `%s`: %v", str, err))
	}
	res := Hash{}
	copy(res[:], bytes)
	return res
}

// AddressFromNumber produces a deterministic test address from a small integer.
func AddressFromNumber(num int) (address Address) {
	addr := binary.BigEndian.AppendUint32([]byte{}, uint32(num))
	copy(address[:], addr)
	return
}
