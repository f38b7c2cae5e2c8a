// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package vm defines the data model and engine contract shared by every
// execution-engine implementation a ShadowVM (package vm/shadow) can drive:
// transactions, blocks, batches, storage logs, and the operation surface an
// engine must expose.
package vm

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/fantom-foundation/shadowvm/common"
	"github.com/fantom-foundation/shadowvm/common/amount"
)

// StorageKey identifies a single storage slot of a single account, mirroring
// an EVM-like (address, slot) pair.
type StorageKey struct {
	Address common.Address
	Key     common.Key
}

// HashedKey derives the canonical, engine-independent identifier for a
// storage key, used to key dump maps and read/initial-write sets. Dumps must
// be comparable across engines regardless of how each engine indexes its own
// storage cache internally, so the hash is computed here rather than sourced
// from either engine.
func (k StorageKey) HashedKey() common.Hash {
	buf := make([]byte, common.AddressSize+common.KeySize)
	copy(buf, k.Address[:])
	copy(buf[common.AddressSize:], k.Key[:])
	return common.GetKeccak256Hash(buf)
}

func (k StorageKey) String() string {
	return fmt.Sprintf("%s:%s", k.Address, k.Key)
}

// StorageLog is a single read or write touching a storage slot.
type StorageLog struct {
	Key     StorageKey
	Value   common.Value
	IsWrite bool
}

// StorageLogWithPreviousValue augments a StorageLog with the value the slot
// held immediately before this log was recorded; only meaningful for writes.
type StorageLogWithPreviousValue struct {
	Log           StorageLog
	PreviousValue common.Value
}

// L2ToL1Log is a message an engine emits to be relayed from L2 to L1.
type L2ToL1Log struct {
	Sender common.Address
	Key    common.Hash
	Value  common.Hash
}

// Refunds records the gas given back to the caller after an operation,
// beyond what the engine itself already metered.
type Refunds struct {
	Gas                     uint64
	OperatorSuggestedRefund uint64
}

// ExecutionResultKind tags whether an execution completed, reverted, or
// halted outright.
type ExecutionResultKind int

const (
	ExecutionResultSuccess ExecutionResultKind = iota
	ExecutionResultRevert
	ExecutionResultHalt
)

func (k ExecutionResultKind) String() string {
	switch k {
	case ExecutionResultSuccess:
		return "success"
	case ExecutionResultRevert:
		return "revert"
	case ExecutionResultHalt:
		return "halt"
	default:
		return "unknown"
	}
}

// ExecutionResultStatus is the outcome of a single execution: success,
// revert (with a human-readable reason), or halt (with a named halt cause).
type ExecutionResultStatus struct {
	Kind         ExecutionResultKind
	RevertReason string
	HaltReason   string
}

// ExecutionLogs bundles the ordered, observable logs produced by one
// operation.
type ExecutionLogs struct {
	Events           []common.Log
	SystemL2ToL1Logs []L2ToL1Log
	UserL2ToL1Logs   []L2ToL1Log
	StorageLogs      []StorageLogWithPreviousValue
}

// ExecutionResult is the per-operation outcome an engine returns for
// Execute, Inspect, ExecuteTxWithCompression, and InspectTxWithCompression.
type ExecutionResult struct {
	Result  ExecutionResultStatus
	Logs    ExecutionLogs
	Refunds Refunds
}

// CurrentExecutionState is the accumulated, batch-scoped state an engine
// reports via CurrentExecutionState and as part of FinishBatch.
type CurrentExecutionState struct {
	Events                  []common.Log
	UserL2ToL1Logs          []L2ToL1Log
	SystemLogs              []L2ToL1Log
	StorageRefunds          []uint64
	PubdataCosts            []int32
	UsedContractHashes      []common.Hash
	DeduplicatedStorageLogs []StorageLog
}

// StateDiffRecord is a single account/slot change contributed to the batch's
// published state diff.
type StateDiffRecord struct {
	Address common.Address
	Key     common.Key
	Value   common.Value
}

// BootloaderMemory is the opaque memory image an engine's bootloader holds;
// neither side interprets its contents, only compares them byte for byte.
type BootloaderMemory []byte

// CompressedBytecodeInfo is a single contract bytecode an engine compressed
// for publication.
type CompressedBytecodeInfo struct {
	Original   []byte
	Compressed []byte
}

// FinishedBatch is the terminal result of FinishBatch: the execution result
// of the bootloader's final ("block tip") operation, the batch-wide final
// state, the final bootloader memory image, optional pubdata, and the
// ordered state diff.
type FinishedBatch struct {
	BlockTipExecutionResult ExecutionResult
	FinalExecutionState     CurrentExecutionState
	FinalBootloaderMemory   BootloaderMemory
	PubdataInput            []byte // nil means absent
	StateDiffs              []StateDiffRecord
}

// L1BatchEnv carries the immutable parameters of the L1 batch being
// executed.
type L1BatchEnv struct {
	Number                uint64
	Timestamp             uint64
	FirstL2BlockTimestamp uint64
	FeeAccount            common.Address
}

// SystemEnv carries the immutable, chain-wide parameters in effect for the
// batch.
type SystemEnv struct {
	ChainID         uint64
	GasLimit        uint64
	ProtocolVersion uint16
}

// BatchInputs bundles the two environments that define a shadow lifetime;
// both are fixed for the lifetime of a single ShadowVM instance.
type BatchInputs struct {
	L1BatchEnv L1BatchEnv
	SystemEnv  SystemEnv
}

// L2BlockEnv carries the parameters of a single L2 block within a batch.
type L2BlockEnv struct {
	Number                   uint64
	Timestamp                uint64
	PrevBlockHash            common.Hash
	MaxVirtualBlocksToCreate uint32
}

// Transaction is a single, opaque (from the driver's perspective)
// transaction to be pushed into an engine.
type Transaction struct {
	TxHash   common.Hash
	From     common.Address
	To       *common.Address
	Nonce    uint64
	Data     []byte
	Value    amount.Amount
	GasLimit uint64
}

// Hash returns the transaction's identifying hash.
func (tx Transaction) Hash() common.Hash {
	return tx.TxHash
}

// ExecutionMode selects what FinishBatch-adjacent Execute/Inspect calls
// should run: a single transaction, the whole remaining batch, or just the
// bootloader's own bookkeeping.
type ExecutionMode int

const (
	ExecuteOneTx ExecutionMode = iota
	ExecuteBatch
	ExecuteBootloader
)

func (m ExecutionMode) String() string {
	switch m {
	case ExecuteOneTx:
		return "one_tx"
	case ExecuteBatch:
		return "batch"
	case ExecuteBootloader:
		return "bootloader"
	default:
		return "unknown"
	}
}

// VmMemoryMetrics reports an engine's current memory consumption.
type VmMemoryMetrics struct {
	Total *common.MemoryFootprint
}

// HexBytes renders as a lowercase hex string when marshaled to JSON, used
// for opaque byte payloads (factory dependency bytecode) in dump files.
type HexBytes []byte

func (h HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(h))
}

func (h *HexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid hex bytes %q: %w", s, err)
	}
	*h = decoded
	return nil
}
