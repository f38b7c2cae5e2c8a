// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package vm

import "github.com/fantom-foundation/shadowvm/common"

// Engine is the downward API a VM implementation must expose to be driven
// by a ShadowVM, either as the primary or as the secondary. The tracer
// argument of Inspect/InspectTxWithCompression is untyped (any) rather than
// a generic type parameter: the driver never interprets it, it only forwards
// whatever the caller passed to the primary and a nil tracer to the
// secondary, so a plain interface keeps both real engines and the mocks
// used in tests simple to write by hand or with gomock, which does not
// support generic interfaces.
type Engine interface {
	// PushTransaction appends a transaction to the engine's pending queue.
	PushTransaction(tx Transaction)

	// StartL2Block opens a new L2 block within the current batch.
	StartL2Block(env L2BlockEnv)

	// Execute drives execution in the given mode and returns its result.
	Execute(mode ExecutionMode) ExecutionResult

	// Inspect is like Execute but attaches a tracer for introspection.
	Inspect(tracer any, mode ExecutionMode) ExecutionResult

	// ExecuteTxWithCompression pushes and executes tx, optionally requiring
	// its bytecodes to compress; a non-nil error means compression failed.
	ExecuteTxWithCompression(tx Transaction, withCompression bool) (ExecutionResult, error)

	// InspectTxWithCompression is the Inspect counterpart of
	// ExecuteTxWithCompression.
	InspectTxWithCompression(tracer any, tx Transaction, withCompression bool) (ExecutionResult, error)

	// FinishBatch finalizes the current batch and returns its full result.
	FinishBatch() FinishedBatch

	// BootloaderMemory returns the engine's current bootloader memory image.
	BootloaderMemory() BootloaderMemory

	// LastTxCompressedBytecodes returns the bytecodes compressed for the
	// most recently executed transaction.
	LastTxCompressedBytecodes() []CompressedBytecodeInfo

	// CurrentExecutionState returns the batch-scoped state accumulated so
	// far.
	CurrentExecutionState() CurrentExecutionState

	// GasRemaining returns the gas left in the current operation.
	GasRemaining() uint32

	// RecordMemoryMetrics reports the engine's current memory footprint.
	RecordMemoryMetrics() VmMemoryMetrics

	// MakeSnapshot records a rollback point.
	MakeSnapshot()

	// RollbackToLatest reverts to the most recently made snapshot.
	RollbackToLatest()

	// PopSnapshot discards the most recently made snapshot without
	// rolling back to it.
	PopSnapshot()
}

// ReadStorage is the read-only storage contract shared by the primary and
// secondary engines: the primary mutates it through its own, wider
// interface, while the secondary and the ShadowVM itself only ever read
// through this view.
type ReadStorage interface {
	// LoadFactoryDep returns the bytecode payload for a content hash, and
	// false if the backend holds no such dependency.
	LoadFactoryDep(hash common.Hash) ([]byte, bool)

	// Cache returns a snapshot of the backend's read/write bookkeeping,
	// used to populate a divergence dump.
	Cache() StorageCache
}

// StorageCache exposes the bookkeeping a storage backend accumulates about
// the slots it has served: every slot read (with its value) and whether
// each written slot was a first-time ("initial") write or a repeat.
type StorageCache interface {
	// ReadStorageKeys returns every storage key this cache has observed,
	// along with the value last read or written for it.
	ReadStorageKeys() map[StorageKey]common.Value

	// InitialWrites reports, for every key this cache has seen written,
	// whether that write was the slot's first ever ("initial") write.
	InitialWrites() map[StorageKey]bool
}
