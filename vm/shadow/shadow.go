// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package shadow runs two vm.Engine implementations side by side, a
// primary whose results are authoritative and a secondary whose results
// are only ever compared against the primary's, and reports any divergence
// between them. It is a debugging and migration aid: once a new engine has
// run long enough without ever diverging from the old one in production,
// it can be promoted to primary on its own.
package shadow

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/fantom-foundation/shadowvm/vm"
)

// secondaryEngine bundles everything needed to keep driving and, if
// necessary, report on the secondary engine: the engine itself, its
// storage view, the dump being accumulated for it, and the reporting
// policy. It is retired (removed from the owning ShadowVM) the moment a
// divergence is reported, so that every later operation runs against the
// primary alone.
type secondaryEngine struct {
	engine  vm.Engine
	storage vm.ReadStorage
	dump    *VmStateDump

	dumpsDirectory    string
	panicOnDivergence bool
}

// report logs, optionally writes to disk, and either panics on or merely
// warns about a detected divergence, depending on panicOnDivergence. It
// takes ownership of sec in spirit: callers must only invoke report on a
// secondary that has already been unlinked from its ShadowVM, since after
// this call the secondary's dump and engine are no longer used by anyone.
// The used-contract hashes backing the dump's factory_deps are read from
// primary, not sec: primary is the authoritative engine, and the dump must
// reproduce what it actually used, not what the already-diverged secondary
// believes it used.
func (sec *secondaryEngine) report(err error, primary vm.Engine) {
	dump := sec.dump
	logrus.Errorf("VM execution diverged on batch #%d!", dump.L1BatchEnv.Number)

	usedContractHashes := primary.CurrentExecutionState().UsedContractHashes
	recorder := DumpRecorder{DumpsDirectory: sec.dumpsDirectory}
	recorder.Populate(dump, sec.storage, usedContractHashes)

	if sec.dumpsDirectory != "" {
		if writeErr := recorder.WriteToFile(dump); writeErr != nil {
			logrus.Warnf("Failed dumping VM state to file: %v", writeErr)
		}
	}

	if encoded, marshalErr := json.Marshal(dump); marshalErr != nil {
		logrus.Errorf("failed dumping VM state to string: %v", marshalErr)
	} else {
		logrus.Errorf("VM state: %s", encoded)
	}

	if sec.panicOnDivergence {
		panic(err)
	}
	logrus.Errorf("%v", err)
	logrus.Warn("secondary VM is dropped; following VM actions will be executed only on the primary VM")
}

// ShadowVM drives a primary vm.Engine and, until a divergence is found, a
// secondary vm.Engine in lockstep, comparing their outputs after every
// operation. The primary's result is always what callers see; the
// secondary exists purely to be compared against and discarded.
//
// The secondary is guarded by a mutex rather than Go's normal "just don't
// share it" convention because ShadowVM mirrors an interior-mutability
// design (a cell holding an optional value, cleared the moment it is
// consumed) from its origin: the read-only query methods (BootloaderMemory,
// GasRemaining, ...) retire the secondary on divergence just as the
// mutating ones do.
type ShadowVM struct {
	primary vm.Engine

	mu        sync.Mutex
	secondary *secondaryEngine
}

// New creates a ShadowVM driving primary as the authoritative engine and
// secondaryVM (with its storage view) as the shadow engine to compare
// against. By default divergences panic; use SetPanicOnDivergence and
// SetDumpsDirectory to change that before driving any operations.
func New(batchEnv vm.L1BatchEnv, systemEnv vm.SystemEnv, primary, secondaryVM vm.Engine, secondaryStorage vm.ReadStorage) *ShadowVM {
	return &ShadowVM{
		primary: primary,
		secondary: &secondaryEngine{
			engine:            secondaryVM,
			storage:           secondaryStorage,
			dump:              NewVmStateDump(batchEnv, systemEnv),
			panicOnDivergence: true,
		},
	}
}

// SetDumpsDirectory configures the directory divergence dumps are written
// to as JSON files. A no-op once the secondary has already been retired.
func (s *ShadowVM) SetDumpsDirectory(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.secondary != nil {
		s.secondary.dumpsDirectory = dir
	}
}

// SetPanicOnDivergence controls whether a detected divergence panics
// (true, the default) or is merely logged and the secondary retired
// (false). A no-op once the secondary has already been retired.
func (s *ShadowVM) SetPanicOnDivergence(panicOnDivergence bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.secondary != nil {
		s.secondary.panicOnDivergence = panicOnDivergence
	}
}

// peekSecondary returns the current secondary without retiring it, or nil
// if it has already been retired.
func (s *ShadowVM) peekSecondary() *secondaryEngine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.secondary
}

// takeSecondary atomically removes and returns the secondary, leaving
// s.secondary nil so that no later operation tries to drive it again.
// Returns nil if the secondary was already retired.
func (s *ShadowVM) takeSecondary() *secondaryEngine {
	s.mu.Lock()
	defer s.mu.Unlock()
	sec := s.secondary
	s.secondary = nil
	return sec
}

// withSecondary runs fn against the current secondary while it is still
// live, a no-op if the secondary has already been retired.
func (s *ShadowVM) withSecondary(fn func(sec *secondaryEngine)) {
	if sec := s.peekSecondary(); sec != nil {
		fn(sec)
	}
}

// checkAndReport runs check against the live secondary, if any; if check
// returns a non-nil error the secondary is retired and the divergence
// reported. It is the common tail shared by every comparison below.
//
// A panic raised by the secondary engine itself (as opposed to a mismatch
// detected by check) is recovered and treated the same as any other
// divergence: the secondary is retired and the panic's value is reported
// as the cause, rather than propagating and taking the primary's already
// computed result down with it.
func (s *ShadowVM) checkAndReport(check func(sec *secondaryEngine) error) {
	sec := s.peekSecondary()
	if sec == nil {
		return
	}
	err := runChecked(sec, check)
	if err == nil {
		return
	}
	if taken := s.takeSecondary(); taken != nil {
		taken.report(err, s.primary)
	}
}

// runChecked invokes check, converting any panic raised while driving the
// secondary engine into a regular error instead of letting it unwind past
// the caller.
func runChecked(sec *secondaryEngine, check func(sec *secondaryEngine) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("secondary engine panicked: %v", r)
		}
	}()
	return check(sec)
}

// PushTransaction mirrors the transaction into the secondary's dump and
// engine (if still live) before pushing it to the primary.
func (s *ShadowVM) PushTransaction(tx vm.Transaction) {
	s.withSecondary(func(sec *secondaryEngine) {
		sec.dump.PushTransaction(tx)
		sec.engine.PushTransaction(tx)
	})
	s.primary.PushTransaction(tx)
}

// StartL2Block starts the block on the primary, and on the secondary (if
// still live) after recording it in the secondary's dump.
func (s *ShadowVM) StartL2Block(env vm.L2BlockEnv) {
	s.primary.StartL2Block(env)
	s.withSecondary(func(sec *secondaryEngine) {
		sec.dump.PushBlock(env)
		sec.engine.StartL2Block(env)
	})
}

// Execute runs mode on the primary and, if the secondary is still live,
// on the secondary too, reporting any divergence between their results.
// The primary's result is always returned.
func (s *ShadowVM) Execute(mode vm.ExecutionMode) vm.ExecutionResult {
	mainResult := s.primary.Execute(mode)
	s.checkAndReport(func(sec *secondaryEngine) error {
		shadowResult := sec.engine.Execute(mode)
		var errs DivergenceErrors
		errs.CheckResults(mainResult, shadowResult)
		if err := errs.IntoResult(); err != nil {
			return fmt.Errorf("executing VM with mode %s: %w", mode, err)
		}
		return nil
	})
	return mainResult
}

// Inspect is like Execute, but attaches tracer for the primary's run only;
// the secondary is always inspected with a nil tracer.
func (s *ShadowVM) Inspect(tracer any, mode vm.ExecutionMode) vm.ExecutionResult {
	mainResult := s.primary.Inspect(tracer, mode)
	s.checkAndReport(func(sec *secondaryEngine) error {
		shadowResult := sec.engine.Inspect(nil, mode)
		var errs DivergenceErrors
		errs.CheckResults(mainResult, shadowResult)
		if err := errs.IntoResult(); err != nil {
			return fmt.Errorf("executing VM with mode %s: %w", mode, err)
		}
		return nil
	})
	return mainResult
}

// BootloaderMemory compares the primary's and secondary's bootloader
// memory images; this and every other read-only comparison below never
// mutates the secondary's engine state, only reads from it.
func (s *ShadowVM) BootloaderMemory() vm.BootloaderMemory {
	mainMemory := s.primary.BootloaderMemory()
	s.checkAndReport(func(sec *secondaryEngine) error {
		return Single("get_bootloader_memory", mainMemory, sec.engine.BootloaderMemory())
	})
	return mainMemory
}

// LastTxCompressedBytecodes compares the bytecodes the primary and
// secondary most recently compressed.
func (s *ShadowVM) LastTxCompressedBytecodes() []vm.CompressedBytecodeInfo {
	mainBytecodes := s.primary.LastTxCompressedBytecodes()
	s.checkAndReport(func(sec *secondaryEngine) error {
		return Single("get_last_tx_compressed_bytecodes", mainBytecodes, sec.engine.LastTxCompressedBytecodes())
	})
	return mainBytecodes
}

// CurrentExecutionState compares the primary's and secondary's
// batch-scoped accumulated state.
func (s *ShadowVM) CurrentExecutionState() vm.CurrentExecutionState {
	mainState := s.primary.CurrentExecutionState()
	s.checkAndReport(func(sec *secondaryEngine) error {
		return Single("get_current_execution_state", mainState, sec.engine.CurrentExecutionState())
	})
	return mainState
}

// ExecuteTxWithCompression pushes tx to both engines and compares their
// results, the same as Execute but specialized to the single-transaction,
// bytecode-compression-aware path.
func (s *ShadowVM) ExecuteTxWithCompression(tx vm.Transaction, withCompression bool) (vm.ExecutionResult, error) {
	txHash := tx.Hash()
	mainResult, mainErr := s.primary.ExecuteTxWithCompression(tx, withCompression)

	s.withSecondary(func(sec *secondaryEngine) { sec.dump.PushTransaction(tx) })
	s.checkAndReport(func(sec *secondaryEngine) error {
		shadowResult, _ := sec.engine.ExecuteTxWithCompression(tx, withCompression)
		var errs DivergenceErrors
		errs.CheckResults(mainResult, shadowResult)
		if err := errs.IntoResult(); err != nil {
			return fmt.Errorf("executing transaction %s, with_compression=%v: %w", txHash, withCompression, err)
		}
		return nil
	})
	return mainResult, mainErr
}

// InspectTxWithCompression is the Inspect counterpart of
// ExecuteTxWithCompression.
func (s *ShadowVM) InspectTxWithCompression(tracer any, tx vm.Transaction, withCompression bool) (vm.ExecutionResult, error) {
	txHash := tx.Hash()
	mainResult, mainErr := s.primary.InspectTxWithCompression(tracer, tx, withCompression)

	s.withSecondary(func(sec *secondaryEngine) { sec.dump.PushTransaction(tx) })
	s.checkAndReport(func(sec *secondaryEngine) error {
		shadowResult, _ := sec.engine.InspectTxWithCompression(nil, tx, withCompression)
		var errs DivergenceErrors
		errs.CheckResults(mainResult, shadowResult)
		if err := errs.IntoResult(); err != nil {
			return fmt.Errorf("inspecting transaction %s, with_compression=%v: %w", txHash, withCompression, err)
		}
		return nil
	})
	return mainResult, mainErr
}

// RecordMemoryMetrics reports only the primary's memory footprint; the
// secondary's footprint is never meaningful to compare, since it exists
// purely as a debugging shadow copy and is not expected to mirror the
// primary's memory behavior.
func (s *ShadowVM) RecordMemoryMetrics() vm.VmMemoryMetrics {
	return s.primary.RecordMemoryMetrics()
}

// GasRemaining compares the gas left on the primary and secondary engines.
func (s *ShadowVM) GasRemaining() uint32 {
	mainGas := s.primary.GasRemaining()
	s.checkAndReport(func(sec *secondaryEngine) error {
		return Single("gas_remaining", mainGas, sec.engine.GasRemaining())
	})
	return mainGas
}

// FinishBatch finalizes the batch on both engines and compares every
// field of the terminal result: the block-tip execution result, the final
// execution state, the final bootloader memory, the pubdata input, and
// the state diffs.
func (s *ShadowVM) FinishBatch() vm.FinishedBatch {
	mainBatch := s.primary.FinishBatch()
	s.checkAndReport(func(sec *secondaryEngine) error {
		shadowBatch := sec.engine.FinishBatch()
		var errs DivergenceErrors
		errs.CheckResults(mainBatch.BlockTipExecutionResult, shadowBatch.BlockTipExecutionResult)
		errs.CheckFinalState(mainBatch.FinalExecutionState, shadowBatch.FinalExecutionState)
		errs.CheckMatch("final_bootloader_memory", mainBatch.FinalBootloaderMemory, shadowBatch.FinalBootloaderMemory)
		errs.CheckMatch("pubdata_input", mainBatch.PubdataInput, shadowBatch.PubdataInput)
		errs.CheckMatch("state_diffs", mainBatch.StateDiffs, shadowBatch.StateDiffs)
		return errs.IntoResult()
	})
	return mainBatch
}

// MakeSnapshot records a rollback point on the secondary (if still live)
// and then the primary.
func (s *ShadowVM) MakeSnapshot() {
	s.withSecondary(func(sec *secondaryEngine) { sec.engine.MakeSnapshot() })
	s.primary.MakeSnapshot()
}

// RollbackToLatest reverts the secondary (if still live) and then the
// primary to their most recently made snapshot.
func (s *ShadowVM) RollbackToLatest() {
	s.withSecondary(func(sec *secondaryEngine) { sec.engine.RollbackToLatest() })
	s.primary.RollbackToLatest()
}

// PopSnapshot discards the most recently made snapshot on the secondary
// (if still live) and then the primary, without rolling back to it.
func (s *ShadowVM) PopSnapshot() {
	s.withSecondary(func(sec *secondaryEngine) { sec.engine.PopSnapshot() })
	s.primary.PopSnapshot()
}

var _ vm.Engine = (*ShadowVM)(nil)
