// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package shadow

import (
	"errors"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/exp/slices"

	"github.com/fantom-foundation/shadowvm/common"
	"github.com/fantom-foundation/shadowvm/vm"
)

// DivergenceErrors accumulates the field-by-field mismatches found while
// comparing a primary engine's output against a secondary engine's output
// for the same operation. Accumulating every mismatch rather than stopping
// at the first keeps a single divergence report complete: a reviewer reading
// one panic or dump should see everything that disagreed, not just whatever
// happened to be checked first.
type DivergenceErrors struct {
	errs []error
}

// CheckMatch compares two arbitrary comparable values, recording a
// mismatch error (with a go-cmp pretty diff) under the given context name
// if they differ.
func (d *DivergenceErrors) CheckMatch(context string, main, shadow any) {
	if cmp.Equal(main, shadow) {
		return
	}
	diff := cmp.Diff(main, shadow)
	d.errs = append(d.errs, fmt.Errorf("`%s` mismatch: %s", context, diff))
}

// Single is a convenience constructor for checks that compare exactly one
// pair of values and immediately resolve to a result.
func Single(context string, main, shadow any) error {
	var d DivergenceErrors
	d.CheckMatch(context, main, shadow)
	return d.IntoResult()
}

// CheckResults compares the two sides of an Execute/Inspect/
// ExecuteTxWithCompression/InspectTxWithCompression call: the outcome
// status, the three log slices compared directly, the storage logs compared
// after normalization (see NormalizeStorageLogs), and the refunds.
func (d *DivergenceErrors) CheckResults(main, shadowResult vm.ExecutionResult) {
	d.CheckMatch("result", main.Result, shadowResult.Result)
	d.CheckMatch("logs.events", main.Logs.Events, shadowResult.Logs.Events)
	d.CheckMatch("logs.system_l2_to_l1_logs", main.Logs.SystemL2ToL1Logs, shadowResult.Logs.SystemL2ToL1Logs)
	d.CheckMatch("logs.user_l2_to_l1_logs", main.Logs.UserL2ToL1Logs, shadowResult.Logs.UserL2ToL1Logs)

	mainLogs := NormalizeStorageLogs(main.Logs.StorageLogs)
	shadowLogs := NormalizeStorageLogs(shadowResult.Logs.StorageLogs)
	d.CheckMatch("logs.storage_logs", mainLogs, shadowLogs)

	d.CheckMatch("refunds", main.Refunds, shadowResult.Refunds)
}

// CheckFinalState compares the final execution states of the two sides of a
// FinishBatch comparison: events and logs compared directly,
// UsedContractHashes compared as sets (the two engines are free to visit
// contracts in different orders), and DeduplicatedStorageLogs compared as a
// map of the latest write per slot (gatherLogs), since one engine may order
// or repeat writes differently than the other without actually disagreeing
// about the final state.
func (d *DivergenceErrors) CheckFinalState(main, shadowState vm.CurrentExecutionState) {
	d.CheckMatch("final_state.events", main.Events, shadowState.Events)
	d.CheckMatch("final_state.user_l2_to_l1_logs", main.UserL2ToL1Logs, shadowState.UserL2ToL1Logs)
	d.CheckMatch("final_state.system_logs", main.SystemLogs, shadowState.SystemLogs)
	d.CheckMatch("final_state.storage_refunds", main.StorageRefunds, shadowState.StorageRefunds)
	d.CheckMatch("final_state.pubdata_costs", main.PubdataCosts, shadowState.PubdataCosts)
	d.CheckMatch(
		"final_state.used_contract_hashes",
		sortedHashes(main.UsedContractHashes),
		sortedHashes(shadowState.UsedContractHashes),
	)

	d.CheckMatch(
		"deduplicated_storage_logs",
		gatherLogs(main.DeduplicatedStorageLogs),
		gatherLogs(shadowState.DeduplicatedStorageLogs),
	)
}

// sortedHashes returns a sorted copy of hashes, turning an order-sensitive
// slice comparison into an order-insensitive set comparison.
func sortedHashes(hashes []common.Hash) []common.Hash {
	out := slices.Clone(hashes)
	slices.SortFunc(out, func(a, b common.Hash) bool { return a.String() < b.String() })
	return out
}

// gatherLogs reduces a deduplicated storage log slice to the write entries
// only, keyed by slot, so that two logically-equal but differently-ordered
// (or differently-deduplicated) slices compare equal.
func gatherLogs(logs []vm.StorageLog) map[vm.StorageKey]vm.StorageLog {
	out := make(map[vm.StorageKey]vm.StorageLog, len(logs))
	for _, log := range logs {
		if !log.IsWrite {
			continue
		}
		out[log.Key] = log
	}
	return out
}

// IntoResult collapses the accumulated mismatches into a single error, or
// nil if none were recorded.
func (d *DivergenceErrors) IntoResult() error {
	if len(d.errs) == 0 {
		return nil
	}
	return fmt.Errorf("divergence between primary and secondary VM execution: %w", errors.Join(d.errs...))
}
