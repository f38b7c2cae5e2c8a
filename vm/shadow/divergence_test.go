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
	"strings"
	"testing"

	"github.com/fantom-foundation/shadowvm/common"
	"github.com/fantom-foundation/shadowvm/vm"
)

func TestDivergenceErrors_NoMismatchesYieldsNilResult(t *testing.T) {
	var d DivergenceErrors
	d.CheckMatch("a", 1, 1)
	d.CheckMatch("b", "x", "x")
	if err := d.IntoResult(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestDivergenceErrors_AccumulatesEveryMismatch(t *testing.T) {
	var d DivergenceErrors
	d.CheckMatch("a", 1, 2)
	d.CheckMatch("b", "x", "y")
	err := d.IntoResult()
	if err == nil {
		t.Fatal("expected a non-nil error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "`a` mismatch") || !strings.Contains(msg, "`b` mismatch") {
		t.Errorf("expected both mismatches to be present in %q", msg)
	}
}

func TestSingle_MatchingValuesReturnNil(t *testing.T) {
	if err := Single("ctx", 42, 42); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestSingle_MismatchReturnsError(t *testing.T) {
	err := Single("gas_remaining", uint32(100), uint32(50))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "gas_remaining") {
		t.Errorf("expected context name in error, got %v", err)
	}
}

func TestCheckResults_StorageLogsComparedAfterNormalization(t *testing.T) {
	key := storageKey(1)

	main := vm.ExecutionResult{
		Logs: vm.ExecutionLogs{
			StorageLogs: []vm.StorageLogWithPreviousValue{
				{Log: vm.StorageLog{Key: key, Value: valueFromByte(1), IsWrite: true}, PreviousValue: valueFromByte(0)},
				{Log: vm.StorageLog{Key: key, Value: valueFromByte(2), IsWrite: true}, PreviousValue: valueFromByte(0)},
			},
		},
	}
	// Secondary only ever emitted the final write directly; after
	// normalization both sides reduce to the same single entry.
	shadowResult := vm.ExecutionResult{
		Logs: vm.ExecutionLogs{
			StorageLogs: []vm.StorageLogWithPreviousValue{
				{Log: vm.StorageLog{Key: key, Value: valueFromByte(2), IsWrite: true}, PreviousValue: valueFromByte(0)},
			},
		},
	}

	var d DivergenceErrors
	d.CheckResults(main, shadowResult)
	if err := d.IntoResult(); err != nil {
		t.Fatalf("expected normalization to make these equal, got %v", err)
	}
}

func TestCheckFinalState_UsedContractHashesOrderInsensitive(t *testing.T) {
	h1 := common.HashFromString("1000000000000000000000000000000000000000000000000000000000000000")
	h2 := common.HashFromString("2000000000000000000000000000000000000000000000000000000000000000")

	main := vm.CurrentExecutionState{UsedContractHashes: []common.Hash{h1, h2}}
	shadowState := vm.CurrentExecutionState{UsedContractHashes: []common.Hash{h2, h1}}

	var d DivergenceErrors
	d.CheckFinalState(main, shadowState)
	if err := d.IntoResult(); err != nil {
		t.Fatalf("expected order-insensitive comparison to match, got %v", err)
	}
}

func TestCheckFinalState_DeduplicatedLogsIgnoreReadsAndOrder(t *testing.T) {
	key := storageKey(1)
	write := vm.StorageLog{Key: key, Value: valueFromByte(7), IsWrite: true}
	read := vm.StorageLog{Key: storageKey(2), Value: valueFromByte(9), IsWrite: false}

	main := vm.CurrentExecutionState{DeduplicatedStorageLogs: []vm.StorageLog{read, write}}
	shadowState := vm.CurrentExecutionState{DeduplicatedStorageLogs: []vm.StorageLog{write}}

	var d DivergenceErrors
	d.CheckFinalState(main, shadowState)
	if err := d.IntoResult(); err != nil {
		t.Fatalf("expected read-only entries to be ignored, got %v", err)
	}
}

func TestCheckFinalState_DetectsGenuineMismatch(t *testing.T) {
	key := storageKey(1)
	main := vm.CurrentExecutionState{
		DeduplicatedStorageLogs: []vm.StorageLog{{Key: key, Value: valueFromByte(1), IsWrite: true}},
	}
	shadowState := vm.CurrentExecutionState{
		DeduplicatedStorageLogs: []vm.StorageLog{{Key: key, Value: valueFromByte(2), IsWrite: true}},
	}

	var d DivergenceErrors
	d.CheckFinalState(main, shadowState)
	if err := d.IntoResult(); err == nil {
		t.Fatal("expected a genuine value mismatch to be reported")
	}
}

func TestCheckResults_ReportsEventsMismatchUnderItsContext(t *testing.T) {
	main := vm.ExecutionResult{
		Logs: vm.ExecutionLogs{Events: []common.Log{{Index: 1}, {Index: 2}}},
	}
	shadowResult := vm.ExecutionResult{
		Logs: vm.ExecutionLogs{Events: []common.Log{{Index: 1}, {Index: 3}}},
	}

	var d DivergenceErrors
	d.CheckResults(main, shadowResult)
	err := d.IntoResult()
	if err == nil {
		t.Fatal("expected differing events to be reported")
	}
	if !strings.Contains(err.Error(), "logs.events") {
		t.Errorf("expected the mismatch to be reported under logs.events, got %v", err)
	}
}
