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
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/fantom-foundation/shadowvm/common"
	"github.com/fantom-foundation/shadowvm/vm"
)

func TestVmStateDump_PushTransactionAndBlockAppendTaggedEntries(t *testing.T) {
	dump := NewVmStateDump(vm.L1BatchEnv{Number: 7}, vm.SystemEnv{ChainID: 1})
	dump.PushBlock(vm.L2BlockEnv{Number: 1})
	dump.PushTransaction(vm.Transaction{Nonce: 5})

	if len(dump.BlocksAndTransactions) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(dump.BlocksAndTransactions))
	}

	encoded, err := json.Marshal(dump)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded struct {
		BlocksAndTransactions []json.RawMessage `json:"blocks_and_transactions"`
	}
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(decoded.BlocksAndTransactions) != 2 {
		t.Fatalf("expected 2 raw entries, got %d", len(decoded.BlocksAndTransactions))
	}

	var block struct {
		Block *vm.L2BlockEnv `json:"block"`
	}
	if err := json.Unmarshal(decoded.BlocksAndTransactions[0], &block); err != nil {
		t.Fatalf("Unmarshal block failed: %v", err)
	}
	if block.Block == nil || block.Block.Number != 1 {
		t.Errorf("expected the first entry to be a tagged block, got %s", decoded.BlocksAndTransactions[0])
	}

	var tx struct {
		Transaction *vm.Transaction `json:"transaction"`
	}
	if err := json.Unmarshal(decoded.BlocksAndTransactions[1], &tx); err != nil {
		t.Fatalf("Unmarshal transaction failed: %v", err)
	}
	if tx.Transaction == nil || tx.Transaction.Nonce != 5 {
		t.Errorf("expected the second entry to be a tagged transaction, got %s", decoded.BlocksAndTransactions[1])
	}
}

func TestDumpRecorder_Populate_FiltersZeroReadsAndSplitsWrites(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := vm.NewMockReadStorage(ctrl)
	cache := vm.NewMockStorageCache(ctrl)

	readKey := storageKey(1)
	zeroKey := storageKey(2)
	initialKey := storageKey(3)
	repeatedKey := storageKey(4)
	depHash := common.HashFromString("ABCDEF0000000000000000000000000000000000000000000000000000000000")

	cache.EXPECT().ReadStorageKeys().Return(map[vm.StorageKey]common.Value{
		readKey: valueFromByte(9),
		zeroKey: {},
	})
	cache.EXPECT().InitialWrites().Return(map[vm.StorageKey]bool{
		initialKey:  true,
		repeatedKey: false,
	})
	storage.EXPECT().Cache().Return(cache)
	storage.EXPECT().LoadFactoryDep(depHash).Return([]byte{0xde, 0xad}, true)

	dump := NewVmStateDump(vm.L1BatchEnv{}, vm.SystemEnv{})
	recorder := DumpRecorder{}
	recorder.Populate(dump, storage, []common.Hash{depHash})

	if _, ok := dump.ReadStorageKeys[readKey.HashedKey()]; !ok {
		t.Errorf("expected non-zero read to be recorded")
	}
	if _, ok := dump.ReadStorageKeys[zeroKey.HashedKey()]; ok {
		t.Errorf("expected zero-value read to be filtered out")
	}
	if _, ok := dump.InitialWrites[initialKey.HashedKey()]; !ok {
		t.Errorf("expected initial write to be recorded")
	}
	if _, ok := dump.RepeatedWrites[repeatedKey.HashedKey()]; !ok {
		t.Errorf("expected repeated write to be recorded")
	}
	if bytecode, ok := dump.FactoryDeps[depHash]; !ok || string(bytecode) != "\xde\xad" {
		t.Errorf("expected factory dependency bytecode to be recorded, got %v, %v", bytecode, ok)
	}
}

func TestVmStateDump_InitialAndRepeatedWritesEncodeAsJSONArrays(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := vm.NewMockReadStorage(ctrl)
	cache := vm.NewMockStorageCache(ctrl)

	initialKey := storageKey(1)
	repeatedKey := storageKey(2)

	cache.EXPECT().ReadStorageKeys().Return(nil)
	cache.EXPECT().InitialWrites().Return(map[vm.StorageKey]bool{
		initialKey:  true,
		repeatedKey: false,
	})
	storage.EXPECT().Cache().Return(cache)

	dump := NewVmStateDump(vm.L1BatchEnv{}, vm.SystemEnv{})
	recorder := DumpRecorder{}
	recorder.Populate(dump, storage, nil)

	encoded, err := json.Marshal(dump)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded struct {
		InitialWrites  []string `json:"initial_writes"`
		RepeatedWrites []string `json:"repeated_writes"`
	}
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("expected initial_writes/repeated_writes to decode as JSON arrays: %v", err)
	}
	if want := []string{initialKey.HashedKey().String()}; len(decoded.InitialWrites) != 1 || decoded.InitialWrites[0] != want[0] {
		t.Errorf("expected initial_writes %v, got %v", want, decoded.InitialWrites)
	}
	if want := []string{repeatedKey.HashedKey().String()}; len(decoded.RepeatedWrites) != 1 || decoded.RepeatedWrites[0] != want[0] {
		t.Errorf("expected repeated_writes %v, got %v", want, decoded.RepeatedWrites)
	}

	var roundTrip VmStateDump
	if err := json.Unmarshal(encoded, &roundTrip); err != nil {
		t.Fatalf("expected dump to round-trip through JSON: %v", err)
	}
	if _, ok := roundTrip.InitialWrites[initialKey.HashedKey()]; !ok {
		t.Errorf("expected initial write to survive a round trip, got %v", roundTrip.InitialWrites)
	}
	if _, ok := roundTrip.RepeatedWrites[repeatedKey.HashedKey()]; !ok {
		t.Errorf("expected repeated write to survive a round trip, got %v", roundTrip.RepeatedWrites)
	}
}

func TestDumpRecorder_WriteToFile_NoDirectoryIsNoop(t *testing.T) {
	recorder := DumpRecorder{}
	if err := recorder.WriteToFile(NewVmStateDump(vm.L1BatchEnv{}, vm.SystemEnv{})); err != nil {
		t.Fatalf("expected nil error with no configured directory, got %v", err)
	}
}

func TestDumpRecorder_WriteToFile_WritesJSONUnderDirectory(t *testing.T) {
	dir := t.TempDir()
	recorder := DumpRecorder{DumpsDirectory: dir}
	dump := NewVmStateDump(vm.L1BatchEnv{Number: 42}, vm.SystemEnv{})

	if err := recorder.WriteToFile(dump); err != nil {
		t.Fatalf("WriteToFile failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one dump file, got %d", len(entries))
	}
	name := entries[0].Name()
	if filepath.Ext(name) != ".json" {
		t.Errorf("expected a .json file, got %q", name)
	}
	if want := "shadow_vm_dump_batch00000042_"; len(name) < len(want) || name[:len(want)] != want {
		t.Errorf("expected filename to start with %q, got %q", want, name)
	}
}
