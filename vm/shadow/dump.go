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
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fantom-foundation/shadowvm/common"
	"github.com/fantom-foundation/shadowvm/vm"
)

// blockOrTransaction is a tagged union recording either an L2 block being
// started or a transaction being pushed, in the order the ShadowVM driver
// observed them. It is serialized as a single-key JSON object, "block" or
// "transaction", mirroring the snake_case enum tagging used throughout this
// dump's original format.
type blockOrTransaction struct {
	block *vm.L2BlockEnv
	tx    *vm.Transaction
}

func blockEntry(env vm.L2BlockEnv) blockOrTransaction {
	return blockOrTransaction{block: &env}
}

func transactionEntry(tx vm.Transaction) blockOrTransaction {
	return blockOrTransaction{tx: &tx}
}

func (b blockOrTransaction) MarshalJSON() ([]byte, error) {
	switch {
	case b.block != nil:
		return json.Marshal(struct {
			Block vm.L2BlockEnv `json:"block"`
		}{*b.block})
	case b.tx != nil:
		return json.Marshal(struct {
			Transaction vm.Transaction `json:"transaction"`
		}{*b.tx})
	default:
		return nil, fmt.Errorf("empty blockOrTransaction")
	}
}

func (b *blockOrTransaction) UnmarshalJSON(data []byte) error {
	var tagged struct {
		Block       *vm.L2BlockEnv  `json:"block"`
		Transaction *vm.Transaction `json:"transaction"`
	}
	if err := json.Unmarshal(data, &tagged); err != nil {
		return err
	}
	b.block, b.tx = tagged.Block, tagged.Transaction
	return nil
}

// hashSet is a set of hashed storage keys that marshals as a JSON array of
// hex strings rather than the object a plain Go map would produce, matching
// the on-disk dump format's `initial_writes`/`repeated_writes` fields. Keys
// are sorted before encoding so repeated dumps of the same state are
// byte-identical.
type hashSet map[common.Hash]struct{}

func (s hashSet) MarshalJSON() ([]byte, error) {
	keys := make([]common.Hash, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return json.Marshal(keys)
}

func (s *hashSet) UnmarshalJSON(data []byte) error {
	var keys []common.Hash
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	set := make(hashSet, len(keys))
	for _, key := range keys {
		set[key] = struct{}{}
	}
	*s = set
	return nil
}

// VmStateDump is the full state captured for a divergence report: the
// immutable batch inputs, every block/transaction fed into the batch so
// far, and the storage-side bookkeeping (read slots, initial vs. repeat
// writes, and the factory dependency bytecodes the used contracts
// referenced). It doubles as the partial, in-progress dump a ShadowVM
// accumulates across the lifetime of a batch, and the complete dump
// written out the moment a divergence is detected.
type VmStateDump struct {
	L1BatchEnv            vm.L1BatchEnv                `json:"l1_batch_env"`
	SystemEnv             vm.SystemEnv                 `json:"system_env"`
	BlocksAndTransactions []blockOrTransaction         `json:"blocks_and_transactions"`
	ReadStorageKeys       map[common.Hash]common.Value `json:"read_storage_keys"`
	InitialWrites         hashSet                      `json:"initial_writes"`
	RepeatedWrites        hashSet                      `json:"repeated_writes"`
	FactoryDeps           map[common.Hash]vm.HexBytes  `json:"factory_deps"`
}

// NewVmStateDump starts an empty dump for the given batch inputs.
func NewVmStateDump(l1BatchEnv vm.L1BatchEnv, systemEnv vm.SystemEnv) *VmStateDump {
	return &VmStateDump{
		L1BatchEnv:            l1BatchEnv,
		SystemEnv:             systemEnv,
		BlocksAndTransactions: []blockOrTransaction{},
		ReadStorageKeys:       map[common.Hash]common.Value{},
		InitialWrites:         hashSet{},
		RepeatedWrites:        hashSet{},
		FactoryDeps:           map[common.Hash]vm.HexBytes{},
	}
}

// PushTransaction appends a transaction to the blocks/transactions timeline.
func (d *VmStateDump) PushTransaction(tx vm.Transaction) {
	d.BlocksAndTransactions = append(d.BlocksAndTransactions, transactionEntry(tx))
}

// PushBlock appends a started L2 block to the blocks/transactions timeline.
func (d *VmStateDump) PushBlock(env vm.L2BlockEnv) {
	d.BlocksAndTransactions = append(d.BlocksAndTransactions, blockEntry(env))
}

// DumpRecorder fills in and persists a divergence dump: it populates the
// storage-side fields of a partial dump from a ReadStorage snapshot and
// optionally writes the completed dump to a file. It does no logging; the
// dump is logged by the caller.
// It holds no mutable state of its own; every method takes the dump and
// storage view it needs explicitly.
type DumpRecorder struct {
	// DumpsDirectory, if non-empty, is where completed dumps are written as
	// JSON files. Empty disables file output entirely (dumps still log).
	DumpsDirectory string
}

// Populate fills in the storage-derived fields of a partial dump: every
// non-zero slot the storage cache observed being read, the hashed keys of
// every initial and repeated write, and the bytecode of every factory
// dependency referenced by the given contract hashes.
func (r *DumpRecorder) Populate(dump *VmStateDump, storage vm.ReadStorage, usedContractHashes []common.Hash) {
	cache := storage.Cache()

	for key, value := range cache.ReadStorageKeys() {
		if value.IsZero() {
			continue
		}
		dump.ReadStorageKeys[key.HashedKey()] = value
	}

	for key, isInitial := range cache.InitialWrites() {
		if isInitial {
			dump.InitialWrites[key.HashedKey()] = struct{}{}
		} else {
			dump.RepeatedWrites[key.HashedKey()] = struct{}{}
		}
	}

	for _, hash := range usedContractHashes {
		if bytecode, ok := storage.LoadFactoryDep(hash); ok {
			dump.FactoryDeps[hash] = bytecode
		}
	}
}

// WriteToFile serializes dump as JSON under r.DumpsDirectory, naming the
// file after the batch number and the current Unix millisecond timestamp so
// that repeated divergences within the same batch never collide.
func (r *DumpRecorder) WriteToFile(dump *VmStateDump) error {
	if r.DumpsDirectory == "" {
		return nil
	}
	if err := os.MkdirAll(r.DumpsDirectory, 0o755); err != nil {
		return fmt.Errorf("failed creating dumps directory: %w", err)
	}

	name := fmt.Sprintf("shadow_vm_dump_batch%08d_%d.json", dump.L1BatchEnv.Number, time.Now().UnixMilli())
	path := filepath.Join(r.DumpsDirectory, name)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed creating dump file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if err := json.NewEncoder(writer).Encode(dump); err != nil {
		return fmt.Errorf("failed dumping VM state to file: %w", err)
	}
	return writer.Flush()
}
