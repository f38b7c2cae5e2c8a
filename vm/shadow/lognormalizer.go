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
	"fmt"
	"sort"
	"strings"

	"github.com/fantom-foundation/shadowvm/vm"
)

// NormalizedStorageLogs is a deduplicated view of a StorageLogWithPreviousValue
// slice, keyed by the slot each entry touches. Repeated writes to a slot
// collapse into one entry carrying the first write's previous value and the
// last write's value, and no-op writes (previous value equals the final
// value) are dropped entirely, matching the dedup and no-op rules the
// engines themselves apply internally but not always identically.
type NormalizedStorageLogs map[vm.StorageKey]vm.StorageLogWithPreviousValue

// NormalizeStorageLogs reduces a raw, possibly repetitive storage log slice
// into its normalized form: read-only entries are discarded, the writes to
// each key are merged into one entry (the first write's previous value, the
// last write's value), and writes that ended up restoring their previous
// value are removed. One engine may emit read logs the other engine never
// produced, or may coalesce repeat writes internally while the other emits
// every intermediate write; normalizing both sides the same way is what
// makes their results comparable.
func NormalizeStorageLogs(logs []vm.StorageLogWithPreviousValue) NormalizedStorageLogs {
	unique := make(NormalizedStorageLogs, len(logs))
	for _, entry := range logs {
		if !entry.Log.IsWrite {
			continue
		}
		key := entry.Log.Key
		if existing, ok := unique[key]; ok {
			existing.Log.Value = entry.Log.Value
			unique[key] = existing
			continue
		}
		unique[key] = entry
	}
	for key, entry := range unique {
		if entry.PreviousValue == entry.Log.Value {
			delete(unique, key)
		}
	}
	return unique
}

// String renders the normalized log set as a stable, sorted
// "address:slot" -> "previous -> value" listing, used when formatting
// divergence reports for humans.
func (n NormalizedStorageLogs) String() string {
	keys := make([]vm.StorageKey, 0, len(n))
	for key := range n {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})

	var b strings.Builder
	b.WriteString("{")
	for i, key := range keys {
		entry := n[key]
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s -> %s", key, entry.PreviousValue, entry.Log.Value)
	}
	b.WriteString("}")
	return b.String()
}
