// Package compare diffs two spent-UTXO record sets keyed by outpoint.
package compare

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goodnatureofminers/spentutxo7000-backend/internal/spentutxo/model"
)

// FieldDiff reports a single field disagreement for one outpoint.
type FieldDiff struct {
	Outpoint  model.Outpoint
	Field     string
	Actual    string
	Reference string
}

// Result is a diagnostic report. It is not an error by itself; callers
// decide whether a non-empty result is fatal.
type Result struct {
	Diffs []FieldDiff
	// MissingInActual lists outpoints only present in the reference set.
	MissingInActual []model.Outpoint
	// MissingInReference lists outpoints only present in the actual set.
	MissingInReference []model.Outpoint
}

// Empty reports whether the two sets agreed on every outpoint and field.
func (r Result) Empty() bool {
	return len(r.Diffs) == 0 && len(r.MissingInActual) == 0 && len(r.MissingInReference) == 0
}

// String renders the report one finding per line.
func (r Result) String() string {
	if r.Empty() {
		return "record sets are equal"
	}

	var sb strings.Builder
	for _, d := range r.Diffs {
		fmt.Fprintf(&sb, "%s: %s differs: actual=%s reference=%s\n", d.Outpoint, d.Field, d.Actual, d.Reference)
	}
	for _, o := range r.MissingInActual {
		fmt.Fprintf(&sb, "%s: missing in actual set\n", o)
	}
	for _, o := range r.MissingInReference {
		fmt.Fprintf(&sb, "%s: missing in reference set\n", o)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// Records compares two record sequences as sets keyed by outpoint and
// reports which fields differ per outpoint. Findings are ordered by
// outpoint for deterministic output.
func Records(actual, reference []model.SpentUtxoRecord) Result {
	actualByOutpoint := indexByOutpoint(actual)
	referenceByOutpoint := indexByOutpoint(reference)

	var result Result
	for outpoint, a := range actualByOutpoint {
		ref, ok := referenceByOutpoint[outpoint]
		if !ok {
			result.MissingInReference = append(result.MissingInReference, outpoint)
			continue
		}
		result.Diffs = append(result.Diffs, diffRecords(outpoint, a, ref)...)
	}
	for outpoint := range referenceByOutpoint {
		if _, ok := actualByOutpoint[outpoint]; !ok {
			result.MissingInActual = append(result.MissingInActual, outpoint)
		}
	}

	sortDiffs(result.Diffs)
	sortOutpoints(result.MissingInActual)
	sortOutpoints(result.MissingInReference)
	return result
}

func diffRecords(outpoint model.Outpoint, actual, reference model.SpentUtxoRecord) []FieldDiff {
	var diffs []FieldDiff
	add := func(field, a, ref string) {
		diffs = append(diffs, FieldDiff{Outpoint: outpoint, Field: field, Actual: a, Reference: ref})
	}

	if actual.TxOut.Value != reference.TxOut.Value {
		add("value", fmt.Sprintf("%d", actual.TxOut.Value), fmt.Sprintf("%d", reference.TxOut.Value))
	}
	if actual.TxOut.ScriptPubKey != reference.TxOut.ScriptPubKey {
		add("script_pubkey", actual.TxOut.ScriptPubKey, reference.TxOut.ScriptPubKey)
	}
	if actual.IsCoinbase != reference.IsCoinbase {
		add("is_coinbase", fmt.Sprintf("%t", actual.IsCoinbase), fmt.Sprintf("%t", reference.IsCoinbase))
	}
	if actual.CreationHeight != reference.CreationHeight {
		add("creation_height", fmt.Sprintf("%d", actual.CreationHeight), fmt.Sprintf("%d", reference.CreationHeight))
	}
	if actual.CreationTime != reference.CreationTime {
		add("creation_time", fmt.Sprintf("%d", actual.CreationTime), fmt.Sprintf("%d", reference.CreationTime))
	}
	return diffs
}

func indexByOutpoint(records []model.SpentUtxoRecord) map[model.Outpoint]model.SpentUtxoRecord {
	indexed := make(map[model.Outpoint]model.SpentUtxoRecord, len(records))
	for _, r := range records {
		indexed[r.Outpoint] = r
	}
	return indexed
}

func outpointLess(a, b model.Outpoint) bool {
	if a.TxID != b.TxID {
		return a.TxID < b.TxID
	}
	return a.Vout < b.Vout
}

func sortDiffs(diffs []FieldDiff) {
	sort.Slice(diffs, func(i, j int) bool {
		if diffs[i].Outpoint != diffs[j].Outpoint {
			return outpointLess(diffs[i].Outpoint, diffs[j].Outpoint)
		}
		return diffs[i].Field < diffs[j].Field
	})
}

func sortOutpoints(outpoints []model.Outpoint) {
	sort.Slice(outpoints, func(i, j int) bool {
		return outpointLess(outpoints[i], outpoints[j])
	})
}
