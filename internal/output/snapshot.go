package output

import (
	"bytes"
	"encoding/json"
	"strings"
)

// SnapshotExcludeFields lists report fields that differ between otherwise
// identical runs.
var SnapshotExcludeFields = []string{
	"runId",
	"startedAt",
	"durationMs",
}

// NormalizeForSnapshot removes time-varying fields for comparison
func NormalizeForSnapshot(data []byte) ([]byte, error) {
	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}

	for _, field := range SnapshotExcludeFields {
		removeNestedField(parsed, field)
	}

	return DeterministicEncode(parsed)
}

// CompareSnapshots returns true if two encoded reports are identical
// (ignoring time-varying fields)
func CompareSnapshots(a, b []byte) (bool, string) {
	normalizedA, err := NormalizeForSnapshot(a)
	if err != nil {
		return false, "failed to normalize snapshot A: " + err.Error()
	}

	normalizedB, err := NormalizeForSnapshot(b)
	if err != nil {
		return false, "failed to normalize snapshot B: " + err.Error()
	}

	if !bytes.Equal(normalizedA, normalizedB) {
		return false, "snapshots differ:\n" + string(normalizedA) + "\n" + string(normalizedB)
	}

	return true, ""
}

// SnapshotEqual compares two values for equality, ignoring time-varying fields
func SnapshotEqual(a, b interface{}) bool {
	aJSON, err := DeterministicEncode(a)
	if err != nil {
		return false
	}
	bJSON, err := DeterministicEncode(b)
	if err != nil {
		return false
	}

	equal, _ := CompareSnapshots(aJSON, bJSON)
	return equal
}

// removeNestedField removes a field addressed with dot notation,
// e.g. "stats.durationMs".
func removeNestedField(data map[string]interface{}, path string) {
	if path == "" {
		return
	}
	parts := strings.Split(path, ".")

	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]interface{})
		if !ok {
			return
		}
		current = next
	}

	delete(current, parts[len(parts)-1])
}
