// Package output renders reports in machine-readable formats.
//
// Every format goes through the same normalization step so that identical
// reports produce byte-identical output:
//
//  1. Stable key ordering: object keys are sorted alphabetically
//  2. Null handling: nil fields and empty collections are omitted
//  3. Struct fields are keyed by their json tag in every format
//
// JSON uses encoding/json, YAML uses gopkg.in/yaml.v3 and TOML uses
// github.com/pelletier/go-toml/v2. Human output is rendered by the CLI.
//
// # Snapshot Comparison
//
// Reports carry a run ID and timing fields that differ between runs.
// CompareSnapshots strips them before comparing:
//
//	a, _ := output.DeterministicEncode(report1)
//	b, _ := output.DeterministicEncode(report2)
//	if equal, msg := output.CompareSnapshots(a, b); !equal {
//	    t.Errorf("reports differ: %s", msg)
//	}
package output
