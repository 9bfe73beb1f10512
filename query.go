package budget

import (
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
)

// Query evaluates a JSONPath expression against the ledger snapshot, such as
// `$.accounts..balance` or `$.envelopes["Food"]`.
//
// The result is made of plain JSON values: maps, slices, float64, strings
// and booleans.
func (l *Ledger) Query(path string) (any, error) {
	data, err := l.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return nil, fmt.Errorf("cannot read snapshot: %w", err)
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", path, err)
	}
	return jval, nil
}
