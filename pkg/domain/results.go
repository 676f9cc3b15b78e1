package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

// RTSuffix is appended to a question name to form its reaction-time key.
const RTSuffix = "_rt"

// Results is the flat artifact produced by a run: question name → answer,
// plus "<question>_rt" reaction-time companions in seconds.
type Results map[string]any

// NewResults creates an empty results artifact.
func NewResults() Results {
	return make(Results)
}

// Set records an answer, overwriting any previous value for the same question.
func (r Results) Set(question string, value any) {
	r[question] = value
}

// SetRT records the reaction time for a question, in seconds since page onset.
func (r Results) SetRT(question string, seconds float64) {
	r[question+RTSuffix] = seconds
}

// Merge copies every entry of other into r. Later merges win on key collision.
func (r Results) Merge(other Results) {
	for k, v := range other {
		r[k] = v
	}
}

// SortedKeys returns the result keys in ascending alphabetical order.
func (r Results) SortedKeys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EncodeSorted writes the results as a JSON object whose keys appear in
// ascending alphabetical order. This is the canonical upload/download form.
func (r Results) EncodeSorted(w io.Writer) error {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.SortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return fmt.Errorf("failed to encode result key %q: %w", k, err)
		}
		val, err := json.Marshal(r[k])
		if err != nil {
			return fmt.Errorf("failed to encode result value for %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteDownload emits the results to a local file. It is the fallback path
// when no upload endpoint or result store is reachable, so responses gathered
// so far are never lost.
func (r Results) WriteDownload(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create results file: %w", err)
	}
	defer f.Close()

	if err := r.EncodeSorted(f); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return nil
}
