// =============================================================================
// EDITHOR - Identifier Correction Table
// =============================================================================
//
// This module holds the manual corrections for product identifiers (EAN) that
// are misread or mis-encoded in the source PDFs. The table maps the raw
// identifier printed in the document to the identifier that must be written
// to the spreadsheet.
//
// STORAGE:
//   The table is persisted as a flat JSON object ({"raw": "corrected", ...})
//   so existing corrections_ean.json files keep working. The whole table is
//   rewritten on every persist.
//
// FAILURE MODEL:
//   - A missing or unparseable store is treated as an empty table, and an
//     empty store is written back so subsequent loads succeed.
//   - Add/Update reject invalid input with a *validation.ValidationError and
//     leave the table unchanged.
//
// =============================================================================

package corrections

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ginjaninja78/edithor/internal/validation"
)

// ErrNotFound is returned when a correction to delete does not exist.
var ErrNotFound = errors.New("correction not found")

// =============================================================================
// TABLE STRUCTURE
// =============================================================================

// Table is the identifier correction mapping.
// Lookups are safe for concurrent use; mutations are serialised.
type Table struct {
	path string

	mu      sync.RWMutex
	entries map[string]string
}

// Entry is one raw -> corrected pair.
type Entry struct {
	Old string
	New string
}

// New returns an empty table persisted at path.
// An empty path gives an in-memory table whose Persist is a no-op.
func New(path string) *Table {
	return &Table{path: path, entries: make(map[string]string)}
}

// NewFromMap returns an in-memory table holding a copy of m.
func NewFromMap(m map[string]string) *Table {
	t := New("")
	for k, v := range m {
		t.entries[k] = v
	}
	return t
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the table stored at path.
//
// A missing or corrupt store yields an empty table and the store is rewritten
// empty. The returned table is always usable; a non-nil error only reports
// that the rewrite itself failed.
func Load(path string) (*Table, error) {
	t := New(path)

	data, err := os.ReadFile(path)
	if err == nil {
		var stored map[string]string
		if jsonErr := json.Unmarshal(data, &stored); jsonErr == nil {
			for k, v := range stored {
				t.entries[k] = v
			}
			return t, nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return t, fmt.Errorf("failed to read corrections file: %w", err)
	}

	if err := t.Persist(); err != nil {
		return t, fmt.Errorf("failed to reset corrections file: %w", err)
	}
	return t, nil
}

// Path returns the store location.
func (t *Table) Path() string {
	return t.path
}

// =============================================================================
// LOOKUP
// =============================================================================

// Lookup returns the corrected identifier for raw, or raw itself when the
// table holds no correction for it.
func (t *Table) Lookup(raw string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if corrected, ok := t.entries[raw]; ok {
		return corrected
	}
	return raw
}

// Len returns the number of corrections.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Entries returns every correction sorted by raw identifier.
func (t *Table) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Entry, 0, len(t.entries))
	for k, v := range t.entries {
		out = append(out, Entry{Old: k, New: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Old < out[j].Old })
	return out
}

// =============================================================================
// MUTATION
// =============================================================================

// Add sets oldID -> newID. Both values must be non-empty and digits only.
func (t *Table) Add(oldID, newID string) error {
	oldID, newID = strings.TrimSpace(oldID), strings.TrimSpace(newID)
	if err := validation.ValidateCorrection(oldID, newID, true); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[oldID] = newID
	return nil
}

// Update replaces the correction keyed by original with oldID -> newID.
// original may equal oldID to change only the corrected value. When original
// is not in the table the new pair is still set. Both values must be
// non-empty; the digit rule is not enforced here.
func (t *Table) Update(original, oldID, newID string) error {
	original = strings.TrimSpace(original)
	oldID, newID = strings.TrimSpace(oldID), strings.TrimSpace(newID)
	if err := validation.ValidateCorrection(oldID, newID, false); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, original)
	t.entries[oldID] = newID
	return nil
}

// Delete removes the correction for oldID.
func (t *Table) Delete(oldID string) error {
	oldID = strings.TrimSpace(oldID)

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.entries[oldID]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, oldID)
	}
	delete(t.entries, oldID)
	return nil
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// Persist writes the whole table to its store, replacing the previous content.
// The file is written to a temporary sibling first and renamed into place so
// an interrupted write never leaves a truncated store.
func (t *Table) Persist() error {
	if t.path == "" {
		return nil
	}

	t.mu.RLock()
	data, err := json.MarshalIndent(t.entries, "", "    ")
	t.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode corrections: %w", err)
	}

	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".corrections-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write corrections: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write corrections: %w", err)
	}
	if err := os.Rename(tmpName, t.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace corrections file: %w", err)
	}
	return nil
}
