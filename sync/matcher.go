// ABOUTME: Creator to Airtable record matching
// ABOUTME: Resolves create vs update by exact name and derives local ids from record ids
package sync

import (
	"unicode/utf16"

	"github.com/harperreed/stacked/models"
)

// Action is what a sync does for one creator.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
)

// Resolution is the outcome of matching one creator.
type Resolution struct {
	Action   Action
	RecordID string
}

// RecordMatcher indexes remote records by name. Names match exactly,
// case and whitespace included.
type RecordMatcher struct {
	byName map[string]string
}

// NewRecordMatcher creates a matcher from the current remote records.
// The first record with a given name wins; records without an id are skipped.
func NewRecordMatcher(records []Record) *RecordMatcher {
	m := &RecordMatcher{
		byName: make(map[string]string, len(records)),
	}

	for _, r := range records {
		m.add(r)
	}

	return m
}

func (m *RecordMatcher) add(r Record) {
	if r.ID == "" {
		return
	}
	name := r.Fields.Text(FieldName)
	if _, exists := m.byName[name]; exists {
		return
	}
	m.byName[name] = r.ID
}

// Resolve decides whether the creator updates an existing record or creates one.
func (m *RecordMatcher) Resolve(c models.Creator) Resolution {
	if id, found := m.byName[c.Name]; found {
		return Resolution{Action: ActionUpdate, RecordID: id}
	}
	return Resolution{Action: ActionCreate}
}

// Add registers a record created during the current run so a later creator
// with the same name updates it instead of creating a duplicate.
func (m *RecordMatcher) Add(r Record) {
	m.add(r)
}

// ExternalID derives a stable local id from an Airtable record id using a
// 31-multiplier rolling hash over UTF-16 code units with 32-bit wraparound.
// Different record ids can collide.
func ExternalID(recordID string) int64 {
	var hash int32
	for _, code := range utf16.Encode([]rune(recordID)) {
		hash = (hash << 5) - hash + int32(code)
	}
	id := int64(hash)
	if id < 0 {
		id = -id
	}
	return id
}
