// ABOUTME: In-memory Airtable table served over httptest for sync tests
// ABOUTME: Records every call and can fail probes or writes on demand
package sync

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	gosync "sync"
	"testing"
)

type fakeAirtable struct {
	mu gosync.Mutex

	records  []Record
	calls    []string
	auth     []string
	pageSize int
	nextID   int

	probeStatus int
	// failWrite fails the write with this 1-based index (counting creates and updates).
	failWrite int
	writes    int
}

const (
	fakeBase  = "appTEST"
	fakeTable = "Creators"
)

func newFakeAirtable(t *testing.T, records ...Record) (*fakeAirtable, Config) {
	t.Helper()
	f := &fakeAirtable{records: records, pageSize: listPageSize}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	return f, Config{
		APIKey:    "patTESTKEY",
		BaseID:    fakeBase,
		TableName: fakeTable,
		APIURL:    srv.URL + "/v0",
	}
}

func (f *fakeAirtable) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAirtable) Records() []Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Record(nil), f.records...)
}

func (f *fakeAirtable) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.auth = append(f.auth, r.Header.Get("Authorization"))

	prefix := "/v0/" + fakeBase + "/" + fakeTable
	if !strings.HasPrefix(r.URL.Path, prefix) {
		writeFakeError(w, http.StatusNotFound, "NOT_FOUND", "")
		return
	}
	recordID := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, prefix), "/")

	switch {
	case r.Method == http.MethodGet && r.URL.Query().Get("maxRecords") == "1":
		f.calls = append(f.calls, "probe")
		if f.probeStatus != 0 {
			writeFakeError(w, f.probeStatus, "AUTHENTICATION_REQUIRED", "Authentication required")
			return
		}
		page := listResponse{Records: []Record{}}
		if len(f.records) > 0 {
			page.Records = f.records[:1]
		}
		writeFakeJSON(w, page)

	case r.Method == http.MethodGet:
		f.calls = append(f.calls, "list")
		start, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		end := start + f.pageSize
		page := listResponse{Records: []Record{}}
		if end < len(f.records) {
			page.Offset = strconv.Itoa(end)
		} else {
			end = len(f.records)
		}
		if start < end {
			page.Records = f.records[start:end]
		}
		writeFakeJSON(w, page)

	case r.Method == http.MethodPost && recordID == "":
		f.calls = append(f.calls, "create")
		if f.failThisWrite() {
			writeFakeError(w, http.StatusUnprocessableEntity, "INVALID_VALUE_FOR_COLUMN", "Field \"Cards Sold\" cannot accept the provided value")
			return
		}
		var req writeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeFakeError(w, http.StatusBadRequest, "INVALID_REQUEST_UNKNOWN", err.Error())
			return
		}
		f.nextID++
		rec := Record{ID: fmt.Sprintf("recNEW%03d", f.nextID), Fields: req.Fields}
		f.records = append(f.records, rec)
		writeFakeJSON(w, rec)

	case r.Method == http.MethodPatch && recordID != "":
		f.calls = append(f.calls, "update:"+recordID)
		if f.failThisWrite() {
			writeFakeError(w, http.StatusUnprocessableEntity, "INVALID_VALUE_FOR_COLUMN", "Field \"Cards Sold\" cannot accept the provided value")
			return
		}
		var req writeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeFakeError(w, http.StatusBadRequest, "INVALID_REQUEST_UNKNOWN", err.Error())
			return
		}
		for i := range f.records {
			if f.records[i].ID == recordID {
				for k, v := range req.Fields {
					f.records[i].Fields[k] = v
				}
				writeFakeJSON(w, f.records[i])
				return
			}
		}
		writeFakeError(w, http.StatusNotFound, "NOT_FOUND", "")

	default:
		writeFakeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "")
	}
}

func (f *fakeAirtable) failThisWrite() bool {
	f.writes++
	return f.failWrite != 0 && f.writes == f.failWrite
}

func writeFakeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeFakeError(w http.ResponseWriter, status int, typ, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if message == "" {
		_ = json.NewEncoder(w).Encode(map[string]string{"error": typ})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"type": typ, "message": message},
	})
}

func remoteRecord(id, name string) Record {
	return Record{ID: id, Fields: Fields{FieldName: name}}
}
