package notion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

const sampleExport = `{
	"object": "list",
	"results": [
		{
			"id": "page-1",
			"properties": {
				"Name": {"title": [{"plain_text": "Ship landing page"}]},
				"Status": {"select": {"name": "In Progress", "color": "blue"}},
				"Priority": {"select": {"name": "P0", "color": "red"}},
				"Due": {"date": {"start": "2026-10-18"}},
				"Project": {"relation": [{"id": "2fced264-4bae-8115-a01b-fd544ed8c038"}]},
				"Last Touched": {"last_edited_time": "2026-10-18T09:30:00.000Z"},
				"Source": {"select": {"name": "Slack"}}
			}
		},
		{
			"id": "page-2",
			"properties": {
				"Status": {"select": null},
				"Due": {"date": null}
			}
		},
		{"id": "page-3"}
	]
}`

func TestDecode(t *testing.T) {
	result, err := Decode(strings.NewReader(sampleExport))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if len(result.Results) != 3 {
		t.Fatalf("len(Results) = %d, want 3", len(result.Results))
	}

	full := result.Results[0].Properties
	if full.Name == nil || len(full.Name.Title) != 1 || full.Name.Title[0].PlainText != "Ship landing page" {
		t.Errorf("Name not decoded: %+v", full.Name)
	}
	if full.Priority == nil || full.Priority.Select == nil || full.Priority.Select.Name != "P0" {
		t.Errorf("Priority not decoded: %+v", full.Priority)
	}
	if full.Due == nil || full.Due.Date == nil || full.Due.Date.Start != "2026-10-18" {
		t.Errorf("Due not decoded: %+v", full.Due)
	}
	if full.LastTouched == nil || full.LastTouched.LastEditedTime != "2026-10-18T09:30:00.000Z" {
		t.Errorf("Last Touched not decoded: %+v", full.LastTouched)
	}

	sparse := result.Results[1].Properties
	if sparse.Status == nil || sparse.Status.Select != nil {
		t.Errorf("expected Status present with nil select, got %+v", sparse.Status)
	}
	if sparse.Name != nil || sparse.Project != nil {
		t.Error("expected missing properties to stay nil")
	}

	if result.Results[2].ID != "page-3" {
		t.Errorf("ID = %q, want page-3", result.Results[2].ID)
	}
}

func TestDecodeInvalidJSON(t *testing.T) {
	if _, err := Decode(strings.NewReader("{not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestWriteAndLoadFile(t *testing.T) {
	result, err := Decode(strings.NewReader(sampleExport))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := WriteFile(path, result); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(loaded.Results) != len(result.Results) {
		t.Errorf("loaded %d pages, want %d", len(loaded.Results), len(result.Results))
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMerge(t *testing.T) {
	a := &QueryResult{Results: []Page{{ID: "a1"}, {ID: "a2"}}}
	b := &QueryResult{Results: []Page{{ID: "b1"}}}

	merged := Merge(a, nil, b)
	if len(merged.Results) != 3 {
		t.Fatalf("len(Results) = %d, want 3", len(merged.Results))
	}
	if merged.Results[2].ID != "b1" {
		t.Errorf("order not preserved: %+v", merged.Results)
	}

	empty := Merge()
	if empty.Results == nil || len(empty.Results) != 0 {
		t.Errorf("Merge() = %+v, want empty non-nil results", empty.Results)
	}
}

func TestNewClientRequiresToken(t *testing.T) {
	t.Setenv("NOTION_TOKEN", "")
	_, err := NewClient(Config{})
	if !errors.Is(err, ErrMissingConfig) {
		t.Errorf("NewClient() error = %v, want ErrMissingConfig", err)
	}
}

func TestQueryDatabasePagination(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++

		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/v1/databases/db-123/query" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Notion-Version"); got != DefaultVersion {
			t.Errorf("Notion-Version = %q", got)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("bad request body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		if _, ok := body["start_cursor"]; !ok {
			w.Write([]byte(`{"object":"list","results":[{"id":"p1"},{"id":"p2"}],"has_more":true,"next_cursor":"cur-2"}`))
			return
		}
		if body["start_cursor"] != "cur-2" {
			t.Errorf("start_cursor = %v, want cur-2", body["start_cursor"])
		}
		w.Write([]byte(`{"object":"list","results":[{"id":"p3"}],"has_more":false,"next_cursor":null}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{Token: "secret", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	result, err := client.QueryDatabase(context.Background(), "db-123")
	if err != nil {
		t.Fatalf("QueryDatabase failed: %v", err)
	}

	if calls != 2 {
		t.Errorf("server called %d times, want 2", calls)
	}
	if len(result.Results) != 3 {
		t.Fatalf("len(Results) = %d, want 3", len(result.Results))
	}
	if result.Results[0].ID != "p1" || result.Results[2].ID != "p3" {
		t.Errorf("unexpected order: %+v", result.Results)
	}
}

func TestQueryDatabaseErrors(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		wantSentinel error
		wantContains string
	}{
		{
			name:         "unauthorized",
			status:       http.StatusUnauthorized,
			body:         `{"object":"error","code":"unauthorized","message":"API token is invalid."}`,
			wantSentinel: ErrUnauthorized,
		},
		{
			name:         "not found",
			status:       http.StatusNotFound,
			body:         `{"object":"error","code":"object_not_found","message":"Could not find database"}`,
			wantContains: "object_not_found",
		},
		{
			name:         "plain text error",
			status:       http.StatusBadGateway,
			body:         `upstream down`,
			wantContains: "upstream down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := NewClient(Config{Token: "secret", BaseURL: server.URL})
			if err != nil {
				t.Fatalf("NewClient failed: %v", err)
			}

			_, err = client.QueryDatabase(context.Background(), "db")
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantSentinel != nil && !errors.Is(err, tt.wantSentinel) {
				t.Errorf("error = %v, want %v", err, tt.wantSentinel)
			}
			if tt.wantContains != "" && !strings.Contains(err.Error(), tt.wantContains) {
				t.Errorf("error %q does not contain %q", err, tt.wantContains)
			}
		})
	}
}

func TestQueryDatabaseEmptyID(t *testing.T) {
	client, err := NewClient(Config{Token: "secret"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if _, err := client.QueryDatabase(context.Background(), ""); !errors.Is(err, ErrMissingConfig) {
		t.Errorf("error = %v, want ErrMissingConfig", err)
	}
}
