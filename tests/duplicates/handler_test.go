package duplicates_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/solardesk/solardesk/internal/duplicates"
	"github.com/solardesk/solardesk/pkg/pagination"
)

type mockSystem struct {
	scanFn       func(ctx context.Context) (*duplicates.ScanResult, error)
	dismissFn    func(ctx context.Context, cmd duplicates.DismissCommand) error
	deleteFn     func(ctx context.Context, cmd duplicates.DeleteCommand) error
	mergeFn      func(ctx context.Context, cmd duplicates.MergeCommand) (*duplicates.MergeResult, error)
	dismissalsFn func(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[duplicates.Dismissal], error)
}

func (m *mockSystem) Handler() *duplicates.Handler {
	return newTestHandler(m)
}

func (m *mockSystem) Scan(ctx context.Context) (*duplicates.ScanResult, error) {
	return m.scanFn(ctx)
}

func (m *mockSystem) Dismiss(ctx context.Context, cmd duplicates.DismissCommand) error {
	return m.dismissFn(ctx, cmd)
}

func (m *mockSystem) ConfirmDelete(ctx context.Context, cmd duplicates.DeleteCommand) error {
	return m.deleteFn(ctx, cmd)
}

func (m *mockSystem) Merge(ctx context.Context, cmd duplicates.MergeCommand) (*duplicates.MergeResult, error) {
	return m.mergeFn(ctx, cmd)
}

func (m *mockSystem) Dismissals(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[duplicates.Dismissal], error) {
	return m.dismissalsFn(ctx, page)
}

func newTestHandler(sys *mockSystem) *duplicates.Handler {
	return duplicates.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
}

func setupMux(h *duplicates.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func TestHandlerScan(t *testing.T) {
	pairA := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	pairB := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	t.Run("returns scan result", func(t *testing.T) {
		sys := &mockSystem{
			scanFn: func(_ context.Context) (*duplicates.ScanResult, error) {
				return &duplicates.ScanResult{
					Groups: []duplicates.Group{{
						PairKey:    duplicates.PairKey(pairA, pairB),
						Confidence: duplicates.ConfidenceHigh,
					}},
					ProjectCount: 2,
					GeneratedAt:  time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
				}, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/duplicates/scan", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var result duplicates.ScanResult
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.ProjectCount != 2 {
			t.Errorf("project_count = %d, want 2", result.ProjectCount)
		}
		if len(result.Groups) != 1 {
			t.Fatalf("group count = %d, want 1", len(result.Groups))
		}
		if result.Groups[0].PairKey != duplicates.PairKey(pairA, pairB) {
			t.Errorf("pair_key = %q, want canonical key", result.Groups[0].PairKey)
		}
		if result.Groups[0].Confidence != duplicates.ConfidenceHigh {
			t.Errorf("confidence = %s, want high", result.Groups[0].Confidence)
		}
	})

	t.Run("empty scan returns empty group array", func(t *testing.T) {
		sys := &mockSystem{
			scanFn: func(_ context.Context) (*duplicates.ScanResult, error) {
				return &duplicates.ScanResult{Groups: []duplicates.Group{}}, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/duplicates/scan", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !bytes.Contains(rec.Body.Bytes(), []byte(`"groups":[]`)) {
			t.Errorf("body = %s, want groups serialized as []", rec.Body.String())
		}
	})

	t.Run("system error returns 500", func(t *testing.T) {
		sys := &mockSystem{
			scanFn: func(_ context.Context) (*duplicates.ScanResult, error) {
				return nil, io.ErrUnexpectedEOF
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/duplicates/scan", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
	})
}

func TestHandlerDismiss(t *testing.T) {
	pairA := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	pairB := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	t.Run("dismisses pair", func(t *testing.T) {
		var captured duplicates.DismissCommand
		sys := &mockSystem{
			dismissFn: func(_ context.Context, cmd duplicates.DismissCommand) error {
				captured = cmd
				return nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(duplicates.DismissCommand{
			ProjectA: pairA,
			ProjectB: pairB,
			Reason:   "different rooftops",
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/duplicates/dismiss", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
		if captured.ProjectA != pairA || captured.ProjectB != pairB {
			t.Errorf("captured pair = %v/%v, want %v/%v", captured.ProjectA, captured.ProjectB, pairA, pairB)
		}
		if captured.Reason != "different rooftops" {
			t.Errorf("reason = %q, want different rooftops", captured.Reason)
		}
	})

	t.Run("repeated dismissal still succeeds", func(t *testing.T) {
		sys := &mockSystem{
			dismissFn: func(_ context.Context, _ duplicates.DismissCommand) error {
				return nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(duplicates.DismissCommand{ProjectA: pairA, ProjectB: pairB})

		for i := range 2 {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/duplicates/dismiss", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			mux.ServeHTTP(rec, req)

			if rec.Code != http.StatusNoContent {
				t.Errorf("attempt %d: status = %d, want 204", i+1, rec.Code)
			}
		}
	})

	t.Run("missing role returns 403", func(t *testing.T) {
		sys := &mockSystem{
			dismissFn: func(_ context.Context, _ duplicates.DismissCommand) error {
				return duplicates.ErrForbidden
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(duplicates.DismissCommand{ProjectA: pairA, ProjectB: pairB})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/duplicates/dismiss", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("invalid pair returns 400", func(t *testing.T) {
		sys := &mockSystem{
			dismissFn: func(_ context.Context, _ duplicates.DismissCommand) error {
				return duplicates.ErrInvalidPair
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(duplicates.DismissCommand{ProjectA: pairA, ProjectB: pairA})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/duplicates/dismiss", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("invalid json returns 400", func(t *testing.T) {
		sys := &mockSystem{}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/duplicates/dismiss", bytes.NewReader([]byte("not json")))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerConfirmDelete(t *testing.T) {
	keepID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	deleteID := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	t.Run("resolves pair", func(t *testing.T) {
		var captured duplicates.DeleteCommand
		sys := &mockSystem{
			deleteFn: func(_ context.Context, cmd duplicates.DeleteCommand) error {
				captured = cmd
				return nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(duplicates.DeleteCommand{KeepID: keepID, DeleteID: deleteID})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/duplicates/resolve", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
		if captured.KeepID != keepID || captured.DeleteID != deleteID {
			t.Errorf("captured = %v/%v, want %v/%v", captured.KeepID, captured.DeleteID, keepID, deleteID)
		}
	})

	t.Run("concurrently resolved pair returns 404", func(t *testing.T) {
		sys := &mockSystem{
			deleteFn: func(_ context.Context, _ duplicates.DeleteCommand) error {
				return duplicates.ErrNotFound
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(duplicates.DeleteCommand{KeepID: keepID, DeleteID: deleteID})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/duplicates/resolve", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("missing admin role returns 403", func(t *testing.T) {
		sys := &mockSystem{
			deleteFn: func(_ context.Context, _ duplicates.DeleteCommand) error {
				return duplicates.ErrForbidden
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(duplicates.DeleteCommand{KeepID: keepID, DeleteID: deleteID})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/duplicates/resolve", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})
}

func TestHandlerMerge(t *testing.T) {
	keepID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	mergeID := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	t.Run("merges with selective reassignment", func(t *testing.T) {
		var captured duplicates.MergeCommand
		sys := &mockSystem{
			mergeFn: func(_ context.Context, cmd duplicates.MergeCommand) (*duplicates.MergeResult, error) {
				captured = cmd
				return &duplicates.MergeResult{DocumentsMoved: 3, StatusEntriesMoved: 0}, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(duplicates.MergeCommand{
			KeepID:             keepID,
			MergeID:            mergeID,
			MergeDocuments:     true,
			MergeStatusHistory: false,
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/duplicates/merge", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		if !captured.MergeDocuments {
			t.Error("merge_documents = false, want true")
		}
		if captured.MergeStatusHistory {
			t.Error("merge_status_history = true, want false")
		}

		var result duplicates.MergeResult
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.DocumentsMoved != 3 {
			t.Errorf("documents_moved = %d, want 3", result.DocumentsMoved)
		}
		if result.StatusEntriesMoved != 0 {
			t.Errorf("status_entries_moved = %d, want 0", result.StatusEntriesMoved)
		}
	})

	t.Run("concurrently resolved pair returns 404", func(t *testing.T) {
		sys := &mockSystem{
			mergeFn: func(_ context.Context, _ duplicates.MergeCommand) (*duplicates.MergeResult, error) {
				return nil, duplicates.ErrNotFound
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(duplicates.MergeCommand{KeepID: keepID, MergeID: mergeID})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/duplicates/merge", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("identical ids return 400", func(t *testing.T) {
		sys := &mockSystem{
			mergeFn: func(_ context.Context, _ duplicates.MergeCommand) (*duplicates.MergeResult, error) {
				return nil, duplicates.ErrInvalidPair
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(duplicates.MergeCommand{KeepID: keepID, MergeID: keepID})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/duplicates/merge", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing admin role returns 403", func(t *testing.T) {
		sys := &mockSystem{
			mergeFn: func(_ context.Context, _ duplicates.MergeCommand) (*duplicates.MergeResult, error) {
				return nil, duplicates.ErrForbidden
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(duplicates.MergeCommand{KeepID: keepID, MergeID: mergeID})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/duplicates/merge", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})
}

func TestHandlerDismissals(t *testing.T) {
	sys := &mockSystem{
		dismissalsFn: func(_ context.Context, page pagination.PageRequest) (*pagination.PageResult[duplicates.Dismissal], error) {
			result := pagination.NewPageResult([]duplicates.Dismissal{{
				PairKey:     "a:b",
				Reason:      "different rooftops",
				DismissedBy: "user@example.com",
			}}, 1, page.Page, page.PageSize)
			return &result, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/duplicates/dismissals", nil)
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result pagination.PageResult[duplicates.Dismissal]
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Total != 1 {
		t.Errorf("total = %d, want 1", result.Total)
	}
	if len(result.Data) != 1 || result.Data[0].PairKey != "a:b" {
		t.Errorf("data = %v, want one dismissal with pair key a:b", result.Data)
	}
}

func TestHandlerRoutes(t *testing.T) {
	sys := &mockSystem{}
	group := newTestHandler(sys).Routes()

	if group.Prefix != "/duplicates" {
		t.Errorf("prefix = %q, want /duplicates", group.Prefix)
	}

	want := []struct {
		method  string
		pattern string
	}{
		{"GET", "/dismissals"},
		{"POST", "/scan"},
		{"POST", "/dismiss"},
		{"POST", "/resolve"},
		{"POST", "/merge"},
	}

	if len(group.Routes) != len(want) {
		t.Fatalf("route count = %d, want %d", len(group.Routes), len(want))
	}

	for i, w := range want {
		r := group.Routes[i]
		if r.Method != w.method || r.Pattern != w.pattern {
			t.Errorf("route[%d] = %s %s, want %s %s", i, r.Method, r.Pattern, w.method, w.pattern)
		}
	}
}
