package documents_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/solardesk/solardesk/internal/documents"
	"github.com/solardesk/solardesk/pkg/query"
)

func ptr[T any](v T) *T { return &v }

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", documents.ErrNotFound, http.StatusNotFound},
		{"duplicate", documents.ErrDuplicate, http.StatusConflict},
		{"project deleted", documents.ErrProjectDeleted, http.StatusUnprocessableEntity},
		{"file too large", documents.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"invalid file", documents.ErrInvalidFile, http.StatusBadRequest},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("find failed: %w", documents.ErrNotFound), http.StatusNotFound},
		{"wrapped project deleted", fmt.Errorf("insert failed: %w", documents.ErrProjectDeleted), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := documents.MapHTTPStatus(tt.err)
			if got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	projectID := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")

	t.Run("all params present", func(t *testing.T) {
		values := url.Values{
			"project_id":   {projectID.String()},
			"doc_type":     {"permit"},
			"filename":     {"report"},
			"content_type": {"application/pdf"},
			"uploaded_by":  {"user@example.com"},
		}

		f := documents.FiltersFromQuery(values)

		if f.ProjectID == nil || *f.ProjectID != projectID {
			t.Errorf("ProjectID = %v, want %v", f.ProjectID, projectID)
		}
		if f.DocType == nil || *f.DocType != "permit" {
			t.Errorf("DocType = %v, want permit", f.DocType)
		}
		if f.Filename == nil || *f.Filename != "report" {
			t.Errorf("Filename = %v, want report", f.Filename)
		}
		if f.ContentType == nil || *f.ContentType != "application/pdf" {
			t.Errorf("ContentType = %v, want application/pdf", f.ContentType)
		}
		if f.UploadedBy == nil || *f.UploadedBy != "user@example.com" {
			t.Errorf("UploadedBy = %v, want user@example.com", f.UploadedBy)
		}
	})

	t.Run("empty params yield nil fields", func(t *testing.T) {
		f := documents.FiltersFromQuery(url.Values{})

		if f.ProjectID != nil {
			t.Errorf("ProjectID = %v, want nil", f.ProjectID)
		}
		if f.DocType != nil {
			t.Errorf("DocType = %v, want nil", f.DocType)
		}
		if f.Filename != nil {
			t.Errorf("Filename = %v, want nil", f.Filename)
		}
		if f.ContentType != nil {
			t.Errorf("ContentType = %v, want nil", f.ContentType)
		}
		if f.UploadedBy != nil {
			t.Errorf("UploadedBy = %v, want nil", f.UploadedBy)
		}
	})

	t.Run("invalid project_id ignored", func(t *testing.T) {
		values := url.Values{"project_id": {"not-a-uuid"}}
		f := documents.FiltersFromQuery(values)

		if f.ProjectID != nil {
			t.Errorf("ProjectID = %v, want nil for invalid input", f.ProjectID)
		}
	})

	t.Run("partial params", func(t *testing.T) {
		values := url.Values{
			"doc_type": {"contract"},
			"filename": {"signed"},
		}

		f := documents.FiltersFromQuery(values)

		if f.DocType == nil || *f.DocType != "contract" {
			t.Errorf("DocType = %v, want contract", f.DocType)
		}
		if f.Filename == nil || *f.Filename != "signed" {
			t.Errorf("Filename = %v, want signed", f.Filename)
		}
		if f.ProjectID != nil {
			t.Errorf("ProjectID = %v, want nil", f.ProjectID)
		}
	})
}

func TestFiltersApply(t *testing.T) {
	projection := query.
		NewProjectionMap("public", "documents", "d").
		Project("project_id", "ProjectID").
		Project("doc_type", "DocType").
		Project("filename", "Filename").
		Project("content_type", "ContentType").
		Project("uploaded_by", "UploadedBy")

	t.Run("no filters produces no WHERE clause", func(t *testing.T) {
		b := query.NewBuilder(projection)
		f := documents.Filters{}
		f.Apply(b)
		sql, args := b.Build()

		wantSQL := "SELECT d.project_id, d.doc_type, d.filename, d.content_type, d.uploaded_by FROM public.documents d"
		if sql != wantSQL {
			t.Errorf("sql = %q, want %q", sql, wantSQL)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})

	t.Run("project_id equals filter", func(t *testing.T) {
		projectID := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
		b := query.NewBuilder(projection)
		f := documents.Filters{ProjectID: &projectID}
		f.Apply(b)
		_, args := b.Build()

		if len(args) != 1 {
			t.Fatalf("args length = %d, want 1", len(args))
		}
		if v, ok := args[0].(*uuid.UUID); !ok || *v != projectID {
			t.Errorf("args[0] = %v, want *%v", args[0], projectID)
		}
	})

	t.Run("doc_type equals filter", func(t *testing.T) {
		b := query.NewBuilder(projection)
		f := documents.Filters{DocType: ptr("permit")}
		f.Apply(b)
		_, args := b.Build()

		if len(args) != 1 {
			t.Fatalf("args length = %d, want 1", len(args))
		}
		if v, ok := args[0].(*string); !ok || *v != "permit" {
			t.Errorf("args[0] = %v, want *permit", args[0])
		}
	})

	t.Run("filename contains filter", func(t *testing.T) {
		b := query.NewBuilder(projection)
		f := documents.Filters{Filename: ptr("report")}
		f.Apply(b)
		_, args := b.Build()

		if len(args) != 1 || args[0] != "%report%" {
			t.Errorf("args = %v, want [%%report%%]", args)
		}
	})

	t.Run("content_type equals filter", func(t *testing.T) {
		b := query.NewBuilder(projection)
		f := documents.Filters{ContentType: ptr("application/pdf")}
		f.Apply(b)
		_, args := b.Build()

		if len(args) != 1 {
			t.Fatalf("args length = %d, want 1", len(args))
		}
		if v, ok := args[0].(*string); !ok || *v != "application/pdf" {
			t.Errorf("args[0] = %v, want *application/pdf", args[0])
		}
	})

	t.Run("multiple filters combine with AND", func(t *testing.T) {
		b := query.NewBuilder(projection)
		f := documents.Filters{
			DocType:    ptr("permit"),
			Filename:   ptr("report"),
			UploadedBy: ptr("user@example.com"),
		}
		f.Apply(b)
		sql, args := b.Build()

		if len(args) != 3 {
			t.Errorf("args length = %d, want 3", len(args))
		}
		wantWhere := " WHERE d.doc_type = $1 AND d.filename ILIKE $2 AND d.uploaded_by = $3"
		if !strings.Contains(sql, wantWhere) {
			t.Errorf("sql = %q, want it to contain %q", sql, wantWhere)
		}
	})
}
