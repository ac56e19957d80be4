package api

import (
	"github.com/solardesk/solardesk/internal/config"
	"github.com/solardesk/solardesk/pkg/openapi"
)

// buildSpec assembles the OpenAPI document for the API surface. Schemas
// cover the request and response shapes a client needs to drive the
// service; list endpoints share the PageRequest component.
func buildSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	addSchemas(spec)
	addInvestorPaths(spec)
	addProjectPaths(spec)
	addDocumentPaths(spec)
	addSettingsPaths(spec)
	addDuplicatePaths(spec)
	addAuditPaths(spec)

	return spec
}

func addSchemas(spec *openapi.Spec) {
	spec.Components.Schemas["Investor"] = &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":           {Type: "string", Format: "uuid"},
			"code":         {Type: "string"},
			"name":         {Type: "string"},
			"contact_name": {Type: "string"},
			"phone":        {Type: "string"},
			"email":        {Type: "string"},
		},
		Required: []string{"code", "name"},
	}

	spec.Components.Schemas["Project"] = &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":            {Type: "string", Format: "uuid"},
			"site_code":     {Type: "string"},
			"project_code":  {Type: "string"},
			"investor_id":   {Type: "string", Format: "uuid"},
			"intake_year":   {Type: "integer"},
			"fiscal_year":   {Type: "integer"},
			"sequence":      {Type: "integer"},
			"name":          {Type: "string"},
			"address":       {Type: "string"},
			"city":          {Type: "string"},
			"district":      {Type: "string"},
			"capacity_kwp":  {Type: "number"},
			"status":        {Type: "string"},
			"deleted_at":    {Type: "string", Format: "date-time"},
			"delete_reason": {Type: "string"},
		},
		Required: []string{"name"},
	}

	spec.Components.Schemas["Document"] = &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":           {Type: "string", Format: "uuid"},
			"project_id":   {Type: "string", Format: "uuid"},
			"doc_type":     {Type: "string"},
			"filename":     {Type: "string"},
			"content_type": {Type: "string"},
			"size_bytes":   {Type: "integer"},
			"page_count":   {Type: "integer"},
			"storage_key":  {Type: "string"},
		},
	}

	spec.Components.Schemas["ScannerSettings"] = &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"min_address_similarity":    {Type: "number", Minimum: f(0), Maximum: f(100)},
			"min_name_similarity":       {Type: "number", Minimum: f(0), Maximum: f(100)},
			"max_capacity_difference":   {Type: "number", Minimum: f(0), Maximum: f(100)},
			"min_address_token_overlap": {Type: "number", Minimum: f(0), Maximum: f(100)},
			"medium_address_threshold":  {Type: "number", Minimum: f(0), Maximum: f(100)},
			"medium_name_threshold":     {Type: "number", Minimum: f(0), Maximum: f(100)},
		},
	}

	spec.Components.Schemas["ScanResult"] = &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"groups":        {Type: "array", Items: openapi.SchemaRef("DuplicateGroup")},
			"project_count": {Type: "integer"},
			"settings":      openapi.SchemaRef("ScannerSettings"),
			"generated_at":  {Type: "string", Format: "date-time"},
		},
	}

	spec.Components.Schemas["DuplicateGroup"] = &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"pair_key": {Type: "string"},
			"projects": {Type: "array", Items: openapi.SchemaRef("Project")},
			"confidence": {
				Type: "string",
				Enum: []any{"high", "medium", "low"},
			},
			"matched_criteria":   {Type: "array", Items: openapi.SchemaRef("MatchCriterion")},
			"unmatched_criteria": {Type: "array", Items: openapi.SchemaRef("MatchCriterion")},
		},
	}

	spec.Components.Schemas["MatchCriterion"] = &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"name":    {Type: "string"},
			"matched": {Type: "boolean"},
			"value":   {Type: "string"},
		},
	}

	spec.Components.Schemas["DismissCommand"] = &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"project_a": {Type: "string", Format: "uuid"},
			"project_b": {Type: "string", Format: "uuid"},
			"reason":    {Type: "string"},
		},
		Required: []string{"project_a", "project_b"},
	}

	spec.Components.Schemas["DeleteCommand"] = &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"keep_id":   {Type: "string", Format: "uuid"},
			"delete_id": {Type: "string", Format: "uuid"},
			"reason":    {Type: "string"},
		},
		Required: []string{"keep_id", "delete_id"},
	}

	spec.Components.Schemas["MergeCommand"] = &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"keep_id":              {Type: "string", Format: "uuid"},
			"merge_id":             {Type: "string", Format: "uuid"},
			"merge_documents":      {Type: "boolean"},
			"merge_status_history": {Type: "boolean"},
			"reason":               {Type: "string"},
		},
		Required: []string{"keep_id", "merge_id"},
	}

	spec.Components.Schemas["MergeResult"] = &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"documents_moved":      {Type: "integer"},
			"status_entries_moved": {Type: "integer"},
		},
	}
}

func addInvestorPaths(spec *openapi.Spec) {
	spec.Paths["/investors"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List investors",
			Tags:    []string{"investors"},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paginated investors", "Investor"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Create investor",
			Tags:        []string{"investors"},
			RequestBody: openapi.RequestBodyJSON("Investor", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Created investor", "Investor"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}

	spec.Paths["/investors/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find investor",
			Tags:       []string{"investors"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Investor id")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Investor", "Investor"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Put: &openapi.Operation{
			Summary:     "Update investor",
			Tags:        []string{"investors"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Investor id")},
			RequestBody: openapi.RequestBodyJSON("Investor", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Updated investor", "Investor"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete investor",
			Tags:       []string{"investors"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Investor id")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}
}

func addProjectPaths(spec *openapi.Spec) {
	spec.Paths["/projects"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List projects",
			Tags:    []string{"projects"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("include_deleted", "boolean", "Include soft-deleted records", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paginated projects", "Project"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Create project",
			Tags:        []string{"projects"},
			RequestBody: openapi.RequestBodyJSON("Project", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Created project", "Project"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}

	spec.Paths["/projects/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find project",
			Tags:       []string{"projects"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Project id")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Project", "Project"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Put: &openapi.Operation{
			Summary:     "Update project",
			Tags:        []string{"projects"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Project id")},
			RequestBody: openapi.RequestBodyJSON("Project", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Updated project", "Project"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/projects/{id}/delete"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:    "Soft-delete project",
			Tags:       []string{"projects"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Project id")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/projects/{id}/restore"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:    "Restore soft-deleted project",
			Tags:       []string{"projects"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Project id")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Restored"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/projects/{id}/status"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:    "Set project status",
			Tags:       []string{"projects"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Project id")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Updated project", "Project"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/projects/{id}/history"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Project status history",
			Tags:       []string{"projects"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Project id")},
			Responses: map[int]*openapi.Response{
				200: {Description: "Status history entries"},
			},
		},
	}
}

func addDocumentPaths(spec *openapi.Spec) {
	spec.Paths["/documents"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List documents",
			Tags:    []string{"documents"},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paginated documents", "Document"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Upload document",
			Description: "Multipart form upload with project_id, doc_type, and file fields.",
			Tags:        []string{"documents"},
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Created document", "Document"),
				413: {Description: "File exceeds upload limit"},
			},
		},
	}

	spec.Paths["/documents/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find document",
			Tags:       []string{"documents"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Document id")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Document", "Document"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete document",
			Tags:       []string{"documents"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Document id")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/documents/{id}/download"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Download document blob",
			Tags:       []string{"documents"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Document id")},
			Responses: map[int]*openapi.Response{
				200: {Description: "File stream"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}

func addSettingsPaths(spec *openapi.Spec) {
	spec.Paths["/settings/scanner"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Effective scanner thresholds",
			Tags:    []string{"settings"},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Scanner settings", "ScannerSettings"),
			},
		},
		Put: &openapi.Operation{
			Summary:     "Store scanner thresholds",
			Tags:        []string{"settings"},
			RequestBody: openapi.RequestBodyJSON("ScannerSettings", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Stored settings", "ScannerSettings"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
		Delete: &openapi.Operation{
			Summary: "Reset scanner thresholds to defaults",
			Tags:    []string{"settings"},
			Responses: map[int]*openapi.Response{
				204: {Description: "Reset"},
			},
		},
	}
}

func addDuplicatePaths(spec *openapi.Spec) {
	spec.Paths["/duplicates/scan"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Scan for duplicate projects",
			Description: "Compares every active project pairwise and returns candidate groups by confidence tier.",
			Tags:        []string{"duplicates"},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Scan result", "ScanResult"),
			},
		},
	}

	spec.Paths["/duplicates/dismiss"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Dismiss a pair as non-duplicate",
			Tags:        []string{"duplicates"},
			RequestBody: openapi.RequestBodyJSON("DismissCommand", true),
			Responses: map[int]*openapi.Response{
				204: {Description: "Dismissed"},
				403: {Description: "Editor role required"},
			},
		},
	}

	spec.Paths["/duplicates/resolve"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Resolve a pair by deleting one record",
			Tags:        []string{"duplicates"},
			RequestBody: openapi.RequestBodyJSON("DeleteCommand", true),
			Responses: map[int]*openapi.Response{
				204: {Description: "Resolved"},
				403: {Description: "Admin role required"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/duplicates/merge"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Resolve a pair by merging records",
			Tags:        []string{"duplicates"},
			RequestBody: openapi.RequestBodyJSON("MergeCommand", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Merge result", "MergeResult"),
				403: {Description: "Admin role required"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/duplicates/dismissals"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List the dismissal ledger",
			Tags:    []string{"duplicates"},
			Responses: map[int]*openapi.Response{
				200: {Description: "Paginated dismissals"},
			},
		},
	}
}

func addAuditPaths(spec *openapi.Spec) {
	spec.Paths["/audit"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List audit log entries",
			Tags:    []string{"audit"},
			Responses: map[int]*openapi.Response{
				200: {Description: "Paginated audit entries"},
			},
		},
	}
}

func f(v float64) *float64 {
	return &v
}
