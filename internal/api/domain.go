package api

import (
	"github.com/solardesk/solardesk/internal/audit"
	"github.com/solardesk/solardesk/internal/documents"
	"github.com/solardesk/solardesk/internal/duplicates"
	"github.com/solardesk/solardesk/internal/investors"
	"github.com/solardesk/solardesk/internal/projects"
	"github.com/solardesk/solardesk/internal/settings"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Investors  investors.System
	Projects   projects.System
	Documents  documents.System
	Settings   settings.System
	Audit      audit.System
	Duplicates duplicates.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	auditSystem := audit.New(db, runtime.Logger, runtime.Pagination)

	investorSystem := investors.New(db, runtime.Logger, runtime.Pagination)

	projectSystem := projects.New(
		db,
		auditSystem,
		runtime.Auth,
		runtime.Logger,
		runtime.Pagination,
	)

	documentSystem := documents.New(
		db,
		runtime.Storage,
		runtime.Auth,
		runtime.Logger,
		runtime.Pagination,
	)

	settingSystem := settings.New(db, runtime.Auth, runtime.Logger)

	duplicateSystem := duplicates.New(
		db,
		projectSystem,
		settingSystem,
		auditSystem,
		runtime.Auth,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Investors:  investorSystem,
		Projects:   projectSystem,
		Documents:  documentSystem,
		Settings:   settingSystem,
		Audit:      auditSystem,
		Duplicates: duplicateSystem,
	}
}
