package repositories

import (
	"context"

	"support-navigator/internal/models"
)

// ResourceRepository manages the operator-maintained crisis resource
// directory. The directory is read on the hot path, so implementations
// must tolerate concurrent reads.
type ResourceRepository interface {
	// List returns all resources ordered by ascending priority
	List(ctx context.Context) ([]models.CrisisResource, error)

	// ResourcesForSeverity returns the resources to surface for a detected
	// crisis tier, ordered by ascending priority. Returns an empty list for
	// severity none.
	ResourcesForSeverity(ctx context.Context, severity models.Severity) ([]models.CrisisResource, error)

	// Seed replaces the stored directory. Used at startup and by tests.
	Seed(ctx context.Context, resources []models.CrisisResource) error
}

// AuditRepository persists de-identified crisis audit records
type AuditRepository interface {
	RecordAssessment(ctx context.Context, record *models.CrisisAuditRecord) error
	RecentAssessments(ctx context.Context, limit int) ([]*models.CrisisAuditRecord, error)
}
