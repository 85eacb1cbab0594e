package service

import (
	"context"
	"encoding/base64"

	"github.com/NMGRL/trayclassifier/internal/domain"
	"github.com/NMGRL/trayclassifier/internal/repository"
)

// ReportService computes the aggregate views the review client renders:
// scoreboard, per-label tallies, totals, and the representative image
// strip.
type ReportService struct {
	images      *repository.ImageRepository
	assignments *repository.AssignmentRepository
	catalog     *CatalogService
}

// NewReportService creates a new report service.
// Parameters:
//   - images, assignments: entity repositories.
//   - catalog: catalog service, used to resolve image blobs for the
//     representative strip.
// Returns:
//   - *ReportService: initialized service.
func NewReportService(
	images *repository.ImageRepository,
	assignments *repository.AssignmentRepository,
	catalog *CatalogService,
) *ReportService {
	return &ReportService{
		images:      images,
		assignments: assignments,
		catalog:     catalog,
	}
}

// Scoreboard tallies completed labels per user, sorted descending by
// count. When pinUser matches a row, that row moves to the front while
// the order of the rest is preserved.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - pinUser: user name to pin to the front; empty pins nothing.
// Returns:
//   - []domain.UserScore: ranked scoreboard rows.
//   - error: non-nil if the query fails.
func (s *ReportService) Scoreboard(ctx context.Context, pinUser string) ([]domain.UserScore, error) {
	rows, err := s.assignments.CountByUser(ctx)
	if err != nil {
		return nil, err
	}

	if pinUser != "" {
		for i, row := range rows {
			if row.Name == pinUser {
				rows = append([]domain.UserScore{row}, append(rows[:i:i], rows[i+1:]...)...)
				break
			}
		}
	}
	return rows, nil
}

// ByUser tallies one user's assignments per label.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userName: user to report on.
// Returns:
//   - []domain.LabelCount: per-label counts for that user.
//   - error: non-nil if the query fails.
func (s *ReportService) ByUser(ctx context.Context, userName string) ([]domain.LabelCount, error) {
	return s.assignments.CountByLabel(ctx, userName)
}

// Summary holds the global classification report.
type Summary struct {
	Table        []domain.LabelCount `json:"table"`
	Total        int64               `json:"total"`
	Classified   int64               `json:"classified"`
	Unclassified int64               `json:"unclassified"`
}

// GlobalSummary computes per-label counts across all users plus image
// totals.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - *Summary: per-label table and total/classified/unclassified counts.
//   - error: non-nil if any query fails.
func (s *ReportService) GlobalSummary(ctx context.Context) (*Summary, error) {
	table, err := s.assignments.CountByLabel(ctx, "")
	if err != nil {
		return nil, err
	}

	totals, err := s.Totals(ctx)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Table:        table,
		Total:        totals.Total,
		Classified:   totals.Classified,
		Unclassified: totals.Unclassified,
	}, nil
}

// Totals counts all images and the distinct images with at least one
// assignment.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - *domain.Totals: total, classified, and unclassified counts.
//   - error: non-nil if a count fails.
func (s *ReportService) Totals(ctx context.Context) (*domain.Totals, error) {
	total, err := s.images.Count(ctx)
	if err != nil {
		return nil, err
	}
	classified, err := s.images.CountClassified(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Totals{
		Total:        total,
		Classified:   classified,
		Unclassified: total - classified,
	}, nil
}

// RepresentativeImage is one preview tile: the most recently labeled
// example for a label, with the blob inlined as base64 for direct
// rendering.
type RepresentativeImage struct {
	Label   string `json:"label"`
	ImageID uint   `json:"image_id"`
	Hash    string `json:"hashid"`
	Image   string `json:"image"` // base64-encoded stored bytes
}

// Representatives returns one example image per label that has at least
// one assignment, picking the latest assignment for each label. Labels
// with no assignments are omitted.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - []RepresentativeImage: preview tiles keyed by label name.
//   - error: non-nil if a query or blob read fails.
func (s *ReportService) Representatives(ctx context.Context) ([]RepresentativeImage, error) {
	rows, err := s.assignments.LatestPerLabel(ctx)
	if err != nil {
		return nil, err
	}

	reps := make([]RepresentativeImage, 0, len(rows))
	for _, row := range rows {
		blob, err := s.catalog.resolveBlob(ctx, &row.Image)
		if err != nil {
			return nil, err
		}
		reps = append(reps, RepresentativeImage{
			Label:   row.Label.Name,
			ImageID: row.Image.ID,
			Hash:    row.Image.Hash,
			Image:   base64.StdEncoding.EncodeToString(blob),
		})
	}
	return reps, nil
}
