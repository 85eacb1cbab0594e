package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/NMGRL/trayclassifier/internal/domain"
	"github.com/NMGRL/trayclassifier/internal/imaging"
	"github.com/NMGRL/trayclassifier/internal/logger"
	"github.com/NMGRL/trayclassifier/internal/repository"
	"github.com/NMGRL/trayclassifier/internal/storage"
)

var (
	// ErrUnknownLabel is returned when a submitted label name is not part
	// of the seeded vocabulary.
	ErrUnknownLabel = errors.New("unknown label")

	// ErrImageNotFound is returned when a write path references an image
	// that does not exist. Read paths report absence as a nil result
	// instead.
	ErrImageNotFound = errors.New("image not found")
)

// CatalogService owns the labeling workflow: image ingestion with
// content-hash dedup, unclassified-image selection, blob retrieval, and
// label submission.
type CatalogService struct {
	images      *repository.ImageRepository
	labels      *repository.LabelRepository
	users       *repository.UserRepository
	assignments *repository.AssignmentRepository
	blobs       storage.BlobStore
	logger      *logger.Logger
}

// NewCatalogService creates a new catalog service.
// Parameters:
//   - images, labels, users, assignments: entity repositories.
//   - blobs: external blob store; nil keeps blobs inline in image rows.
//   - log: base logger.
// Returns:
//   - *CatalogService: initialized service.
func NewCatalogService(
	images *repository.ImageRepository,
	labels *repository.LabelRepository,
	users *repository.UserRepository,
	assignments *repository.AssignmentRepository,
	blobs storage.BlobStore,
	log *logger.Logger,
) *CatalogService {
	return &CatalogService{
		images:      images,
		labels:      labels,
		users:       users,
		assignments: assignments,
		blobs:       blobs,
		logger:      log,
	}
}

// log returns a logger from context if available, otherwise the service's own.
func (s *CatalogService) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.logger
}

// IngestRequest carries one image upload with its provenance metadata.
type IngestRequest struct {
	Data []byte
	Name string

	// CropBorder trims this many pixels from each edge before encoding.
	// The API path passes 0; the seed tool passes the configured border.
	CropBorder int

	TrayName   string
	HoleID     int
	LoadName   string
	Project    string
	Sample     string
	Material   string
	Identifier string
	Weight     float64
	NXtals     int
	Note       string
}

// Ingest normalizes the uploaded bytes, hashes the stored encoding, and
// creates an image row unless a byte-identical image already exists.
// Re-submitting identical bytes is a silent no-op returning the existing
// row.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - req: upload payload and metadata.
// Returns:
//   - *domain.Image: the created or pre-existing image.
//   - bool: true if a new row was created.
//   - error: non-nil if decoding or persistence fails.
func (s *CatalogService) Ingest(ctx context.Context, req *IngestRequest) (*domain.Image, bool, error) {
	norm, err := imaging.Normalize(req.Data, req.CropBorder)
	if err != nil {
		return nil, false, err
	}

	if existing, err := s.images.GetByHash(ctx, norm.Hash); err != nil {
		return nil, false, err
	} else if existing != nil {
		s.log(ctx).WithField(logger.FieldHash, norm.Hash).Debug("Duplicate image, skipping ingest")
		return existing, false, nil
	}

	image := &domain.Image{
		Name:       req.Name,
		Hash:       norm.Hash,
		Format:     imaging.Format,
		Width:      norm.Width,
		Height:     norm.Height,
		FileSize:   int64(len(norm.Bytes)),
		TrayName:   req.TrayName,
		HoleID:     req.HoleID,
		LoadName:   req.LoadName,
		Project:    req.Project,
		Sample:     req.Sample,
		Material:   req.Material,
		Identifier: req.Identifier,
		Weight:     req.Weight,
		NXtals:     req.NXtals,
		Note:       req.Note,
	}

	if s.blobs != nil {
		key := storage.ObjectKey(norm.Hash)
		if err := s.blobs.Upload(ctx, key, bytes.NewReader(norm.Bytes), int64(len(norm.Bytes)), imaging.ContentType); err != nil {
			return nil, false, fmt.Errorf("failed to store blob: %w", err)
		}
		image.StorageKey = key
	} else {
		image.Blob = norm.Bytes
	}

	if err := s.images.Create(ctx, image); err != nil {
		// The unique index on hash makes concurrent duplicate ingests
		// first-wins; losing the race is still idempotent success.
		if existing, lookupErr := s.images.GetByHash(ctx, norm.Hash); lookupErr == nil && existing != nil {
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create image: %w", err)
	}

	s.log(ctx).WithFields(logger.Fields{
		logger.FieldImageID: image.ID,
		logger.FieldHash:    image.Hash,
		logger.FieldSize:    image.FileSize,
	}).Info("Ingested image")

	return image, true, nil
}

// NextOptions selects which image the browse endpoint returns.
type NextOptions struct {
	// Hash requests an exact lookup and wins over AfterID.
	Hash string

	// AfterID requests the first image with a greater id, ignoring
	// classification status (skip-forward mode).
	AfterID uint
}

// NextImage resolves the browse endpoint: exact hash lookup, skip-forward
// by id, or the first unclassified image.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - opts: selection options; the zero value means first unclassified.
// Returns:
//   - *domain.ImageInfo: metadata of the selected image, nil if none matches.
//   - error: non-nil if the query fails.
func (s *CatalogService) NextImage(ctx context.Context, opts NextOptions) (*domain.ImageInfo, error) {
	var image *domain.Image
	var err error

	switch {
	case opts.Hash != "":
		image, err = s.images.GetByHash(ctx, opts.Hash)
	case opts.AfterID > 0:
		image, err = s.images.NextAfter(ctx, opts.AfterID)
	default:
		image, err = s.images.FirstUnclassified(ctx)
	}
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, nil
	}
	return image.Info(), nil
}

// Blob retrieves the stored bytes for an image by content hash.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - hash: content hash of the image.
// Returns:
//   - []byte: the stored encoding.
//   - string: its content type.
//   - error: ErrImageNotFound if no image matches; other errors on
//     storage failures.
func (s *CatalogService) Blob(ctx context.Context, hash string) ([]byte, string, error) {
	image, err := s.images.GetByHash(ctx, hash)
	if err != nil {
		return nil, "", err
	}
	if image == nil {
		return nil, "", ErrImageNotFound
	}

	data, err := s.resolveBlob(ctx, image)
	if err != nil {
		return nil, "", err
	}
	return data, imaging.ContentType, nil
}

// resolveBlob returns the encoded bytes for an image row, reading from
// the external store when the row carries a storage key instead of an
// inline blob.
func (s *CatalogService) resolveBlob(ctx context.Context, image *domain.Image) ([]byte, error) {
	if len(image.Blob) > 0 {
		return image.Blob, nil
	}
	if s.blobs == nil || image.StorageKey == "" {
		return nil, fmt.Errorf("image %d has no stored blob", image.ID)
	}

	rc, err := s.blobs.Download(ctx, image.StorageKey)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// AddLabel validates the label against the fixed vocabulary, resolves or
// creates the user, and appends an assignment row. Submissions are not
// deduplicated; a double submit yields two rows.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - imageID: target image id.
//   - labelName: label name; must be in the seeded vocabulary.
//   - userName: submitting user; empty credits the default user.
// Returns:
//   - error: ErrUnknownLabel or ErrImageNotFound on invalid input;
//     other errors on persistence failures.
func (s *CatalogService) AddLabel(ctx context.Context, imageID uint, labelName, userName string) error {
	if !domain.KnownLabel(labelName) {
		return fmt.Errorf("%w: %q", ErrUnknownLabel, labelName)
	}

	image, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return err
	}
	if image == nil {
		return fmt.Errorf("%w: id %d", ErrImageNotFound, imageID)
	}

	label, err := s.labels.GetByName(ctx, labelName)
	if err != nil {
		return err
	}
	if label == nil {
		return fmt.Errorf("%w: %q", ErrUnknownLabel, labelName)
	}

	if userName == "" {
		userName = domain.DefaultUserName
	}
	user, err := s.users.Ensure(ctx, userName)
	if err != nil {
		return err
	}

	assignment := &domain.Assignment{
		ImageID: image.ID,
		LabelID: label.ID,
		UserID:  user.ID,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	s.log(ctx).WithFields(logger.Fields{
		logger.FieldImageID: image.ID,
		logger.FieldLabel:   labelName,
		logger.FieldUser:    userName,
	}).Info("Recorded label")

	return nil
}

// Labels retrieves the fixed label vocabulary.
func (s *CatalogService) Labels(ctx context.Context) ([]domain.Label, error) {
	return s.labels.List(ctx)
}

// Users retrieves all known users.
func (s *CatalogService) Users(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}
