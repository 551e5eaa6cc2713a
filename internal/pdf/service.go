package pdf

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/a3tai/instruction-catalog/internal/catalog"
)

// Service ties the manual file to the catalog generator
type Service struct {
	maxFileSize int64
	strict      bool
	validator   *Validator
	logger      logrus.FieldLogger
}

// NewService creates a new PDF service. When strict is set the manual is
// run through pdfcpu validation before it is opened.
func NewService(maxFileSize int64, strict bool, logger logrus.FieldLogger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		maxFileSize: maxFileSize,
		strict:      strict,
		validator:   NewValidator(maxFileSize),
		logger:      logger,
	}
}

// Inspect reports basic facts about the manual and checks that it is long
// enough for the manual profile.
func (s *Service) Inspect(path string, manual *catalog.Manual) (*ManualInfo, error) {
	pages, err := s.validator.CheckPageCoverage(path, manual.MaxPhysicalPage())
	if err != nil {
		return nil, catalog.NewResourceError("inspect_manual", err)
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, catalog.NewResourceError("inspect_manual", err)
	}

	return &ManualInfo{Path: path, Pages: pages, Size: fileInfo.Size()}, nil
}

// ExtractGroups opens the manual, extracts every group and releases the
// document on all exit paths.
func (s *Service) ExtractGroups(ctx context.Context, path string, manual *catalog.Manual) ([]catalog.Group, error) {
	var groups []catalog.Group
	err := s.withDocument(path, func(doc *Document) error {
		if doc.NumPages() < manual.MaxPhysicalPage() {
			return catalog.NewResourceError("open_manual",
				fmt.Errorf("document has %d pages, configuration references page %d", doc.NumPages(), manual.MaxPhysicalPage()))
		}

		gen, err := catalog.NewGenerator(doc, manual, s.logger)
		if err != nil {
			return err
		}
		groups, err = gen.GenerateGroups(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// Extract returns the flattened record list of the manual
func (s *Service) Extract(ctx context.Context, path string, manual *catalog.Manual) ([]catalog.Record, error) {
	groups, err := s.ExtractGroups(ctx, path, manual)
	if err != nil {
		return nil, err
	}
	return catalog.Flatten(groups), nil
}

func (s *Service) withDocument(path string, fn func(doc *Document) error) (err error) {
	if s.strict {
		if err := s.validator.ValidateStructure(path); err != nil {
			return catalog.NewResourceError("validate_manual", err)
		}
	}

	doc, err := OpenDocument(path, s.maxFileSize)
	if err != nil {
		return catalog.NewResourceError("open_manual", err)
	}
	s.logger.WithFields(logrus.Fields{"path": path, "pages": doc.NumPages()}).Debug("manual opened")

	defer func() {
		if cerr := doc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close manual: %w", cerr)
		}
	}()

	return fn(doc)
}
