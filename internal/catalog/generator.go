package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// PageTextProvider returns the plain text of a physical page (1-based)
type PageTextProvider interface {
	PageText(physicalPage int) (string, error)
}

// Generator walks the anchor table of a manual and builds its catalog
type Generator struct {
	provider PageTextProvider
	manual   *Manual
	logger   logrus.FieldLogger
}

// NewGenerator creates a generator reading pages from provider
func NewGenerator(provider PageTextProvider, manual *Manual, logger logrus.FieldLogger) (*Generator, error) {
	if provider == nil {
		return nil, fmt.Errorf("page text provider cannot be nil")
	}
	if manual == nil {
		return nil, fmt.Errorf("manual cannot be nil")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Generator{provider: provider, manual: manual, logger: logger}, nil
}

// Generate returns every record of the manual, ordered by anchor and then
// by position within the group.
func (g *Generator) Generate(ctx context.Context) ([]Record, error) {
	groups, err := g.GenerateGroups(ctx)
	if err != nil {
		return nil, err
	}
	return Flatten(groups), nil
}

// GenerateGroups extracts one Group per anchor. The first structural
// inconsistency or page failure aborts the whole run.
func (g *Generator) GenerateGroups(ctx context.Context) ([]Group, error) {
	groups := make([]Group, 0, len(g.manual.Anchors))
	for _, anchor := range g.manual.Anchors {
		group, err := g.generateGroup(ctx, anchor)
		if err != nil {
			return nil, fmt.Errorf("group at page %d: %w", anchor.AnchorPage, err)
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func (g *Generator) generateGroup(ctx context.Context, anchor GroupAnchor) (Group, error) {
	indexText, err := g.strippedPage(ctx, anchor.AnchorPage)
	if err != nil {
		return Group{}, err
	}

	index := ParseGroupIndex(indexText)
	spans, err := InferSpans(index.Pointers, anchor.TrailingExtent)
	if err != nil {
		return Group{}, err
	}

	log := g.logger.WithFields(logrus.Fields{"anchor": anchor.AnchorPage, "group": index.Label})
	if len(spans) == 0 {
		log.Warn("index page lists no entries")
	}

	group := Group{
		Name:       strings.TrimSpace(index.Label),
		AnchorPage: anchor.AnchorPage,
		Spans:      spans,
		Records:    make([]Record, 0, len(spans)),
	}
	for _, span := range spans {
		text, err := g.spanText(ctx, span)
		if err != nil {
			return Group{}, err
		}
		record := g.manual.BuildRecord(index.Label, span, ExtractSections(text))
		log.WithFields(logrus.Fields{"page": span.StartPage, "keyword": record.Keyword}).Debug("extracted entry")
		group.Records = append(group.Records, record)
	}

	log.WithField("records", len(group.Records)).Info("group extracted")
	return group, nil
}

// spanText concatenates the stripped pages of a span, each followed by a
// line break.
func (g *Generator) spanText(ctx context.Context, span PageSpan) (string, error) {
	var b strings.Builder
	for _, page := range span.Pages() {
		text, err := g.strippedPage(ctx, page)
		if err != nil {
			return "", err
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func (g *Generator) strippedPage(ctx context.Context, logical int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := g.provider.PageText(g.manual.PhysicalPage(logical))
	if err != nil {
		return "", NewPageFetchError(logical, err)
	}
	return g.manual.Stripper.Strip(text, logical), nil
}
