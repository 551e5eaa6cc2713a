package catalog

// PageSpan is the logical page range holding one entry
type PageSpan struct {
	StartPage int `json:"startPage"`
	PageCount int `json:"pageCount"`
}

// Pages returns the logical page numbers covered by the span
func (s PageSpan) Pages() []int {
	pages := make([]int, s.PageCount)
	for i := range pages {
		pages[i] = s.StartPage + i
	}
	return pages
}

// InferSpans turns an ordered pointer list into one span per entry. Each
// span ends where the next pointer starts; the last one is trailingExtent
// pages long. A span that would be shorter than one page is reported as a
// structural inconsistency instead of being clamped.
func InferSpans(pointers []int, trailingExtent int) ([]PageSpan, error) {
	if trailingExtent < 1 {
		return nil, NewStructuralError("infer_spans", 0,
			"trailing extent must be at least 1, got %d", trailingExtent)
	}

	spans := make([]PageSpan, 0, len(pointers))
	for i, start := range pointers {
		count := trailingExtent
		if i+1 < len(pointers) {
			count = pointers[i+1] - start
		}
		if count < 1 {
			return nil, NewStructuralError("infer_spans", start,
				"pointer %d is followed by %d: pointers must be strictly increasing", start, pointers[i+1])
		}
		spans = append(spans, PageSpan{StartPage: start, PageCount: count})
	}

	return spans, nil
}
