package labels

// Source identifies which label file a category assignment came from.
type Source int

const (
	// SourceNone means the document carries no usable labels
	SourceNone Source = iota
	// SourceTrain is the human rater train label file
	SourceTrain
	// SourceLegacy is the categories column of the legacy index file
	SourceLegacy
	// SourceBaseline is the baseline heuristic label file
	SourceBaseline
	// SourceTest is the test label file
	SourceTest
)

// String returns the string representation of the source.
func (s Source) String() string {
	switch s {
	case SourceNone:
		return "none"
	case SourceTrain:
		return "train"
	case SourceLegacy:
		return "legacy-index"
	case SourceBaseline:
		return "baseline"
	case SourceTest:
		return "test"
	default:
		return "unknown"
	}
}

// Resolution is the category list a document contributes to category
// statistics, together with its provenance.
type Resolution struct {
	Source     Source
	Categories []string
	// Leaked marks a document present in both the train and the test labels.
	Leaked bool
}

// RaterDerived reports whether the categories came from human raters.
func (r Resolution) RaterDerived() bool {
	return r.Source == SourceTrain
}

// Set groups the four label sources.
type Set struct {
	Train    *Index
	Test     *Index
	Legacy   *Index
	Baseline *Index
}

// Resolve picks the statistics labels of doc by precedence: train labels
// first, then the legacy index. A document in both train and test labels is
// returned with Leaked set so callers keep it out of the statistics.
func (s *Set) Resolve(doc string) Resolution {
	if cats := s.Train.Get(doc); cats != nil {
		return Resolution{
			Source:     SourceTrain,
			Categories: cats,
			Leaked:     s.Test.Has(doc),
		}
	}
	if cats := s.Legacy.Get(doc); cats != nil {
		return Resolution{Source: SourceLegacy, Categories: cats}
	}
	return Resolution{Source: SourceNone}
}

// Index returns the index backing source, nil for SourceNone.
func (s *Set) Index(source Source) *Index {
	switch source {
	case SourceTrain:
		return s.Train
	case SourceTest:
		return s.Test
	case SourceLegacy:
		return s.Legacy
	case SourceBaseline:
		return s.Baseline
	default:
		return nil
	}
}
