package model

// Detection represents one object found by the model in a single frame.
// Box coordinates are pixels; Width/Height extend from the top-left corner.
type Detection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
}

// ClassSet is a set of class labels considered unsafe.
type ClassSet map[string]struct{}

// NewClassSet builds a ClassSet from a list of labels.
func NewClassSet(labels []string) ClassSet {
	set := make(ClassSet, len(labels))
	for _, label := range labels {
		set[label] = struct{}{}
	}
	return set
}

// Contains reports whether the label is in the set.
func (s ClassSet) Contains(label string) bool {
	_, ok := s[label]
	return ok
}
