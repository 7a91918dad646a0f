// Package violation decides which raw detections count as safety violations.
package violation

import "safetywatch/internal/model"

// Filter returns the detections whose label is in classes and whose confidence
// is strictly above threshold. A detection exactly at the threshold is
// excluded. Input order is preserved and the input slice is not modified.
// Confidence values outside [0,1] are passed through unchecked.
func Filter(detections []model.Detection, classes model.ClassSet, threshold float64) []model.Detection {
	var violations []model.Detection
	for _, det := range detections {
		if classes.Contains(det.Label) && det.Confidence > threshold {
			violations = append(violations, det)
		}
	}
	return violations
}
