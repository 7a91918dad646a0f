package violation

import (
	"reflect"
	"testing"

	"safetywatch/internal/model"
)

func TestFilter_ThresholdBoundary(t *testing.T) {
	classes := model.NewClassSet([]string{"no_helmet"})

	tests := []struct {
		name       string
		confidence float64
		expected   int
	}{
		{"exactly at threshold excluded", 0.5, 0},
		{"just above threshold included", 0.50001, 1},
		{"well above threshold included", 0.9, 1},
		{"below threshold excluded", 0.49, 0},
	}

	for _, tt := range tests {
		dets := []model.Detection{{Label: "no_helmet", Confidence: tt.confidence}}
		result := Filter(dets, classes, 0.5)
		if len(result) != tt.expected {
			t.Errorf("%s: got %d violations, expected %d", tt.name, len(result), tt.expected)
		}
	}
}

func TestFilter_ClassNotInSet(t *testing.T) {
	classes := model.NewClassSet([]string{"no_helmet"})

	dets := []model.Detection{
		{Label: "person", Confidence: 0.99},
		{Label: "helmet", Confidence: 1.0},
	}

	result := Filter(dets, classes, 0.5)
	if len(result) != 0 {
		t.Errorf("Expected no violations for non-violation classes, got %d", len(result))
	}
}

func TestFilter_EmptyClassSet(t *testing.T) {
	dets := []model.Detection{{Label: "no_helmet", Confidence: 0.9}}

	result := Filter(dets, model.NewClassSet(nil), 0.5)
	if len(result) != 0 {
		t.Errorf("Expected empty result for empty class set, got %d", len(result))
	}
}

func TestFilter_OrderPreserved(t *testing.T) {
	classes := model.NewClassSet([]string{"no_helmet", "no_vest"})

	dets := []model.Detection{
		{Label: "no_vest", Confidence: 0.8, X: 10},
		{Label: "person", Confidence: 0.99},
		{Label: "no_helmet", Confidence: 0.7, X: 20},
		{Label: "no_vest", Confidence: 0.6, X: 30},
	}

	result := Filter(dets, classes, 0.5)
	expected := []model.Detection{
		{Label: "no_vest", Confidence: 0.8, X: 10},
		{Label: "no_helmet", Confidence: 0.7, X: 20},
		{Label: "no_vest", Confidence: 0.6, X: 30},
	}

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("Filter changed input order or content:\ngot:      %#v\nexpected: %#v", result, expected)
	}
}

func TestFilter_Idempotent(t *testing.T) {
	classes := model.NewClassSet([]string{"no_helmet", "no_vest"})

	dets := []model.Detection{
		{Label: "no_helmet", Confidence: 0.9},
		{Label: "person", Confidence: 0.99},
		{Label: "no_vest", Confidence: 0.51},
	}

	once := Filter(dets, classes, 0.5)
	twice := Filter(once, classes, 0.5)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Filter is not idempotent:\nonce:  %#v\ntwice: %#v", once, twice)
	}
}

func TestFilter_EndToEndScenario(t *testing.T) {
	dets := []model.Detection{
		{Label: "no_helmet", Confidence: 0.9},
		{Label: "person", Confidence: 0.99},
	}

	result := Filter(dets, model.NewClassSet([]string{"no_helmet"}), 0.5)
	if len(result) != 1 {
		t.Fatalf("Expected exactly one violation, got %d", len(result))
	}
	if result[0].Label != "no_helmet" || result[0].Confidence != 0.9 {
		t.Errorf("Unexpected violation: %+v", result[0])
	}
}
