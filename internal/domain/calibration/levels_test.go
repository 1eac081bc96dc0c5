package calibration

import "testing"

func TestClassifyBands(t *testing.T) {
	thresholds := DefaultThresholds()

	if level := thresholds.Classify(1.0); level != LevelLow {
		t.Fatalf("expected low for 1.0, got %s", level)
	}
	if level := thresholds.Classify(3.0); level != LevelMedium {
		t.Fatalf("expected medium for 3.0, got %s", level)
	}
	if level := thresholds.Classify(5.0); level != LevelHigh {
		t.Fatalf("expected high for 5.0, got %s", level)
	}
}

func TestClassifyBoundariesResolveUpward(t *testing.T) {
	thresholds := DefaultThresholds()

	if level := thresholds.Classify(thresholds.Medium); level != LevelMedium {
		t.Fatalf("expected medium at the medium threshold, got %s", level)
	}
	if level := thresholds.Classify(thresholds.High); level != LevelHigh {
		t.Fatalf("expected high at the high threshold, got %s", level)
	}
}

func TestClassifyIsTotal(t *testing.T) {
	thresholds := DefaultThresholds()

	for score := -1.0; score <= 7.0; score += 0.1 {
		level := thresholds.Classify(score)
		if level != LevelLow && level != LevelMedium && level != LevelHigh {
			t.Fatalf("score %.1f mapped to unknown level %q", score, level)
		}
	}
}
