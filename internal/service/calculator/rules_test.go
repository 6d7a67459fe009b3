package calculator

import (
	"testing"

	"calibreport/internal/model"
)

func TestValidateInputRequiresGrade(t *testing.T) {
	errs := ValidateInput(model.UncertaintyInput{SampleCount: 20, Instrument: "角度仪"})
	if !containsString(errs, "请选择等级") {
		t.Fatalf("expected grade error, got: %v", errs)
	}
}

func TestValidateInputSampleCount(t *testing.T) {
	errs := ValidateInput(model.UncertaintyInput{SampleCount: 0, Grade: 7})
	if !containsString(errs, "测量次数必须为正整数") {
		t.Fatalf("expected sample count error, got: %v", errs)
	}
	if errs := ValidateInput(model.UncertaintyInput{SampleCount: 20, Grade: 7}); len(errs) != 0 {
		t.Fatalf("expected no errors, got: %v", errs)
	}
}

func containsString(items []string, want string) bool {
	for _, it := range items {
		if it == want {
			return true
		}
	}
	return false
}
