package filters

import "testing"

func TestCCITTFaxDecodeInvalidColumns(t *testing.T) {
	if _, err := CCITTFaxDecode([]byte{0}, Params{"Columns": -4}); err == nil {
		t.Error("expected error for negative column count")
	}
}

func TestGetBoolParam(t *testing.T) {
	params := Params{"BlackIs1": true, "Other": 1}
	if !getBoolParam(params, "BlackIs1", false) {
		t.Error("expected BlackIs1 to be true")
	}
	if getBoolParam(params, "Other", false) {
		t.Error("expected non-bool value to fall back to default")
	}
	if !getBoolParam(nil, "Missing", true) {
		t.Error("expected default for nil params")
	}
}
