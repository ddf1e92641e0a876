package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   string
	}{
		{"pending", Pending, "Pending"},
		{"zero value reads as pending", Status{}, "Pending"},
		{"match", Match, "Match"},
		{"unclear", Unclear, "Unclear"},
		{"not found", NotFound, "NotFound"},
		{"api error with code", APIError("503"), "API Error: 503"},
		{"api error no response", APIError("No Response"), "API Error: No Response"},
		{"failed", Failed(errors.New("boom")), "Error: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatus_IsMatch(t *testing.T) {
	if !Match.IsMatch() {
		t.Error("Match.IsMatch() = false, want true")
	}
	for _, s := range []Status{Pending, Unclear, NotFound, APIError("503"), Failed(errors.New("x"))} {
		if s.IsMatch() {
			t.Errorf("%v.IsMatch() = true, want false", s)
		}
	}
}

func TestParseStatus_RoundTrip(t *testing.T) {
	statuses := []Status{
		Pending,
		Match,
		Unclear,
		{Code: StatusUnclearLowConfidence},
		NotFound,
		APIError("503"),
		APIError("No Response"),
		Failed(errors.New("boom")),
	}
	for _, s := range statuses {
		if got := ParseStatus(s.String()); got != s {
			t.Errorf("ParseStatus(%q) = %#v, want %#v", s.String(), got, s)
		}
	}
}

func TestParseStatus_UnknownNeverReadsAsMatch(t *testing.T) {
	got := ParseStatus("Matchish nonsense")
	if got.IsMatch() {
		t.Error("unknown status parsed as match")
	}
	if got.Code != StatusFailed {
		t.Errorf("Code = %q, want %q", got.Code, StatusFailed)
	}
}

func TestStatus_JSON(t *testing.T) {
	data, err := json.Marshal(APIError("503"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `"API Error: 503"` {
		t.Errorf("Marshal = %s, want %q", data, `"API Error: 503"`)
	}

	var s Status
	if err := json.Unmarshal([]byte(`"Unclear (Low Confidence)"`), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Code != StatusUnclearLowConfidence {
		t.Errorf("Code = %q, want %q", s.Code, StatusUnclearLowConfidence)
	}
}
