package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	if got := Format(OpScan, nil); got != "" {
		t.Errorf("Format(nil) = %q, want empty", got)
	}

	got := Format(OpScan, errors.New("permission denied"))
	want := "Failed to scan input directory: permission denied"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestFormatWith(t *testing.T) {
	err := errors.New("boom")

	got := FormatWith(OpTag, "01 Dogs.mp3", err)
	want := "Failed to tag files '01 Dogs.mp3': boom"
	if got != want {
		t.Errorf("FormatWith() = %q, want %q", got, want)
	}

	if got := FormatWith(OpTag, "", err); got != Format(OpTag, err) {
		t.Errorf("FormatWith(no context) = %q, want %q", got, Format(OpTag, err))
	}

	if got := FormatWith(OpTag, "x", nil); got != "" {
		t.Errorf("FormatWith(nil) = %q, want empty", got)
	}
}
