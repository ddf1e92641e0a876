package domain

import (
	"encoding/json"
	"strings"
)

// StatusCode identifies the terminal outcome of a resolution attempt.
type StatusCode string

const (
	StatusPending              StatusCode = "Pending"
	StatusMatch                StatusCode = "Match"
	StatusUnclear              StatusCode = "Unclear"
	StatusUnclearLowConfidence StatusCode = "Unclear (Low Confidence)"
	StatusNotFound             StatusCode = "NotFound"
	StatusAPIError             StatusCode = "API Error"
	StatusFailed               StatusCode = "Error"
)

// Status is the resolution state of an album. Code is a closed set;
// Detail carries the HTTP status code or error message for the two
// error variants and is empty otherwise.
type Status struct {
	Code   StatusCode `json:"-"`
	Detail string     `json:"-"`
}

// Convenience constructors for the common cases.
var (
	Pending  = Status{Code: StatusPending}
	Match    = Status{Code: StatusMatch}
	Unclear  = Status{Code: StatusUnclear}
	NotFound = Status{Code: StatusNotFound}
)

// APIError returns a Status carrying an upstream rejection detail,
// e.g. "503" or "No Response".
func APIError(detail string) Status {
	return Status{Code: StatusAPIError, Detail: detail}
}

// Failed returns a Status for an unexpected error caught at the
// resolution boundary.
func Failed(err error) Status {
	return Status{Code: StatusFailed, Detail: err.Error()}
}

// IsMatch reports whether downstream stages may act on the album.
func (s Status) IsMatch() bool { return s.Code == StatusMatch }

func (s Status) String() string {
	switch s.Code {
	case StatusAPIError, StatusFailed:
		return string(s.Code) + ": " + s.Detail
	case "":
		return string(StatusPending)
	default:
		return string(s.Code)
	}
}

// MarshalJSON renders the status as its legacy string form so the API
// surface stays compatible with existing clients.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses the legacy string form back into the variant.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseStatus(raw)
	return nil
}

// ParseStatus maps a legacy status string onto the tagged variant.
// Unknown strings become a Failed status so they never read as a match.
func ParseStatus(raw string) Status {
	switch raw {
	case "", string(StatusPending):
		return Pending
	case string(StatusMatch):
		return Match
	case string(StatusUnclear):
		return Unclear
	case string(StatusUnclearLowConfidence):
		return Status{Code: StatusUnclearLowConfidence}
	case string(StatusNotFound):
		return NotFound
	}
	if detail, ok := strings.CutPrefix(raw, string(StatusAPIError)+": "); ok {
		return APIError(detail)
	}
	if detail, ok := strings.CutPrefix(raw, string(StatusFailed)+": "); ok {
		return Status{Code: StatusFailed, Detail: detail}
	}
	return Status{Code: StatusFailed, Detail: raw}
}
