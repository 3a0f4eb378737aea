package timex

import (
	"encoding/json"
	"testing"
	"time"
)

func TestUnmarshalJSON_String(t *testing.T) {
	t.Parallel()

	var d Duration
	if err := json.Unmarshal([]byte(`"1h30m"`), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Duration != 90*time.Minute {
		t.Fatalf("expected 90m, got %v", d.Duration)
	}
}

func TestUnmarshalJSON_Number(t *testing.T) {
	t.Parallel()

	var d Duration
	if err := json.Unmarshal([]byte(`1000000000`), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Duration != time.Second {
		t.Fatalf("expected 1s, got %v", d.Duration)
	}
}

func TestUnmarshalJSON_BadString(t *testing.T) {
	t.Parallel()

	var d Duration
	if err := json.Unmarshal([]byte(`"not-a-duration"`), &d); err == nil {
		t.Fatalf("expected error for malformed duration")
	}
}

func TestUnmarshalJSON_WrongType(t *testing.T) {
	t.Parallel()

	var d Duration
	if err := json.Unmarshal([]byte(`true`), &d); err == nil {
		t.Fatalf("expected error for non-duration value")
	}
}

func TestMarshalJSON_RoundTrip(t *testing.T) {
	t.Parallel()

	in := Duration{Duration: 2 * time.Hour}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out Duration
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Duration != in.Duration {
		t.Fatalf("round-trip mismatch: got %v want %v", out.Duration, in.Duration)
	}
}
