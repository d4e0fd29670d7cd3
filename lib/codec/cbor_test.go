// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

type counters struct {
	Accepted uint64    `cbor:"accepted"`
	Dropped  uint64    `cbor:"dropped"`
	Since    time.Time `cbor:"since"`
}

func TestMarshalIsDeterministic(t *testing.T) {
	t.Parallel()

	first, err := Marshal(map[string]int{"zeta": 1, "alpha": 2, "mid": 3})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for range 10 {
		again, err := Marshal(map[string]int{"mid": 3, "alpha": 2, "zeta": 1})
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("encodings differ: %x vs %x", first, again)
		}
	}
}

func TestTimeKeepsNanoseconds(t *testing.T) {
	t.Parallel()

	since := time.Date(2026, 3, 4, 5, 6, 7, 890123456, time.UTC)
	data, err := Marshal(counters{Accepted: 3, Since: since})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded counters
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !decoded.Since.Equal(since) {
		t.Errorf("Since: got %v, want %v", decoded.Since, since)
	}
}

func TestUnknownFieldsIgnored(t *testing.T) {
	t.Parallel()

	data, err := Marshal(map[string]any{"accepted": 4, "future_field": "x"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded counters
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Accepted != 4 {
		t.Errorf("Accepted: got %d, want 4", decoded.Accepted)
	}
}

func TestAnyMapsDecodeWithStringKeys(t *testing.T) {
	t.Parallel()

	data, err := Marshal(map[string]any{"outer": map[string]any{"inner": 1}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	outer, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded %T, want map[string]any", decoded)
	}
	if _, ok := outer["outer"].(map[string]any); !ok {
		t.Errorf("nested value %T, want map[string]any", outer["outer"])
	}
}

func TestStreamEncoding(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	for i := range 3 {
		if err := encoder.Encode(counters{Accepted: uint64(i)}); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	decoder := NewDecoder(&buffer)
	for i := range 3 {
		var decoded counters
		if err := decoder.Decode(&decoded); err != nil {
			t.Fatalf("Decode %d: %v", i, err)
		}
		if decoded.Accepted != uint64(i) {
			t.Errorf("message %d: Accepted = %d", i, decoded.Accepted)
		}
	}
}

func TestDiagnose(t *testing.T) {
	t.Parallel()

	data, err := Marshal(counters{Accepted: 7})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	notation, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(notation, `"accepted": 7`) {
		t.Errorf("Diagnose: got %s", notation)
	}
}
