package kv

import "testing"

func TestEnvelopeRoundTrip(t *testing.T) {
	raw, err := Encode(3, []byte(`{"a":1}`))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	entry, err := Decode("k", raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry.Key != "k" || entry.Version != 3 || string(entry.Value) != `{"a":1}` {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestEncodeRejectsInvalidJSON(t *testing.T) {
	if _, err := Encode(1, []byte(`not json`)); err == nil {
		t.Fatalf("expected error for invalid json")
	}
}
