package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestUnflattenMergesSharedPrefixes(t *testing.T) {
	flat := map[string]any{
		"quantity":     int64(4),
		"address.city": "Bergen",
		"address.zip":  "5003",
		"meta.geo.lat": 60.39,
	}

	got := Unflatten(flat)
	want := Record{
		"quantity": int64(4),
		"address": Record{
			"city": "Bergen",
			"zip":  "5003",
		},
		"meta": Record{
			"geo": Record{"lat": 60.39},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unflatten mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordLookup(t *testing.T) {
	record := Unflatten(map[string]any{
		"quantity":     int64(4),
		"address.city": "Bergen",
	})

	if v, ok := record.Lookup("address.city"); !ok || v != "Bergen" {
		t.Fatalf("lookup address.city = %v, %v", v, ok)
	}
	if v, ok := record.Lookup("quantity"); !ok || v != int64(4) {
		t.Fatalf("lookup quantity = %v, %v", v, ok)
	}
	if _, ok := record.Lookup("address.street"); ok {
		t.Fatalf("expected miss for unknown leaf")
	}
	if _, ok := record.Lookup("quantity.sub"); ok {
		t.Fatalf("expected miss when path descends into a scalar")
	}
}

func TestRecordCloneIsDeep(t *testing.T) {
	original := Record{
		"address": Record{"city": "Bergen"},
		"rows": []Record{
			{"sku": "a-1"},
		},
		"tags":  []any{"x", "y"},
		"loose": map[string]any{"k": "v"},
	}

	clone := original.Clone()
	clone["address"].(Record)["city"] = "Oslo"
	clone["rows"].([]Record)[0]["sku"] = "b-2"
	clone["tags"].([]any)[0] = "mutated"
	clone["loose"].(map[string]any)["k"] = "w"

	if original["address"].(Record)["city"] != "Bergen" {
		t.Fatalf("clone shares nested record")
	}
	if original["rows"].([]Record)[0]["sku"] != "a-1" {
		t.Fatalf("clone shares row slice")
	}
	if original["tags"].([]any)[0] != "x" {
		t.Fatalf("clone shares tag slice")
	}
	if original["loose"].(map[string]any)["k"] != "v" {
		t.Fatalf("clone shares plain map")
	}
}

func TestRecordCloneNil(t *testing.T) {
	var record Record
	if clone := record.Clone(); clone != nil {
		t.Fatalf("expected nil clone, got %#v", clone)
	}
}

func TestAbsentValueString(t *testing.T) {
	if got := Absent.String(); got != "<absent>" {
		t.Fatalf("absent marker renders %q", got)
	}
}
