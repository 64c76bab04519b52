package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMediaProvider_FlattensBlocks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": true, "message": "ok", "data": [
			{"promotion": [
				{"name": "Breakfast Deal", "description": "Half price", "image": "aaa", "date_start": "2026-01-01", "date_end": "2026-02-01"},
				{"name": "No Image Promo", "description": "skipped", "image": ""}
			]},
			{"promotion": [
				{"name": "Lunch Deal", "description": "Free drink", "image": "bbb"}
			]}
		]}`))
	}))
	defer server.Close()

	provider := NewMediaProvider(NewClient(server.URL, "token"))

	records, err := provider.Records(context.Background())
	if err != nil {
		t.Fatalf("Records failed: %v", err)
	}

	// The imageless promotion is dropped, blocks are flattened in order
	if len(records) != 2 {
		t.Fatalf("Got %d records, want 2", len(records))
	}

	first := records[0]
	if first.Name != "Breakfast Deal" || first.RawImage != "aaa" {
		t.Errorf("records[0] = %+v", first)
	}
	if first.Meta.Description != "Half price" || first.Meta.DateStart != "2026-01-01" || first.Meta.DateEnd != "2026-02-01" {
		t.Errorf("records[0].Meta = %+v", first.Meta)
	}
	if records[1].Name != "Lunch Deal" || records[1].RawImage != "bbb" {
		t.Errorf("records[1] = %+v", records[1])
	}
}

func TestOutletProvider_JoinsImagesToOutlets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/get/outlet/regions":
			w.Write([]byte(`{"status": true, "message": "ok", "data": [
				{"outlet_region_name": "North", "pos_shops": [
					{"id": 7, "name": "Harbor Cafe", "is_open": true}
				]}
			]}`))
		case "/api/order/session":
			w.Write([]byte(`{"status": true, "message": "ok", "data": [
				{"name": "  harbor cafe ", "image": "img-bytes"},
				{"name": "Unknown Outlet", "image": "orphan"},
				{"name": "", "image": "nameless"}
			]}`))
		default:
			t.Errorf("Unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	provider := NewOutletProvider(NewClient(server.URL, "token"))

	records, err := provider.Records(context.Background())
	if err != nil {
		t.Fatalf("Records failed: %v", err)
	}

	// Only the case-insensitive name match survives the join
	if len(records) != 1 {
		t.Fatalf("Got %d records, want 1", len(records))
	}

	r := records[0]
	if r.RawImage != "img-bytes" {
		t.Errorf("RawImage = %q, want %q", r.RawImage, "img-bytes")
	}
	if r.Meta.OutletID != "7" || r.Meta.OutletName != "Harbor Cafe" || r.Meta.RegionName != "North" {
		t.Errorf("Meta = %+v", r.Meta)
	}
}
