package server

import "testing"

func TestLibraryLookup(t *testing.T) {
	lib, err := NewLibrary("/www/", testTable(t, "v1", true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lib.Prefix() != "www" {
		t.Fatalf("prefix should be trimmed: %s", lib.Prefix())
	}

	rec, epoch, ok := lib.Lookup("app.js")
	if !ok || rec.Name != "app_js" {
		t.Fatalf("expected app.js record, got %+v", rec)
	}
	if epoch != testEpoch {
		t.Fatalf("epoch mismatch: %s", epoch)
	}
	if _, _, ok := lib.Lookup("app_js"); ok {
		t.Fatalf("lookup must use the original filename, not the symbol")
	}

	rec, _, ok = lib.Primary()
	if !ok || rec.Route != "index.html" {
		t.Fatalf("expected index.html primary, got %+v", rec)
	}
}

func TestLibrarySwap(t *testing.T) {
	first := testTable(t, "v1", true)
	lib, err := NewLibrary("www", first)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := testTable(t, "v2", false)
	if prev := lib.Swap(second); prev != first {
		t.Fatalf("swap should return the previous table")
	}
	if lib.Current() != second {
		t.Fatalf("swap did not install the new table")
	}
	if _, _, ok := lib.Primary(); ok {
		t.Fatalf("new table has no primary")
	}
	if lib.Swap(nil) != second || lib.Current() != second {
		t.Fatalf("nil swap must be ignored")
	}
}

func TestNewLibraryRejectsNil(t *testing.T) {
	if _, err := NewLibrary("www", nil); err == nil {
		t.Fatalf("expected error for nil table")
	}
}
