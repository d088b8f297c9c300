package boneview

import (
	"errors"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

const testCatalogJSON = `{
	"Skull": {
		"displayName": "Skull",
		"definition": "The bony structure of the head.",
		"function": "Protects the brain.",
		"cameraOffset": [0, 0.5, 2]
	},
	"Scapula": {
		"displayName": "Scapula",
		"cameraOffset": [0, 0.4, -2.5],
		"rootRotation": 180
	},
	"Femur": {"displayName": "Femur"}
}`

func TestLoadCatalog(t *testing.T) {
	cat, err := LoadCatalog(strings.NewReader(testCatalogJSON))
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(cat) != 3 {
		t.Fatalf("len = %d, want 3", len(cat))
	}

	skull, ok := cat.Get("Skull")
	if !ok {
		t.Fatal("Skull missing")
	}
	if skull.Name != "Skull" || skull.Function != "Protects the brain." {
		t.Errorf("Skull = %+v", skull)
	}
	if skull.CameraOffset == nil || *skull.CameraOffset != (r3.Vec{Y: 0.5, Z: 2}) {
		t.Errorf("Skull.CameraOffset = %v", skull.CameraOffset)
	}
	if skull.RootRotation != nil {
		t.Errorf("Skull.RootRotation = %v, want nil", *skull.RootRotation)
	}

	scap := cat.Lookup("Scapula")
	if scap.RootRotation == nil || *scap.RootRotation != 180 {
		t.Errorf("Scapula.RootRotation = %v", scap.RootRotation)
	}

	femur := cat.Lookup("Femur")
	if femur.CameraOffset != nil || femur.Definition != "" {
		t.Errorf("Femur = %+v", femur)
	}
}

func TestCatalogLookupPlaceholder(t *testing.T) {
	var cat Catalog
	got := cat.Lookup("Tibia")
	want := Placeholder("Tibia")
	if got.Name != want.Name || got.Definition != NoDataText || got.Function != NoDataText {
		t.Errorf("Lookup on nil catalog = %+v", got)
	}
	if _, ok := cat.Get("Tibia"); ok {
		t.Error("Get on nil catalog reported a hit")
	}
}

func TestCatalogNamesSorted(t *testing.T) {
	cat, _ := LoadCatalog(strings.NewReader(testCatalogJSON))
	names := cat.Names()
	want := []string{"Femur", "Scapula", "Skull"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("Names = %v, want %v", names, want)
	}
}

func TestLoadCatalogMalformedEntries(t *testing.T) {
	data := `{
		"Skull": {"displayName": "Skull"},
		"Tibia": {"cameraOffset": [1, 2]},
		"Ulna": {"rootRotation": "half"},
		"Radius": "not an object"
	}`
	cat, err := LoadCatalog(strings.NewReader(data))
	if !errors.Is(err, ErrMalformedEntry) {
		t.Fatalf("err = %v, want ErrMalformedEntry", err)
	}
	if len(cat) != 1 {
		t.Errorf("len = %d, want only the valid entry", len(cat))
	}
	for _, name := range []string{"Tibia", "Ulna", "Radius"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error does not name %s: %v", name, err)
		}
	}
}

func TestLoadCatalogBadDocument(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"array", `[{"displayName": "Skull"}]`},
		{"truncated", `{"Skull": {`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := LoadCatalog(strings.NewReader(tt.data))
			if err == nil {
				t.Fatal("expected an error")
			}
			if errors.Is(err, ErrMalformedEntry) {
				t.Errorf("document error reported as an entry error: %v", err)
			}
			if cat == nil || len(cat) != 0 {
				t.Errorf("catalog = %v, want empty and non-nil", cat)
			}
		})
	}
}
