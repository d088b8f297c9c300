package boneview

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// NoDataText is the placeholder definition and function of unknown bones.
const NoDataText = "No data available."

// BoneMetadata is the descriptive record shown for a selected bone.
type BoneMetadata struct {
	// Name is the canonical bone name the record is keyed by.
	Name        string
	DisplayName string
	Definition  string
	Function    string

	// CameraOffset scales the focus direction by the bone's bounding box
	// diagonal. Nil means the interactor's default offset.
	CameraOffset *r3.Vec

	// RootRotation, in degrees about +Y, turns the whole skeleton when the
	// bone is selected. Nil means the skeleton's initial rotation.
	RootRotation *float64
}

// Placeholder returns the record used for bones with no metadata.
func Placeholder(name string) BoneMetadata {
	return BoneMetadata{
		Name:       name,
		Definition: NoDataText,
		Function:   NoDataText,
	}
}

// Catalog maps canonical bone names to metadata. A nil Catalog is valid and
// empty.
type Catalog map[string]BoneMetadata

// Get returns the metadata stored for name.
func (c Catalog) Get(name string) (BoneMetadata, bool) {
	m, ok := c[name]
	return m, ok
}

// Lookup returns the metadata for name, or Placeholder(name) when the
// catalog has no entry. It never fails.
func (c Catalog) Lookup(name string) BoneMetadata {
	if m, ok := c[name]; ok {
		return m
	}
	return Placeholder(name)
}

// Names returns the catalog keys in sorted order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for n := range c {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// catalogEntry is the JSON form of one metadata record.
type catalogEntry struct {
	DisplayName  string    `json:"displayName"`
	Definition   string    `json:"definition"`
	Function     string    `json:"function"`
	CameraOffset []float64 `json:"cameraOffset,omitempty"`
	RootRotation *float64  `json:"rootRotation,omitempty"`
}

// ErrMalformedEntry wraps per-entry decode failures reported by LoadCatalog.
var ErrMalformedEntry = errors.New("malformed metadata entry")

// LoadCatalog decodes a JSON object keyed by bone name. A document that is
// not a JSON object yields an empty catalog and an error. Individual entries
// that fail to decode are skipped; the returned catalog then holds the valid
// entries and the error joins one ErrMalformedEntry per skipped entry.
func LoadCatalog(r io.Reader) (Catalog, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Catalog{}, fmt.Errorf("parse metadata: %w", err)
	}

	cat := make(Catalog, len(raw))
	var errs []error
	for _, name := range sortedKeys(raw) {
		meta, err := decodeEntry(name, raw[name])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		cat[name] = meta
	}
	return cat, errors.Join(errs...)
}

func decodeEntry(name string, data json.RawMessage) (BoneMetadata, error) {
	var e catalogEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return BoneMetadata{}, fmt.Errorf("%w %q: %v", ErrMalformedEntry, name, err)
	}
	meta := BoneMetadata{
		Name:         name,
		DisplayName:  e.DisplayName,
		Definition:   e.Definition,
		Function:     e.Function,
		RootRotation: e.RootRotation,
	}
	if e.CameraOffset != nil {
		if len(e.CameraOffset) != 3 {
			return BoneMetadata{}, fmt.Errorf("%w %q: cameraOffset needs 3 components, got %d",
				ErrMalformedEntry, name, len(e.CameraOffset))
		}
		for _, v := range e.CameraOffset {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return BoneMetadata{}, fmt.Errorf("%w %q: cameraOffset is not finite", ErrMalformedEntry, name)
			}
		}
		meta.CameraOffset = &r3.Vec{X: e.CameraOffset[0], Y: e.CameraOffset[1], Z: e.CameraOffset[2]}
	}
	return meta, nil
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
