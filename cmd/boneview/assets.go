package main

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/phanxgames/boneview"
	"github.com/rs/zerolog"
)

//go:embed data/bones.json
var defaultCatalog []byte

// loadCatalog reads the metadata catalog from path, or the embedded default
// when path is empty. Malformed entries and unreadable documents are logged
// and never fail startup.
func loadCatalog(path string, log zerolog.Logger) boneview.Catalog {
	data := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("could not read metadata, continuing without it")
			return boneview.Catalog{}
		}
		data = b
	}
	cat, err := boneview.LoadCatalog(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, boneview.ErrMalformedEntry) {
			log.Warn().Err(err).Int("loaded", len(cat)).Msg("skipped malformed metadata entries")
		} else {
			log.Warn().Err(err).Msg("could not parse metadata, continuing without it")
		}
	}
	return cat
}

// loadModel builds the skeleton from the layout at path, or the built-in
// layout when path is empty. Failures are fatal to startup.
func loadModel(path string) (*boneview.Model, error) {
	if path == "" {
		return boneview.NewSkeleton()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open layout: %w", err)
	}
	defer f.Close()
	parts, err := boneview.LoadLayout(f)
	if err != nil {
		return nil, err
	}
	return boneview.NewModel("skeleton", parts)
}
