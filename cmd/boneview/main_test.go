package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/phanxgames/boneview"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedCatalogCoversDefaultSkeleton(t *testing.T) {
	cat := loadCatalog("", zerolog.Nop())
	model, err := loadModel("")
	require.NoError(t, err)

	for _, m := range model.Meshes() {
		_, ok := cat.Get(m.Name)
		assert.True(t, ok, "no metadata for %s (%s)", m.Name, m.SourceName)
	}

	scapula, ok := cat.Get("Scapula")
	require.True(t, ok)
	require.NotNil(t, scapula.RootRotation)
	assert.Equal(t, 180.0, *scapula.RootRotation)
	require.NotNil(t, scapula.CameraOffset)
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	cat := loadCatalog(filepath.Join(t.TempDir(), "nope.json"), zerolog.Nop())
	assert.Empty(t, cat)
	assert.Equal(t, boneview.NoDataText, cat.Lookup("Femur").Definition)
}

func TestLoadCatalog_PartiallyMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bones.json")
	data := `{
		"Femur": {"displayName": "Femur"},
		"Tibia": {"cameraOffset": [1, 2]}
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	var logs bytes.Buffer
	cat := loadCatalog(path, zerolog.New(&logs))
	assert.Len(t, cat, 1)
	assert.Contains(t, logs.String(), "skipped malformed metadata entries")
}

func TestLoadModel_Layout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	data := `{"parts": [
		{"name": "femur_l", "center": [8, -28, 0], "size": [5, 32, 5]},
		{"name": "mystery", "center": [0, 0, 0], "size": [1, 1, 1]}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	model, err := loadModel(path)
	require.NoError(t, err)
	require.Len(t, model.Meshes(), 2)
	assert.Equal(t, "Femur", model.Meshes()[0].Name)
	assert.Equal(t, "mystery", model.Meshes()[1].Name)
}

func TestLoadModel_EmptyLayoutIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"parts": []}`), 0644))

	_, err := loadModel(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, boneview.ErrEmptyModel)
}

func TestLoadModel_MissingFile(t *testing.T) {
	_, err := loadModel(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open layout")
}

func TestListBones(t *testing.T) {
	parts := []boneview.Part{
		{Name: "skull", Size: boneview.DefaultSkeletonLayout()[0].Size},
		{Name: "femur_l", Size: boneview.DefaultSkeletonLayout()[0].Size},
		{Name: "femur_r", Size: boneview.DefaultSkeletonLayout()[0].Size},
	}
	model, err := boneview.NewModel("test", parts)
	require.NoError(t, err)
	cat := boneview.Catalog{"Skull": {Name: "Skull", DisplayName: "Skull"}}

	var out bytes.Buffer
	require.NoError(t, listBones(&out, model, cat))

	s := out.String()
	assert.Contains(t, s, "MESH")
	assert.Contains(t, s, "femur_l")
	assert.Contains(t, s, "3 meshes, 2 bones, 1 with metadata")
	assert.Contains(t, s, "missing metadata: [Femur]")
}

func TestRootCmd_Bones(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"bones", "--log-level", "error"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "34 meshes")
	assert.Contains(t, out.String(), "Vertebrae")
}

func TestRootCmd_BadLogLevel(t *testing.T) {
	cmd := newRootCmd(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"bones", "--log-level", "shouting"})

	require.Error(t, cmd.Execute())
}
