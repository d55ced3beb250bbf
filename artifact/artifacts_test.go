package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/tagkit/core"
	"github.com/rushteam/tagkit/store"
)

const fixtureDir = "../testdata/artifacts"

func TestLoad_FileSource(t *testing.T) {
	a, err := Load(context.Background(), NewFileSource(fixtureDir), Names{})
	require.NoError(t, err)

	info := a.Info()
	assert.Equal(t, "file:"+fixtureDir, info.Source)
	assert.Equal(t, "tfidf", info.Extractor)
	assert.Equal(t, 6, info.FeatureDim)
	assert.Equal(t, 3, info.LabelCount)
	assert.Equal(t, []string{"bug", "feature", "docs"}, info.Labels)

	vec, err := a.Extractor().Transform("App crash when opening the README")
	require.NoError(t, err)
	pred, err := a.Classifier().Predict(vec)
	require.NoError(t, err)
	tags, err := a.Codec().Decode(pred)
	require.NoError(t, err)
	assert.Equal(t, core.TagSet{"bug", "docs"}, tags)
}

func TestLoad_StoreSource(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	defer mem.Close()

	require.NoError(t, Publish(ctx, NewFileSource(fixtureDir), mem, "tagkit:v1:", DefaultNames()))

	a, err := Load(ctx, NewStoreSource(mem, "tagkit:v1:"), DefaultNames())
	require.NoError(t, err)
	assert.Equal(t, "memory:tagkit:v1:", a.Info().Source)
	assert.Equal(t, 6, a.Info().FeatureDim)
}

type countingStore struct {
	*store.MemoryStore
	gets, batchGets int
}

func (s *countingStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.gets++
	return s.MemoryStore.Get(ctx, key)
}

func (s *countingStore) BatchGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	s.batchGets++
	return s.MemoryStore.BatchGet(ctx, keys)
}

func TestLoad_StoreSourceSingleBatch(t *testing.T) {
	ctx := context.Background()
	mem := &countingStore{MemoryStore: store.NewMemoryStore()}
	defer mem.Close()
	require.NoError(t, Publish(ctx, NewFileSource(fixtureDir), mem, "p:", Names{}))

	_, err := Load(ctx, NewStoreSource(mem, "p:"), Names{})
	require.NoError(t, err)
	assert.Equal(t, 1, mem.batchGets)
	assert.Equal(t, 0, mem.gets)
}

func TestLoad_StoreSourceReportsMissingKeys(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	defer mem.Close()
	data, err := os.ReadFile(filepath.Join(fixtureDir, "vectorizer.json"))
	require.NoError(t, err)
	require.NoError(t, mem.Set(ctx, "p:vectorizer.json", data))

	_, err = Load(ctx, NewStoreSource(mem, "p:"), Names{})
	require.Error(t, err)
	assert.True(t, core.IsArtifactLoad(err))
	assert.ErrorIs(t, err, core.ErrStoreNotFound)
	assert.Contains(t, err.Error(), "p:classifier.json, p:label_binarizer.json")
}

func TestLoad_MissingArtifact(t *testing.T) {
	names := DefaultNames()
	names.Classifier = "nope.json"

	_, err := Load(context.Background(), NewFileSource(fixtureDir), names)
	require.Error(t, err)
	assert.True(t, core.IsArtifactLoad(err))
	assert.Contains(t, err.Error(), "nope.json")
}

func TestLoad_CorruptArtifact(t *testing.T) {
	dir := copyFixtures(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "label_binarizer.json"), []byte("{not json"), 0o644))

	_, err := Load(context.Background(), NewFileSource(dir), Names{})
	require.Error(t, err)
	assert.True(t, core.IsArtifactLoad(err))
}

func TestLoad_LabelCountMismatch(t *testing.T) {
	dir := copyFixtures(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "label_binarizer.json"),
		[]byte(`{"classes": ["bug", "feature"]}`), 0o644))

	_, err := Load(context.Background(), NewFileSource(dir), Names{})
	require.Error(t, err)
	assert.True(t, core.IsArtifactLoad(err))
	assert.Contains(t, err.Error(), "label codec has 2 classes")
}

func TestLoad_FeatureDimMismatch(t *testing.T) {
	dir := copyFixtures(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vectorizer.json"),
		[]byte(`{"vocabulary": {"crash": 0, "docs": 1}}`), 0o644))

	_, err := Load(context.Background(), NewFileSource(dir), Names{})
	require.Error(t, err)
	assert.True(t, core.IsArtifactLoad(err))
	assert.Contains(t, err.Error(), "vectorizer produces 2 features")
}

func TestNew_Incomplete(t *testing.T) {
	_, err := New(nil, nil, nil)
	require.Error(t, err)
	assert.True(t, core.IsArtifactLoad(err))
}

func TestPublish_RejectsIncompatible(t *testing.T) {
	ctx := context.Background()
	dir := copyFixtures(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "label_binarizer.json"),
		[]byte(`{"classes": ["bug"]}`), 0o644))

	mem := store.NewMemoryStore()
	defer mem.Close()

	err := Publish(ctx, NewFileSource(dir), mem, "", Names{})
	require.Error(t, err)
	_, getErr := mem.Get(ctx, "vectorizer.json")
	assert.True(t, core.IsStoreNotFound(getErr), "不兼容的模型文件不应被写入")
}

func TestNames_WithDefaults(t *testing.T) {
	n := Names{Classifier: "clf.json"}.WithDefaults()
	assert.Equal(t, []string{"vectorizer.json", "clf.json", "label_binarizer.json"}, n.List())
}

func copyFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range DefaultNames().List() {
		data, err := os.ReadFile(filepath.Join(fixtureDir, name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	return dir
}
