package vecseed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/vecseed/ai"
	aimock "github.com/poiesic/vecseed/ai/mock"
	"github.com/poiesic/vecseed/core"
	"github.com/poiesic/vecseed/ingestion"
	storagemock "github.com/poiesic/vecseed/storage/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpus(t *testing.T) (docsDir, metadataPath string) {
	t.Helper()
	root := t.TempDir()
	docsDir = filepath.Join(root, "docs")
	require.NoError(t, os.MkdirAll(docsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(docsDir, "leave.txt"), []byte("Employees accrue two days of leave per month."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(docsDir, "travel.txt"), []byte("Travel must be booked through the portal."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(docsDir, "ignored.pdf.bak"), []byte("not a document"), 0o644))

	metadataPath = filepath.Join(root, "metadata.json")
	require.NoError(t, os.WriteFile(metadataPath, []byte(`{"documents":[{"filename":"leave.txt","department":"HR"}]}`), 0o644))
	return docsDir, metadataPath
}

func testConfig(t *testing.T) Config {
	t.Helper()
	docsDir, metadataPath := writeCorpus(t)
	cfg := DefaultConfig()
	cfg.Ingestion.TargetIndex = "handbook"
	cfg.DocsPath = docsDir
	cfg.MetadataPath = metadataPath
	cfg.Extensions = []string{".txt"}
	cfg.BadgerPath = filepath.Join(t.TempDir(), "index")
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	t.Run("default is valid", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().Validate())
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.IndexBackend = "pinecone"
		assert.ErrorIs(t, cfg.Validate(), ErrUnknownBackend)
	})

	t.Run("postgres needs dsn", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.IndexBackend = BackendPostgres
		assert.Error(t, cfg.Validate())
	})

	t.Run("docs path required", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DocsPath = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("ingestion settings checked", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Ingestion.BatchSize = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestOpen_BootstrapsOnce(t *testing.T) {
	cfg := testConfig(t)
	provider := aimock.NewMockProvider()

	s, err := Open(context.Background(), cfg, WithProvider(provider))
	require.NoError(t, err)
	defer s.Close()

	summary, err := s.Run(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "handbook", summary.TargetIndex)
	assert.Equal(t, 2, summary.Loaded)
	assert.Equal(t, 2, summary.Upserted)

	status, err := s.Status(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, status.Populated)
	assert.Equal(t, 2, status.Count)

	again, err := s.Run(context.Background(), "handbook")
	require.NoError(t, err)
	assert.True(t, again.AlreadyPopulated)
}

func TestOpen_WithCache(t *testing.T) {
	cfg := testConfig(t)
	cfg.EmbeddingCacheSize = 16
	embedder := aimock.NewMockEmbedder()

	s, err := Open(context.Background(), cfg, WithProvider(aimock.NewMockProviderWithEmbedder(embedder)))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Run(context.Background(), "first")
	require.NoError(t, err)
	_, err = s.Run(context.Background(), "second")
	require.NoError(t, err)

	// The second index is built from cached embeddings.
	assert.Equal(t, 1, embedder.CallCount())
}

func TestOpen_WithInjectedCollaborators(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ingestion.TargetIndex = "docs"
	index := storagemock.NewMockIndex()
	provider := aimock.NewMockProvider()

	s, err := Open(context.Background(), cfg, WithProvider(provider), WithIndex(index),
		WithDocumentSource(emptySource{}))
	require.NoError(t, err)

	_, err = s.Run(context.Background(), "")
	assert.ErrorIs(t, err, ingestion.ErrNoDocumentsFound)
	assert.Empty(t, index.UpsertCalls())

	require.NoError(t, s.Close())
	assert.True(t, index.Closed())
	assert.True(t, provider.(*aimock.MockProvider).Closed())
}

func TestOpen_InvalidIndexPath(t *testing.T) {
	cfg := testConfig(t)
	tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
	require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0o644))
	cfg.BadgerPath = tmpFile

	s, err := Open(context.Background(), cfg, WithProvider(aimock.NewMockProvider()))
	assert.Error(t, err)
	assert.Nil(t, s)
}

func TestOpen_InvalidProviderClosesIndex(t *testing.T) {
	cfg := testConfig(t)
	cfg.AI = ai.NewConfig(ai.WithProvider("unknown"))
	index := storagemock.NewMockIndex()

	_, err := Open(context.Background(), cfg, WithIndex(index))
	require.Error(t, err)
	assert.True(t, index.Closed())
}

func TestStatus_RequiresTarget(t *testing.T) {
	cfg := DefaultConfig()
	s, err := Open(context.Background(), cfg, WithProvider(aimock.NewMockProvider()),
		WithIndex(storagemock.NewMockIndex()), WithDocumentSource(emptySource{}))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Status(context.Background(), "")
	assert.ErrorIs(t, err, ingestion.ErrTargetIndexRequired)
}

type emptySource struct{}

func (emptySource) Load(ctx context.Context) ([]core.Document, error) { return nil, nil }
