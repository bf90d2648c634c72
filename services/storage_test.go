package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	tempDir := t.TempDir()
	storage := NewLocalStorage(tempDir)
	ctx := context.Background()
	key := "reports/sub-1/2024/03/report.md"
	content := "# Relatório\n\nUso das salas"

	t.Run("Put creates file", func(t *testing.T) {
		result, err := storage.Put(ctx, key, []byte(content), "text/markdown")
		require.NoError(t, err)
		assert.Equal(t, key, result.Key)
		assert.Equal(t, int64(len(content)), result.FileSize)

		_, err = os.Stat(filepath.Join(tempDir, key))
		assert.NoError(t, err)
	})

	t.Run("Get returns content and type", func(t *testing.T) {
		reader, contentType, err := storage.Get(ctx, key)
		require.NoError(t, err)
		defer reader.Close()

		got, _ := io.ReadAll(reader)
		assert.Equal(t, content, string(got))
		assert.Equal(t, "text/markdown; charset=utf-8", contentType)
	})

	t.Run("keys cannot escape the base directory", func(t *testing.T) {
		_, err := storage.Put(ctx, "../../outside.md", []byte("x"), "text/plain")
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(tempDir, "outside.md"))
		assert.NoError(t, err)

		_, err = storage.Put(ctx, "", []byte("x"), "text/plain")
		assert.Error(t, err)
	})

	t.Run("Delete removes file and tolerates missing keys", func(t *testing.T) {
		require.NoError(t, storage.Delete(ctx, key))
		_, err := os.Stat(filepath.Join(tempDir, key))
		assert.True(t, os.IsNotExist(err))

		assert.NoError(t, storage.Delete(ctx, key))
	})

	t.Run("Get of missing key fails", func(t *testing.T) {
		_, _, err := storage.Get(ctx, "reports/missing.md")
		assert.Error(t, err)
	})

	t.Run("signed URL is the local path", func(t *testing.T) {
		signed, err := storage.GetSignedURL(ctx, "some/key.md", time.Hour)
		require.NoError(t, err)
		assert.Equal(t, "/"+filepath.Join(tempDir, "some/key.md"), signed)
	})
}

func TestGenerateReportKey(t *testing.T) {
	at := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
	key := GenerateReportKey("sub-1", at)

	assert.True(t, strings.HasPrefix(key, "reports/sub-1/2024/03/"), key)
	assert.True(t, strings.HasSuffix(key, ".md"), key)
	assert.NotEqual(t, key, GenerateReportKey("sub-1", at))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", contentTypeFor("a/b.xlsx"))
	assert.Equal(t, "text/plain; charset=utf-8", contentTypeFor("a/b.TXT"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("a/b.bin"))
}
