package localcache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mb3rlab/pilotdesk/internal/domain/model"
	"github.com/mb3rlab/pilotdesk/internal/domain/port/driven"
)

func newTestCache(t *testing.T) *FileCache {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(filepath.Join(t.TempDir(), "cache", FileName), logger)
}

func localSubmission(i int) model.Submission {
	return model.Submission{
		ID:        fmt.Sprintf("local-%d", i),
		Email:     fmt.Sprintf("lead%d@example.com", i),
		Company:   fmt.Sprintf("Company %d", i),
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute),
		Source:    model.SourceLocal,
	}
}

func TestFileCache_RoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	in := model.Submission{
		ID:        "local-9f1c",
		Email:     "a@b.com",
		Company:   "Acme",
		Comment:   "Pilot for Q3",
		Country:   "RU",
		CreatedAt: time.Date(2026, 2, 3, 4, 5, 6, 7, time.UTC),
		Source:    model.SourceLocal,
	}
	require.NoError(t, c.Record(ctx, in))

	// A fresh instance reads what the first one wrote.
	reopened := New(c.Path(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	got, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, in, got[0])
}

func TestFileCache_MostRecentFirst(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Record(ctx, localSubmission(1)))
	require.NoError(t, c.Record(ctx, localSubmission(2)))
	require.NoError(t, c.Record(ctx, localSubmission(3), localSubmission(4)))

	got, err := c.List(ctx)
	require.NoError(t, err)
	ids := make([]string, len(got))
	for i, s := range got {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"local-4", "local-3", "local-2", "local-1"}, ids)
}

func TestFileCache_CapEvictsOldest(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	for i := 1; i <= driven.LocalCacheCap; i++ {
		require.NoError(t, c.Record(ctx, localSubmission(i)))
	}
	got, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, driven.LocalCacheCap)
	assert.Equal(t, "local-1", got[len(got)-1].ID)

	require.NoError(t, c.Record(ctx, localSubmission(driven.LocalCacheCap+1)))

	got, err = c.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, driven.LocalCacheCap)
	assert.Equal(t, fmt.Sprintf("local-%d", driven.LocalCacheCap+1), got[0].ID)
	assert.Equal(t, "local-2", got[len(got)-1].ID)
}

func TestFileCache_BatchLargerThanCap(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	batch := make([]model.Submission, driven.LocalCacheCap+20)
	for i := range batch {
		batch[i] = localSubmission(i)
	}
	require.NoError(t, c.Record(ctx, batch...))

	got, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, driven.LocalCacheCap)
	assert.Equal(t, batch[len(batch)-1].ID, got[0].ID)
}

func TestFileCache_MissingFileListsEmpty(t *testing.T) {
	c := newTestCache(t)

	got, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileCache_CorruptFileListsEmptyAndRecovers(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, os.MkdirAll(filepath.Dir(c.Path()), 0o700))
	require.NoError(t, os.WriteFile(c.Path(), []byte("{not json"), 0o600))

	got, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, c.Record(ctx, localSubmission(1)))
	got, err = c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFileCache_MissingSourceReadsAsLocal(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(c.Path()), 0o700))
	require.NoError(t, os.WriteFile(c.Path(),
		[]byte(`[{"id":"local-1","email":"a@b.com","company":"Acme","created_at":"2026-01-01T00:00:00Z"}]`), 0o600))

	got, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.SourceLocal, got[0].Source)
}

func TestFileCache_Clear(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Clear(ctx), "clearing a missing cache is not an error")
	require.NoError(t, c.Record(ctx, localSubmission(1)))
	require.NoError(t, c.Clear(ctx))

	got, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileCache_ConcurrentRecords(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.Record(ctx, localSubmission(i)))
		}()
	}
	wg.Wait()

	got, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 20)
}
