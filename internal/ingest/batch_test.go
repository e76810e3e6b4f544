package ingest

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abr-tools/abr-ingest/internal/observability"
)

func TestWorkflow_ProcessDirectory_MixedOutcomes(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "ABN_1_Current_details.pdf")
	bad := filepath.Join(dir, "ABN_2_Current_details.pdf")
	ignored := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(good, []byte("good bytes"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("bad bytes"), 0o644))
	require.NoError(t, os.WriteFile(ignored, []byte("ignored"), 0o644))

	texts := &fakeTextSource{texts: map[string]string{
		good: testCurrentText,
		bad:  "unreadable garbage",
	}}
	w := NewWorkflow(texts, newFakeRegistry(), &fakeStore{}, observability.Nop())

	var mu sync.Mutex
	var seen []FileResult
	stats, err := w.ProcessDirectory(context.Background(), dir, BatchOptions{
		Workers: 3,
		OnResult: func(r FileResult) {
			mu.Lock()
			seen = append(seen, r)
			mu.Unlock()
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Success)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 0, stats.Skipped)
	assert.Equal(t, 2, stats.Total())
	assert.Len(t, seen, 2)
}

func TestWorkflow_ProcessDirectory_RerunSkipsEverything(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ABN_1_Current_details.pdf")
	require.NoError(t, os.WriteFile(path, []byte("bytes"), 0o644))

	texts := &fakeTextSource{texts: map[string]string{path: testCurrentText}}
	registry := newFakeRegistry()
	w := NewWorkflow(texts, registry, &fakeStore{}, observability.Nop())

	first, err := w.ProcessDirectory(context.Background(), dir, BatchOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, first.Success)

	second, err := w.ProcessDirectory(context.Background(), dir, BatchOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Success)
	assert.Equal(t, 1, second.Skipped)
}

func TestWorkflow_ProcessDirectory_EmptyDir(t *testing.T) {
	w := NewWorkflow(&fakeTextSource{}, newFakeRegistry(), &fakeStore{}, observability.Nop())

	stats, err := w.ProcessDirectory(context.Background(), t.TempDir(), BatchOptions{})

	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total())
}

func TestWorkflow_ProcessDirectory_CustomPattern(t *testing.T) {
	dir := t.TempDir()
	match := filepath.Join(dir, "extract_1.pdf")
	miss := filepath.Join(dir, "ABN_1.pdf")
	require.NoError(t, os.WriteFile(match, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(miss, []byte("b"), 0o644))

	texts := &fakeTextSource{texts: map[string]string{match: testCurrentText}}
	w := NewWorkflow(texts, newFakeRegistry(), &fakeStore{}, observability.Nop())

	stats, err := w.ProcessDirectory(context.Background(), dir, BatchOptions{Pattern: "extract_*.pdf"})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total())
	assert.Equal(t, 1, stats.Success)
}
