package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abr-tools/abr-ingest/internal/ingest"
	"github.com/abr-tools/abr-ingest/internal/observability"
	"github.com/abr-tools/abr-ingest/internal/storage"
)

const currentDocText = `Current details for ABN 51 824 753 556
Entity name: ACME PTY LTD
ABN status: Active from 01 Jan 2020
Entity type: Australian Private Company

Goods & Services Tax (GST)
Registered from 01 Feb 2020

Main business location
VIC 3121

Record extracted 05 Jan 2026
`

const historicalDocText = `Historical details for ABN 53 004 085 616

Entity name From To
OLDCO PTY LTD 14 Feb 2000 30 Jun 2010
NEWCO PTY LTD 01 Jul 2010 (current)

ABN Status From To
Active 14 Feb 2000 (current)

Entity type: Australian Public Company

Main business location From To
NSW 2000 14 Feb 2000 (current)

Good & Services Tax (GST) From To
Registered 01 Jul 2000 (current)

ASIC registration
ACN 004 085 616

Record extracted 05 Jan 2026
`

// mapTextSource serves canned text per file path, standing in for the PDF
// extractor.
type mapTextSource struct {
	texts map[string]string
}

func (m *mapTextSource) Text(path string) (string, error) {
	return m.texts[path], nil
}

func TestIngestion_EndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := setupDatabase(t)
	ctx := context.Background()

	dir := t.TempDir()
	currentPath := filepath.Join(dir, "ABN_51824753556_Current_details.pdf")
	historicalPath := filepath.Join(dir, "ABN_53004085616_Historical_details.pdf")
	require.NoError(t, os.WriteFile(currentPath, []byte("current pdf bytes"), 0o644))
	require.NoError(t, os.WriteFile(historicalPath, []byte("historical pdf bytes"), 0o644))

	texts := &mapTextSource{texts: map[string]string{
		currentPath:    currentDocText,
		historicalPath: historicalDocText,
	}}

	repos := storage.NewRepositories(db)
	workflow := ingest.NewWorkflow(texts, repos.Registry, storage.NewBundleStore(db), observability.Nop())

	stats, err := workflow.ProcessDirectory(ctx, dir, ingest.BatchOptions{Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Success)
	assert.Equal(t, 0, stats.Failed)

	// Current document landed as an open status row.
	entity, err := repos.Entities.GetByABN(ctx, "51824753556")
	require.NoError(t, err)
	require.NotNil(t, entity.EntityName)
	assert.Equal(t, "ACME PTY LTD", *entity.EntityName)

	// Historical document derived its entity facts from the history rows.
	histEntity, err := repos.Entities.GetByABN(ctx, "53004085616")
	require.NoError(t, err)
	require.NotNil(t, histEntity.EntityName)
	assert.Equal(t, "OLDCO PTY LTD", *histEntity.EntityName)
	require.NotNil(t, histEntity.FirstActiveDate)
	assert.Equal(t, 2000, histEntity.FirstActiveDate.Year())

	profile, err := repos.Reports.Profile(ctx, "53004085616")
	require.NoError(t, err)
	assert.Len(t, profile.NameHistory, 2)
	assert.Len(t, profile.StatusHistory, 1)
	assert.Len(t, profile.GSTHistory, 1)
	require.Len(t, profile.ASICRegistration, 1)
	assert.Equal(t, "004085616", profile.ASICRegistration[0].ASICNumber)

	// Re-running the same directory skips everything by content hash.
	rerun, err := workflow.ProcessDirectory(ctx, dir, ingest.BatchOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, rerun.Success)
	assert.Equal(t, 2, rerun.Skipped)

	// A renamed copy of an ingested file is still skipped.
	renamed := filepath.Join(dir, "ABN_renamed_Current_details.pdf")
	require.NoError(t, os.WriteFile(renamed, []byte("current pdf bytes"), 0o644))
	result := workflow.ProcessFile(ctx, renamed)
	assert.Equal(t, ingest.OutcomeSkipped, result.Outcome)

	stats2, err := repos.Reports.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats2.TotalEntities)
	assert.Equal(t, int64(2), stats2.TotalDocuments)
	assert.Equal(t, int64(2), stats2.DocumentStatus["SUCCESS"])
}

func TestIngestion_FailureLeavesFailedRegistryRow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := setupDatabase(t)
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "ABN_bogus_Current_details.pdf")
	require.NoError(t, os.WriteFile(path, []byte("bogus bytes"), 0o644))

	texts := &mapTextSource{texts: map[string]string{path: "not an ABR extract at all"}}
	repos := storage.NewRepositories(db)
	workflow := ingest.NewWorkflow(texts, repos.Registry, storage.NewBundleStore(db), observability.Nop())

	result := workflow.ProcessFile(ctx, path)
	assert.Equal(t, ingest.OutcomeFailed, result.Outcome)

	hash, err := ingest.FileSHA256(path)
	require.NoError(t, err)
	doc, err := repos.Registry.GetByHash(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, storage.IngestionStatusFailed, doc.IngestionStatus)
	require.NotNil(t, doc.ErrorMessage)
	// The filename convention typed the row even though content did not.
	assert.Equal(t, "CURRENT", doc.DocumentType)

	// The bad file does not block a later good one, and the registry keeps
	// the failed row.
	stats, err := repos.Reports.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.DocumentStatus["FAILED"])
	assert.Equal(t, int64(0), stats.TotalEntities)
}

func TestReports_SearchFilters(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := setupDatabase(t)
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "ABN_51824753556_Current_details.pdf")
	require.NoError(t, os.WriteFile(path, []byte("current pdf bytes"), 0o644))

	texts := &mapTextSource{texts: map[string]string{path: currentDocText}}
	repos := storage.NewRepositories(db)
	workflow := ingest.NewWorkflow(texts, repos.Registry, storage.NewBundleStore(db), observability.Nop())
	require.Equal(t, ingest.OutcomeSuccess, workflow.ProcessFile(ctx, path).Outcome)

	byName, err := repos.Reports.Search(ctx, storage.SearchFilter{Query: "acme"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), byName.Total)

	byABN, err := repos.Reports.Search(ctx, storage.SearchFilter{Query: "51824"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), byABN.Total)

	byState, err := repos.Reports.Search(ctx, storage.SearchFilter{State: "VIC"})
	require.NoError(t, err)
	require.Equal(t, int64(1), byState.Total)
	require.NotNil(t, byState.Results[0].State)
	assert.Equal(t, "VIC", *byState.Results[0].State)

	miss, err := repos.Reports.Search(ctx, storage.SearchFilter{State: "QLD"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), miss.Total)
}
