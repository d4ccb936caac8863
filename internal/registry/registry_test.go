package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23A91A0565/polystreamx/internal/apperr"
	"github.com/23A91A0565/polystreamx/internal/model"
)

func sampleRequest() model.ExportRequest {
	return model.ExportRequest{Format: model.FormatCSV, Columns: []model.ColumnMapping{{Source: model.SourceID, Target: "ID"}}}
}

func TestCreateAssignsDistinctIDs(t *testing.T) {
	reg := New()
	job1 := reg.Create(sampleRequest())
	job2 := reg.Create(sampleRequest())

	assert.NotEqual(t, job1.ID, job2.ID)
	assert.Equal(t, model.StatusPending, job1.Status)
}

func TestGetUnknownIDReturnsJobNotFound(t *testing.T) {
	reg := New()
	_, err := reg.Get("does-not-exist")
	assert.ErrorIs(t, err, apperr.ErrJobNotFound)
}

func TestStatusTransitions(t *testing.T) {
	reg := New()
	job := reg.Create(sampleRequest())

	reg.MarkInProgress(job.ID)
	got, err := reg.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, got.Status)

	reg.MarkCompleted(job.ID)
	got, err = reg.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)
}

func TestMarkFailedRecordsErrorText(t *testing.T) {
	reg := New()
	job := reg.Create(sampleRequest())

	reg.MarkFailed(job.ID, "export failed")
	got, err := reg.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, got.Status)
	assert.Equal(t, "export failed", got.Error)
}

func TestConcurrentCreateIsRaceFree(t *testing.T) {
	reg := New()
	var wg sync.WaitGroup
	ids := make(chan string, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- reg.Create(sampleRequest()).ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id])
		seen[id] = true
	}
	assert.Len(t, seen, 50)
}
