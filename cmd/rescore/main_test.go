package main

import (
	"testing"

	"github.com/ajharbinger/poolvest-insights/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRunChunks(t *testing.T) {
	ids := make([]uuid.UUID, 7)
	for i := range ids {
		ids[i] = uuid.New()
	}

	var sizes []int
	total := runChunks(ids, 3, func(chunk []uuid.UUID) (services.BatchSummary, []services.BatchItemError) {
		sizes = append(sizes, len(chunk))
		return services.BatchSummary{TotalProcessed: len(chunk), Successful: len(chunk) - 1, Failed: 1},
			[]services.BatchItemError{{ID: chunk[0], Error: "user not found"}}
	})

	assert.Equal(t, []int{3, 3, 1}, sizes)
	assert.Equal(t, services.BatchSummary{TotalProcessed: 7, Successful: 4, Failed: 3}, total)
}

func TestRunChunks_Empty(t *testing.T) {
	called := false
	total := runChunks(nil, 10, func([]uuid.UUID) (services.BatchSummary, []services.BatchItemError) {
		called = true
		return services.BatchSummary{}, nil
	})
	assert.False(t, called)
	assert.Zero(t, total)
}
