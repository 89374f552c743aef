package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunChecks_StopsAtFirstFailure(t *testing.T) {
	var ran []string
	checks := []healthCheck{
		{"Redis", func(context.Context) error { ran = append(ran, "redis"); return nil }},
		{"PostgreSQL", func(context.Context) error { ran = append(ran, "pg"); return errors.New("refused") }},
		{"MinIO", func(context.Context) error { ran = append(ran, "minio"); return nil }},
	}

	err := runChecks(context.Background(), checks)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PostgreSQL failed")
	assert.Equal(t, []string{"redis", "pg"}, ran)
}

func TestEnvInt_FallsBack(t *testing.T) {
	t.Setenv("WORKER_CONCURRENCY", "abc")
	assert.Equal(t, 5, envInt("WORKER_CONCURRENCY", 5))

	t.Setenv("WORKER_CONCURRENCY", "12")
	assert.Equal(t, 12, envInt("WORKER_CONCURRENCY", 5))
}
