package settle

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAllWaitsForEveryTask(t *testing.T) {
	var done atomic.Int32
	boom := errors.New("boom")

	results := All(context.Background(),
		func(ctx context.Context) (int, error) {
			time.Sleep(30 * time.Millisecond)
			done.Add(1)
			return 1, nil
		},
		func(ctx context.Context) (int, error) {
			done.Add(1)
			return 0, boom
		},
		func(ctx context.Context) (int, error) {
			done.Add(1)
			panic("bad task")
		},
	)

	require.Equal(t, int32(3), done.Load())
	require.Len(t, results, 3)
	require.Equal(t, 1, results[0].Value)
	require.NoError(t, results[0].Err)
	require.ErrorIs(t, results[1].Err, boom)
	require.ErrorContains(t, results[2].Err, "panicked")
}

func TestAllRunsConcurrently(t *testing.T) {
	start := time.Now()
	sleep := func(ctx context.Context) (struct{}, error) {
		time.Sleep(100 * time.Millisecond)
		return struct{}{}, nil
	}
	All(context.Background(), sleep, sleep, sleep, sleep)
	require.Less(t, time.Since(start), 350*time.Millisecond)
}
