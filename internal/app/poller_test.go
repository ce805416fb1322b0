package app_test

import (
	"context"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/Amund211/clientboard/internal/adapters/cache"
	"github.com/Amund211/clientboard/internal/app"
	"github.com/Amund211/clientboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunProjectPoller(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		var calls atomic.Int64
		getProject := func(ctx context.Context, force bool) (domain.ProjectSnapshot, error) {
			assert.False(t, force)
			if calls.Add(1)%2 == 0 {
				return domain.ProjectSnapshot{}, assert.AnError
			}
			return domain.ProjectSnapshot{ListID: "901"}, nil
		}

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan struct{})
		go func() {
			defer close(done)
			app.RunProjectPoller(ctx, getProject, 5*time.Minute, time.After)
		}()

		synctest.Wait()
		require.Equal(t, int64(0), calls.Load())

		// Failures do not stop the poller
		time.Sleep(16 * time.Minute)
		synctest.Wait()
		require.Equal(t, int64(3), calls.Load())

		cancel()
		<-done
		require.Equal(t, int64(3), calls.Load())
	})
}

func TestRunProjectPollerRespectsRefreshInterval(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		projectCache := cache.NewWindowedCache[domain.ProjectSnapshot](time.Hour, time.Now)
		provider := &listEchoProvider{now: time.Now()}
		repo := &mockSnapshotRepository{t: t}
		getProject := app.BuildGetProject(
			projectCache,
			staticSettings(domain.Settings{ListID: "901", RefreshInterval: time.Hour}),
			provider,
			repo,
		)

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan struct{})
		go func() {
			defer close(done)
			app.RunProjectPoller(ctx, getProject, 5*time.Minute, time.After)
		}()

		// First poll at 5m fetches, the next eleven polls are within the window
		time.Sleep(61 * time.Minute)
		synctest.Wait()
		require.Len(t, provider.fetched, 1)

		// The poll at 65m is one hour after the first fetch
		time.Sleep(5 * time.Minute)
		synctest.Wait()
		require.Len(t, provider.fetched, 2)

		cancel()
		<-done
	})
}
