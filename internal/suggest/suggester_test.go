package suggest_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightsearch/internal/models"
	"github.com/dharmasatrya/flightsearch/internal/suggest"
)

type fakeAPI struct {
	calls  int32
	lookup func(ctx context.Context, text string) ([]models.Location, error)
}

func (f *fakeAPI) SuggestLocations(ctx context.Context, text string) ([]models.Location, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.lookup(ctx, text)
}

func location(code string) models.Location {
	return models.Location{SkyID: code, EntityID: "id-" + code, PresentationTitle: code}
}

func TestLookup(t *testing.T) {
	api := &fakeAPI{lookup: func(_ context.Context, text string) ([]models.Location, error) {
		return []models.Location{location("LHR"), location("LOND")}, nil
	}}
	s := suggest.New(api, nil, nil)

	got, err := s.Lookup(context.Background(), "lon")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, got, s.Options())
	assert.Equal(t, "lon", s.Input())
}

func TestLookup_ShortInputClearsWithoutCall(t *testing.T) {
	api := &fakeAPI{lookup: func(context.Context, string) ([]models.Location, error) {
		return []models.Location{location("LHR")}, nil
	}}
	s := suggest.New(api, nil, nil)

	_, err := s.Lookup(context.Background(), "lo")
	require.NoError(t, err)
	require.Len(t, s.Options(), 1)

	got, err := s.Lookup(context.Background(), "l")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, s.Options())
	assert.Equal(t, int32(1), atomic.LoadInt32(&api.calls))
}

func TestLookup_StaleResponseIsDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	api := &fakeAPI{lookup: func(_ context.Context, text string) ([]models.Location, error) {
		if text == "lo" {
			close(started)
			<-release
			return []models.Location{location("LOS")}, nil
		}
		return []models.Location{location("LHR")}, nil
	}}
	s := suggest.New(api, nil, nil)

	done := make(chan error, 1)
	go func() {
		_, err := s.Lookup(context.Background(), "lo")
		done <- err
	}()

	<-started
	_, err := s.Lookup(context.Background(), "lon")
	require.NoError(t, err)
	close(release)

	assert.ErrorIs(t, <-done, suggest.ErrStale)
	assert.Equal(t, []models.Location{location("LHR")}, s.Options())
}

func TestLookup_ErrorKeepsOptions(t *testing.T) {
	fail := false
	api := &fakeAPI{lookup: func(context.Context, string) ([]models.Location, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return []models.Location{location("JFK")}, nil
	}}
	s := suggest.New(api, nil, nil)

	_, err := s.Lookup(context.Background(), "new")
	require.NoError(t, err)

	fail = true
	_, err = s.Lookup(context.Background(), "new y")
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []models.Location{location("JFK")}, s.Options())
}

func TestReset(t *testing.T) {
	api := &fakeAPI{lookup: func(context.Context, string) ([]models.Location, error) {
		return []models.Location{location("JFK")}, nil
	}}
	s := suggest.New(api, nil, nil)

	_, err := s.Lookup(context.Background(), "jfk")
	require.NoError(t, err)
	s.Reset()
	assert.Empty(t, s.Options())
	assert.Empty(t, s.Input())
}
