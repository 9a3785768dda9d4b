// internal/poller/poller_test.go
package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/ntpclock/internal/calendar"
)

type fakeReader struct {
	d   calendar.DateTime
	err error
}

func (f *fakeReader) Read() (calendar.DateTime, error) {
	return f.d, f.err
}

func TestNew_Rejects(t *testing.T) {
	_, err := New(Config{}, &fakeReader{})
	assert.Error(t, err)

	_, err = New(Config{Interval: time.Second}, nil)
	assert.Error(t, err)
}

func TestPollOnce_Success(t *testing.T) {
	want := calendar.FromInstant(1703011200)

	p, err := New(Config{Interval: time.Second}, &fakeReader{d: want})
	require.NoError(t, err)

	res := p.PollOnce()
	require.NoError(t, res.Err)
	assert.Equal(t, want, res.Clock)
}

func TestPollOnce_Failure(t *testing.T) {
	p, err := New(Config{Interval: time.Second}, &fakeReader{err: errors.New("bus fault")})
	require.NoError(t, err)

	res := p.PollOnce()
	assert.Error(t, res.Err)
	assert.Zero(t, res.Clock)
}

func TestRun_EmitsPerTick(t *testing.T) {
	mock := clock.NewMock()

	p, err := New(Config{Interval: time.Second}, &fakeReader{d: calendar.FromInstant(0)})
	require.NoError(t, err)
	p.Clock = mock

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan PollResult)
	done := make(chan struct{})
	go func() {
		p.Run(ctx, out)
		close(done)
	}()

	// wait for the ticker to be registered before advancing
	time.Sleep(10 * time.Millisecond)

	for i := 0; i < 3; i++ {
		mock.Add(time.Second)
		select {
		case res := <-out:
			assert.NoError(t, res.Err)
			assert.Equal(t, 1970, res.Clock.Year)
		case <-time.After(time.Second):
			t.Fatalf("tick %d: no result", i)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
