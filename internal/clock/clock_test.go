package clock

import (
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/relogio-hw/relogio/log2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	name    string
	epoch   int64
	err     error
	queries int
}

func (m *mockSource) Name() string { return m.name }
func (m *mockSource) Query() (int64, error) {
	m.queries++
	if m.err != nil {
		return 0, m.err
	}
	return m.epoch, nil
}

func TestSynchronizeFirstSuccess(t *testing.T) {
	t.Parallel()

	bad := &mockSource{name: "bad.example", err: errors.New("unreachable")}
	good := &mockSource{name: "good.example", epoch: 1700000000}
	later := &mockSource{name: "later.example", epoch: 1600000000}
	m := NewManager(log2.NewTest(t, log2.LDebug), []Source{bad, good, later}, 0, time.Minute)

	i, err := m.Synchronize()
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	assert.True(t, m.IsSynced())
	assert.Equal(t, 1, m.ActiveSource())
	assert.Equal(t, "good.example", m.SourceName())
	// first-success policy: the remaining source is never consulted
	assert.Equal(t, 0, later.queries)

	epoch := m.EpochSeconds()
	assert.InDelta(t, 1700000000, epoch, 1)
	// 1700000000 = 2023-11-14 22:13:20 UTC, Tuesday
	assert.Equal(t, 22, m.Hours())
	assert.Equal(t, 13, m.Minutes())
	assert.Equal(t, 2, m.Weekday())
	y, mo, d := m.Date()
	assert.Equal(t, 2023, y)
	assert.Equal(t, time.November, mo)
	assert.Equal(t, 14, d)
}

func TestSynchronizeExhaustion(t *testing.T) {
	t.Parallel()

	b1 := &mockSource{name: "b1", err: errors.New("down")}
	b2 := &mockSource{name: "b2", err: errors.New("down")}
	m := NewManager(log2.NewTest(t, log2.LDebug), []Source{b1, b2}, 0, time.Minute)

	i, err := m.Synchronize()
	assert.Equal(t, -1, i)
	assert.True(t, errors.Cause(err) == ErrNoSource)
	assert.False(t, m.IsSynced())
	assert.Equal(t, int64(0), m.EpochSeconds())
}

func TestUTCOffset(t *testing.T) {
	t.Parallel()

	src := &mockSource{name: "s", epoch: 1700000000}
	// UTC-3, the original device's zone
	m := NewManager(log2.NewTest(t, log2.LDebug), []Source{src}, -3*3600, time.Minute)
	_, err := m.Synchronize()
	require.NoError(t, err)
	assert.Equal(t, 19, m.Hours())
}

func TestUpdateThrottle(t *testing.T) {
	t.Parallel()

	src := &mockSource{name: "s", epoch: 1700000000}
	m := NewManager(log2.NewTest(t, log2.LDebug), []Source{src}, 0, time.Hour)
	_, err := m.Synchronize()
	require.NoError(t, err)
	require.Equal(t, 1, src.queries)

	// inside the interval every Update is a timestamp comparison only
	for i := 0; i < 100; i++ {
		assert.True(t, m.Update())
	}
	assert.Equal(t, 1, src.queries)
}

func TestUpdateNeverSynced(t *testing.T) {
	t.Parallel()

	src := &mockSource{name: "s", err: errors.New("down")}
	m := NewManager(log2.NewTest(t, log2.LDebug), []Source{src}, 0, time.Nanosecond)
	// no Synchronize yet: Update must report "time not set"
	assert.False(t, m.Update())
	assert.Equal(t, 0, src.queries)
}

func TestUpdateFailureKeepsSync(t *testing.T) {
	t.Parallel()

	src := &mockSource{name: "s", epoch: 1700000000}
	m := NewManager(log2.NewTest(t, log2.LDebug), []Source{src}, 0, time.Nanosecond)
	_, err := m.Synchronize()
	require.NoError(t, err)

	src.err = errors.New("gone dark")
	time.Sleep(time.Millisecond)
	// stale but present: previous sync keeps ticking
	assert.True(t, m.Update())
	assert.True(t, m.IsSynced())
	assert.InDelta(t, 1700000000, m.EpochSeconds(), 2)
}
