package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw    int32
		expect Button
	}{
		{-1000, ButtonNone},
		{-1, ButtonNone},
		{0, ButtonRight},
		{50, ButtonRight},
		{100, ButtonRight},
		{101, ButtonUp},
		{200, ButtonUp},
		{300, ButtonUp},
		{301, ButtonDown},
		{600, ButtonDown},
		{601, ButtonLeft},
		{900, ButtonLeft},
		{901, ButtonSelect},
		{1010, ButtonSelect},
		{1011, ButtonNone},
		{1023, ButtonNone},
		{32767, ButtonNone},
	}
	for _, c := range cases {
		assert.Equal(t, c.expect, Decode(c.raw), "raw=%d", c.raw)
	}
}

func TestDecodeTotal(t *testing.T) {
	t.Parallel()

	// every sample in the envelope maps to exactly one defined button
	for raw := int32(-10); raw <= 1100; raw++ {
		b := Decode(raw)
		assert.True(t, b <= ButtonRight, "raw=%d button=%d", raw, b)
	}
}

type stubSource struct {
	name string
	raw  int32
}

func (s *stubSource) String() string          { return s.name }
func (s *stubSource) ReadRaw() (int32, error) { return s.raw, nil }

func TestMultiFirstPressedWins(t *testing.T) {
	t.Parallel()

	idle := &stubSource{name: "idle", raw: NoPress}
	pressed := &stubSource{name: "pressed", raw: 700}
	m := Multi{idle, pressed, &stubSource{name: "other", raw: 50}}
	raw, err := m.ReadRaw()
	assert.NoError(t, err)
	assert.Equal(t, ButtonLeft, Decode(raw))
}

func TestMultiAllIdle(t *testing.T) {
	t.Parallel()

	m := Multi{&stubSource{name: "a", raw: NoPress}, &stubSource{name: "b", raw: 1020}}
	raw, err := m.ReadRaw()
	assert.NoError(t, err)
	assert.Equal(t, ButtonNone, Decode(raw))
}
