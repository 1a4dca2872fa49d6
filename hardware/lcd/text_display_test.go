package lcd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScrollWindow(t *testing.T) {
	t.Parallel()

	const width = 16
	canonical := func(input string, offset uint32) string {
		out := make([]byte, width)
		for i := 0; i < width; i++ {
			out[i] = input[(int(offset)+i)%len(input)]
		}
		return string(out)
	}

	cases := []struct {
		name  string
		input string
	}{
		{"short", "foobar"},
		{"full", "full-length-line"},
		{"long1", "too-much-very-long-line"},
		{"long2", "too-much-very-long-line1;too-much-very-long-line2"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			for offset := uint32(0); offset < uint32(len(c.input)*3); offset++ {
				var buf [width]byte
				ScrollWindow(buf[:], []byte(c.input), offset)
				expect := canonical(c.input, offset)
				result := string(buf[:])
				if result != expect {
					t.Errorf("input=(%d)'%s' offset=%d expected='%s' actual='%s'",
						len(c.input), c.input, offset, expect, result)
				}
			}
		})
	}
}

func TestScrollWindowPeriodic(t *testing.T) {
	t.Parallel()

	const width = 16
	input := []byte("periodic-scroll-content")
	period := uint32(len(input))
	for offset := uint32(0); offset < period; offset++ {
		var b1, b2 [width]byte
		ScrollWindow(b1[:], input, offset)
		ScrollWindow(b2[:], input, offset+period)
		assert.Equal(t, string(b1[:]), string(b2[:]), "offset=%d", offset)
	}
}

func TestScrollWindowEmpty(t *testing.T) {
	t.Parallel()

	var buf [16]byte
	ScrollWindow(buf[:], nil, 7)
	assert.Equal(t, strings.Repeat(" ", 16), string(buf[:]))
}

func TestSetLines(t *testing.T) {
	t.Parallel()

	d := NewMockTextDisplay(&TextDisplayConfig{Width: 8})
	ch := make(chan State, 1)
	d.SetUpdateChan(ch)
	d.SetLines("hello", "cursor\x00")
	assert.Equal(t, "hello   \ncursor", (<-ch).String())
}

func TestJustCenter(t *testing.T) {
	t.Parallel()

	d, err := NewTextDisplay(&TextDisplayConfig{Width: 8})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, []byte("longlong"), d.JustCenter([]byte("longlong")))
	assert.Equal(t, []byte("longlon"), d.JustCenter([]byte("longlon")))
	assert.Equal(t, []byte("  long  "), d.JustCenter([]byte("long")))
	assert.Equal(t, []byte("   1    "), d.JustCenter([]byte("1")))
}

func TestBigDigits(t *testing.T) {
	t.Parallel()

	l1 := make([]byte, 16)
	l2 := make([]byte, 16)
	for i := range l1 {
		l1[i] = ' '
		l2[i] = ' '
	}
	BigNumber(l1, l2, 42, 0)
	// digit 4 occupies columns 0-2, digit 2 columns 4-6
	assert.Equal(t, []byte{glyphLL, glyphLB, glyphBlock}, l1[0:3])
	assert.Equal(t, []byte{bigSpace, bigSpace, glyphBlock}, l2[0:3])
	assert.Equal(t, []byte{glyphMB, glyphMB, glyphRT}, l1[4:7])
	assert.Equal(t, []byte{glyphLL, glyphLB, glyphLB}, l2[4:7])
	// separator column untouched
	assert.Equal(t, byte(' '), l1[3])
}
