package lcd

import (
	"bytes"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/juju/errors"
	"github.com/paulrosania/go-charset/charset"
	_ "github.com/paulrosania/go-charset/data"
)

const MaxWidth = 40

var spaceBytes = bytes.Repeat([]byte{' '}, MaxWidth)

// Devicer is the raw character LCD under the buffered text layer.
type Devicer interface {
	Clear()
	CursorYX(y, x uint8) bool
	Write(b []byte)
	UploadGlyph(id byte, bitmap [8]byte)
}

// TextDisplay is a line-buffered view over a fixed-width character LCD.
// Tracks current content so renderers can rewrite lines without flicker.
type TextDisplay struct { //nolint:maligned
	mu    sync.Mutex
	dev   Devicer
	tr    atomic.Value
	width uint32
	state State
	upd   chan<- State
}

type TextDisplayConfig struct {
	Codepage string
	Width    uint32
}

func NewTextDisplay(opt *TextDisplayConfig) (*TextDisplay, error) {
	if opt == nil {
		panic("code error TODO make default TextDisplayConfig")
	}
	width := opt.Width
	if width == 0 {
		width = Columns
	}
	self := &TextDisplay{
		width: width,
	}

	if opt.Codepage != "" {
		if err := self.SetCodepage(opt.Codepage); err != nil {
			return nil, errors.Trace(err)
		}
	}

	return self, nil
}

func (self *TextDisplay) SetCodepage(cp string) error {
	self.mu.Lock()
	defer self.mu.Unlock()

	tr, err := charset.TranslatorTo(cp)
	if err != nil {
		return err
	}
	self.tr.Store(tr)
	return nil
}

func (self *TextDisplay) SetDevice(dev Devicer) {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.dev = dev
}

func (self *TextDisplay) Width() uint32 { return atomic.LoadUint32(&self.width) }

func (self *TextDisplay) Clear() {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.state.Clear()
	if self.dev != nil {
		self.dev.Clear()
	}
	if self.upd != nil {
		self.upd <- self.state.Copy()
	}
}

// UploadGlyphs loads the big-digit font into device CGRAM.
func (self *TextDisplay) UploadGlyphs() {
	self.mu.Lock()
	defer self.mu.Unlock()

	if self.dev == nil {
		return
	}
	for id, bitmap := range BigGlyphs {
		self.dev.UploadGlyph(byte(id), bitmap)
	}
}

// nil: don't change
// len=0: set empty
func (self *TextDisplay) SetLinesBytes(b1, b2 []byte) {
	self.mu.Lock()
	defer self.mu.Unlock()

	if b1 != nil {
		self.state.L1 = b1
	}
	if b2 != nil {
		self.state.L2 = b2
	}
	self.flush()
}

func (self *TextDisplay) SetLines(line1, line2 string) {
	self.SetLinesBytes(
		self.Translate(line1),
		self.Translate(line2))
}

// sometimes returns slice into shared spaceBytes
// sometimes returns `b` (len>=width-1)
// sometimes allocates new buffer
func (self *TextDisplay) JustCenter(b []byte) []byte {
	l := len(b)
	w := int(atomic.LoadUint32(&self.width))

	// optimize short paths
	if l == 0 {
		return spaceBytes[:w]
	}
	if l >= w-1 {
		return b
	}
	padtotal := w - l
	n := padtotal / 2
	padleft := spaceBytes[:n]
	padright := spaceBytes[:n+padtotal%2] // account for odd length
	buf := make([]byte, 0, w)
	buf = append(append(append(buf, padleft...), b...), padright...)
	return buf
}

// returns `b` when len>=width
// otherwise pads with spaces
func (self *TextDisplay) PadRight(b []byte) []byte {
	return PadSpace(b, self.width)
}

func (self *TextDisplay) Translate(s string) []byte {
	if len(s) == 0 {
		return spaceBytes[:0]
	}

	// pad by default, \x00 marks place for cursor
	pad := true
	if s[len(s)-1] == '\x00' {
		pad = false
		s = s[:len(s)-1]
	}

	result := []byte(s)
	tr, ok := self.tr.Load().(charset.Translator)
	if ok && tr != nil {
		_, tb, err := tr.Translate(result, true)
		if err != nil {
			panic(err)
		}
		// translator reuses single internal buffer, make a copy
		result = append([]byte(nil), tb...)
	}

	if pad {
		result = self.PadRight(result)
	}
	return result
}

func (self *TextDisplay) SetUpdateChan(ch chan<- State) {
	self.upd = ch
}

func (self *TextDisplay) State() State { return self.state.Copy() }

func (self *TextDisplay) flush() {
	var buf1 [MaxWidth]byte
	var buf2 [MaxWidth]byte
	b1 := buf1[:self.width]
	b2 := buf2[:self.width]
	n1 := copy(b1, self.state.L1)
	n2 := copy(b2, self.state.L2)
	copy(b1[n1:], spaceBytes)
	copy(b2[n2:], spaceBytes)

	// rewrite whole lines without clear, looks smoother
	if self.dev != nil {
		self.dev.CursorYX(1, 1)
		self.dev.Write(b1)
		self.dev.CursorYX(2, 1)
		self.dev.Write(b2)
	}

	if self.upd != nil {
		self.upd <- self.state.Copy()
	}
}

type State struct {
	L1, L2 []byte
}

func (s *State) Clear() {
	s.L1 = nil
	s.L2 = nil
}

func (s State) Copy() State {
	return State{
		L1: append([]byte(nil), s.L1...),
		L2: append([]byte(nil), s.L2...),
	}
}

func (s State) Format(width uint32) string {
	return fmt.Sprintf("%s\n%s",
		PadSpace(s.L1, width),
		PadSpace(s.L2, width),
	)
}

func (s State) String() string {
	return fmt.Sprintf("%s\n%s", s.L1, s.L2)
}

func PadSpace(b []byte, width uint32) []byte {
	l := uint32(len(b))

	if l == 0 {
		return spaceBytes[:width]
	}
	if l >= width {
		return b
	}
	buf := make([]byte, 0, width)
	buf = append(append(buf, b...), spaceBytes[:width-l]...)
	return buf
}

// ScrollWindow fills buf with the visible slice of content at scroll
// position offset. Content is treated as circular: column i shows
// content[(offset+i) % len], so the text loops seamlessly with no gap.
// Empty content yields all spaces.
func ScrollWindow(buf []byte, content []byte, offset uint32) {
	length := uint32(len(content))
	if length == 0 {
		copy(buf, spaceBytes[:len(buf)])
		return
	}
	for i := range buf {
		buf[i] = content[(offset+uint32(i))%length]
	}
}
