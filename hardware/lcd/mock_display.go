package lcd

func NewMockTextDisplay(opt *TextDisplayConfig) *TextDisplay {
	dev := new(MockDevicer)
	display, err := NewTextDisplay(opt)
	if err != nil {
		panic(err)
	}
	display.dev = dev
	return display
}

type MockDevicer struct {
	Cleared int
}

var _ Devicer = new(MockDevicer)

func (self *MockDevicer) Clear()                              { self.Cleared++ }
func (self *MockDevicer) CursorYX(y, x uint8) bool            { return true }
func (self *MockDevicer) Write(b []byte)                      {}
func (self *MockDevicer) UploadGlyph(id byte, bitmap [8]byte) {}
