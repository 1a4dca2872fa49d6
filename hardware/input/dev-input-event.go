package input

import (
	"io"
	"os"

	"github.com/juju/errors"
	"github.com/temoto/inputevent-go"
)

const DevInputEventTag = "dev-input-event"

// Linux input key codes carried by EV_KEY events.
const (
	keyEnter = 28
	keyUp    = 103
	keyLeft  = 105
	keyRight = 106
	keyDown  = 108
)

// DevInputEventSource adapts a /dev/input/eventN keyboard to the raw
// sample contract: key presses become synthetic ladder levels in the
// middle of the matching decode bucket, so Decode stays the single
// mapping point for all sources.
type DevInputEventSource struct {
	f  io.ReadCloser
	ch chan int32
}

var _ Source = new(DevInputEventSource)

func (self *DevInputEventSource) String() string { return DevInputEventTag }

func NewDevInputEventSource(device string) (*DevInputEventSource, error) {
	f, err := os.Open(device)
	if err != nil {
		return nil, err
	}
	self := &DevInputEventSource{
		f:  f,
		ch: make(chan int32, 16),
	}
	go self.readLoop()
	return self, nil
}

// ReadRaw never blocks: returns the oldest buffered key press or NoPress.
func (self *DevInputEventSource) ReadRaw() (int32, error) {
	select {
	case raw, ok := <-self.ch:
		if !ok {
			return NoPress, errors.Errorf("%s: device closed", DevInputEventTag)
		}
		return raw, nil
	default:
		return NoPress, nil
	}
}

func (self *DevInputEventSource) Close() error { return self.f.Close() }

func (self *DevInputEventSource) readLoop() {
	for {
		ie, err := inputevent.ReadOne(self.f)
		if err != nil {
			close(self.ch)
			return
		}
		if ie.Type != inputevent.EV_KEY || ie.Value != int32(inputevent.KeyStateDown) {
			continue
		}
		raw := NoPress
		switch ie.Code {
		case keyEnter:
			raw = 950
		case keyLeft:
			raw = 700
		case keyDown:
			raw = 400
		case keyUp:
			raw = 200
		case keyRight:
			raw = 50
		}
		if raw == NoPress {
			continue
		}
		select {
		case self.ch <- raw:
		default: // drop on overflow, next sample tick catches up
		}
	}
}
