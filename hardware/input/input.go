// Abstract button input. One scalar sample per read, range-bucketed into
// discrete buttons. Sampling rate limit is the caller's debounce.
package input

type Button uint8

const (
	ButtonNone Button = iota
	ButtonSelect
	ButtonLeft
	ButtonDown
	ButtonUp
	ButtonRight
)

func (b Button) String() string {
	switch b {
	case ButtonNone:
		return "none"
	case ButtonSelect:
		return "select"
	case ButtonLeft:
		return "left"
	case ButtonDown:
		return "down"
	case ButtonUp:
		return "up"
	case ButtonRight:
		return "right"
	}
	return "invalid"
}

// NoPress is a raw sample safely inside the "nothing pressed" bucket.
const NoPress int32 = 1023

// Decode maps a raw sample from the resistor ladder to a button.
// Buckets are contiguous and ordered from the open-circuit level down.
// Anything outside the envelope, including negative, reads as no press.
func Decode(raw int32) Button {
	switch {
	case raw > 1010:
		return ButtonNone
	case raw > 900:
		return ButtonSelect
	case raw > 600:
		return ButtonLeft
	case raw > 300:
		return ButtonDown
	case raw > 100:
		return ButtonUp
	case raw >= 0:
		return ButtonRight
	}
	return ButtonNone
}

// Source yields one raw sample per call without blocking.
type Source interface {
	ReadRaw() (int32, error)
	String() string
}

// Multi polls sources in order, first pressed sample wins.
type Multi []Source

var _ Source = Multi(nil)

func (m Multi) String() string { return "multi" }

func (m Multi) ReadRaw() (int32, error) {
	for _, src := range m {
		raw, err := src.ReadRaw()
		if err != nil {
			return NoPress, err
		}
		if Decode(raw) != ButtonNone {
			return raw, nil
		}
	}
	return NoPress, nil
}
