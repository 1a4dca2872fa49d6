package input

import (
	"github.com/juju/errors"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/experimental/devices/ads1x15"
	"periph.io/x/periph/host"
)

const AnalogTag = "analog-ads1115"

// AnalogSource reads the button resistor ladder through an ADS1115 ADC.
// The ladder was designed for a 10-bit analog pin, so samples are scaled
// back to the 0..1023 envelope the decode thresholds expect.
type AnalogSource struct {
	bus i2c.BusCloser
	pin ads1x15.PinADC
}

var _ Source = new(AnalogSource)

type AnalogConfig struct {
	Enable  bool   `hcl:"enable"`
	I2CBus  string `hcl:"i2c_bus"`
	Channel int    `hcl:"channel"`
}

func (self *AnalogSource) String() string { return AnalogTag }

func NewAnalogSource(conf AnalogConfig) (*AnalogSource, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Annotate(err, "periph host init")
	}
	bus, err := i2creg.Open(conf.I2CBus)
	if err != nil {
		return nil, errors.Annotatef(err, "i2c open bus=%s", conf.I2CBus)
	}
	adc, err := ads1x15.NewADS1115(bus, &ads1x15.DefaultOpts)
	if err != nil {
		_ = bus.Close()
		return nil, errors.Annotate(err, "ads1115")
	}
	ch := channelByIndex(conf.Channel)
	pin, err := adc.PinForChannel(ch, 3300*physic.MilliVolt, 4*physic.Hertz, ads1x15.SaveEnergy)
	if err != nil {
		_ = bus.Close()
		return nil, errors.Annotatef(err, "ads1115 channel=%d", conf.Channel)
	}
	return &AnalogSource{bus: bus, pin: pin}, nil
}

func (self *AnalogSource) ReadRaw() (int32, error) {
	sample, err := self.pin.Read()
	if err != nil {
		return NoPress, errors.Annotate(err, AnalogTag)
	}
	// 15 significant bits down to 10
	raw := sample.Raw >> 5
	if raw < 0 {
		raw = NoPress
	}
	return raw, nil
}

func (self *AnalogSource) Close() error {
	if err := self.pin.Halt(); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(self.bus.Close())
}

func channelByIndex(i int) ads1x15.Channel {
	switch i {
	case 1:
		return ads1x15.Channel1
	case 2:
		return ads1x15.Channel2
	case 3:
		return ads1x15.Channel3
	}
	return ads1x15.Channel0
}
