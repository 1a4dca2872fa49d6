package ui

import (
	"bytes"
	"fmt"
	"net"
	"time"

	"github.com/relogio-hw/relogio/hardware/lcd"
)

// weekday names as the original device showed them
var weekdayNames = [7]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sab"}

// big digit columns: HH at 0,4 and MM at 8,12 with the separator between
const (
	colHourTens = 0
	colHourOnes = 4
	colColon    = 7
	colMinTens  = 8
	colMinOnes  = 12
)

func (self *UI) renderClock() {
	w := int(self.display.Width())
	l1 := bytes.Repeat([]byte{' '}, w)
	l2 := bytes.Repeat([]byte{' '}, w)

	h := self.g.Clock.Hours()
	m := self.g.Clock.Minutes()
	lcd.BigDigit(l1, l2, h/10, colHourTens)
	lcd.BigDigit(l1, l2, h%10, colHourOnes)
	lcd.BigDigit(l1, l2, m/10, colMinTens)
	lcd.BigDigit(l1, l2, m%10, colMinOnes)

	// separator blinks on alternate seconds, lower dot stays
	l2[colColon] = ':'
	if self.g.Clock.Seconds()%2 == 0 {
		l1[colColon] = ':'
	}

	// raw bytes: CGRAM codes must not pass through codepage translation
	self.display.SetLinesBytes(l1, l2)
}

func (self *UI) renderDate() {
	y, mo, d := self.g.Clock.Date()
	wd := weekdayNames[self.g.Clock.Weekday()]
	self.display.SetLines(
		"Data:",
		fmt.Sprintf("%s %02d/%02d/%04d", wd, d, int(mo), y),
	)
}

func (self *UI) renderNetwork() {
	ip, iface := localAddr()
	if ip == "" {
		self.display.SetLines("offline", "")
		return
	}
	self.display.SetLines(ip, iface)
}

func (self *UI) renderTimeSource() {
	name := self.g.Clock.SourceName()
	if !self.g.Clock.IsSynced() || name == "" {
		self.display.SetLines("NTP: not synced", "")
		return
	}
	age := self.g.Clock.SyncAge().Truncate(time.Second)
	self.display.SetLinesBytes(
		self.display.Translate(fmt.Sprintf("NTP ok %s", age)),
		self.marqueeLine(name+" "),
	)
}

func (self *UI) renderWeather() {
	snap, ok := self.g.Weather.Current()
	if !ok {
		self.display.SetLines("weather", "no data yet")
		return
	}
	l2 := fmt.Sprintf("%.0fC %.0f%% %.0fhPa", snap.Temperature, snap.Humidity, snap.Pressure)
	self.display.SetLinesBytes(
		self.marqueeLine(snap.Description+" "),
		self.display.Translate(l2),
	)
}

func (self *UI) renderForecast() {
	entry, ok := self.g.Weather.ForecastAt(self.nav.Page())
	if !ok {
		self.display.SetLines("forecast", "no data yet")
		return
	}
	n := self.g.Weather.ForecastLen()
	idx := ((self.nav.Page() % n) + n) % n
	l2 := fmt.Sprintf("%.0fC %.0f%% %.1fmm",
		entry.Temperature, entry.PrecipitationProbability*100, entry.PrecipitationAmount)
	self.display.SetLinesBytes(
		self.marqueeLine(fmt.Sprintf("P%d %s ", idx+1, entry.Description)),
		self.display.Translate(l2),
	)
}

// scrollState is scoped to the active screen; any navigation change or
// source text change drops the offset back to zero.
type scrollState struct {
	text   []byte
	offset uint32
}

// marqueeLine returns the visible window of s, advancing the scroll by
// exactly one column per render of the owning screen. Text that fits is
// padded, not scrolled.
func (self *UI) marqueeLine(s string) []byte {
	w := int(self.display.Width())
	b := []byte(s)
	if !bytes.Equal(b, self.scroll.text) {
		self.scroll.text = b
		self.scroll.offset = 0
	}
	if len(b) <= w {
		return lcd.PadSpace(b, uint32(w))
	}
	buf := make([]byte, w)
	lcd.ScrollWindow(buf, self.scroll.text, self.scroll.offset)
	self.scroll.offset++
	return buf
}

// localAddr returns the first global unicast IPv4 and its interface name.
func localAddr() (ip, iface string) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", ""
	}
	for _, in := range ifaces {
		if in.Flags&net.FlagUp == 0 || in.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := in.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipnet, ok := a.(*net.IPNet)
			if !ok || ipnet.IP.To4() == nil {
				continue
			}
			return ipnet.IP.String(), in.Name
		}
	}
	return "", ""
}
