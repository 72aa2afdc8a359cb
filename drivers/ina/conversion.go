package ina

import "time"

// Conversion-ready state. In continuous mode the chip free-runs and reads
// are always valid; the machine only matters in triggered modes.
type convState uint8

const (
	convIdle convState = iota
	convConverting
	convReady
)

// WaitForConversion blocks until the chip's conversion-ready flag is set.
// Continuous and shutdown/power-down modes return immediately: the former is
// always ready, the latter never converts. Polling is a fixed-interval busy
// wait bounded by the configured timeout; a timeout is surfaced to the
// caller, never retried here, since persistent non-readiness indicates a
// bus or hardware fault.
func (d *Device) WaitForConversion() error {
	if !d.mode.Triggered() {
		return nil
	}
	deadline := time.Now().Add(d.convTimeout)
	for {
		v, err := d.readWord(d.prof.readyReg)
		if err != nil {
			return err
		}
		if v&d.prof.readyMask != 0 {
			d.conv = convReady
			return nil
		}
		if time.Now().After(deadline) {
			return ErrConversionTimeout
		}
		time.Sleep(d.pollInterval)
	}
}

// trigger re-issues the current triggered mode, starting a new conversion.
func (d *Device) trigger() error {
	if err := d.modifyField(regConfig, configModeMask, uint16(d.mode)); err != nil {
		return err
	}
	d.conv = convConverting
	return nil
}

// prepareReading makes sure a fresh sample exists before a measurement
// register is read. Continuous modes need nothing; triggered modes run one
// conversion unless an un-consumed result is already latched. Reading
// consumes the result.
func (d *Device) prepareReading() error {
	if !d.mode.Triggered() {
		return nil
	}
	switch d.conv {
	case convReady:
		// un-consumed result already latched
	case convConverting:
		if err := d.WaitForConversion(); err != nil {
			return err
		}
	default:
		if err := d.trigger(); err != nil {
			return err
		}
		if err := d.WaitForConversion(); err != nil {
			return err
		}
	}
	d.conv = convIdle
	return nil
}
