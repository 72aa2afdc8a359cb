// Package ina drives the TI INA family of I2C current/voltage/power
// monitors (INA219/226/230/231/233/250/253/260/3221) behind one API.
//
// Design notes (datasheet references):
// - I2C read/write word protocol, high byte first; configuration at 0x00,
//   calibration at 0x05, reset by writing 0x8000 to configuration.
// - Per-chip register-bit layout, LSB scaling and feature set live in a
//   profile table; the driver body is layout-free.
// - Integer-only scaling (nV/nA/nW internally; mV/uV/uA/uW at the API).
// - Single-owner, blocking model: no internal locking, no goroutines.
package ina

import (
	"time"

	"tinygo.org/x/drivers"
)

// Mode is the 3-bit operating mode field shared by the whole family.
type Mode uint8

const (
	ModeShutdown Mode = iota
	ModeTriggeredShunt
	ModeTriggeredBus
	ModeTriggeredBoth
	ModePowerDown // alias encoding of shutdown on most parts
	ModeContinuousShunt
	ModeContinuousBus
	ModeContinuousBoth
)

// Triggered reports whether the mode performs one conversion per request.
func (m Mode) Triggered() bool { return m >= ModeTriggeredShunt && m <= ModeTriggeredBoth }

// Continuous reports whether conversions free-run.
func (m Mode) Continuous() bool { return m >= ModeContinuousShunt && m <= ModeContinuousBoth }

func (m Mode) valid() bool { return m <= ModeContinuousBoth }

// Default conversion-ready polling cadence and bound.
const (
	DefaultPollInterval = 100 * time.Microsecond
	DefaultConvTimeout  = 100 * time.Millisecond
)

// Config describes one attached chip. Integer-only.
type Config struct {
	Address    uint16 // 7-bit bus address
	Chip       ChipType
	MaxBusAmps uint32 // maximum expected bus current, amps
	MicroOhmR  uint32 // shunt resistance in uOhm (ignored on integrated-shunt parts)

	// PollInterval is the fixed delay between conversion-ready polls.
	// ConvTimeout bounds WaitForConversion. Zero selects the defaults.
	PollInterval time.Duration
	ConvTimeout  time.Duration
}

// Validate checks the fields every chip type requires.
func (c Config) Validate() error {
	if _, ok := profileFor(c.Chip); !ok {
		return ErrUnsupportedChip
	}
	if c.Address == 0 {
		return ErrInvalidParameter
	}
	if c.MaxBusAmps == 0 || c.MicroOhmR == 0 {
		return ErrInvalidParameter
	}
	return nil
}

// Device represents one INA instance on an I2C bus. It is the owned,
// per-slot record: calibration state, register layout selection and unit
// conversion constants all live here.
type Device struct {
	i2c  drivers.I2C
	addr uint16
	chip ChipType
	prof *profile

	cal  Calibration
	mode Mode

	// Original initialisation parameters, retained for recalibration.
	maxBusAmps uint32
	microOhmR  uint32

	pollInterval time.Duration
	convTimeout  time.Duration

	conv convState

	// Fixed buffers to avoid per-call heap allocations.
	w [3]byte
	r [2]byte
}

// New validates cfg, computes the calibration constants and constructs the
// device record. It does not touch the hardware; call Configure for that.
func New(bus drivers.I2C, cfg Config) (*Device, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p, _ := profileFor(cfg.Chip)
	cal, err := calibrate(p, cfg.MaxBusAmps, cfg.MicroOhmR)
	if err != nil {
		return nil, err
	}
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	timeout := cfg.ConvTimeout
	if timeout <= 0 {
		timeout = DefaultConvTimeout
	}
	return &Device{
		i2c:          bus,
		addr:         cfg.Address,
		chip:         cfg.Chip,
		prof:         p,
		cal:          cal,
		mode:         ModeContinuousBoth,
		maxBusAmps:   cfg.MaxBusAmps,
		microOhmR:    cfg.MicroOhmR,
		pollInterval: poll,
		convTimeout:  timeout,
	}, nil
}

// Configure resets the chip and programs it from the record: calibration
// register (where present), INA219 gain bits, continuous-both mode.
func (d *Device) Configure() error {
	if err := d.writeWord(regConfig, cmdReset); err != nil {
		return err
	}
	return d.program()
}

// program replays calibration, gain and mode onto a freshly reset chip.
func (d *Device) program() error {
	if d.prof.hasCalibration {
		if err := d.writeWord(regCalibration, d.cal.RegisterValue); err != nil {
			return err
		}
	}
	if d.prof.hasProgGain {
		bits := uint16(d.cal.Gain) << ina219GainShift
		if err := d.modifyField(regConfig, ina219GainMask, bits); err != nil {
			return err
		}
	}
	return d.SetMode(d.mode)
}

// Reset rewrites the reset command and reprograms the chip. The record's
// calibration metadata is preserved across the reset.
func (d *Device) Reset() error {
	d.conv = convIdle
	if err := d.writeWord(regConfig, cmdReset); err != nil {
		return err
	}
	return d.program()
}

// Recalibrate recomputes the calibration from new physical parameters and
// rewrites the calibration register. The current/power LSBs always change
// together with the register value.
func (d *Device) Recalibrate(maxBusAmps, microOhmR uint32) error {
	if maxBusAmps == 0 || microOhmR == 0 {
		return ErrInvalidParameter
	}
	cal, err := calibrate(d.prof, maxBusAmps, microOhmR)
	if err != nil {
		return err
	}
	if d.prof.hasCalibration {
		if err := d.writeWord(regCalibration, cal.RegisterValue); err != nil {
			return err
		}
	}
	d.cal = cal
	d.maxBusAmps = maxBusAmps
	d.microOhmR = microOhmR
	return nil
}

// SetMode writes the 3-bit mode field, preserving all other configuration
// bits. The record's mode updates only after a successful write. Writing a
// triggered mode starts a conversion.
func (d *Device) SetMode(mode Mode) error {
	if !mode.valid() {
		return ErrInvalidMode
	}
	if err := d.modifyField(regConfig, configModeMask, uint16(mode)); err != nil {
		return err
	}
	d.mode = mode
	if mode.Triggered() {
		d.conv = convConverting
	} else {
		d.conv = convIdle
	}
	return nil
}

// SetAveraging maps the requested sample count to the nearest supported
// setting, rounding down, and writes it under the chip's averaging mask.
func (d *Device) SetAveraging(samples uint16) error {
	step := stepDownAvg(d.prof.avgSteps, samples)
	return d.modifyField(regConfig, d.prof.avgMask, step.bits)
}

// SetBusConversionTime maps a conversion time in microseconds onto the
// chip's discrete bus ADC settings, rounding down.
func (d *Device) SetBusConversionTime(us uint32) error {
	step := stepDownTime(d.prof.busConvSteps, us)
	return d.modifyField(regConfig, d.prof.busConvMask, step.bits)
}

// SetShuntConversionTime is the shunt-side counterpart of
// SetBusConversionTime.
func (d *Device) SetShuntConversionTime(us uint32) error {
	step := stepDownTime(d.prof.shuntConvSteps, us)
	return d.modifyField(regConfig, d.prof.shuntConvMask, step.bits)
}

// Introspection.

func (d *Device) Chip() ChipType           { return d.chip }
func (d *Device) Name() string             { return d.prof.name }
func (d *Device) Address() uint16          { return d.addr }
func (d *Device) Mode() Mode               { return d.mode }
func (d *Device) Calibration() Calibration { return d.cal }
func (d *Device) MaxBusAmps() uint32       { return d.maxBusAmps }
func (d *Device) MicroOhmR() uint32        { return d.microOhmR }

// ManufacturerID reads register 0xFE (not present on every part).
func (d *Device) ManufacturerID() (uint16, error) { return d.readWord(regManufID) }

// DieID reads register 0xFF (not present on every part).
func (d *Device) DieID() (uint16, error) { return d.readWord(regDieID) }
