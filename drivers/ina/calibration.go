package ina

import (
	"errors"
	"math"
)

// Sentinel errors (TinyGo-safe; no fmt).
var (
	ErrInvalidParameter      = errors.New("ina: shunt resistance and current rating must be non-zero")
	ErrCalibrationOutOfRange = errors.New("ina: calibration not representable at 16-bit resolution")
	ErrUnsupportedChip       = errors.New("ina: unsupported chip type")
	ErrInvalidMode           = errors.New("ina: invalid operating mode")
	ErrConversionTimeout     = errors.New("ina: conversion-ready flag not set before timeout")
)

// Calibration holds the derived scale factors for one device. RegisterValue
// is written to the chip's calibration register; the LSBs convert raw counts
// to physical units. All three are a pure function of the chip type and the
// caller-supplied (maxBusAmps, microOhmR) pair and are only ever recomputed
// together.
type Calibration struct {
	RegisterValue uint16
	CurrentLSB_nA uint64
	PowerLSB_nW   uint64
	Gain          uint8 // INA219 programmable gain code; 0 elsewhere
}

// calibrate derives the calibration for one chip from the maximum expected
// bus current in amps and the shunt resistance in micro-ohms.
//
// The chip ADC is 15 bits plus sign, so the current LSB is pinned at
// maxBusAmps / 2^15 (here in nA to keep the math integral) and the register
// value follows the datasheet law cal = calibScale / (currentLSB * Rshunt).
func calibrate(p *profile, maxBusAmps, microOhmR uint32) (Calibration, error) {
	if maxBusAmps == 0 || microOhmR == 0 {
		return Calibration{}, ErrInvalidParameter
	}

	shunt := microOhmR
	if p.internalShunt_uOhm != 0 {
		shunt = p.internalShunt_uOhm
	}

	var c Calibration
	if p.fixedCurrentLSB_nA != 0 {
		// Fixed measurement chain: no calibration register.
		c.CurrentLSB_nA = p.fixedCurrentLSB_nA
	} else {
		c.CurrentLSB_nA = uint64(maxBusAmps) * 1_000_000_000 >> 15
	}
	c.PowerLSB_nW = uint64(p.powerConstant) * c.CurrentLSB_nA

	if p.hasCalibration {
		// A denominator past 64 bits puts the quotient below 1.
		if c.CurrentLSB_nA > math.MaxUint64/uint64(shunt) {
			return Calibration{}, ErrCalibrationOutOfRange
		}
		cal := p.calibScale / (c.CurrentLSB_nA * uint64(shunt))
		if cal == 0 || cal > 0xFFFF {
			return Calibration{}, ErrCalibrationOutOfRange
		}
		c.RegisterValue = uint16(cal)
	}

	if p.hasProgGain {
		c.Gain = gainCode(uint64(maxBusAmps) * uint64(shunt))
	}
	return c, nil
}

// gainCode selects the smallest INA219 gain range covering the maximum
// expected shunt drop (amps x uOhm = uV).
func gainCode(maxShunt_uV uint64) uint8 {
	switch {
	case maxShunt_uV <= 40_000:
		return 0 // /1, 40 mV range
	case maxShunt_uV <= 80_000:
		return 1 // /2, 80 mV
	case maxShunt_uV <= 160_000:
		return 2 // /4, 160 mV
	default:
		return 3 // /8, 320 mV
	}
}
