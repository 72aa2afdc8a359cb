package ina

import "inamon-go/x/mathx"

// Clamp helpers.

func clamp16(v int64) uint16 {
	return uint16(int16(mathx.Clamp(v, -32768, 32767)))
}

func clamp16u(v int64) uint16 {
	return uint16(mathx.Clamp(v, 0, 0xFFFF))
}

// stepDownAvg selects the largest supported averaging count not exceeding the
// request. Requests below the smallest supported count use the smallest.
// Rounding is always downward so the effective conversion latency never
// exceeds what the caller asked for.
func stepDownAvg(steps []fieldStep, samples uint16) fieldStep {
	sel := steps[0]
	for _, s := range steps[1:] {
		if s.samples > samples {
			break
		}
		sel = s
	}
	return sel
}

// stepDownTime is the same downward mapping for conversion times in
// microseconds.
func stepDownTime(steps []timeStep, us uint32) timeStep {
	sel := steps[0]
	for _, s := range steps[1:] {
		if s.us > us {
			break
		}
		sel = s
	}
	return sel
}

// Threshold conversions from physical units to raw register counts, bound to
// a profile's LSBs.

func (p *profile) shuntMicroVoltsToRaw(uV int64) uint16 {
	return clamp16(uV * 1000 / int64(p.shuntVoltLSB_nV))
}

func (p *profile) busMilliVoltsToRaw(mV int64) uint16 {
	return clamp16u(mV * 1_000_000 / int64(p.busVoltLSB_nV))
}

func microWattsToRaw(uW int64, powerLSB_nW uint64) uint16 {
	if powerLSB_nW == 0 {
		return 0
	}
	return clamp16u(uW * 1000 / int64(powerLSB_nW))
}
