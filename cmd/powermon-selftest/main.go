// cmd/powermon-selftest/main.go
//
// Host-side smoke test for the INA driver stack against a simulated I2C
// bus: registers a mixed set of chips, broadcasts configuration, reads
// telemetry and round-trips the calibration store. Useful as a quick
// sanity check without hardware attached.
package main

import (
	"fmt"
	"os"

	"inamon-go/drivers/ina"
	"inamon-go/services/powermon"
)

// simBus simulates one INA chip as a 16-bit register file: words travel
// high byte first, writing 0x8000 to register 0x00 resets the file.
type simBus struct {
	regs  map[byte]uint16
	dieID uint16
}

func newSimBus(dieID uint16) *simBus {
	return &simBus{regs: map[byte]uint16{}, dieID: dieID}
}

func (s *simBus) Tx(addr uint16, w, r []byte) error {
	switch {
	case len(w) == 3 && len(r) == 0:
		val := uint16(w[1])<<8 | uint16(w[2])
		if w[0] == 0x00 && val == 0x8000 {
			for k := range s.regs {
				delete(s.regs, k)
			}
			// Simulated operating point after reset: ~5.1 V bus,
			// a modest forward shunt drop.
			s.regs[0x02] = 0x1000
			s.regs[0x01] = 0x0400
			s.regs[0x04] = 120
			s.regs[0x03] = 40
			return nil
		}
		s.regs[w[0]] = val
	case len(w) == 1 && len(r) == 2:
		val := s.regs[w[0]]
		if w[0] == 0xFE {
			val = 0x5449 // "TI"
		}
		if w[0] == 0xFF {
			val = s.dieID
		}
		r[0] = byte(val >> 8)
		r[1] = byte(val)
	}
	return nil
}

var failed bool

func check(step string, err error) {
	if err != nil {
		fmt.Printf("FAIL %-28s %v\n", step, err)
		failed = true
		return
	}
	fmt.Printf("ok   %s\n", step)
}

func main() {
	store := powermon.NewMemStore()
	mon := powermon.NewMonitor(store)

	chips := []struct {
		chip ina.ChipType
		addr uint16
	}{
		{ina.INA226, 0x40},
		{ina.INA219, 0x41},
		{ina.INA260, 0x44},
	}
	for _, c := range chips {
		_, err := mon.Register(newSimBus(0x2260), ina.Config{
			Address:    c.addr,
			Chip:       c.chip,
			MaxBusAmps: 10,
			MicroOhmR:  10_000,
		})
		check(fmt.Sprintf("register %v@%#02x", c.chip, c.addr), err)
	}

	check("broadcast averaging", mon.SetAveraging(64, powermon.All()))
	check("broadcast bus conv time", mon.SetBusConversionTime(1100, powermon.All()))
	check("broadcast mode", mon.SetMode(ina.ModeContinuousBoth, powermon.All()))

	for slot := 0; slot < mon.Len(); slot++ {
		name, _ := mon.DeviceName(slot)
		mV, err := mon.BusMilliVolts(slot)
		check(fmt.Sprintf("%s bus voltage", name), err)
		uV, err := mon.ShuntMicroVolts(slot)
		check(fmt.Sprintf("%s shunt voltage", name), err)
		uA, err := mon.BusMicroAmps(slot)
		check(fmt.Sprintf("%s current", name), err)
		uW, err := mon.BusMicroWatts(slot)
		check(fmt.Sprintf("%s power", name), err)
		fmt.Printf("     %s: %d mV, %d uV shunt, %d uA, %d uW\n", name, mV, uV, uA, uW)
	}

	applied, err := mon.AlertOnBusOverVoltage(true, 6000, powermon.All())
	check("alert broadcast", err)
	fmt.Printf("     alert applied on all chips: %v\n", applied)

	check("recalibrate slot 0", mon.Recalibrate(0, 5, 20_000))
	snap, err := mon.LoadCalibration(0)
	check("load persisted calibration", err)
	fmt.Printf("     slot 0: cal=%#04x currentLSB=%d nA powerLSB=%d nW\n",
		snap.Calibration, snap.CurrentLSB_nA, snap.PowerLSB_nW)

	dev, err := mon.Device(0)
	check("slot lookup", err)
	if err == nil {
		id, err := dev.DieID()
		check("die id", err)
		fmt.Printf("     die id %#04x\n", id)
	}

	if failed {
		os.Exit(1)
	}
	fmt.Println("selftest passed")
}
