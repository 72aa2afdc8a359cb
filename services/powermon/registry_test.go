package powermon

import (
	"errors"
	"testing"

	"tinygo.org/x/drivers"

	"inamon-go/drivers/ina"
	"inamon-go/errcode"
)

// Compile-time check.
var _ drivers.I2C = (*fakeBus)(nil)

// fakeBus is a register-file INA fake: 16-bit words, high byte first,
// reset by writing 0x8000 to register 0x00.
type fakeBus struct {
	regs map[byte]uint16
	fail error
}

func newFakeBus() *fakeBus { return &fakeBus{regs: map[byte]uint16{}} }

func (f *fakeBus) Tx(addr uint16, w, r []byte) error {
	if f.fail != nil {
		return f.fail
	}
	switch {
	case len(w) == 3 && len(r) == 0:
		val := uint16(w[1])<<8 | uint16(w[2])
		if w[0] == 0x00 && val == 0x8000 {
			for k := range f.regs {
				delete(f.regs, k)
			}
			return nil
		}
		f.regs[w[0]] = val
	case len(w) == 1 && len(r) == 2:
		val := f.regs[w[0]]
		r[0] = byte(val >> 8)
		r[1] = byte(val)
	}
	return nil
}

const (
	regConfig = 0x00
	modeMask  = 0x0007

	ina226AvgMask = 0x0E00
	ina219AvgMask = 0x07F8
)

func cfg(addr uint16, chip ina.ChipType) ina.Config {
	return ina.Config{Address: addr, Chip: chip, MaxBusAmps: 10, MicroOhmR: 10_000}
}

func TestRegisterAssignsOrderedSlots(t *testing.T) {
	m := NewMonitor(nil)
	for i := 0; i < 3; i++ {
		slot, err := m.Register(newFakeBus(), cfg(0x40+uint16(i), ina.INA226))
		if err != nil {
			t.Fatalf("Register %d: %v", i, err)
		}
		if slot != i {
			t.Fatalf("slot = %d, want %d", slot, i)
		}
	}
	if m.Len() != 3 {
		t.Fatalf("Len = %d, want 3", m.Len())
	}
	name, err := m.DeviceName(1)
	if err != nil || name != "INA226" {
		t.Fatalf("DeviceName(1) = %q, %v", name, err)
	}
}

func TestRegisterRejectsDuplicateAddress(t *testing.T) {
	m := NewMonitor(nil)
	if _, err := m.Register(newFakeBus(), cfg(0x40, ina.INA226)); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := m.Register(newFakeBus(), cfg(0x40, ina.INA219))
	if errcode.Of(err) != errcode.AddressInUse {
		t.Fatalf("duplicate Register = %v, want address_in_use", err)
	}
	if m.Len() != 1 {
		t.Fatalf("Len = %d after rejected registration, want 1", m.Len())
	}
}

func TestRegisterRejectsUnknownChip(t *testing.T) {
	m := NewMonitor(nil)
	_, err := m.Register(newFakeBus(), cfg(0x40, ina.ChipUnknown))
	if errcode.Of(err) != errcode.UnsupportedChip {
		t.Fatalf("Register = %v, want unsupported_chip", err)
	}
}

func TestRegisterEnforcesCapacity(t *testing.T) {
	m := NewMonitor(nil)
	for i := 0; i < MaxDevices; i++ {
		if _, err := m.Register(newFakeBus(), cfg(0x10+uint16(i), ina.INA226)); err != nil {
			t.Fatalf("Register %d: %v", i, err)
		}
	}
	_, err := m.Register(newFakeBus(), cfg(0x08, ina.INA226))
	if errcode.Of(err) != errcode.RegistryFull {
		t.Fatalf("Register past capacity = %v, want registry_full", err)
	}
}

func TestDeviceRejectsBadSlot(t *testing.T) {
	m := NewMonitor(nil)
	if _, err := m.Device(0); errcode.Of(err) != errcode.InvalidDeviceIndex {
		t.Fatalf("Device(0) on empty registry = %v, want invalid_device_index", err)
	}
	if _, err := m.Register(newFakeBus(), cfg(0x40, ina.INA226)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	for _, slot := range []int{-1, 1, 99} {
		if _, err := m.Device(slot); errcode.Of(err) != errcode.InvalidDeviceIndex {
			t.Fatalf("Device(%d) = %v, want invalid_device_index", slot, err)
		}
	}
	if _, err := m.Device(0); err != nil {
		t.Fatalf("Device(0): %v", err)
	}
}

func TestBroadcastAppliesPerChipLayout(t *testing.T) {
	m := NewMonitor(nil)
	buses := []*fakeBus{newFakeBus(), newFakeBus(), newFakeBus()}
	chips := []ina.ChipType{ina.INA226, ina.INA219, ina.INA3221}
	for i, b := range buses {
		if _, err := m.Register(b, cfg(0x40+uint16(i), chips[i])); err != nil {
			t.Fatalf("Register %v: %v", chips[i], err)
		}
	}

	if err := m.SetMode(ina.ModeTriggeredBoth, All()); err != nil {
		t.Fatalf("SetMode broadcast: %v", err)
	}
	for i, b := range buses {
		if got := b.regs[regConfig] & modeMask; got != 3 {
			t.Fatalf("device %d mode field = %d, want 3", i, got)
		}
	}

	// 100 samples rounds down to 64 everywhere, under each chip's own
	// field layout.
	if err := m.SetAveraging(100, All()); err != nil {
		t.Fatalf("SetAveraging broadcast: %v", err)
	}
	if got := buses[0].regs[regConfig] & ina226AvgMask; got != 3<<9 {
		t.Fatalf("INA226 averaging field = %#04x, want %#04x", got, uint16(3)<<9)
	}
	if got := buses[1].regs[regConfig] & ina219AvgMask; got != 0xE<<7|0xE<<3 {
		t.Fatalf("INA219 averaging field = %#04x, want %#04x", got, uint16(0xE<<7|0xE<<3))
	}
	if got := buses[2].regs[regConfig] & ina226AvgMask; got != 3<<9 {
		t.Fatalf("INA3221 averaging field = %#04x, want %#04x", got, uint16(3)<<9)
	}
}

func TestBroadcastSingleSlotTarget(t *testing.T) {
	m := NewMonitor(nil)
	buses := []*fakeBus{newFakeBus(), newFakeBus()}
	for i, b := range buses {
		if _, err := m.Register(b, cfg(0x40+uint16(i), ina.INA226)); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}
	if err := m.SetMode(ina.ModeShutdown, Slot(1)); err != nil {
		t.Fatalf("SetMode(Slot(1)): %v", err)
	}
	if got := buses[0].regs[regConfig] & modeMask; got != 7 {
		t.Fatalf("slot 0 mode field = %d, want untouched 7", got)
	}
	if got := buses[1].regs[regConfig] & modeMask; got != 0 {
		t.Fatalf("slot 1 mode field = %d, want 0", got)
	}
	if err := m.SetMode(ina.ModeShutdown, Slot(5)); errcode.Of(err) != errcode.InvalidDeviceIndex {
		t.Fatalf("SetMode(Slot(5)) = %v, want invalid_device_index", err)
	}
}

func TestBroadcastIsBestEffort(t *testing.T) {
	m := NewMonitor(nil)
	buses := []*fakeBus{newFakeBus(), newFakeBus(), newFakeBus()}
	for i, b := range buses {
		if _, err := m.Register(b, cfg(0x40+uint16(i), ina.INA226)); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}
	fault := errors.New("nak")
	buses[1].fail = fault

	err := m.SetMode(ina.ModeContinuousShunt, All())
	if !errors.Is(err, fault) {
		t.Fatalf("broadcast error = %v, want the slot-1 fault", err)
	}
	// Slots before and after the faulty one were still written.
	if got := buses[0].regs[regConfig] & modeMask; got != 5 {
		t.Fatalf("slot 0 mode field = %d, want 5", got)
	}
	if got := buses[2].regs[regConfig] & modeMask; got != 5 {
		t.Fatalf("slot 2 mode field = %d, want 5", got)
	}
}

func TestAlertBroadcastReportsPartialSupport(t *testing.T) {
	m := NewMonitor(nil)
	b226, b219 := newFakeBus(), newFakeBus()
	if _, err := m.Register(b226, cfg(0x40, ina.INA226)); err != nil {
		t.Fatalf("Register INA226: %v", err)
	}
	if _, err := m.Register(b219, cfg(0x41, ina.INA219)); err != nil {
		t.Fatalf("Register INA219: %v", err)
	}

	applied, err := m.AlertOnConversion(true, All())
	if err != nil {
		t.Fatalf("AlertOnConversion broadcast: %v", err)
	}
	if applied {
		t.Fatal("applied = true over a mix with an alert-less chip")
	}
	// The capable chip was still configured.
	if b226.regs[0x06]&(1<<10) == 0 {
		t.Fatal("INA226 conversion-ready alert bit not set")
	}

	applied, err = m.AlertOnBusOverVoltage(true, 6000, Slot(0))
	if err != nil || !applied {
		t.Fatalf("AlertOnBusOverVoltage(Slot(0)) = %v, %v; want true, nil", applied, err)
	}
}

func TestReadoutsThroughRegistry(t *testing.T) {
	m := NewMonitor(nil)
	b := newFakeBus()
	if _, err := m.Register(b, cfg(0x40, ina.INA226)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	b.regs[0x02] = 0x1000 // bus voltage: 4096 x 1.25 mV
	b.regs[0x01] = 0x0400 // shunt voltage: 1024 x 2.5 uV
	b.regs[0x04] = 100    // current counts
	b.regs[0x03] = 50     // power counts

	if mV, err := m.BusMilliVolts(0); err != nil || mV != 5120 {
		t.Fatalf("BusMilliVolts = %d, %v; want 5120", mV, err)
	}
	if uV, err := m.ShuntMicroVolts(0); err != nil || uV != 2560 {
		t.Fatalf("ShuntMicroVolts = %d, %v; want 2560", uV, err)
	}
	if uA, err := m.BusMicroAmps(0); err != nil || uA != 30_517 {
		t.Fatalf("BusMicroAmps = %d, %v; want 30517", uA, err)
	}
	if uW, err := m.BusMicroWatts(0); err != nil || uW != 381_468 {
		t.Fatalf("BusMicroWatts = %d, %v; want 381468", uW, err)
	}
	if _, err := m.BusMilliVolts(3); errcode.Of(err) != errcode.InvalidDeviceIndex {
		t.Fatalf("BusMilliVolts(3) = %v, want invalid_device_index", err)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewMemStore()
	m := NewMonitor(store)
	slot, err := m.Register(newFakeBus(), cfg(0x40, ina.INA226))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	snap, err := m.LoadCalibration(slot)
	if err != nil {
		t.Fatalf("LoadCalibration: %v", err)
	}
	dev, err := m.Device(slot)
	if err != nil {
		t.Fatalf("Device: %v", err)
	}
	if snap != dev.Snapshot() {
		t.Fatalf("persisted snapshot %+v differs from live %+v", snap, dev.Snapshot())
	}

	if _, err := m.LoadCalibration(99); errcode.Of(err) != errcode.NotFound {
		t.Fatalf("LoadCalibration(99) = %v, want not_found", err)
	}
}

func TestRecalibratePersistsNewSnapshot(t *testing.T) {
	store := NewMemStore()
	m := NewMonitor(store)
	slot, err := m.Register(newFakeBus(), cfg(0x40, ina.INA226))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	before, _ := m.LoadCalibration(slot)

	if err := m.Recalibrate(slot, 5, 4000); err != nil {
		t.Fatalf("Recalibrate: %v", err)
	}
	after, err := m.LoadCalibration(slot)
	if err != nil {
		t.Fatalf("LoadCalibration: %v", err)
	}
	if after == before {
		t.Fatal("persisted snapshot unchanged after recalibration")
	}
	if after.MaxBusAmps != 5 || after.MicroOhmR != 4000 {
		t.Fatalf("persisted parameters = %d A, %d uOhm; want 5, 4000", after.MaxBusAmps, after.MicroOhmR)
	}
}

func TestLoadCalibrationWithoutStore(t *testing.T) {
	m := NewMonitor(nil)
	if _, err := m.LoadCalibration(0); errcode.Of(err) != errcode.NotFound {
		t.Fatalf("LoadCalibration = %v, want not_found", err)
	}
}
