// Package powermon maintains the table of attached INA power monitors: an
// ordered, slot-indexed registry of device records plus broadcast plumbing
// so configuration calls can target one chip or every chip at once.
//
// The registry is single-owner state: one control loop issues one command at
// a time, and there is no internal locking. Wrap the Monitor and the shared
// bus in an external mutex if several goroutines must touch them.
package powermon

import (
	"tinygo.org/x/drivers"

	"inamon-go/drivers/ina"
	"inamon-go/errcode"
	"inamon-go/x/mathx"
)

// MaxDevices bounds the slot table, sized like the EEPROM arena the
// calibration blobs are persisted into.
const MaxDevices = 32

// Target addresses one registered slot or every slot. The zero value is
// Slot(0); use All() for a broadcast.
type Target struct {
	all  bool
	slot int
}

// Slot targets one device by its registration index.
func Slot(n int) Target { return Target{slot: n} }

// All targets every registered device in registration order.
func All() Target { return Target{all: true} }

// Monitor owns the per-slot device records. Slots are assigned in
// registration order and never reused or removed; the registry lives as
// long as the process.
type Monitor struct {
	devices []*ina.Device
	store   Store // optional calibration persistence
}

// NewMonitor builds an empty registry. store may be nil.
func NewMonitor(store Store) *Monitor {
	return &Monitor{store: store}
}

// Register initialises one chip and appends it to the slot table, returning
// the assigned slot number. The 7-bit address must be unique among
// registered devices. When a store is attached the freshly computed
// calibration snapshot is persisted under the new slot.
func (m *Monitor) Register(bus drivers.I2C, cfg ina.Config) (int, error) {
	if cfg.Chip == ina.ChipUnknown {
		return -1, &errcode.E{C: errcode.UnsupportedChip, Op: "powermon.Register", Err: ina.ErrUnsupportedChip}
	}
	if len(m.devices) >= MaxDevices {
		return -1, &errcode.E{C: errcode.RegistryFull, Op: "powermon.Register", Msg: "all device slots in use"}
	}
	for _, d := range m.devices {
		if d.Address() == cfg.Address {
			return -1, &errcode.E{C: errcode.AddressInUse, Op: "powermon.Register"}
		}
	}
	dev, err := ina.New(bus, cfg)
	if err != nil {
		return -1, err
	}
	if err := dev.Configure(); err != nil {
		return -1, err
	}
	slot := len(m.devices)
	m.devices = append(m.devices, dev)
	if m.store != nil {
		if err := m.store.SaveCalibration(slot, dev.Snapshot()); err != nil {
			return slot, err
		}
	}
	return slot, nil
}

// Len returns the number of registered devices.
func (m *Monitor) Len() int { return len(m.devices) }

// Device resolves one slot.
func (m *Monitor) Device(slot int) (*ina.Device, error) {
	if len(m.devices) == 0 || !mathx.Between(slot, 0, len(m.devices)-1) {
		return nil, &errcode.E{C: errcode.InvalidDeviceIndex, Op: "powermon.Device"}
	}
	return m.devices[slot], nil
}

// each applies f to every targeted device in registration order. The
// broadcast is best-effort, not transactional: a failure on one slot is
// surfaced as the first error, but writes already applied to earlier slots
// stay applied and later slots are still attempted.
func (m *Monitor) each(t Target, f func(*ina.Device) error) error {
	if !t.all {
		d, err := m.Device(t.slot)
		if err != nil {
			return err
		}
		return f(d)
	}
	var firstErr error
	for _, d := range m.devices {
		if err := f(d); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// --- Broadcast configuration ---

// SetMode writes the operating mode on the targeted devices, each under its
// own chip's mask layout.
func (m *Monitor) SetMode(mode ina.Mode, t Target) error {
	return m.each(t, func(d *ina.Device) error { return d.SetMode(mode) })
}

// SetAveraging rounds the requested sample count down to each chip's
// supported setting.
func (m *Monitor) SetAveraging(samples uint16, t Target) error {
	return m.each(t, func(d *ina.Device) error { return d.SetAveraging(samples) })
}

// SetBusConversionTime applies a bus conversion time in microseconds.
func (m *Monitor) SetBusConversionTime(us uint32, t Target) error {
	return m.each(t, func(d *ina.Device) error { return d.SetBusConversionTime(us) })
}

// SetShuntConversionTime applies a shunt conversion time in microseconds.
func (m *Monitor) SetShuntConversionTime(us uint32, t Target) error {
	return m.each(t, func(d *ina.Device) error { return d.SetShuntConversionTime(us) })
}

// Reset reinitialises the targeted chips; calibration metadata in each
// record is preserved and reprogrammed.
func (m *Monitor) Reset(t Target) error {
	return m.each(t, func(d *ina.Device) error { return d.Reset() })
}

// WaitForConversion blocks until every targeted device reports a completed
// conversion (immediately in continuous or shutdown modes).
func (m *Monitor) WaitForConversion(t Target) error {
	return m.each(t, func(d *ina.Device) error { return d.WaitForConversion() })
}

// Recalibrate recomputes one slot's calibration from new physical
// parameters and persists the updated snapshot.
func (m *Monitor) Recalibrate(slot int, maxBusAmps, microOhmR uint32) error {
	d, err := m.Device(slot)
	if err != nil {
		return err
	}
	if err := d.Recalibrate(maxBusAmps, microOhmR); err != nil {
		return err
	}
	if m.store != nil {
		return m.store.SaveCalibration(slot, d.Snapshot())
	}
	return nil
}

// --- Alert toggles ---
//
// applied reports whether every targeted device supports the alert function;
// a broadcast over a mix of alert-capable and alert-less chips applies where
// possible and returns false.

func (m *Monitor) AlertOnConversion(enable bool, t Target) (bool, error) {
	return m.eachAlert(t, func(d *ina.Device) (bool, error) { return d.AlertOnConversion(enable) })
}

func (m *Monitor) AlertOnShuntOverVoltage(enable bool, microVolts int64, t Target) (bool, error) {
	return m.eachAlert(t, func(d *ina.Device) (bool, error) { return d.AlertOnShuntOverVoltage(enable, microVolts) })
}

func (m *Monitor) AlertOnShuntUnderVoltage(enable bool, microVolts int64, t Target) (bool, error) {
	return m.eachAlert(t, func(d *ina.Device) (bool, error) { return d.AlertOnShuntUnderVoltage(enable, microVolts) })
}

func (m *Monitor) AlertOnBusOverVoltage(enable bool, milliVolts int64, t Target) (bool, error) {
	return m.eachAlert(t, func(d *ina.Device) (bool, error) { return d.AlertOnBusOverVoltage(enable, milliVolts) })
}

func (m *Monitor) AlertOnBusUnderVoltage(enable bool, milliVolts int64, t Target) (bool, error) {
	return m.eachAlert(t, func(d *ina.Device) (bool, error) { return d.AlertOnBusUnderVoltage(enable, milliVolts) })
}

func (m *Monitor) AlertOnPowerOverLimit(enable bool, microWatts int64, t Target) (bool, error) {
	return m.eachAlert(t, func(d *ina.Device) (bool, error) { return d.AlertOnPowerOverLimit(enable, microWatts) })
}

func (m *Monitor) eachAlert(t Target, f func(*ina.Device) (bool, error)) (bool, error) {
	applied := true
	err := m.each(t, func(d *ina.Device) error {
		ok, err := f(d)
		if !ok {
			applied = false
		}
		return err
	})
	return applied && err == nil, err
}

// --- Per-slot readouts ---

// BusMilliVolts reads the bus voltage of one slot in mV.
func (m *Monitor) BusMilliVolts(slot int) (int32, error) {
	d, err := m.Device(slot)
	if err != nil {
		return 0, err
	}
	return d.BusMilliVolts()
}

// ShuntMicroVolts reads one slot's shunt voltage in uV.
func (m *Monitor) ShuntMicroVolts(slot int) (int32, error) {
	d, err := m.Device(slot)
	if err != nil {
		return 0, err
	}
	return d.ShuntMicroVolts()
}

// BusMicroAmps reads one slot's bus current in uA.
func (m *Monitor) BusMicroAmps(slot int) (int64, error) {
	d, err := m.Device(slot)
	if err != nil {
		return 0, err
	}
	return d.BusMicroAmps()
}

// BusMicroWatts reads one slot's bus power in uW.
func (m *Monitor) BusMicroWatts(slot int) (int64, error) {
	d, err := m.Device(slot)
	if err != nil {
		return 0, err
	}
	return d.BusMicroWatts()
}

// DeviceName returns the fixed chip name of one slot.
func (m *Monitor) DeviceName(slot int) (string, error) {
	d, err := m.Device(slot)
	if err != nil {
		return "", err
	}
	return d.Name(), nil
}
