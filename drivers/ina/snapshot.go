package ina

// Snapshot is the persistable, record-shaped view of one device: everything
// needed to reconstruct the calibration state without touching hardware.
// Stores treat it as an opaque blob keyed by registry slot.
type Snapshot struct {
	Address       uint16
	Chip          ChipType
	Calibration   uint16
	CurrentLSB_nA uint64
	PowerLSB_nW   uint64
	Gain          uint8
	Mode          Mode
	MaxBusAmps    uint32
	MicroOhmR     uint32
}

// Snapshot captures the device's current calibration metadata.
func (d *Device) Snapshot() Snapshot {
	return Snapshot{
		Address:       d.addr,
		Chip:          d.chip,
		Calibration:   d.cal.RegisterValue,
		CurrentLSB_nA: d.cal.CurrentLSB_nA,
		PowerLSB_nW:   d.cal.PowerLSB_nW,
		Gain:          d.cal.Gain,
		Mode:          d.mode,
		MaxBusAmps:    d.maxBusAmps,
		MicroOhmR:     d.microOhmR,
	}
}
