package ina

// Measurement readouts in integer units. All register reads are 16-bit;
// shunt voltage and current are two's-complement (negative on reverse
// current flow), bus voltage and power are magnitudes. In triggered modes
// each readout runs one conversion first (see prepareReading).

// BusMilliVolts returns the bus voltage in mV.
func (d *Device) BusMilliVolts() (int32, error) {
	if err := d.prepareReading(); err != nil {
		return 0, err
	}
	raw, err := d.readWord(d.prof.busVoltReg)
	if err != nil {
		return 0, err
	}
	raw >>= d.prof.busVoltShift
	return int32(uint64(raw) * uint64(d.prof.busVoltLSB_nV) / 1_000_000), nil
}

// ShuntMicroVolts returns the voltage across the shunt in uV. Parts without
// a shunt-voltage register (INA260) derive it from the current reading and
// the integrated shunt.
func (d *Device) ShuntMicroVolts() (int32, error) {
	if err := d.prepareReading(); err != nil {
		return 0, err
	}
	if d.prof.shuntVoltReg == 0 {
		uA, err := d.currentMicroAmps()
		if err != nil {
			return 0, err
		}
		// uA x uOhm = pV
		return int32(uA * int64(d.prof.internalShunt_uOhm) / 1_000_000), nil
	}
	raw, err := d.readS16(d.prof.shuntVoltReg)
	if err != nil {
		return 0, err
	}
	raw >>= d.prof.shuntVoltShift // arithmetic shift keeps the sign
	return int32(int64(raw) * int64(d.prof.shuntVoltLSB_nV) / 1000), nil
}

// BusMicroAmps returns the bus current in uA. Parts without a current
// register (INA3221) compute it from the shunt voltage and the configured
// shunt resistance.
func (d *Device) BusMicroAmps() (int64, error) {
	if err := d.prepareReading(); err != nil {
		return 0, err
	}
	return d.currentMicroAmps()
}

func (d *Device) currentMicroAmps() (int64, error) {
	if d.prof.currentReg == 0 {
		uV, err := d.shuntMicroVoltsRaw()
		if err != nil {
			return 0, err
		}
		// uV / uOhm = A; scale to uA before dividing to keep precision.
		return int64(uV) * 1_000_000 / int64(d.microOhmR), nil
	}
	raw, err := d.readS16(d.prof.currentReg)
	if err != nil {
		return 0, err
	}
	return int64(raw) * int64(d.cal.CurrentLSB_nA) / 1000, nil
}

// BusMicroWatts returns the bus power in uW. The power register reports a
// magnitude; parts without one (INA3221) multiply current by bus voltage,
// so reverse current yields negative power there.
func (d *Device) BusMicroWatts() (int64, error) {
	if err := d.prepareReading(); err != nil {
		return 0, err
	}
	if d.prof.powerReg == 0 {
		uA, err := d.currentMicroAmps()
		if err != nil {
			return 0, err
		}
		raw, err := d.readWord(d.prof.busVoltReg)
		if err != nil {
			return 0, err
		}
		mV := int64(uint64(raw>>d.prof.busVoltShift) * uint64(d.prof.busVoltLSB_nV) / 1_000_000)
		// uA x mV = nW
		return uA * mV / 1000, nil
	}
	raw, err := d.readWord(d.prof.powerReg)
	if err != nil {
		return 0, err
	}
	return int64(uint64(raw) * d.cal.PowerLSB_nW / 1000), nil
}

// shuntMicroVoltsRaw reads the shunt register without running the triggered
// conversion protocol; used by derived readouts that already did.
func (d *Device) shuntMicroVoltsRaw() (int32, error) {
	raw, err := d.readS16(d.prof.shuntVoltReg)
	if err != nil {
		return 0, err
	}
	raw >>= d.prof.shuntVoltShift
	return int32(int64(raw) * int64(d.prof.shuntVoltLSB_nV) / 1000), nil
}
