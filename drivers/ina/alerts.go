package ina

// Alert-pin configuration. Only parts with a mask/enable register expose the
// alert functions; everywhere else these calls report applied=false without
// touching the bus, which is an expected, checkable condition rather than an
// error.
//
// Each enable writes the threshold (converted to raw register counts with
// the record's LSBs) into the alert-limit register and sets the function bit
// in the mask/enable register; disable clears the bit and leaves the limit.

// AlertOnConversion drives the alert pin when a conversion completes.
func (d *Device) AlertOnConversion(enable bool) (bool, error) {
	if !d.prof.hasMaskEnable {
		return false, nil
	}
	return true, d.setAlertBit(alertConversionRdy, enable)
}

// AlertOnShuntOverVoltage asserts when the shunt voltage exceeds the limit.
func (d *Device) AlertOnShuntOverVoltage(enable bool, microVolts int64) (bool, error) {
	return d.alertOnLimit(alertShuntOverVolt, enable, d.prof.shuntMicroVoltsToRaw(microVolts))
}

// AlertOnShuntUnderVoltage asserts when the shunt voltage drops below the limit.
func (d *Device) AlertOnShuntUnderVoltage(enable bool, microVolts int64) (bool, error) {
	return d.alertOnLimit(alertShuntUnderVolt, enable, d.prof.shuntMicroVoltsToRaw(microVolts))
}

// AlertOnBusOverVoltage asserts when the bus voltage exceeds the limit.
func (d *Device) AlertOnBusOverVoltage(enable bool, milliVolts int64) (bool, error) {
	return d.alertOnLimit(alertBusOverVolt, enable, d.prof.busMilliVoltsToRaw(milliVolts))
}

// AlertOnBusUnderVoltage asserts when the bus voltage drops below the limit.
func (d *Device) AlertOnBusUnderVoltage(enable bool, milliVolts int64) (bool, error) {
	return d.alertOnLimit(alertBusUnderVolt, enable, d.prof.busMilliVoltsToRaw(milliVolts))
}

// AlertOnPowerOverLimit asserts when the computed power exceeds the limit.
func (d *Device) AlertOnPowerOverLimit(enable bool, microWatts int64) (bool, error) {
	return d.alertOnLimit(alertPowerOverLimit, enable, microWattsToRaw(microWatts, d.cal.PowerLSB_nW))
}

func (d *Device) alertOnLimit(bit uint16, enable bool, raw uint16) (bool, error) {
	if !d.prof.hasMaskEnable {
		return false, nil
	}
	if enable {
		if err := d.writeWord(d.prof.alertLimitReg, raw); err != nil {
			return true, err
		}
	}
	return true, d.setAlertBit(bit, enable)
}

func (d *Device) setAlertBit(bit uint16, enable bool) error {
	if enable {
		return d.modifyBits(d.prof.maskEnableReg, bit, 0)
	}
	return d.modifyBits(d.prof.maskEnableReg, 0, bit)
}
