// Register addresses and bitfields shared across the INA family.

package ina

const (
	// --- Register sub-addresses common to the family (16-bit word registers) ---

	regConfig       = 0x00 // R/W
	regShuntVoltage = 0x01 // R
	regBusVoltage   = 0x02 // R
	regPower        = 0x03 // R
	regCurrent      = 0x04 // R
	regCalibration  = 0x05 // R/W
	regMaskEnable   = 0x06 // R/W, not on every device
	regAlertLimit   = 0x07 // R/W, not on every device
	regManufID      = 0xFE // R, not on every device
	regDieID        = 0xFF // R, not on every device

	// INA3221 lays its registers out per channel; channel 1 mirrors the
	// common shunt/bus pair and the mask/enable register moves to 0x0F.
	reg3221Shunt1     = 0x01
	reg3221Bus1       = 0x02
	reg3221MaskEnable = 0x0F

	// Writing this value to the configuration register resets the device.
	cmdReset = 0x8000

	// Operating mode field, bits 0-2 of the configuration register.
	configModeMask = 0x0007

	// --- Mask/enable register bits (INA226-class) ---

	alertShuntOverVolt  = 1 << 15
	alertShuntUnderVolt = 1 << 14
	alertBusOverVolt    = 1 << 13
	alertBusUnderVolt   = 1 << 12
	alertPowerOverLimit = 1 << 11
	alertConversionRdy  = 1 << 10

	// Conversion-ready flags. INA226-class latches CVRF in the mask/enable
	// register; the INA219 reports CNVR in the bus-voltage register; the
	// INA3221 uses bit 0 of its own mask/enable register.
	maskEnableCVRF = 0x0008
	busVoltageCNVR = 0x0002
	mask3221CVRF   = 0x0001

	// --- INA219 configuration fields ---

	ina219GainMask  = 0x1800 // PG bits 11-12
	ina219BADCMask  = 0x0780 // bus ADC resolution/averaging, bits 7-10
	ina219SADCMask  = 0x0078 // shunt ADC resolution/averaging, bits 3-6
	ina219AvgMask   = ina219BADCMask | ina219SADCMask
	ina219GainShift = 11

	// --- INA226-class configuration fields (also INA3221 positions) ---

	ina226AvgMask       = 0x0E00 // bits 9-11
	ina226BusConvMask   = 0x01C0 // bits 6-8
	ina226ShuntConvMask = 0x0038 // bits 3-5

	// Hard-coded die ID returned by the INA226 at register 0xFF.
	ina226DieID = 0x2260
)
