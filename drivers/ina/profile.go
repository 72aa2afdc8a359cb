package ina

// ChipType identifies a supported INA variant.
type ChipType uint8

const (
	ChipUnknown ChipType = iota
	INA219
	INA226
	INA230
	INA231
	INA233
	INA250
	INA253
	INA260
	INA3221
)

// String returns the fixed human-readable chip name.
func (t ChipType) String() string {
	if p, ok := profiles[t]; ok {
		return p.name
	}
	return "UNKNOWN"
}

// fieldStep maps a supported averaging sample count onto pre-positioned
// configuration register bits.
type fieldStep struct {
	samples uint16
	bits    uint16
}

// timeStep maps a supported conversion time in microseconds onto
// pre-positioned configuration register bits.
type timeStep struct {
	us   uint32
	bits uint16
}

// profile is one row of the per-chip constant table. Chips differing only in
// register-bit layout, LSB scaling and feature set are expressed as rows
// here; anything beyond that needs a separate driver, not more rows.
type profile struct {
	name string

	// Fixed voltage LSBs in nanovolts. The INA219 and INA3221 left-align
	// their readings, hence the shifts.
	busVoltLSB_nV   uint32
	shuntVoltLSB_nV uint32
	busVoltShift    uint8
	shuntVoltShift  uint8

	// Calibration constants. calibScale is the datasheet constant
	// (0.04096 V for INA219-class, 0.00512 V for INA226-class) pre-scaled
	// so the calibration quotient works in nA x uOhm integer units.
	calibScale    uint64
	powerConstant uint32

	// Configuration register fields and their supported discrete settings,
	// ordered smallest first.
	avgMask        uint16
	avgSteps       []fieldStep
	busConvMask    uint16
	busConvSteps   []timeStep
	shuntConvMask  uint16
	shuntConvSteps []timeStep

	// Register offsets. A zero currentReg/powerReg/shuntVoltReg means the
	// register is absent on this part.
	shuntVoltReg  byte
	busVoltReg    byte
	currentReg    byte
	powerReg      byte
	maskEnableReg byte
	alertLimitReg byte

	// Conversion-ready flag location.
	readyReg  byte
	readyMask uint16

	hasCalibration bool
	hasMaskEnable  bool
	hasProgGain    bool

	// Parts with an integrated shunt override the caller-supplied
	// resistance; parts with a fixed measurement chain (INA260) skip the
	// calibration register entirely.
	internalShunt_uOhm uint32
	fixedCurrentLSB_nA uint64
}

// Discrete setting tables shared by family members.

var ina219AvgSteps = []fieldStep{
	// 12-bit conversions with 1..128 averaged samples (codes 0x8..0xF),
	// applied to both the bus and shunt ADC fields.
	{1, 0x8<<7 | 0x8<<3},
	{2, 0x9<<7 | 0x9<<3},
	{4, 0xA<<7 | 0xA<<3},
	{8, 0xB<<7 | 0xB<<3},
	{16, 0xC<<7 | 0xC<<3},
	{32, 0xD<<7 | 0xD<<3},
	{64, 0xE<<7 | 0xE<<3},
	{128, 0xF<<7 | 0xF<<3},
}

var ina219BusConvSteps = []timeStep{
	{84, 0x0 << 7},
	{148, 0x1 << 7},
	{276, 0x2 << 7},
	{532, 0x3 << 7},
	{1060, 0x9 << 7},
	{2130, 0xA << 7},
	{4260, 0xB << 7},
	{8510, 0xC << 7},
	{17020, 0xD << 7},
	{34050, 0xE << 7},
	{68100, 0xF << 7},
}

var ina219ShuntConvSteps = []timeStep{
	{84, 0x0 << 3},
	{148, 0x1 << 3},
	{276, 0x2 << 3},
	{532, 0x3 << 3},
	{1060, 0x9 << 3},
	{2130, 0xA << 3},
	{4260, 0xB << 3},
	{8510, 0xC << 3},
	{17020, 0xD << 3},
	{34050, 0xE << 3},
	{68100, 0xF << 3},
}

var ina226AvgSteps = []fieldStep{
	{1, 0 << 9},
	{4, 1 << 9},
	{16, 2 << 9},
	{64, 3 << 9},
	{128, 4 << 9},
	{256, 5 << 9},
	{512, 6 << 9},
	{1024, 7 << 9},
}

var ina226BusConvSteps = []timeStep{
	{140, 0 << 6},
	{204, 1 << 6},
	{332, 2 << 6},
	{588, 3 << 6},
	{1100, 4 << 6},
	{2116, 5 << 6},
	{4156, 6 << 6},
	{8244, 7 << 6},
}

var ina226ShuntConvSteps = []timeStep{
	{140, 0 << 3},
	{204, 1 << 3},
	{332, 2 << 3},
	{588, 3 << 3},
	{1100, 4 << 3},
	{2116, 5 << 3},
	{4156, 6 << 3},
	{8244, 7 << 3},
}

// calibScale values: 0.04096 / (LSB[A] * R[ohm]) with the current LSB in nA
// and the shunt in uOhm gives 0.04096e15 on the numerator.
const (
	calibScale219 = 40_960_000_000_000
	calibScale226 = 5_120_000_000_000
)

var profiles = map[ChipType]*profile{
	INA219: {
		name:            "INA219",
		busVoltLSB_nV:   4_000_000,
		shuntVoltLSB_nV: 10_000,
		busVoltShift:    3,
		calibScale:      calibScale219,
		powerConstant:   20,
		avgMask:         ina219AvgMask,
		avgSteps:        ina219AvgSteps,
		busConvMask:     ina219BADCMask,
		busConvSteps:    ina219BusConvSteps,
		shuntConvMask:   ina219SADCMask,
		shuntConvSteps:  ina219ShuntConvSteps,
		shuntVoltReg:    regShuntVoltage,
		busVoltReg:      regBusVoltage,
		currentReg:      regCurrent,
		powerReg:        regPower,
		readyReg:        regBusVoltage,
		readyMask:       busVoltageCNVR,
		hasCalibration:  true,
		hasProgGain:     true,
	},
	INA226: {
		name:            "INA226",
		busVoltLSB_nV:   1_250_000,
		shuntVoltLSB_nV: 2_500,
		calibScale:      calibScale226,
		powerConstant:   25,
		avgMask:         ina226AvgMask,
		avgSteps:        ina226AvgSteps,
		busConvMask:     ina226BusConvMask,
		busConvSteps:    ina226BusConvSteps,
		shuntConvMask:   ina226ShuntConvMask,
		shuntConvSteps:  ina226ShuntConvSteps,
		shuntVoltReg:    regShuntVoltage,
		busVoltReg:      regBusVoltage,
		currentReg:      regCurrent,
		powerReg:        regPower,
		maskEnableReg:   regMaskEnable,
		alertLimitReg:   regAlertLimit,
		readyReg:        regMaskEnable,
		readyMask:       maskEnableCVRF,
		hasCalibration:  true,
		hasMaskEnable:   true,
	},
	INA230: {
		name:            "INA230",
		busVoltLSB_nV:   1_250_000,
		shuntVoltLSB_nV: 2_500,
		calibScale:      calibScale226,
		powerConstant:   25,
		avgMask:         ina226AvgMask,
		avgSteps:        ina226AvgSteps,
		busConvMask:     ina226BusConvMask,
		busConvSteps:    ina226BusConvSteps,
		shuntConvMask:   ina226ShuntConvMask,
		shuntConvSteps:  ina226ShuntConvSteps,
		shuntVoltReg:    regShuntVoltage,
		busVoltReg:      regBusVoltage,
		currentReg:      regCurrent,
		powerReg:        regPower,
		maskEnableReg:   regMaskEnable,
		alertLimitReg:   regAlertLimit,
		readyReg:        regMaskEnable,
		readyMask:       maskEnableCVRF,
		hasCalibration:  true,
		hasMaskEnable:   true,
	},
	INA231: {
		name:            "INA231",
		busVoltLSB_nV:   1_250_000,
		shuntVoltLSB_nV: 2_500,
		calibScale:      calibScale226,
		powerConstant:   25,
		avgMask:         ina226AvgMask,
		avgSteps:        ina226AvgSteps,
		busConvMask:     ina226BusConvMask,
		busConvSteps:    ina226BusConvSteps,
		shuntConvMask:   ina226ShuntConvMask,
		shuntConvSteps:  ina226ShuntConvSteps,
		shuntVoltReg:    regShuntVoltage,
		busVoltReg:      regBusVoltage,
		currentReg:      regCurrent,
		powerReg:        regPower,
		maskEnableReg:   regMaskEnable,
		alertLimitReg:   regAlertLimit,
		readyReg:        regMaskEnable,
		readyMask:       maskEnableCVRF,
		hasCalibration:  true,
		hasMaskEnable:   true,
	},
	INA233: {
		name:            "INA233",
		busVoltLSB_nV:   1_250_000,
		shuntVoltLSB_nV: 2_500,
		calibScale:      calibScale226,
		powerConstant:   25,
		avgMask:         ina226AvgMask,
		avgSteps:        ina226AvgSteps,
		busConvMask:     ina226BusConvMask,
		busConvSteps:    ina226BusConvSteps,
		shuntConvMask:   ina226ShuntConvMask,
		shuntConvSteps:  ina226ShuntConvSteps,
		shuntVoltReg:    regShuntVoltage,
		busVoltReg:      regBusVoltage,
		currentReg:      regCurrent,
		powerReg:        regPower,
		maskEnableReg:   regMaskEnable,
		alertLimitReg:   regAlertLimit,
		readyReg:        regMaskEnable,
		readyMask:       maskEnableCVRF,
		hasCalibration:  true,
		hasMaskEnable:   true,
	},
	INA250: {
		name:               "INA250",
		busVoltLSB_nV:      1_250_000,
		shuntVoltLSB_nV:    2_500,
		calibScale:         calibScale226,
		powerConstant:      25,
		avgMask:            ina226AvgMask,
		avgSteps:           ina226AvgSteps,
		busConvMask:        ina226BusConvMask,
		busConvSteps:       ina226BusConvSteps,
		shuntConvMask:      ina226ShuntConvMask,
		shuntConvSteps:     ina226ShuntConvSteps,
		shuntVoltReg:       regShuntVoltage,
		busVoltReg:         regBusVoltage,
		currentReg:         regCurrent,
		powerReg:           regPower,
		maskEnableReg:      regMaskEnable,
		alertLimitReg:      regAlertLimit,
		readyReg:           regMaskEnable,
		readyMask:          maskEnableCVRF,
		hasCalibration:     true,
		hasMaskEnable:      true,
		internalShunt_uOhm: 2_000, // integrated 2 mOhm shunt
	},
	INA253: {
		name:               "INA253",
		busVoltLSB_nV:      1_250_000,
		shuntVoltLSB_nV:    2_500,
		calibScale:         calibScale226,
		powerConstant:      25,
		avgMask:            ina226AvgMask,
		avgSteps:           ina226AvgSteps,
		busConvMask:        ina226BusConvMask,
		busConvSteps:       ina226BusConvSteps,
		shuntConvMask:      ina226ShuntConvMask,
		shuntConvSteps:     ina226ShuntConvSteps,
		shuntVoltReg:       regShuntVoltage,
		busVoltReg:         regBusVoltage,
		currentReg:         regCurrent,
		powerReg:           regPower,
		maskEnableReg:      regMaskEnable,
		alertLimitReg:      regAlertLimit,
		readyReg:           regMaskEnable,
		readyMask:          maskEnableCVRF,
		hasCalibration:     true,
		hasMaskEnable:      true,
		internalShunt_uOhm: 2_000, // integrated 2 mOhm shunt
	},
	INA260: {
		name:           "INA260",
		busVoltLSB_nV:  1_250_000,
		powerConstant:  8, // 10 mW per bit at the fixed 1.25 mA current LSB
		avgMask:        ina226AvgMask,
		avgSteps:       ina226AvgSteps,
		busConvMask:    ina226BusConvMask,
		busConvSteps:   ina226BusConvSteps,
		shuntConvMask:  ina226ShuntConvMask,
		shuntConvSteps: ina226ShuntConvSteps,
		// No shunt-voltage register: 0x01 holds current on this part.
		busVoltReg:         regBusVoltage,
		currentReg:         0x01,
		powerReg:           regPower,
		maskEnableReg:      regMaskEnable,
		alertLimitReg:      regAlertLimit,
		readyReg:           regMaskEnable,
		readyMask:          maskEnableCVRF,
		hasMaskEnable:      true,
		internalShunt_uOhm: 2_000,
		fixedCurrentLSB_nA: 1_250_000,
	},
	INA3221: {
		name:            "INA3221",
		busVoltLSB_nV:   8_000_000,
		shuntVoltLSB_nV: 40_000,
		busVoltShift:    3,
		shuntVoltShift:  3,
		avgMask:         ina226AvgMask,
		avgSteps:        ina226AvgSteps,
		busConvMask:     ina226BusConvMask,
		busConvSteps:    ina226BusConvSteps,
		shuntConvMask:   ina226ShuntConvMask,
		shuntConvSteps:  ina226ShuntConvSteps,
		shuntVoltReg:    reg3221Shunt1,
		busVoltReg:      reg3221Bus1,
		readyReg:        reg3221MaskEnable,
		readyMask:       mask3221CVRF,
	},
}

func profileFor(t ChipType) (*profile, bool) {
	p, ok := profiles[t]
	return p, ok
}
