package ina

// I2C 16-bit word operations. The INA family sends the HIGH byte first
// (big-endian), unlike SMBus word-protocol parts.

func (d *Device) readWord(reg byte) (uint16, error) {
	d.w[0] = reg
	if err := d.i2c.Tx(d.addr, d.w[:1], d.r[:2]); err != nil {
		return 0, err
	}
	return uint16(d.r[0])<<8 | uint16(d.r[1]), nil
}

func (d *Device) readS16(reg byte) (int16, error) {
	u, err := d.readWord(reg)
	return int16(u), err
}

func (d *Device) writeWord(reg byte, val uint16) error {
	d.w[0] = reg
	d.w[1] = byte(val >> 8) // high
	d.w[2] = byte(val)      // low
	return d.i2c.Tx(d.addr, d.w[:3], nil)
}

// modifyField replaces the masked field of a 16-bit register, preserving all
// other bits (read-modify-write).
func (d *Device) modifyField(reg byte, mask, bits uint16) error {
	current, err := d.readWord(reg)
	if err != nil {
		return err
	}
	return d.writeWord(reg, (current&^mask)|(bits&mask))
}

// modifyBits sets and clears individual bits of a 16-bit register.
func (d *Device) modifyBits(reg byte, set, clear uint16) error {
	current, err := d.readWord(reg)
	if err != nil {
		return err
	}
	return d.writeWord(reg, (current|set)&^clear)
}
