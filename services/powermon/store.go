package powermon

import (
	"inamon-go/drivers/ina"
	"inamon-go/errcode"
)

// Store persists per-slot calibration snapshots so a restart can confirm
// the recomputed calibration matches what was previously programmed.
type Store interface {
	LoadCalibration(slot int) (ina.Snapshot, error)
	SaveCalibration(slot int, s ina.Snapshot) error
}

// MemStore is a map-backed Store for hosts without non-volatile storage,
// and for tests.
type MemStore struct {
	snaps map[int]ina.Snapshot
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{snaps: make(map[int]ina.Snapshot)}
}

func (m *MemStore) LoadCalibration(slot int) (ina.Snapshot, error) {
	s, ok := m.snaps[slot]
	if !ok {
		return ina.Snapshot{}, &errcode.E{C: errcode.NotFound, Op: "powermon.LoadCalibration"}
	}
	return s, nil
}

func (m *MemStore) SaveCalibration(slot int, s ina.Snapshot) error {
	m.snaps[slot] = s
	return nil
}

// LoadCalibration retrieves the persisted snapshot for one slot from the
// attached store.
func (m *Monitor) LoadCalibration(slot int) (ina.Snapshot, error) {
	if m.store == nil {
		return ina.Snapshot{}, &errcode.E{C: errcode.NotFound, Op: "powermon.LoadCalibration", Msg: "no store attached"}
	}
	return m.store.LoadCalibration(slot)
}
