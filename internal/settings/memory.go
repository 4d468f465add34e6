package settings

// MemStore is an in-memory Store for tests and the link simulator.
type MemStore struct {
	cells   [slotCount]int8
	written [slotCount]bool
}

func NewMemStore() *MemStore { return &MemStore{} }

func (m *MemStore) Load(s Slot) (int8, error) {
	if err := checkSlot(s); err != nil {
		return 0, err
	}
	if !m.written[s] {
		return defaultFor(s), nil
	}
	return m.cells[s], nil
}

func (m *MemStore) Save(s Slot, v int8) error {
	if err := checkSlot(s); err != nil {
		return err
	}
	if err := checkValue(v); err != nil {
		return err
	}
	m.cells[s] = v
	m.written[s] = true
	return nil
}

func (m *MemStore) Close() error { return nil }
