package hardware

import "phonedrain-sim/internal/config"

// MemoryState holds DRAM bandwidths in GB/s.
type MemoryState struct {
	ReadGBps  float64
	WriteGBps float64
}

// Memory models DRAM current.
type Memory struct {
	cfg config.Memory
	eta float64
}

// NewMemory builds a Memory model.
func NewMemory(cfg *config.Config) *Memory {
	return &Memory{cfg: cfg.Memory, eta: cfg.System.Efficiency}
}

// Current returns (δr·bw_r + δw·bw_w + static) / η in mA.
func (m *Memory) Current(st MemoryState) (float64, error) {
	if err := nonNegative("read bandwidth", st.ReadGBps); err != nil {
		return 0, err
	}
	if err := nonNegative("write bandwidth", st.WriteGBps); err != nil {
		return 0, err
	}
	ma := m.cfg.DeltaRead*st.ReadGBps + m.cfg.DeltaWrite*st.WriteGBps + m.cfg.StaticMA
	return checked("memory", ma/m.eta)
}

// StorageState reports whether flash is servicing I/O.
type StorageState struct {
	Active bool
}

// Storage models flash storage current.
type Storage struct {
	cfg config.Storage
	eta float64
}

// NewStorage builds a Storage model.
func NewStorage(cfg *config.Config) *Storage {
	return &Storage{cfg: cfg.Storage, eta: cfg.System.Efficiency}
}

// Current returns the active or idle current divided by η.
func (s *Storage) Current(st StorageState) (float64, error) {
	ma := s.cfg.IdleMA
	if st.Active {
		ma = s.cfg.ActiveMA
	}
	return checked("storage", ma/s.eta)
}
