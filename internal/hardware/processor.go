package hardware

import (
	"phonedrain-sim/internal/config"
	"phonedrain-sim/internal/fault"
)

// ProcessorState is the compute operating point. Loads are utilisation
// fractions, frequencies are in MHz.
type ProcessorState struct {
	CPUFreqMHz float64
	CPULoad    float64
	GPUFreqMHz float64
	GPULoad    float64
}

// Processor models CPU cluster plus GPU current.
type Processor struct {
	cpu config.Cluster
	gpu config.GPU
	eta float64
}

// NewProcessor builds a Processor model using the configured CPU cluster.
func NewProcessor(cfg *config.Config) *Processor {
	return &Processor{cpu: cfg.Processor.CPU(), gpu: cfg.Processor.GPU, eta: cfg.System.Efficiency}
}

func (p *Processor) check(st ProcessorState) error {
	if err := nonNegative("cpu frequency", st.CPUFreqMHz); err != nil {
		return err
	}
	if err := nonNegative("gpu frequency", st.GPUFreqMHz); err != nil {
		return err
	}
	if st.GPUFreqMHz > p.gpu.FreqMaxMHz {
		return fault.Domainf("gpu frequency %g MHz above maximum %g MHz", st.GPUFreqMHz, p.gpu.FreqMaxMHz)
	}
	if err := unitRange("cpu load", st.CPULoad); err != nil {
		return err
	}
	return unitRange("gpu load", st.GPULoad)
}

// Current returns [μc(a f² + b f) + μg(a f² + b f) + c_cpu + c_gpu] / η in mA.
func (p *Processor) Current(st ProcessorState) (float64, error) {
	if err := p.check(st); err != nil {
		return 0, err
	}
	return checked("processor", (p.cpuDynamic(st)+p.gpuDynamic(st)+p.cpu.C+p.gpu.C)/p.eta)
}

func (p *Processor) cpuDynamic(st ProcessorState) float64 {
	f := st.CPUFreqMHz
	return st.CPULoad * (p.cpu.A*f*f + p.cpu.B*f)
}

func (p *Processor) gpuDynamic(st ProcessorState) float64 {
	f := st.GPUFreqMHz
	return st.GPULoad * (p.gpu.A*f*f + p.gpu.B*f)
}
