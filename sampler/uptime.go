package sampler

import "time"

// UptimeProbe reads the host uptime.
type UptimeProbe func() (time.Duration, error)

// UptimeSampler reads host uptime. There is nothing to delta; it exists so
// the slow cadence tier has a real member and the module layer stays uniform.
type UptimeSampler struct {
	probe UptimeProbe
}

func NewUptimeSampler(probe UptimeProbe) *UptimeSampler {
	return &UptimeSampler{probe: probe}
}

func (s *UptimeSampler) Sample() (time.Duration, bool, error) {
	d, err := s.probe()
	if err != nil {
		return 0, false, err
	}
	return d, true, nil
}
