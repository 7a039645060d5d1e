package logger

import (
	"strconv"
	"strings"
	"sync"
)

// ratioSampler lets num out of every den events through, in a fixed cycle.
type ratioSampler struct {
	mu    sync.Mutex
	num   int
	den   int
	count int
}

func newRatioSampler(num, den int) *ratioSampler {
	s := &ratioSampler{}
	s.Set(num, den)
	return s
}

// Set replaces the ratio; non-positive values disable sampling (everything passes).
func (s *ratioSampler) Set(num, den int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count = 0
	if num <= 0 || den <= 0 {
		s.num, s.den = 0, 0
		return
	}
	s.num, s.den = min(num, den), den
}

// Allow reports whether the next event passes.
func (s *ratioSampler) Allow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.den == 0 {
		return true
	}
	s.count = s.count%s.den + 1
	return s.count <= s.num
}

// parseRatioSpec accepts "n/d" or a bare "d" meaning 1/d.
func parseRatioSpec(spec string) (int, int) {
	spec = strings.TrimSpace(spec)
	if n, d, ok := strings.Cut(spec, "/"); ok {
		num, err1 := strconv.Atoi(strings.TrimSpace(n))
		den, err2 := strconv.Atoi(strings.TrimSpace(d))
		if err1 == nil && err2 == nil {
			return num, den
		}
		return 0, 0
	}
	if v, err := strconv.Atoi(spec); err == nil && v > 0 {
		return 1, v
	}
	return 0, 0
}
