package uct

// Statistics is a simple incremental (count, mean) accumulator. Not safe
// for concurrent use; each worker keeps its own and the driver merges them.
type Statistics struct {
	count uint64
	mean  float64
}

func (s *Statistics) Add(v float64) {
	s.count++
	s.mean += (v - s.mean) / float64(s.count)
}

func (s *Statistics) Count() uint64 { return s.count }

func (s *Statistics) Mean() float64 { return s.mean }

func (s *Statistics) Clear() {
	s.count = 0
	s.mean = 0
}

// Merge folds another accumulator into this one.
func (s *Statistics) Merge(o Statistics) {
	if o.count == 0 {
		return
	}
	total := s.count + o.count
	s.mean += (o.mean - s.mean) * float64(o.count) / float64(total)
	s.count = total
}
