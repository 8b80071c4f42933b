package sample

import "sort"

// Series is an immutable run of samples ordered by Epoch. Samples sharing a
// timestamp keep their input order and are not deduplicated.
type Series struct {
	samples []Sample
}

// NewSeries copies samples and stable-sorts the copy by Epoch.
func NewSeries(samples []Sample) Series {
	sorted := make([]Sample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Epoch < sorted[j].Epoch
	})
	return Series{samples: sorted}
}

func (s Series) Len() int { return len(s.samples) }

// At returns the i-th sample. It panics if i is out of range.
func (s Series) At(i int) Sample { return s.samples[i] }

func (s Series) First() (Sample, bool) {
	if len(s.samples) == 0 {
		return Sample{}, false
	}
	return s.samples[0], true
}

func (s Series) Last() (Sample, bool) {
	if len(s.samples) == 0 {
		return Sample{}, false
	}
	return s.samples[len(s.samples)-1], true
}

// Since returns the samples with Epoch >= epoch, preserving order.
// The result shares storage with s, which is safe because neither is mutated.
func (s Series) Since(epoch int64) Series {
	i := sort.Search(len(s.samples), func(i int) bool {
		return s.samples[i].Epoch >= epoch
	})
	return Series{samples: s.samples[i:len(s.samples):len(s.samples)]}
}

// Samples returns a copy of the ordered samples.
func (s Series) Samples() []Sample {
	out := make([]Sample, len(s.samples))
	copy(out, s.samples)
	return out
}
