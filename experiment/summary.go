package experiment

// Summary aggregates a run.
type Summary struct {
	Trials        int
	MeanOwn       float64 // mean over trials and groups of v[p][p]
	MeanNext      float64 // mean over trials and groups of v[p][(p+1) mod G]
	EnvyFreeShare float64 // fraction of trials with no envious group
}

// Summarize computes the aggregate figures reported after a run.
func (r *Result) Summarize() Summary {
	s := Summary{Trials: len(r.Trials)}
	if s.Trials == 0 {
		return s
	}

	var own, next float64
	var cells, envyFree int
	for _, tr := range r.Trials {
		own += sum(tr.Valuations.Own())
		next += sum(tr.Valuations.Next())
		cells += len(tr.Valuations)
		if tr.Valuations.EnvyFree() {
			envyFree++
		}
	}
	if cells > 0 {
		s.MeanOwn = own / float64(cells)
		s.MeanNext = next / float64(cells)
	}
	s.EnvyFreeShare = float64(envyFree) / float64(s.Trials)

	return s
}

func sum(xs []float64) float64 {
	var t float64
	for _, x := range xs {
		t += x
	}

	return t
}
