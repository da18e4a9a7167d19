package csvload

import "fmt"

// Microbenchmark CSV columns.
const (
	ColBidders   = "num_bidders"
	ColDomain    = "domain_size"
	ColPhase     = "phase"
	ColTimeMs    = "time_ms"
	ColCommBytes = "comm_bytes"
)

// Phase labels used in microbenchmark rows.
const (
	PhaseOnline     = "online"
	PhasePreprocess = "preprocess"
)

// MicroKey identifies one microbenchmark parameter point.
type MicroKey struct {
	Bidders int
	Domain  int
	Phase   string
}

func (k MicroKey) String() string {
	return fmt.Sprintf("(%d, %d, %s)", k.Bidders, k.Domain, k.Phase)
}

// Micro holds time and communication series for a microbenchmark run.
type Micro struct {
	Time *Grouped[MicroKey]
	Comm *Grouped[MicroKey]
}

// LoadMicro reads a microbenchmark results CSV. comm_bytes is optional per
// row; time_ms is required.
func LoadMicro(path string) (Micro, []Warning, error) {
	recs, warnings, err := Read(path, ColBidders, ColDomain, ColPhase, ColTimeMs)
	if err != nil {
		return Micro{}, nil, err
	}
	timeGroups, timeWarnings := GroupBy(recs, microKey, ColTimeMs, false)
	warnings = append(warnings, timeWarnings...)

	var commGroups *Grouped[MicroKey]
	if recs.Has(ColCommBytes) {
		var commWarnings []Warning
		commGroups, commWarnings = GroupBy(recs, microKey, ColCommBytes, true)
		warnings = append(warnings, onlyNew(commWarnings, timeWarnings)...)
	} else {
		commGroups = NewGrouped[MicroKey]()
	}
	return Micro{Time: timeGroups, Comm: commGroups}, warnings, nil
}

func microKey(r Record) (MicroKey, error) {
	bidders, ok, err := r.Int(ColBidders)
	if err != nil {
		return MicroKey{}, err
	}
	if !ok {
		return MicroKey{}, fmt.Errorf("column %s: empty", ColBidders)
	}
	domain, ok, err := r.Int(ColDomain)
	if err != nil {
		return MicroKey{}, err
	}
	if !ok {
		return MicroKey{}, fmt.Errorf("column %s: empty", ColDomain)
	}
	phase, ok := r.Get(ColPhase)
	if !ok {
		return MicroKey{}, fmt.Errorf("column %s: empty", ColPhase)
	}
	return MicroKey{Bidders: bidders, Domain: domain, Phase: phase}, nil
}

// onlyNew drops warnings for lines already reported in seen, so a row with
// a bad key is reported once even though two groupings visit it.
func onlyNew(warnings, seen []Warning) []Warning {
	lines := make(map[int]struct{}, len(seen))
	for _, w := range seen {
		lines[w.Line] = struct{}{}
	}
	var out []Warning
	for _, w := range warnings {
		if _, dup := lines[w.Line]; dup {
			continue
		}
		out = append(out, w)
	}
	return out
}
