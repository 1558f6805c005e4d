package matching

import "sort"

// DefaultMinimumScore is the inclusive cutoff below which programs are
// dropped from ranked results.
const DefaultMinimumScore = 50

// Options tunes ranking behaviour. The zero value falls back to the
// default cutoff and equal weights.
type Options struct {
	MinimumScore int
	Weights      Weights
}

func (o Options) normalized() Options {
	if o.MinimumScore <= 0 {
		o.MinimumScore = DefaultMinimumScore
	}
	if o.Weights == (Weights{}) {
		o.Weights = DefaultWeights()
	}
	return o
}

// Rank evaluates every program in the catalog against the qualification
// set, drops programs scoring below the minimum, and sorts the rest
// descending by score. The sort is stable so catalog order breaks ties,
// which keeps repeated runs over unchanged data identical.
func Rank(programs []Program, qualifications []Qualification, opts Options) []MatchResult {
	opts = opts.normalized()

	results := make([]MatchResult, 0, len(programs))
	for _, program := range programs {
		result, ok := EvaluateProgram(program, qualifications, opts.Weights)
		if !ok {
			continue
		}
		if result.Score < opts.MinimumScore {
			continue
		}
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}
