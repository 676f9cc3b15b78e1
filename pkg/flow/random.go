package flow

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/openstimuli/cadence/pkg/schema"
)

// Shuffle permutes s in place with an unbiased Fisher–Yates pass, uniform over
// all n! orderings. Lengths 0 and 1 are left unchanged.
func Shuffle[T any](rng *rand.Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// applyQuestionOrder applies a question-order randomization policy to the
// questions of a page, returning the reordered (and possibly truncated) list
// together with the questions a show-K or layout policy left out.
func applyQuestionOrder(rng *rand.Rand, questions []schema.Question, cfg schema.OrderRandomization) ([]schema.Question, []schema.Question, error) {
	switch cfg.Mode {
	case "", schema.RandomNone:
		return questions, nil, nil

	case schema.RandomShuffle:
		out := append([]schema.Question(nil), questions...)
		Shuffle(rng, out)
		return out, nil, nil

	case schema.RandomShowOnly:
		out := append([]schema.Question(nil), questions...)
		Shuffle(rng, out)
		k := cfg.Count
		if k < 0 || k > len(out) {
			k = len(out)
		}
		return out[:k], out[k:], nil

	case schema.RandomLayout:
		index := make(map[string]int, len(questions))
		for i, q := range questions {
			index[q.Name] = i
		}
		picked, leftover, err := composeLayout(rng, cfg.Layout, cfg.Sets, index)
		if err != nil {
			return nil, nil, fmt.Errorf("question layout: %w", err)
		}
		out := make([]schema.Question, len(picked))
		for i, qi := range picked {
			out[i] = questions[qi]
		}
		unused := make([]schema.Question, 0, len(leftover))
		for _, qi := range leftover {
			unused = append(unused, questions[qi])
		}
		return out, unused, nil

	default:
		return nil, nil, fmt.Errorf("unknown question-order randomization mode %q", cfg.Mode)
	}
}

// applyChoiceOrder applies an in-question choice randomization policy,
// returning the presented choices and the unused remainder. Policies permute,
// never duplicate; items only drop into the unused list where show-K or a
// layout explicitly truncates.
func applyChoiceOrder(rng *rand.Rand, q schema.Question, cfg schema.ChoiceRandomization) ([]schema.Choice, []schema.Choice, error) {
	choices := q.Choices

	switch cfg.Mode {
	case "", schema.RandomNone:
		return choices, nil, nil

	case schema.RandomShuffle:
		out := append([]schema.Choice(nil), choices...)
		Shuffle(rng, out)
		return out, nil, nil

	case schema.RandomShowOnly:
		out := append([]schema.Choice(nil), choices...)
		Shuffle(rng, out)
		k := cfg.Count
		if k < 0 || k > len(out) {
			k = len(out)
		}
		return out[:k], out[k:], nil

	case schema.RandomReverse:
		out := append([]schema.Choice(nil), choices...)
		if rng.IntN(2) == 1 {
			for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
				out[i], out[j] = out[j], out[i]
			}
		}
		return out, nil, nil

	case schema.RandomLayout:
		index := make(map[string]int, len(choices))
		for i, c := range choices {
			index[choiceID(c)] = i
		}
		picked, leftover, err := composeLayout(rng, cfg.Layout, cfg.Sets, index)
		if err != nil {
			return nil, nil, fmt.Errorf("choice layout for question %q: %w", q.Name, err)
		}
		out := make([]schema.Choice, len(picked))
		for i, ci := range picked {
			out[i] = choices[ci]
		}
		unused := make([]schema.Choice, 0, len(leftover))
		for _, ci := range leftover {
			unused = append(unused, choices[ci])
		}
		return out, unused, nil

	default:
		return nil, nil, fmt.Errorf("unknown in-question randomization mode %q for question %q", cfg.Mode, q.Name)
	}
}

// choiceID is the identifier choice-layout sets refer to.
func choiceID(c schema.Choice) string {
	return fmt.Sprintf("%v", c.Value)
}

// composeLayout resolves a named-subset layout over items addressed by id.
// Each occurrence of a set name in the layout consumes the next unconsumed
// member of that set (members are shuffled once per set before consumption).
// It returns the picked item indices in layout order, plus every index the
// layout did not consume, so nothing is silently lost.
func composeLayout(rng *rand.Rand, layout []string, sets map[string][]string, index map[string]int) ([]int, []int, error) {
	// Shuffle a private copy of each set's membership.
	shuffled := make(map[string][]string, len(sets))
	for name, members := range sets {
		cp := append([]string(nil), members...)
		Shuffle(rng, cp)
		shuffled[name] = cp
	}

	consumedPerSet := make(map[string]int, len(sets))
	consumed := make(map[int]bool, len(index))
	var picked []int

	for _, setName := range layout {
		members, ok := shuffled[setName]
		if !ok {
			return nil, nil, fmt.Errorf("layout references unknown set %q", setName)
		}
		// Take the next member not already consumed via another set.
		var taken bool
		for consumedPerSet[setName] < len(members) {
			id := members[consumedPerSet[setName]]
			consumedPerSet[setName]++
			idx, ok := index[id]
			if !ok {
				return nil, nil, fmt.Errorf("set %q references unknown item %q", setName, id)
			}
			if consumed[idx] {
				continue
			}
			consumed[idx] = true
			picked = append(picked, idx)
			taken = true
			break
		}
		if !taken {
			return nil, nil, fmt.Errorf("set %q exhausted by layout", setName)
		}
	}

	var leftover []int
	for _, idx := range index {
		if !consumed[idx] {
			leftover = append(leftover, idx)
		}
	}
	// Keep the unused remainder in authored order.
	sort.Ints(leftover)
	return picked, leftover, nil
}
