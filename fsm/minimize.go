package fsm

import (
	"fmt"
	"sort"
	"time"

	"github.com/ingsock/Chartonics/fsm/diag"
)

// minimize reduces e to a sum-of-products form using a Quine-McCluskey
// style combine-and-cover pass over e's truth table. No minimization
// library exists anywhere in the corpus this was grounded on, so this is
// one of the few stdlib-only components in the package; see the design
// notes for why that is unavoidable here.
//
// minimize is bounded by deadline: on timeout it emits
// diag.CodeMinimizationFailed and returns e unmodified rather than an
// incorrect reduction, since an unminimized-but-correct equation is always
// safe to emit as VHDL.
func (r *runCtx) minimize(stage diag.Stage, label string, e Expr, deadline time.Duration) Expr {
	if isTrue(e) || isFalse(e) {
		return e
	}

	vars := Vars(e)
	if len(vars) == 0 || len(vars) > 20 {
		// Either a constant in disguise or too wide to enumerate safely
		// within any reasonable deadline; leave it as authored.
		return e
	}

	deadlineAt := time.Now().Add(deadline)

	minterms := enumerateMinterms(e, vars)
	if len(minterms) == 0 {
		return False()
	}
	if len(minterms) == 1<<uint(len(vars)) {
		return True()
	}

	primes, ok := combineToPrimes(minterms, len(vars), deadlineAt)
	if !ok {
		r.emit(stage, diag.CodeMinimizationFailed, label,
			fmt.Sprintf("minimization of %q exceeded its deadline; emitting unminimized form", label),
			map[string]interface{}{"reason": "deadline"})
		if r.cfg.metrics != nil {
			r.cfg.metrics.IncrementMinimizationFailures()
		}
		return e
	}

	cover, ok := selectCover(primes, minterms, deadlineAt)
	if !ok {
		r.emit(stage, diag.CodeMinimizationFailed, label,
			fmt.Sprintf("minimization of %q exceeded its deadline while selecting a cover; emitting unminimized form", label),
			map[string]interface{}{"reason": "deadline"})
		if r.cfg.metrics != nil {
			r.cfg.metrics.IncrementMinimizationFailures()
		}
		return e
	}

	terms := make([]Expr, 0, len(cover))
	for _, p := range cover {
		terms = append(terms, p.toExpr(vars))
	}
	return NewOr(terms...)
}

// bitTerm is a partially-specified minterm: '0', '1', or '-' (don't care)
// per variable, stored index-aligned with vars.
type bitTerm struct {
	bits    []byte
	covers  map[int]bool // original minterm indices this term covers
	merged  bool
}

func enumerateMinterms(e Expr, vars []string) []int {
	n := len(vars)
	var minterms []int
	valuation := make(map[string]bool, n)
	for i := 0; i < (1 << uint(n)); i++ {
		for j, name := range vars {
			valuation[name] = (i>>uint(n-1-j))&1 == 1
		}
		if Eval(e, valuation) {
			minterms = append(minterms, i)
		}
	}
	return minterms
}

func newBitTerm(minterm, n int) bitTerm {
	bits := make([]byte, n)
	for j := 0; j < n; j++ {
		if (minterm>>uint(n-1-j))&1 == 1 {
			bits[j] = '1'
		} else {
			bits[j] = '0'
		}
	}
	return bitTerm{bits: bits, covers: map[int]bool{minterm: true}}
}

func (b bitTerm) key() string { return string(b.bits) }

func (b bitTerm) combine(o bitTerm) (bitTerm, bool) {
	diffAt := -1
	for i := range b.bits {
		if b.bits[i] != o.bits[i] {
			if diffAt != -1 {
				return bitTerm{}, false
			}
			diffAt = i
		}
	}
	if diffAt == -1 {
		return bitTerm{}, false
	}
	merged := make([]byte, len(b.bits))
	copy(merged, b.bits)
	merged[diffAt] = '-'
	covers := make(map[int]bool, len(b.covers)+len(o.covers))
	for k := range b.covers {
		covers[k] = true
	}
	for k := range o.covers {
		covers[k] = true
	}
	return bitTerm{bits: merged, covers: covers}, true
}

func (b bitTerm) toExpr(vars []string) Expr {
	var literals []Expr
	for i, bit := range b.bits {
		switch bit {
		case '1':
			literals = append(literals, NewVar(vars[i]))
		case '0':
			literals = append(literals, NewNot(NewVar(vars[i])))
		}
	}
	return NewAnd(literals...)
}

// combineToPrimes runs the Quine-McCluskey pairwise-combine loop to a
// fixed point, returning the set of prime implicants (terms that could not
// be combined further).
func combineToPrimes(minterms []int, n int, deadlineAt time.Time) ([]bitTerm, bool) {
	current := make([]bitTerm, 0, len(minterms))
	for _, m := range minterms {
		current = append(current, newBitTerm(m, n))
	}

	var primes []bitTerm
	for len(current) > 0 {
		if time.Now().After(deadlineAt) {
			return nil, false
		}

		combinedThisRound := make(map[string]bitTerm)
		used := make(map[int]bool)

		for i := 0; i < len(current); i++ {
			for j := i + 1; j < len(current); j++ {
				merged, ok := current[i].combine(current[j])
				if !ok {
					continue
				}
				used[i] = true
				used[j] = true
				combinedThisRound[merged.key()] = merged
			}
		}

		for i, term := range current {
			if !used[i] {
				primes = append(primes, term)
			}
		}

		next := make([]bitTerm, 0, len(combinedThisRound))
		for _, t := range combinedThisRound {
			next = append(next, t)
		}
		current = next
	}

	return primes, true
}

// selectCover picks a minimal-ish set of prime implicants covering every
// original minterm: essential primes first, then a greedy largest-coverage
// pass over what remains.
func selectCover(primes []bitTerm, minterms []int, deadlineAt time.Time) ([]bitTerm, bool) {
	uncovered := make(map[int]bool, len(minterms))
	for _, m := range minterms {
		uncovered[m] = true
	}

	var cover []bitTerm
	usedPrime := make(map[int]bool)

	for m := range uncovered {
		if time.Now().After(deadlineAt) {
			return nil, false
		}
		var only = -1
		count := 0
		for pi, p := range primes {
			if p.covers[m] {
				count++
				only = pi
			}
		}
		if count == 1 && !usedPrime[only] {
			usedPrime[only] = true
			cover = append(cover, primes[only])
			for k := range primes[only].covers {
				delete(uncovered, k)
			}
		}
	}

	for len(uncovered) > 0 {
		if time.Now().After(deadlineAt) {
			return nil, false
		}
		bestIdx, bestGain := -1, 0
		for pi, p := range primes {
			if usedPrime[pi] {
				continue
			}
			gain := 0
			for m := range uncovered {
				if p.covers[m] {
					gain++
				}
			}
			if gain > bestGain {
				bestGain = gain
				bestIdx = pi
			}
		}
		if bestIdx == -1 {
			break
		}
		usedPrime[bestIdx] = true
		cover = append(cover, primes[bestIdx])
		for k := range primes[bestIdx].covers {
			delete(uncovered, k)
		}
	}

	sort.Slice(cover, func(i, j int) bool { return cover[i].key() < cover[j].key() })
	return cover, true
}
