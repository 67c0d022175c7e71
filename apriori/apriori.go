// Package apriori mines association rules from nominal datasets.
//
// Items are attribute=value pairs taken from every non-missing cell. Frequent
// itemsets are found level by level; rules are generated from every frequent
// itemset of two or more items.
//
// Without an applied support the search still stops at LowerBoundSupport and
// at UnboundedMaxItems items per set, as Weka's lower bound does.
package apriori

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/teranos/ceka/arff"
	"github.com/teranos/ceka/errors"
)

// Limits used when Config.ApplySupport is false
const (
	LowerBoundSupport = 0.1
	UnboundedMaxItems = 4
)

// Config controls one mining run and where its result goes
type Config struct {
	Support         float64
	Confidence      float64
	ApplySupport    bool
	ApplyConfidence bool
	Format          Format

	// MaxItems caps the itemset size; 0 is no cap, or UnboundedMaxItems
	// when support is not applied
	MaxItems int

	// ToStdout writes the result to the miner's stdout instead of Path
	ToStdout bool
	Path     string
}

// Rule is one association rule with its counts
type Rule struct {
	Antecedent      []string `json:"antecedent"`
	Consequent      []string `json:"consequent"`
	AntecedentCount int      `json:"antecedentCount"`
	Count           int      `json:"count"`
	Support         float64  `json:"support"`
	Confidence      float64  `json:"confidence"`
}

func (r Rule) String() string {
	return strings.Join(r.Antecedent, " ") + " ==> " + strings.Join(r.Consequent, " ")
}

// Result is everything a mining run produced
type Result struct {
	Relation        string  `json:"relation"`
	Instances       int     `json:"instances"`
	Attributes      int     `json:"attributes"`
	Support         float64 `json:"support"`
	Confidence      float64 `json:"confidence"`
	ApplySupport    bool    `json:"applySupport"`
	ApplyConfidence bool    `json:"applyConfidence"`
	MinCount        int     `json:"minCount"`
	MaxItems        int     `json:"maxItems,omitempty"`

	// LargeItemsets[k] is the number of frequent itemsets of size k+1
	LargeItemsets []int  `json:"largeItemsets"`
	Rules         []Rule `json:"rules"`
}

type item struct {
	attr  int
	value string
}

// Run mines ds. ctx is checked for every candidate and every rule set.
func Run(ctx context.Context, ds *arff.Dataset, cfg Config) (*Result, error) {
	if ds == nil {
		return nil, errors.New("no dataset to mine")
	}
	if cfg.ApplySupport && (cfg.Support <= 0 || cfg.Support > 1) {
		return nil, errors.WithHint(
			errors.Newf("support %v is outside (0, 1]", cfg.Support),
			"support is a fraction of instances, e.g. -p=support:0.2")
	}

	n := ds.Len()
	res := &Result{
		Relation:        ds.Relation,
		Instances:       n,
		Attributes:      len(ds.Attributes),
		Support:         cfg.Support,
		Confidence:      cfg.Confidence,
		ApplySupport:    cfg.ApplySupport,
		ApplyConfidence: cfg.ApplyConfidence,
		MinCount:        1,
		Rules:           []Rule{},
	}
	minSupport := LowerBoundSupport
	if cfg.ApplySupport {
		minSupport = cfg.Support
	}
	res.MinCount = max(1, int(math.Ceil(minSupport*float64(n)-1e-9)))

	res.MaxItems = cfg.MaxItems
	if res.MaxItems <= 0 {
		res.MaxItems = 0
		if !cfg.ApplySupport {
			res.MaxItems = UnboundedMaxItems
		}
	}
	if n == 0 {
		return res, nil
	}

	items, txs := transactions(ds)
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = ds.Attributes[it.attr].Name + "=" + it.value
	}

	counts := map[string]int{}
	var level [][]int

	single := make([]int, len(items))
	for _, tx := range txs {
		for _, id := range tx {
			single[id]++
		}
	}
	for id, c := range single {
		if c >= res.MinCount {
			set := []int{id}
			level = append(level, set)
			counts[key(set)] = c
		}
	}

	var frequent [][]int
	for len(level) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, interrupted(err)
		}
		res.LargeItemsets = append(res.LargeItemsets, len(level))
		frequent = append(frequent, level...)
		if res.MaxItems > 0 && len(level[0]) >= res.MaxItems {
			break
		}

		var next [][]int
		for _, cand := range candidates(level, items, counts) {
			if err := ctx.Err(); err != nil {
				return nil, interrupted(err)
			}
			c := 0
			for _, tx := range txs {
				if contains(tx, cand) {
					c++
				}
			}
			if c >= res.MinCount {
				next = append(next, cand)
				counts[key(cand)] = c
			}
		}
		level = next
	}

	for _, set := range frequent {
		if len(set) < 2 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, interrupted(err)
		}
		res.Rules = append(res.Rules, rulesFor(set, names, counts, n, cfg)...)
	}

	sortRules(res.Rules)
	return res, nil
}

func interrupted(err error) error {
	return errors.Wrap(err, "mining interrupted")
}

// ranked orders rules by confidence desc, support desc, text asc
type ranked struct {
	rules []Rule
	texts []string
}

func (r ranked) Len() int { return len(r.rules) }

func (r ranked) Less(i, j int) bool {
	a, b := r.rules[i], r.rules[j]
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if a.Support != b.Support {
		return a.Support > b.Support
	}
	return r.texts[i] < r.texts[j]
}

func (r ranked) Swap(i, j int) {
	r.rules[i], r.rules[j] = r.rules[j], r.rules[i]
	r.texts[i], r.texts[j] = r.texts[j], r.texts[i]
}

func sortRules(rules []Rule) {
	texts := make([]string, len(rules))
	for i, r := range rules {
		texts[i] = r.String()
	}
	sort.Stable(ranked{rules: rules, texts: texts})
}

// transactions assigns item ids ordered by (attribute, value) and returns each
// row as an ascending id list
func transactions(ds *arff.Dataset) ([]item, [][]int) {
	seen := map[item]bool{}
	var items []item
	for _, row := range ds.Rows {
		for j, v := range row {
			it := item{attr: j, value: v}
			if v == arff.Missing || seen[it] {
				continue
			}
			seen[it] = true
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].attr != items[j].attr {
			return items[i].attr < items[j].attr
		}
		return items[i].value < items[j].value
	})

	ids := make(map[item]int, len(items))
	for i, it := range items {
		ids[it] = i
	}

	txs := make([][]int, len(ds.Rows))
	for i, row := range ds.Rows {
		tx := make([]int, 0, len(row))
		for j, v := range row {
			if v == arff.Missing {
				continue
			}
			tx = append(tx, ids[item{attr: j, value: v}])
		}
		txs[i] = tx
	}
	return items, txs
}

// candidates joins itemsets sharing all but their last item and keeps those
// whose every subset is frequent
func candidates(level [][]int, items []item, counts map[string]int) [][]int {
	var out [][]int
	for i := 0; i < len(level); i++ {
		for j := i + 1; j < len(level); j++ {
			a, b := level[i], level[j]
			k := len(a)
			if !equalPrefix(a, b, k-1) {
				continue
			}
			last, other := a[k-1], b[k-1]
			if last > other {
				last, other = other, last
			}
			// One value per attribute per row
			if items[last].attr == items[other].attr {
				continue
			}
			cand := make([]int, 0, k+1)
			cand = append(cand, a[:k-1]...)
			cand = append(cand, last, other)
			if allSubsetsFrequent(cand, counts) {
				out = append(out, cand)
			}
		}
	}
	return out
}

func equalPrefix(a, b []int, n int) bool {
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func allSubsetsFrequent(cand []int, counts map[string]int) bool {
	sub := make([]int, 0, len(cand)-1)
	for skip := range cand {
		sub = sub[:0]
		for i, id := range cand {
			if i != skip {
				sub = append(sub, id)
			}
		}
		if _, ok := counts[key(sub)]; !ok {
			return false
		}
	}
	return true
}

// contains reports whether sorted tx holds every id of sorted set
func contains(tx, set []int) bool {
	i := 0
	for _, id := range set {
		for i < len(tx) && tx[i] < id {
			i++
		}
		if i == len(tx) || tx[i] != id {
			return false
		}
		i++
	}
	return true
}

func rulesFor(set []int, names []string, counts map[string]int, n int, cfg Config) []Rule {
	total := counts[key(set)]
	k := len(set)

	var rules []Rule
	for mask := 1; mask < (1<<k)-1; mask++ {
		var ante, cons []int
		for i, id := range set {
			if mask&(1<<i) != 0 {
				ante = append(ante, id)
			} else {
				cons = append(cons, id)
			}
		}
		anteCount := counts[key(ante)]
		if anteCount == 0 {
			continue
		}
		conf := float64(total) / float64(anteCount)
		if cfg.ApplyConfidence && conf+1e-9 < cfg.Confidence {
			continue
		}
		rules = append(rules, Rule{
			Antecedent:      labels(ante, names),
			Consequent:      labels(cons, names),
			AntecedentCount: anteCount,
			Count:           total,
			Support:         float64(total) / float64(n),
			Confidence:      conf,
		})
	}
	return rules
}

func labels(ids []int, names []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = names[id]
	}
	return out
}

func key(ids []int) string {
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(id))
	}
	return b.String()
}
