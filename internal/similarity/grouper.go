package similarity

import (
	"sort"

	"github.com/HaiderBassem/dupfinder/pkg/api"
	"github.com/google/uuid"
)

// Grouper clusters pairwise MatchResults into transitive DuplicateGroups
// via union-find. Grounded on the original's TransitiveGrouper
// (src/core/comparator/grouper.rs) for the union-find shape, but fixes
// a bug present there: the original recomputes each match's group root
// by re-running find() on a freshly cloned parent map once per match
// (`find(&mut parent.clone(), &m.photo_a)`), which is both wasteful and
// redundant with the find() already performed while building the
// groups map moments earlier. This implementation first unions every
// match, then computes the per-root distance sum and match count in one
// further pass over the matches, with a single find() per match on the
// shared parent map and no cloning.
type Grouper struct{}

// NewGrouper returns a stateless Grouper.
func NewGrouper() *Grouper { return &Grouper{} }

type unionFind struct {
	parent map[string]string
}

func newUnionFind(items []string) *unionFind {
	parent := make(map[string]string, len(items))
	for _, item := range items {
		parent[item] = item
	}
	return &unionFind{parent: parent}
}

func (u *unionFind) find(x string) string {
	root := x
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[x] != root {
		next := u.parent[x]
		u.parent[x] = root
		x = next
	}
	return root
}

func (u *unionFind) union(a, b string) {
	rootA, rootB := u.find(a), u.find(b)
	if rootA != rootB {
		u.parent[rootA] = rootB
	}
}

// Group clusters matches transitively: if A matches B and B matches C,
// {A, B, C} is a single group even though A and C never compared
// directly.
func (g *Grouper) Group(matches []api.MatchResult) []api.DuplicateGroup {
	if len(matches) == 0 {
		return nil
	}

	photoSet := make(map[string]struct{})
	for _, m := range matches {
		photoSet[m.PhotoA] = struct{}{}
		photoSet[m.PhotoB] = struct{}{}
	}
	photos := make([]string, 0, len(photoSet))
	for p := range photoSet {
		photos = append(photos, p)
	}

	uf := newUnionFind(photos)
	for _, m := range matches {
		uf.union(m.PhotoA, m.PhotoB)
	}

	type rootStats struct {
		distanceSum float64
		matchCount  int
		bestType    api.MatchType
	}
	stats := make(map[string]*rootStats)
	for _, m := range matches {
		root := uf.find(m.PhotoA)
		st, ok := stats[root]
		if !ok {
			st = &rootStats{bestType: api.MatchMaybeSimilar}
			stats[root] = st
		}
		st.distanceSum += float64(m.Distance)
		st.matchCount++
		// A group is classified by its tightest pairwise match, not its
		// loosest: one exact pair inside a larger fuzzy cluster is still
		// worth flagging as containing an exact duplicate.
		if m.MatchType < st.bestType {
			st.bestType = m.MatchType
		}
	}

	membersByRoot := make(map[string][]string)
	for _, p := range photos {
		root := uf.find(p)
		membersByRoot[root] = append(membersByRoot[root], p)
	}

	var groups []api.DuplicateGroup
	for root, members := range membersByRoot {
		if len(members) < 2 {
			continue
		}
		sort.Strings(members)

		st := stats[root]
		avgDistance := 0.0
		matchType := api.MatchSimilar
		if st != nil && st.matchCount > 0 {
			avgDistance = st.distanceSum / float64(st.matchCount)
			matchType = st.bestType
		}

		groups = append(groups, api.DuplicateGroup{
			ID:              uuid.NewString(),
			Photos:          members,
			Representative:  members[0],
			MatchType:       matchType,
			AverageDistance: avgDistance,
		})
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Representative < groups[j].Representative })
	return groups
}
