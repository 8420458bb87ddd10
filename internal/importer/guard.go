package importer

import "github.com/joseph-ayodele/tebligat-tracker/internal/entity"

// DuplicateGuard tracks the composite keys of jobs that already exist,
// either persisted before the run or created during it.
type DuplicateGuard struct {
	seen map[entity.JobKey]struct{}
}

func NewDuplicateGuard(existing []entity.JobKey) *DuplicateGuard {
	g := &DuplicateGuard{seen: make(map[entity.JobKey]struct{}, len(existing))}
	for _, k := range existing {
		g.Add(k)
	}
	return g
}

// Seen reports whether key is already taken.
func (g *DuplicateGuard) Seen(key entity.JobKey) bool {
	_, ok := g.seen[key]
	return ok
}

func (g *DuplicateGuard) Add(key entity.JobKey) {
	g.seen[key] = struct{}{}
}

func (g *DuplicateGuard) Len() int {
	return len(g.seen)
}
