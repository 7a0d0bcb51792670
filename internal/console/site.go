package console

// Site names a fetch-site of a screen. Each site has its own generation
// counter; a response is applied only if the generation it captured is
// still current when it arrives.
type Site string

const (
	SiteResolve Site = "resolve"
	SiteChain   Site = "chain"
	SiteRun     Site = "run"
)

// Generations holds the per-site request counters of one screen.
type Generations struct {
	resolve uint64
	chain   uint64
	run     uint64
}

func (g *Generations) counter(site Site) *uint64 {
	switch site {
	case SiteResolve:
		return &g.resolve
	case SiteChain:
		return &g.chain
	default:
		return &g.run
	}
}

// Next supersedes every in-flight request of site and returns the new token.
func (g *Generations) Next(site Site) uint64 {
	c := g.counter(site)
	*c++
	return *c
}

// Current returns the live token of site.
func (g *Generations) Current(site Site) uint64 {
	return *g.counter(site)
}

// IsCurrent reports whether token is still the live token of site.
func (g *Generations) IsCurrent(site Site, token uint64) bool {
	return *g.counter(site) == token
}
