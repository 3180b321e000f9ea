// Package scheduler places auto-inductions into free, feasible bay sets.
// Auto-inductions are visited in precedence order; each one is tried in its
// preferred hangar only, or in every hangar in declaration order when no
// preference is set. Placements are greedy and never revisited.
package scheduler
