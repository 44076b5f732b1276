package handlers

// Cage is a Sum over a region, optionally all-different. Grounded on
// postmix_analysis.go's region-aggregate-plus-uniqueness check (spec §4.2:
// "Sum + House (or AllDifferent) composition"). There's no dedicated Cage
// type — the resolver (internal/solver/resolve.go) emits a *Sum plus, when
// AllDifferent is requested, an *AllDifferent over the same cells; that
// composition is the handler-level meaning of "Cage".
