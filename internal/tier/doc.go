// Package tier plans the tier search: a table of growing matrix sizes and the
// linear-then-binary walk that finds the largest size a rotator handles within
// the per-tier time limit.
//
// Search is pure. It never times anything itself; the caller's ProbeFunc
// rotates the tier's matrix and reports how long it took.
package tier
