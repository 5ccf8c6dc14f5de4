// Package pokemon implements creatures, their elemental species and the
// attack / damage / resource-gauge model.
//
// A Creature pairs mutable battle state (level, hit points, gauge) with an
// immutable *Species describing its variant. All four variants share one
// attack engine driven by the species' move and multiplier tables.
//
// Hit points carry no floor or ceiling. A creature at or below zero HP is
// reported as fainted but remains fully usable; any stricter notion of
// knock-out belongs to the caller.
package pokemon
