// Package crystal provides the periodic cell model used by the
// loader: lattice/position containers, the atomic mass table, VASP
// POSCAR reading and writing, and supercell/primitive construction
// from integer and fractional transformation matrices.
//
// No symmetry detection happens here. Primitive reduction folds atoms
// by their wrapped primitive-basis coordinates, which is exact for
// ideal centered cells and is all the loader needs to establish the
// p2s map.
package crystal
