// Package ph3 holds the assembled Phono3py simulation instance: the
// resolved unit cell, supercells and primitive cell, second- and
// third-order force constants, displacement datasets and the
// phonon-phonon interaction configuration.
//
// The instance is a container with validated setters. It performs no
// anharmonic numerics; the only physics it evaluates itself is the
// zone-center harmonic spectrum used for quick inspection.
package ph3
