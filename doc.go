// Package phono3py assembles a lattice anharmonicity calculation
// instance from a mixture of on-disk files and in-memory parameters.
//
// The package is glue: cell files, force-constant containers, BORN
// parameter files and project descriptors each have several possible
// sources, and [Load] applies a documented priority order to pick one
// of each, passing the winners through to the simulation instance
// unchanged.
//
//	inst, err := phono3py.Load(
//	    phono3py.WithUnitcellFilename("POSCAR"),
//	    phono3py.WithSupercellMatrix(2, 2, 2),
//	    phono3py.WithMesh([3]int{11, 11, 11}),
//	)
package phono3py
