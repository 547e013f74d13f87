// Package comm abstracts the SPMD process group the generators and the
// statistics pass run on.
//
// Generation itself never communicates; the Communicator is consulted only
// for rank/size and in the post passes (reductions, gathers, the boundary
// edge exchange). All ranks of a group must enter each collective together
// and in the same order — partial participation is a programming error and
// blocks the group by contract.
//
// NewLocalGroup builds an in-process implementation backed by a shared,
// phase-synchronized state, for tests and single-host drivers. RunGroup
// drives one function per rank across such a group.
package comm
