// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Matrix buffers start on a 64-byte boundary so that every block row word and
// every cache line of a row begin at the same offset.
package mem
