// Package matching computes maximum-weight matchings on general graphs.
//
// MaxWeightMatching implements Edmonds' blossom algorithm with the
// primal-dual method, following Galil's "Efficient algorithms for finding
// maximum matching in graphs" (ACM Computing Surveys, 1986). It runs in
// O(n³) time and handles odd cycles, which greedy and bipartite matchers
// cannot.
//
// Weights are integers and may be negative. With integer weights every dual
// variable and slack stays integral, so no floating point is involved and
// results are exact.
//
// Given the same vertex count and the same edge order the result is always
// the same matching.
package matching
