// Package assign partitions a roster into pairs, plus one triplet when the
// roster is odd, so that people who have met least are grouped together.
//
// The partition is a maximum-cardinality maximum-weight matching over the
// complete graph of the roster, where an edge weighs minus the number of
// times its two people have met. Pairs are emitted in ascending order of
// their lower ID. For an odd roster, the person left over joins the pair
// with the lowest combined meeting count; ties go to the earliest pair in
// that order.
package assign
