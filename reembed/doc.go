// Package reembed brings the embeddings of a stored catalog up to date.
//
// A Reembedder walks the repository in insertion order, a batch at a time.
// An item is re-embedded when it has no vector, when its description changed
// since the vector was computed (its DescriptionHash no longer matches) or
// when its vector size differs from the target dimensions. Everything else is
// left untouched, so an interrupted run can simply be started again.
package reembed
