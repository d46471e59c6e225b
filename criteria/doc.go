// Package criteria selects phenotype rows by column predicates.
//
// A Criterion takes one of three shapes: Equals (exact match), Range (an
// inclusive interval whose bounds may each be left open) and AnyOf (a logical
// OR over nested criteria, to any depth). Evaluate applies one criterion to
// one column; EvaluateAll ANDs a set of per-column criteria together.
package criteria
