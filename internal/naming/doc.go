// Package naming computes new file names and guards against two files in one
// batch claiming the same target.
//
// A name is rewritten by an ordered table of literal substitutions
// ([DefaultRules]): every "_" becomes "-", then every "lox" becomes "lax".
// Order matters and is part of the contract. Rewritten names are fixed
// points: they contain neither "_" nor "lox", so running the rules again
// changes nothing.
package naming
