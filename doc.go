// Package exprfmt parses arithmetic and logical expressions and prints them
// back with exactly the parentheses their meaning needs.
//
// "a - (b - c)" keeps its brackets, "(a - b) - c" loses them, and
// "a ** (b ** c)" loses them too, because ** groups to the right. Unary minus
// binds tighter than * but looser than **, so "-a ** b" is "-(a ** b)" while
// "-a + b" is "(-a) + b". The keyword operators "and", "or", and "not" sit
// below the comparisons.
//
// Parse builds a tree of Nodes, Format renders one, and Reformat does both.
// Format prints minimal parentheses by default; the Explicit option instead
// brackets every operand whose operator differs from its parent's, which is
// easier to read for people who don't remember precedence tables.
package exprfmt
