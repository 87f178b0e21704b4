// Package expr defines the symbolic expression grammars manipulated by the
// prover and the addressable container that wraps every sub-expression.
//
// # Grammars
//
// The set of grammars is closed:
//
//   - Term: mathematical objects (variables, numbers, operator and function
//     applications, set literals, set-builder notation).
//   - Relation: propositions (comparisons, predicates, connectives,
//     quantifiers).
//   - TypeExpr: classifying types of context variables.
//
// They are mutually recursive: a set-builder Term holds a Relation and a
// TypeExpr, quantified Relations hold a TypeExpr domain, and so on.
//
// # Located
//
// Every child position holds a Located[T]: either a concrete value of the
// grammar or a named placeholder (meta-variable). Each Located carries a
// process-unique NodeID. Value copies keep the id; building a new value
// allocates a new one. Rewriting engines address sub-expressions by NodeID
// only.
//
// # Hooks
//
// Generic engines (matching, substitution, patching) never inspect grammar
// types at runtime. Instead each grammar exposes MapChildren, ZipChildren
// and VisitChildren, which call back through Mapper, Zipper and Visitor
// tables holding one function per grammar. The helpers OnMap/OnZip/OnVisit
// and MapWith/ZipWith/VisitWith select the table slot for a type parameter
// at compile time.
package expr
