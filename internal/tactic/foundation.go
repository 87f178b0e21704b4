package tactic

import (
	"strings"

	"prover/internal/expr"
)

// ProofTerm is an object-level proof produced by a Foundation. Tactics pass
// it along without looking inside.
type ProofTerm any

// Foundation builds proof terms for closing tactics.
type Foundation interface {
	// PropositionType converts a proposition into the type its proofs inhabit.
	PropositionType(rel expr.Located[expr.Relation]) ProofTerm
	// Combine applies a named inference rule to proof terms.
	Combine(rule string, parts ...ProofTerm) ProofTerm
}

// RuleLog is a Foundation that renders terms as strings and records every
// rule it was asked to apply.
type RuleLog struct {
	Rules []string
}

func (l *RuleLog) PropositionType(rel expr.Located[expr.Relation]) ProofTerm {
	return rel.String()
}

func (l *RuleLog) Combine(rule string, parts ...ProofTerm) ProofTerm {
	l.Rules = append(l.Rules, rule)
	var sb strings.Builder
	sb.WriteString(rule)
	sb.WriteByte('(')
	for i, p := range parts {
		if i > 0 {
			sb.WriteString(", ")
		}
		if s, ok := p.(string); ok {
			sb.WriteString(s)
		} else {
			sb.WriteString("_")
		}
	}
	sb.WriteByte(')')
	return sb.String()
}
