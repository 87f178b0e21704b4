package goal

import (
	"github.com/cockroachdb/errors"

	"prover/internal/expr"
	"prover/internal/ident"
)

// Doc is the serialisable form of a Goal.
type Doc struct {
	Entries      []EntryDoc `msgpack:"ctx,omitempty"`
	Quantifiers  []QuantDoc `msgpack:"q,omitempty"`
	Statement    expr.Doc   `msgpack:"s"`
	HasStatement bool       `msgpack:"hs,omitempty"`
}

type EntryDoc struct {
	Kind        uint8     `msgpack:"k"`
	Name        string    `msgpack:"n"`
	Type        *expr.Doc `msgpack:"t,omitempty"`
	Prop        *expr.Doc `msgpack:"p,omitempty"`
	Def         *expr.Doc `msgpack:"d,omitempty"`
	Description string    `msgpack:"desc,omitempty"`
}

type QuantDoc struct {
	Var  string `msgpack:"v"`
	Kind uint8  `msgpack:"k"`
}

func (g Goal) Encode() Doc {
	d := Doc{Statement: expr.Encode(g.statement), HasStatement: g.hasStatement}
	for _, e := range g.ctx.entries {
		ed := EntryDoc{Kind: uint8(e.Kind), Name: e.Name.Name(), Description: e.Description}
		if e.Type.IsValid() {
			t := expr.Encode(e.Type)
			ed.Type = &t
		}
		if e.Prop.IsValid() {
			p := expr.Encode(e.Prop)
			ed.Prop = &p
		}
		if e.Def != nil {
			def := expr.Encode(*e.Def)
			ed.Def = &def
		}
		d.Entries = append(d.Entries, ed)
	}
	for _, q := range g.quants {
		d.Quantifiers = append(d.Quantifiers, QuantDoc{Var: q.Var.Name(), Kind: uint8(q.Kind)})
	}
	return d
}

// Decode rebuilds a goal from d. Nodes get fresh ids.
func Decode(d Doc) (Goal, error) {
	var g Goal
	for i, ed := range d.Entries {
		kind := EntryKind(ed.Kind)
		if kind == EntryInvalid || kind > EntryDefinition {
			return Goal{}, errors.Newf("entry %d: unknown kind %d", i, ed.Kind)
		}
		e := Entry{Kind: kind, Name: ident.New(ed.Name), Description: ed.Description}
		if ed.Type != nil {
			t, err := expr.Decode[expr.TypeExpr](*ed.Type)
			if err != nil {
				return Goal{}, errors.Wrapf(err, "entry %q type", ed.Name)
			}
			e.Type = t
		}
		if ed.Prop != nil {
			p, err := expr.Decode[expr.Relation](*ed.Prop)
			if err != nil {
				return Goal{}, errors.Wrapf(err, "entry %q", ed.Name)
			}
			e.Prop = p
		}
		if ed.Def != nil {
			def, err := expr.Decode[expr.Term](*ed.Def)
			if err != nil {
				return Goal{}, errors.Wrapf(err, "entry %q definition", ed.Name)
			}
			e.Def = &def
		}
		g.ctx = g.ctx.With(e)
	}
	for _, qd := range d.Quantifiers {
		kind := QuantKind(qd.Kind)
		if kind == QuantInvalid || kind > QuantExistsUnique {
			return Goal{}, errors.Newf("quantifier %q: unknown kind %d", qd.Var, qd.Kind)
		}
		g.quants = append(g.quants, Quantifier{Var: ident.New(qd.Var), Kind: kind})
	}
	stmt, err := expr.Decode[expr.Relation](d.Statement)
	if err != nil {
		return Goal{}, errors.Wrap(err, "statement")
	}
	g.statement = stmt
	g.hasStatement = d.HasStatement
	return g, nil
}
