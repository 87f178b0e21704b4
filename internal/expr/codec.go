package expr

import (
	"github.com/cockroachdb/errors"

	"prover/internal/ident"
)

// Doc is the serialisable form of one Located node. Ids are not part of it:
// decoding allocates fresh ones.
type Doc struct {
	Meta   string `msgpack:"m,omitempty"`
	Kind   uint8  `msgpack:"k,omitempty"`
	Name   string `msgpack:"n,omitempty"`
	Op     uint8  `msgpack:"o,omitempty"`
	Num    int64  `msgpack:"v,omitempty"`
	Terms  []Doc  `msgpack:"t,omitempty"`
	Parts  []Doc  `msgpack:"p,omitempty"`
	Domain *Doc   `msgpack:"d,omitempty"`
	Cond   *Doc   `msgpack:"c,omitempty"`
}

// Encode converts n into its Doc.
func Encode[T Grammar[T]](n Located[T]) Doc {
	if n.IsMeta() {
		return Doc{Meta: n.meta.Name()}
	}
	return n.value.toDoc()
}

// Decode rebuilds a Located from d under fresh ids.
func Decode[T Grammar[T]](d Doc) (Located[T], error) {
	if d.Meta != "" {
		return MetaNamed[T](d.Meta), nil
	}
	var zero T
	v, err := zero.fromDoc(d)
	if err != nil {
		return Located[T]{}, err
	}
	return Concrete(v), nil
}

func encodeSlice[T Grammar[T]](xs []Located[T]) []Doc {
	if len(xs) == 0 {
		return nil
	}
	out := make([]Doc, len(xs))
	for i, x := range xs {
		out[i] = Encode(x)
	}
	return out
}

func encodePtr[T Grammar[T]](p *Located[T]) *Doc {
	if p == nil {
		return nil
	}
	d := Encode(*p)
	return &d
}

func decodeSlice[T Grammar[T]](ds []Doc) ([]Located[T], error) {
	if len(ds) == 0 {
		return nil, nil
	}
	out := make([]Located[T], len(ds))
	for i, d := range ds {
		x, err := Decode[T](d)
		if err != nil {
			return nil, errors.Wrapf(err, "child %d", i)
		}
		out[i] = x
	}
	return out, nil
}

func decodePtr[T Grammar[T]](d *Doc) (*Located[T], error) {
	if d == nil {
		return nil, nil
	}
	x, err := Decode[T](*d)
	if err != nil {
		return nil, err
	}
	return &x, nil
}

func (t Term) toDoc() Doc {
	return Doc{
		Kind:   uint8(t.Kind),
		Name:   t.Name.Name(),
		Op:     uint8(t.Op),
		Num:    t.Num,
		Terms:  encodeSlice(t.Args),
		Domain: encodePtr(t.Domain),
		Cond:   encodePtr(t.Cond),
	}
}

func (Term) fromDoc(d Doc) (Term, error) {
	kind := TermKind(d.Kind)
	if kind == TermInvalid || kind > TermSetBuilder {
		return Term{}, errors.Newf("unknown term kind %d", d.Kind)
	}
	t := Term{Kind: kind, Name: ident.New(d.Name), Op: Operator(d.Op), Num: d.Num}
	var err error
	if t.Args, err = decodeSlice[Term](d.Terms); err != nil {
		return Term{}, errors.Wrap(err, "term arguments")
	}
	if t.Domain, err = decodePtr[TypeExpr](d.Domain); err != nil {
		return Term{}, errors.Wrap(err, "set-builder domain")
	}
	if t.Cond, err = decodePtr[Relation](d.Cond); err != nil {
		return Term{}, errors.Wrap(err, "set-builder condition")
	}
	return t, nil
}

func (r Relation) toDoc() Doc {
	return Doc{
		Kind:   uint8(r.Kind),
		Name:   r.Name.Name(),
		Terms:  encodeSlice(r.Terms),
		Parts:  encodeSlice(r.Parts),
		Domain: encodePtr(r.Domain),
	}
}

func (Relation) fromDoc(d Doc) (Relation, error) {
	kind := RelKind(d.Kind)
	if kind == RelInvalid || kind > RelExists {
		return Relation{}, errors.Newf("unknown relation kind %d", d.Kind)
	}
	r := Relation{Kind: kind, Name: ident.New(d.Name)}
	var err error
	if r.Terms, err = decodeSlice[Term](d.Terms); err != nil {
		return Relation{}, errors.Wrapf(err, "%s operands", kind)
	}
	if r.Parts, err = decodeSlice[Relation](d.Parts); err != nil {
		return Relation{}, errors.Wrapf(err, "%s parts", kind)
	}
	if r.Domain, err = decodePtr[TypeExpr](d.Domain); err != nil {
		return Relation{}, errors.Wrapf(err, "%s domain", kind)
	}
	return r, nil
}

func (t TypeExpr) toDoc() Doc {
	return Doc{Kind: uint8(t.Kind), Name: t.Name.Name(), Parts: encodeSlice(t.Parts)}
}

func (TypeExpr) fromDoc(d Doc) (TypeExpr, error) {
	kind := TypeKind(d.Kind)
	if kind == TypeInvalid || kind > TypeProduct {
		return TypeExpr{}, errors.Newf("unknown type kind %d", d.Kind)
	}
	parts, err := decodeSlice[TypeExpr](d.Parts)
	if err != nil {
		return TypeExpr{}, errors.Wrapf(err, "%s parameters", kind)
	}
	return TypeExpr{Kind: kind, Name: ident.New(d.Name), Parts: parts}, nil
}
