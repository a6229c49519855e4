// Package printer writes GraphApi documents as schema definition text.
//
// Components print in a fixed order (directive definitions, scalars,
// objects, interfaces, unions, enums, input objects) followed by the root
// operation maps as Query, Mutation and Subscription types. Built-in
// scalars and directives are never printed.
package printer

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/syssam/graphapi"
	"github.com/syssam/graphapi/blockstring"
	"github.com/syssam/graphapi/typeref"
)

// Print returns the schema text of doc.
func Print(doc *graphapi.Document, opts ...Option) (string, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return "", err
	}
	p := &printer{
		doc: doc,
		cfg: cfg,
		log: cfg.Logger.With("component", "printer"),
	}
	return p.print()
}

// Fprint writes the schema text of doc to w, followed by a newline.
func Fprint(w io.Writer, doc *graphapi.Document, opts ...Option) error {
	s, err := Print(doc, opts...)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s+"\n")
	return err
}

type printer struct {
	doc *graphapi.Document
	cfg *Config
	log *slog.Logger
}

func (p *printer) print() (string, error) {
	var parts []string
	add := func(s string, err error) error {
		if err != nil {
			return err
		}
		if s != "" {
			parts = append(parts, s)
		}
		return nil
	}
	if s := p.schemaDefinition(); s != "" {
		parts = append(parts, s)
	}
	if c := p.doc.Components; c != nil {
		for name, d := range c.DirectiveDefinitions.All() {
			if graphapi.IsBuiltinDirective(name) {
				p.log.Debug("skip built-in directive", "directive", name)
				continue
			}
			if err := add(p.directiveDefinition(name, d)); err != nil {
				return "", err
			}
		}
		for name, s := range c.Scalars.All() {
			if typeref.IsBuiltinScalar(name) {
				p.log.Debug("skip built-in scalar", "type", name)
				continue
			}
			if err := add(p.scalar(name, s)); err != nil {
				return "", err
			}
		}
		for name, o := range c.Objects.All() {
			if err := add(p.object("type", name, o)); err != nil {
				return "", err
			}
		}
		for name, o := range c.Interfaces.All() {
			if err := add(p.object("interface", name, o)); err != nil {
				return "", err
			}
		}
		for name, u := range c.Unions.All() {
			if err := add(p.union(name, u)); err != nil {
				return "", err
			}
		}
		for name, e := range c.Enums.All() {
			if err := add(p.enum(name, e)); err != nil {
				return "", err
			}
		}
		for name, in := range c.InputObjects.All() {
			if err := add(p.inputObject(name, in)); err != nil {
				return "", err
			}
		}
	}
	for _, root := range p.roots() {
		if err := add(p.operations(root.name, root.ops)); err != nil {
			return "", err
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

type root struct {
	field string
	name  string
	ops   *graphapi.Map[*graphapi.Operation]
}

func (p *printer) roots() []root {
	var roots []root
	for _, r := range []root{
		{"query", "Query", p.doc.Queries},
		{"mutation", "Mutation", p.doc.Mutations},
		{"subscription", "Subscription", p.doc.Subscriptions},
	} {
		if r.ops.Len() > 0 {
			roots = append(roots, r)
		}
	}
	return roots
}

// schemaDefinition prints the schema block, which only carries
// information when the document has a description.
func (p *printer) schemaDefinition() string {
	roots := p.roots()
	if !p.cfg.SchemaDefinition || p.doc.Description == "" || len(roots) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(blockstring.Description(p.doc.Description, "", true))
	b.WriteString("schema {\n")
	for _, r := range roots {
		b.WriteString("  " + r.field + ": " + r.name + "\n")
	}
	b.WriteString("}")
	return b.String()
}

func (p *printer) scalar(name string, s *graphapi.Scalar) (string, error) {
	dirs, err := p.directives(s.Directives)
	if err != nil {
		return "", located(err, name, "")
	}
	out := blockstring.Description(s.Description, "", true) + "scalar " + name
	if s.SpecifiedByURL != "" {
		out += " @specifiedBy(url: " + blockstring.Quote(s.SpecifiedByURL) + ")"
	}
	return out + dirs, nil
}

func (p *printer) object(keyword, name string, o *graphapi.Object) (string, error) {
	var b strings.Builder
	b.WriteString(blockstring.Description(o.Description, "", true))
	b.WriteString(keyword + " " + name)
	if len(o.Interfaces) > 0 {
		names := make([]string, 0, len(o.Interfaces))
		for _, iface := range o.Interfaces {
			n, err := p.memberName(iface)
			if err != nil {
				return "", located(err, name, "")
			}
			names = append(names, n)
		}
		b.WriteString(" implements " + strings.Join(names, " & "))
	}
	dirs, err := p.directives(o.Directives)
	if err != nil {
		return "", located(err, name, "")
	}
	b.WriteString(dirs)

	fields := make([]string, 0, o.Properties.Len())
	for fname, f := range o.Properties.All() {
		line, err := p.field(fname, f.Description, f.Args, &f.Schema, f.Directives, len(fields) == 0)
		if err != nil {
			return "", located(err, name, fname)
		}
		fields = append(fields, line)
	}
	b.WriteString(block(fields))
	return b.String(), nil
}

func (p *printer) operations(name string, ops *graphapi.Map[*graphapi.Operation]) (string, error) {
	fields := make([]string, 0, ops.Len())
	for fname, op := range ops.All() {
		line, err := p.field(fname, op.Description, op.Args, op.Response, op.Directives, len(fields) == 0)
		if err != nil {
			return "", located(err, name, fname)
		}
		fields = append(fields, line)
	}
	return "type " + name + block(fields), nil
}

func (p *printer) field(name, description string, args *graphapi.Map[*graphapi.InputValue], typ *graphapi.Schema, dirs *graphapi.Map[*graphapi.Directive], first bool) (string, error) {
	argList, err := p.args(args, "  ")
	if err != nil {
		return "", err
	}
	ref, err := p.typeRef(typ)
	if err != nil {
		return "", err
	}
	d, err := p.directives(dirs)
	if err != nil {
		return "", err
	}
	return blockstring.Description(description, "  ", first) + "  " + name + argList + ": " + ref.SDL() + d, nil
}

func (p *printer) union(name string, u *graphapi.Union) (string, error) {
	dirs, err := p.directives(u.Directives)
	if err != nil {
		return "", located(err, name, "")
	}
	out := blockstring.Description(u.Description, "", true) + "union " + name + dirs
	if len(u.OneOf) == 0 {
		return out, nil
	}
	names := make([]string, 0, len(u.OneOf))
	for _, member := range u.OneOf {
		n, err := p.memberName(member)
		if err != nil {
			return "", located(err, name, "")
		}
		names = append(names, n)
	}
	return out + " = " + strings.Join(names, " | "), nil
}

// memberName returns the type name of a union member or implemented
// interface fragment.
func (p *printer) memberName(s *graphapi.Schema) (string, error) {
	ref, err := p.typeRef(s)
	if err != nil {
		return "", err
	}
	if ref.Shape != typeref.NamedShape {
		return "", graphapi.NewPrintError(graphapi.ErrMalformedTypeRef, "", "expected a $ref fragment")
	}
	return graphapi.RefName(ref.Target), nil
}

type enumMember struct {
	name  string
	value *graphapi.EnumValue
}

func enumMembers(e *graphapi.Enum) []enumMember {
	names := e.Members()
	members := make([]enumMember, 0, len(names))
	for i, name := range names {
		v, _ := e.Values.Get(name)
		if len(e.Enum) == 0 && len(e.OneOf) > 0 {
			v = e.OneOf[i]
		}
		members = append(members, enumMember{name, v})
	}
	return members
}

func (p *printer) enum(name string, e *graphapi.Enum) (string, error) {
	dirs, err := p.directives(e.Directives)
	if err != nil {
		return "", located(err, name, "")
	}
	members := enumMembers(e)
	values := make([]string, 0, len(members))
	for i, m := range members {
		line := "  " + m.name
		if m.value != nil {
			d, err := p.directives(m.value.Directives)
			if err != nil {
				return "", located(err, name, m.name)
			}
			line = blockstring.Description(m.value.Description, "  ", i == 0) + line + d
		}
		values = append(values, line)
	}
	return blockstring.Description(e.Description, "", true) + "enum " + name + dirs + block(values), nil
}

func (p *printer) inputObject(name string, in *graphapi.InputObject) (string, error) {
	dirs, err := p.directives(in.Directives)
	if err != nil {
		return "", located(err, name, "")
	}
	fields := make([]string, 0, in.InputFields.Len())
	for fname, f := range in.InputFields.All() {
		v, err := p.inputValue(fname, f)
		if err != nil {
			return "", located(err, name, fname)
		}
		fields = append(fields, blockstring.Description(f.Description, "  ", len(fields) == 0)+"  "+v)
	}
	return blockstring.Description(in.Description, "", true) + "input " + name + dirs + block(fields), nil
}

func (p *printer) directiveDefinition(name string, d *graphapi.DirectiveDefinition) (string, error) {
	args, err := p.args(d.Args, "")
	if err != nil {
		return "", located(err, "@"+name, "")
	}
	out := blockstring.Description(d.Description, "", true) + "directive @" + name + args
	if d.Repeatable {
		out += " repeatable"
	}
	return out + " on " + strings.Join(d.Locations, " | "), nil
}

func block(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return " {\n" + strings.Join(items, "\n") + "\n}"
}

// args prints an argument list on one line unless an argument has a
// description.
func (p *printer) args(args *graphapi.Map[*graphapi.InputValue], indent string) (string, error) {
	if args.Len() == 0 {
		return "", nil
	}
	described := false
	for _, a := range args.All() {
		if a.Description != "" {
			described = true
			break
		}
	}
	items := make([]string, 0, args.Len())
	for name, a := range args.All() {
		v, err := p.inputValue(name, a)
		if err != nil {
			return "", located(err, "", name)
		}
		if described {
			v = blockstring.Description(a.Description, "  "+indent, len(items) == 0) + "  " + indent + v
		}
		items = append(items, v)
	}
	if !described {
		return "(" + strings.Join(items, ", ") + ")", nil
	}
	return "(\n" + strings.Join(items, "\n") + "\n" + indent + ")", nil
}

// inputValue prints "name: Type = default @directives". The type carries
// "!" exactly when the value is required.
func (p *printer) inputValue(name string, v *graphapi.InputValue) (string, error) {
	ref, err := p.typeRef(v.Schema)
	if err != nil {
		return "", err
	}
	ref.Nullable = !v.Required
	out := name + ": " + ref.SDL()
	if v.Default != nil {
		def, err := p.value(v.Default, &ref)
		if err != nil {
			return "", err
		}
		out += " = " + def
	}
	d, err := p.directives(v.Directives)
	if err != nil {
		return "", err
	}
	return out + d, nil
}

// typeRef decodes a fragment and checks that its named leaf resolves.
func (p *printer) typeRef(s *graphapi.Schema) (typeref.Ref, error) {
	ref, err := p.cfg.Encoding.Decode(s)
	if err != nil {
		return typeref.Ref{}, err
	}
	if leaf := ref.Leaf(); leaf.Shape == typeref.NamedShape {
		if _, _, _, err := p.doc.Resolve(leaf.Target); err != nil {
			return typeref.Ref{}, err
		}
	}
	return ref, nil
}

func (p *printer) directives(dirs *graphapi.Map[*graphapi.Directive]) (string, error) {
	var b strings.Builder
	for name, d := range dirs.All() {
		b.WriteString(" @" + name)
		args, err := p.directiveArgs(name, d)
		if err != nil {
			return "", err
		}
		b.WriteString(args)
	}
	return b.String(), nil
}

// builtinDirectiveArgs types the arguments of directives that need no
// definition in the document.
var builtinDirectiveArgs = map[string]map[string]typeref.Ref{
	"deprecated":  {"reason": typeref.Scalar(typeref.String, "", true)},
	"specifiedBy": {"url": typeref.Scalar(typeref.String, "", false)},
	"skip":        {"if": typeref.Scalar(typeref.Boolean, "", false)},
	"include":     {"if": typeref.Scalar(typeref.Boolean, "", false)},
	"defer":       {"if": typeref.Scalar(typeref.Boolean, "", true), "label": typeref.Scalar(typeref.String, "", true)},
}

func (p *printer) directiveArgs(name string, d *graphapi.Directive) (string, error) {
	if d.Meta.Len() == 0 {
		return "", nil
	}
	var def *graphapi.DirectiveDefinition
	if d.Ref != "" {
		_, _, v, err := p.doc.Resolve(d.Ref)
		if err != nil {
			return "", err
		}
		def, _ = v.(*graphapi.DirectiveDefinition)
	}
	items := make([]string, 0, d.Meta.Len())
	for arg, v := range d.Meta.All() {
		if name == "deprecated" && arg == "reason" && v == graphapi.DefaultDeprecationReason {
			continue
		}
		var ref *typeref.Ref
		if def != nil {
			if iv, ok := def.Args.Get(arg); ok {
				r, err := p.typeRef(iv.Schema)
				if err != nil {
					return "", err
				}
				ref = &r
			}
		} else if r, ok := builtinDirectiveArgs[name][arg]; ok {
			ref = &r
		}
		s, err := p.value(v, ref)
		if err != nil {
			return "", err
		}
		items = append(items, arg+": "+s)
	}
	if len(items) == 0 {
		return "", nil
	}
	return "(" + strings.Join(items, ", ") + ")", nil
}

// located scopes print errors to the enclosing type and field.
func located(err error, typeName, fieldName string) error {
	var pe *graphapi.PrintError
	if errors.As(err, &pe) {
		return pe.WithLocation(typeName, fieldName)
	}
	return err
}
