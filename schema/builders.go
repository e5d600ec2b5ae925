package schema

import "encoding/json"

// Object creates an object schema builder.
func Object() *ObjectBuilder {
	return &ObjectBuilder{n: &node{Type: "object", Properties: map[string]*node{}}}
}

// ObjectBuilder constructs object schemas.
type ObjectBuilder struct {
	n *node
}

// Desc sets the object's description.
func (b *ObjectBuilder) Desc(d string) *ObjectBuilder {
	b.n.Description = d
	return b
}

// Field adds a named property. Pass a Builder for an optional field or a
// Required (from a builder's Required method) for a mandatory one.
func (b *ObjectBuilder) Field(name string, field any) *ObjectBuilder {
	switch f := field.(type) {
	case Required:
		b.n.Properties[name] = f.b.node()
		b.require(name)
	case Builder:
		b.n.Properties[name] = f.node()
	default:
		panic("schema: Field requires a Builder or Required")
	}
	return b
}

func (b *ObjectBuilder) require(name string) {
	for _, r := range b.n.Required {
		if r == name {
			return
		}
	}
	b.n.Required = append(b.n.Required, name)
}

// Closed forbids properties beyond the declared ones.
func (b *ObjectBuilder) Closed() *ObjectBuilder {
	b.n.AdditionalProperties = ptr(false)
	return b
}

// Required marks this object as required when nested in another object.
func (b *ObjectBuilder) Required() Required { return Required{b} }

func (b *ObjectBuilder) Build() (json.RawMessage, error) { return build(b.n) }
func (b *ObjectBuilder) MustBuild() json.RawMessage      { return mustBuild(b.n) }
func (b *ObjectBuilder) node() *node                     { return b.n }

// String creates a string schema builder.
func String() *StringBuilder {
	return &StringBuilder{n: &node{Type: "string"}}
}

// StringBuilder constructs string schemas.
type StringBuilder struct {
	n *node
}

// Desc sets the field description.
func (b *StringBuilder) Desc(d string) *StringBuilder {
	b.n.Description = d
	return b
}

// Enum restricts the value to the given options.
func (b *StringBuilder) Enum(values ...string) *StringBuilder {
	b.n.Enum = make([]any, len(values))
	for i, v := range values {
		b.n.Enum[i] = v
	}
	return b
}

// MinLength sets the minimum length.
func (b *StringBuilder) MinLength(min int) *StringBuilder {
	b.n.MinLength = ptr(min)
	return b
}

// MaxLength sets the maximum length.
func (b *StringBuilder) MaxLength(max int) *StringBuilder {
	b.n.MaxLength = ptr(max)
	return b
}

// Pattern sets a regex the value must match.
func (b *StringBuilder) Pattern(regex string) *StringBuilder {
	b.n.Pattern = regex
	return b
}

// Default sets the default value.
func (b *StringBuilder) Default(v string) *StringBuilder {
	b.n.Default = v
	return b
}

// Required marks this field as required when used in an object.
func (b *StringBuilder) Required() Required { return Required{b} }

func (b *StringBuilder) Build() (json.RawMessage, error) { return build(b.n) }
func (b *StringBuilder) MustBuild() json.RawMessage      { return mustBuild(b.n) }
func (b *StringBuilder) node() *node                     { return b.n }

// Number creates a number schema builder.
func Number() *NumberBuilder {
	return &NumberBuilder{n: &node{Type: "number"}}
}

// Integer creates an integer schema builder.
func Integer() *NumberBuilder {
	return &NumberBuilder{n: &node{Type: "integer"}}
}

// NumberBuilder constructs numeric schemas.
type NumberBuilder struct {
	n *node
}

// Desc sets the field description.
func (b *NumberBuilder) Desc(d string) *NumberBuilder {
	b.n.Description = d
	return b
}

// Min sets the inclusive minimum.
func (b *NumberBuilder) Min(v float64) *NumberBuilder {
	b.n.Minimum = ptr(v)
	return b
}

// Max sets the inclusive maximum.
func (b *NumberBuilder) Max(v float64) *NumberBuilder {
	b.n.Maximum = ptr(v)
	return b
}

// Default sets the default value.
func (b *NumberBuilder) Default(v float64) *NumberBuilder {
	b.n.Default = v
	return b
}

// Required marks this field as required when used in an object.
func (b *NumberBuilder) Required() Required { return Required{b} }

func (b *NumberBuilder) Build() (json.RawMessage, error) { return build(b.n) }
func (b *NumberBuilder) MustBuild() json.RawMessage      { return mustBuild(b.n) }
func (b *NumberBuilder) node() *node                     { return b.n }

// Bool creates a boolean schema builder.
func Bool() *BoolBuilder {
	return &BoolBuilder{n: &node{Type: "boolean"}}
}

// BoolBuilder constructs boolean schemas.
type BoolBuilder struct {
	n *node
}

// Desc sets the field description.
func (b *BoolBuilder) Desc(d string) *BoolBuilder {
	b.n.Description = d
	return b
}

// Default sets the default value.
func (b *BoolBuilder) Default(v bool) *BoolBuilder {
	b.n.Default = v
	return b
}

// Required marks this field as required when used in an object.
func (b *BoolBuilder) Required() Required { return Required{b} }

func (b *BoolBuilder) Build() (json.RawMessage, error) { return build(b.n) }
func (b *BoolBuilder) MustBuild() json.RawMessage      { return mustBuild(b.n) }
func (b *BoolBuilder) node() *node                     { return b.n }

// Array creates an array schema builder with the given items schema.
func Array(items Builder) *ArrayBuilder {
	return &ArrayBuilder{n: &node{Type: "array", Items: items.node()}}
}

// ArrayBuilder constructs array schemas.
type ArrayBuilder struct {
	n *node
}

// Desc sets the field description.
func (b *ArrayBuilder) Desc(d string) *ArrayBuilder {
	b.n.Description = d
	return b
}

// MinItems sets the minimum element count.
func (b *ArrayBuilder) MinItems(min int) *ArrayBuilder {
	b.n.MinItems = ptr(min)
	return b
}

// MaxItems sets the maximum element count.
func (b *ArrayBuilder) MaxItems(max int) *ArrayBuilder {
	b.n.MaxItems = ptr(max)
	return b
}

// Required marks this field as required when used in an object.
func (b *ArrayBuilder) Required() Required { return Required{b} }

func (b *ArrayBuilder) Build() (json.RawMessage, error) { return build(b.n) }
func (b *ArrayBuilder) MustBuild() json.RawMessage      { return mustBuild(b.n) }
func (b *ArrayBuilder) node() *node                     { return b.n }
