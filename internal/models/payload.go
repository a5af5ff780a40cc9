package models

import (
	"log/slog"
	"net/url"
)

// Field is a single name/value pair taken from a form, in document order.
type Field struct {
	Name  string
	Value string
}

// Payload is an ordered snapshot of a form's named fields. Setting a name that
// already exists replaces its value but keeps its original position.
type Payload struct {
	keys   []string
	values map[string]string
}

func NewPayload() *Payload {
	return &Payload{values: make(map[string]string)}
}

// PayloadFromFields builds a payload from form entries; the last value of a
// repeated name wins.
func PayloadFromFields(fields []Field) *Payload {
	p := NewPayload()
	for _, f := range fields {
		p.Set(f.Name, f.Value)
	}
	return p
}

func (p *Payload) Set(name, value string) {
	if _, exists := p.values[name]; !exists {
		p.keys = append(p.keys, name)
	}
	p.values[name] = value
}

func (p *Payload) Get(name string) (string, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Keys returns the field names in insertion order.
func (p *Payload) Keys() []string {
	keys := make([]string, len(p.keys))
	copy(keys, p.keys)
	return keys
}

func (p *Payload) Len() int {
	return len(p.keys)
}

// Fields returns the payload as ordered pairs.
func (p *Payload) Fields() []Field {
	fields := make([]Field, 0, len(p.keys))
	for _, k := range p.keys {
		fields = append(fields, Field{Name: k, Value: p.values[k]})
	}
	return fields
}

// Values converts the payload for form-encoded transport.
func (p *Payload) Values() url.Values {
	v := make(url.Values, len(p.keys))
	for _, k := range p.keys {
		v.Set(k, p.values[k])
	}
	return v
}

// LogValue keeps field order when the payload is logged.
func (p *Payload) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(p.keys))
	for _, k := range p.keys {
		attrs = append(attrs, slog.String(k, p.values[k]))
	}
	return slog.GroupValue(attrs...)
}
