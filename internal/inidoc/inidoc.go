//
// SPDX-License-Identifier: GPL-3.0-or-later
//

// Package inidoc adapts gopkg.in/ini.v1 to the narrow parse/query
// interface the File Section Resolver consumes the INI tokenizer through.
package inidoc

import "gopkg.in/ini.v1"

// Document is the parse/query interface the File Section Resolver
// consumes. It never sees gopkg.in/ini.v1 types directly.
type Document interface {
	// Sections returns every section name present, including the
	// default section gopkg.in/ini.v1 always exposes as "DEFAULT".
	Sections() []string

	// Keys returns every key name in section, in file order. A key
	// repeated to form a list appears once here; use Values to get every
	// occurrence.
	Keys(section string) []string

	// Values returns every value recorded for key in section, in the
	// order they appeared. A key set once yields a single-element slice;
	// a key repeated via INI's shadow-key support yields one element per
	// occurrence.
	Values(section, key string) []string
}

type document struct {
	file *ini.File
}

var loadOptions = ini.LoadOptions{
	AllowShadows:            true,
	AllowNonUniqueSections:  false,
	SkipUnrecognizableLines: false,
}

// Parse parses data as an INI document.
func Parse(data []byte) (Document, error) {
	f, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, err
	}
	return &document{file: f}, nil
}

// Validate performs a dry-run parse of data, returning an error if it is
// not syntactically valid INI. Used by the File Loader to validate each
// *.conf include file before concatenation.
func Validate(data []byte) error {
	_, err := Parse(data)
	return err
}

// Concat joins parts with a single newline separator, the include-file
// concatenation rule the File Loader applies.
func Concat(parts [][]byte) []byte {
	out := make([]byte, 0)
	for i, p := range parts {
		if i > 0 {
			out = append(out, '\n')
		}
		out = append(out, p...)
	}
	return out
}

func (d *document) Sections() []string {
	var names []string
	for _, s := range d.file.Sections() {
		names = append(names, s.Name())
	}
	return names
}

func (d *document) Keys(section string) []string {
	if !d.file.HasSection(section) {
		return nil
	}
	s, _ := d.file.GetSection(section)
	var names []string
	for _, k := range s.Keys() {
		names = append(names, k.Name())
	}
	return names
}

func (d *document) Values(section, key string) []string {
	if !d.file.HasSection(section) {
		return nil
	}
	s, _ := d.file.GetSection(section)
	if !s.HasKey(key) {
		return nil
	}
	k, _ := s.GetKey(key)
	return k.ValueWithShadows()
}
