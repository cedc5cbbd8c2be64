// Copyright 2024 The Solaris Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/solarisdb/commons/golibs/errors"
	"github.com/solarisdb/commons/golibs/logging"
)

type (
	// Enricher keeps a value of the struct type T and updates it from the configuration
	// sources: files, other enrichers, environment variables and key-value pairs.
	//
	// A field of T is addressed by its name or by the name from its json tag, in any
	// case. For example, FieldA int `json:"abc"` is addressed as "fielda" or "ABC". Only
	// the exported fields are updated. The files are decoded with the json tags too.
	Enricher[T any] interface {
		// LoadFromFile decodes the file over the current value. The format is chosen by
		// the file extension: .json, .yaml or .yml. The empty fileName is ignored.
		LoadFromFile(fileName string) error

		// ApplyOther deep-copies the non-zero fields of the other enricher value over
		// the current one.
		ApplyOther(other Enricher[T]) error

		// ApplyEnvVariables applies the environment variables which names start with
		// prefix+sep. See ApplyKeyValues for the naming rules.
		ApplyEnvVariables(prefix, sep string) error

		// ApplyKeyValues sets the fields addressed by the keys. A key is the prefix
		// and the path of the field names joined by sep, so for the prefix "srv" and
		// sep "_" the key SRV_DB_PORT addresses the field DB.Port. The keys which don't
		// address a field are skipped, the nil pointers on the path are allocated.
		//
		// The numbers and strings are given as is, the other types as JSON, for example
		// SRV_DB={"port": 5432} or SRV_HOSTS=["a", "b"]. The empty value leaves the field
		// unchanged.
		ApplyKeyValues(prefix, sep string, keyValues map[string]string) error

		// Value returns the current value
		Value() T
	}

	enricher[T any] struct {
		log logging.Logger
		val T
	}
)

var decoders = map[string]func([]byte, any) error{
	".json": json.Unmarshal,
	".yaml": func(b []byte, v any) error { return yaml.Unmarshal(b, v) },
	".yml":  func(b []byte, v any) error { return yaml.Unmarshal(b, v) },
}

// NewEnricher constructs new Enricher for the type T. It panics if T is not a struct.
func NewEnricher[T any](val T) Enricher[T] {
	if tp := reflect.TypeOf(val); tp == nil || tp.Kind() != reflect.Struct {
		panic(fmt.Sprintf("only structs are acceptable in the Enricher, but got %T", val))
	}
	return newEnricher(val)
}

func newEnricher[T any](val T) *enricher[T] {
	return &enricher[T]{
		val: val,
		log: logging.NewLogger("config.enricher." + reflect.TypeOf(val).Name()),
	}
}

func (e *enricher[T]) LoadFromFile(fileName string) error {
	if fileName == "" {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(fileName)))
	decode, ok := decoders[ext]
	if !ok {
		return fmt.Errorf("cannot recognize file format %s, expecting .json, .yaml or .yml: %w", fileName, errors.ErrInvalid)
	}
	buf, err := os.ReadFile(fileName)
	if os.IsNotExist(err) {
		return fmt.Errorf("the file %s is not found: %w", fileName, errors.ErrNotExist)
	}
	if err != nil {
		return fmt.Errorf("could not read file %s: %w", fileName, err)
	}
	if err := decode(buf, &e.val); err != nil {
		return fmt.Errorf("could not decode %s: %s: %w", fileName, err, errors.ErrInvalid)
	}
	e.log.Debugf("loaded %s", fileName)
	return nil
}

func (e *enricher[T]) ApplyOther(other Enricher[T]) error {
	oe, ok := other.(*enricher[T])
	if !ok {
		return fmt.Errorf("unsupported enricher implementation %T: %w", other, errors.ErrInvalid)
	}
	merge(reflect.ValueOf(&e.val).Elem(), reflect.ValueOf(oe.val))
	return nil
}

func (e *enricher[T]) ApplyEnvVariables(prefix, sep string) error {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return e.ApplyKeyValues(prefix, sep, env)
}

func (e *enricher[T]) ApplyKeyValues(prefix, sep string, keyValues map[string]string) error {
	sep = strings.ToUpper(sep)
	pfx := ""
	if prefix != "" {
		pfx = strings.ToUpper(prefix) + sep
	}
	for k, v := range keyValues {
		key, ok := strings.CutPrefix(strings.ToUpper(k), pfx)
		if !ok || key == "" {
			continue
		}
		found, err := assign(reflect.ValueOf(&e.val).Elem(), key, sep, v)
		if err != nil {
			return fmt.Errorf("could not apply %s: %w", k, err)
		}
		if found {
			e.log.Debugf("applied %s", k)
		} else {
			e.log.Debugf("%s doesn't address any field, skipped", k)
		}
	}
	return nil
}

func (e *enricher[T]) Value() T {
	return e.val
}

// merge copies the non-zero values of src to dst recursively. The structs are merged
// field by field, all other values are replaced.
func merge(dst, src reflect.Value) {
	if src.IsZero() {
		return
	}
	switch src.Kind() {
	case reflect.Pointer:
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		merge(dst.Elem(), src.Elem())
	case reflect.Struct:
		tp := src.Type()
		for i := 0; i < tp.NumField(); i++ {
			if tp.Field(i).IsExported() {
				merge(dst.Field(i), src.Field(i))
			}
		}
	default:
		dst.Set(src)
	}
}

// assign sets the field addressed by key in the struct (or the pointer to struct) v. The
// key is the upper-cased path of the field names joined by sep. A name may contain sep
// itself, so every field which name is a prefix of the key is tried. It returns false if
// no field is found.
func assign(v reflect.Value, key, sep, value string) (bool, error) {
	if v.Kind() == reflect.Pointer {
		if !v.IsNil() {
			return assign(v.Elem(), key, sep, value)
		}
		nv := reflect.New(v.Type().Elem())
		found, err := assign(nv.Elem(), key, sep, value)
		if found && err == nil {
			v.Set(nv)
		}
		return found, err
	}
	if v.Kind() != reflect.Struct {
		return false, nil
	}
	tp := v.Type()
	for i := 0; i < tp.NumField(); i++ {
		sf := tp.Field(i)
		if !sf.IsExported() {
			continue
		}
		for _, name := range fieldNames(sf) {
			if key == name {
				if err := setFromString(v.Field(i), value); err != nil {
					return true, fmt.Errorf("could not set %q to the field %s: %s: %w", value, sf.Name, err, errors.ErrInvalid)
				}
				return true, nil
			}
			if rest, ok := strings.CutPrefix(key, name+sep); ok {
				if found, err := assign(v.Field(i), rest, sep, value); found || err != nil {
					return found, err
				}
			}
		}
	}
	return false, nil
}

// fieldNames returns the upper-cased field name and its json alias, if any
func fieldNames(sf reflect.StructField) []string {
	res := []string{strings.ToUpper(sf.Name)}
	alias, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if alias != "" && alias != "-" && !strings.EqualFold(alias, sf.Name) {
		res = append(res, strings.ToUpper(alias))
	}
	return res
}

// setFromString decodes s as JSON into the field. The strings (and pointers to strings)
// may be given without the quotes.
func setFromString(field reflect.Value, s string) error {
	if s == "" {
		return nil
	}
	if isStringType(field.Type()) && !isQuoted(s) {
		s = strconv.Quote(s)
	}
	ptr := reflect.New(field.Type())
	if err := json.Unmarshal([]byte(s), ptr.Interface()); err != nil {
		return err
	}
	field.Set(ptr.Elem())
	return nil
}

func isQuoted(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}

func isStringType(tp reflect.Type) bool {
	for tp.Kind() == reflect.Pointer {
		tp = tp.Elem()
	}
	return tp.Kind() == reflect.String
}
