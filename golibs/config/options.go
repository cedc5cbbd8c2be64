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
	"fmt"
	"io"
	"os"
	"reflect"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/solarisdb/commons/golibs/container/lru"
	"github.com/solarisdb/commons/golibs/errors"
)

type (
	// OptionType defines how an option string value is validated and converted
	OptionType string

	// Option describes a named configuration option. The Choices are considered
	// for the TypeChoice and TypeMultipleChoice options only.
	Option struct {
		Name    string
		Type    OptionType
		Choices []string
		Help    string
		Default any
	}

	// OptionValue is the option with its (converted) value
	OptionValue struct {
		Option Option
		Value  any
	}
)

const (
	// TypeString is the string value, the surrounding quotes are removed
	TypeString OptionType = "string"
	// TypeInt is converted to int
	TypeInt OptionType = "int"
	// TypeFloat is converted to float64
	TypeFloat OptionType = "float"
	// TypeFile is the path to an existing file
	TypeFile OptionType = "file"
	// TypeColor is a color name or the #RGB, #RRGGBB hex value
	TypeColor OptionType = "color"
	// TypeRegexp is converted to *regexp.Regexp
	TypeRegexp OptionType = "regexp"
	// TypeCSV is converted to []string
	TypeCSV OptionType = "csv"
	// TypeYN is y/yes or n/no converted to bool
	TypeYN OptionType = "yn"
	// TypeBool is the same as TypeYN
	TypeBool OptionType = "bool"
	// TypeNamed is the comma separated list of key:value or key=value pairs converted
	// to map[string]string
	TypeNamed OptionType = "named"
	// TypeChoice is a string, which must be one of the Option.Choices
	TypeChoice OptionType = "choice"
	// TypeMultipleChoice is the comma separated list of the Option.Choices values
	TypeMultipleChoice OptionType = "multiple_choice"
)

const iniLineLen = 79

var (
	colorNameRE = regexp.MustCompile(`^[a-zA-Z0-9 ]+$`)
	colorHexRE  = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

	compileRegexp, _ = lru.Memoize(256, regexp.Compile)
)

type validator func(opt Option, value string) (any, error)

var validators = map[OptionType]validator{
	TypeString:         func(_ Option, v string) (any, error) { return unquote(v), nil },
	TypeInt:            intValidator,
	TypeFloat:          floatValidator,
	TypeFile:           fileValidator,
	TypeColor:          colorValidator,
	TypeRegexp:         regexpValidator,
	TypeCSV:            func(_ Option, v string) (any, error) { return splitCSV(v), nil },
	TypeYN:             ynValidator,
	TypeBool:           ynValidator,
	TypeNamed:          namedValidator,
	TypeChoice:         choiceValidator,
	TypeMultipleChoice: multipleChoiceValidator,
}

// Convert validates the value string for the opt and returns the value converted to
// the type, defined by the opt.Type. The option without the type returns the value as is.
// The invalid values are reported by the errors.ErrInvalid, the unknown option types
// by the errors.ErrUnimplemented.
func Convert(opt Option, value string) (any, error) {
	if opt.Type == "" {
		return value, nil
	}
	vf, ok := validators[opt.Type]
	if !ok {
		return nil, fmt.Errorf("option %s: unsupported type %q: %w", opt.Name, opt.Type, errors.ErrUnimplemented)
	}
	return vf(opt, value)
}

// FormatValue returns the string representation of the value which was converted for
// the opt. Convert(opt, FormatValue(opt, v)) gives the v back for the most option types.
func FormatValue(opt Option, value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(v, ",")
	case *regexp.Regexp:
		return v.String()
	case map[string]string:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			keys[i] = k + ":" + v[k]
		}
		return strings.Join(keys, ",")
	case bool:
		if opt.Type == TypeYN {
			if v {
				return "yes"
			}
			return "no"
		}
		return strconv.FormatBool(v)
	case string:
		if v != "" && strings.TrimSpace(v) == "" {
			return "'" + v + "'"
		}
		return v
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice {
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = fmt.Sprint(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(value)
}

// FormatINISection writes the values in the INI format into w. The doc (if not empty) is
// written as the comment before the section header, the options help texts are written as
// comments before the options. The values with nil Value are skipped.
//
// Example:
//
//	# the doc line
//	[SECTION]
//
//	# the option help
//	name=value
func FormatINISection(w io.Writer, section, doc string, values []OptionValue) error {
	var sb strings.Builder
	if doc != "" {
		sb.WriteString(comment(doc))
		sb.WriteString("\n")
	}
	sb.WriteString("[" + strings.ToUpper(section) + "]\n")
	for _, ov := range values {
		if ov.Value == nil {
			continue
		}
		sb.WriteString("\n")
		if ov.Option.Help != "" {
			sb.WriteString(wrapText(ov.Option.Help, iniLineLen, "# "))
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%s=%s\n", ov.Option.Name, strings.TrimSpace(FormatValue(ov.Option, ov.Value))))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func invalidValue(opt Option, value string, format string, args ...any) error {
	return fmt.Errorf("option %s: invalid value %q, %s: %w", opt.Name, value, fmt.Sprintf(format, args...), errors.ErrInvalid)
}

func intValidator(opt Option, v string) (any, error) {
	res, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return nil, invalidValue(opt, v, "should be of type %s", opt.Type)
	}
	return res, nil
}

func floatValidator(opt Option, v string) (any, error) {
	res, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return nil, invalidValue(opt, v, "should be of type %s", opt.Type)
	}
	return res, nil
}

func fileValidator(opt Option, v string) (any, error) {
	if _, err := os.Stat(v); err != nil {
		return nil, invalidValue(opt, v, "the file does not exist")
	}
	return v, nil
}

func colorValidator(opt Option, v string) (any, error) {
	if colorNameRE.MatchString(v) || colorHexRE.MatchString(v) {
		return v, nil
	}
	return nil, invalidValue(opt, v, "should be a color name or #RGB, #RRGGBB value")
}

func regexpValidator(opt Option, v string) (any, error) {
	re, err := compileRegexp(v)
	if err != nil {
		return nil, invalidValue(opt, v, "%s", err)
	}
	return re, nil
}

func ynValidator(opt Option, v string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "y", "yes", "true", "1":
		return true, nil
	case "n", "no", "false", "0":
		return false, nil
	}
	return nil, invalidValue(opt, v, "expecting y/yes or n/no")
}

func namedValidator(opt Option, v string) (any, error) {
	res := map[string]string{}
	for _, p := range splitCSV(v) {
		sep := strings.IndexAny(p, "=:")
		if sep < 0 {
			return nil, invalidValue(opt, v, "expecting key:value or key=value pairs")
		}
		res[strings.TrimSpace(p[:sep])] = strings.TrimSpace(p[sep+1:])
	}
	return res, nil
}

func choiceValidator(opt Option, v string) (any, error) {
	if !slices.Contains(opt.Choices, v) {
		return nil, invalidValue(opt, v, "should be in %v", opt.Choices)
	}
	return v, nil
}

func multipleChoiceValidator(opt Option, v string) (any, error) {
	vals := splitCSV(v)
	for _, cv := range vals {
		if !slices.Contains(opt.Choices, cv) {
			return nil, invalidValue(opt, cv, "should be in %v", opt.Choices)
		}
	}
	return vals, nil
}

func splitCSV(v string) []string {
	res := []string{}
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}

func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func comment(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "# " + strings.TrimSpace(l)
	}
	return strings.Join(lines, "\n")
}

// wrapText splits the text by words into the lines of the lineLen size, every line
// starts with the indent
func wrapText(text string, lineLen int, indent string) string {
	var lines []string
	line := indent
	for _, w := range strings.Fields(text) {
		if len(line) > len(indent) && len(line)+1+len(w) > lineLen {
			lines = append(lines, line)
			line = indent
		}
		if len(line) > len(indent) {
			line += " "
		}
		line += w
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
