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
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/solarisdb/commons/golibs/errors"
	"github.com/stretchr/testify/assert"
)

func TestConvert_Simple(t *testing.T) {
	v, err := Convert(Option{Name: "s", Type: TypeString}, `"hello"`)
	assert.Nil(t, err)
	assert.Equal(t, "hello", v)

	v, err = Convert(Option{Name: "i", Type: TypeInt}, " 42 ")
	assert.Nil(t, err)
	assert.Equal(t, 42, v)
	_, err = Convert(Option{Name: "i", Type: TypeInt}, "4x2")
	assert.True(t, errors.Is(err, errors.ErrInvalid))

	v, err = Convert(Option{Name: "f", Type: TypeFloat}, "1.5")
	assert.Nil(t, err)
	assert.Equal(t, 1.5, v)

	v, err = Convert(Option{Name: "raw"}, "as is")
	assert.Nil(t, err)
	assert.Equal(t, "as is", v)

	_, err = Convert(Option{Name: "font", Type: "font"}, "arial")
	assert.True(t, errors.Is(err, errors.ErrUnimplemented))
}

func TestConvert_YN(t *testing.T) {
	for _, s := range []string{"y", "YES", "true", "1"} {
		v, err := Convert(Option{Name: "yn", Type: TypeYN}, s)
		assert.Nil(t, err)
		assert.Equal(t, true, v)
	}
	for _, s := range []string{"n", "No", "false", "0"} {
		v, err := Convert(Option{Name: "b", Type: TypeBool}, s)
		assert.Nil(t, err)
		assert.Equal(t, false, v)
	}
	_, err := Convert(Option{Name: "yn", Type: TypeYN}, "maybe")
	assert.True(t, errors.Is(err, errors.ErrInvalid))
	assert.Contains(t, err.Error(), "option yn")
}

func TestConvert_CSVAndChoices(t *testing.T) {
	v, err := Convert(Option{Name: "l", Type: TypeCSV}, " a, b,,c ")
	assert.Nil(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, v)

	opt := Option{Name: "c", Type: TypeChoice, Choices: []string{"red", "green"}}
	v, err = Convert(opt, "red")
	assert.Nil(t, err)
	assert.Equal(t, "red", v)
	_, err = Convert(opt, "blue")
	assert.True(t, errors.Is(err, errors.ErrInvalid))

	opt.Type = TypeMultipleChoice
	v, err = Convert(opt, "red,green")
	assert.Nil(t, err)
	assert.Equal(t, []string{"red", "green"}, v)
	_, err = Convert(opt, "red,blue")
	assert.True(t, errors.Is(err, errors.ErrInvalid))
}

func TestConvert_Named(t *testing.T) {
	v, err := Convert(Option{Name: "n", Type: TypeNamed}, "a:1, b=2")
	assert.Nil(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, v)
	_, err = Convert(Option{Name: "n", Type: TypeNamed}, "a:1,b")
	assert.True(t, errors.Is(err, errors.ErrInvalid))
}

func TestConvert_FileColorRegexp(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "f.txt")
	createFile(fn, "data")
	v, err := Convert(Option{Name: "f", Type: TypeFile}, fn)
	assert.Nil(t, err)
	assert.Equal(t, fn, v)
	_, err = Convert(Option{Name: "f", Type: TypeFile}, fn+".absent")
	assert.True(t, errors.Is(err, errors.ErrInvalid))

	for _, c := range []string{"red", "light blue", "#fff", "#A0B1C2"} {
		_, err = Convert(Option{Name: "c", Type: TypeColor}, c)
		assert.Nil(t, err, c)
	}
	for _, c := range []string{"#ffff", "red!", "#GGGGGG"} {
		_, err = Convert(Option{Name: "c", Type: TypeColor}, c)
		assert.True(t, errors.Is(err, errors.ErrInvalid), c)
	}

	v, err = Convert(Option{Name: "r", Type: TypeRegexp}, "^a+b$")
	assert.Nil(t, err)
	re := v.(*regexp.Regexp)
	assert.True(t, re.MatchString("aab"))
	v2, _ := Convert(Option{Name: "r", Type: TypeRegexp}, "^a+b$")
	assert.Same(t, re, v2)
	_, err = Convert(Option{Name: "r", Type: TypeRegexp}, "(")
	assert.True(t, errors.Is(err, errors.ErrInvalid))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "a,b", FormatValue(Option{Type: TypeCSV}, []string{"a", "b"}))
	assert.Equal(t, "^x$", FormatValue(Option{Type: TypeRegexp}, regexp.MustCompile("^x$")))
	assert.Equal(t, "yes", FormatValue(Option{Type: TypeYN}, true))
	assert.Equal(t, "no", FormatValue(Option{Type: TypeYN}, false))
	assert.Equal(t, "true", FormatValue(Option{Type: TypeBool}, true))
	assert.Equal(t, "' '", FormatValue(Option{Type: TypeString}, " "))
	assert.Equal(t, "a:1,b:2", FormatValue(Option{Type: TypeNamed}, map[string]string{"b": "2", "a": "1"}))
	assert.Equal(t, "1,2", FormatValue(Option{Type: TypeCSV}, []int{1, 2}))
	assert.Equal(t, "12", FormatValue(Option{Type: TypeInt}, 12))
}

func TestFormatINISection(t *testing.T) {
	var sb strings.Builder
	err := FormatINISection(&sb, "my config", "the doc", []OptionValue{
		{Option: Option{Name: "number", Type: TypeInt, Help: "the number"}, Value: 3},
		{Option: Option{Name: "skipped", Type: TypeString}, Value: nil},
		{Option: Option{Name: "dothis", Type: TypeYN}, Value: false},
		{Option: Option{Name: "multiple", Type: TypeCSV}, Value: []string{"1", "2", "3"}},
	})
	assert.Nil(t, err)
	assert.Equal(t, "# the doc\n[MY CONFIG]\n\n# the number\nnumber=3\n\ndothis=no\n\nmultiple=1,2,3\n", sb.String())
}

func Test_wrapText(t *testing.T) {
	assert.Equal(t, "# aaa bbb\n# ccc", wrapText("aaa bbb ccc", 10, "# "))
	assert.Equal(t, "# aaaaaaaaaaaa\n# b", wrapText("aaaaaaaaaaaa b", 10, "# "))
	assert.Equal(t, "# ", wrapText("", 10, "# "))
}
