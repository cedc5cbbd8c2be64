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

	"github.com/solarisdb/commons/golibs/errors"
)

// Sources lists where Load takes the configuration from. The empty fields are skipped.
type Sources struct {
	// File is the .json, .yaml or .yml file with the configuration value
	File string
	// EnvPrefix is the prefix of the environment variables, "_" is the path separator
	EnvPrefix string
	// SecretsFile is a JSON object of the string key-values, which are applied like
	// the environment variables, but without the prefix. For example
	//
	//	{"DB_PASSWORD": "123456"}
	//
	// sets the DB.Password field.
	SecretsFile string
}

// Load builds the configuration value of the type T. The defaults value is taken first,
// then the fields from src.File, the environment variables and the secrets are applied
// in this order over it.
//
// Example: for the EnvPrefix "COMMONS" the variable COMMONS_LOG_LEVEL sets the Log.Level
// field of the value.
func Load[T any](defaults T, src Sources) (T, error) {
	e := NewEnricher(defaults)
	if src.File != "" {
		fe := NewEnricher(*new(T))
		if err := fe.LoadFromFile(src.File); err != nil {
			return defaults, fmt.Errorf("could not load config from %s: %w", src.File, err)
		}
		if err := e.ApplyOther(fe); err != nil {
			return defaults, err
		}
	}
	if src.EnvPrefix != "" {
		if err := e.ApplyEnvVariables(src.EnvPrefix, "_"); err != nil {
			return defaults, err
		}
	}
	if src.SecretsFile != "" {
		if err := ApplyKeyValuesFile(e, src.SecretsFile); err != nil {
			return defaults, err
		}
	}
	return e.Value(), nil
}

// ApplyKeyValuesFile reads the JSON object of string key-values from path and applies
// them to the enricher with "_" separator and no prefix.
func ApplyKeyValuesFile[T any](e Enricher[T], path string) error {
	buf, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("the file %s is not found: %w", path, errors.ErrNotExist)
	}
	if err != nil {
		return fmt.Errorf("could not read file %s: %w", path, err)
	}
	keyValues := map[string]string{}
	if err := json.Unmarshal(buf, &keyValues); err != nil {
		return fmt.Errorf("%s must be a JSON object of strings: %s: %w", path, err, errors.ErrInvalid)
	}
	return e.ApplyKeyValues("", "_", keyValues)
}
