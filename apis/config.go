/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package apis

// Config carries read-only knobs that influence registration and bridging.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// AutoSeal seals the registry on the first bridge call that needs a
	// transformation, ending the registration phase implicitly.
	AutoSeal bool `yaml:"auto_seal" env:"VERBRIDGE_AUTO_SEAL" env-description:"seal the registry on first use"`

	// VerifyTags checks that every transformer returns a value tagged with
	// its declared target version.
	VerifyTags bool `yaml:"verify_tags" env:"VERBRIDGE_VERIFY_TAGS" env-description:"verify transformer output tags"`

	// LogLevel is the zap level name used by config.NewLogger.
	LogLevel string `yaml:"log_level" env:"VERBRIDGE_LOG_LEVEL" env-description:"debug, info, warn or error"`

	// LogFormat selects the zap encoder used by config.NewLogger:
	// "json" or "console".
	LogFormat string `yaml:"log_format" env:"VERBRIDGE_LOG_FORMAT" env-description:"json or console"`
}
