// Copyright 2024 The Solaris Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
/*
Package cast contains some utility functions for casting types. Value and Ptr turn
pointers to values and back, which is useful when it needs to distinguish whether a
value is provided or it is the default one (in JSON objects, for example). The
StringToByteArray and ByteArrayToString functions convert strings and byte slices
without copying the data.
*/
package cast
