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

// Package level defines the logging severity type used across paperlog.
//
// The set mirrors the upstream paperlog/paper2 crate: Debug, Info, Warn,
// Error, Critical and the sentinel Off. Off records are accepted by the
// queue like any other record (producers never see a rejection) but are
// dropped at sink dispatch time, not at enqueue — see the Consumer's
// level-filter stage.
//
// This package is deliberately kept free from concrete logging backends.
// Runtime packages map these levels onto zap levels where needed (see
// runtime/encoder/internalzap).
package level
