// Copyright 2025 Poiesic Systems
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


// Package conflict finds document pairs that contradict each other.
//
// Detection is a two-stage pipeline. A cheap prefilter requires that the pair
// shares significant terms or entities, or is lexically similar, before any
// pattern matching runs. Surviving pairs are scanned for three patterns:
//
//   - version: the same subject quoted with different version numbers
//   - procedural: opposite imperatives ("always"/"never") about the same action
//   - data: different quantities with the same unit for the same subject
//
// Each match becomes an indicator with a strength bucket, and the candidate's
// confidence is derived from the strongest bucket present.
//
// Two optional refinements can follow, each backed by a collaborator that may
// be missing: embedding cosine similarity through an ai.VectorStore, and LLM
// adjudication through an ai.ChatCompleter. A collaborator that is absent,
// times out or answers nonsense leaves the lexical verdict in place.
package conflict
