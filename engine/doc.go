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


// Package engine orchestrates the similarity calculator, cluster analyzer,
// conflict detector and complementary finder over one set of search results.
//
// A request moves through Start, ModeSelect, Lightweight or Full, and
// Assemble. Lightweight requests only summarize the similarity matrix. Full
// requests also cluster, sweep for conflicts and rank complementary content
// for the requested targets.
//
// Every request is bounded by the Config budgets:
//
//   - max_pairs_total caps the pairs scored after tiering by the conflict
//     prefilter, highest score first
//   - overall_timeout_s is a wall-clock deadline checked between pairs and
//     before each chat call
//   - max_llm_pairs caps conflict adjudication calls
//
// Hitting a budget never fails a request. The report is marked Truncated and
// carries the reason. Missing collaborators are listed in Degraded.
//
// The Engine keeps no per-request state and may serve concurrent requests.
package engine
