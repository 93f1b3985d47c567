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


// Package similarity computes multi-signal similarity between two documents.
//
// A Calculator combines five independently computed sub-scores:
//
//   - entity overlap: Jaccard index over lower-cased entity texts
//   - topic overlap: Jaccard index over lower-cased topic texts
//   - semantic: an injected ai.TextSimilarity, else lexical n-gram overlap
//   - content features: closeness of code/table flags, word count and read time
//   - hierarchy: parent/child, sibling and depth relations from breadcrumbs
//
// The final score is a weighted sum clamped to [0, 1]. Missing document fields
// never produce an error; the affected sub-score is simply 0.
//
// # Memoization
//
// A Memo caches results per unordered pair for the lifetime of one request:
//
//	memo := similarity.NewMemo(calc)
//	r := memo.Compare(a, b) // computed
//	r = memo.Compare(b, a)  // cached, oriented as (b, a)
//
// Memos must not be shared between requests.
package similarity
