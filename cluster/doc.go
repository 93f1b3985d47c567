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


// Package cluster groups documents into named, scored clusters.
//
// Clustering is greedy agglomeration in input order: each document that is
// not yet clustered seeds a candidate cluster and admits every other free
// document that passes the strategy's admission rule. Candidates smaller than
// the minimum cluster size are discarded, leaving their documents free for
// later seeds. Documents left over at the end are reported as unclustered.
//
// Strategies:
//
//   - MixedFeatures: weighted similarity at or above a threshold
//   - EntityBased: at least one shared entity
//   - TopicBased: at least one shared topic
//   - ProjectBased: the same non-empty project id
//   - Hierarchical: the same breadcrumb root or a parent link
//   - Adaptive: picks one of the above from the corpus shape
//
// Results are deterministic for a given input order and configuration.
package cluster
