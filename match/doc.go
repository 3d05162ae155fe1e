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


// Package match turns caption item descriptions into catalog recommendations.
//
// A Matcher filters the catalog once per analysis (target gender or Unisex,
// minus the category of the uploaded garment), embeds every query text as a
// single-item batch and ranks the filtered items by cosine similarity. The
// per-query results are concatenated in query order; within a query they are
// ordered by descending score with ties kept in catalog order.
//
// Any failing query aborts the whole call. An empty query list, or queries
// that match nothing above the threshold, produce an empty result rather than
// an error.
//
// Queries run one after another unless WithConcurrency is given, in which
// case up to n queries are embedded at once. The output order is the same
// either way.
package match
