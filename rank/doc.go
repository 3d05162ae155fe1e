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


// Package rank scores catalog vectors against a query vector.
//
// Scores are cosine similarities in [-1, 1]. A zero-norm vector has no
// direction and scores 0 against everything, so it can never pass a
// positive threshold. Comparing vectors of different lengths is an input
// error rather than a silent truncation.
//
// Rank is a pure function: it does no I/O, never mutates its arguments and
// returns the same result for the same input. Equal scores keep the order
// in which candidates were supplied.
package rank
