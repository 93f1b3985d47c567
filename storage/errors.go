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


package storage

import "errors"

var (
	// ErrNotFound is returned when no embedding is stored for a document id.
	ErrNotFound = errors.New("embedding not found")

	// ErrStorageClosed is returned by any operation on a closed backend.
	ErrStorageClosed = errors.New("embedding store is closed")

	// ErrInvalidQuery covers empty or zero vectors and non-positive limits.
	ErrInvalidQuery = errors.New("invalid similarity query")

	// ErrSerializationFailed wraps codec errors for stored records.
	ErrSerializationFailed = errors.New("embedding record codec failed")
)
