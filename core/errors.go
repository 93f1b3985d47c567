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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrEmptyDocumentID indicates a Document has neither an id nor source fields.
	ErrEmptyDocumentID = errors.New("document id cannot be empty")

	// ErrEmptyContent indicates the Text field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidEmbedding indicates an EmbeddingRecord failed validation or decoding.
	ErrInvalidEmbedding = errors.New("invalid embedding record")

	// ErrEmptyVector indicates an embedding vector has no components.
	ErrEmptyVector = errors.New("embedding vector cannot be empty")

	// ErrUnknownValue indicates an unrecognized enum name.
	ErrUnknownValue = errors.New("unknown value")
)
