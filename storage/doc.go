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


// Package storage provides the vector index abstraction for vecseed.
//
// VectorIndex decouples the bootstrap pipeline from the database that holds
// embeddings. Backends:
//
//   - storage/badger: embedded BadgerDB, records encoded with mus-go
//   - storage/pgvector: PostgreSQL with the pgvector extension
//   - storage/mock: in-memory recording double for tests
//
// # Writes
//
// Upsert splits its input into sub-batches (DefaultUpsertBatchSize when the
// caller passes zero) and writes each in its own transaction. A failing
// sub-batch stops the call with an *IndexWriteError naming the sub-batch
// offset; sub-batches written before it are not rolled back.
//
// # Usage
//
//	index, err := badger.Open("/var/lib/vecseed")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer index.Close()
//
//	if err := index.EnsureIndex(ctx, "docs"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// All implementations are safe for concurrent use.
package storage
