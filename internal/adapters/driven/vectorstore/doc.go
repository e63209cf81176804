// Package vectorstore holds helpers shared by the VectorStore backends.
//
// Backends live in subpackages:
//
//   - memory: process-local maps, lost on exit
//   - sqlite: a local SQLite database with brute-force search
//   - pinecone: a remote Pinecone index over its REST data plane
package vectorstore
