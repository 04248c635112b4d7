// Package hash provides one-way hashing for account secrets.
//
// Only the encoded digest is stored; login compares the submitted plaintext
// against it through Verify.
package hash
