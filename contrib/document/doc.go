// Package document walks through MongoDB: inserts, filtered finds, a
// $lookup aggregation, updates, deletes and index hints.
package document
