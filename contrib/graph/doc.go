// Package graph walks through Neo4j: a small social network, relationship
// queries, recommendations and PageRank from the Graph Data Science plugin.
//
// The PageRank step is optional. When the plugin is not installed the
// failure is logged, a notice is printed and the tour still succeeds.
package graph
