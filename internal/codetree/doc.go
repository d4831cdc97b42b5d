// Package codetree reconstructs code trees from a log of tree-mutation
// events and replays them step by step.
//
// Two kinds of events build a tree. A merge event combines existing nodes
// under a new parent, the way Huffman coding builds its tree bottom-up.
// An expansion event replaces a leaf with new children, the way Tunstall
// and Shannon-Fano coding build theirs top-down.
//
// Events carry only keys and the new facts of each step. Subtrees are
// recovered by looking nodes up in a Registry by their Key, so a node made
// by an earlier event is shared, not copied, when a later event refers to it.
//
// Replay rebuilds the tree for a prefix of the log from scratch, and
// Controller keeps a replay cursor over a log, rebuilding on every move.
// Logs are bounded by the size of the source alphabet, which keeps every
// rebuild cheap.
package codetree
