package models

// FoldFieldName is the categorical field added to every fold dataset;
// its value is the fold's index rendered as a string.
const FoldFieldName = "k_fold"

// Fold is one of the k disjoint partitions of a dataset.
type Fold struct {
	Index   int    `json:"index"`
	Dataset string `json:"dataset"`
}

// FoldPair pairs a held-out fold with the datasets of the other k-1 folds.
// The complement preserves the original fold order with the held-out
// fold removed.
type FoldPair struct {
	HeldOut    Fold     `json:"held_out"`
	Complement []string `json:"complement"`
}
