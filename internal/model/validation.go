package model

import "time"

// FoldResult holds the accuracy counters for one held-out fold.
type FoldResult struct {
	Fold         int     `json:"fold" yaml:"fold"`
	Correct      int     `json:"correct" yaml:"correct"`
	Wrong        int     `json:"wrong" yaml:"wrong"`
	TopKHit      int     `json:"topk_hit" yaml:"topk_hit"`
	TopKMiss     int     `json:"topk_miss" yaml:"topk_miss"`
	Empty        int     `json:"empty" yaml:"empty"`
	Accuracy     float64 `json:"accuracy" yaml:"accuracy"`
	TopKAccuracy float64 `json:"topk_accuracy" yaml:"topk_accuracy"`
}

// Finalize derives the accuracy ratios from the counters.
func (f *FoldResult) Finalize() {
	if total := f.Correct + f.Wrong; total > 0 {
		f.Accuracy = float64(f.Correct) / float64(total)
	}
	if total := f.TopKHit + f.TopKMiss; total > 0 {
		f.TopKAccuracy = float64(f.TopKHit) / float64(total)
	}
}

// ValidationRun is a complete k-fold cross-validation report.
type ValidationRun struct {
	StartedAt      time.Time     `json:"started_at" yaml:"started_at"`
	ID             string        `json:"id" yaml:"id"`
	Mode           string        `json:"mode" yaml:"mode"`
	Symbols        []string      `json:"symbols" yaml:"symbols"`
	Folds          []FoldResult  `json:"folds" yaml:"folds"`
	AverageTime    time.Duration `json:"average_time" yaml:"average_time"`
	Epsilon        float64       `json:"epsilon" yaml:"epsilon"`
	Top1Accuracy   float64       `json:"top1_accuracy" yaml:"top1_accuracy"`
	TopKAccuracy   float64       `json:"topk_accuracy" yaml:"topk_accuracy"`
	SampleCount    int           `json:"sample_count" yaml:"sample_count"`
	FoldCount      int           `json:"fold_count" yaml:"fold_count"`
	MinOccurrences int           `json:"min_occurrences" yaml:"min_occurrences"`
	TopK           int           `json:"top_k" yaml:"top_k"`
	Center         bool          `json:"center" yaml:"center"`
}
