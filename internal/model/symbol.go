package model

import "time"

// Symbol is a recognizable identity, e.g. a LaTeX command such as \alpha.
type Symbol struct {
	CreatedAt time.Time
	Label     string
	ID        int64
}

// RawSample is a stored recording with its payload still encoded.
type RawSample struct {
	CreatedAt        time.Time
	Label            string
	Data             []byte
	ID               int64
	SymbolID         int64
	AcceptedSymbolID int64
}

// LabeledSample is one corpus entry a query is compared against.
type LabeledSample struct {
	LabelText         string
	Sample            Sample
	FormulaID         int64
	AcceptedFormulaID int64
	DatasetID         int64
}

// SymbolCount pairs a symbol with the number of stored samples for it.
type SymbolCount struct {
	Symbol  Symbol
	Samples int
}
