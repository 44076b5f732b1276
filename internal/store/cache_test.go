package store

import (
	"testing"

	"github.com/rawblock/sudoku-engine/pkg/models"
)

func TestSignatureIsStableForIdenticalSpecs(t *testing.T) {
	spec := models.PuzzleSpec{
		NumRows: 4, NumCols: 4, NumValues: 4, BoxWidth: 2, BoxHeight: 2,
		Constraints: []models.ConstraintNode{
			{Kind: models.KindHouse, Cells: []int{0, 1, 2, 3}},
		},
	}
	a, err := Signature(spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Signature(spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Errorf("expected identical specs to produce the same signature, got %s and %s", a, b)
	}
}

func TestSignatureDiffersForDifferentSpecs(t *testing.T) {
	base := models.PuzzleSpec{NumRows: 4, NumCols: 4, NumValues: 4}
	changed := models.PuzzleSpec{NumRows: 4, NumCols: 4, NumValues: 4, BoxWidth: 2}

	a, err := Signature(base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Signature(changed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Errorf("expected a changed spec to produce a different signature")
	}
}

func TestSignatureIsHexSHA256(t *testing.T) {
	sig, err := Signature(models.PuzzleSpec{NumRows: 1, NumCols: 1, NumValues: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sig) != 64 {
		t.Errorf("expected a 64-character hex-encoded sha256 digest, got %d chars: %s", len(sig), sig)
	}
}
