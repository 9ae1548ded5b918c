package sequence

import (
	"fmt"

	"matdepot/internal/repository"
)

// NumberGenerator hands out human-readable document numbers. Workflows treat
// the values as opaque strings.
type NumberGenerator interface {
	Next(kind string) (string, error)
}

const (
	KindClaim         = "claim"
	KindPurchaseOrder = "purchase_order"
	KindReturn        = "return"
)

var sequences = map[string]struct {
	sequence string
	prefix   string
}{
	KindClaim:         {sequence: "claim_number_seq", prefix: "CLM"},
	KindPurchaseOrder: {sequence: "po_number_seq", prefix: "PO"},
	KindReturn:        {sequence: "return_number_seq", prefix: "RET"},
}

// Generator draws from dedicated Postgres sequences, so numbers are unique
// even across concurrent submitters.
type Generator struct {
	repository *repository.Repository
}

func NewGenerator(r *repository.Repository) *Generator {
	return &Generator{repository: r}
}

func (g *Generator) Next(kind string) (string, error) {
	seq, ok := sequences[kind]
	if !ok {
		return "", fmt.Errorf("unknown sequence kind: %s", kind)
	}

	var value int64
	row := g.repository.DB.QueryRow(fmt.Sprintf("SELECT nextval('%s')", seq.sequence))
	if err := row.Scan(&value); err != nil {
		return "", fmt.Errorf("failed to get next %s number: %w", kind, err)
	}

	return fmt.Sprintf("%s-%06d", seq.prefix, value), nil
}
