package persistence

import (
	"errors"
	"strings"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// uniqueViolations maps unique index names to the domain error a duplicate
// row stands for. The SQLite keys are the column lists its driver reports.
var uniqueViolations = map[string]*shared.DomainError{
	"uq_bills_purchase_order": shared.NewDomainError(shared.CodeDuplicateBill, "Bill already exists for this purchase order"),
	"bills.purchase_order_id": shared.NewDomainError(shared.CodeDuplicateBill, "Bill already exists for this purchase order"),

	"uq_acknowledgements_po_final":       shared.NewDomainError(shared.CodeAlreadyFinal, "A final acknowledgement already exists"),
	"acknowledgements.purchase_order_id": shared.NewDomainError(shared.CodeAlreadyFinal, "A final acknowledgement already exists"),
	"uq_quotes_chain_final":              shared.NewDomainError(shared.CodeAlreadyFinalized, "Quote chain already has an accepted quote"),
	"quotes.chain_id":                    shared.NewDomainError(shared.CodeAlreadyFinalized, "Quote chain already has an accepted quote"),

	"uq_delivery_inbound_received": shared.NewDomainError(shared.CodeDuplicateReceipt, "Purchase order has already been received"),
	"delivery_inbound.purchase_order_id": shared.NewDomainError(shared.CodeDuplicateReceipt,
		"Purchase order has already been received"),

	"uq_acknowledgements_po_version": shared.NewDomainError(shared.CodeConflict, "Acknowledgement version was taken by a concurrent request"),
	"acknowledgements.purchase_order_id, acknowledgements.version": shared.NewDomainError(shared.CodeConflict,
		"Acknowledgement version was taken by a concurrent request"),
	"uq_quotes_chain_version":         shared.NewDomainError(shared.CodeConflict, "Quote version was taken by a concurrent request"),
	"quotes.chain_id, quotes.version": shared.NewDomainError(shared.CodeConflict, "Quote version was taken by a concurrent request"),
	"uq_invoices_order":               shared.NewDomainError(shared.CodeConflict, "Order already has an invoice"),
	"invoices.order_id":               shared.NewDomainError(shared.CodeConflict, "Order already has an invoice"),
}

// translateError converts store errors into domain errors. Errors it does not
// recognise are returned unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if de, ok := uniqueViolations[pgErr.ConstraintName]; ok {
				return de
			}
			return shared.NewDomainError(shared.CodeConflict, "Resource conflicts with existing state")
		case pgForeignKeyViolation:
			return shared.NewDomainError(shared.CodeConflict, "Resource is still referenced by other records")
		case pgCheckViolation:
			return shared.NewDomainError(shared.CodeInvalidInput, "Value violates a store constraint")
		}
		return err
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewDomainError(shared.CodeConflict, "Resource conflicts with existing state")
	}
	msg := err.Error()
	if cols, ok := strings.CutPrefix(msg, "UNIQUE constraint failed: "); ok {
		if de, ok := uniqueViolations[cols]; ok {
			return de
		}
		return shared.NewDomainError(shared.CodeConflict, "Resource conflicts with existing state")
	}
	if strings.HasPrefix(msg, "FOREIGN KEY constraint failed") {
		return shared.NewDomainError(shared.CodeConflict, "Resource is still referenced by other records")
	}
	return err
}
