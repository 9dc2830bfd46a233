package repository

import (
	"errors"
	"testing"

	"github.com/Lugier/M-A-CRM-sub001/platform/apperr"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapDeleteErrorForeignKeyViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503", ConstraintName: "tasks_deal_id_fkey"}

	err := mapDeleteError("tasks", pgErr)
	if apperr.GetKind(err) != apperr.KindDependency {
		t.Fatalf("expected dependency error for FK violation, got %v", err)
	}
}

func TestMapDeleteErrorWrappedForeignKeyViolation(t *testing.T) {
	wrapped := errors.Join(errors.New("exec failed"), &pgconn.PgError{Code: "23503"})

	err := mapDeleteError("documents", wrapped)
	if apperr.GetKind(err) != apperr.KindDependency {
		t.Fatalf("expected dependency error through wrapping, got %v", err)
	}
}

func TestMapDeleteErrorOtherFailuresAreInternal(t *testing.T) {
	cases := []error{
		errors.New("connection reset"),
		&pgconn.PgError{Code: "23505"},
	}
	for _, cause := range cases {
		err := mapDeleteError("deals", cause)
		if apperr.GetKind(err) != apperr.KindInternal {
			t.Fatalf("mapDeleteError(%v): expected internal error, got %v", cause, err)
		}
	}
}

func TestDealChildTablesOrder(t *testing.T) {
	// Every dependent table must be cleared before the deal row; the ledger
	// goes first so a failed cascade never leaves a deal without history.
	want := []string{
		"deal_stage_history",
		"investor_relations",
		"tasks",
		"activities",
		"documents",
	}

	if len(dealChildTables) != len(want) {
		t.Fatalf("dealChildTables = %v, want %v", dealChildTables, want)
	}
	for i, table := range want {
		if dealChildTables[i] != table {
			t.Fatalf("dealChildTables[%d] = %s, want %s", i, dealChildTables[i], table)
		}
	}
	for _, table := range dealChildTables {
		if table == "deals" {
			t.Fatal("deals must only be deleted after its child tables")
		}
	}
}
