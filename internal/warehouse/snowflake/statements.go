// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package snowflake

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/jeranaias/icewarden/internal/warehouse"
)

// Statements are built with bind parameters throughout. Account names reach
// DDL through IDENTIFIER(?), never by concatenation.

const (
	showUsersSQL                = "SHOW USERS"
	showSecurityIntegrationsSQL = "SHOW SECURITY INTEGRATIONS"
)

func abortSessionStmt(id int64) sq.Sqlizer {
	return sq.Select().Column(sq.Expr("SYSTEM$ABORT_SESSION(?)", id))
}

func revokeAuthorizationStmt(name, scope string) sq.Sqlizer {
	return sq.Select().Column(sq.Expr("SYSTEM$REMOVE_ALL_DELEGATED_AUTHORIZATIONS(?, ?)", name, scope))
}

func disableUserStmt(name string) sq.Sqlizer {
	return sq.Expr("ALTER USER IDENTIFIER(?) SET DISABLED = TRUE", name)
}

func abortQueriesStmt(name string) sq.Sqlizer {
	return sq.Expr("ALTER USER IDENTIFIER(?) ABORT ALL QUERIES", name)
}

// setPasswordStmt inlines the password as an escaped literal; Snowflake does
// not accept a bind parameter for the property value.
func setPasswordStmt(name, secret string) sq.Sqlizer {
	return sq.Expr("ALTER USER IDENTIFIER(?) SET PASSWORD = "+quoteLiteral(secret), name)
}

func clearPublicKeyStmt(name string, slot warehouse.KeySlot) sq.Sqlizer {
	return sq.Expr("ALTER USER IDENTIFIER(?) UNSET "+slot.String(), name)
}

// quoteLiteral renders s as a single-quoted string literal.
func quoteLiteral(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}
