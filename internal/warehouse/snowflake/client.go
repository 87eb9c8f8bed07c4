// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package snowflake

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/snowflakedb/gosnowflake"
	"go.uber.org/zap"

	"github.com/jeranaias/icewarden/internal/model"
	"github.com/jeranaias/icewarden/internal/warehouse"
)

// Error numbers that mean the session itself is gone.
var sessionLostCodes = map[int]bool{
	390112: true, // session no longer exists
	390114: true, // authentication token expired
	390111: true, // session no longer exists, new login required
}

// Dialer opens Snowflake clients.
type Dialer struct {
	cfg        Config
	log        *zap.Logger
	httpClient *http.Client
}

// DialerOption is a functional option for configuring a Dialer.
type DialerOption func(*Dialer)

// WithHTTPClient sets the HTTP client used for the REST API.
func WithHTTPClient(c *http.Client) DialerOption {
	return func(d *Dialer) {
		d.httpClient = c
	}
}

// NewDialer returns a Dialer for cfg.
func NewDialer(cfg Config, log *zap.Logger, opts ...DialerOption) *Dialer {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dialer{cfg: cfg, log: log.Named("snowflake")}
	for _, opt := range opts {
		opt(d)
	}

	// The driver logs to stderr on its own; keep it quiet unless debugging.
	driverLevel := "error"
	if log.Core().Enabled(zap.DebugLevel) {
		driverLevel = "info"
	}
	_ = gosnowflake.GetLogger().SetLogLevel(driverLevel)
	return d
}

// Connect opens a SQL session and pings it. The REST session used for
// listing sessions is opened on first use.
func (d *Dialer) Connect(ctx context.Context) (warehouse.Client, error) {
	if err := d.cfg.Validate(); err != nil {
		return nil, &warehouse.ConnectionError{Op: "connect", Err: err}
	}

	sfCfg := gosnowflake.Config{
		Account:      d.cfg.Account,
		User:         d.cfg.User,
		Password:     d.cfg.Password,
		Role:         d.cfg.Role,
		Warehouse:    d.cfg.Warehouse,
		LoginTimeout: d.cfg.timeout(),
	}
	if d.cfg.Host != "" && !strings.Contains(d.cfg.Host, "://") {
		sfCfg.Host = d.cfg.Host
	}
	passcode, err := d.cfg.passcode(time.Now())
	if err != nil {
		return nil, &warehouse.ConnectionError{Op: "connect", Err: err}
	}
	if passcode != "" {
		sfCfg.Authenticator = gosnowflake.AuthTypeUsernamePasswordMFA
		sfCfg.Passcode = passcode
	}

	db := sql.OpenDB(gosnowflake.NewConnector(gosnowflake.SnowflakeDriver{}, sfCfg))
	// One administrative session per client.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &warehouse.ConnectionError{Op: "connect", Err: err}
	}
	d.log.Debug("SQL session opened", zap.String("account", d.cfg.Account), zap.String("role", d.cfg.Role))

	return &Client{db: db, cfg: d.cfg, httpClient: d.httpClient, log: d.log}, nil
}

// Client is an open administrative session.
type Client struct {
	db         *sql.DB
	cfg        Config
	httpClient *http.Client
	rest       *restSession
	log        *zap.Logger
}

// FetchSessions lists active sessions through the monitoring endpoint.
func (c *Client) FetchSessions(ctx context.Context) ([]model.Session, error) {
	if c.rest == nil {
		rest, err := loginREST(ctx, c.cfg, c.httpClient, c.log)
		if err != nil {
			return nil, err
		}
		c.rest = rest
	}
	return c.rest.sessions(ctx)
}

// FetchUsers runs SHOW USERS.
func (c *Client) FetchUsers(ctx context.Context) ([]model.User, error) {
	rows, err := c.query(ctx, "fetch users", "", sq.Expr(showUsersSQL))
	if err != nil {
		return nil, err
	}
	return usersFromRows(rows)
}

// usersFromRows maps SHOW USERS rows. A last login that is present but
// unparseable is an error, never "never logged in".
func usersFromRows(rows []map[string]string) ([]model.User, error) {
	users := make([]model.User, 0, len(rows))
	for _, r := range rows {
		u := model.User{
			Name:            r["name"],
			Email:           r["email"],
			Disabled:        parseBool(r["disabled"]),
			HasPassword:     parseBool(r["has_password"]),
			HasRSAPublicKey: parseBool(r["has_rsa_public_key"]),
		}
		last, err := parseTime(r["last_success_login"])
		if err != nil {
			return nil, &warehouse.CallError{Op: "fetch users", Target: u.Name, Err: err}
		}
		u.LastSuccessLogin = last
		users = append(users, u)
	}
	return users, nil
}

// AbortSession calls SYSTEM$ABORT_SESSION. A NULL result means the kill was
// not confirmed.
func (c *Client) AbortSession(ctx context.Context, id int64) (bool, error) {
	target := strconv.FormatInt(id, 10)
	query, args, err := abortSessionStmt(id).ToSql()
	if err != nil {
		return false, &warehouse.CallError{Op: "abort session", Target: target, Err: err}
	}
	var res sql.NullString
	if err := c.db.QueryRowContext(ctx, query, args...).Scan(&res); err != nil {
		return false, classify("abort session", target, err)
	}
	c.log.Info("session abort requested", zap.Int64("session_id", id), zap.Bool("confirmed", res.Valid))
	return res.Valid, nil
}

// DisableUser sets DISABLED = TRUE.
func (c *Client) DisableUser(ctx context.Context, name string) error {
	return c.exec(ctx, "disable user", name, disableUserStmt(name))
}

// AbortUserQueries aborts every running query of the account.
func (c *Client) AbortUserQueries(ctx context.Context, name string) error {
	return c.exec(ctx, "abort queries", name, abortQueriesStmt(name))
}

// RevokeDelegatedAuthorization calls SYSTEM$REMOVE_ALL_DELEGATED_AUTHORIZATIONS.
func (c *Client) RevokeDelegatedAuthorization(ctx context.Context, name, scope string) error {
	_, err := c.query(ctx, "revoke authorization "+scope, name, revokeAuthorizationStmt(name, scope))
	return err
}

// ListSecurityIntegrations runs SHOW SECURITY INTEGRATIONS.
func (c *Client) ListSecurityIntegrations(ctx context.Context) ([]string, error) {
	rows, err := c.query(ctx, "list security integrations", "", sq.Expr(showSecurityIntegrationsSQL))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		if n := r["name"]; n != "" {
			names = append(names, n)
		}
	}
	return names, nil
}

// SetPassword replaces the account password.
func (c *Client) SetPassword(ctx context.Context, name, secret string) error {
	return c.exec(ctx, "set password", name, setPasswordStmt(name, secret))
}

// ClearPublicKey unsets one public key.
func (c *Client) ClearPublicKey(ctx context.Context, name string, slot warehouse.KeySlot) error {
	return c.exec(ctx, "unset "+slot.String(), name, clearPublicKeyStmt(name, slot))
}

// Close ends the REST session, if any, and the SQL session.
func (c *Client) Close() error {
	if c.rest != nil {
		c.rest.close()
		c.rest = nil
	}
	return c.db.Close()
}

func (c *Client) exec(ctx context.Context, op, target string, stmt sq.Sqlizer) error {
	query, args, err := stmt.ToSql()
	if err != nil {
		return &warehouse.CallError{Op: op, Target: target, Err: err}
	}
	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return classify(op, target, err)
	}
	c.log.Info("statement executed", zap.String("op", op), zap.String("user", target))
	return nil
}

// query runs stmt and returns every row keyed by lower-cased column name.
func (c *Client) query(ctx context.Context, op, target string, stmt sq.Sqlizer) ([]map[string]string, error) {
	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, &warehouse.CallError{Op: op, Target: target, Err: err}
	}
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(op, target, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, classify(op, target, err)
	}

	var out []map[string]string
	vals := make([]sql.NullString, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, classify(op, target, err)
		}
		row := make(map[string]string, len(cols))
		for i, col := range cols {
			row[strings.ToLower(col)] = vals[i].String
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, target, err)
	}
	return out, nil
}

// classify wraps a driver error as connection-level or call-level.
func classify(op, target string, err error) error {
	if isConnectionFailure(err) {
		return &warehouse.ConnectionError{Op: op, Err: err}
	}
	return &warehouse.CallError{Op: op, Target: target, Err: err}
}

func isConnectionFailure(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var sfErr *gosnowflake.SnowflakeError
	if errors.As(err, &sfErr) && sessionLostCodes[sfErr.Number] {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(s))
	return b
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.000 -0700",
	"2006-01-02 15:04:05.999999999 -0700 MST",
}

// parseTime parses a timestamp column. An empty value is nil.
func parseTime(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognised timestamp %q", s)
}
