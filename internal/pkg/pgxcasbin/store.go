package pgxcasbin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/samber/lo"
)

const (
	fieldCount       = 6
	defaultTableName = "casbin_rule"
)

// Commander defines the pgx operations required by the adapter store.
type Commander interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type store struct {
	db        Commander
	tableName string
	columns   string
}

func newStore(db Commander) *store {
	return &store{
		db:        db,
		tableName: defaultTableName,
		columns: strings.Join(lo.Times(fieldCount, func(i int) string {
			return "v" + strconv.Itoa(i)
		}), ", "),
	}
}

func (s *store) selectAll(ctx context.Context) ([][]string, error) {
	rows, err := s.db.Query(ctx, fmt.Sprintf("SELECT ptype, %s FROM %s ORDER BY id", s.columns, s.tableName))
	if err != nil {
		return nil, errors.Join(ErrQuery, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		row := make([]pgtype.Text, fieldCount+1)
		if err := rows.Scan(lo.Map(row, func(_ pgtype.Text, i int) any { return &row[i] })...); err != nil {
			return nil, errors.Join(ErrQuery, err)
		}
		out = append(out, trimTrailingEmpty(lo.Map(row, func(t pgtype.Text, _ int) string { return t.String })))
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrQuery, err)
	}
	return out, nil
}

func (s *store) insert(ctx context.Context, db Commander, ptype string, rule []string) error {
	values, err := normalizeRule(rule)
	if err != nil {
		return err
	}

	placeholders := strings.Join(lo.Times(fieldCount, func(i int) string {
		return "$" + strconv.Itoa(i+2)
	}), ", ")
	query := fmt.Sprintf("INSERT INTO %[1]s (ptype, %[2]s) VALUES ($1, %[3]s) ON CONFLICT (ptype, %[2]s) DO NOTHING",
		s.tableName, s.columns, placeholders)

	if _, err := db.Exec(ctx, query, lo.ToAnySlice(append([]string{ptype}, values...))...); err != nil {
		return errors.Join(ErrQuery, err)
	}
	return nil
}

// deleteWhere removes rows of ptype whose columns from startIdx on equal the
// non-empty args.
func (s *store) deleteWhere(ctx context.Context, ptype string, startIdx int, args ...string) error {
	if len(args) > fieldCount-startIdx {
		return fmt.Errorf("%w: %d > %d", ErrArgsTooLong, len(args), fieldCount-startIdx)
	}

	conds := []string{"ptype = $1"}
	params := []any{ptype}
	for i, arg := range args {
		if arg == "" {
			continue
		}
		params = append(params, arg)
		conds = append(conds, "v"+strconv.Itoa(startIdx+i)+" = $"+strconv.Itoa(len(params)))
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s", s.tableName, strings.Join(conds, " AND "))
	if _, err := s.db.Exec(ctx, query, params...); err != nil {
		return errors.Join(ErrQuery, err)
	}
	return nil
}

func (s *store) replaceAll(ctx context.Context, rules [][]string) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return errors.Join(ErrQuery, err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = errors.Join(err, rbErr)
			}
		}
	}()

	if _, err = tx.Exec(ctx, "DELETE FROM "+s.tableName); err != nil {
		return errors.Join(ErrQuery, err)
	}

	for _, rule := range rules {
		if len(rule) == 0 {
			return ErrRuleEmpty
		}
		if err = s.insert(ctx, tx, rule[0], rule[1:]); err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return errors.Join(ErrQuery, err)
	}
	return nil
}

func normalizeRule(rule []string) ([]string, error) {
	if len(rule) > fieldCount {
		return nil, fmt.Errorf("%w: %d > %d", ErrRuleTooLong, len(rule), fieldCount)
	}
	out := make([]string, fieldCount)
	copy(out, rule)
	return out, nil
}

func trimTrailingEmpty(rule []string) []string {
	last := len(rule) - 1
	for last >= 0 && rule[last] == "" {
		last--
	}
	return rule[:last+1]
}
