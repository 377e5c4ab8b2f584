// Package pgxcasbin stores casbin policies in PostgreSQL through pgx.
package pgxcasbin

import (
	"context"

	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/persist"
	"github.com/samber/lo"
)

// Adapter loads and persists casbin policy rows.
type Adapter struct {
	store *store
}

var (
	_ persist.Adapter        = (*Adapter)(nil)
	_ persist.ContextAdapter = (*Adapter)(nil)
)

// Option configures an Adapter.
type Option func(*Adapter)

// WithTableName overrides the default rule table name.
func WithTableName(tableName string) Option {
	return func(a *Adapter) {
		a.store.tableName = lo.SnakeCase(tableName)
	}
}

// NewAdapter returns an Adapter over db. The rule table must already exist.
func NewAdapter(db Commander, opts ...Option) *Adapter {
	a := &Adapter{store: newStore(db)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) LoadPolicyCtx(ctx context.Context, m model.Model) error {
	lines, err := a.store.selectAll(ctx)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if err := persist.LoadPolicyArray(line, m); err != nil {
			return err
		}
	}
	return nil
}

func (a *Adapter) SavePolicyCtx(ctx context.Context, m model.Model) error {
	var rules [][]string
	for _, sec := range []string{"p", "g"} {
		for ptype, ast := range m[sec] {
			for _, rule := range ast.Policy {
				rules = append(rules, append([]string{ptype}, rule...))
			}
		}
	}
	return a.store.replaceAll(ctx, rules)
}

func (a *Adapter) AddPolicyCtx(ctx context.Context, _, ptype string, rule []string) error {
	return a.store.insert(ctx, a.store.db, ptype, rule)
}

func (a *Adapter) RemovePolicyCtx(ctx context.Context, _, ptype string, rule []string) error {
	return a.store.deleteWhere(ctx, ptype, 0, rule...)
}

func (a *Adapter) RemoveFilteredPolicyCtx(ctx context.Context, _, ptype string, fieldIndex int, fieldValues ...string) error {
	return a.store.deleteWhere(ctx, ptype, fieldIndex, fieldValues...)
}

func (a *Adapter) LoadPolicy(m model.Model) error {
	return a.LoadPolicyCtx(context.Background(), m)
}

func (a *Adapter) SavePolicy(m model.Model) error {
	return a.SavePolicyCtx(context.Background(), m)
}

func (a *Adapter) AddPolicy(sec, ptype string, rule []string) error {
	return a.AddPolicyCtx(context.Background(), sec, ptype, rule)
}

func (a *Adapter) RemovePolicy(sec, ptype string, rule []string) error {
	return a.RemovePolicyCtx(context.Background(), sec, ptype, rule)
}

func (a *Adapter) RemoveFilteredPolicy(sec, ptype string, fieldIndex int, fieldValues ...string) error {
	return a.RemoveFilteredPolicyCtx(context.Background(), sec, ptype, fieldIndex, fieldValues...)
}
