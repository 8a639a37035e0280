package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/util"
	"github.com/jmoiron/sqlx"
	sqlxadapter "github.com/memwey/casbin-sqlx-adapter"
)

// Model is the RBAC model: subjects inherit roles through g, objects are
// URL paths matched with keyMatch2 and "*" grants every method.
const Model = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// NewEnforcer creates a Casbin enforcer whose policies live in the
// casbin_rule table of the application database.
func NewEnforcer(db *sqlx.DB) (*casbin.Enforcer, error) {
	adapter := sqlxadapter.NewAdapterFromOptions(&sqlxadapter.AdapterOptions{
		DB:        db,
		TableName: "casbin_rule",
	})

	m, err := model.NewModelFromString(Model)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load policies: %w", err)
	}
	return enforcer, nil
}
