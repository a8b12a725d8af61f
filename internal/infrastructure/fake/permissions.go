package fake

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Roles the fake endpoint distinguishes. A get-only connection may
// read; everything else needs the editor role.
const (
	roleReader = "reader"
	roleEditor = "editor"
)

const (
	actionRead  = "read"
	actionWrite = "write"
)

const permissionModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// methodActions maps each remote method onto the permission it needs.
// Reads work under a get-only connection, writes do not.
var methodActions = map[string]string{
	"ticket.create":           actionWrite,
	"ticket.get":              actionRead,
	"ticket.update":           actionWrite,
	"ticket.delete":           actionWrite,
	"ticket.putAttachment":    actionWrite,
	"ticket.getAttachment":    actionRead,
	"ticket.listAttachments":  actionRead,
	"ticket.deleteAttachment": actionWrite,
}

// newEnforcer builds an in-memory casbin enforcer granting the given
// user either the reader or editor role.
func newEnforcer(user string, getOnly bool) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(permissionModel)
	if err != nil {
		return nil, fmt.Errorf("failed to build permission model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}

	policies := [][]string{
		{roleReader, "ticket", actionRead},
		{roleEditor, "ticket", actionRead},
		{roleEditor, "ticket", actionWrite},
	}
	if _, err := enforcer.AddPolicies(policies); err != nil {
		return nil, fmt.Errorf("failed to add policies: %w", err)
	}

	role := roleEditor
	if getOnly {
		role = roleReader
	}
	if _, err := enforcer.AddGroupingPolicy(user, role); err != nil {
		return nil, fmt.Errorf("failed to assign role: %w", err)
	}

	return enforcer, nil
}
