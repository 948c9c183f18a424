package authz

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
)

// Resources guarded by access profile areas.
const (
	ResourceMonthlyReports = "monthly_reports"
	ResourceRegistrations  = "registrations"
	ResourceWorkPlans      = "work_plans"
	ResourceCalendarConfig = "calendar_config"
)

// Actions on resources.
const (
	ActionDecide = "decide"
	ActionWrite  = "write"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// builtinPolicies map access profile areas to the workflow permissions they grant.
var builtinPolicies = [][]string{
	{"APRO_REL", ResourceMonthlyReports, ActionDecide},
	{"APRO_CAD", ResourceRegistrations, ActionDecide},
	{"APRO_PT", ResourceWorkPlans, ActionDecide},
	{"PARAM_SIS", ResourceCalendarConfig, ActionWrite},
	{"role:SUPERADMIN", "*", "*"},
}

// Enforcer answers whether a caller's subjects (role and areas) grant an action.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// New builds the enforcer with the built-in policy. A non-empty policyFile is
// loaded first and extended with the built-ins; the file is never written back.
func New(policyFile string) (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("parse authz model: %w", err)
	}

	var e *casbin.SyncedEnforcer
	if policyFile != "" {
		e, err = casbin.NewSyncedEnforcer(m, fileadapter.NewAdapter(policyFile))
	} else {
		e, err = casbin.NewSyncedEnforcer(m)
	}
	if err != nil {
		return nil, fmt.Errorf("build authz enforcer: %w", err)
	}
	e.EnableAutoSave(false)

	// AddPolicy reports false without error for rules the file already holds.
	for _, rule := range builtinPolicies {
		if _, err := e.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
			return nil, fmt.Errorf("add authz policy %v: %w", rule, err)
		}
	}
	return &Enforcer{enforcer: e}, nil
}

// Allowed reports whether any of subjects may perform action on resource.
func (e *Enforcer) Allowed(subjects []string, resource, action string) (bool, error) {
	for _, sub := range subjects {
		ok, err := e.enforcer.Enforce(sub, resource, action)
		if err != nil {
			return false, fmt.Errorf("enforce %s %s %s: %w", sub, resource, action, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Grant adds a policy at runtime.
func (e *Enforcer) Grant(subject, resource, action string) error {
	_, err := e.enforcer.AddPolicy(subject, resource, action)
	return err
}

// Assign makes member inherit the permissions of group, e.g. a role inheriting an area.
func (e *Enforcer) Assign(member, group string) error {
	_, err := e.enforcer.AddGroupingPolicy(member, group)
	return err
}
