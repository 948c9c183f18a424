package authz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinPolicies(t *testing.T) {
	e, err := New("")
	require.NoError(t, err)

	ok, err := e.Allowed([]string{"role:STAFF", "APRO_REL"}, ResourceMonthlyReports, ActionDecide)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Allowed([]string{"role:STAFF", "APRO_REL"}, ResourceWorkPlans, ActionDecide)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = e.Allowed([]string{"role:SUPERADMIN"}, ResourceCalendarConfig, ActionWrite)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Allowed(nil, ResourceCalendarConfig, ActionWrite)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAssignInheritsArea(t *testing.T) {
	e, err := New("")
	require.NoError(t, err)
	require.NoError(t, e.Assign("role:STAFF", "APRO_CAD"))

	ok, err := e.Allowed([]string{"role:STAFF"}, ResourceRegistrations, ActionDecide)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPolicyFileExtendsBuiltins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.csv")
	require.NoError(t, os.WriteFile(path, []byte("p, AUDITOR, monthly_reports, decide\n"), 0o600))

	e, err := New(path)
	require.NoError(t, err)

	ok, err := e.Allowed([]string{"AUDITOR"}, ResourceMonthlyReports, ActionDecide)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Allowed([]string{"PARAM_SIS"}, ResourceCalendarConfig, ActionWrite)
	require.NoError(t, err)
	assert.True(t, ok)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "p, AUDITOR, monthly_reports, decide\n", string(raw))
}
