package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_Error(t *testing.T) {
	var d Diagnostics

	assert.True(t, d.IsValid())
	require.NoError(t, d.Error())

	d.AddWarning("unused_type", "type is never referenced", "Statement", "")
	assert.False(t, d.HasErrors())

	d.AddError("unknown_field", "unknown field \"bankCod\"", "DEBBAN", "bankCod", "bankCode")
	d.AddError("bad_pattern", "unterminated placeholder", "IBAN", "")

	require.Error(t, d.Error())
	assert.Equal(t,
		`[DEBBAN] bankCod: [unknown_field] unknown field "bankCod" (did you mean bankCode?); [IBAN]: [bad_pattern] unterminated placeholder`,
		d.Error().Error())
	assert.Len(t, d.All(), 3)
}

func TestDiagnostics_Merge(t *testing.T) {
	var a, b Diagnostics

	a.AddInfo("scaffold", "generated", "", "")
	b.AddError("x", "y", "", "")
	b.AddWarning("w", "v", "", "")

	a.Merge(b)

	assert.Len(t, a.Errors, 1)
	assert.Len(t, a.Warnings, 1)
	assert.Len(t, a.Infos, 1)
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "unknown", Severity(42).String())
}
