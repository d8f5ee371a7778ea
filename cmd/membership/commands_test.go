package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	now := func() time.Time { return time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC) }

	var out bytes.Buffer
	cmd := newRootCmd(now)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestExpireCmd(t *testing.T) {
	out, err := execute(t, "expire", "--start", "2025-01-31", "--period", "Mensual")
	require.NoError(t, err)

	assert.Contains(t, out, "monthly (Mensual)")
	assert.Contains(t, out, "2025-01-31 (membership start)")
	assert.Contains(t, out, "expires:     2025-02-28")
}

func TestExpireCmd_NoAnchor(t *testing.T) {
	out, err := execute(t, "expire")
	require.NoError(t, err)

	assert.Contains(t, out, "anchor:      missing")
	assert.Contains(t, out, "expires:     no_anchor")
	assert.Contains(t, out, "No disponible")
}

func TestStatusCmd(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "expiring soon from account creation",
			args: []string{"--created", "2025-11-01", "--period", "15 días", "--as-of", "2025-11-14"},
			want: []string{"as of:       2025-11-14", "expiring_soon (Por vencer)", "vence en 2 días"},
		},
		{
			name: "expires today counts as expired",
			args: []string{"--start", "2025-05-10", "--period", "mensual"},
			want: []string{"expired (Vencido)", "vence hoy"},
		},
		{
			name: "garbage start is unknown",
			args: []string{"--start", "ayer"},
			want: []string{"unknown (Sin información)", "No disponible"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append([]string{"status"}, tt.args...)...)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestStatusCmd_BadAsOf(t *testing.T) {
	_, err := execute(t, "status", "--as-of", "tomorrow")
	assert.Error(t, err)
}

func TestPeriodsCmd(t *testing.T) {
	out, err := execute(t, "periods")
	require.NoError(t, err)

	assert.Contains(t, out, "biweekly")
	assert.Contains(t, out, "plan-anual")
	assert.Contains(t, out, "600.00 MXN")
}
