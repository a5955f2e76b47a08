package dbtour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    Command
		opts    Options
		wantErr error
	}{
		{
			name: "list",
			args: []string{"list"},
			want: &ListCommand{},
			opts: Options{EnvFile: ".env"},
		},
		{
			name: "run all",
			args: []string{"run"},
			want: &RunCommand{Tours: []string{}},
			opts: Options{EnvFile: ".env"},
		},
		{
			name: "run named with flags",
			args: []string{"-config", "dbtour.yaml", "-env-file", "", "-log-level", "debug", "-log-format", "json", "-keep-going", "run", "keyvalue", "graph"},
			want: &RunCommand{Tours: []string{"keyvalue", "graph"}, KeepGoing: true},
			opts: Options{ConfigPath: "dbtour.yaml", LogLevel: "debug", LogFormat: "json"},
		},
		{
			name: "ping",
			args: []string{"ping", "relational"},
			want: &PingCommand{Tours: []string{"relational"}},
			opts: Options{EnvFile: ".env"},
		},
		{
			name:    "missing command",
			args:    []string{"-log-level", "debug"},
			wantErr: ErrNoCommand,
		},
		{
			name:    "unknown command",
			args:    []string{"migrate"},
			wantErr: ErrUnknownCommand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, opts, err := Parse(tt.args)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, err.Error(), "Usage: dbtour")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd)
			assert.Equal(t, tt.opts, *opts)
		})
	}
}

func TestParseListRejectsArguments(t *testing.T) {
	_, _, err := Parse([]string{"list", "keyvalue"})
	require.Error(t, err)
}

func TestParseUnknownFlag(t *testing.T) {
	_, _, err := Parse([]string{"-verbose", "run"})
	require.Error(t, err)
}
