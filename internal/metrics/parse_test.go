package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCPUTemp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"sensors output", "+88.0°C", 88.0, false},
		{"no sign", "45.5°C", 45.5, false},
		{"bare number", "72", 72, false},
		{"surrounding whitespace", "  +61.0°C\n", 61.0, false},
		{"empty", "", 0, true},
		{"garbage", "N/A", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCPUTemp(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMaxGPUTemp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"single gpu", "65", 65},
		{"multi gpu takes max", "65\n82\n71", 82},
		{"blank lines skipped", "\n65\n\n", 65},
		{"unparseable lines skipped", "65\nN/A\n70", 70},
		{"empty is sentinel", "", 0},
		{"all garbage is sentinel", "No devices were found", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMaxGPUTemp(tt.input))
		})
	}
}

func TestParseUptime(t *testing.T) {
	got, err := ParseUptime("123456.78 987654.32")
	require.NoError(t, err)
	assert.Equal(t, 123456.78, got)

	_, err = ParseUptime("")
	assert.Error(t, err)

	_, err = ParseUptime("not-a-number idle")
	assert.Error(t, err)
}

func TestParseGpuProcesses(t *testing.T) {
	out := "4242, python, 11264\n4343, train.py, 2048\nmalformed line\n"
	procs := ParseGpuProcesses(out)

	require.Len(t, procs, 2)
	assert.Equal(t, GpuProcess{PID: "4242", Username: "unknown", ProcessName: "python", GpuMemMB: "11264"}, procs[0])
	assert.Equal(t, GpuProcess{PID: "4343", Username: "unknown", ProcessName: "train.py", GpuMemMB: "2048"}, procs[1])

	assert.Empty(t, ParseGpuProcesses(""))
}
