package executor

import (
	"reflect"
	"testing"
)

func TestPlaceholderNames(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		expected []string
	}{
		{"no placeholders", "ls -la", nil},
		{"single placeholder", "ping {{HOST}}", []string{"HOST"}},
		{"multiple placeholders", "scp {{SRC}} {{DST}}", []string{"SRC", "DST"}},
		{"repeated placeholder listed once", "echo {{A}} {{B}} {{A}}", []string{"A", "B"}},
		{"underscores and digits", "kubectl logs {{POD_NAME_2}}", []string{"POD_NAME_2"}},
		{"lowercase is not a placeholder", "echo {{host}}", nil},
		{"unclosed braces ignored", "echo {{HOST", nil},
		{"single braces ignored", "echo {HOST}", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := placeholderNames(tt.command)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		names    []string
		values   map[string]string
		expected string
	}{
		{
			name:     "every occurrence replaced",
			command:  "echo {{A}} and {{A}}",
			names:    []string{"A"},
			values:   map[string]string{"A": "x"},
			expected: "echo x and x",
		},
		{
			name:     "multiple variables",
			command:  "scp {{SRC}} {{HOST}}:{{DST}}",
			names:    []string{"SRC", "HOST", "DST"},
			values:   map[string]string{"SRC": "a.txt", "HOST": "web1", "DST": "/tmp"},
			expected: "scp a.txt web1:/tmp",
		},
		{
			name:     "empty value accepted",
			command:  "grep {{PATTERN}} file",
			names:    []string{"PATTERN"},
			values:   map[string]string{"PATTERN": ""},
			expected: "grep  file",
		},
		{
			name:     "missing value becomes empty",
			command:  "echo {{A}}",
			names:    []string{"A"},
			values:   map[string]string{},
			expected: "echo ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := substitute(tt.command, tt.names, tt.values)
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}
