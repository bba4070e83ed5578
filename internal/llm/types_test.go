package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/qcmd/q/internal/config"
	qerrors "github.com/qcmd/q/internal/errors"
	"github.com/qcmd/q/internal/prompt"
	"github.com/qcmd/q/internal/sysinfo"
)

func TestSuggestionJSON(t *testing.T) {
	testCases := []struct {
		name     string
		payload  string
		expected Suggestion
	}{
		{
			name:    "Complete suggestion",
			payload: `{"command":"ls -la","explanation":"Lists files in long format","warning":"none needed"}`,
			expected: Suggestion{
				Command:     "ls -la",
				Explanation: "Lists files in long format",
				Warning:     "none needed",
			},
		},
		{
			name:    "Null warning means safe",
			payload: `{"command":"pwd","explanation":"Prints the working directory","warning":null}`,
			expected: Suggestion{
				Command:     "pwd",
				Explanation: "Prints the working directory",
				Warning:     "",
			},
		},
		{
			name:    "Missing warning means safe",
			payload: `{"command":"date","explanation":"Shows the date"}`,
			expected: Suggestion{
				Command:     "date",
				Explanation: "Shows the date",
				Warning:     "",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var s Suggestion
			if err := json.Unmarshal([]byte(tc.payload), &s); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if s != tc.expected {
				t.Errorf("Expected %+v, got %+v", tc.expected, s)
			}
		})
	}
}

// MockProvider implements the Provider interface for testing
type MockProvider struct {
	suggestion    *Suggestion
	generateErr   error
	connectionErr error
}

func (m *MockProvider) GenerateCommand(ctx context.Context, query string, sysCtx *sysinfo.SystemContext) (*Suggestion, error) {
	return m.suggestion, m.generateErr
}

func (m *MockProvider) VerifyConnection(ctx context.Context) error {
	return m.connectionErr
}

func TestProvider(t *testing.T) {
	mockProvider := &MockProvider{
		suggestion: &Suggestion{
			Command:     "df -h",
			Explanation: "Shows disk usage",
		},
	}

	ctx := context.Background()
	sysCtx := &sysinfo.SystemContext{OS: "linux", Shell: "bash", WorkingDir: "/tmp"}

	suggestion, err := mockProvider.GenerateCommand(ctx, "show disk usage", sysCtx)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if suggestion.Command != "df -h" {
		t.Errorf("Expected 'df -h', got '%s'", suggestion.Command)
	}
	if suggestion.Warning != "" {
		t.Errorf("Expected no warning, got '%s'", suggestion.Warning)
	}

	if err := mockProvider.VerifyConnection(ctx); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestProviderRegistry(t *testing.T) {
	// Test provider registration
	testFactoryName := "test-provider"
	testFactory := func(cfg config.ProviderSettings, pm *prompt.Manager) (Provider, error) {
		return &MockProvider{}, nil
	}

	// Register provider
	RegisterProvider(testFactoryName, testFactory)

	// Test getting registered provider
	provider, err := GetProvider(testFactoryName, config.ProviderSettings{}, nil)
	if err != nil {
		t.Errorf("Expected no error getting registered provider, got %v", err)
	}
	if provider == nil {
		t.Error("Expected non-nil provider")
	}

	// Test getting unknown provider
	_, err = GetProvider("unknown-provider", config.ProviderSettings{}, nil)
	if err == nil {
		t.Error("Expected error for unknown provider")
	}
	if !qerrors.HasCode(err, qerrors.ErrProviderNotFound) {
		t.Errorf("Expected PROVIDER_NOT_FOUND code, got %v", err)
	}
	qErr, _ := qerrors.GetQError(err)
	expectedMessage := "Unsupported provider: unknown-provider"
	if qErr.Message != expectedMessage {
		t.Errorf("Expected message '%s', got '%s'", expectedMessage, qErr.Message)
	}
}

func TestProviderWithError(t *testing.T) {
	// Test provider factory that returns error
	errorProviderName := "error-provider"
	expectedError := "factory error"

	RegisterProvider(errorProviderName, func(cfg config.ProviderSettings, pm *prompt.Manager) (Provider, error) {
		return nil, fmt.Errorf("%s", expectedError)
	})

	provider, err := GetProvider(errorProviderName, config.ProviderSettings{}, nil)
	if err == nil {
		t.Error("Expected error from provider factory")
	}
	if err.Error() != expectedError {
		t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
	}
	if provider != nil {
		t.Error("Expected nil provider when factory returns error")
	}
}
