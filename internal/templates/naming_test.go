package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPascalCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello_world", "HelloWorld"},
		{"app", "App"},
		{"", ""},
		{"my-cool app", "MyCoolApp"},
		{"__a__b__", "AB"},
		{"already_Pascal", "AlreadyPascal"},
		{"v2_api", "V2Api"},
		{"_", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, PascalCase(tt.in))
		})
	}
}

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"web", "web"},
		{"My App", "my_app"},
		{"my-app", "my_app"},
		{"a--b", "a_b"},
		{"trailing-", "trailing"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SnakeCase(tt.in))
		})
	}
}

func TestNamespace(t *testing.T) {
	assert.Equal(t, "demo_common", Namespace("demo", "common"))
	assert.Equal(t, "my_app_web_ui", Namespace("my-app", "web-ui"))
	assert.Equal(t, "web", Namespace("", "web"))
	assert.Equal(t, "demo", Namespace("demo", ""))
}

func TestValidateComponentName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"web", false},
		{"web-ui", false},
		{"api_v2", false},
		{"", true},
		{"2fast", true},
		{"has space", true},
		{"a/b", true},
		{"crate", true},
		{"self", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateComponentName(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDeriveVariables(t *testing.T) {
	vars := DeriveVariables("my-app", "web_ui")

	assert.Equal(t, "my-app", vars[VarProjectName])
	assert.Equal(t, "my_app", vars[VarProjectNameSnake])
	assert.Equal(t, "MyApp", vars[VarProjectNamePascal])
	assert.Equal(t, "web_ui", vars[VarComponentName])
	assert.Equal(t, "WebUi", vars[VarComponentNamePascal])
	assert.Equal(t, "my_app_web_ui", vars[VarCrateName])

	assert.Equal(t, vars, DeriveVariables("my-app", "web_ui"))
}

func TestVariablesMerge(t *testing.T) {
	base := Variables{"a": "1", "b": "2"}
	merged := base.Merge(Variables{"b": "3"}, Variables{"c": "4"})

	assert.Equal(t, Variables{"a": "1", "b": "3", "c": "4"}, merged)
	assert.Equal(t, "2", base["b"], "merge must not mutate the receiver")
	assert.Equal(t, []string{"a", "b", "c"}, merged.Keys())
}
