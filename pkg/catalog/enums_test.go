package catalog

import "testing"

func TestParseAppType(t *testing.T) {
	tests := []struct {
		input string
		want  AppType
	}{
		{"core", AppTypeCore},
		{"feature", AppTypeFeature},
		{"tool", AppTypeTool},
		{"integration", AppTypeIntegration},
		{"microservice", AppTypeMicroservice},

		{"", AppTypeUnknown},
		{"CORE", AppTypeUnknown},
		{"monolith", AppTypeUnknown},
	}

	for _, tt := range tests {
		if got := ParseAppType(tt.input); got != tt.want {
			t.Errorf("ParseAppType(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseAppStatus(t *testing.T) {
	tests := []struct {
		input string
		want  AppStatus
	}{
		{"active", AppStatusActive},
		{"development", AppStatusDevelopment},
		{"deprecated", AppStatusDeprecated},
		{"archived", AppStatusArchived},

		{"", AppStatusUnknown},
		{"live", AppStatusUnknown},
	}

	for _, tt := range tests {
		if got := ParseAppStatus(tt.input); got != tt.want {
			t.Errorf("ParseAppStatus(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseDependencyType(t *testing.T) {
	tests := []struct {
		input string
		want  DependencyType
	}{
		{"api", DependencyTypeAPI},
		{"database", DependencyTypeDatabase},
		{"cache", DependencyTypeCache},
		{"service", DependencyTypeService},
		{"library", DependencyTypeLibrary},
		{"external", DependencyTypeExternal},

		{"", DependencyTypeOther},
		{"queue", DependencyTypeOther},
	}

	for _, tt := range tests {
		if got := ParseDependencyType(tt.input); got != tt.want {
			t.Errorf("ParseDependencyType(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseCriticality(t *testing.T) {
	tests := []struct {
		input string
		want  Criticality
	}{
		{"critical", CriticalityCritical},
		{"high", CriticalityHigh},
		{"medium", CriticalityMedium},
		{"low", CriticalityLow},
		{"optional", CriticalityOptional},

		{"", CriticalityUnknown},
		{"severe", CriticalityUnknown},
	}

	for _, tt := range tests {
		if got := ParseCriticality(tt.input); got != tt.want {
			t.Errorf("ParseCriticality(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestCriticality_Severe(t *testing.T) {
	tests := []struct {
		c    Criticality
		want bool
	}{
		{CriticalityCritical, true},
		{CriticalityHigh, true},
		{CriticalityMedium, false},
		{CriticalityLow, false},
		{CriticalityOptional, false},
		{CriticalityUnknown, false},
	}

	for _, tt := range tests {
		if got := tt.c.Severe(); got != tt.want {
			t.Errorf("Criticality(%q).Severe() = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestUnknownFallbacksAreNotKnown(t *testing.T) {
	if AppTypeUnknown.Known() {
		t.Error("AppTypeUnknown.Known() = true, want false")
	}
	if AppStatusUnknown.Known() {
		t.Error("AppStatusUnknown.Known() = true, want false")
	}
	if DependencyTypeOther.Known() {
		t.Error("DependencyTypeOther.Known() = true, want false")
	}
	if CriticalityUnknown.Known() {
		t.Error("CriticalityUnknown.Known() = true, want false")
	}
}
